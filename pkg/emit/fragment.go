package emit

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gnana997/propgen/pkg/metadata"
)

// Fragment categories, in output order.
const (
	CategoryComponents = "Components"
	CategoryLayouts    = "Layouts"
	CategoryBeta       = "Beta"
)

// UnknownGroup names the group of components outside the known layout.
const UnknownGroup = "Unknown"

// Fragment is one labelled usage example.
type Fragment struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// FragmentGroup collects the fragments of one source directory.
type FragmentGroup struct {
	Group    string     `json:"group"`
	Children []Fragment `json:"children"`
}

// Category is one top-level fragment category.
type Category struct {
	Category      string          `json:"category"`
	CodeFragments []FragmentGroup `json:"codeFragments"`
}

// categoryRule maps a path marker to a category and the pattern whose
// first group names the fragment group.
type categoryRule struct {
	marker   string
	category string
	group    *regexp.Regexp
}

var componentsGroup = regexp.MustCompile(`/src/components/(.*?)/`)

var categoryRules = []categoryRule{
	{"/experimental/", CategoryBeta, regexp.MustCompile(`/src/experimental/.*/(.*?)/`)},
	{"/beta/", CategoryBeta, regexp.MustCompile(`/src/beta/(.*?)/`)},
	{"/components/", CategoryComponents, componentsGroup},
	{"/layouts/", CategoryLayouts, regexp.MustCompile(`/src/layouts/(.*?)/`)},
}

// Classify returns the category and group for a component file path.
func Classify(path string) (category, group string) {
	path = filepath.ToSlash(path)
	category, pattern := CategoryComponents, componentsGroup
	for _, rule := range categoryRules {
		if strings.Contains(path, rule.marker) {
			category, pattern = rule.category, rule.group
			break
		}
	}
	group = UnknownGroup
	if m := pattern.FindStringSubmatch(path); len(m) > 1 && m[1] != "" {
		group = m[1]
	}
	return category, group
}

// BuildCategories groups component fragments by category and group.
// Every category is present, empty or not.
func BuildCategories(components []metadata.Component, withComments bool) []Category {
	categories := []Category{
		{Category: CategoryComponents, CodeFragments: []FragmentGroup{}},
		{Category: CategoryLayouts, CodeFragments: []FragmentGroup{}},
		{Category: CategoryBeta, CodeFragments: []FragmentGroup{}},
	}
	index := map[string]int{CategoryComponents: 0, CategoryLayouts: 1, CategoryBeta: 2}

	for _, c := range components {
		name, groupName := Classify(c.FilePath)
		cat := &categories[index[name]]

		var group *FragmentGroup
		for i := range cat.CodeFragments {
			if cat.CodeFragments[i].Group == groupName {
				group = &cat.CodeFragments[i]
				break
			}
		}
		if group == nil {
			cat.CodeFragments = append(cat.CodeFragments, FragmentGroup{Group: groupName})
			group = &cat.CodeFragments[len(cat.CodeFragments)-1]
		}
		group.Children = append(group.Children, Fragment{
			Label:   TagName(c),
			Content: strings.Join(SnippetLines(c, withComments), "\n"),
		})
	}
	return categories
}

// Fragments renders the code fragment file. Flat output drops the
// category level and lists every group under codeFragments.
func Fragments(components []metadata.Component, withComments, flat bool) ([]byte, error) {
	categories := BuildCategories(components, withComments)

	var doc any
	if flat {
		groups := []FragmentGroup{}
		for _, cat := range categories {
			groups = append(groups, cat.CodeFragments...)
		}
		doc = struct {
			CodeFragments []FragmentGroup `json:"codeFragments"`
		}{groups}
	} else {
		doc = struct {
			CodeCategories []Category `json:"codeCategories"`
		}{categories}
	}

	data, err := encodeJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fragments: %w", err)
	}
	return data, nil
}

// FragmentFileName returns codeFragmentsWithComments[_v].json or
// codeFragmentsNoComments[_v].json.
func FragmentFileName(withComments bool, version string) string {
	return fileName("codeFragments", withComments, version)
}
