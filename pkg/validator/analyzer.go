package validator

import (
	"sort"
	"strings"

	"github.com/gnana997/propgen/pkg/parser"
)

// PageAnalysis is a compact structural summary of a page's component usage.
type PageAnalysis struct {
	Components []ComponentSummary `json:"components"`
	Imports    []string           `json:"imports"`
	LineCount  int                `json:"line_count"`
}

// ComponentSummary describes one component usage in the page.
type ComponentSummary struct {
	Name     string   `json:"name"`
	Line     int      `json:"line"`
	Props    []string `json:"props"`
	Children int      `json:"children_count"`
	// Known is true when the component is in the scanned metadata.
	Known bool `json:"known"`
}

// AnalyzePage parses TSX code and summarizes its component usages.
func (v *Validator) AnalyzePage(code string) *PageAnalysis {
	source := []byte(code)
	lines := strings.Count(code, "\n") + 1

	tree, err := v.parser.Parse(source, parser.GrammarTSX)
	if err != nil {
		return &PageAnalysis{Components: []ComponentSummary{}, Imports: []string{}, LineCount: lines}
	}
	defer tree.Close()

	extraction := ExtractJSX(tree, source)

	// Usages are in document order, so the nearest earlier usage with the
	// parent's name is the parent.
	childCount := make([]int, len(extraction.Usages))
	for i, u := range extraction.Usages {
		if u.ParentComponent == "" {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if extraction.Usages[j].ComponentName == u.ParentComponent {
				childCount[j]++
				break
			}
		}
	}

	components := make([]ComponentSummary, 0, len(extraction.Usages))
	for i, u := range extraction.Usages {
		props := make([]string, 0, len(u.Props))
		for name := range u.Props {
			props = append(props, name)
		}
		sort.Strings(props)
		_, known := v.components[u.ComponentName]
		components = append(components, ComponentSummary{
			Name:     u.ComponentName,
			Line:     u.Line,
			Props:    props,
			Children: childCount[i],
			Known:    known,
		})
	}

	imports := make([]string, 0, len(extraction.Imports))
	for _, imp := range extraction.Imports {
		imports = append(imports, imp.Source)
	}

	return &PageAnalysis{Components: components, Imports: imports, LineCount: lines}
}
