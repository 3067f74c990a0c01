// Package emit renders resolved component metadata into editor snippets,
// design-system code fragments and test scaffolds.
package emit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/gnana997/propgen/pkg/metadata"
)

// Snippet prefixes select the commented or bare variant in the editor.
const (
	PrefixWithComments = "#"
	PrefixNoComments   = "!"
)

// Snippet is one VS Code snippet definition.
type Snippet struct {
	Prefix      string   `json:"prefix"`
	Body        []string `json:"body"`
	Description string   `json:"description"`
}

var newlines = regexp.MustCompile(`\n+`)

// TagName is the JSX tag used for a component.
func TagName(c metadata.Component) string {
	if c.Name != "" {
		return c.Name
	}
	return strcase.ToCamel(c.Filename)
}

// SnippetLines renders a component usage as snippet lines: one
// name={${n:value}} attribute per prop, with children as the ${0:...}
// body of an open/close tag pair.
func SnippetLines(c metadata.Component, withComments bool) []string {
	tag := TagName(c)
	lines := []string{"<" + tag}

	var children string
	placeholder := 1
	for _, p := range c.Props {
		value := escapePlaceholder(p.PropDefaultValue)
		if p.PropName == "children" {
			children = fmt.Sprintf("\t{${0:%s}%s}", value, comment(p, withComments))
			continue
		}
		lines = append(lines, fmt.Sprintf("\t%s={${%d:%s}%s}", p.PropName, placeholder, value, comment(p, withComments)))
		placeholder++
	}

	if children == "" {
		return append(lines, "/>")
	}
	return append(lines, ">", children, "</"+tag+">")
}

// comment renders the required/optional annotation for a prop.
func comment(p metadata.Prop, withComments bool) string {
	if !withComments {
		return ""
	}
	label := "optional: "
	if p.Required {
		label = "required: "
	}
	desc := newlines.ReplaceAllString(p.Description, " | ")
	desc = strings.ReplaceAll(desc, "*/", "* /")
	return "/* " + label + escapeSnippetText(desc) + " */"
}

// escapePlaceholder escapes text inside a ${n:...} placeholder.
func escapePlaceholder(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `$`, `\$`, `}`, `\}`)
	return r.Replace(s)
}

// escapeSnippetText escapes text outside placeholders.
func escapeSnippetText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `$`, `\$`)
	return r.Replace(s)
}

// Snippets renders the VS Code snippet file for components, keyed by tag
// name in component order. A repeated tag name keeps the later component.
func Snippets(components []metadata.Component, withComments bool) ([]byte, error) {
	prefix := PrefixNoComments
	if withComments {
		prefix = PrefixWithComments
	}
	out := orderedmap.New[string, Snippet]()
	for _, c := range components {
		tag := TagName(c)
		out.Set(tag, Snippet{
			Prefix:      prefix + tag,
			Body:        SnippetLines(c, withComments),
			Description: tag,
		})
	}
	data, err := marshalOrdered(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snippets: %w", err)
	}
	return data, nil
}

// SnippetFileName returns snippetsWithComments[_v].json or
// snippetsNoComments[_v].json.
func SnippetFileName(withComments bool, version string) string {
	return fileName("snippets", withComments, version)
}

func fileName(kind string, withComments bool, version string) string {
	name := kind + "NoComments"
	if withComments {
		name = kind + "WithComments"
	}
	if version != "" {
		name += "_" + version
	}
	return name + ".json"
}
