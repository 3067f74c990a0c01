package validator

import (
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// spreadProp marks a usage with {...props}; its prop set is open.
const spreadProp = "...spread"

// JSXUsage is one component element in the code.
type JSXUsage struct {
	ComponentName string `json:"component_name"`
	// Props maps prop name to its string literal value; expressions map
	// to "" and boolean shorthand to "true".
	Props           map[string]string `json:"props"`
	HasChildren     bool              `json:"has_children"`
	ParentComponent string            `json:"parent_component"`
	Line            int               `json:"line"`   // 1-based
	Column          int               `json:"column"` // 1-based
	// TagEnd is the byte offset just past the tag name, where attributes
	// can be inserted.
	TagEnd uint `json:"-"`
}

// HasSpread reports whether the element spreads an object into its props.
func (u JSXUsage) HasSpread() bool {
	_, ok := u.Props[spreadProp]
	return ok
}

// ImportInfo is one import statement.
type ImportInfo struct {
	Source      string   `json:"source"`
	Names       []string `json:"names"`
	DefaultName string   `json:"default_name,omitempty"`
	Line        int      `json:"line"`
}

// Imports reports whether name is bound by any import.
func Imports(imports []ImportInfo, name string) bool {
	// <Foo.Bar> needs Foo.
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	for _, imp := range imports {
		if imp.DefaultName == name {
			return true
		}
		for _, n := range imp.Names {
			if n == name {
				return true
			}
		}
	}
	return false
}

// JSXExtraction holds the usages and imports found in one source.
type JSXExtraction struct {
	Usages  []JSXUsage
	Imports []ImportInfo
}

// ExtractJSX walks a tree and collects component usages in document order.
func ExtractJSX(tree *ts.Tree, source []byte) *JSXExtraction {
	result := &JSXExtraction{}
	root := tree.RootNode()

	extractImports(root, source, result)

	var parentStack []string
	walkJSX(root, source, &parentStack, result)

	return result
}

func extractImports(node *ts.Node, source []byte, result *JSXExtraction) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "import_statement" {
			continue
		}

		info := ImportInfo{Line: int(child.StartPosition().Row) + 1}
		for j := uint(0); j < child.ChildCount(); j++ {
			part := child.Child(j)
			switch part.Kind() {
			case "string":
				info.Source = stringContent(part, source)
			case "import_clause":
				importClause(part, source, &info)
			}
		}
		if info.Source != "" {
			result.Imports = append(result.Imports, info)
		}
	}
}

func importClause(node *ts.Node, source []byte, info *ImportInfo) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier":
			info.DefaultName = child.Utf8Text(source)
		case "named_imports":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				// import { A as B } binds B.
				name := spec.ChildByFieldName("alias")
				if name == nil {
					name = spec.ChildByFieldName("name")
				}
				if name != nil {
					info.Names = append(info.Names, name.Utf8Text(source))
				}
			}
		}
	}
}

// stringContent returns the text of a string node without quotes.
func stringContent(node *ts.Node, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string_fragment" {
			return child.Utf8Text(source)
		}
	}
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func walkJSX(node *ts.Node, source []byte, parentStack *[]string, result *JSXExtraction) {
	switch node.Kind() {
	case "jsx_element":
		jsxElement(node, source, parentStack, result)
		return
	case "jsx_self_closing_element":
		if u, ok := usage(node, node, source, *parentStack); ok {
			result.Usages = append(result.Usages, u)
		}
		// Attribute expressions may hold elements too.
		for i := uint(0); i < node.ChildCount(); i++ {
			walkJSX(node.Child(i), source, parentStack, result)
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkJSX(node.Child(i), source, parentStack, result)
	}
}

// jsxElement handles <Component ...>children</Component>.
func jsxElement(node *ts.Node, source []byte, parentStack *[]string, result *JSXExtraction) {
	opening := node.ChildByFieldName("open_tag")
	if opening == nil {
		for i := uint(0); i < node.ChildCount(); i++ {
			if c := node.Child(i); c.Kind() == "jsx_opening_element" {
				opening = c
				break
			}
		}
	}

	u, isComponent := JSXUsage{}, false
	if opening != nil {
		u, isComponent = usage(node, opening, source, *parentStack)
	}
	if isComponent {
		u.HasChildren = hasJSXChildren(node, source)
		result.Usages = append(result.Usages, u)
		*parentStack = append(*parentStack, u.ComponentName)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "jsx_closing_element" {
			walkJSX(child, source, parentStack, result)
		}
	}

	if isComponent {
		*parentStack = (*parentStack)[:len(*parentStack)-1]
	}
}

// usage builds the usage for element, reading tag and props from tag
// (the element itself when self-closing). ok is false for HTML tags.
func usage(element, tag *ts.Node, source []byte, parents []string) (JSXUsage, bool) {
	u := JSXUsage{
		Props:  make(map[string]string),
		Line:   int(element.StartPosition().Row) + 1,
		Column: int(element.StartPosition().Column) + 1,
	}
	if len(parents) > 0 {
		u.ParentComponent = parents[len(parents)-1]
	}

	for i := uint(0); i < tag.ChildCount(); i++ {
		child := tag.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			if u.ComponentName == "" {
				u.ComponentName = child.Utf8Text(source)
				u.TagEnd = child.EndByte()
			}
		case "jsx_attribute":
			if name, value := attribute(child, source); name != "" {
				u.Props[name] = value
			}
		case "jsx_expression":
			if strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(child.Utf8Text(source), "{")), "...") {
				u.Props[spreadProp] = ""
			}
		}
	}
	return u, isComponentName(u.ComponentName)
}

// attribute reads a jsx_attribute's name and literal value.
func attribute(node *ts.Node, source []byte) (string, string) {
	var name string
	hasValue := false
	value := ""

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_identifier", "jsx_namespace_name":
			name = child.Utf8Text(source)
		case "string":
			value, hasValue = stringContent(child, source), true
		case "jsx_expression", "jsx_element", "jsx_self_closing_element":
			hasValue = true
		}
	}
	if name != "" && !hasValue {
		value = "true"
	}
	return name, value
}

// hasJSXChildren reports elements, expressions or non-blank text between
// the tags.
func hasJSXChildren(node *ts.Node, source []byte) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "jsx_element", "jsx_self_closing_element", "jsx_expression", "jsx_fragment":
			return true
		case "jsx_text":
			if strings.TrimFunc(child.Utf8Text(source), unicode.IsSpace) != "" {
				return true
			}
		}
	}
	return false
}

// isComponentName follows the React convention: components are
// capitalized, intrinsic elements are not.
func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
