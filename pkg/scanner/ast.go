package scanner

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// fileIndex holds the top-level declarations of one parsed file.
type fileIndex struct {
	source []byte
	// types maps local interface and type alias names to their declaration.
	types map[string]*ts.Node
	// consts maps top-level const names to their initializer.
	consts map[string]*ts.Node
}

func newFileIndex(root *ts.Node, source []byte) *fileIndex {
	idx := &fileIndex{
		source: source,
		types:  make(map[string]*ts.Node),
		consts: make(map[string]*ts.Node),
	}
	for _, stmt := range namedChildren(root) {
		idx.add(unwrapExport(stmt))
	}
	return idx
}

func (idx *fileIndex) add(decl *ts.Node) {
	if decl == nil {
		return
	}
	switch decl.Kind() {
	case "interface_declaration", "type_alias_declaration":
		if name := decl.ChildByFieldName("name"); name != nil {
			idx.types[idx.text(name)] = decl
		}
	case "lexical_declaration":
		for _, d := range namedChildren(decl) {
			if d.Kind() != "variable_declarator" {
				continue
			}
			name, value := d.ChildByFieldName("name"), d.ChildByFieldName("value")
			if name != nil && value != nil && name.Kind() == "identifier" {
				idx.consts[idx.text(name)] = value
			}
		}
	}
}

func (idx *fileIndex) text(n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(idx.source)
}

// unwrapExport returns the declaration inside an export statement, or the
// node itself.
func unwrapExport(n *ts.Node) *ts.Node {
	if n == nil || n.Kind() != "export_statement" {
		return n
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		return decl
	}
	return n
}

func isDefaultExport(n *ts.Node) bool {
	if n == nil || n.Kind() != "export_statement" {
		return false
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "default" {
			return true
		}
	}
	return false
}

func namedChildren(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	out := make([]*ts.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func findChildByKind(n *ts.Node, kinds ...string) *ts.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

func hasChildKind(n *ts.Node, kind string) bool {
	return findChildByKind(n, kind) != nil
}

// unwrapParens strips parenthesized expressions and types.
func unwrapParens(n *ts.Node) *ts.Node {
	for n != nil && (n.Kind() == "parenthesized_expression" || n.Kind() == "parenthesized_type") {
		inner := namedChildren(n)
		if len(inner) == 0 {
			return n
		}
		n = inner[0]
	}
	return n
}

// containsJSX reports whether any descendant is a JSX element.
func containsJSX(n *ts.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if containsJSX(n.Child(i)) {
			return true
		}
	}
	return false
}

// typeOf returns the type inside a type_annotation node.
func typeOf(anno *ts.Node) *ts.Node {
	if anno == nil {
		return nil
	}
	if anno.Kind() != "type_annotation" {
		return anno
	}
	children := namedChildren(anno)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// typeArguments returns the type nodes of a generic's or call's
// type_arguments child.
func typeArguments(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	args := n.ChildByFieldName("type_arguments")
	if args == nil {
		args = findChildByKind(n, "type_arguments")
	}
	return namedChildren(args)
}

func isFunctionNode(n *ts.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case "arrow_function", "function_expression", "function", "function_declaration":
		return true
	}
	return false
}

func isPascalCase(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// calleeName returns "forwardRef" for both forwardRef(...) and
// React.forwardRef(...).
func calleeName(call *ts.Node, source []byte) string {
	if call == nil || call.Kind() != "call_expression" {
		return ""
	}
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	name := fn.Utf8Text(source)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
