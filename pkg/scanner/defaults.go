package scanner

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// namedDefault is one destructured or defaultProps entry. def is nil
// for destructured names without an initializer.
type namedDefault struct {
	name string
	def  *DefaultValue
}

// paramPattern returns the binding pattern of a parameter node.
func paramPattern(param *ts.Node) *ts.Node {
	if param == nil {
		return nil
	}
	switch param.Kind() {
	case "required_parameter", "optional_parameter":
		if p := param.ChildByFieldName("pattern"); p != nil {
			return p
		}
	case "assignment_pattern":
		return param.ChildByFieldName("left")
	}
	return param
}

// firstParam returns the first parameter of a function-like node.
func firstParam(fn *ts.Node) *ts.Node {
	if fn == nil {
		return nil
	}
	if p := fn.ChildByFieldName("parameter"); p != nil {
		return p
	}
	params := namedChildren(fn.ChildByFieldName("parameters"))
	if len(params) == 0 {
		return nil
	}
	return params[0]
}

// patternDefaults reads the names and initializers of an object pattern.
func (idx *fileIndex) patternDefaults(pattern *ts.Node) []namedDefault {
	if pattern == nil || pattern.Kind() != "object_pattern" {
		return nil
	}
	var out []namedDefault
	for _, child := range namedChildren(pattern) {
		switch child.Kind() {
		case "shorthand_property_identifier_pattern":
			out = append(out, namedDefault{name: idx.text(child)})
		case "object_assignment_pattern", "assignment_pattern":
			left, right := child.ChildByFieldName("left"), child.ChildByFieldName("right")
			if left == nil {
				continue
			}
			out = append(out, namedDefault{name: idx.text(left), def: idx.classify(right)})
		case "pair_pattern":
			key := child.ChildByFieldName("key")
			if key == nil {
				continue
			}
			nd := namedDefault{name: propertyName(idx.text(key))}
			if value := child.ChildByFieldName("value"); value != nil && value.Kind() == "assignment_pattern" {
				nd.def = idx.classify(value.ChildByFieldName("right"))
			}
			out = append(out, nd)
		}
	}
	return out
}

// bodyDefaults reads `const { a = 1 } = props` style destructuring at the
// top of a function body. source is the props identifier's text, or
// "this.props" for class render methods.
func (idx *fileIndex) bodyDefaults(body *ts.Node, source string) []namedDefault {
	if body == nil || source == "" {
		return nil
	}
	var out []namedDefault
	for _, stmt := range namedChildren(body) {
		if stmt.Kind() != "lexical_declaration" && stmt.Kind() != "variable_declaration" {
			continue
		}
		for _, d := range namedChildren(stmt) {
			if d.Kind() != "variable_declarator" {
				continue
			}
			if idx.text(d.ChildByFieldName("value")) != source {
				continue
			}
			out = append(out, idx.patternDefaults(d.ChildByFieldName("name"))...)
		}
	}
	return out
}

// defaultPropsObject finds `Name.defaultProps = {...}` at the top level.
func (idx *fileIndex) defaultPropsObject(root *ts.Node, component string) *ts.Node {
	if component == "" {
		return nil
	}
	for _, stmt := range namedChildren(root) {
		if stmt.Kind() != "expression_statement" {
			continue
		}
		exprs := namedChildren(stmt)
		if len(exprs) == 0 || exprs[0].Kind() != "assignment_expression" {
			continue
		}
		assign := exprs[0]
		left := assign.ChildByFieldName("left")
		if left == nil || left.Kind() != "member_expression" {
			continue
		}
		if idx.text(left.ChildByFieldName("object")) != component ||
			idx.text(left.ChildByFieldName("property")) != "defaultProps" {
			continue
		}
		return idx.resolveObject(assign.ChildByFieldName("right"))
	}
	return nil
}

// staticDefaultProps finds `static defaultProps = {...}` in a class body.
func (idx *fileIndex) staticDefaultProps(class *ts.Node) *ts.Node {
	if class == nil {
		return nil
	}
	for _, member := range namedChildren(class.ChildByFieldName("body")) {
		switch member.Kind() {
		case "public_field_definition", "field_definition":
		default:
			continue
		}
		if !hasChildKind(member, "static") {
			continue
		}
		name := member.ChildByFieldName("name")
		if name == nil {
			name = member.ChildByFieldName("property")
		}
		if idx.text(name) == "defaultProps" {
			return idx.resolveObject(member.ChildByFieldName("value"))
		}
	}
	return nil
}

// resolveObject follows one identifier hop to a top-level const object.
func (idx *fileIndex) resolveObject(n *ts.Node) *ts.Node {
	n = unwrapParens(n)
	if n == nil {
		return nil
	}
	if n.Kind() == "identifier" {
		n = unwrapParens(idx.consts[idx.text(n)])
	}
	if n == nil || n.Kind() != "object" {
		return nil
	}
	return n
}

// objectDefaults reads the entries of a defaultProps object literal.
func (idx *fileIndex) objectDefaults(obj *ts.Node) []namedDefault {
	var out []namedDefault
	for _, child := range namedChildren(obj) {
		switch child.Kind() {
		case "pair":
			key := child.ChildByFieldName("key")
			if key == nil || key.Kind() == "computed_property_name" {
				continue
			}
			out = append(out, namedDefault{
				name: propertyName(idx.text(key)),
				def:  idx.classify(child.ChildByFieldName("value")),
			})
		case "shorthand_property_identifier":
			out = append(out, namedDefault{name: idx.text(child), def: idx.classify(child)})
		}
	}
	return out
}

// classify returns the default's source text and whether it is computed.
// Identifiers bound to a top-level const literal are replaced by that
// literal.
func (idx *fileIndex) classify(value *ts.Node) *DefaultValue {
	if value == nil {
		return nil
	}
	text := idx.text(value)
	switch value.Kind() {
	case "identifier", "shorthand_property_identifier":
		switch text {
		case "undefined", "NaN", "Infinity":
			return &DefaultValue{Value: text}
		}
		if init := idx.consts[text]; init != nil && isLiteralNode(init) {
			return &DefaultValue{Value: idx.text(init)}
		}
		return &DefaultValue{Value: text, Computed: true}
	case "member_expression", "subscript_expression", "call_expression",
		"new_expression", "await_expression":
		return &DefaultValue{Value: text, Computed: true}
	case "template_string":
		return &DefaultValue{Value: text, Computed: hasChildKind(value, "template_substitution")}
	}
	return &DefaultValue{Value: text}
}

func isLiteralNode(n *ts.Node) bool {
	switch n.Kind() {
	case "string", "number", "true", "false", "null", "undefined", "array", "unary_expression":
		return true
	case "template_string":
		return !hasChildKind(n, "template_substitution")
	}
	return false
}
