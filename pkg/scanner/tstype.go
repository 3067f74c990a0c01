package scanner

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propgen/pkg/typedesc"
)

// maxTypeDepth bounds alias resolution and nested type conversion.
const maxTypeDepth = 16

// typeToRaw converts a TypeScript type node into a react-docgen style
// record. Local type aliases are inlined; everything else that is not a
// structural type is reported by name with dots removed, the way docgen
// spells React.ReactNode as ReactReactNode.
func (idx *fileIndex) typeToRaw(n *ts.Node, depth int) *typedesc.Raw {
	n = unwrapParens(n)
	if n == nil {
		return nil
	}
	text := idx.text(n)
	if depth > maxTypeDepth {
		return &typedesc.Raw{Name: text}
	}

	switch n.Kind() {
	case "predefined_type":
		return &typedesc.Raw{Name: text}

	case "literal_type", "template_literal_type":
		return &typedesc.Raw{Name: "literal", Value: typedesc.StringValue(text)}

	case "type_identifier", "identifier":
		if resolved := idx.resolveAlias(text, depth); resolved != nil {
			return resolved
		}
		return &typedesc.Raw{Name: text}

	case "nested_type_identifier", "member_expression":
		return &typedesc.Raw{Name: strings.ReplaceAll(text, ".", ""), Raw: text}

	case "generic_type":
		name := idx.text(n.ChildByFieldName("name"))
		args := typeArguments(n)
		switch name {
		case "Array", "ReadonlyArray":
			return &typedesc.Raw{Name: "Array", Raw: text, Elements: idx.typesToRaw(args, depth)}
		}
		return &typedesc.Raw{
			Name:     strings.ReplaceAll(name, ".", ""),
			Raw:      text,
			Elements: idx.typesToRaw(args, depth),
		}

	case "array_type":
		return &typedesc.Raw{Name: "Array", Raw: text, Elements: idx.typesToRaw(namedChildren(n), depth)}

	case "readonly_type":
		if inner := namedChildren(n); len(inner) > 0 {
			return idx.typeToRaw(inner[0], depth+1)
		}

	case "tuple_type":
		var elems []*ts.Node
		for _, member := range namedChildren(n) {
			elems = append(elems, tupleMemberType(member))
		}
		return &typedesc.Raw{Name: "tuple", Raw: text, Elements: idx.typesToRaw(elems, depth)}

	case "union_type":
		return &typedesc.Raw{Name: "union", Raw: text, Elements: idx.typesToRaw(flattenBinary(n, "union_type"), depth)}

	case "intersection_type":
		return &typedesc.Raw{Name: "intersection", Raw: text, Elements: idx.typesToRaw(flattenBinary(n, "intersection_type"), depth)}

	case "function_type", "constructor_type":
		return idx.functionSignature(n, text, depth)

	case "object_type":
		return idx.objectSignature(n, text, depth)
	}

	return &typedesc.Raw{Name: text}
}

func (idx *fileIndex) typesToRaw(nodes []*ts.Node, depth int) []*typedesc.Raw {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*typedesc.Raw, 0, len(nodes))
	for _, node := range nodes {
		if r := idx.typeToRaw(node, depth+1); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// resolveAlias inlines a non-generic local type alias.
func (idx *fileIndex) resolveAlias(name string, depth int) *typedesc.Raw {
	decl, ok := idx.types[name]
	if !ok || decl.Kind() != "type_alias_declaration" || decl.ChildByFieldName("type_parameters") != nil {
		return nil
	}
	return idx.typeToRaw(decl.ChildByFieldName("value"), depth+1)
}

func (idx *fileIndex) functionSignature(n *ts.Node, text string, depth int) *typedesc.Raw {
	sig := &typedesc.Signature{}
	for _, param := range namedChildren(n.ChildByFieldName("parameters")) {
		arg := typedesc.SignatureArgument{Name: idx.text(paramPattern(param))}
		if t := typeOf(param.ChildByFieldName("type")); t != nil {
			arg.Type = idx.typeToRaw(t, depth+1)
		}
		sig.Arguments = append(sig.Arguments, arg)
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		sig.Return = idx.typeToRaw(typeOf(ret), depth+1)
	}
	return &typedesc.Raw{Name: "signature", Type: "function", Raw: text, Signature: sig}
}

func (idx *fileIndex) objectSignature(n *ts.Node, text string, depth int) *typedesc.Raw {
	sig := &typedesc.Signature{Properties: []typedesc.SignatureProperty{}}
	for _, m := range idx.objectMembers(n, depth) {
		value := m.Type
		if value == nil {
			value = &typedesc.Raw{}
		}
		required := m.Required
		value.Required = &required
		sig.Properties = append(sig.Properties, typedesc.SignatureProperty{Key: m.Name, Value: value})
	}
	return &typedesc.Raw{Name: "signature", Type: "object", Raw: text, Signature: sig}
}

// objectMembers reads the property and method signatures of an object
// type or interface body, with their JSDoc descriptions.
func (idx *fileIndex) objectMembers(body *ts.Node, depth int) []ExtractedProp {
	var props []ExtractedProp
	var lastComment string
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		switch child.Kind() {
		case "comment":
			lastComment = idx.text(child)
			continue
		case "property_signature":
			name := propertyName(idx.text(child.ChildByFieldName("name")))
			prop := ExtractedProp{
				Name:        name,
				Required:    !hasChildKind(child, "?"),
				Description: parseJSDoc(lastComment),
			}
			if t := typeOf(child.ChildByFieldName("type")); t != nil {
				prop.Type = idx.typeToRaw(t, depth+1)
			}
			props = append(props, prop)
		case "method_signature":
			// onClick(e: Event): void reads as (e: Event) => void.
			ret := "void"
			if r := typeOf(child.ChildByFieldName("return_type")); r != nil {
				ret = idx.text(r)
			}
			text := idx.text(child.ChildByFieldName("parameters")) + " => " + ret
			props = append(props, ExtractedProp{
				Name:        propertyName(idx.text(child.ChildByFieldName("name"))),
				Required:    !hasChildKind(child, "?"),
				Description: parseJSDoc(lastComment),
				Type:        idx.functionSignature(child, text, depth),
			})
		}
		lastComment = ""
	}
	return props
}

// propsMembers resolves a props type to its members: object types,
// local interfaces (with local extends), local aliases and intersections.
// Types declared elsewhere contribute nothing.
func (idx *fileIndex) propsMembers(n *ts.Node, depth int) []ExtractedProp {
	n = unwrapParens(n)
	if n == nil || depth > maxTypeDepth {
		return nil
	}
	switch n.Kind() {
	case "object_type", "interface_body":
		return idx.objectMembers(n, depth)
	case "intersection_type":
		var merged []ExtractedProp
		for _, part := range flattenBinary(n, "intersection_type") {
			merged = mergeProps(merged, idx.propsMembers(part, depth+1))
		}
		return merged
	case "type_identifier", "generic_type":
		name := idx.text(n)
		if n.Kind() == "generic_type" {
			name = idx.text(n.ChildByFieldName("name"))
		}
		decl, ok := idx.types[name]
		if !ok {
			return nil
		}
		return idx.declMembers(decl, depth+1)
	}
	return nil
}

func (idx *fileIndex) declMembers(decl *ts.Node, depth int) []ExtractedProp {
	switch decl.Kind() {
	case "type_alias_declaration":
		return idx.propsMembers(decl.ChildByFieldName("value"), depth)
	case "interface_declaration":
		var merged []ExtractedProp
		if ext := findChildByKind(decl, "extends_type_clause"); ext != nil {
			for _, parent := range namedChildren(ext) {
				merged = mergeProps(merged, idx.propsMembers(parent, depth+1))
			}
		}
		body := decl.ChildByFieldName("body")
		if body == nil {
			body = findChildByKind(decl, "interface_body", "object_type")
		}
		if body != nil {
			merged = mergeProps(merged, idx.objectMembers(body, depth))
		}
		return merged
	}
	return nil
}

// mergeProps appends next to base; a repeated name replaces the earlier
// entry in place.
func mergeProps(base, next []ExtractedProp) []ExtractedProp {
	for _, p := range next {
		replaced := false
		for i := range base {
			if base[i].Name == p.Name {
				base[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, p)
		}
	}
	return base
}

// flattenBinary flattens left-recursive union/intersection trees.
func flattenBinary(n *ts.Node, kind string) []*ts.Node {
	n = unwrapParens(n)
	if n == nil {
		return nil
	}
	if n.Kind() != kind {
		return []*ts.Node{n}
	}
	var out []*ts.Node
	for _, child := range namedChildren(n) {
		out = append(out, flattenBinary(child, kind)...)
	}
	return out
}

// tupleMemberType unwraps optional, rest and labelled tuple members.
func tupleMemberType(member *ts.Node) *ts.Node {
	switch member.Kind() {
	case "optional_type", "rest_type":
		if inner := namedChildren(member); len(inner) > 0 {
			return inner[0]
		}
	case "required_parameter", "optional_parameter", "tuple_parameter", "optional_tuple_parameter":
		if t := typeOf(member.ChildByFieldName("type")); t != nil {
			return t
		}
	}
	return member
}

func propertyName(name string) string {
	if len(name) >= 2 && (name[0] == '\'' || name[0] == '"') && name[len(name)-1] == name[0] {
		return name[1 : len(name)-1]
	}
	return name
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func stripTypeArgs(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}
