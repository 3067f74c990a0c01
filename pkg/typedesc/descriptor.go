// Package typedesc normalizes raw prop type records into descriptors the
// fake value synthesizer can dispatch on.
package typedesc

import (
	"fmt"
	"strings"
)

// Kind is the canonical classification of a prop type.
type Kind int

const (
	KindUnknown Kind = iota
	KindAny
	KindNumber
	KindString
	KindBoolean
	KindFunc
	KindArray
	KindTuple
	KindUnion
	KindShape
	KindSignature
	KindSemantic
	KindLiteral
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindFunc:
		return "func"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindUnion:
		return "union"
	case KindShape:
		return "shape"
	case KindSignature:
		return "signature"
	case KindSemantic:
		return "semantic"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// IsPrimitive reports whether k is any, number, string, boolean or func.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindAny, KindNumber, KindString, KindBoolean, KindFunc:
		return true
	}
	return false
}

// IsContainer reports whether k is array or tuple.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindTuple
}

// Descriptor is the normalized form of one prop type.
//
// Descriptors are values: nothing in this module mutates one after
// Normalize returns it. Elements is set for unions, tuples and arrays;
// Fields is set for shapes.
type Descriptor struct {
	Kind     Kind
	Semantic Semantic
	// Name is the kind name reported by the collaborator ("union",
	// "ReactReactNode", "Foo"). Kept so placeholders can name it.
	Name string
	// RawText is the source annotation, or the literal text for KindLiteral.
	RawText string
	// ValueText is the value text reported alongside a func type.
	ValueText string
	Elements  []Descriptor
	Fields    []Field
}

// Field is one member of a shape, in declaration order.
type Field struct {
	Name     string
	Type     Descriptor
	Required bool
}

// IsSemantic reports whether d is the given catalog element.
func (d Descriptor) IsSemantic(s Semantic) bool {
	return d.Kind == KindSemantic && d.Semantic == s
}

// String is a compact debug rendering, e.g. "union(literal 'a', number)".
func (d Descriptor) String() string {
	switch d.Kind {
	case KindUnion, KindTuple:
		parts := make([]string, len(d.Elements))
		for i, e := range d.Elements {
			parts[i] = e.String()
		}
		return fmt.Sprintf("%s(%s)", d.Kind, strings.Join(parts, ", "))
	case KindShape:
		parts := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "shape{" + strings.Join(parts, ", ") + "}"
	case KindSemantic:
		return d.Semantic.String()
	case KindLiteral:
		return "literal " + d.RawText
	case KindUnknown:
		if d.Name != "" {
			return "unknown " + d.Name
		}
		return "unknown"
	default:
		return d.Kind.String()
	}
}
