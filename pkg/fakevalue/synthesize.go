// Package fakevalue synthesizes placeholder literal expressions for prop
// types. Every function here is pure and total: any descriptor, however
// malformed, yields a non-empty literal.
package fakevalue

import (
	"strings"

	"github.com/gnana997/propgen/pkg/typedesc"
)

// Placeholder literals shared with the resolver and the emitters.
const (
	Undefined      = "undefined"
	NoopFunc       = "() => {}"
	StringLiteral  = "'string'"
	NumberLiteral  = "42"
	BooleanLiteral = "true"
	AnyLiteral     = "'any'"
	EmptyArray     = "[]"
	// ChildrenFragment replaces a null children default.
	ChildrenFragment = "<>ReactNode</>"
	// UnrecognizedMarker prefixes the inline comment on placeholders for
	// types nothing here understands. Grep generated output for it.
	UnrecognizedMarker = "unrecognizedType"
)

// maxDepth bounds shape recursion. Normalized descriptors are already
// depth-limited; this guards hand-built ones.
const maxDepth = 32

// semanticLiterals is the placeholder per catalog element.
var semanticLiterals = map[typedesc.Semantic]string{
	typedesc.SemanticElementNode: "<p>ReactElement</p>",
	typedesc.SemanticNode:        "<div>ReactNode</div>",
	typedesc.SemanticRefObject:   "{ current: document.createElement('div') }",
	typedesc.SemanticRefCallback: NoopFunc,
	typedesc.SemanticElementType: "() => <div />",
	typedesc.SemanticTextNode:    NumberLiteral,
	typedesc.SemanticDomElement:  "document.body",
}

// Synthesize returns a literal expression satisfying d. required selects
// the terminal fallback for types without a usable literal: a marked
// placeholder when required, "undefined" otherwise.
func Synthesize(d typedesc.Descriptor, required bool) string {
	return synthesize(d, required, 0)
}

func synthesize(d typedesc.Descriptor, required bool, depth int) string {
	if depth > maxDepth {
		return unrecognized(d, required)
	}

	switch d.Kind {
	case typedesc.KindNumber:
		return NumberLiteral
	case typedesc.KindString:
		return StringLiteral
	case typedesc.KindBoolean:
		return BooleanLiteral
	case typedesc.KindAny:
		return AnyLiteral
	case typedesc.KindFunc:
		if d.ValueText != "" {
			return d.ValueText
		}
		return NoopFunc
	case typedesc.KindArray:
		return ArrayLiteral(d.RawText)
	case typedesc.KindTuple:
		return TupleLiteral(d.RawText)
	case typedesc.KindShape:
		return shapeLiteral(d, depth)
	case typedesc.KindUnion:
		if lit, ok := FirstLiteral(d.Elements); ok {
			return lit
		}
		if required {
			return StringLiteral
		}
		return Undefined
	case typedesc.KindSignature:
		return SignatureLiteral(d.RawText)
	case typedesc.KindSemantic:
		if lit, ok := semanticLiterals[d.Semantic]; ok {
			return lit
		}
	case typedesc.KindLiteral:
		if lit := strings.TrimSpace(d.RawText); lit != "" {
			return lit
		}
	}
	return unrecognized(d, required)
}

// ArrayLiteral sniffs the element type out of the raw annotation.
//
// The substring test also matches names that merely contain "number" or
// "string" (e.g. "numberOfItems[]").
func ArrayLiteral(rawText string) string {
	switch {
	case strings.Contains(rawText, "number"):
		return "[1]"
	case strings.Contains(rawText, "string"):
		return "['string']"
	default:
		return EmptyArray
	}
}

// TupleLiteral rewrites a tuple annotation into a value by textual
// substitution: "[number, string]" becomes "[42, 'string']". Same
// imprecision as ArrayLiteral.
func TupleLiteral(rawText string) string {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return EmptyArray
	}
	out := strings.ReplaceAll(rawText, "number", NumberLiteral)
	return strings.ReplaceAll(out, "string", StringLiteral)
}

// SignatureLiteral turns "(x: number) => string" into
// "(x: number) => undefined as string". Annotations that do not split into
// exactly one parameter list and one return type pass through unchanged.
func SignatureLiteral(rawText string) string {
	if strings.TrimSpace(rawText) == "" {
		return NoopFunc
	}
	pieces := strings.Split(rawText, "=>")
	if len(pieces) != 2 {
		return rawText
	}
	return strings.TrimSpace(pieces[0]) + " => undefined as " + strings.TrimSpace(pieces[1])
}

// shapeLiteral builds a record literal. Nested fields have no declared
// default, so each one goes straight to synthesis.
func shapeLiteral(d typedesc.Descriptor, depth int) string {
	if len(d.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		parts[i] = propertyName(f.Name) + ": " + synthesize(f.Type, f.Required, depth+1)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// unrecognized is the terminal fallback. The inline comment names the kind
// and raw text so gaps are visible in generated code.
func unrecognized(d typedesc.Descriptor, required bool) string {
	if !required {
		return Undefined
	}
	name := d.Name
	if name == "" {
		name = d.Kind.String()
	}
	marker := UnrecognizedMarker + " " + name
	if raw := strings.TrimSpace(d.RawText); raw != "" {
		marker += " " + raw
	}
	return "{}/*" + sanitizeComment(marker) + "*/"
}

func sanitizeComment(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.ReplaceAll(s, "\n", " ")
}

// propertyName quotes keys that are not plain identifiers ("aria-label").
func propertyName(name string) string {
	if isIdentifier(name) {
		return name
	}
	return "'" + strings.ReplaceAll(strings.ReplaceAll(name, `\`, `\\`), "'", `\'`) + "'"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
