package fakevalue

import (
	"strings"

	"github.com/gnana997/propgen/pkg/typedesc"
)

// UnionRule pairs a predicate over a union member with the literal it
// produces. Rules are tried in order for each member, and members are
// scanned in declaration order, so the first member any rule accepts wins.
type UnionRule struct {
	Name    string
	Match   func(typedesc.Descriptor) bool
	Literal func(typedesc.Descriptor) string
}

func kindIs(k typedesc.Kind) func(typedesc.Descriptor) bool {
	return func(d typedesc.Descriptor) bool { return d.Kind == k }
}

func constant(lit string) func(typedesc.Descriptor) string {
	return func(typedesc.Descriptor) string { return lit }
}

var unionRules = []UnionRule{
	{
		Name: "literal",
		Match: func(d typedesc.Descriptor) bool {
			return d.Kind == typedesc.KindLiteral && strings.TrimSpace(d.RawText) != ""
		},
		Literal: func(d typedesc.Descriptor) string { return strings.TrimSpace(d.RawText) },
	},
	{
		Name:    "element-type",
		Match:   func(d typedesc.Descriptor) bool { return d.IsSemantic(typedesc.SemanticElementType) },
		Literal: constant("() => <p>ReactElementType</p>"),
	},
	{Name: "number", Match: kindIs(typedesc.KindNumber), Literal: constant("1")},
	{Name: "boolean", Match: kindIs(typedesc.KindBoolean), Literal: constant(BooleanLiteral)},
	{Name: "string", Match: kindIs(typedesc.KindString), Literal: constant(StringLiteral)},
	{Name: "func", Match: kindIs(typedesc.KindFunc), Literal: constant(NoopFunc)},
	{
		Name:    "array",
		Match:   kindIs(typedesc.KindArray),
		Literal: func(d typedesc.Descriptor) string { return ArrayLiteral(d.RawText) },
	},
	{
		Name:    "tuple",
		Match:   kindIs(typedesc.KindTuple),
		Literal: func(d typedesc.Descriptor) string { return TupleLiteral(d.RawText) },
	},
}

// UnionRules returns a copy of the ordered rule table.
func UnionRules() []UnionRule {
	out := make([]UnionRule, len(unionRules))
	copy(out, unionRules)
	return out
}

// FirstLiteral returns the literal for the first member of a union that any
// rule accepts. ok is false when no member has a usable literal.
func FirstLiteral(elements []typedesc.Descriptor) (lit string, ok bool) {
	for _, e := range elements {
		for _, rule := range unionRules {
			if rule.Match(e) {
				return rule.Literal(e), true
			}
		}
	}
	return "", false
}
