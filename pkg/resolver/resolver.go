// Package resolver decides which literal to emit for a prop: its declared
// default when that default is transplantable constant source, or a
// synthesized placeholder otherwise.
package resolver

import (
	"strings"

	"github.com/gnana997/propgen/pkg/fakevalue"
	"github.com/gnana997/propgen/pkg/resolver/consteval"
	"github.com/gnana997/propgen/pkg/typedesc"
)

// PropSpec is everything needed to pick a literal for one prop.
type PropSpec struct {
	Name        string
	Type        typedesc.Descriptor
	Required    bool
	Description string
	// RawDefault is the declared default's source text, nil when absent.
	RawDefault *string
	// DefaultIsComputed marks non-constant defaults (identifiers, calls).
	DefaultIsComputed bool
}

// Source records which branch produced a literal.
type Source string

const (
	SourceSynthesized      Source = "synthesized"
	SourceDefault          Source = "default"
	SourceFunctionDefault  Source = "function-default"
	SourceChildrenOverride Source = "children-override"
)

// Result is a resolved literal plus the reason it was chosen.
type Result struct {
	Literal string
	Source  Source
	// EvalErr is set when the default failed constant evaluation.
	EvalErr error
}

// Resolve returns the literal to emit for p.
func Resolve(p PropSpec) string {
	return Explain(p).Literal
}

// Explain resolves p and reports the branch taken.
func Explain(p PropSpec) Result {
	if p.RawDefault == nil {
		return synthesized(p)
	}
	text := strings.TrimSpace(*p.RawDefault)

	// A null children slot renders nothing; give it visible content instead.
	if p.Name == "children" && p.Type.IsSemantic(typedesc.SemanticNode) && text == "null" {
		return Result{Literal: fakevalue.ChildrenFragment, Source: SourceChildrenOverride}
	}

	if p.DefaultIsComputed {
		return synthesized(p)
	}

	v, err := consteval.Eval(text)
	if err != nil {
		if strings.Contains(text, "=>") {
			return Result{Literal: *p.RawDefault, Source: SourceFunctionDefault, EvalErr: err}
		}
		r := synthesized(p)
		r.EvalErr = err
		return r
	}
	if v.Kind == consteval.Undefined {
		return synthesized(p)
	}
	return Result{Literal: *p.RawDefault, Source: SourceDefault}
}

func synthesized(p PropSpec) Result {
	return Result{
		Literal: fakevalue.Synthesize(p.Type, p.Required),
		Source:  SourceSynthesized,
	}
}
