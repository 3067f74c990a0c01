// Package validator checks JSX usages of scanned components against their
// resolved prop metadata: undeclared props, missing required props and
// missing imports. Missing required props can be filled in with the
// literal the resolver chose for them.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/parser"
)

// Rule names.
const (
	RuleParseError      = "parse-error"
	RuleUnknownProp     = "unknown-prop"
	RuleMissingRequired = "missing-required-prop"
	RuleMissingImport   = "missing-import"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Validator checks code against a set of components.
type Validator struct {
	parser     *parser.Manager
	components map[string]*metadata.Component
}

// NewValidator indexes components by tag name. The parser manager is
// shared and not closed by the validator.
func NewValidator(components []metadata.Component, pm *parser.Manager) *Validator {
	v := &Validator{parser: pm, components: make(map[string]*metadata.Component, len(components))}
	for i := range components {
		v.components[components[i].Name] = &components[i]
	}
	return v
}

// ValidationResult is the outcome of validating one source.
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
	Summary    string      `json:"summary"`
	// FixedCode is set when auto-fix was requested and changed the code.
	FixedCode string `json:"fixed_code,omitempty"`
}

// Violation is a single rule violation.
type Violation struct {
	Rule       string `json:"rule"`
	Component  string `json:"component,omitempty"`
	Prop       string `json:"prop,omitempty"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidatePage parses TSX code and checks every usage of a known
// component. Unknown tags are left alone. With autoFix, missing required
// props other than children are inserted with their resolved literal.
func (v *Validator) ValidatePage(code string, autoFix bool) *ValidationResult {
	source := []byte(code)

	tree, err := v.parser.Parse(source, parser.GrammarTSX)
	if err != nil {
		return &ValidationResult{
			Violations: []Violation{{
				Rule:     RuleParseError,
				Message:  fmt.Sprintf("failed to parse code: %v", err),
				Severity: SeverityError,
			}},
			Summary: "1 error",
		}
	}
	defer tree.Close()

	extraction := ExtractJSX(tree, source)

	var violations []Violation
	var fixes []AutoFix
	for _, u := range extraction.Usages {
		comp, ok := v.components[u.ComponentName]
		if !ok {
			continue
		}
		if !Imports(extraction.Imports, u.ComponentName) {
			violations = append(violations, Violation{
				Rule:       RuleMissingImport,
				Component:  u.ComponentName,
				Message:    fmt.Sprintf("%s is used but not imported", u.ComponentName),
				Severity:   SeverityWarning,
				Line:       u.Line,
				Column:     u.Column,
				Suggestion: importSuggestion(comp),
			})
		}
		vs, fs := checkUsage(u, comp)
		violations = append(violations, vs...)
		fixes = append(fixes, fs...)
	}

	result := &ValidationResult{Violations: violations}
	if result.Violations == nil {
		result.Violations = []Violation{}
	}
	errs, warns := 0, 0
	for _, viol := range violations {
		if viol.Severity == SeverityError {
			errs++
		} else {
			warns++
		}
	}
	result.Valid = errs == 0
	result.Summary = summary(errs, warns)

	if autoFix && len(fixes) > 0 {
		result.FixedCode = ApplyFixes(code, fixes)
	}
	return result
}

// checkUsage compares one usage with its component's props.
func checkUsage(u JSXUsage, comp *metadata.Component) ([]Violation, []AutoFix) {
	var violations []Violation
	var fixes []AutoFix

	declared := make(map[string]bool, len(comp.Props))
	for _, p := range comp.Props {
		declared[p.PropName] = true
	}

	// A spread may supply or add anything.
	if u.HasSpread() {
		return nil, nil
	}

	names := make([]string, 0, len(u.Props))
	for name := range u.Props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if declared[name] || passthroughProp(name) {
			continue
		}
		violations = append(violations, Violation{
			Rule:      RuleUnknownProp,
			Component: u.ComponentName,
			Prop:      name,
			Message:   fmt.Sprintf("%s does not declare prop %q", u.ComponentName, name),
			Severity:  SeverityWarning,
			Line:      u.Line,
			Column:    u.Column,
		})
	}

	for _, p := range comp.Props {
		if !p.Required {
			continue
		}
		if _, ok := u.Props[p.PropName]; ok {
			continue
		}
		if p.PropName == "children" && u.HasChildren {
			continue
		}
		attr := fmt.Sprintf("%s={%s}", p.PropName, p.PropDefaultValue)
		violations = append(violations, Violation{
			Rule:       RuleMissingRequired,
			Component:  u.ComponentName,
			Prop:       p.PropName,
			Message:    fmt.Sprintf("%s requires prop %q", u.ComponentName, p.PropName),
			Severity:   SeverityError,
			Line:       u.Line,
			Column:     u.Column,
			Suggestion: attr,
		})
		if p.PropName != "children" && u.TagEnd > 0 {
			fixes = append(fixes, AutoFix{
				Offset:  u.TagEnd,
				NewText: " " + attr,
				Reason:  fmt.Sprintf("add required prop %s", p.PropName),
			})
		}
	}
	return violations, fixes
}

// passthroughProp reports attributes React or the DOM handle for every
// component.
func passthroughProp(name string) bool {
	switch name {
	case "key", "ref":
		return true
	}
	return strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-")
}

func importSuggestion(comp *metadata.Component) string {
	from := comp.RelPath
	if from == "" {
		from = comp.FilePath
	}
	from = strings.TrimSuffix(from, "/index.tsx")
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
		from = strings.TrimSuffix(from, ext)
	}
	if comp.DefaultExport {
		return fmt.Sprintf("import %s from %q", comp.Name, from)
	}
	return fmt.Sprintf("import { %s } from %q", comp.Name, from)
}

func summary(errs, warns int) string {
	if errs == 0 && warns == 0 {
		return "no issues found"
	}
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
