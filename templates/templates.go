// Package templates provides the embedded default test scaffold template.
package templates

import _ "embed"

// JestTest renders a jest + testing-library smoke test for one component.
//
//go:embed jest.test.tsx.tmpl
var JestTest string
