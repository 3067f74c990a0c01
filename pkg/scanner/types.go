// Package scanner reads React component sources with tree-sitter and
// produces the prop records the resolver consumes: a react-docgen style
// type record, the required flag, the JSDoc description and the declared
// default for every prop of the component a file declares.
package scanner

import (
	"github.com/gnana997/propgen/pkg/typedesc"
)

// ScanConfig configures discovery and extraction.
type ScanConfig struct {
	// Include glob patterns, relative to the scan root.
	Include []string `yaml:"include"`
	// Exclude glob patterns; matching directories are pruned.
	Exclude []string `yaml:"exclude"`
	// IgnoreProps drops props whose name contains any of these substrings.
	IgnoreProps []string `yaml:"ignore_props"`
	// Workers overrides the extraction worker count when > 0.
	Workers int `yaml:"workers"`
}

// DefaultScanConfig returns the configuration used when none is given:
// every .tsx file except tests, stories and build output.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{"**/*.tsx"},
		Exclude: []string{
			"node_modules/**",
			"**/node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			".propgen/**",
			"**/*.test.*",
			"**/*.spec.*",
			"**/*.stories.*",
			"**/*.story.*",
			"**/*.d.ts",
			"__tests__/**",
			"**/__tests__/**",
			"**/__mocks__/**",
		},
		IgnoreProps: []string{"ouia"},
	}
}

// ComponentKind describes how a component was declared.
type ComponentKind string

const (
	ComponentKindFunction   ComponentKind = "function"
	ComponentKindForwardRef ComponentKind = "forwardRef"
	ComponentKindMemo       ComponentKind = "memo"
	ComponentKindClass      ComponentKind = "class"
)

// DefaultValue is a prop's declared default as source text.
type DefaultValue struct {
	Value string `json:"value"`
	// Computed is true for identifiers, member access, calls and other
	// expressions whose value is only known at run time.
	Computed bool `json:"computed"`
}

// ExtractedProp is one prop as read from source, before resolution.
type ExtractedProp struct {
	Name        string        `json:"name"`
	Type        *typedesc.Raw `json:"tsType,omitempty"`
	Required    bool          `json:"required"`
	Description string        `json:"description"`
	Default     *DefaultValue `json:"defaultValue,omitempty"`
}

// FileResult is the extraction output for one file.
type FileResult struct {
	FilePath string
	// Component is the detected component's declared name; empty when the
	// file declares none.
	Component string
	Kind      ComponentKind
	// DefaultExport is true when the component is the file's default export.
	DefaultExport bool
	Props         []ExtractedProp
}

// ScanStats tracks scan counts and phase timings.
type ScanStats struct {
	FilesDiscovered  int   `json:"files_discovered"`
	FilesExtracted   int   `json:"files_extracted"`
	FilesFailed      int   `json:"files_failed"`
	FilesSkipped     int   `json:"files_skipped"`
	FilesCached      int   `json:"files_cached"`
	Components       int   `json:"components"`
	PropsResolved    int   `json:"props_resolved"`
	DiscoveryTimeMs  int64 `json:"discovery_ms"`
	ExtractionTimeMs int64 `json:"extraction_ms"`
	TotalTimeMs      int64 `json:"total_ms"`
}
