// Package metadata holds resolved component prop records and reads and
// writes them as JSON.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gnana997/propgen/pkg/resolver"
	"github.com/gnana997/propgen/pkg/typedesc"
)

// FormatVersion is written into every metadata file.
const FormatVersion = "1"

// Component is one component with its resolved props.
type Component struct {
	// Name is the declared component name, or the PascalCase file name.
	Name string `json:"name"`
	// Filename is the source file name without extension.
	Filename string `json:"filename"`
	FilePath string `json:"filePath"`
	RelPath  string `json:"relPath,omitempty"`
	// DefaultExport selects a default import in generated tests.
	DefaultExport bool   `json:"defaultExport,omitempty"`
	Props         []Prop `json:"props"`
}

// Prop is a prop with the literal chosen for it.
type Prop struct {
	PropName         string          `json:"propName"`
	PropType         string          `json:"propType"`
	PropDefaultValue string          `json:"propDefaultValue"`
	Required         bool            `json:"required"`
	Description      string          `json:"description,omitempty"`
	Source           resolver.Source `json:"source,omitempty"`
}

// File is the on-disk metadata document.
type File struct {
	Version    string      `json:"version"`
	Root       string      `json:"root,omitempty"`
	Components []Component `json:"components"`
}

// Input is one prop as read by a collaborator, before resolution.
type Input struct {
	Name        string
	Type        *typedesc.Raw
	Required    bool
	Description string
	Default     *string
	Computed    bool
}

// ResolveProp normalizes the prop's type and picks its literal.
func ResolveProp(in Input) Prop {
	desc := typedesc.Normalize(in.Type)
	res := resolver.Explain(resolver.PropSpec{
		Name:              in.Name,
		Type:              desc,
		Required:          in.Required,
		Description:       in.Description,
		RawDefault:        in.Default,
		DefaultIsComputed: in.Computed,
	})
	return Prop{
		PropName:         in.Name,
		PropType:         typeName(in.Type),
		PropDefaultValue: res.Literal,
		Required:         in.Required,
		Description:      in.Description,
		Source:           res.Source,
	}
}

// typeName is the prop type's reported name; untyped props read as
// 'string'.
func typeName(t *typedesc.Raw) string {
	if t == nil || t.Name == "" {
		return "'string'"
	}
	return t.Name
}

// Find returns the component with the given name.
func Find(components []Component, name string) (*Component, bool) {
	for i := range components {
		if components[i].Name == name {
			return &components[i], true
		}
	}
	return nil, false
}

// SortByPath orders components by file path.
func SortByPath(components []Component) {
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].FilePath < components[j].FilePath
	})
}

// Save writes components to path as indented JSON.
func Save(path, root string, components []Component) error {
	if components == nil {
		components = []Component{}
	}
	data, err := json.MarshalIndent(File{Version: FormatVersion, Root: root, Components: components}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// Load reads a metadata file written by Save.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported metadata version %q", f.Version)
	}
	return &f, nil
}
