package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propgen/pkg/resolver"
	"github.com/gnana997/propgen/pkg/typedesc"
)

func strPtr(s string) *string { return &s }

func TestResolveProp(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantType   string
		wantValue  string
		wantSource resolver.Source
	}{
		{
			name:       "synthesized number",
			in:         Input{Name: "count", Type: &typedesc.Raw{Name: "number"}, Required: true},
			wantType:   "number",
			wantValue:  "42",
			wantSource: resolver.SourceSynthesized,
		},
		{
			name:       "constant default",
			in:         Input{Name: "size", Type: &typedesc.Raw{Name: "string"}, Default: strPtr("'md'")},
			wantType:   "string",
			wantValue:  "'md'",
			wantSource: resolver.SourceDefault,
		},
		{
			name:       "computed default",
			in:         Input{Name: "size", Type: &typedesc.Raw{Name: "number"}, Default: strPtr("SIZES.md"), Computed: true},
			wantType:   "number",
			wantValue:  "42",
			wantSource: resolver.SourceSynthesized,
		},
		{
			name:       "untyped prop",
			in:         Input{Name: "label"},
			wantType:   "'string'",
			wantValue:  "undefined",
			wantSource: resolver.SourceSynthesized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolveProp(tt.in)
			assert.Equal(t, tt.in.Name, p.PropName)
			assert.Equal(t, tt.wantType, p.PropType)
			assert.Equal(t, tt.wantValue, p.PropDefaultValue)
			assert.Equal(t, tt.wantSource, p.Source)
		})
	}
}

func TestFindAndSort(t *testing.T) {
	comps := []Component{
		{Name: "Tag", FilePath: "src/z/tag.tsx"},
		{Name: "Button", FilePath: "src/a/button.tsx"},
	}
	SortByPath(comps)
	assert.Equal(t, "Button", comps[0].Name)

	c, ok := Find(comps, "Tag")
	require.True(t, ok)
	assert.Equal(t, "src/z/tag.tsx", c.FilePath)

	_, ok = Find(comps, "tag")
	assert.False(t, ok, "names match exactly")

	assert.Equal(t, []string{"Button", "Tag"}, Names(comps))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "props.json")
	comps := []Component{{
		Name:     "Button",
		Filename: "button",
		FilePath: "/src/button.tsx",
		RelPath:  "button.tsx",
		Props: []Prop{{
			PropName:         "variant",
			PropType:         "union",
			PropDefaultValue: "'primary'",
			Source:           resolver.SourceDefault,
		}},
	}}
	require.NoError(t, Save(path, "/src", comps))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, f.Version)
	assert.Equal(t, "/src", f.Root)
	assert.Equal(t, comps, f.Components)
}

func TestSave_NilComponents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")
	require.NoError(t, Save(path, "", nil))

	f, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, f.Components)
	assert.Empty(t, f.Components)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse")

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version":"9","components":[]}`), 0o644))
	_, err = Load(future)
	assert.ErrorContains(t, err, "unsupported metadata version")
}
