package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propgen/pkg/mcplog"
	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/validator"
)

const fixtures = "../../pkg/scanner/testdata"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// copyFixture copies a scanner fixture into dir/rel.
func copyFixture(t *testing.T, dir, name, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtures, name))
	require.NoError(t, err)
	dest := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
	require.NoError(t, os.WriteFile(dest, data, 0644))
	return dest
}

// --- config ---

func TestLoadProjectConfig_Missing(t *testing.T) {
	cfg, err := loadProjectConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadProjectConfig_KeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generate:\n  path: src\n  make-tests: false\nscan:\n  ignore_props: [testId]\n"), 0644))

	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "src", cfg.Generate.Path)
	assert.False(t, cfg.Generate.MakeTests)
	assert.True(t, cfg.Generate.MakeSnippets)
	assert.Equal(t, []string{"testId"}, cfg.Scan.IgnoreProps)
	assert.Equal(t, []string{"**/*.tsx"}, cfg.Scan.Include)
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generate: [\n"), 0644))

	_, err := loadProjectConfig(path)
	assert.Error(t, err)
}

func TestResolveRoot(t *testing.T) {
	cfg := defaultProjectConfig()
	cfg.Generate.Path = "src"

	assert.Equal(t, "lib", resolveRoot("lib", cfg))
	assert.Equal(t, "src", resolveRoot("", cfg))
	assert.Equal(t, ".", resolveRoot("", nil))
	assert.Equal(t, ".", resolveRoot("", &ProjectConfig{}))
}

func TestFindConfig(t *testing.T) {
	t.Setenv("PROPGEN_CONFIG", "")
	assert.Equal(t, "a.yaml", findConfig([]string{"generate", "--config=a.yaml"}))
	assert.Equal(t, "b.yaml", findConfig([]string{"--config", "b.yaml", "serve"}))
	assert.Equal(t, defaultConfigPath, findConfig([]string{"generate"}))

	t.Setenv("PROPGEN_CONFIG", "env.yaml")
	assert.Equal(t, "env.yaml", findConfig(nil))
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".propgen", "config.yaml")
	cmd := &InitCmd{Path: "src/components"}

	require.NoError(t, cmd.Run(configPath(path), discardLogger()))
	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "src/components", cfg.Generate.Path)
	assert.Equal(t, "1", cfg.Version)
	assert.Contains(t, cfg.Scan.Exclude, "**/*.stories.*")

	err = cmd.Run(configPath(path), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	cmd.Force = true
	assert.NoError(t, cmd.Run(configPath(path), discardLogger()))
}

// --- generate ---

func TestGenerateCmd(t *testing.T) {
	root := t.TempDir()
	copyFixture(t, root, "button.tsx", "src/components/actions/button.tsx")
	copyFixture(t, root, "date-picker/index.tsx", "src/layouts/forms/date-picker/index.tsx")
	out := t.TempDir()

	cmd := &GenerateCmd{
		SourceFlags: SourceFlags{Path: root},
		OutputFlags: OutputFlags{
			Out:           out,
			MakeTests:     true,
			MakeSnippets:  true,
			MakeFragments: true,
			AppendVersion: "2",
			MetadataOut:   filepath.Join(out, "meta", "props.json"),
		},
	}
	require.NoError(t, cmd.Run(discardLogger(), defaultProjectConfig()))

	for _, name := range []string{
		"snippetsWithComments_2.json",
		"snippetsNoComments_2.json",
		"codeFragmentsWithComments_2.json",
		"codeFragmentsNoComments_2.json",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.FileExists(t, filepath.Join(root, "src/components/actions/__tests__/Generated/button.test.tsx"))
	assert.FileExists(t, filepath.Join(root, "src/layouts/forms/date-picker/__tests__/Generated/date-picker.test.tsx"))

	f, err := metadata.Load(filepath.Join(out, "meta", "props.json"))
	require.NoError(t, err)
	require.Len(t, f.Components, 2)
	button, ok := metadata.Find(f.Components, "Button")
	require.True(t, ok)
	assert.Equal(t, "src/components/actions/button.tsx", filepath.ToSlash(button.RelPath))

	var snippets map[string]any
	data, err := os.ReadFile(filepath.Join(out, "snippetsNoComments_2.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &snippets))
	assert.Contains(t, snippets, "Button")
}

func TestGenerateCmd_Docgen(t *testing.T) {
	dir := t.TempDir()
	docgen := filepath.Join(dir, "docgen.json")
	require.NoError(t, os.WriteFile(docgen, []byte(`{
  "src/components/badge.tsx": {
    "displayName": "Badge",
    "props": {
      "label": {"required": true, "tsType": {"name": "string"}, "description": ""},
      "tone": {"required": false, "tsType": {"name": "union", "raw": "'info' | 'warn'", "elements": [{"name": "literal", "value": "'info'"}, {"name": "literal", "value": "'warn'"}]}, "description": ""}
    }
  }
}`), 0644))
	out := t.TempDir()

	cmd := &GenerateCmd{
		SourceFlags: SourceFlags{Docgen: docgen},
		OutputFlags: OutputFlags{Out: out, MakeSnippets: true},
	}
	require.NoError(t, cmd.Run(discardLogger(), defaultProjectConfig()))

	data, err := os.ReadFile(filepath.Join(out, "snippetsNoComments.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `label={${1:'string'}}`)
	assert.Contains(t, string(data), `tone={${2:'info'}}`)
	assert.NoFileExists(t, filepath.Join(out, "codeFragmentsNoComments.json"))
}

func TestGenerateCmd_BadTemplate(t *testing.T) {
	root := t.TempDir()
	copyFixture(t, root, "button.tsx", "button.tsx")

	cmd := &GenerateCmd{
		SourceFlags: SourceFlags{Path: root},
		OutputFlags: OutputFlags{Out: t.TempDir(), MakeTests: true, Template: filepath.Join(root, "missing.tmpl")},
	}
	assert.Error(t, cmd.Run(discardLogger(), defaultProjectConfig()))
}

// --- inspect ---

func TestPrintComponentHuman(t *testing.T) {
	comp := &metadata.Component{
		Name:          "Button",
		RelPath:       "src/button.tsx",
		DefaultExport: true,
		Props: []metadata.Prop{
			{PropName: "variant", PropType: "union", PropDefaultValue: "'primary'", Description: "Visual style of the button.", Source: "default"},
			{PropName: "count", PropType: "number", PropDefaultValue: "42", Required: true, Source: "synthesized"},
		},
	}
	var buf bytes.Buffer
	printComponentHuman(&buf, comp)
	out := buf.String()

	assert.Contains(t, out, "Button  [default export]")
	assert.Contains(t, out, "src/button.tsx")
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `variant\s+union\s+no\s+'primary'\s+default`, out)
	assert.Regexp(t, `count\s+number\s+yes\s+42\s+synthesized`, out)
	assert.Contains(t, out, "Visual style of the button.")
}

func TestPrintPropsSection_Empty(t *testing.T) {
	var buf bytes.Buffer
	printPropsSection(&buf, "Props", nil)
	assert.Equal(t, "Props  (none)\n", buf.String())
}

func TestPrintWrapped(t *testing.T) {
	var buf bytes.Buffer
	printWrapped(&buf, "one two three four five six", 2, 12)
	assert.Equal(t, "  one two\n  three four\n  five six\n", buf.String())
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "[ …", firstLine("[\n  1,\n]"))
	assert.Equal(t, "42", firstLine("42"))
}

// --- tool-stats ---

func TestPrintToolStats(t *testing.T) {
	var buf bytes.Buffer
	printToolStats(&buf, nil)
	assert.Equal(t, "no tool calls\n", buf.String())

	buf.Reset()
	printToolStats(&buf, mcplog.Summarize([]mcplog.LogEntry{
		{Tool: "synthesize_value", DurationMs: 3, TokensEst: 8, Source: "synthesized"},
		{Tool: "synthesize_value", DurationMs: 5, TokensEst: 8, ToolError: true},
		{Tool: "synthesize_value", DurationMs: 4, TokensEst: 8, Source: "default"},
	}))
	assert.Regexp(t, `synthesize_value\s+3\s+1\s+4\.0\s+5\s+24`, buf.String())
	assert.Contains(t, buf.String(), "synthesize_value sources: default=1 synthesized=1")
}

// --- check ---

func writePage(t *testing.T, dir, code string) string {
	t.Helper()
	path := filepath.Join(dir, "page.tsx")
	require.NoError(t, os.WriteFile(path, []byte(code), 0644))
	return path
}

const pageMissingCount = `import Button from './button';

export const Page = () => <Button onClick={() => {}} />;
`

func TestCheckCmd_ReportsErrors(t *testing.T) {
	root := t.TempDir()
	copyFixture(t, root, "button.tsx", "button.tsx")
	page := writePage(t, t.TempDir(), pageMissingCount)

	cmd := &CheckCmd{SourceFlags: SourceFlags{Path: root}, Files: []string{page}}
	err := cmd.Run(discardLogger(), defaultProjectConfig())
	assert.ErrorIs(t, err, errCheckFailed)

	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Equal(t, pageMissingCount, string(data), "file untouched without --fix")
}

func TestCheckCmd_Fix(t *testing.T) {
	root := t.TempDir()
	copyFixture(t, root, "button.tsx", "button.tsx")
	page := writePage(t, t.TempDir(), pageMissingCount)

	cmd := &CheckCmd{SourceFlags: SourceFlags{Path: root}, Files: []string{page}, Fix: true}
	require.NoError(t, cmd.Run(discardLogger(), defaultProjectConfig()))

	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(data), "count={42}")
}

func TestPrintCheckResults(t *testing.T) {
	var buf bytes.Buffer
	printCheckResults(&buf, []fileResult{{
		File: "page.tsx",
		ValidationResult: &validator.ValidationResult{
			Summary: "1 error",
			Violations: []validator.Violation{{
				Rule:       validator.RuleUnknownProp,
				Message:    "Button has no prop size",
				Severity:   validator.SeverityError,
				Line:       3,
				Column:     27,
				Suggestion: "remove size",
			}},
		},
	}})
	out := buf.String()
	assert.Contains(t, out, "page.tsx: 1 error")
	assert.Contains(t, out, "3:27")
	assert.Contains(t, out, "unknown-prop")
	assert.Contains(t, out, "remove size")
}
