package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propgen/pkg/parser"
	"github.com/gnana997/propgen/pkg/util"
)

func newTestManager(t *testing.T) *parser.Manager {
	t.Helper()
	pm := parser.NewManager(nil, 2)
	t.Cleanup(func() { pm.Close() })
	return pm
}

func extractFixture(t *testing.T, name string) *FileResult {
	t.Helper()
	path := absTestdata(t, name)
	source, err := os.ReadFile(path)
	require.NoError(t, err)
	fr, err := ExtractFile(newTestManager(t), path, source, DefaultScanConfig().IgnoreProps)
	require.NoError(t, err)
	return fr
}

func extractSource(t *testing.T, filename, source string) *FileResult {
	t.Helper()
	fr, err := ExtractFile(newTestManager(t), filename, []byte(source), nil)
	require.NoError(t, err)
	return fr
}

func absTestdata(t *testing.T, name string) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return abs
}

func propsByName(props []ExtractedProp) map[string]ExtractedProp {
	out := make(map[string]ExtractedProp, len(props))
	for _, p := range props {
		out[p.Name] = p
	}
	return out
}

func propNames(props []ExtractedProp) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

func TestExtractFile_FunctionDeclaration(t *testing.T) {
	fr := extractFixture(t, "button.tsx")

	assert.Equal(t, "Button", fr.Component)
	assert.Equal(t, ComponentKindFunction, fr.Kind)
	assert.Equal(t, []string{"variant", "size", "disabled", "onClick", "children", "count"}, propNames(fr.Props),
		"ouiaId is ignored and declaration order is kept")

	byName := propsByName(fr.Props)

	variant := byName["variant"]
	assert.False(t, variant.Required)
	assert.Equal(t, "Visual style of the button.", variant.Description)
	require.NotNil(t, variant.Type)
	assert.Equal(t, "union", variant.Type.Name)
	require.Len(t, variant.Type.Elements, 3)
	assert.Equal(t, "literal", variant.Type.Elements[0].Name)
	assert.Equal(t, "'primary'", variant.Type.Elements[0].Value.Text)
	require.NotNil(t, variant.Default)
	assert.Equal(t, DefaultValue{Value: "'primary'"}, *variant.Default)

	size := byName["size"]
	assert.Nil(t, size.Default)
	assert.Equal(t, "Size of the button.\n\n@default md", size.Description)

	onClick := byName["onClick"]
	assert.True(t, onClick.Required)
	require.NotNil(t, onClick.Type)
	assert.Equal(t, "signature", onClick.Type.Name)
	assert.Equal(t, "function", onClick.Type.Type)
	assert.Equal(t, "(event: React.MouseEvent<HTMLButtonElement>) => void", onClick.Type.Raw)

	children := byName["children"]
	require.NotNil(t, children.Type)
	assert.Equal(t, "ReactReactNode", children.Type.Name)
	assert.Equal(t, "React.ReactNode", children.Type.Raw)
	require.NotNil(t, children.Default)
	assert.Equal(t, "null", children.Default.Value)

	assert.Equal(t, "false", byName["disabled"].Default.Value)
	assert.True(t, byName["count"].Required)
	assert.Equal(t, "number", byName["count"].Type.Name)
}

func TestExtractFile_ForwardRefWithAliases(t *testing.T) {
	fr := extractFixture(t, "card.tsx")

	assert.Equal(t, "Card", fr.Component)
	assert.Equal(t, ComponentKindForwardRef, fr.Kind)
	byName := propsByName(fr.Props)

	items := byName["items"]
	assert.Equal(t, "Array", items.Type.Name)
	assert.Equal(t, "string[]", items.Type.Raw)
	require.NotNil(t, items.Default)
	assert.Equal(t, DefaultValue{Value: "['a', 'b']"}, *items.Default, "const literal is inlined")

	meta := byName["meta"]
	require.NotNil(t, meta.Type)
	assert.Equal(t, "signature", meta.Type.Name)
	assert.Equal(t, "object", meta.Type.Type)
	require.Len(t, meta.Type.Signature.Properties, 2)
	assert.Equal(t, "id", meta.Type.Signature.Properties[0].Key)
	assert.True(t, *meta.Type.Signature.Properties[0].Value.Required)
	assert.False(t, *meta.Type.Signature.Properties[1].Value.Required)

	position := byName["position"]
	assert.Equal(t, "tuple", position.Type.Name)
	assert.Equal(t, "[number, number]", position.Type.Raw)
	assert.Len(t, position.Type.Elements, 2)

	assert.Equal(t, "'light'", byName["tone"].Default.Value)
	assert.Nil(t, byName["title"].Default)
}

func TestExtractFile_ClassWithStaticDefaults(t *testing.T) {
	fr := extractFixture(t, "counter.tsx")

	assert.Equal(t, "Counter", fr.Component)
	assert.Equal(t, ComponentKindClass, fr.Kind)
	assert.Equal(t, []string{"start", "step", "label", "format", "onChange"}, propNames(fr.Props))

	byName := propsByName(fr.Props)
	assert.Equal(t, "Initial value.", byName["start"].Description)
	assert.Equal(t, DefaultValue{Value: "0"}, *byName["start"].Default)
	assert.Equal(t, DefaultValue{Value: "'Count'"}, *byName["label"].Default)
	assert.Equal(t, DefaultValue{Value: "formatValue", Computed: true}, *byName["format"].Default)

	onChange := byName["onChange"]
	assert.False(t, onChange.Required)
	assert.Equal(t, "signature", onChange.Type.Name)
	assert.Equal(t, "(value: number) => void", onChange.Type.Raw)
}

func TestExtractFile_JavaScriptDefaults(t *testing.T) {
	fr := extractFixture(t, "legacy.jsx")

	assert.Equal(t, "Legacy", fr.Component)
	assert.Equal(t, []string{"items", "count", "title", "onSelect", "theme"}, propNames(fr.Props))

	byName := propsByName(fr.Props)
	for _, p := range fr.Props {
		assert.Nil(t, p.Type, "%s has no type in plain JavaScript", p.Name)
		assert.False(t, p.Required)
	}
	assert.Equal(t, "[]", byName["items"].Default.Value)
	assert.Equal(t, "3", byName["count"].Default.Value, "destructuring overrides defaultProps")
	assert.Equal(t, "'Hello'", byName["title"].Default.Value)
	assert.Equal(t, "() => {}", byName["onSelect"].Default.Value)
	assert.Equal(t, DefaultValue{Value: "themes.light", Computed: true}, *byName["theme"].Default)
}

func TestExtractFile_MemoOfLocalComponent(t *testing.T) {
	fr := extractFixture(t, "tag.tsx")

	assert.Equal(t, "Tag", fr.Component)
	assert.Equal(t, ComponentKindMemo, fr.Kind)
	assert.Equal(t, []string{"color", "label", "removable"}, propNames(fr.Props))

	byName := propsByName(fr.Props)
	assert.Equal(t, "'blue'", byName["color"].Default.Value)
	assert.Equal(t, "true", byName["removable"].Default.Value)
	assert.Nil(t, byName["label"].Default)
}

func TestExtractFile_FCAnnotation(t *testing.T) {
	fr := extractFixture(t, filepath.Join("date-picker", "index.tsx"))

	assert.Equal(t, "DatePicker", fr.Component)
	assert.Equal(t, []string{"value", "format", "aria-label"}, propNames(fr.Props))

	byName := propsByName(fr.Props)
	assert.Equal(t, DefaultValue{Value: "new Date()", Computed: true}, *byName["value"].Default)
	assert.Equal(t, "'YYYY-MM-DD'", byName["format"].Default.Value)
}

func TestExtractFile_NoComponent(t *testing.T) {
	path := absTestdata(t, "hooks.tsx")
	source, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = ExtractFile(newTestManager(t), path, source, nil)
	assert.ErrorIs(t, err, ErrNoComponent)
}

func TestExtractFile_InlineObjectType(t *testing.T) {
	fr := extractSource(t, "inline.tsx", `
export const Inline = ({ tags = [] }: { tags?: string[]; size: number | string }) => <div>{tags}</div>;
`)
	assert.Equal(t, "Inline", fr.Component)
	assert.Equal(t, []string{"tags", "size"}, propNames(fr.Props))

	size := propsByName(fr.Props)["size"]
	assert.True(t, size.Required)
	assert.Equal(t, "union", size.Type.Name)
	assert.Equal(t, "number | string", size.Type.Raw)
}

func TestExtractFile_InterfaceExtends(t *testing.T) {
	fr := extractSource(t, "panel.tsx", `
interface BaseProps {
  id: string;
  hidden?: boolean;
}

interface PanelProps extends BaseProps {
  /** Overrides the base flag. */
  hidden: boolean;
  title?: string;
}

export function Panel(props: PanelProps) {
  return <section id={props.id}>{props.title}</section>;
}
`)
	assert.Equal(t, []string{"id", "hidden", "title"}, propNames(fr.Props))
	hidden := propsByName(fr.Props)["hidden"]
	assert.True(t, hidden.Required)
	assert.Equal(t, "Overrides the base flag.", hidden.Description)
}

func TestExtractFile_IntersectionAndExternalTypes(t *testing.T) {
	fr := extractSource(t, "link.tsx", `
import type { AnchorHTMLAttributes } from 'react';

type OwnProps = { href: string; external?: boolean };

export const Link = ({ href, external = false, ...rest }: OwnProps & AnchorHTMLAttributes<HTMLAnchorElement>) => (
  <a href={href} {...rest} />
);
`)
	assert.Equal(t, []string{"href", "external"}, propNames(fr.Props), "external types contribute nothing")
	assert.Equal(t, "false", propsByName(fr.Props)["external"].Default.Value)
}

func TestExtractFile_DefaultExportPreferred(t *testing.T) {
	fr := extractSource(t, "menu.tsx", `
export const MenuItem = ({ label }: { label: string }) => <li>{label}</li>;

const Menu = ({ open = false }: { open?: boolean }) => <ul hidden={!open} />;

export default Menu;
`)
	assert.Equal(t, "Menu", fr.Component)
	assert.Equal(t, []string{"open"}, propNames(fr.Props))
}

func TestExtractFile_DefaultPropsReference(t *testing.T) {
	fr := extractSource(t, "badge.jsx", `
const defaults = { tone: 'info', max: 99 };

function Badge(props) {
  const { tone, max, count = 0 } = props;
  return <span className={tone}>{Math.min(count, max)}</span>;
}

Badge.defaultProps = defaults;

export default Badge;
`)
	assert.Equal(t, "Badge", fr.Component)
	assert.Equal(t, []string{"tone", "max", "count"}, propNames(fr.Props))
	byName := propsByName(fr.Props)
	assert.Equal(t, "'info'", byName["tone"].Default.Value)
	assert.Equal(t, "99", byName["max"].Default.Value)
	assert.Equal(t, "0", byName["count"].Default.Value)
}

func TestExtractFile_IgnoreProps(t *testing.T) {
	source := `export const Box = ({ ouiaId, ouiaSafe, size = 1 }: { ouiaId?: string; ouiaSafe?: boolean; size?: number }) => <div />;`
	fr, err := ExtractFile(newTestManager(t), "box.tsx", []byte(source), []string{"ouia"})
	require.NoError(t, err)
	assert.Equal(t, []string{"size"}, propNames(fr.Props))
}

func TestExtractAll_CountsSkippedAndFailed(t *testing.T) {
	cache, err := util.NewSourceCache(0, nil)
	require.NoError(t, err)
	defer cache.Close()

	files := []string{
		absTestdata(t, "button.tsx"),
		absTestdata(t, "card.tsx"),
		absTestdata(t, "hooks.tsx"),
		filepath.Join(t.TempDir(), "missing.tsx"),
	}
	results, skipped, failed := ExtractAll(files, newTestManager(t), cache, DefaultScanConfig(), nil)

	assert.Len(t, results, 2)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)
}

func TestExtractAll_Empty(t *testing.T) {
	results, skipped, failed := ExtractAll(nil, nil, nil, DefaultScanConfig(), nil)
	assert.Nil(t, results)
	assert.Zero(t, skipped)
	assert.Zero(t, failed)
}
