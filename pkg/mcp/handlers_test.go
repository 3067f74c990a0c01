package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propgen/pkg/mcplog"
	"github.com/gnana997/propgen/pkg/metadata"
)

// --- helpers ---

func testComponents() []metadata.Component {
	return []metadata.Component{
		{
			Name:          "Button",
			Filename:      "button",
			FilePath:      "/src/components/button.tsx",
			RelPath:       "src/components/button.tsx",
			DefaultExport: true,
			Props: []metadata.Prop{
				{PropName: "variant", PropType: "union", PropDefaultValue: "'primary'", Required: false, Description: "Visual style", Source: "default"},
				{PropName: "onClick", PropType: "signature", PropDefaultValue: "() => {}", Required: true, Source: "synthesized"},
				{PropName: "children", PropType: "ReactReactNode", PropDefaultValue: "<div>ReactNode</div>", Required: true, Source: "synthesized"},
			},
		},
		{
			Name:     "DatePicker",
			Filename: "date-picker",
			FilePath: "/src/layouts/date-picker/index.tsx",
			RelPath:  "src/layouts/date-picker/index.tsx",
			Props: []metadata.Prop{
				{PropName: "value", PropType: "Date", PropDefaultValue: "undefined", Source: "synthesized"},
			},
		},
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(testComponents(), nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	switch req.Params.Name {
	case "list_components":
		handler = s.handleListComponents
	case "get_component_props":
		handler = s.handleGetComponentProps
	case "synthesize_value":
		handler = s.handleSynthesizeValue
	case "render_snippet":
		handler = s.handleRenderSnippet
	case "validate_usage":
		handler = s.handleValidateUsage
	case "analyze_usage":
		handler = s.handleAnalyzeUsage
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- registration ---

func TestRegisteredTools(t *testing.T) {
	tools := RegisteredTools()
	require.Len(t, tools, 6)
	names := make([]string, len(tools))
	for i, d := range tools {
		names[i] = d.Name
		assert.NotEmpty(t, d.Description)
	}
	assert.Equal(t, []string{"list_components", "get_component_props", "synthesize_value", "render_snippet", "validate_usage", "analyze_usage"}, names)
}

// --- list_components ---

func TestHandleListComponents_NoFilter(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_components", nil))
	assert.False(t, result.IsError)

	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comps))
	require.Len(t, comps, 2)
	assert.Equal(t, "Button", comps[0]["name"])
	assert.Equal(t, "src/components/button.tsx", comps[0]["file"])
	assert.Equal(t, float64(3), comps[0]["prop_count"])
}

func TestHandleListComponents_ByKeyword(t *testing.T) {
	s := testServer(t)

	// Matches the path, not the name.
	result := callTool(t, s, makeRequest("list_components", map[string]any{"keyword": "LAYOUTS"}))
	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comps))
	require.Len(t, comps, 1)
	assert.Equal(t, "DatePicker", comps[0]["name"])

	result = callTool(t, s, makeRequest("list_components", map[string]any{"keyword": "nothing"}))
	assert.Equal(t, "[]", resultJSON(t, result))
}

func TestSetComponents(t *testing.T) {
	s := testServer(t)
	s.SetComponents(testComponents()[:1])

	result := callTool(t, s, makeRequest("list_components", nil))
	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comps))
	assert.Len(t, comps, 1)
}

// --- get_component_props ---

func TestHandleGetComponentProps(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_props", map[string]any{"name": "Button"}))
	assert.False(t, result.IsError)

	var props []metadata.Prop
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &props))
	require.Len(t, props, 3)
	assert.Equal(t, "variant", props[0].PropName)
	assert.Equal(t, "'primary'", props[0].PropDefaultValue)
}

func TestHandleGetComponentProps_NotFound(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_props", map[string]any{"name": "Nope"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "component not found")
}

func TestHandleGetComponentProps_MissingName(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_props", nil))
	assert.True(t, result.IsError)
}

// --- synthesize_value ---

func synthesize(t *testing.T, args map[string]any) synthesizeResult {
	t.Helper()
	result := callTool(t, testServer(t), makeRequest("synthesize_value", args))
	require.False(t, result.IsError, resultJSON(t, result))
	var out synthesizeResult
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	return out
}

func TestHandleSynthesizeValue(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		wantLiteral string
		wantSource  string
		wantKind    string
	}{
		{
			name:        "primitive",
			args:        map[string]any{"type": `{"name":"number"}`},
			wantLiteral: "42",
			wantSource:  "synthesized",
			wantKind:    "number",
		},
		{
			name:        "literal union picks first member",
			args:        map[string]any{"type": `{"name":"union","raw":"'sm' | 'lg'","elements":[{"name":"literal","value":"'sm'"},{"name":"literal","value":"'lg'"}]}`},
			wantLiteral: "'sm'",
			wantSource:  "synthesized",
			wantKind:    "union",
		},
		{
			name:        "constant default wins",
			args:        map[string]any{"type": `{"name":"string"}`, "default": "'hello'"},
			wantLiteral: "'hello'",
			wantSource:  "default",
			wantKind:    "string",
		},
		{
			name:        "computed default is ignored",
			args:        map[string]any{"type": `{"name":"string"}`, "default": "DEFAULT_LABEL", "computed": true},
			wantLiteral: "'string'",
			wantSource:  "synthesized",
			wantKind:    "string",
		},
		{
			name:        "null children override",
			args:        map[string]any{"type": `{"name":"ReactReactNode","raw":"React.ReactNode"}`, "name": "children", "default": "null"},
			wantLiteral: "<>ReactNode</>",
			wantSource:  "children-override",
			wantKind:    "semantic",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := synthesize(t, tc.args)
			assert.Equal(t, tc.wantLiteral, out.Literal)
			assert.Equal(t, tc.wantSource, out.Source)
			assert.Equal(t, tc.wantKind, out.Kind)
			assert.NotEmpty(t, out.Descriptor)
		})
	}
}

func TestHandleSynthesizeValue_EvalError(t *testing.T) {
	out := synthesize(t, map[string]any{"type": `{"name":"number"}`, "default": "1 + 2"})
	assert.Equal(t, "42", out.Literal)
	assert.Equal(t, "synthesized", out.Source)
	assert.NotEmpty(t, out.EvalError)
}

func TestHandleSynthesizeValue_BadType(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("synthesize_value", map[string]any{"type": "{not json"}))
	assert.True(t, result.IsError)

	result = callTool(t, s, makeRequest("synthesize_value", nil))
	assert.True(t, result.IsError)
}

// --- render_snippet ---

func TestHandleRenderSnippet(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("render_snippet", map[string]any{"name": "Button"}))
	assert.False(t, result.IsError)
	assert.Equal(t,
		"<Button\n\tvariant={${1:'primary'}}\n\tonClick={${2:() => {\\}}}\n>\n\t{${0:<div>ReactNode</div>}}\n</Button>",
		resultJSON(t, result))
}

func TestHandleRenderSnippet_WithComments(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("render_snippet", map[string]any{"name": "Button", "with_comments": true}))
	assert.Contains(t, resultJSON(t, result), "/* optional: Visual style */")
}

func TestHandleRenderSnippet_NotFound(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("render_snippet", map[string]any{"name": "Missing"}))
	assert.True(t, result.IsError)
}

// --- validate_usage / analyze_usage ---

func TestHandleValidateUsage(t *testing.T) {
	s := testServer(t)
	code := "import Button from './button'\nconst Page = () => <Button variant=\"ghost\" size=\"lg\">Go</Button>\n"

	result := callTool(t, s, makeRequest("validate_usage", map[string]any{"code": code, "auto_fix": true}))
	assert.False(t, result.IsError)

	var out struct {
		Valid      bool   `json:"valid"`
		FixedCode  string `json:"fixed_code"`
		Violations []struct {
			Rule string `json:"rule"`
			Prop string `json:"prop"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	assert.False(t, out.Valid)
	require.Len(t, out.Violations, 2)
	assert.Equal(t, "unknown-prop", out.Violations[0].Rule)
	assert.Equal(t, "size", out.Violations[0].Prop)
	assert.Equal(t, "missing-required-prop", out.Violations[1].Rule)
	assert.Equal(t, "onClick", out.Violations[1].Prop)
	assert.Contains(t, out.FixedCode, "<Button onClick={() => {}} variant=")
}

func TestHandleValidateUsage_AfterSetComponents(t *testing.T) {
	s := testServer(t)
	s.SetComponents(nil)

	result := callTool(t, s, makeRequest("validate_usage", map[string]any{"code": "const P = () => <Button />"}))
	assert.Contains(t, resultJSON(t, result), `"valid":true`)
}

func TestHandleAnalyzeUsage(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("analyze_usage", map[string]any{"code": "const P = () => <DatePicker value={d} />"}))
	assert.False(t, result.IsError)

	var out struct {
		Components []struct {
			Name  string   `json:"name"`
			Props []string `json:"props"`
			Known bool     `json:"known"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	require.Len(t, out.Components, 1)
	assert.Equal(t, "DatePicker", out.Components[0].Name)
	assert.Equal(t, []string{"value"}, out.Components[0].Props)
	assert.True(t, out.Components[0].Known)

	result = callTool(t, s, makeRequest("analyze_usage", nil))
	assert.True(t, result.IsError)
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.jsonl")
	logger, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	s := NewServer(testComponents(), logger)
	defer s.Close()
	handler := s.loggingMiddleware()(s.handleGetComponentProps)

	_, err = handler(context.Background(), makeRequest("get_component_props", map[string]any{"name": "Button"}))
	require.NoError(t, err)
	_, err = handler(context.Background(), makeRequest("get_component_props", map[string]any{"name": "Nope"}))
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	entries, err := mcplog.ReadLog(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "get_component_props", entries[0].Tool)
	assert.Equal(t, "Button", entries[0].Params["name"])
	assert.Greater(t, entries[0].ResponseBytes, 0)
	assert.Equal(t, "Button", entries[0].Component)
	assert.False(t, entries[0].ToolError)
	assert.True(t, entries[1].ToolError)
	assert.Empty(t, entries[0].Source)
}

func TestLoggingMiddleware_SynthesizeSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.jsonl")
	logger, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	s := NewServer(testComponents(), logger)
	defer s.Close()
	handler := s.loggingMiddleware()(s.handleSynthesizeValue)

	calls := []map[string]any{
		{"type": `{"name":"number"}`},
		{"type": `{"name":"string"}`, "default": "'hi'"},
		{"type": "{"},
	}
	for _, args := range calls {
		_, err := handler(context.Background(), makeRequest("synthesize_value", args))
		require.NoError(t, err)
	}
	require.NoError(t, logger.Close())

	entries, err := mcplog.ReadLog(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "synthesized", entries[0].Source)
	assert.Equal(t, "default", entries[1].Source)
	assert.True(t, entries[2].ToolError)
	assert.Empty(t, entries[2].Source)
	assert.Empty(t, entries[0].Component)
}
