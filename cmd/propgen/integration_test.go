package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "propgen-integration-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "propgen")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmp)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches propgen serve over the scanner fixtures and returns
// an initialized MCP client.
func startServer(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil,
		"--log-level=warn", "serve", "--path", fixtures)
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "propgen-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "propgen", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	toolNames := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		toolNames[i] = tool.Name
	}
	for _, name := range []string{"list_components", "get_component_props", "synthesize_value", "render_snippet"} {
		assert.Contains(t, toolNames, name, "missing tool: %s", name)
	}
}

func TestIntegration_ListComponents(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "list_components", nil)
	assert.False(t, result.IsError)

	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &comps))
	names := make([]string, len(comps))
	for i, comp := range comps {
		names[i] = comp["name"].(string)
	}
	assert.Contains(t, names, "Button")
	assert.Contains(t, names, "DatePicker")
}

func TestIntegration_GetComponentProps(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "get_component_props", map[string]any{"name": "Button"})
	assert.False(t, result.IsError)

	var props []map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &props))
	byName := make(map[string]map[string]any, len(props))
	for _, p := range props {
		byName[p["propName"].(string)] = p
	}
	assert.Equal(t, "'primary'", byName["variant"]["propDefaultValue"])
	assert.Equal(t, "<>ReactNode</>", byName["children"]["propDefaultValue"])
	assert.NotContains(t, byName, "ouiaId")

	result = callToolHelper(t, c, "get_component_props", map[string]any{"name": "Missing"})
	assert.True(t, result.IsError)
}

func TestIntegration_SynthesizeValue(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "synthesize_value", map[string]any{
		"type":     `{"name":"Array","raw":"string[]","elements":[{"name":"string"}]}`,
		"required": true,
	})
	assert.False(t, result.IsError)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &out))
	assert.Equal(t, "synthesized", out["source"])
	assert.Equal(t, "array", out["kind"])
}

func TestIntegration_RenderSnippet(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "render_snippet", map[string]any{"name": "Button", "with_comments": true})
	assert.False(t, result.IsError)
	text := extractText(t, result)
	assert.Contains(t, text, "<Button")
	assert.Contains(t, text, "</Button>")
}
