package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/propgen/pkg/emit"
	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/resolver"
	"github.com/gnana997/propgen/pkg/typedesc"
)

type componentSummary struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	PropCount int    `json:"prop_count"`
}

type synthesizeResult struct {
	Literal    string `json:"literal"`
	Source     string `json:"source"`
	Kind       string `json:"kind"`
	Descriptor string `json:"descriptor"`
	EvalError  string `json:"eval_error,omitempty"`
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword := strings.ToLower(req.GetString("keyword", ""))

	out := []componentSummary{}
	for _, c := range s.snapshot() {
		file := c.RelPath
		if file == "" {
			file = c.FilePath
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(c.Name), keyword) &&
			!strings.Contains(strings.ToLower(file), keyword) {
			continue
		}
		out = append(out, componentSummary{Name: c.Name, File: file, PropCount: len(c.Props)})
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponentProps(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, ok := metadata.Find(s.snapshot(), name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("component not found: %s", name)), nil
	}
	return jsonResult(c.Props)
}

func (s *Server) handleSynthesizeValue(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeJSON, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := typedesc.ParseRaw([]byte(typeJSON))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	desc := typedesc.Normalize(raw)
	spec := resolver.PropSpec{
		Name:              req.GetString("name", ""),
		Type:              desc,
		Required:          req.GetBool("required", false),
		DefaultIsComputed: req.GetBool("computed", false),
	}
	if def, ok := req.GetArguments()["default"].(string); ok {
		spec.RawDefault = &def
	}

	res := resolver.Explain(spec)
	out := synthesizeResult{
		Literal:    res.Literal,
		Source:     string(res.Source),
		Kind:       desc.Kind.String(),
		Descriptor: desc.String(),
	}
	if res.EvalErr != nil {
		out.EvalError = res.EvalErr.Error()
	}
	return jsonResult(out)
}

func (s *Server) handleRenderSnippet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, ok := metadata.Find(s.snapshot(), name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("component not found: %s", name)), nil
	}
	lines := emit.SnippetLines(*c, req.GetBool("with_comments", false))
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleValidateUsage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.currentValidator().ValidatePage(code, req.GetBool("auto_fix", false)))
}

func (s *Server) handleAnalyzeUsage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.currentValidator().AnalyzePage(code))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
