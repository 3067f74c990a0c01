package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/propgen/pkg/mcplog"
)

// loggingMiddleware writes one mcplog entry per tool call. NewServer
// installs it only when a log file is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			_ = s.logger.Write(toolCallEntry(req, result, err, start))
			return result, err
		}
	}
}

// toolCallEntry describes a finished call. Per-component tools record the
// component name and synthesize_value records the resolver branch taken.
func toolCallEntry(req mcp.CallToolRequest, result *mcp.CallToolResult, callErr error, start time.Time) mcplog.LogEntry {
	size := mcplog.ResponseBytes(result)
	entry := mcplog.LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		Params:        mcplog.SanitizeParams(req.GetArguments()),
		DurationMs:    time.Since(start).Milliseconds(),
		ResponseBytes: size,
		TokensEst:     size / 4,
		ToolError:     result != nil && result.IsError,
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.Error = &msg
	}

	switch req.Params.Name {
	case "get_component_props", "render_snippet":
		entry.Component = req.GetString("name", "")
	case "synthesize_value":
		if !entry.ToolError {
			entry.Source = synthesizedSource(result)
		}
	}
	return entry
}

func synthesizedSource(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return ""
	}
	var r synthesizeResult
	if err := json.Unmarshal([]byte(text.Text), &r); err != nil {
		return ""
	}
	return r.Source
}
