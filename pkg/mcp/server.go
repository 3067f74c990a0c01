package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/propgen/pkg/mcplog"
	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/parser"
	"github.com/gnana997/propgen/pkg/validator"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server exposing resolved component metadata
// and the value synthesizer.
type Server struct {
	mcpServer *server.MCPServer
	logger    *mcplog.Logger // nil disables tool-call logging

	parser *parser.Manager

	mu         sync.RWMutex
	components []metadata.Component
	validator  *validator.Validator
}

// NewServer creates a server over components. logger may be nil.
func NewServer(components []metadata.Component, logger *mcplog.Logger) *Server {
	s := &Server{logger: logger, parser: parser.NewManager(nil, 0)}
	s.SetComponents(components)

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("propgen", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentPropsTool(), Handler: s.handleGetComponentProps},
		server.ServerTool{Tool: synthesizeValueTool(), Handler: s.handleSynthesizeValue},
		server.ServerTool{Tool: renderSnippetTool(), Handler: s.handleRenderSnippet},
		server.ServerTool{Tool: validateUsageTool(), Handler: s.handleValidateUsage},
		server.ServerTool{Tool: analyzeUsageTool(), Handler: s.handleAnalyzeUsage},
	)

	return s
}

// SetComponents replaces the served metadata, e.g. after a rescan.
func (s *Server) SetComponents(components []metadata.Component) {
	v := validator.NewValidator(components, s.parser)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = components
	s.validator = v
}

func (s *Server) snapshot() []metadata.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.components
}

func (s *Server) currentValidator() *validator.Validator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validator
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close releases the parsers used for validation.
func (s *Server) Close() error {
	return s.parser.Close()
}
