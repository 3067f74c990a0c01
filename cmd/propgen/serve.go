package main

import (
	"fmt"
	"log/slog"

	mcpserver "github.com/gnana997/propgen/pkg/mcp"
	"github.com/gnana997/propgen/pkg/mcplog"
	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/scanner"
)

// ServeCmd serves resolved prop metadata over MCP on stdin/stdout.
type ServeCmd struct {
	SourceFlags `embed:""`
	Metadata    string `help:"Serve a metadata file written by generate --metadata-out" type:"existingfile"`
	ToolLog     string `help:"Append a JSONL record per tool call to this file" env:"PROPGEN_TOOL_LOG"`
	Watch       bool   `help:"Rescan sources and update the served metadata on change"`
}

// Run is called by kong when the serve command is executed.
func (c *ServeCmd) Run(logger *slog.Logger, project *ProjectConfig) error {
	toolLog, err := mcplog.NewLogger(c.ToolLog)
	if err != nil {
		return err
	}
	if toolLog != nil {
		defer toolLog.Close()
	}

	if c.Metadata != "" || c.Docgen != "" || !c.Watch {
		comps, err := c.components(project, logger)
		if err != nil {
			return err
		}
		logger.Info("serving", "components", len(comps))
		srv := mcpserver.NewServer(comps, toolLog)
		defer srv.Close()
		return srv.ServeStdio()
	}

	root := resolveRoot(c.Path, project)
	s, err := scanner.NewScanner(logger, project.Scan)
	if err != nil {
		return err
	}
	defer s.Close()

	comps, _, err := s.Run(root, project.Scan)
	if err != nil {
		return err
	}
	srv := mcpserver.NewServer(comps, toolLog)
	defer srv.Close()

	w, err := startWatcher(root, 0, project, s, logger, func() {
		updated, _, err := s.Run(root, project.Scan)
		if err != nil {
			logger.Error("rescan failed", "path", root, "error", err)
			return
		}
		srv.SetComponents(updated)
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("serving", "components", len(comps), "watch", root)
	return srv.ServeStdio()
}

func (c *ServeCmd) components(project *ProjectConfig, logger *slog.Logger) ([]metadata.Component, error) {
	if c.Metadata != "" {
		f, err := metadata.Load(c.Metadata)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", c.Metadata, err)
		}
		return f.Components, nil
	}
	comps, _, err := c.load(project, logger)
	return comps, err
}
