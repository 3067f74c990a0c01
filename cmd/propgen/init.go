package main

import (
	"errors"
	"log/slog"
	"os"
)

// InitCmd writes a project config file with the default settings.
type InitCmd struct {
	Path  string `short:"p" help:"Component root recorded in the config" default:"."`
	Force bool   `help:"Overwrite an existing config file"`
}

// Run is called by kong when the init command is executed.
func (c *InitCmd) Run(path configPath, logger *slog.Logger) error {
	dest := string(path)
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("config file exists; use --force to overwrite")
		}
	}

	cfg := defaultProjectConfig()
	cfg.Generate.Path = c.Path
	if err := writeProjectConfig(dest, cfg); err != nil {
		return err
	}
	logger.Info("config written", "file", dest)
	return nil
}
