package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gnana997/propgen/pkg/parser"
	"github.com/gnana997/propgen/pkg/validator"
)

// errCheckFailed is returned when any checked file has an error.
var errCheckFailed = errors.New("validation errors found")

// CheckCmd validates component usages in TSX files against the scanned
// props.
type CheckCmd struct {
	SourceFlags `embed:""`
	Files       []string `arg:"" help:"TSX files to check" type:"existingfile"`
	Fix         bool     `help:"Insert missing required props in place"`
	JSON        bool     `help:"Print results as JSON"`
}

type fileResult struct {
	File string `json:"file"`
	*validator.ValidationResult
}

// Run is called by kong when the check command is executed.
func (c *CheckCmd) Run(logger *slog.Logger, project *ProjectConfig) error {
	comps, _, err := c.load(project, logger)
	if err != nil {
		return err
	}

	pm := parser.NewManager(logger, 1)
	defer pm.Close()
	v := validator.NewValidator(comps, pm)

	var results []fileResult
	failed := false
	for _, file := range c.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		res := v.ValidatePage(string(data), c.Fix)
		if c.Fix && res.FixedCode != "" {
			if err := os.WriteFile(file, []byte(res.FixedCode), 0644); err != nil {
				return fmt.Errorf("write %s: %w", file, err)
			}
			logger.Info("fixed", "file", file)
			res = v.ValidatePage(res.FixedCode, false)
		}
		failed = failed || !res.Valid
		results = append(results, fileResult{File: file, ValidationResult: res})
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printCheckResults(os.Stdout, results)
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

func printCheckResults(w io.Writer, results []fileResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%s: %s\n", r.File, r.Summary)
		for _, v := range r.Violations {
			fmt.Fprintf(w, "  %d:%d  %-7s  %s  (%s)\n", v.Line, v.Column, v.Severity, v.Message, v.Rule)
			if v.Suggestion != "" {
				fmt.Fprintf(w, "           %s\n", v.Suggestion)
			}
		}
	}
}
