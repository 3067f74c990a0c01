package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gnana997/propgen/pkg/mcplog"
)

// ToolStatsCmd summarizes a log written by serve --tool-log.
type ToolStatsCmd struct {
	Log string `arg:"" help:"JSONL tool-call log" type:"existingfile"`
}

// Run is called by kong when the tool-stats command is executed.
func (c *ToolStatsCmd) Run() error {
	entries, err := mcplog.ReadLog(c.Log)
	if err != nil {
		return err
	}
	printToolStats(os.Stdout, mcplog.Summarize(entries))
	return nil
}

func printToolStats(w io.Writer, sums []mcplog.ToolSummary) {
	if len(sums) == 0 {
		fmt.Fprintln(w, "no tool calls")
		return
	}
	toolW := len("TOOL")
	for _, s := range sums {
		toolW = max(toolW, len(s.Tool))
	}
	fmt.Fprintf(w, "%-*s  %6s  %6s  %8s  %8s  %8s\n", toolW, "TOOL", "CALLS", "ERRORS", "AVG_MS", "MAX_MS", "TOKENS")
	for _, s := range sums {
		fmt.Fprintf(w, "%-*s  %6d  %6d  %8.1f  %8d  %8d\n", toolW, s.Tool, s.Calls, s.Errors, s.AvgMs(), s.MaxMs, s.TokensEst)
	}
	for _, s := range sums {
		if len(s.Sources) == 0 {
			continue
		}
		names := make([]string, 0, len(s.Sources))
		for name := range s.Sources {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s=%d", name, s.Sources[name])
		}
		fmt.Fprintf(w, "\n%s sources: %s\n", s.Tool, strings.Join(parts, " "))
	}
}
