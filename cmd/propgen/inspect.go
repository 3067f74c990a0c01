package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/scanner"
)

const maxWidth = 80

// InspectCmd prints the resolved props of one component file.
type InspectCmd struct {
	File string `arg:"" help:"Component source file" type:"existingfile"`
	Root string `help:"Root used for the relative path" type:"existingdir"`
	JSON bool   `help:"Print the component as JSON"`
}

// Run is called by kong when the inspect command is executed.
func (c *InspectCmd) Run(logger *slog.Logger, project *ProjectConfig) error {
	s, err := scanner.NewScanner(logger, project.Scan)
	if err != nil {
		return err
	}
	defer s.Close()

	comp, err := s.ScanFile(c.Root, c.File, project.Scan)
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(comp)
	}
	printComponentHuman(os.Stdout, comp)
	return nil
}

// printComponentHuman prints a human-readable component summary.
func printComponentHuman(w io.Writer, comp *metadata.Component) {
	header := comp.Name
	if comp.DefaultExport {
		header += "  [default export]"
	}
	fmt.Fprintln(w, header)
	path := comp.RelPath
	if path == "" {
		path = comp.FilePath
	}
	fmt.Fprintf(w, "  %s\n", path)

	fmt.Fprintln(w)
	printPropsSection(w, "Props", comp.Props)
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, props []metadata.Prop) {
	if len(props) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	typeW := len("TYPE")
	valueW := len("VALUE")
	for _, p := range props {
		nameW = max(nameW, len(p.PropName))
		typeW = max(typeW, len(p.PropType))
		valueW = max(valueW, len(firstLine(p.PropDefaultValue)))
	}

	sepLen := nameW + typeW + valueW + len("REQ") + len("SOURCE") + 8
	fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s  %s\n", nameW, "NAME", typeW, "TYPE", "REQ", valueW, "VALUE", "SOURCE")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))

	indent := nameW + 4
	for _, p := range props {
		req := "no"
		if p.Required {
			req = "yes"
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s  %s\n",
			nameW, p.PropName, typeW, p.PropType, req, valueW, firstLine(p.PropDefaultValue), p.Source)

		if p.Description != "" {
			printWrapped(w, strings.Join(strings.Fields(p.Description), " "), indent, maxWidth)
		}
	}
}

// firstLine keeps multi-line literals on one table row.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else {
			if line == prefix {
				line += word
			} else {
				line += " " + word
			}
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
