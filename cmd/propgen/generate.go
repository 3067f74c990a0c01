package main

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/propgen/pkg/emit"
	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/pkg/scanner"
)

// SourceFlags select where component metadata comes from.
type SourceFlags struct {
	Path   string `short:"p" help:"Root directory of the component sources" env:"PROPGEN_PATH"`
	Docgen string `help:"Read react-docgen JSON output instead of scanning sources" type:"existingfile"`
}

// OutputFlags select what gets written.
type OutputFlags struct {
	Out           string `short:"o" help:"Directory for snippet and fragment files" default:"." env:"PROPGEN_OUT"`
	Template      string `short:"t" help:"Test scaffold template (text/template)" env:"PROPGEN_TEMPLATE"`
	MakeTests     bool   `short:"j" help:"Write a test scaffold next to each component" default:"true" negatable:""`
	MakeSnippets  bool   `short:"s" help:"Write VS Code snippet files"`
	MakeFragments bool   `short:"f" help:"Write code fragment files"`
	Flat          bool   `help:"Write fragments as one flat list"`
	AppendVersion string `short:"v" help:"Append _<version> to snippet and fragment file names"`
	MetadataOut   string `help:"Also write the resolved metadata as JSON to this file"`
}

func (o OutputFlags) emitConfig() emit.Config {
	return emit.Config{
		Tests:     o.MakeTests,
		Snippets:  o.MakeSnippets,
		Fragments: o.MakeFragments,
		Flat:      o.Flat,
		Version:   o.AppendVersion,
		Template:  o.Template,
	}
}

// load returns resolved components and the root they are relative to.
func (f SourceFlags) load(project *ProjectConfig, logger *slog.Logger) ([]metadata.Component, string, error) {
	root := resolveRoot(f.Path, project)
	if f.Docgen != "" {
		comps, err := metadata.LoadDocgen(f.Docgen, project.Scan.IgnoreProps)
		if err != nil {
			return nil, root, err
		}
		logger.Info("docgen metadata loaded", "file", f.Docgen, "components", len(comps))
		return comps, root, nil
	}

	s, err := scanner.NewScanner(logger, project.Scan)
	if err != nil {
		return nil, root, err
	}
	defer s.Close()

	comps, _, err := s.Run(root, project.Scan)
	if err != nil {
		return nil, root, err
	}
	return comps, root, nil
}

// GenerateCmd resolves every component once and writes the outputs.
type GenerateCmd struct {
	SourceFlags `embed:""`
	OutputFlags `embed:""`
}

// Run is called by kong when the generate command is executed.
func (c *GenerateCmd) Run(logger *slog.Logger, project *ProjectConfig) error {
	comps, root, err := c.load(project, logger)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		logger.Warn("no components found", "path", root)
	}
	return writeOutputs(c.OutputFlags, root, comps, logger)
}

func writeOutputs(o OutputFlags, root string, comps []metadata.Component, logger *slog.Logger) error {
	if o.MetadataOut != "" {
		if err := metadata.Save(o.MetadataOut, root, comps); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}
		logger.Info("metadata written", "file", o.MetadataOut, "components", len(comps))
	}

	w, err := emit.NewWriter(o.emitConfig(), logger)
	if err != nil {
		return err
	}
	if _, err := w.Write(o.Out, comps); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	return nil
}
