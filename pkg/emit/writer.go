package emit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnana997/propgen/pkg/metadata"
)

// Config selects the outputs to write.
type Config struct {
	Tests     bool
	Snippets  bool
	Fragments bool
	// Flat drops the category level from fragment files.
	Flat bool
	// Version is appended to snippet and fragment file names as _<version>.
	Version string
	// Template overrides the embedded test template.
	Template string
}

// Report lists what a Write produced.
type Report struct {
	Files       []string `json:"files"`
	Tests       int      `json:"tests"`
	TestsFailed int      `json:"tests_failed"`
}

// Writer writes generated outputs to disk.
type Writer struct {
	cfg      Config
	renderer *TestRenderer
	log      *slog.Logger
}

// NewWriter prepares a writer; the test template is parsed up front.
func NewWriter(cfg Config, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{cfg: cfg, log: logger}
	if cfg.Tests {
		r, err := NewTestRenderer(cfg.Template)
		if err != nil {
			return nil, err
		}
		w.renderer = r
	}
	return w, nil
}

// Write renders every enabled output. Snippet and fragment files go to
// outDir; test scaffolds go next to each component. A scaffold that fails
// to render is logged and counted.
func (w *Writer) Write(outDir string, components []metadata.Component) (Report, error) {
	var report Report

	if w.cfg.Snippets {
		for _, withComments := range []bool{true, false} {
			data, err := Snippets(components, withComments)
			if err != nil {
				return report, err
			}
			path := filepath.Join(outDir, SnippetFileName(withComments, w.cfg.Version))
			if err := writeFile(path, data); err != nil {
				return report, err
			}
			report.Files = append(report.Files, path)
		}
	}

	if w.cfg.Fragments {
		for _, withComments := range []bool{true, false} {
			data, err := Fragments(components, withComments, w.cfg.Flat)
			if err != nil {
				return report, err
			}
			path := filepath.Join(outDir, FragmentFileName(withComments, w.cfg.Version))
			if err := writeFile(path, data); err != nil {
				return report, err
			}
			report.Files = append(report.Files, path)
		}
	}

	if w.cfg.Tests && w.renderer != nil {
		for _, c := range components {
			path := TestPath(c)
			data, err := w.renderer.Render(c)
			if err == nil {
				err = writeFile(path, data)
			}
			if err != nil {
				w.log.Warn("test generation failed", "component", c.Name, "file", path, "error", err)
				report.TestsFailed++
				continue
			}
			report.Tests++
			report.Files = append(report.Files, path)
		}
	}

	w.log.Info("outputs written", "files", len(report.Files), "tests", report.Tests, "tests_failed", report.TestsFailed)
	return report, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
