package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/propgen/pkg/scanner"
)

const defaultConfigPath = ".propgen/config.yaml"

// configPath is the project file in use, bound for commands that write it.
type configPath string

// ProjectConfig holds the contents of .propgen/config.yaml. Command
// sections are keyed by flag name, so the same file seeds flag defaults.
type ProjectConfig struct {
	Version  string             `yaml:"version"`
	Generate GenerateDefaults   `yaml:"generate"`
	Scan     scanner.ScanConfig `yaml:"scan"`
}

// GenerateDefaults mirrors the generate flags.
type GenerateDefaults struct {
	Path          string `yaml:"path,omitempty"`
	Out           string `yaml:"out,omitempty"`
	Template      string `yaml:"template,omitempty"`
	MakeTests     bool   `yaml:"make-tests"`
	MakeSnippets  bool   `yaml:"make-snippets"`
	MakeFragments bool   `yaml:"make-fragments"`
	Flat          bool   `yaml:"flat,omitempty"`
	AppendVersion string `yaml:"append-version,omitempty"`
	MetadataOut   string `yaml:"metadata-out,omitempty"`
}

func defaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1",
		Generate: GenerateDefaults{
			Path:          ".",
			Out:           ".",
			MakeTests:     true,
			MakeSnippets:  true,
			MakeFragments: true,
		},
		Scan: scanner.DefaultScanConfig(),
	}
}

// loadProjectConfig reads the project file at path. Returns nil (no
// error) if the file does not exist. Scan settings left out of the file
// keep their defaults.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cfg := defaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// writeProjectConfig writes cfg to path, creating its directory.
func writeProjectConfig(path string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// resolveRoot returns the component root to scan, applying the fallback
// chain:
//  1. Explicit --path flag value
//  2. generate.path from the project file
//  3. The current directory
func resolveRoot(flagValue string, cfg *ProjectConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.Generate.Path != "" {
		return cfg.Generate.Path
	}
	return "."
}
