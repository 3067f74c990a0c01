package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const serverName = "propgen"

// AgentDef defines how to detect and configure one AI agent.
type AgentDef struct {
	ID          string
	DisplayName string
	Method      string            // "cli" or "file"
	Binary      string            // CLI agents: binary name on PATH
	DirMarkers  []string          // file agents: dirs that indicate presence
	ConfigPath  func() string     // resolved config file path
	ServersKey  string            // "servers" (VS Code) or "mcpServers"
	ExtraFields map[string]string // e.g. "type": "stdio" for VS Code
}

// DetectedAgent is an agent found on the system.
type DetectedAgent struct {
	Def            AgentDef
	AlreadySetup   bool
	ResolvedConfig string
}

// Replaceable for testing.
var lookPathFunc = exec.LookPath
var statFunc = os.Stat

// agentRegistry lists the supported agents in display order.
var agentRegistry = []AgentDef{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Method: "cli", Binary: "claude",
	},
	{
		ID: "openai_codex", DisplayName: "OpenAI Codex",
		Method: "cli", Binary: "codex",
	},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		Method: "file", DirMarkers: []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		Method: "file", DirMarkers: []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		Method:     "file",
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// SetupCmd registers `propgen serve` with every detected agent.
type SetupCmd struct {
	Scope  string   `help:"Scope for CLI agents" default:"project" enum:"project,user"`
	Only   []string `help:"Configure only these agent IDs"`
	DryRun bool     `help:"List detected agents without changing anything"`
	Args   []string `help:"Extra arguments passed to propgen serve, e.g. --path=src"`
}

// Run is called by kong when the setup command is executed.
func (c *SetupCmd) Run() error {
	executeSetup(os.Stdout, c.options())
	return nil
}

func (c *SetupCmd) options() setupOptions {
	only := make(map[string]bool, len(c.Only))
	for _, id := range c.Only {
		only[id] = true
	}
	return setupOptions{scope: c.Scope, only: only, dryRun: c.DryRun, serveArgs: c.Args}
}

type setupOptions struct {
	scope     string
	only      map[string]bool
	dryRun    bool
	serveArgs []string
}

// detectAgents scans the system for installed or configured AI agents.
func detectAgents() []DetectedAgent {
	var detected []DetectedAgent

	for _, def := range agentRegistry {
		switch def.Method {
		case "cli":
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, DetectedAgent{Def: def, AlreadySetup: isAlreadyConfiguredFile(".mcp.json", "mcpServers")})
			}

		case "file":
			found := false
			configPath := ""

			for _, marker := range def.DirMarkers {
				if _, err := statFunc(marker); err == nil {
					found = true
					if def.ConfigPath != nil {
						configPath = def.ConfigPath()
					}
					break
				}
			}

			// Agents without markers count as present when their config dir exists.
			if !found && len(def.DirMarkers) == 0 && def.ConfigPath != nil {
				configPath = def.ConfigPath()
				if _, err := statFunc(filepath.Dir(configPath)); err == nil {
					found = true
				}
			}

			if found {
				d := DetectedAgent{Def: def, ResolvedConfig: configPath}
				if configPath != "" {
					d.AlreadySetup = isAlreadyConfiguredFile(configPath, def.ServersKey)
				}
				detected = append(detected, d)
			}
		}
	}

	return detected
}

// isAlreadyConfiguredFile checks for a propgen entry in a JSON config file.
func isAlreadyConfiguredFile(configPath, serversKey string) bool {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	if servers, ok := config[serversKey].(map[string]any); ok {
		if _, exists := servers[serverName]; exists {
			return true
		}
	}
	return false
}

func serveArgs(extra []string) []any {
	args := []any{"serve"}
	for _, a := range extra {
		args = append(args, a)
	}
	return args
}

// serverEntry returns the MCP server config object for propgen.
func serverEntry(extra map[string]string, args []string) map[string]any {
	entry := map[string]any{
		"command": serverName,
		"args":    serveArgs(args),
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds a propgen entry under serversKey to existing JSON
// (or a new document) and returns the merged bytes. Returns nil, nil if
// propgen is already configured.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string, args []string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	servers[serverName] = serverEntry(extra, args)
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// configureCLIAgent runs `<binary> mcp add` with the chosen scope.
func configureCLIAgent(def AgentDef, scope string, args []string) error {
	cmdArgs := []string{"mcp", "add"}
	if scope != "" {
		cmdArgs = append(cmdArgs, "--scope", scope)
	}
	cmdArgs = append(cmdArgs, serverName, "--", serverName, "serve")
	cmdArgs = append(cmdArgs, args...)
	cmd := exec.Command(def.Binary, cmdArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// configureFileAgent reads, merges and writes the JSON config file.
func configureFileAgent(def AgentDef, configPath string, args []string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(configPath); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, def.ServersKey, def.ExtraFields, args)
	if err != nil {
		return err
	}
	if merged == nil {
		return nil
	}
	return os.WriteFile(configPath, merged, 0644)
}

// executeSetup configures every detected agent and reports to w.
func executeSetup(w io.Writer, opts setupOptions) {
	var detected []DetectedAgent
	for _, d := range detectAgents() {
		if len(opts.only) == 0 || opts.only[d.Def.ID] {
			detected = append(detected, d)
		}
	}
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	if opts.dryRun {
		return
	}
	fmt.Fprintln(w)

	for _, d := range detected {
		if d.AlreadySetup {
			fmt.Fprintf(w, "%s: already configured, skipping\n", d.Def.DisplayName)
			continue
		}
		configureOneAgent(w, d, opts)
	}
}

func configureOneAgent(w io.Writer, d DetectedAgent, opts setupOptions) {
	switch d.Def.Method {
	case "cli":
		if err := configureCLIAgent(d.Def, opts.scope, opts.serveArgs); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.Def.DisplayName, opts.scope)

	case "file":
		if err := configureFileAgent(d.Def, d.ResolvedConfig, opts.serveArgs); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.Def.DisplayName, d.ResolvedConfig)
	}
}
