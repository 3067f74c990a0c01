package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/gnana997/propgen/pkg/util"
)

const version = "0.1.0-dev"

// CLI is the propgen command line.
type CLI struct {
	Config string `help:"Project config file" default:".propgen/config.yaml" env:"PROPGEN_CONFIG" type:"path"`
	Log    struct {
		Level  string `help:"Log level" default:"info" enum:"debug,info,warn,error" env:"PROPGEN_LOG_LEVEL"`
		Format string `help:"Log format" default:"text" enum:"text,json" env:"PROPGEN_LOG_FORMAT"`
	} `embed:"" prefix:"log-"`

	Generate  GenerateCmd  `cmd:"" help:"Resolve component props and write snippets, fragments and test scaffolds"`
	Inspect   InspectCmd   `cmd:"" help:"Print the resolved props of one component file"`
	Check     CheckCmd     `cmd:"" help:"Check component usages in TSX files against the resolved props"`
	Watch     WatchCmd     `cmd:"" help:"Regenerate outputs when component sources change"`
	Serve     ServeCmd     `cmd:"" help:"Serve resolved prop metadata over MCP (stdio)"`
	Init      InitCmd      `cmd:"" help:"Write a project config file"`
	Setup     SetupCmd     `cmd:"" help:"Register the MCP server with detected AI agents"`
	ToolStats ToolStatsCmd `cmd:"" name:"tool-stats" help:"Summarize an MCP tool-call log"`
	Version   VersionCmd   `cmd:"" help:"Print version"`
}

func main() {
	projectFile := findConfig(os.Args[1:])

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("propgen"),
		kong.Description("Fake prop values, snippets and test scaffolds for React components"),
		kong.UsageOnError(),
		// Flags and env override values from the project file.
		kong.Configuration(kongyaml.Loader, projectFile),
	)

	logCfg := util.DefaultLoggerConfig()
	logCfg.Level = util.LogLevel(cli.Log.Level)
	logCfg.Format = util.LogFormat(cli.Log.Format)
	logger := util.NewLogger(logCfg)
	util.SetDefault(logger)

	project, err := loadProjectConfig(cli.Config)
	if err != nil {
		logger.Warn("ignoring unreadable project config", "file", cli.Config, "error", err)
		project = nil
	}
	if project == nil {
		project = defaultProjectConfig()
	}

	ctx.Bind(logger)
	ctx.Bind(project)
	ctx.Bind(configPath(cli.Config))
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

// findConfig picks the project file before kong parses, so its values can
// seed flag defaults.
func findConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("PROPGEN_CONFIG"); v != "" {
		return v
	}
	return defaultConfigPath
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("propgen %s\n", version)
	return nil
}
