// Package cli implements the bidchain command-line interface.
//
// The command tree is built with cobra. Every command shares one
// charmbracelet/log logger and one configuration loaded from --config (or
// the XDG default) before the command runs; command-line flags override
// the values found in the file.
//
// # Commands
//
//   - eval: build a chain, select the optimal path and print every candidate
//   - render: re-render a chain saved as JSON
//   - tui: adjust the inputs interactively and watch the optimal path move
//   - serve: expose evaluations over HTTP
//   - config: write a default config file or print its location
//   - completion: generate shell completion scripts
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bidchain/pkg/buildinfo"
	"github.com/matzehuels/bidchain/pkg/config"
	"github.com/matzehuels/bidchain/pkg/observability"
	"github.com/matzehuels/bidchain/pkg/pipeline"
)

// appName is the application name used for the binary and config paths.
const appName = "bidchain"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The file configuration is loaded when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bidchain simulates ad bid chains and picks the best path to the publisher",
		Long: `bidchain models a programmatic-advertising bid chain: a DSP bids through a
set of SSP intermediaries that each take a fee, and the chain path that
leaves the publisher the highest value is highlighted.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.SetEvaluationHooks(newLogHooks(c.Logger))
			observability.SetHTTPHooks(newLogHooks(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bidchain/config.toml)")

	root.AddCommand(c.evalCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}
