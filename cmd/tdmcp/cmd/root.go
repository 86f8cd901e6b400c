// Package cmd provides the CLI commands for tdmcp.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/touchdocs/tdmcp/internal/config"
	"github.com/touchdocs/tdmcp/internal/logging"
	"github.com/touchdocs/tdmcp/pkg/version"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the tdmcp CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tdmcp",
		Short: "TouchDesigner documentation MCP server",
		Long: `tdmcp serves searchable TouchDesigner documentation to AI clients
over the Model Context Protocol.

It indexes scraped operator docs, tutorials and Python reference pages
locally, and answers operator searches with ranked, faceted results.

Run 'tdmcp serve' to start the MCP server on stdio.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("tdmcp version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to tdmcp.yaml (default: search working and data directories)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads configuration honoring the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debugMode {
		cfg.Server.LogLevel = "debug"
	}
	return cfg, nil
}

// setupLogging configures slog for a command. MCP uses stdout for the
// protocol, so logs go to the log file and optionally stderr.
func setupLogging(cfg *config.Config, toStderr bool) (*slog.Logger, func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Server.LogLevel
	logCfg.WriteToStderr = toStderr
	return logging.Setup(logCfg)
}
