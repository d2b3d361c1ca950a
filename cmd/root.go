package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/killallgit/fortune-api/pkg/config"
	"github.com/killallgit/fortune-api/pkg/logging"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Each call returns a fresh tree so flag
// state never leaks between executions.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fortune-api",
		Short: "Fortune API server",
		Long: `Fortune API - serves fortunes from a pluggable store

Endpoints:
  • GET /fortunes   list every fortune
  • GET /random     one fortune picked at random
  • GET /health     liveness and store status
  • GET /docs       Swagger UI

Stores: sqlite (default) or postgres. An optional response cache
(memory or redis) can front the listing endpoint.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	rootCmd.PersistentFlags().String("config", config.DefaultConfigPath, "path to the settings file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newVersionCmd())
	return rootCmd
}

// Execute builds the root command and runs it.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the configuration for commands that need it
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		if err := config.Init(); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		return nil
	}

	if err := config.Load(path); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	return nil
}

// newLogger builds the process logger. Flags win over the logging.* config keys.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	}

	if cmd.Flags().Changed("log-level") {
		opts.Level, _ = cmd.Flags().GetString("log-level")
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		opts.Format = logging.FormatJSON
	}

	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	return logger, nil
}
