// Package cli provides the command-line interface for sqlgauge.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqlgauge/sqlgauge/internal/cli/commands"
	"github.com/sqlgauge/sqlgauge/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
		strict  bool
	)

	rootCmd := &cobra.Command{
		Use:   "sqlgauge",
		Short: "sqlgauge - SQL query validation against your schema",
		Long: `sqlgauge validates SQL SELECT queries against a schema catalog before
they ever reach a database: statement structure, join conditions,
comparison types, HAVING usage, and table/column existence.

The schema comes from a YAML file or is introspected from a live
PostgreSQL, SQLite, or DuckDB database.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := slog.New(slog.DiscardHandler)
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}

			commands.SetContext(cmd, cfg, logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default sqlgauge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "resolve columns through table qualifiers instead of the whole catalog")

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
