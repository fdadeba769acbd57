// Package commands implements the sqlgauge subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sqlgauge/sqlgauge/internal/config"
)

type cfgKey struct{}
type loggerKey struct{}

// SetContext stores the loaded config and logger on the command's
// context. Called by the root command's PersistentPreRunE.
func SetContext(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) {
	ctx := context.WithValue(cmd.Context(), cfgKey{}, cfg)
	ctx = context.WithValue(ctx, loggerKey{}, logger)
	cmd.SetContext(ctx)
}

// configFrom retrieves the config stored by SetContext.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(cfgKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// loggerFrom retrieves the logger stored by SetContext.
func loggerFrom(cmd *cobra.Command) *slog.Logger {
	if l, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
