package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlgauge/sqlgauge/internal/config"
	"github.com/sqlgauge/sqlgauge/pkg/catalog"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
	"github.com/sqlgauge/sqlgauge/pkg/validate/rules"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Files  []string // SQL files, one query per file
	Output string   // text, table, json
	Watch  bool     // revalidate when the schema file changes
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [query...]",
		Short: "Validate SQL queries against the schema",
		Long: `Validate one or more SELECT queries against the configured schema
catalog. Queries are given as arguments, read from files with --file,
or read from stdin when no query is given.

The command exits non-zero when any query fails validation.`,
		Example: `  # Validate a query against schema.yaml
  sqlgauge check "SELECT id FROM users WHERE name = 'bob'"

  # Validate query files against a live database
  sqlgauge check --file report.sql --file export.sql

  # Machine-readable output
  sqlgauge check -o json "SELECT * FROM orders"

  # Revalidate whenever the schema file changes
  sqlgauge check --watch "SELECT * FROM orders"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Files, "file", "f", nil, "SQL file to validate (one query per file, repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output format: text, table, json")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "revalidate when the schema file changes (file source only)")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions, args []string) error {
	cfg := configFrom(cmd)
	logger := loggerFrom(cmd)

	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	queries, err := collectQueries(cmd.InOrStdin(), opts.Files, args)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries to validate")
	}

	loader, closer, err := newLoader(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx := cmd.Context()
	store := catalog.NewStore(nil)
	if err := store.Reload(ctx, loader); err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	logger.Debug("schema loaded", "tables", store.Current().Len())

	run := func(cat *catalog.Catalog) (bool, error) {
		v := validate.New(cat,
			validate.WithLogger(logger),
			validate.WithStrict(cfg.Strict),
			validate.WithRules(enabledRules(cfg.Disable)),
		)
		results, err := v.ValidateAll(ctx, queries)
		if err != nil {
			return false, err
		}
		return renderResults(cmd.OutOrStdout(), cfg.Output, results)
	}

	ok, err := run(store.Current())
	if err != nil {
		return err
	}

	if opts.Watch {
		fileLoader, isFile := loader.(*catalog.FileLoader)
		if !isFile {
			return fmt.Errorf("--watch requires the file schema source")
		}
		return watchAndRevalidate(ctx, store, fileLoader, logger, run)
	}

	if !ok {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// watchAndRevalidate blocks, rerunning the validation after every
// schema reload, until interrupted.
func watchAndRevalidate(ctx context.Context, store *catalog.Store, loader *catalog.FileLoader, logger *slog.Logger, run func(*catalog.Catalog) (bool, error)) error {
	w, err := catalog.NewWatcher(store, loader, logger)
	if err != nil {
		return fmt.Errorf("watching schema file: %w", err)
	}
	defer w.Close()

	w.OnReload = func(cat *catalog.Catalog) {
		if _, err := run(cat); err != nil {
			logger.Warn("revalidation failed", "error", err)
		}
	}
	return w.Run(ctx)
}

// collectQueries gathers queries from arguments, files, and stdin.
func collectQueries(stdin io.Reader, files, args []string) ([]string, error) {
	queries := slices.Clone(args)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading query file: %w", err)
		}
		if q := strings.TrimSpace(string(data)); q != "" {
			queries = append(queries, q)
		}
	}

	if len(queries) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if q := strings.TrimSpace(string(data)); q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

// newLoader builds the catalog loader for the configured source. The
// returned closer is non-nil for database-backed loaders.
func newLoader(cfg *config.Config) (catalog.Loader, io.Closer, error) {
	switch cfg.Source {
	case config.SourceFile:
		return catalog.NewFileLoader(cfg.SchemaFile), nil, nil
	case config.SourcePostgres:
		l, err := catalog.OpenPostgres(cfg.DSN, cfg.DBSchema)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil
	case config.SourceSQLite:
		l, err := catalog.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil
	case config.SourceDuckDB:
		l, err := catalog.OpenDuckDB(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil
	}
	return nil, nil, fmt.Errorf("unknown schema source %q", cfg.Source)
}

// enabledRules returns the built-in rules minus the disabled IDs.
func enabledRules(disable []string) []validate.RuleDef {
	if len(disable) == 0 {
		return rules.All()
	}
	var enabled []validate.RuleDef
	for _, r := range rules.All() {
		if !slices.ContainsFunc(disable, func(id string) bool {
			return strings.EqualFold(id, r.ID)
		}) {
			enabled = append(enabled, r)
		}
	}
	return enabled
}

// renderResults writes all results in the chosen format and reports
// whether every query passed.
func renderResults(w io.Writer, format string, results []*validate.Result) (bool, error) {
	allValid := true
	for _, r := range results {
		if !r.Valid {
			allValid = false
		}
	}

	switch format {
	case "json":
		return allValid, writeJSONResults(w, results)
	case "table":
		for i, r := range results {
			if len(results) > 1 {
				fmt.Fprintf(w, "query %d:\n", i+1)
			}
			validate.WriteTable(w, r)
		}
	default:
		for i, r := range results {
			if len(results) > 1 {
				fmt.Fprintf(w, "query %d: ", i+1)
			}
			fmt.Fprintln(w, validate.FormatResult(r))
		}
	}
	return allValid, nil
}

func writeJSONResults(w io.Writer, results []*validate.Result) error {
	for _, r := range results {
		if err := validate.WriteJSON(w, r); err != nil {
			return err
		}
	}
	return nil
}
