package validate

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
	"github.com/sqlgauge/sqlgauge/pkg/parser"
)

// Validator checks queries against a schema catalog.
type Validator struct {
	catalog *catalog.Catalog
	rules   []RuleDef
	logger  *slog.Logger
	strict  bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithStrict enables scope-aware column resolution: qualified
// references are checked against the table they name instead of the
// whole catalog.
func WithStrict(strict bool) Option {
	return func(v *Validator) { v.strict = strict }
}

// WithRules overrides the rule set. The default is every registered
// rule, in registration order.
func WithRules(rules []RuleDef) Option {
	return func(v *Validator) { v.rules = rules }
}

// New creates a Validator for the given catalog. A nil catalog is
// treated as empty, which disables schema-dependent checks.
func New(cat *catalog.Catalog, opts ...Option) *Validator {
	if cat == nil {
		cat = catalog.New()
	}
	v := &Validator{
		catalog: cat,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.rules == nil {
		v.rules = Registered()
	}
	return v
}

// Validate checks one query and returns its result. A query that does
// not parse yields a single syntax diagnostic; semantic rules only run
// on parseable queries.
func (v *Validator) Validate(query string) *Result {
	result := &Result{Query: query, Valid: true}

	stmt, err := parser.ParseSelect(query)
	if err != nil {
		v.logger.Debug("parse failed", "error", err)
		result.Valid = false
		d := Diagnostic{
			RuleID:     "",
			Kind:       KindSyntaxError,
			Severity:   SeverityError,
			Message:    err.Error(),
			Suggestion: "check SQL keyword spelling and statement structure, and verify punctuation",
		}
		if perr, ok := err.(*parser.ParseError); ok {
			d.Pos = perr.Pos
		}
		result.Diagnostics = append(result.Diagnostics, d)
		return result
	}

	core := stmt.Core()
	rc := &RuleContext{
		Stmt:    stmt,
		Core:    core,
		Catalog: v.catalog,
		Scope:   NewScope(core),
		Strict:  v.strict,
	}

	for _, rule := range v.rules {
		diags := rule.Check(rc)
		for i := range diags {
			if diags[i].RuleID == "" {
				diags[i].RuleID = rule.ID
			}
		}
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	if len(result.Diagnostics) > 0 {
		result.Valid = false
	}
	v.logger.Debug("validated query",
		"valid", result.Valid, "diagnostics", len(result.Diagnostics))
	return result
}

// ValidateAll checks queries concurrently and returns results in input
// order. It stops early only if the context is canceled.
func (v *Validator) ValidateAll(ctx context.Context, queries []string) ([]*Result, error) {
	results := make([]*Result, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, query := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = v.Validate(query)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
