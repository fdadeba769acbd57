package rules

import (
	"fmt"
	"strings"

	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
)

// SchemaExistence checks every referenced table and column against the
// catalog. It runs last so structural problems surface first, and it
// is skipped entirely when no catalog is loaded.
var SchemaExistence = validate.RuleDef{
	ID:          "SC01",
	Name:        "schema.existence",
	Group:       "schema",
	Description: "Referenced tables and columns must exist in the schema catalog.",
	Severity:    validate.SeverityError,
	Check:       checkSchemaExistence,

	Rationale: `Misspelled table and column names are the most common query mistakes.
Checking them against the schema before execution turns a database error into a
message that lists what is actually available.`,

	BadExample: `SELECT usrname FROM user`,

	GoodExample: `SELECT username FROM users`,

	Fix: "Use the table and column names the schema defines; the suggestion lists them.",
}

func checkSchemaExistence(rc *validate.RuleContext) []validate.Diagnostic {
	cat := rc.Catalog
	if cat.Len() == 0 {
		return nil
	}

	var diags []validate.Diagnostic

	cteNames := make(map[string]bool)
	if rc.Stmt != nil && rc.Stmt.With != nil {
		for _, cte := range rc.Stmt.With.CTEs {
			cteNames[lower(cte.Name)] = true
		}
	}

	// Tables: each distinct real table in the FROM clause, in first
	// appearance order. Derived tables and CTE references are not
	// catalog tables.
	seen := make(map[string]bool)
	for _, t := range rc.Scope.Tables() {
		if t.Derived || t.RealName == "" {
			continue
		}
		name := lower(t.RealName)
		if seen[name] || cteNames[name] {
			continue
		}
		seen[name] = true
		if !cat.HasTable(name) {
			diags = append(diags, validate.Diagnostic{
				Kind:       validate.KindTableNotFound,
				Severity:   validate.SeverityError,
				Message:    fmt.Sprintf("table '%s' does not exist", t.RealName),
				Suggestion: fmt.Sprintf("available tables: %s", strings.Join(cat.Tables(), ", ")),
			})
		}
	}

	diags = append(diags, checkColumnExistence(rc, cteNames)...)
	return diags
}

// checkColumnExistence verifies column references in the SELECT core.
// The default mode matches bare column names against every table in
// the catalog; strict mode resolves qualified references through the
// query's scope.
func checkColumnExistence(rc *validate.RuleContext, cteNames map[string]bool) []validate.Diagnostic {
	cat := rc.Catalog
	var diags []validate.Diagnostic
	seen := make(map[string]bool)

	for _, ref := range coreColumnRefs(rc.Core) {
		// Columns of derived tables and CTEs are not in the catalog.
		if ref.Table != "" {
			if t, ok := rc.Scope.Resolve(ref.Table); ok && (t.Derived || cteNames[lower(t.RealName)]) {
				continue
			}
		}

		// The flattened lookup ignores qualifiers, so the same column
		// under two qualifiers is one check; strict mode resolves per
		// table and keeps the qualifier in the key.
		key := lower(ref.Column)
		if rc.Strict {
			key = lower(refName(ref))
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		if rc.Strict && ref.Table != "" {
			t, ok := rc.Scope.Resolve(ref.Table)
			if !ok || !cat.HasTable(t.RealName) {
				continue
			}
			if _, found := cat.ColumnType(t.RealName, ref.Column); !found {
				diags = append(diags, validate.Diagnostic{
					Kind:     validate.KindColumnNotFound,
					Severity: validate.SeverityError,
					Message:  fmt.Sprintf("table '%s' has no column '%s'", t.RealName, ref.Column),
					Suggestion: fmt.Sprintf("available columns: %s",
						strings.Join(availableColumns(cat, []string{t.RealName}), ", ")),
				})
			}
			continue
		}

		if _, count := cat.LookupColumn(ref.Column); count == 0 {
			diags = append(diags, validate.Diagnostic{
				Kind:     validate.KindColumnNotFound,
				Severity: validate.SeverityError,
				Message:  fmt.Sprintf("column '%s' does not exist in any table", ref.Column),
				Suggestion: fmt.Sprintf("available columns: %s",
					strings.Join(availableColumns(cat, cat.Tables()), ", ")),
			})
		}
	}
	return diags
}

// coreColumnRefs collects column references from every clause of the
// core, in clause order: SELECT list, join conditions, WHERE, GROUP
// BY, HAVING, ORDER BY. Subqueries are not descended into.
func coreColumnRefs(core *parser.SelectCore) []*parser.ColumnRef {
	if core == nil {
		return nil
	}
	var refs []*parser.ColumnRef
	for _, item := range core.Columns {
		refs = append(refs, parser.ColumnRefs(item.Expr)...)
	}
	if core.From != nil {
		for _, join := range core.From.Joins {
			refs = append(refs, parser.ColumnRefs(join.Condition)...)
		}
	}
	refs = append(refs, parser.ColumnRefs(core.Where)...)
	for _, e := range core.GroupBy {
		refs = append(refs, parser.ColumnRefs(e)...)
	}
	refs = append(refs, parser.ColumnRefs(core.Having)...)
	for _, item := range core.OrderBy {
		refs = append(refs, parser.ColumnRefs(item.Expr)...)
	}
	return refs
}
