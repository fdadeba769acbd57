package rules

import (
	"fmt"
	"strings"

	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
)

// JoinConditions checks every explicit JOIN: a condition must be
// present, USING columns must exist on both sides, and ON references
// must resolve to in-scope tables and existing columns. Comma joins
// and NATURAL joins carry their condition implicitly and are skipped.
var JoinConditions = validate.RuleDef{
	ID:          "JN01",
	Name:        "join.conditions",
	Group:       "join",
	Description: "JOINs need a valid ON or USING condition referencing in-scope tables and existing columns.",
	Severity:    validate.SeverityError,
	Check:       checkJoinConditions,

	Rationale: `A JOIN without a condition produces a cartesian product, usually by
accident. Conditions that name unknown aliases or missing columns fail at
execution time with less helpful errors than a pre-flight check can give. Each
join's condition may only reference tables introduced up to that join.`,

	BadExample: `SELECT *
FROM orders o
JOIN customers c`,

	GoodExample: `SELECT *
FROM orders o
JOIN customers c ON o.customer_id = c.id`,

	Fix: "Add an ON clause with the join condition, or USING for same-named columns.",
}

func checkJoinConditions(rc *validate.RuleContext) []validate.Diagnostic {
	core := rc.Core
	if core == nil || core.From == nil {
		return nil
	}

	var diags []validate.Diagnostic
	for i, join := range core.From.Joins {
		if join.Type == parser.JoinComma || join.Natural {
			continue
		}

		visible := rc.Scope.Visible(i)

		if join.Condition == nil && len(join.Using) == 0 {
			diags = append(diags, validate.Diagnostic{
				Kind:       validate.KindMissingJoinCondition,
				Severity:   validate.SeverityError,
				Message:    fmt.Sprintf("%s JOIN has no join condition (needs ON or USING)", join.Type),
				Suggestion: "add an ON clause with the join condition, or a USING clause for same-named columns",
				Pos:        join.Span.Start,
			})
			continue
		}

		if len(join.Using) > 0 {
			// Counting USING column holders needs schema metadata.
			if rc.Catalog.Len() > 0 {
				diags = append(diags, checkUsingColumns(rc, join, visible)...)
			}
			continue
		}
		diags = append(diags, checkOnCondition(rc, join, visible)...)
	}
	return diags
}

// checkUsingColumns verifies each USING column exists in at least two
// of the visible tables. Zero hits means the column does not exist;
// one hit means it cannot join.
func checkUsingColumns(rc *validate.RuleContext, join *parser.Join, visible *validate.Scope) []validate.Diagnostic {
	var diags []validate.Diagnostic
	var realTables []string
	for _, t := range visible.Tables() {
		if t.RealName != "" && rc.Catalog.HasTable(t.RealName) {
			realTables = append(realTables, t.RealName)
		}
	}

	for _, col := range join.Using {
		var holders []string
		for _, t := range visible.Tables() {
			if t.RealName == "" {
				continue
			}
			if _, ok := rc.Catalog.ColumnType(t.RealName, col); ok {
				holders = append(holders, t.Name)
			}
		}

		switch len(holders) {
		case 0:
			diags = append(diags, validate.Diagnostic{
				Kind:     validate.KindColumnNotFound,
				Severity: validate.SeverityError,
				Message: fmt.Sprintf("USING column '%s' is not present in any of the joined tables (%s)",
					col, strings.Join(visible.Names(), ", ")),
				Suggestion: fmt.Sprintf("available columns: %s",
					strings.Join(availableColumns(rc.Catalog, realTables), ", ")),
				Pos: join.Span.Start,
			})
		case 1:
			diags = append(diags, validate.Diagnostic{
				Kind:     validate.KindJoinError,
				Severity: validate.SeverityError,
				Message: fmt.Sprintf("USING column '%s' exists only in table %s, so it cannot join",
					col, holders[0]),
				Suggestion: "make sure the column exists in both joined tables, or use an ON clause naming different columns",
				Pos:        join.Span.Start,
			})
		}
	}
	return diags
}

// checkOnCondition verifies qualified column refs in the ON clause:
// the qualifier must resolve to a visible table, and the column must
// exist on it. Unqualified refs are left to the schema rule; the
// column check drops out on its own when the catalog is empty.
func checkOnCondition(rc *validate.RuleContext, join *parser.Join, visible *validate.Scope) []validate.Diagnostic {
	var diags []validate.Diagnostic
	for _, ref := range parser.ColumnRefs(join.Condition) {
		if ref.Table == "" {
			continue
		}

		t, ok := visible.Resolve(ref.Table)
		if !ok {
			diags = append(diags, validate.Diagnostic{
				Kind:     validate.KindUnknownTableRef,
				Severity: validate.SeverityError,
				Message: fmt.Sprintf("ON clause references table '%s' which is not part of this join",
					ref.Table),
				Suggestion: fmt.Sprintf("tables in scope: %s; check the table name or alias spelling",
					strings.Join(visible.Names(), ", ")),
				Pos: join.Span.Start,
			})
			continue
		}
		if t.Derived || !rc.Catalog.HasTable(t.RealName) {
			continue
		}

		if _, ok := rc.Catalog.ColumnType(t.RealName, ref.Column); !ok {
			diags = append(diags, validate.Diagnostic{
				Kind:     validate.KindColumnNotFound,
				Severity: validate.SeverityError,
				Message:  fmt.Sprintf("table '%s' has no column '%s'", t.RealName, ref.Column),
				Suggestion: fmt.Sprintf("available columns: %s",
					strings.Join(availableColumns(rc.Catalog, []string{t.RealName}), ", ")),
				Pos: join.Span.Start,
			})
		}
	}
	return diags
}
