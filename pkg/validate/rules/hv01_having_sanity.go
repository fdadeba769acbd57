package rules

import (
	"fmt"

	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
)

// HavingSanity checks the HAVING clause: without GROUP BY it must
// contain an aggregate (else it is WHERE in disguise), and plain
// columns it references must be exposed by the SELECT list.
var HavingSanity = validate.RuleDef{
	ID:          "HV01",
	Name:        "having.sanity",
	Group:       "having",
	Description: "HAVING must filter on aggregates or on columns the SELECT list exposes.",
	Severity:    validate.SeverityError,
	Check:       checkHavingSanity,

	Rationale: `HAVING filters groups after aggregation. Using it without GROUP BY and
without an aggregate is just a slower WHERE. Referencing a plain column the
SELECT list does not expose usually signals a misplaced condition.`,

	BadExample: `SELECT dept, COUNT(*) FROM emp
GROUP BY dept
HAVING salary > 1000`,

	GoodExample: `SELECT dept, COUNT(*) FROM emp
WHERE salary > 1000
GROUP BY dept`,

	Fix: "Move row-level conditions to WHERE, or add the referenced column to the SELECT list.",
}

func checkHavingSanity(rc *validate.RuleContext) []validate.Diagnostic {
	core := rc.Core
	if core == nil || core.Having == nil {
		return nil
	}

	var diags []validate.Diagnostic

	if len(core.GroupBy) == 0 && !parser.ContainsAggregate(core.Having) {
		diags = append(diags, validate.Diagnostic{
			Kind:       validate.KindMisusedHaving,
			Severity:   validate.SeverityError,
			Message:    "query has no GROUP BY clause but uses HAVING instead of WHERE",
			Suggestion: "move the condition to a WHERE clause",
			Pos:        core.Span.Start,
		})
	}

	exposed := selectExposedNames(core)
	for _, ref := range columnsOutsideAggregates(core.Having) {
		full := refName(ref)
		if exposed[lower(full)] || exposed[lower(ref.Column)] {
			continue
		}
		diags = append(diags, validate.Diagnostic{
			Kind:     validate.KindIllegalHavingColumn,
			Severity: validate.SeverityError,
			Message: fmt.Sprintf("HAVING references non-aggregated column '%s' that is not in the SELECT list",
				full),
			Suggestion: "add the column to the SELECT list or wrap it in an aggregate function",
			Pos:        core.Span.Start,
		})
	}
	return diags
}

// selectExposedNames collects the names the SELECT list makes visible
// to HAVING: aliases, column names, and qualified column names. For
// non-column expressions without an alias the rendered expression text
// stands in.
func selectExposedNames(core *parser.SelectCore) map[string]bool {
	exposed := make(map[string]bool)
	for _, item := range core.Columns {
		if item.Star || item.TableStar != "" {
			continue
		}
		if item.Alias != "" {
			exposed[lower(item.Alias)] = true
		}
		switch e := item.Expr.(type) {
		case *parser.ColumnRef:
			exposed[lower(e.Column)] = true
			if e.Table != "" {
				exposed[lower(refName(e))] = true
			}
		case *parser.FuncCall:
			// Aggregates need no SELECT exposure to appear in HAVING.
			if !e.IsAggregate() && item.Alias == "" {
				exposed[lower(parser.FormatExpr(e))] = true
			}
		default:
			if item.Alias == "" {
				exposed[lower(parser.FormatExpr(item.Expr))] = true
			}
		}
	}
	return exposed
}
