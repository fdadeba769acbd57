package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
)

// SelectStructure checks the overall shape of the SELECT: a FROM
// clause must be present, and aggregation must be consistent with the
// GROUP BY clause.
var SelectStructure = validate.RuleDef{
	ID:          "ST01",
	Name:        "structure.select",
	Group:       "structure",
	Description: "SELECT needs a FROM clause, and plain columns mixed with aggregates need a matching GROUP BY.",
	Severity:    validate.SeverityError,
	Check:       checkSelectStructure,

	Rationale: `A SELECT without FROM has no data source, and mixing aggregate functions
with plain columns is only well-defined when every plain column appears in GROUP BY.
Databases reject both at execution time; catching them before execution gives a
clearer message.`,

	BadExample: `SELECT dept, COUNT(*)
FROM employees`,

	GoodExample: `SELECT dept, COUNT(*)
FROM employees
GROUP BY dept`,

	Fix: "Add the missing FROM clause, or list every plain SELECT column in GROUP BY.",
}

func checkSelectStructure(rc *validate.RuleContext) []validate.Diagnostic {
	core := rc.Core
	if core == nil {
		return nil
	}

	var diags []validate.Diagnostic

	if core.From == nil {
		diags = append(diags, validate.Diagnostic{
			Kind:       validate.KindMissingFrom,
			Severity:   validate.SeverityError,
			Message:    "SELECT statement has no FROM clause",
			Suggestion: "add a FROM clause naming the data source",
			Pos:        core.Span.Start,
		})
	}

	hasAggregate := false
	var plainCols []*parser.ColumnRef
	for _, item := range core.Columns {
		if item.Star || item.TableStar != "" {
			continue
		}
		if parser.ContainsAggregate(item.Expr) {
			hasAggregate = true
		}
		plainCols = append(plainCols, columnsOutsideAggregates(item.Expr)...)
	}

	if hasAggregate && len(plainCols) > 0 && len(core.GroupBy) == 0 {
		diags = append(diags, validate.Diagnostic{
			Kind:       validate.KindMissingGroupBy,
			Severity:   validate.SeverityError,
			Message:    "SELECT list mixes aggregate functions and plain columns but the query has no GROUP BY clause",
			Suggestion: "add a GROUP BY clause, or drop the plain columns and keep only the aggregates",
			Pos:        core.Span.Start,
		})
	}

	if len(core.GroupBy) > 0 && len(plainCols) > 0 {
		if missing := ungroupedColumns(plainCols, core.GroupBy); len(missing) > 0 {
			list := strings.Join(missing, ", ")
			diags = append(diags, validate.Diagnostic{
				Kind:       validate.KindIncompleteGroupBy,
				Severity:   validate.SeverityError,
				Message:    fmt.Sprintf("plain columns %s in the SELECT list are not in the GROUP BY clause", list),
				Suggestion: fmt.Sprintf("add to the GROUP BY clause: %s", list),
				Pos:        core.Span.Start,
			})
		}
	}

	return diags
}

// ungroupedColumns returns the sorted names of select columns that do
// not appear in the GROUP BY list. Comparison is by rendered name,
// case-insensitive.
func ungroupedColumns(selectCols []*parser.ColumnRef, groupBy []parser.Expr) []string {
	grouped := make(map[string]bool)
	for _, e := range groupBy {
		if ref, ok := e.(*parser.ColumnRef); ok {
			grouped[lower(refName(ref))] = true
		}
	}

	missing := make(map[string]bool)
	for _, ref := range selectCols {
		name := refName(ref)
		if !grouped[lower(name)] {
			missing[name] = true
		}
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
