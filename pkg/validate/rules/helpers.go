// Package rules defines the built-in validation rules. Importing the
// package registers them; rules run in the order all.go registers
// them, which fixes diagnostic ordering.
package rules

import (
	"sort"
	"strings"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
)

// columnsOutsideAggregates collects column refs that are not arguments
// of an aggregate function call.
func columnsOutsideAggregates(e parser.Expr) []*parser.ColumnRef {
	var cols []*parser.ColumnRef
	parser.WalkExpr(e, func(e parser.Expr) bool {
		if fn, ok := e.(*parser.FuncCall); ok && fn.IsAggregate() {
			return false
		}
		if ref, ok := e.(*parser.ColumnRef); ok {
			cols = append(cols, ref)
		}
		return true
	})
	return cols
}

// refName renders a column ref as table.column or column.
func refName(ref *parser.ColumnRef) string {
	if ref.Table != "" {
		return ref.Table + "." + ref.Column
	}
	return ref.Column
}

// resolveColumnType finds the declared type of a referenced column.
// In the default mode the bare column name is looked up across the
// whole catalog, matching the flattened behavior documented in the
// catalog package. In strict mode resolution goes through the query's
// scope: qualified refs check the table they name, bare refs check
// only the tables visible in the FROM clause.
func resolveColumnType(rc *validate.RuleContext, ref *parser.ColumnRef) (string, bool) {
	if !rc.Strict {
		typ, count := rc.Catalog.LookupColumn(ref.Column)
		return typ, count > 0
	}

	if ref.Table != "" {
		t, ok := rc.Scope.Resolve(ref.Table)
		if !ok || t.Derived {
			return "", false
		}
		return rc.Catalog.ColumnType(t.RealName, ref.Column)
	}

	for _, t := range rc.Scope.Tables() {
		if t.Derived {
			continue
		}
		if typ, ok := rc.Catalog.ColumnType(t.RealName, ref.Column); ok {
			return typ, true
		}
	}
	return "", false
}

// availableColumns returns the sorted column names of the given
// catalog tables, deduplicated.
func availableColumns(cat *catalog.Catalog, tables []string) []string {
	seen := make(map[string]bool)
	for _, table := range tables {
		for col := range cat.Columns(table) {
			seen[col] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// lower is shorthand for case-insensitive name comparison.
func lower(s string) string {
	return strings.ToLower(s)
}
