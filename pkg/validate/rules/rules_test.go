package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
	"github.com/sqlgauge/sqlgauge/pkg/validate/rules"
)

// runRule parses the query and runs a single rule against the catalog.
func runRule(t *testing.T, rule validate.RuleDef, cat *catalog.Catalog, sql string) []validate.Diagnostic {
	t.Helper()
	stmt, err := parser.ParseSelect(sql)
	require.NoError(t, err, "parse %q", sql)

	if cat == nil {
		cat = catalog.New()
	}
	core := stmt.Core()
	return rule.Check(&validate.RuleContext{
		Stmt:    stmt,
		Core:    core,
		Catalog: cat,
		Scope:   validate.NewScope(core),
	})
}

func shopCatalog() *catalog.Catalog {
	c := catalog.New()
	c.AddTable("orders", catalog.Columns{
		"id":          "integer",
		"customer_id": "integer",
		"total":       "numeric",
		"note":        "text",
		"created_at":  "timestamp without time zone",
	})
	c.AddTable("customers", catalog.Columns{
		"id":   "integer",
		"name": "character varying",
	})
	return c
}

// ---------- ST01 select structure ----------

func TestSelectStructure(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []validate.Kind
	}{
		{
			name: "missing from",
			sql:  "SELECT 1 + 1",
			want: []validate.Kind{validate.KindMissingFrom},
		},
		{
			name: "aggregate with plain column and no group by",
			sql:  "SELECT customer_id, COUNT(*) FROM orders",
			want: []validate.Kind{validate.KindMissingGroupBy},
		},
		{
			name: "aggregate only needs no group by",
			sql:  "SELECT COUNT(*), SUM(total) FROM orders",
			want: nil,
		},
		{
			name: "plain columns only need no group by",
			sql:  "SELECT id, total FROM orders",
			want: nil,
		},
		{
			name: "incomplete group by",
			sql:  "SELECT customer_id, note, COUNT(*) FROM orders GROUP BY customer_id",
			want: []validate.Kind{validate.KindIncompleteGroupBy},
		},
		{
			name: "complete group by",
			sql:  "SELECT customer_id, COUNT(*) FROM orders GROUP BY customer_id",
			want: nil,
		},
		{
			name: "qualified group by matches qualified select",
			sql:  "SELECT o.customer_id, COUNT(*) FROM orders o GROUP BY o.customer_id",
			want: nil,
		},
		{
			name: "column inside aggregate is not a plain column",
			sql:  "SELECT customer_id, SUM(total) FROM orders GROUP BY customer_id",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rules.SelectStructure, shopCatalog(), tt.sql)
			assert.Equal(t, tt.want, diagKinds(diags))
		})
	}
}

func TestSelectStructureReportsGroupByOnce(t *testing.T) {
	diags := runRule(t, rules.SelectStructure, shopCatalog(),
		"SELECT customer_id, note, COUNT(*) FROM orders")
	require.Len(t, diags, 1)
	assert.Equal(t, validate.KindMissingGroupBy, diags[0].Kind)
}

func TestSelectStructureMissingColumnsSorted(t *testing.T) {
	diags := runRule(t, rules.SelectStructure, shopCatalog(),
		"SELECT note, customer_id, COUNT(*) FROM orders GROUP BY id")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "customer_id, note")
}

// ---------- JN01 join conditions ----------

func TestJoinConditions(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []validate.Kind
	}{
		{
			name: "join without condition",
			sql:  "SELECT * FROM orders JOIN customers",
			want: []validate.Kind{validate.KindMissingJoinCondition},
		},
		{
			name: "left join without condition",
			sql:  "SELECT * FROM orders LEFT JOIN customers",
			want: []validate.Kind{validate.KindMissingJoinCondition},
		},
		{
			name: "cross join is flagged",
			sql:  "SELECT * FROM orders CROSS JOIN customers",
			want: []validate.Kind{validate.KindMissingJoinCondition},
		},
		{
			name: "comma join is implicit",
			sql:  "SELECT * FROM orders, customers",
			want: nil,
		},
		{
			name: "natural join is implicit",
			sql:  "SELECT * FROM orders NATURAL JOIN customers",
			want: nil,
		},
		{
			name: "valid on condition",
			sql:  "SELECT * FROM orders o JOIN customers c ON o.customer_id = c.id",
			want: nil,
		},
		{
			name: "on references unknown alias",
			sql:  "SELECT * FROM orders o JOIN customers c ON o.customer_id = x.id",
			want: []validate.Kind{validate.KindUnknownTableRef},
		},
		{
			name: "on references missing column",
			sql:  "SELECT * FROM orders o JOIN customers c ON o.customer_id = c.customer_id",
			want: []validate.Kind{validate.KindColumnNotFound},
		},
		{
			name: "using column in both tables",
			sql:  "SELECT * FROM orders JOIN customers USING (id)",
			want: nil,
		},
		{
			name: "using column in one table only",
			sql:  "SELECT * FROM orders JOIN customers USING (total)",
			want: []validate.Kind{validate.KindJoinError},
		},
		{
			name: "using column in no table",
			sql:  "SELECT * FROM orders JOIN customers USING (nothing)",
			want: []validate.Kind{validate.KindColumnNotFound},
		},
		{
			name: "missing condition reported without sub-checks",
			sql:  "SELECT * FROM orders o JOIN ghost g",
			want: []validate.Kind{validate.KindMissingJoinCondition},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rules.JoinConditions, shopCatalog(), tt.sql)
			assert.Equal(t, tt.want, diagKinds(diags))
		})
	}
}

func TestJoinConditionsSelfJoin(t *testing.T) {
	c := catalog.New()
	c.AddTable("emp", catalog.Columns{"id": "integer", "manager_id": "integer"})

	diags := runRule(t, rules.JoinConditions, c,
		"SELECT * FROM emp e1 JOIN emp e2 ON e1.manager_id = e2.id")
	assert.Empty(t, diags)

	diags = runRule(t, rules.JoinConditions, c,
		"SELECT * FROM emp e1 JOIN emp e2 ON e1.manager_id = e2.bogus")
	require.Len(t, diags, 1)
	assert.Equal(t, validate.KindColumnNotFound, diags[0].Kind)
}

func TestJoinConditionsPerJoinScope(t *testing.T) {
	c := catalog.New()
	c.AddTable("a", catalog.Columns{"x": "integer"})
	c.AddTable("b", catalog.Columns{"x": "integer", "y": "integer"})
	c.AddTable("c", catalog.Columns{"y": "integer"})

	// The first join's condition may not reference the table joined
	// after it.
	diags := runRule(t, rules.JoinConditions, c,
		"SELECT * FROM a JOIN b ON a.x = c.y JOIN c ON b.y = c.y")
	require.Len(t, diags, 1)
	assert.Equal(t, validate.KindUnknownTableRef, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "'c'")
}

func TestJoinConditionsEmptyCatalog(t *testing.T) {
	// Alias resolution needs no schema, so a bad ON qualifier is still
	// caught; the USING and column checks are metadata-dependent and
	// drop out.
	diags := runRule(t, rules.JoinConditions, nil,
		"SELECT * FROM orders o JOIN customers c ON o.customer_id = x.id")
	require.Len(t, diags, 1)
	assert.Equal(t, validate.KindUnknownTableRef, diags[0].Kind)

	diags = runRule(t, rules.JoinConditions, nil,
		"SELECT * FROM orders JOIN customers USING (nothing)")
	assert.Empty(t, diags)
}

func TestJoinConditionsUsingJoinErrorMessage(t *testing.T) {
	diags := runRule(t, rules.JoinConditions, shopCatalog(),
		"SELECT * FROM orders o JOIN customers c USING (name)")
	require.Len(t, diags, 1)
	assert.Equal(t, validate.KindJoinError, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "'name'")
	assert.Contains(t, diags[0].Message, "c")
}

// ---------- WH01 where sanity ----------

func TestWhereSanity(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []validate.Kind
	}{
		{
			name: "numeric column vs numeric literal",
			sql:  "SELECT * FROM orders WHERE total = 10",
			want: nil,
		},
		{
			name: "numeric column vs numeric string",
			sql:  "SELECT * FROM orders WHERE total = '10.5'",
			want: nil,
		},
		{
			name: "numeric column vs non-numeric string",
			sql:  "SELECT * FROM orders WHERE total = 'lots'",
			want: []validate.Kind{validate.KindTypeMismatch},
		},
		{
			name: "text column vs string",
			sql:  "SELECT * FROM customers WHERE name = 'bob'",
			want: nil,
		},
		{
			name: "text column vs number",
			sql:  "SELECT * FROM customers WHERE name = 42",
			want: []validate.Kind{validate.KindTypeMismatch},
		},
		{
			name: "equality against null",
			sql:  "SELECT * FROM orders WHERE note = NULL",
			want: []validate.Kind{validate.KindNullComparison},
		},
		{
			name: "inequality against null",
			sql:  "SELECT * FROM orders WHERE note <> NULL",
			want: []validate.Kind{validate.KindNullComparison},
		},
		{
			name: "is null is fine",
			sql:  "SELECT * FROM orders WHERE note IS NULL",
			want: nil,
		},
		{
			name: "is not null is fine",
			sql:  "SELECT * FROM orders WHERE note IS NOT NULL",
			want: nil,
		},
		{
			name: "unknown column is skipped",
			sql:  "SELECT * FROM orders WHERE mystery = 'x'",
			want: nil,
		},
		{
			name: "unclassified type family has no type rule",
			sql:  "SELECT * FROM orders WHERE created_at = 5",
			want: nil,
		},
		{
			name: "nested conditions are walked",
			sql:  "SELECT * FROM orders WHERE (total = 'abc' OR id = 1) AND note = 7",
			want: []validate.Kind{validate.KindTypeMismatch, validate.KindTypeMismatch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rules.WhereSanity, shopCatalog(), tt.sql)
			assert.Equal(t, tt.want, diagKinds(diags))
		})
	}
}

// ---------- HV01 having sanity ----------

func TestHavingSanity(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []validate.Kind
	}{
		{
			name: "having without group by or aggregate",
			sql:  "SELECT id FROM orders HAVING id > 5",
			want: []validate.Kind{validate.KindMisusedHaving},
		},
		{
			name: "having with aggregate needs no group by warning",
			sql:  "SELECT COUNT(*) FROM orders HAVING COUNT(*) > 5",
			want: nil,
		},
		{
			name: "having column exposed by select",
			sql:  "SELECT customer_id FROM orders GROUP BY customer_id HAVING customer_id > 5",
			want: nil,
		},
		{
			name: "having column exposed by alias",
			sql:  "SELECT customer_id AS cid FROM orders GROUP BY customer_id HAVING cid > 5",
			want: nil,
		},
		{
			name: "having references unexposed column",
			sql:  "SELECT customer_id, COUNT(*) FROM orders GROUP BY customer_id HAVING total > 100",
			want: []validate.Kind{validate.KindIllegalHavingColumn},
		},
		{
			name: "aggregate argument needs no exposure",
			sql:  "SELECT customer_id FROM orders GROUP BY customer_id HAVING SUM(total) > 100",
			want: nil,
		},
		{
			name: "qualified having matches bare select column",
			sql:  "SELECT customer_id FROM orders o GROUP BY customer_id HAVING o.customer_id > 5",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rules.HavingSanity, shopCatalog(), tt.sql)
			assert.Equal(t, tt.want, diagKinds(diags))
		})
	}
}

func TestHavingMisuseAndIllegalColumnTogether(t *testing.T) {
	diags := runRule(t, rules.HavingSanity, shopCatalog(),
		"SELECT id FROM orders HAVING total > 100")
	assert.Equal(t, []validate.Kind{
		validate.KindMisusedHaving,
		validate.KindIllegalHavingColumn,
	}, diagKinds(diags))
}

// ---------- SC01 schema existence ----------

func TestSchemaExistence(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []validate.Kind
	}{
		{
			name: "all references exist",
			sql:  "SELECT o.id, c.name FROM orders o JOIN customers c ON o.customer_id = c.id",
			want: nil,
		},
		{
			name: "unknown table",
			sql:  "SELECT * FROM ghost",
			want: []validate.Kind{validate.KindTableNotFound},
		},
		{
			name: "unknown column",
			sql:  "SELECT shoe_size FROM customers",
			want: []validate.Kind{validate.KindColumnNotFound},
		},
		{
			name: "bare column from any table passes",
			sql:  "SELECT name FROM orders",
			want: nil,
		},
		{
			name: "unknown table and column",
			sql:  "SELECT shoe_size FROM ghost",
			want: []validate.Kind{validate.KindTableNotFound, validate.KindColumnNotFound},
		},
		{
			name: "duplicate references reported once",
			sql:  "SELECT shoe_size FROM customers WHERE shoe_size > 4 ORDER BY shoe_size",
			want: []validate.Kind{validate.KindColumnNotFound},
		},
		{
			name: "derived table columns are skipped",
			sql:  "SELECT sub.anything FROM (SELECT id FROM orders) sub",
			want: nil,
		},
		{
			name: "cte reference is not a missing table",
			sql:  "WITH recent AS (SELECT id FROM orders) SELECT * FROM recent",
			want: nil,
		},
		{
			name: "self join counts the table once",
			sql:  "SELECT e1.id FROM orders e1 JOIN orders e2 ON e1.id = e2.id",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rules.SchemaExistence, shopCatalog(), tt.sql)
			assert.Equal(t, tt.want, diagKinds(diags))
		})
	}
}

func TestSchemaExistenceSuggestions(t *testing.T) {
	diags := runRule(t, rules.SchemaExistence, shopCatalog(), "SELECT * FROM ghost")
	require.Len(t, diags, 1)
	assert.Equal(t, "available tables: customers, orders", diags[0].Suggestion)
}

func TestSchemaExistenceMissingColumnReportedOnce(t *testing.T) {
	// The flattened lookup does not distinguish qualifiers, so the same
	// missing column under two aliases is a single finding.
	diags := runRule(t, rules.SchemaExistence, shopCatalog(),
		"SELECT x.ghost, y.ghost FROM orders x JOIN customers y ON x.id = y.id")
	require.Len(t, diags, 1)
	assert.Equal(t, validate.KindColumnNotFound, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "'ghost'")
}

func TestSchemaExistenceStrictReportsPerTable(t *testing.T) {
	stmt, err := parser.ParseSelect(
		"SELECT x.ghost, y.ghost FROM orders x JOIN customers y ON x.id = y.id")
	require.NoError(t, err)

	core := stmt.Core()
	diags := rules.SchemaExistence.Check(&validate.RuleContext{
		Stmt:    stmt,
		Core:    core,
		Catalog: shopCatalog(),
		Scope:   validate.NewScope(core),
		Strict:  true,
	})
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Message, "'orders'")
	assert.Contains(t, diags[1].Message, "'customers'")
}

func TestSchemaExistenceEmptyCatalog(t *testing.T) {
	diags := runRule(t, rules.SchemaExistence, nil, "SELECT whatever FROM wherever")
	assert.Empty(t, diags)
}

func TestAllOrder(t *testing.T) {
	all := rules.All()
	var ids []string
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"ST01", "JN01", "WH01", "HV01", "SC01"}, ids)

	registered := validate.Registered()
	require.Len(t, registered, len(all))
	for i, r := range registered {
		assert.Equal(t, all[i].ID, r.ID)
	}
}

func diagKinds(diags []validate.Diagnostic) []validate.Kind {
	var out []validate.Kind
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}
