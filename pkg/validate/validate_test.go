package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
	_ "github.com/sqlgauge/sqlgauge/pkg/validate/rules"
)

// fixtureCatalog mirrors a small user/device schema used across the
// validator tests.
func fixtureCatalog() *catalog.Catalog {
	c := catalog.New()
	c.AddTable("users", catalog.Columns{
		"user_id":   "integer",
		"username":  "character varying",
		"e_mail":    "character varying",
		"device_id": "integer",
	})
	c.AddTable("devices", catalog.Columns{
		"device_id": "integer",
		"model":     "character varying",
	})
	return c
}

func kinds(r *validate.Result) []validate.Kind {
	out := make([]validate.Kind, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		out = append(out, d.Kind)
	}
	return out
}

func TestValidateCleanQuery(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT u.username, d.model FROM users u JOIN devices d ON u.device_id = d.device_id WHERE u.user_id = 42")
	assert.True(t, r.Valid)
	assert.Empty(t, r.Diagnostics)
}

func TestValidateSyntaxError(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELEC username FROM users")

	assert.False(t, r.Valid)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, validate.KindSyntaxError, r.Diagnostics[0].Kind)
	assert.NotEmpty(t, r.Diagnostics[0].Suggestion)
}

func TestValidateIncompleteGroupBy(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT user_id, username FROM users GROUP BY user_id")

	assert.False(t, r.Valid)
	require.Len(t, r.Diagnostics, 1)
	d := r.Diagnostics[0]
	assert.Equal(t, validate.KindIncompleteGroupBy, d.Kind)
	assert.Contains(t, d.Message, "username")
}

func TestValidateJoinColumnNotFound(t *testing.T) {
	c := catalog.New()
	c.AddTable("users", catalog.Columns{"user_id": "integer"})
	c.AddTable("devices", catalog.Columns{"device_id": "integer"})

	v := validate.New(c)
	r := v.Validate("SELECT u.user_id FROM users u JOIN devices d ON u.device_id = d.device_id")

	assert.False(t, r.Valid)
	require.Len(t, r.Diagnostics, 1)
	d := r.Diagnostics[0]
	assert.Equal(t, validate.KindColumnNotFound, d.Kind)
	assert.Contains(t, d.Message, "device_id")
	assert.Contains(t, d.Message, "users")
}

func TestValidateTypeMismatch(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT user_id FROM users WHERE user_id = 'abc'")

	assert.False(t, r.Valid)
	assert.Equal(t, []validate.Kind{validate.KindTypeMismatch}, kinds(r))
}

func TestValidateNullComparison(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT user_id FROM users WHERE e_mail = NULL")

	assert.False(t, r.Valid)
	assert.Contains(t, kinds(r), validate.KindNullComparison)

	r = v.Validate("SELECT user_id FROM users WHERE e_mail IS NULL")
	assert.True(t, r.Valid, "IS NULL is the correct null test")
}

func TestValidateIllegalHavingColumn(t *testing.T) {
	c := fixtureCatalog()
	c.AddTable("accounts", catalog.Columns{"user_id": "integer", "phone_num": "character varying"})

	v := validate.New(c)
	r := v.Validate("SELECT user_id, COUNT(*) FROM accounts GROUP BY user_id HAVING phone_num > 0")

	assert.False(t, r.Valid)
	require.Len(t, r.Diagnostics, 1)
	d := r.Diagnostics[0]
	assert.Equal(t, validate.KindIllegalHavingColumn, d.Kind)
	assert.Contains(t, d.Message, "phone_num")
}

func TestValidateTableNotFound(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT * FROM ghost_table")

	assert.False(t, r.Valid)
	require.Len(t, r.Diagnostics, 1)
	d := r.Diagnostics[0]
	assert.Equal(t, validate.KindTableNotFound, d.Kind)
	assert.Contains(t, d.Message, "ghost_table")
	assert.Contains(t, d.Suggestion, "users")
}

func TestValidateIdempotent(t *testing.T) {
	v := validate.New(fixtureCatalog())
	query := "SELECT user_id, username FROM users GROUP BY user_id"

	first := v.Validate(query)
	second := v.Validate(query)
	assert.Equal(t, first, second)
}

func TestValidateDiagnosticOrder(t *testing.T) {
	// Structure issues come before schema issues regardless of their
	// position in the query text.
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT nonexistent, COUNT(*) FROM users HAVING bogus > 1")

	got := kinds(r)
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, validate.KindMissingGroupBy, got[0])
	assert.Contains(t, got, validate.KindIllegalHavingColumn)
	assert.Equal(t, validate.KindColumnNotFound, got[len(got)-2])
}

func TestValidateEmptyCatalogSkipsSchemaChecks(t *testing.T) {
	v := validate.New(nil)
	r := v.Validate("SELECT anything FROM wherever WHERE x = 1")
	assert.True(t, r.Valid, "schema-dependent rules are inert without a catalog")

	r = v.Validate("SELECT a FROM t JOIN u")
	assert.Equal(t, []validate.Kind{validate.KindMissingJoinCondition}, kinds(r),
		"structural rules still run without a catalog")
}

func TestValidateRuleIDsAttached(t *testing.T) {
	v := validate.New(fixtureCatalog())
	r := v.Validate("SELECT * FROM ghost_table")
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "SC01", r.Diagnostics[0].RuleID)
}

func TestValidateAll(t *testing.T) {
	v := validate.New(fixtureCatalog())
	queries := []string{
		"SELECT username FROM users",
		"SELECT * FROM ghost_table",
		"not sql at all",
	}

	results, err := v.ValidateAll(context.Background(), queries)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Valid)
	assert.Equal(t, []validate.Kind{validate.KindTableNotFound}, kinds(results[1]))
	assert.Equal(t, []validate.Kind{validate.KindSyntaxError}, kinds(results[2]))
}

func TestValidateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := validate.New(fixtureCatalog())
	_, err := v.ValidateAll(ctx, []string{"SELECT username FROM users"})
	require.Error(t, err)
}

func TestValidateStrictMode(t *testing.T) {
	c := catalog.New()
	c.AddTable("users", catalog.Columns{"user_id": "integer"})
	c.AddTable("legacy", catalog.Columns{"code": "character varying"})

	// Default mode: 'code' exists somewhere in the catalog, so the
	// qualified reference to the wrong table slips through.
	v := validate.New(c)
	r := v.Validate("SELECT u.code FROM users u")
	assert.True(t, r.Valid)

	// Strict mode resolves u -> users and flags the missing column.
	strict := validate.New(c, validate.WithStrict(true))
	r = strict.Validate("SELECT u.code FROM users u")
	assert.False(t, r.Valid)
	assert.Equal(t, []validate.Kind{validate.KindColumnNotFound}, kinds(r))
}
