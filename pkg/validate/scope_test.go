package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgauge/sqlgauge/pkg/parser"
	"github.com/sqlgauge/sqlgauge/pkg/validate"
)

func scopeFor(t *testing.T, sql string) *validate.Scope {
	t.Helper()
	stmt, err := parser.ParseSelect(sql)
	require.NoError(t, err)
	return validate.NewScope(stmt.Core())
}

func TestScopeResolvesAliases(t *testing.T) {
	s := scopeFor(t, "SELECT * FROM users u JOIN orders o ON u.id = o.user_id")

	u, ok := s.Resolve("u")
	require.True(t, ok)
	assert.Equal(t, "users", u.RealName)

	o, ok := s.Resolve("o")
	require.True(t, ok)
	assert.Equal(t, "orders", o.RealName)

	// Aliased tables are not resolvable by their real names.
	_, ok = s.Resolve("users")
	assert.False(t, ok)

	_, ok = s.Resolve("missing")
	assert.False(t, ok)
}

func TestScopeUnaliasedTable(t *testing.T) {
	s := scopeFor(t, "SELECT * FROM users")
	tbl, ok := s.Resolve("users")
	require.True(t, ok)
	assert.Equal(t, "users", tbl.RealName)
	assert.False(t, tbl.Derived)
}

func TestScopeSelfJoin(t *testing.T) {
	s := scopeFor(t, "SELECT * FROM emp e1 JOIN emp e2 ON e1.manager_id = e2.id")

	e1, ok := s.Resolve("e1")
	require.True(t, ok)
	e2, ok := s.Resolve("e2")
	require.True(t, ok)

	assert.Equal(t, "emp", e1.RealName)
	assert.Equal(t, "emp", e2.RealName)
	assert.Equal(t, []string{"e1", "e2"}, s.Names())
}

func TestScopeDuplicateAliasLastWins(t *testing.T) {
	s := scopeFor(t, "SELECT * FROM users x JOIN orders x ON x.id = x.id")
	tbl, ok := s.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, "orders", tbl.RealName)
}

func TestScopeDerivedTable(t *testing.T) {
	s := scopeFor(t, "SELECT * FROM (SELECT id FROM users) sub JOIN orders o ON sub.id = o.user_id")
	sub, ok := s.Resolve("sub")
	require.True(t, ok)
	assert.True(t, sub.Derived)
	assert.Empty(t, sub.RealName)
}

func TestScopeVisiblePerJoin(t *testing.T) {
	s := scopeFor(t, "SELECT * FROM a JOIN b ON a.x = b.x JOIN c ON b.y = c.y")

	first := s.Visible(0)
	assert.Equal(t, []string{"a", "b"}, first.Names())
	_, ok := first.Resolve("c")
	assert.False(t, ok, "c joins later and is not yet in scope")

	second := s.Visible(1)
	assert.Equal(t, []string{"a", "b", "c"}, second.Names())
}

func TestScopeCaseInsensitive(t *testing.T) {
	s := scopeFor(t, "SELECT * FROM Users U")
	_, ok := s.Resolve("u")
	assert.True(t, ok)
	assert.True(t, s.HasRealTable("users"))
}

func TestScopeEmptyWithoutFrom(t *testing.T) {
	s := scopeFor(t, "SELECT 1")
	assert.Empty(t, s.Names())
	_, ok := s.Resolve("anything")
	assert.False(t, ok)
}
