package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgauge/sqlgauge/pkg/catalog"
)

const sampleSchema = `
tables:
  users:
    id: integer
    name: character varying
  orders:
    id: integer
    user_id: integer
    total: numeric
`

func TestParseSchema(t *testing.T) {
	c, err := catalog.ParseSchema([]byte(sampleSchema))
	require.NoError(t, err)

	assert.Equal(t, []string{"orders", "users"}, c.Tables())

	typ, ok := c.ColumnType("orders", "total")
	require.True(t, ok)
	assert.Equal(t, "numeric", typ)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"invalid yaml", "tables: [not a map", "parsing schema"},
		{"no tables", "tables: {}", "no tables defined"},
		{"empty table", "tables:\n  users: {}", "has no columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.ParseSchema([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSchema), 0o644))

	loader := catalog.NewFileLoader(path)
	c, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, c.HasTable("users"))
	assert.True(t, c.HasTable("orders"))
}

func TestFileLoaderMissingFile(t *testing.T) {
	loader := catalog.NewFileLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading schema file")
}
