package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb" // duckdb database/sql driver
)

// DuckDBLoader loads a catalog from a DuckDB database via
// information_schema.
type DuckDBLoader struct {
	db *sql.DB
}

// OpenDuckDB opens a DuckDB database file (or an in-memory database
// when path is empty) and returns a loader for it.
func OpenDuckDB(path string) (*DuckDBLoader, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb database: %w", err)
	}
	return NewDuckDBLoader(db), nil
}

// NewDuckDBLoader returns a loader using an existing connection.
func NewDuckDBLoader(db *sql.DB) *DuckDBLoader {
	return &DuckDBLoader{db: db}
}

// Close closes the underlying connection.
func (l *DuckDBLoader) Close() error {
	return l.db.Close()
}

const duckdbColumnsQuery = `
SELECT table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema = 'main'
ORDER BY table_name, ordinal_position`

// Load queries information_schema.columns and builds a catalog.
func (l *DuckDBLoader) Load(ctx context.Context) (*Catalog, error) {
	rows, err := l.db.QueryContext(ctx, duckdbColumnsQuery)
	if err != nil {
		return nil, fmt.Errorf("querying information_schema: %w", err)
	}
	defer rows.Close()

	return catalogFromColumnRows(rows)
}
