package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // cgo-free sqlite driver
)

// SQLiteLoader loads a catalog from a SQLite database file using
// sqlite_master and PRAGMA table_info.
type SQLiteLoader struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database and returns a loader for it.
func OpenSQLite(path string) (*SQLiteLoader, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return NewSQLiteLoader(db), nil
}

// NewSQLiteLoader returns a loader using an existing connection.
func NewSQLiteLoader(db *sql.DB) *SQLiteLoader {
	return &SQLiteLoader{db: db}
}

// Close closes the underlying connection.
func (l *SQLiteLoader) Close() error {
	return l.db.Close()
}

// Load enumerates user tables and their columns.
func (l *SQLiteLoader) Load(ctx context.Context) (*Catalog, error) {
	const tablesQuery = `
SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

	rows, err := l.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying sqlite_master: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table names: %w", err)
	}

	c := New()
	for _, table := range tables {
		cols, err := l.tableColumns(ctx, table)
		if err != nil {
			return nil, err
		}
		c.AddTable(table, cols)
	}
	return c, nil
}

// tableColumns reads PRAGMA table_info for one table.
func (l *SQLiteLoader) tableColumns(ctx context.Context, table string) (Columns, error) {
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(Columns)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		cols[name] = typ
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	return cols, nil
}
