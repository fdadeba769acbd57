package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// PostgresLoader loads a catalog from a live PostgreSQL database via
// information_schema.
type PostgresLoader struct {
	db     *sql.DB
	schema string
}

// OpenPostgres opens a connection to a PostgreSQL database and returns
// a loader for the given schema. An empty schema defaults to "public".
func OpenPostgres(dsn, schema string) (*PostgresLoader, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	return NewPostgresLoader(db, schema), nil
}

// NewPostgresLoader returns a loader using an existing connection.
func NewPostgresLoader(db *sql.DB, schema string) *PostgresLoader {
	if schema == "" {
		schema = "public"
	}
	return &PostgresLoader{db: db, schema: schema}
}

// Close closes the underlying connection.
func (l *PostgresLoader) Close() error {
	return l.db.Close()
}

// Ping verifies the connection is alive.
func (l *PostgresLoader) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

const postgresColumnsQuery = `
SELECT table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema = $1
ORDER BY table_name, ordinal_position`

// Load queries information_schema.columns and builds a catalog.
func (l *PostgresLoader) Load(ctx context.Context) (*Catalog, error) {
	rows, err := l.db.QueryContext(ctx, postgresColumnsQuery, l.schema)
	if err != nil {
		return nil, fmt.Errorf("querying information_schema: %w", err)
	}
	defer rows.Close()

	return catalogFromColumnRows(rows)
}

// catalogFromColumnRows builds a catalog from (table, column, type)
// rows. Shared by the loaders that query information_schema.
func catalogFromColumnRows(rows *sql.Rows) (*Catalog, error) {
	tables := make(map[string]Columns)
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		if tables[table] == nil {
			tables[table] = make(Columns)
		}
		tables[table][column] = dataType
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading column rows: %w", err)
	}

	c := New()
	for table, cols := range tables {
		c.AddTable(table, cols)
	}
	return c, nil
}
