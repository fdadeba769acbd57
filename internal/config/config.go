// Package config holds the CLI configuration: where the schema comes
// from, how results are rendered, and validator behavior.
package config

// Source names a schema catalog backend.
type Source string

// Supported schema sources.
const (
	SourceFile     Source = "file"
	SourcePostgres Source = "postgres"
	SourceSQLite   Source = "sqlite"
	SourceDuckDB   Source = "duckdb"
)

// Config holds all CLI configuration options.
type Config struct {
	// Source selects the schema backend.
	Source Source `koanf:"source"`
	// SchemaFile is the YAML schema path for the file source.
	SchemaFile string `koanf:"schema_file"`
	// DSN is the connection string (postgres) or database path
	// (sqlite, duckdb) for database sources.
	DSN string `koanf:"dsn"`
	// DBSchema is the database schema to introspect (postgres only).
	DBSchema string `koanf:"db_schema"`

	// Strict enables scope-aware column resolution.
	Strict bool `koanf:"strict"`
	// Disable lists rule IDs to skip.
	Disable []string `koanf:"disable"`

	// Output selects the report format: text, table, or json.
	Output string `koanf:"output"`
	// Verbose enables debug logging to stderr.
	Verbose bool `koanf:"verbose"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Source:     SourceFile,
		SchemaFile: "schema.yaml",
		DBSchema:   "public",
		Output:     "text",
	}
}
