// Package catalog models the database schema that queries are
// validated against: tables, their columns, and column types. Catalogs
// are loaded from schema files or live databases and treated as
// immutable snapshots once built.
//
// Unqualified column lookups via LookupColumn search every table, so
// when two tables share a column name with different types the lookup
// picks one of them (the last in sorted table order). Checks built on
// it inherit that ambiguity: a type check on a bare column name may
// use the type from a table the query never touches. Qualify column
// references, or enable strict resolution in the validator, to avoid
// this.
package catalog

import (
	"sort"
	"strings"
)

// Columns maps a column name to its declared data type. Type strings
// follow information_schema conventions ("integer", "character
// varying", "timestamp without time zone").
type Columns map[string]string

// Catalog holds the known tables and their columns. Table and column
// names are stored lower-cased; lookups are case-insensitive.
type Catalog struct {
	tables map[string]Columns
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{tables: make(map[string]Columns)}
}

// AddTable registers a table with the given columns. An existing table
// of the same name is replaced.
func (c *Catalog) AddTable(name string, cols Columns) {
	normalized := make(Columns, len(cols))
	for col, typ := range cols {
		normalized[strings.ToLower(col)] = strings.ToLower(typ)
	}
	c.tables[strings.ToLower(name)] = normalized
}

// HasTable returns true if the catalog contains the table.
func (c *Catalog) HasTable(name string) bool {
	_, ok := c.tables[strings.ToLower(name)]
	return ok
}

// Columns returns the column map for a table, or nil if the table is
// unknown. The returned map must not be modified.
func (c *Catalog) Columns(table string) Columns {
	return c.tables[strings.ToLower(table)]
}

// ColumnType returns the declared type of table.column and whether the
// column exists.
func (c *Catalog) ColumnType(table, column string) (string, bool) {
	cols, ok := c.tables[strings.ToLower(table)]
	if !ok {
		return "", false
	}
	typ, ok := cols[strings.ToLower(column)]
	return typ, ok
}

// Tables returns all table names in sorted order.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

// LookupColumn finds a bare (unqualified) column name across every
// table in the catalog. It returns the declared type from the last
// table (in sorted table order) that defines the column, and the
// number of tables defining it. When multiple tables define the same
// column name the returned type is therefore deterministic but
// arbitrary; see the package documentation for the ambiguity this
// implies.
func (c *Catalog) LookupColumn(column string) (typ string, count int) {
	column = strings.ToLower(column)
	for _, table := range c.Tables() {
		if t, ok := c.tables[table][column]; ok {
			typ = t
			count++
		}
	}
	return typ, count
}

// TablesWithColumn returns the sorted names of tables defining the
// given column.
func (c *Catalog) TablesWithColumn(column string) []string {
	column = strings.ToLower(column)
	var names []string
	for _, table := range c.Tables() {
		if _, ok := c.tables[table][column]; ok {
			names = append(names, table)
		}
	}
	return names
}
