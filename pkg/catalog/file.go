package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk YAML schema format:
//
//	tables:
//	  users:
//	    id: integer
//	    name: character varying
//	  orders:
//	    id: integer
//	    user_id: integer
type schemaFile struct {
	Tables map[string]map[string]string `yaml:"tables"`
}

// FileLoader loads a catalog from a YAML schema file.
type FileLoader struct {
	Path string
}

// NewFileLoader returns a loader for the given schema file path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads and parses the schema file.
func (l *FileLoader) Load(_ context.Context) (*Catalog, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema parses YAML schema bytes into a catalog.
func ParseSchema(data []byte) (*Catalog, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if len(sf.Tables) == 0 {
		return nil, fmt.Errorf("parsing schema: no tables defined")
	}

	c := New()
	for table, cols := range sf.Tables {
		if len(cols) == 0 {
			return nil, fmt.Errorf("parsing schema: table %q has no columns", table)
		}
		c.AddTable(table, cols)
	}
	return c, nil
}
