package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables the loader reads,
// e.g. SQLGAUGE_SCHEMA_FILE overrides schema_file.
const envPrefix = "SQLGAUGE_"

// findConfigFile returns the config file to use. An explicit path
// wins; otherwise sqlgauge.yaml then sqlgauge.yml in the working
// directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"sqlgauge.yaml", "sqlgauge.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration. Precedence, highest first: CLI
// flags, environment variables, config file, defaults. A missing
// explicit config file is an error; missing implicit ones are not.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"source":      string(defaults.Source),
		"schema_file": defaults.SchemaFile,
		"db_schema":   defaults.DBSchema,
		"output":      defaults.Output,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// A discovered file may disappear between Stat and read;
			// only an explicit path has to exist. Anything else, like
			// a parse failure, is an error either way.
			if cfgFile != "" || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		// Passing k makes unchanged flags defer to values already
		// loaded from the file or environment.
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceFile:
		if c.SchemaFile == "" {
			return fmt.Errorf("source %q requires schema_file", c.Source)
		}
	case SourcePostgres, SourceSQLite, SourceDuckDB:
		if c.DSN == "" {
			return fmt.Errorf("source %q requires dsn", c.Source)
		}
	default:
		return fmt.Errorf("unknown schema source %q", c.Source)
	}

	switch c.Output {
	case "text", "table", "json":
	default:
		return fmt.Errorf("unknown output format %q (want text, table, or json)", c.Output)
	}
	return nil
}
