package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/zoobzio/dbml"
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/mssql"
	"github.com/zoobzio/sqltree/mysql"
	"github.com/zoobzio/sqltree/postgres"
	"github.com/zoobzio/sqltree/sqlite"
)

const (
	maxWalkDepth = 25
)

// Config represents the sqltree configuration from sqltree.yaml.
type Config struct {
	Dialect     string            `mapstructure:"dialect" json:"dialect"`
	Format      FormatConfig      `mapstructure:"format" json:"format"`
	Identifiers IdentifiersConfig `mapstructure:"identifiers" json:"identifiers"`
	Tables      []TableConfig     `mapstructure:"tables" json:"tables"`
}

// FormatConfig holds SQL layout settings.
type FormatConfig struct {
	Pretty bool `mapstructure:"pretty" json:"pretty"`
	Indent int  `mapstructure:"indent" json:"indent"`
}

// IdentifiersConfig overrides the dialect's identifier rules.
type IdentifiersConfig struct {
	AlwaysQuote bool     `mapstructure:"always_quote" json:"always_quote"`
	Casing      string   `mapstructure:"casing" json:"casing,omitempty"`
	Keywords    []string `mapstructure:"keywords" json:"keywords,omitempty"`
}

// TableConfig describes one table.
type TableConfig struct {
	Name    string         `mapstructure:"name" json:"name"`
	Schema  string         `mapstructure:"schema" json:"schema,omitempty"`
	Columns []ColumnConfig `mapstructure:"columns" json:"columns"`
}

// ColumnConfig describes one column.
type ColumnConfig struct {
	Name       string `mapstructure:"name" json:"name"`
	Type       string `mapstructure:"type" json:"type"`
	PrimaryKey bool   `mapstructure:"primary_key" json:"primary_key,omitempty"`
	References string `mapstructure:"references" json:"references,omitempty"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SQLTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", "ansi")
	v.SetDefault("format.pretty", false)
	v.SetDefault("format.indent", 2)
	v.SetDefault("identifiers.always_quote", false)
	v.SetDefault("identifiers.casing", "")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for sqltree.yaml or sqltree.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"sqltree.yaml", "sqltree.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Dialects returns a registry of every dialect the CLI links in.
func Dialects() *sqltree.DialectRegistry {
	reg := sqltree.NewDialectRegistry()
	for name, factory := range map[string]func() sqltree.Dialect{
		"ansi":     func() sqltree.Dialect { return sqltree.Ansi },
		"postgres": func() sqltree.Dialect { return postgres.New() },
		"mysql":    func() sqltree.Dialect { return mysql.New() },
		"sqlite":   func() sqltree.Dialect { return sqlite.New() },
		"mssql":    func() sqltree.Dialect { return mssql.New() },
	} {
		if err := reg.Register(name, factory); err != nil {
			panic(err)
		}
	}
	return reg
}

// SQLConfig builds the rendering configuration. dialect overrides the
// configured dialect when not empty.
func (c *Config) SQLConfig(dialect string) (*sqltree.Config, error) {
	name := dialect
	if name == "" {
		name = c.Dialect
	}
	d, err := Dialects().Resolve(name)
	if err != nil {
		return nil, err
	}

	opts := []sqltree.Option{sqltree.WithDialect(d)}
	if c.Identifiers.AlwaysQuote {
		opts = append(opts, sqltree.WithAlwaysQuote(true))
	}
	if c.Identifiers.Casing != "" {
		casing, ok := sqltree.ParseCasing(c.Identifiers.Casing)
		if !ok {
			return nil, fmt.Errorf("identifiers.casing: unknown casing %q", c.Identifiers.Casing)
		}
		opts = append(opts, sqltree.WithCasing(casing))
	}
	if len(c.Identifiers.Keywords) > 0 {
		opts = append(opts, sqltree.WithKeywords(c.Identifiers.Keywords...))
	}
	return sqltree.NewConfig(opts...), nil
}

// Project converts the configured tables into a DBML project.
func (c *Config) Project() *dbml.Project {
	project := dbml.NewProject("sqltree")
	for _, t := range c.Tables {
		table := dbml.NewTable(t.Name)
		for _, col := range t.Columns {
			table.AddColumn(dbml.NewColumn(col.Name, col.Type))
		}
		project.AddTable(table)
	}
	return project
}

// Schema loads the configured tables. Tables declaring a schema must all
// declare the same one.
func (c *Config) Schema() (*sqltree.Schema, error) {
	if len(c.Tables) == 0 {
		return nil, fmt.Errorf("no tables configured")
	}
	var opts []sqltree.SchemaOption
	schema := ""
	for _, t := range c.Tables {
		if t.Schema != "" {
			if schema != "" && schema != t.Schema {
				return nil, fmt.Errorf("tables span schemas %q and %q", schema, t.Schema)
			}
			schema = t.Schema
		}
		for _, col := range t.Columns {
			if col.PrimaryKey {
				opts = append(opts, sqltree.PrimaryKey(t.Name, col.Name))
			}
			if col.References != "" {
				opts = append(opts, sqltree.References(t.Name, col.Name, col.References))
			}
		}
	}
	if schema != "" {
		opts = append(opts, sqltree.InSchema(schema))
	}
	return sqltree.SchemaFromDBML(c.Project(), opts...)
}
