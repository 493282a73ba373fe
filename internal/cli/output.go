package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/zoobzio/sqltree/expr"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputSQL  = "sql"
	OutputYAML = "yaml"
)

// Rendered is a rendered statement as written in YAML output.
type Rendered struct {
	Dialect string `yaml:"dialect"`
	SQL     string `yaml:"sql"`
	Args    []any  `yaml:"args,omitempty"`
}

// NewRendered collects the argument values of a rendered statement.
func NewRendered(dialect, sql string, args []*expr.Argument) Rendered {
	r := Rendered{Dialect: dialect, SQL: sql}
	for _, a := range args {
		r.Args = append(r.Args, a.Value)
	}
	return r
}

// Write prints r in the given format.
func (r Rendered) Write(w io.Writer, format string) error {
	switch format {
	case "", OutputSQL:
		if _, err := fmt.Fprintln(w, r.SQL); err != nil {
			return err
		}
		for i, a := range r.Args {
			if _, err := fmt.Fprintf(w, "-- arg %d: %s\n", i+1, formatArg(a)); err != nil {
				return err
			}
		}
		return nil
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

func formatArg(v any) string {
	switch a := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strconv.Quote(a)
	}
	return fmt.Sprint(v)
}
