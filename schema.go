package sqltree

import (
	"fmt"
	"sort"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/sqltree/sqltype"
)

// Schema is a set of frozen tables loaded from a DBML project.
type Schema struct {
	project *dbml.Project
	tables  map[string]*Table
}

type schemaOptions struct {
	schema      string
	primaryKeys map[string][]string
	references  []reference
}

type reference struct {
	table, column, target string
}

// SchemaOption configures SchemaFromDBML.
type SchemaOption func(*schemaOptions)

// InSchema places every loaded table in a database schema.
func InSchema(name string) SchemaOption {
	return func(o *schemaOptions) { o.schema = name }
}

// PrimaryKey marks the primary key columns of a table.
func PrimaryKey(table string, columns ...string) SchemaOption {
	return func(o *schemaOptions) {
		o.primaryKeys[table] = append(o.primaryKeys[table], columns...)
	}
}

// References records that table.column refers to the primary key of target.
func References(table, column, target string) SchemaOption {
	return func(o *schemaOptions) {
		o.references = append(o.references, reference{table: table, column: column, target: target})
	}
}

// SchemaFromDBML builds a table for every table of project. Column types
// are resolved with sqltype.Lookup; unknown types map to varchar. Tables
// are frozen before they are returned.
func SchemaFromDBML(project *dbml.Project, opts ...SchemaOption) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}
	o := schemaOptions{primaryKeys: make(map[string][]string)}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Schema{project: project, tables: make(map[string]*Table)}
	for _, t := range project.Tables {
		if _, ok := s.tables[t.Name]; ok {
			return nil, fmt.Errorf("table %q defined twice", t.Name)
		}
		table := NewTable(t.Name, WithSchema(o.schema))
		for _, col := range t.Columns {
			typ, _ := sqltype.Lookup(col.Type)
			if _, err := table.RegisterAny(col.Name, typ); err != nil {
				return nil, err
			}
		}
		s.tables[t.Name] = table
	}

	for name, cols := range o.primaryKeys {
		table, err := s.TryTable(name)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			if err := table.MarkPrimaryKey(c); err != nil {
				return nil, err
			}
		}
	}
	for _, ref := range o.references {
		table, err := s.TryTable(ref.table)
		if err != nil {
			return nil, err
		}
		target, err := s.TryTable(ref.target)
		if err != nil {
			return nil, err
		}
		if err := table.RegisterReference(ref.column, target); err != nil {
			return nil, err
		}
	}

	for _, t := range s.tables {
		t.Freeze()
	}
	return s, nil
}

// Project returns the DBML project the schema was built from.
func (s *Schema) Project() *dbml.Project { return s.project }

// Names returns the table names in sorted order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TryTable returns the named table, aliased if an alias is given.
func (s *Schema) TryTable(name string, alias ...string) (*Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if len(alias) == 0 || alias[0] == "" {
		return t, nil
	}
	rel, err := t.Aliased(alias[0])
	if err != nil {
		return nil, err
	}
	return rel.(*Table), nil
}

// Table is like TryTable but panics on error.
func (s *Schema) Table(name string, alias ...string) *Table {
	return must(s.TryTable(name, alias...))
}

// TryColumn returns a column of a table.
func (s *Schema) TryColumn(table, column string) (ColumnRef, error) {
	t, err := s.TryTable(table)
	if err != nil {
		return ColumnRef{}, err
	}
	return t.Column(column)
}
