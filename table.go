package sqltree

import (
	"fmt"

	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/sqltype"
)

// Relation is anything that can be selected from or modified: a BaseTable or
// a user type embedding one.
type Relation interface {
	// Base returns the underlying table definition.
	Base() *BaseTable

	// Aliased returns a structurally identical relation bound to alias,
	// for self-joins and union legs.
	Aliased(alias string) (Relation, error)
}

// TableOption configures a table at construction.
type TableOption func(*BaseTable)

// WithSchema places the table in a schema.
func WithSchema(schema string) TableOption {
	return func(t *BaseTable) { t.schema = schema }
}

// WithCatalog places the table in a catalog.
func WithCatalog(catalog string) TableOption {
	return func(t *BaseTable) { t.catalog = catalog }
}

// WithAlias binds the table to an alias.
func WithAlias(alias string) TableOption {
	return func(t *BaseTable) { t.alias = alias }
}

type columnDef struct {
	name    string
	typ     sqltype.Type
	binding []string
}

// BaseTable is the definition of a physical table. Columns and keys are
// registered during a single-threaded initialization phase, after which the
// table should be frozen and may be shared freely.
//
// Two BaseTables are equal only if they are the same object. An aliased copy
// of a table is a different table.
type BaseTable struct {
	name        string
	alias       string
	schema      string
	catalog     string
	columns     []columnDef
	index       map[string]int
	primaryKeys []string
	references  map[string]*BaseTable
	frozen      bool
}

// NewBaseTable creates an empty table definition.
func NewBaseTable(name string, opts ...TableOption) *BaseTable {
	t := &BaseTable{
		name:       name,
		index:      make(map[string]int),
		references: make(map[string]*BaseTable),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the table name.
func (t *BaseTable) Name() string { return t.name }

// Alias returns the table alias, or "".
func (t *BaseTable) Alias() string { return t.alias }

// Schema returns the schema name, or "".
func (t *BaseTable) Schema() string { return t.schema }

// Catalog returns the catalog name, or "".
func (t *BaseTable) Catalog() string { return t.catalog }

// Base implements Relation.
func (t *BaseTable) Base() *BaseTable { return t }

// Aliased implements Relation. A bare BaseTable cannot rebuild its own
// columns, so it always fails; concrete tables override this.
func (t *BaseTable) Aliased(alias string) (Relation, error) {
	return nil, fmt.Errorf("%w: %s", ErrAliasNotSupported, t.name)
}

// Freeze ends the initialization phase.
func (t *BaseTable) Freeze() { t.frozen = true }

// Frozen reports whether Freeze was called.
func (t *BaseTable) Frozen() bool { return t.frozen }

// SamePhysical reports whether t and other name the same physical table,
// whatever their aliases.
func (t *BaseTable) SamePhysical(other *BaseTable) bool {
	return t.name == other.name && t.schema == other.schema && t.catalog == other.catalog
}

// Expression returns the table node, alias included.
func (t *BaseTable) Expression() *expr.Table {
	return &expr.Table{Name: t.name, Alias: t.alias, Schema: t.schema, Catalog: t.catalog}
}

func (t *BaseTable) String() string {
	if t.alias != "" {
		return t.name + " " + t.alias
	}
	return t.name
}

func (t *BaseTable) checkMutable() error {
	if t.frozen {
		return fmt.Errorf("%w: %s", ErrTableFrozen, t.name)
	}
	return nil
}

func (t *BaseTable) register(name string, typ sqltype.Type, binding []string) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, t.name, name)
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, columnDef{name: name, typ: typ, binding: binding})
	return nil
}

// RegisterAny registers a column whose Go type is only known at run time,
// as when loading a schema.
func (t *BaseTable) RegisterAny(name string, typ sqltype.Type) (ColumnRef, error) {
	if err := t.register(name, typ, nil); err != nil {
		return ColumnRef{}, err
	}
	return ColumnRef{table: t, name: name, typ: typ}, nil
}

// Columns returns the registered columns in registration order.
func (t *BaseTable) Columns() []ColumnRef {
	refs := make([]ColumnRef, len(t.columns))
	for i, c := range t.columns {
		refs[i] = ColumnRef{table: t, name: c.name, typ: c.typ, binding: c.binding}
	}
	return refs
}

// Column looks up a registered column by name.
func (t *BaseTable) Column(name string) (ColumnRef, error) {
	i, ok := t.index[name]
	if !ok {
		return ColumnRef{}, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, t.name, name)
	}
	c := t.columns[i]
	return ColumnRef{table: t, name: c.name, typ: c.typ, binding: c.binding}, nil
}

// MarkPrimaryKey adds a registered column to the primary key.
func (t *BaseTable) MarkPrimaryKey(name string) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if _, ok := t.index[name]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnregisteredColumn, t.name, name)
	}
	for _, pk := range t.primaryKeys {
		if pk == name {
			return nil
		}
	}
	t.primaryKeys = append(t.primaryKeys, name)
	return nil
}

// PrimaryKeys returns the primary key columns in marking order.
func (t *BaseTable) PrimaryKeys() []ColumnRef {
	refs := make([]ColumnRef, 0, len(t.primaryKeys))
	for _, name := range t.primaryKeys {
		c := t.columns[t.index[name]]
		refs = append(refs, ColumnRef{table: t, name: c.name, typ: c.typ, binding: c.binding})
	}
	return refs
}

// SinglePrimaryKey returns the only primary key column.
func (t *BaseTable) SinglePrimaryKey() (ColumnRef, error) {
	switch len(t.primaryKeys) {
	case 0:
		return ColumnRef{}, fmt.Errorf("%w: %s", ErrNoPrimaryKey, t.name)
	case 1:
		return t.PrimaryKeys()[0], nil
	}
	return ColumnRef{}, fmt.Errorf("%w: %s", ErrCompoundPrimaryKey, t.name)
}

// RegisterReference records that column refers to the primary key of
// target. The target must have exactly one primary key column.
func (t *BaseTable) RegisterReference(column string, target Relation) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if _, ok := t.index[column]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnregisteredColumn, t.name, column)
	}
	if _, err := target.Base().SinglePrimaryKey(); err != nil {
		return fmt.Errorf("reference %s.%s: %w", t.name, column, err)
	}
	t.references[column] = target.Base()
	return nil
}

// Reference returns the table column refers to, if any.
func (t *BaseTable) Reference(column string) (*BaseTable, bool) {
	target, ok := t.references[column]
	return target, ok
}

// CopyDefinitionsFrom copies the columns, primary key and references of src
// into t, which must not have any columns yet.
func (t *BaseTable) CopyDefinitionsFrom(src *BaseTable) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if len(t.columns) > 0 {
		return fmt.Errorf("%w: %s", ErrTableNotEmpty, t.name)
	}
	for _, c := range src.columns {
		if err := t.register(c.name, c.typ, c.binding); err != nil {
			return err
		}
	}
	t.primaryKeys = append([]string(nil), src.primaryKeys...)
	for col, target := range src.references {
		t.references[col] = target
	}
	return nil
}

// Table is a table whose columns are registered at run time. Unlike a bare
// BaseTable it can be aliased.
type Table struct {
	*BaseTable
}

// NewTable creates an empty dynamic table.
func NewTable(name string, opts ...TableOption) *Table {
	return &Table{BaseTable: NewBaseTable(name, opts...)}
}

// Aliased returns a copy of t with the same columns, bound to alias. The
// copy is frozen if t is.
func (t *Table) Aliased(alias string) (Relation, error) {
	c := NewTable(t.name, WithSchema(t.schema), WithCatalog(t.catalog), WithAlias(alias))
	if err := c.CopyDefinitionsFrom(t.BaseTable); err != nil {
		return nil, err
	}
	if t.frozen {
		c.Freeze()
	}
	return c, nil
}
