package sqltree

import (
	"fmt"

	"github.com/zoobzio/sqltree/expr"
)

// Assignment is a "column = value" pair for INSERT and UPDATE.
type Assignment struct {
	table *BaseTable
	node  *expr.ColumnAssignment
}

// Assign sets col to the bound value v.
func Assign[T any](col Column[T], v T) Assignment {
	return AssignExpr[T](col, Bind(col.SQLType(), v))
}

// AssignNull sets col to NULL.
func AssignNull[T any](col Column[T]) Assignment {
	return Assignment{
		table: col.table,
		node:  &expr.ColumnAssignment{Column: col.Scalar().(*expr.Column), Expression: col.SQLType().BindNull()},
	}
}

// AssignExpr sets col to an expression, such as "salary + ?".
func AssignExpr[T any](col Column[T], value TypedOperand[T]) Assignment {
	return Assignment{
		table: col.table,
		node:  &expr.ColumnAssignment{Column: col.Scalar().(*expr.Column), Expression: value.Scalar()},
	}
}

// AssignRef sets an untyped column. v must hold the column's Go type.
func AssignRef(col ColumnRef, v any) Assignment {
	return Assignment{
		table: col.table,
		node:  &expr.ColumnAssignment{Column: col.Scalar().(*expr.Column), Expression: col.Bind(v)},
	}
}

// Statement is a rendered statement.
type Statement struct {
	SQL  string
	Args []*expr.Argument
}

// Format returns the statement itself, so a Statement can be executed like
// a builder.
func (s Statement) Format() (string, []*expr.Argument, error) {
	return s.SQL, s.Args, nil
}

func appendAssignments(rel Relation, dst []*expr.ColumnAssignment, as []Assignment) ([]*expr.ColumnAssignment, error) {
	target := rel.Base()
	out := dst[:len(dst):len(dst)]
	for _, a := range as {
		if !a.table.SamePhysical(target) {
			return nil, fmt.Errorf("%w: %s.%s assigned in a statement on %s",
				ErrAliasConflict, a.table.Name(), a.node.Column.Name, target.Name())
		}
		out = append(out, a.node)
	}
	return out, nil
}

// formatStatement strips aliases and renders. The stripped tree is not kept.
func formatStatement(cfg *Config, stmt expr.Statement) (string, []*expr.Argument, error) {
	stripped, err := expr.RemoveAliases(stmt)
	if err != nil {
		return "", nil, err
	}
	return cfg.FormatExpression(stripped)
}

// InsertBuilder builds an INSERT statement. It is immutable.
type InsertBuilder struct {
	cfg         *Config
	rel         Relation
	assignments []*expr.ColumnAssignment
}

// InsertInto starts an INSERT into rel.
func InsertInto(cfg *Config, rel Relation) InsertBuilder {
	return InsertBuilder{cfg: cfg, rel: rel}
}

// TrySet appends assignments. Duplicate columns are kept in order. A
// column of another table fails with ErrAliasConflict.
func (b InsertBuilder) TrySet(as ...Assignment) (InsertBuilder, error) {
	out, err := appendAssignments(b.rel, b.assignments, as)
	if err != nil {
		return b, err
	}
	b.assignments = out
	return b, nil
}

// Set is like TrySet but panics on error.
func (b InsertBuilder) Set(as ...Assignment) InsertBuilder {
	return must(b.TrySet(as...))
}

// Build returns the statement with aliases intact.
func (b InsertBuilder) Build() *expr.Insert {
	return &expr.Insert{Table: b.rel.Base().Expression(), Assignments: b.assignments}
}

// Format renders the statement without table aliases.
func (b InsertBuilder) Format() (string, []*expr.Argument, error) {
	return formatStatement(b.cfg, b.Build())
}

// UpdateBuilder builds an UPDATE statement. It is immutable.
type UpdateBuilder struct {
	cfg         *Config
	rel         Relation
	assignments []*expr.ColumnAssignment
	where       expr.Scalar
}

// UpdateTable starts an UPDATE of rel.
func UpdateTable(cfg *Config, rel Relation) UpdateBuilder {
	return UpdateBuilder{cfg: cfg, rel: rel}
}

// TrySet appends assignments.
func (b UpdateBuilder) TrySet(as ...Assignment) (UpdateBuilder, error) {
	out, err := appendAssignments(b.rel, b.assignments, as)
	if err != nil {
		return b, err
	}
	b.assignments = out
	return b, nil
}

// Set is like TrySet but panics on error.
func (b UpdateBuilder) Set(as ...Assignment) UpdateBuilder {
	return must(b.TrySet(as...))
}

// Where sets the predicate, replacing any previous one.
func (b UpdateBuilder) Where(cond TypedOperand[bool]) UpdateBuilder {
	b.where = cond.Scalar()
	return b
}

// Build returns the statement with aliases intact.
func (b UpdateBuilder) Build() *expr.Update {
	return &expr.Update{Table: b.rel.Base().Expression(), Assignments: b.assignments, Where: b.where}
}

// Format renders the statement without table aliases.
func (b UpdateBuilder) Format() (string, []*expr.Argument, error) {
	return formatStatement(b.cfg, b.Build())
}

// DeleteBuilder builds a DELETE statement. It is immutable.
type DeleteBuilder struct {
	cfg   *Config
	rel   Relation
	where expr.Scalar
}

// DeleteFrom starts a DELETE from rel. Without Where every row is deleted.
func DeleteFrom(cfg *Config, rel Relation) DeleteBuilder {
	return DeleteBuilder{cfg: cfg, rel: rel}
}

// Where sets the predicate, replacing any previous one.
func (b DeleteBuilder) Where(cond TypedOperand[bool]) DeleteBuilder {
	b.where = cond.Scalar()
	return b
}

// Build returns the statement with aliases intact.
func (b DeleteBuilder) Build() *expr.Delete {
	return &expr.Delete{Table: b.rel.Base().Expression(), Where: b.where}
}

// Format renders the statement without table aliases.
func (b DeleteBuilder) Format() (string, []*expr.Argument, error) {
	return formatStatement(b.cfg, b.Build())
}

// BatchInsertBuilder collects one INSERT per item against a single table.
// Items are not checked against each other; Database.ExecBatch rejects
// batches whose statements differ.
type BatchInsertBuilder struct {
	cfg   *Config
	rel   Relation
	items []InsertBuilder
}

// BatchInsertInto starts a batch insert into rel.
func BatchInsertInto(cfg *Config, rel Relation) BatchInsertBuilder {
	return BatchInsertBuilder{cfg: cfg, rel: rel}
}

// TryItem adds an item built by fn.
func (b BatchInsertBuilder) TryItem(fn func(InsertBuilder) (InsertBuilder, error)) (BatchInsertBuilder, error) {
	item, err := fn(InsertInto(b.cfg, b.rel))
	if err != nil {
		return b, err
	}
	b.items = append(b.items[:len(b.items):len(b.items)], item)
	return b, nil
}

// Item adds an item built by fn. Panics from fn propagate.
func (b BatchInsertBuilder) Item(fn func(InsertBuilder) InsertBuilder) BatchInsertBuilder {
	b.items = append(b.items[:len(b.items):len(b.items)], fn(InsertInto(b.cfg, b.rel)))
	return b
}

// Len returns the number of items.
func (b BatchInsertBuilder) Len() int { return len(b.items) }

// Build returns one statement per item, aliases intact.
func (b BatchInsertBuilder) Build() []*expr.Insert {
	out := make([]*expr.Insert, len(b.items))
	for i, item := range b.items {
		out[i] = item.Build()
	}
	return out
}

// Format renders every item in submission order.
func (b BatchInsertBuilder) Format() ([]Statement, error) {
	return formatBatch(b.cfg, b.Build())
}

// BatchUpdateBuilder collects one UPDATE per item against a single table.
type BatchUpdateBuilder struct {
	cfg   *Config
	rel   Relation
	items []UpdateBuilder
}

// BatchUpdateTable starts a batch update of rel.
func BatchUpdateTable(cfg *Config, rel Relation) BatchUpdateBuilder {
	return BatchUpdateBuilder{cfg: cfg, rel: rel}
}

// TryItem adds an item built by fn.
func (b BatchUpdateBuilder) TryItem(fn func(UpdateBuilder) (UpdateBuilder, error)) (BatchUpdateBuilder, error) {
	item, err := fn(UpdateTable(b.cfg, b.rel))
	if err != nil {
		return b, err
	}
	b.items = append(b.items[:len(b.items):len(b.items)], item)
	return b, nil
}

// Item adds an item built by fn.
func (b BatchUpdateBuilder) Item(fn func(UpdateBuilder) UpdateBuilder) BatchUpdateBuilder {
	b.items = append(b.items[:len(b.items):len(b.items)], fn(UpdateTable(b.cfg, b.rel)))
	return b
}

// Len returns the number of items.
func (b BatchUpdateBuilder) Len() int { return len(b.items) }

// Build returns one statement per item, aliases intact.
func (b BatchUpdateBuilder) Build() []*expr.Update {
	out := make([]*expr.Update, len(b.items))
	for i, item := range b.items {
		out[i] = item.Build()
	}
	return out
}

// Format renders every item in submission order.
func (b BatchUpdateBuilder) Format() ([]Statement, error) {
	return formatBatch(b.cfg, b.Build())
}

func formatBatch[S expr.Statement](cfg *Config, stmts []S) ([]Statement, error) {
	out := make([]Statement, len(stmts))
	for i, s := range stmts {
		sql, args, err := formatStatement(cfg, s)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		out[i] = Statement{SQL: sql, Args: args}
	}
	return out, nil
}

