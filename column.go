package sqltree

import (
	"fmt"

	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/sqltype"
)

// Operand is anything that renders as a value expression.
type Operand interface {
	Scalar() expr.Scalar
}

// TypedOperand is an operand whose values have Go type T.
type TypedOperand[T any] interface {
	Operand
	SQLType() sqltype.SqlType[T]
}

// Column is a typed column of a table.
type Column[T any] struct {
	table   *BaseTable
	name    string
	typ     sqltype.SqlType[T]
	binding []string
}

// RegisterColumn adds a column to t. binding is an optional path that an
// entity mapper may use to locate the column's value; it is not
// interpreted here.
func RegisterColumn[T any](t *BaseTable, name string, typ sqltype.SqlType[T], binding ...string) (Column[T], error) {
	if err := t.register(name, typ, binding); err != nil {
		return Column[T]{}, err
	}
	return Column[T]{table: t, name: name, typ: typ, binding: binding}, nil
}

// MustRegisterColumn is like RegisterColumn but panics on error. It is
// meant for table constructors.
func MustRegisterColumn[T any](t *BaseTable, name string, typ sqltype.SqlType[T], binding ...string) Column[T] {
	c, err := RegisterColumn(t, name, typ, binding...)
	if err != nil {
		panic(err)
	}
	return c
}

// ColumnOf recovers a typed column from a relation by name.
func ColumnOf[T any](rel Relation, name string) (Column[T], error) {
	ref, err := rel.Base().Column(name)
	if err != nil {
		return Column[T]{}, err
	}
	typ, ok := ref.typ.(sqltype.SqlType[T])
	if !ok {
		var zero T
		return Column[T]{}, fmt.Errorf("%w: %s is %s, not %T", ErrColumnType, name, ref.typ.TypeName(), zero)
	}
	return Column[T]{table: ref.table, name: ref.name, typ: typ, binding: ref.binding}, nil
}

// Table returns the owning table.
func (c Column[T]) Table() *BaseTable { return c.table }

// Name returns the column name.
func (c Column[T]) Name() string { return c.name }

// Binding returns the binding path given at registration.
func (c Column[T]) Binding() []string { return c.binding }

// SQLType implements TypedOperand.
func (c Column[T]) SQLType() sqltype.SqlType[T] { return c.typ }

// Scalar implements Operand.
func (c Column[T]) Scalar() expr.Scalar {
	return &expr.Column{Table: c.table.Expression(), Name: c.name, Type: c.typ}
}

// Ref returns the untyped view of c.
func (c Column[T]) Ref() ColumnRef {
	return ColumnRef{table: c.table, name: c.name, typ: c.typ, binding: c.binding}
}

// Decode converts a scanned value into a T.
func (c Column[T]) Decode(src any) (T, error) { return c.typ.DecodeValue(src) }

func (c Column[T]) String() string { return c.table.String() + "." + c.name }

// ColumnRef is a column whose Go type is not known statically.
type ColumnRef struct {
	table   *BaseTable
	name    string
	typ     sqltype.Type
	binding []string
}

// Table returns the owning table.
func (c ColumnRef) Table() *BaseTable { return c.table }

// Name returns the column name.
func (c ColumnRef) Name() string { return c.name }

// Type returns the column's type.
func (c ColumnRef) Type() sqltype.Type { return c.typ }

// Scalar implements Operand.
func (c ColumnRef) Scalar() expr.Scalar {
	return &expr.Column{Table: c.table.Expression(), Name: c.name, Type: c.typ}
}

// Bind wraps v as an argument of the column's type. v must hold the Go
// type the column was registered with.
func (c ColumnRef) Bind(v any) *expr.Argument {
	return &expr.Argument{Value: v, Type: c.typ}
}

// Compare builds "column op v".
func (c ColumnRef) Compare(op expr.BinaryType, v any) Expr[bool] {
	return boolExpr(&expr.Binary{Op: op, Left: c.Scalar(), Right: c.Bind(v), Type: sqltype.Boolean})
}
