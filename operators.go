package sqltree

import (
	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/sqltype"
)

// Expr is a typed expression built from columns and operators.
type Expr[T any] struct {
	node expr.Scalar
	typ  sqltype.SqlType[T]
}

// Scalar implements Operand.
func (e Expr[T]) Scalar() expr.Scalar { return e.node }

// SQLType implements TypedOperand.
func (e Expr[T]) SQLType() sqltype.SqlType[T] { return e.typ }

// Wrap turns a hand-built node into a typed expression.
func Wrap[T any](node expr.Scalar, typ sqltype.SqlType[T]) Expr[T] {
	return Expr[T]{node: node, typ: typ}
}

func boolExpr(node expr.Scalar) Expr[bool] {
	return Expr[bool]{node: node, typ: sqltype.Boolean}
}

func toExpr[T any](op TypedOperand[T]) Expr[T] {
	if e, ok := op.(Expr[T]); ok {
		return e
	}
	return Expr[T]{node: op.Scalar(), typ: op.SQLType()}
}

// Bind makes a bound argument expression.
func Bind[T any](typ sqltype.SqlType[T], v T) Expr[T] {
	return Expr[T]{node: typ.Bind(v), typ: typ}
}

// True is a bound true literal, the usual default for CombineConditions
// with AND.
func True() Expr[bool] { return Bind(sqltype.Boolean, true) }

// False is a bound false literal.
func False() Expr[bool] { return Bind(sqltype.Boolean, false) }

func compare[T any](op expr.BinaryType, left TypedOperand[T], right expr.Scalar) Expr[bool] {
	return boolExpr(&expr.Binary{Op: op, Left: left.Scalar(), Right: right, Type: sqltype.Boolean})
}

// Eq builds "left = v".
func Eq[T any](left TypedOperand[T], v T) Expr[bool] {
	return compare(expr.Equals, left, left.SQLType().Bind(v))
}

// Ne builds "left <> v".
func Ne[T any](left TypedOperand[T], v T) Expr[bool] {
	return compare(expr.NotEquals, left, left.SQLType().Bind(v))
}

// Gt builds "left > v".
func Gt[T any](left TypedOperand[T], v T) Expr[bool] {
	return compare(expr.GreaterThan, left, left.SQLType().Bind(v))
}

// Ge builds "left >= v".
func Ge[T any](left TypedOperand[T], v T) Expr[bool] {
	return compare(expr.GreaterEqual, left, left.SQLType().Bind(v))
}

// Lt builds "left < v".
func Lt[T any](left TypedOperand[T], v T) Expr[bool] {
	return compare(expr.LessThan, left, left.SQLType().Bind(v))
}

// Le builds "left <= v".
func Le[T any](left TypedOperand[T], v T) Expr[bool] {
	return compare(expr.LessEqual, left, left.SQLType().Bind(v))
}

// EqCol builds "left = right" for two operands of the same type, as used in
// join conditions.
func EqCol[T any](left, right TypedOperand[T]) Expr[bool] {
	return compare(expr.Equals, left, right.Scalar())
}

// Cmp builds "left op right" for any comparison operator.
func Cmp[T any](left TypedOperand[T], op expr.BinaryType, right TypedOperand[T]) Expr[bool] {
	return compare(op, left, right.Scalar())
}

// Like builds "left LIKE pattern".
func Like(left TypedOperand[string], pattern string) Expr[bool] {
	return compare(expr.Like, left, left.SQLType().Bind(pattern))
}

// NotLike builds "left NOT LIKE pattern".
func NotLike(left TypedOperand[string], pattern string) Expr[bool] {
	return compare(expr.NotLike, left, left.SQLType().Bind(pattern))
}

// In builds "left IN (values...)".
func In[T any](left TypedOperand[T], values ...T) Expr[bool] {
	return inList(left, false, values)
}

// NotIn builds "left NOT IN (values...)".
func NotIn[T any](left TypedOperand[T], values ...T) Expr[bool] {
	return inList(left, true, values)
}

func inList[T any](left TypedOperand[T], not bool, values []T) Expr[bool] {
	args := make([]expr.Scalar, len(values))
	for i, v := range values {
		args[i] = left.SQLType().Bind(v)
	}
	return boolExpr(&expr.InList{Left: left.Scalar(), Values: args, Not: not, Type: sqltype.Boolean})
}

// InQuery builds "left IN (subquery)".
func InQuery[T any](left TypedOperand[T], q Query) Expr[bool] {
	return boolExpr(&expr.InList{Left: left.Scalar(), Query: q.Expression(), Type: sqltype.Boolean})
}

// Between builds "left BETWEEN lower AND upper".
func Between[T any](left TypedOperand[T], lower, upper T) Expr[bool] {
	typ := left.SQLType()
	return boolExpr(&expr.Between{
		Expression: left.Scalar(),
		Lower:      typ.Bind(lower),
		Upper:      typ.Bind(upper),
		Type:       sqltype.Boolean,
	})
}

// IsNull builds "op IS NULL".
func IsNull(op Operand) Expr[bool] {
	return boolExpr(&expr.Unary{Op: expr.IsNull, Operand: op.Scalar(), Type: sqltype.Boolean})
}

// IsNotNull builds "op IS NOT NULL".
func IsNotNull(op Operand) Expr[bool] {
	return boolExpr(&expr.Unary{Op: expr.IsNotNull, Operand: op.Scalar(), Type: sqltype.Boolean})
}

// Not negates a predicate.
func Not(op TypedOperand[bool]) Expr[bool] {
	return boolExpr(&expr.Unary{Op: expr.Not, Operand: op.Scalar(), Type: sqltype.Boolean})
}

// And builds "left AND right".
func And(left, right TypedOperand[bool]) Expr[bool] {
	return compare(expr.And, left, right.Scalar())
}

// Or builds "left OR right".
func Or(left, right TypedOperand[bool]) Expr[bool] {
	return compare(expr.Or, left, right.Scalar())
}

func arithmetic[T any](op expr.BinaryType, left, right TypedOperand[T]) Expr[T] {
	typ := left.SQLType()
	return Expr[T]{node: &expr.Binary{Op: op, Left: left.Scalar(), Right: right.Scalar(), Type: typ}, typ: typ}
}

// Plus builds "left + right".
func Plus[T any](left, right TypedOperand[T]) Expr[T] { return arithmetic(expr.Plus, left, right) }

// Minus builds "left - right".
func Minus[T any](left, right TypedOperand[T]) Expr[T] { return arithmetic(expr.Minus, left, right) }

// Times builds "left * right".
func Times[T any](left, right TypedOperand[T]) Expr[T] { return arithmetic(expr.Times, left, right) }

// Div builds "left / right".
func Div[T any](left, right TypedOperand[T]) Expr[T] { return arithmetic(expr.Div, left, right) }

// Count builds COUNT(*).
func Count() Expr[int64] {
	return Expr[int64]{node: &expr.Aggregate{Func: expr.Count, Type: sqltype.Long}, typ: sqltype.Long}
}

// CountOf builds COUNT(op), or COUNT(DISTINCT op).
func CountOf(op Operand, distinct bool) Expr[int64] {
	return Expr[int64]{
		node: &expr.Aggregate{Func: expr.Count, Argument: op.Scalar(), Distinct: distinct, Type: sqltype.Long},
		typ:  sqltype.Long,
	}
}

func aggregate[T any](fn expr.AggregateType, op TypedOperand[T]) Expr[T] {
	typ := op.SQLType()
	return Expr[T]{node: &expr.Aggregate{Func: fn, Argument: op.Scalar(), Type: typ}, typ: typ}
}

// Sum builds SUM(op).
func Sum[T any](op TypedOperand[T]) Expr[T] { return aggregate(expr.Sum, op) }

// Max builds MAX(op).
func Max[T any](op TypedOperand[T]) Expr[T] { return aggregate(expr.Max, op) }

// Min builds MIN(op).
func Min[T any](op TypedOperand[T]) Expr[T] { return aggregate(expr.Min, op) }

// Avg builds AVG(op), typed as a double.
func Avg(op Operand) Expr[float64] {
	return Expr[float64]{
		node: &expr.Aggregate{Func: expr.Avg, Argument: op.Scalar(), Type: sqltype.Double},
		typ:  sqltype.Double,
	}
}

// Declared is an output column renamed with As.
type Declared struct {
	node *expr.ColumnDeclaring
}

// Scalar implements Operand. Outside a select list a declared column
// renders as its name.
func (d Declared) Scalar() expr.Scalar { return d.node }

// Name returns the declared name.
func (d Declared) Name() string { return d.node.DeclaredName }

// As declares op under alias in a select list.
func As(op Operand, alias string) Declared {
	return Declared{node: &expr.ColumnDeclaring{Expression: op.Scalar(), DeclaredName: alias}}
}

// Ref is an unqualified reference to an output column by name, for
// ordering a union by a declared column.
func Ref(name string) Operand {
	return refOperand{name: name}
}

type refOperand struct{ name string }

func (r refOperand) Scalar() expr.Scalar { return &expr.Column{Name: r.name} }

// Asc orders by op ascending.
func Asc(op Operand) *expr.OrderBy {
	return &expr.OrderBy{Expression: op.Scalar(), Order: expr.Ascending}
}

// Desc orders by op descending.
func Desc(op Operand) *expr.OrderBy {
	return &expr.OrderBy{Expression: op.Scalar(), Order: expr.Descending}
}

// CombineConditions folds conds with op (expr.And or expr.Or) into a
// balanced tree, so long lists stay shallow. An empty list yields def and a
// single condition is returned unchanged.
func CombineConditions(conds []Expr[bool], op expr.BinaryType, def Expr[bool]) Expr[bool] {
	switch len(conds) {
	case 0:
		return def
	case 1:
		return conds[0]
	}
	mid := len(conds) / 2
	left := CombineConditions(conds[:mid], op, def)
	right := CombineConditions(conds[mid:], op, def)
	return compare(op, left, right.Scalar())
}
