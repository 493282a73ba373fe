package expr

import (
	"errors"
	"fmt"
)

// ErrInvalidRewrite is returned when a rewriter puts a node into a slot that
// cannot hold it, such as a Table where a scalar is expected.
var ErrInvalidRewrite = errors.New("invalid rewrite")

// Rewriter transforms a tree.
type Rewriter interface {
	// Rewrite is applied to nodes in depth-first order after their
	// children have been rewritten. The returned node replaces the input.
	Rewrite(Expression) (Expression, error)

	// Walk is called before the children of a node are visited. The
	// returned Rewriter is used for the children. If it is nil the
	// children are left untouched.
	Walk(Expression) Rewriter
}

// RewriterFunc adapts a function to Rewriter. It visits every node.
type RewriterFunc func(Expression) (Expression, error)

// Rewrite implements Rewriter.
func (f RewriterFunc) Rewrite(e Expression) (Expression, error) { return f(e) }

// Walk implements Rewriter.
func (f RewriterFunc) Walk(Expression) Rewriter { return f }

// Walk rewrites e with r. A node is rebuilt only when one of its children
// changed; untouched subtrees keep their identity.
func Walk(r Rewriter, e Expression) (Expression, error) {
	if e == nil {
		return nil, nil
	}
	if w := r.Walk(e); w != nil {
		var err error
		if e, err = rewriteChildren(w, e); err != nil {
			return nil, err
		}
	}
	return r.Rewrite(e)
}

func rewriteChildren(r Rewriter, e Expression) (Expression, error) {
	switch n := e.(type) {
	case *Table, *Argument:
		return n, nil

	case *Column:
		t, err := walkTable(r, n.Table)
		if err != nil {
			return nil, err
		}
		if t != n.Table {
			return n.WithTable(t), nil
		}
		return n, nil

	case *ColumnDeclaring:
		x, err := walkScalar(r, n.Expression)
		if err != nil {
			return nil, err
		}
		if x != n.Expression {
			return n.WithExpression(x), nil
		}
		return n, nil

	case *Binary:
		left, err := walkScalar(r, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := walkScalar(r, n.Right)
		if err != nil {
			return nil, err
		}
		if left != n.Left || right != n.Right {
			return n.WithOperands(left, right), nil
		}
		return n, nil

	case *Unary:
		x, err := walkScalar(r, n.Operand)
		if err != nil {
			return nil, err
		}
		if x != n.Operand {
			return n.WithOperand(x), nil
		}
		return n, nil

	case *Aggregate:
		x, err := walkScalar(r, n.Argument)
		if err != nil {
			return nil, err
		}
		if x != n.Argument {
			return n.WithArgument(x), nil
		}
		return n, nil

	case *InList:
		out := n
		left, err := walkScalar(r, n.Left)
		if err != nil {
			return nil, err
		}
		if left != n.Left {
			out = out.WithLeft(left)
		}
		q, err := walkQuery(r, n.Query)
		if err != nil {
			return nil, err
		}
		if q != n.Query {
			out = out.WithQuery(q)
		}
		values, changed, err := walkScalars(r, n.Values)
		if err != nil {
			return nil, err
		}
		if changed {
			out = out.WithValues(values)
		}
		return out, nil

	case *Between:
		x, err := walkScalar(r, n.Expression)
		if err != nil {
			return nil, err
		}
		lower, err := walkScalar(r, n.Lower)
		if err != nil {
			return nil, err
		}
		upper, err := walkScalar(r, n.Upper)
		if err != nil {
			return nil, err
		}
		if x != n.Expression || lower != n.Lower || upper != n.Upper {
			return n.WithOperands(x, lower, upper), nil
		}
		return n, nil

	case *Select:
		return rewriteSelect(r, n)

	case *Union:
		left, err := walkQuery(r, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := walkQuery(r, n.Right)
		if err != nil {
			return nil, err
		}
		out := n
		if left != n.Left || right != n.Right {
			out = out.WithBranches(left, right)
		}
		orders, changed, err := walkOrders(r, n.OrderBy)
		if err != nil {
			return nil, err
		}
		if changed {
			out = out.WithOrderBy(orders)
		}
		return out, nil

	case *Insert:
		t, err := walkTable(r, n.Table)
		if err != nil {
			return nil, err
		}
		assignments, changed, err := walkAssignments(r, n.Assignments)
		if err != nil {
			return nil, err
		}
		out := n
		if t != n.Table {
			out = out.WithTable(t)
		}
		if changed {
			out = out.WithAssignments(assignments)
		}
		return out, nil

	case *Update:
		t, err := walkTable(r, n.Table)
		if err != nil {
			return nil, err
		}
		assignments, changed, err := walkAssignments(r, n.Assignments)
		if err != nil {
			return nil, err
		}
		where, err := walkScalar(r, n.Where)
		if err != nil {
			return nil, err
		}
		out := n
		if t != n.Table {
			out = out.WithTable(t)
		}
		if changed {
			out = out.WithAssignments(assignments)
		}
		if where != n.Where {
			out = out.WithWhere(where)
		}
		return out, nil

	case *Delete:
		t, err := walkTable(r, n.Table)
		if err != nil {
			return nil, err
		}
		where, err := walkScalar(r, n.Where)
		if err != nil {
			return nil, err
		}
		out := n
		if t != n.Table {
			out = out.WithTable(t)
		}
		if where != n.Where {
			out = out.WithWhere(where)
		}
		return out, nil

	case *Join:
		left, err := walkSource(r, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := walkSource(r, n.Right)
		if err != nil {
			return nil, err
		}
		cond, err := walkScalar(r, n.Condition)
		if err != nil {
			return nil, err
		}
		out := n
		if left != n.Left || right != n.Right {
			out = out.WithSources(left, right)
		}
		if cond != n.Condition {
			out = out.WithCondition(cond)
		}
		return out, nil

	case *OrderBy:
		x, err := walkScalar(r, n.Expression)
		if err != nil {
			return nil, err
		}
		if x != n.Expression {
			return n.WithExpression(x), nil
		}
		return n, nil

	case *ColumnAssignment:
		return rewriteAssignment(r, n)
	}
	return nil, fmt.Errorf("%w: unknown node %T", ErrInvalidRewrite, e)
}

func rewriteSelect(r Rewriter, s *Select) (*Select, error) {
	out := s
	from, err := walkSource(r, s.From)
	if err != nil {
		return nil, err
	}
	if from != s.From {
		out = out.WithFrom(from)
	}

	var cols []*ColumnDeclaring
	for i, c := range s.Columns {
		x, err := Walk(r, c)
		if err != nil {
			return nil, err
		}
		d, ok := x.(*ColumnDeclaring)
		if !ok {
			return nil, fmt.Errorf("%w: %T in select list", ErrInvalidRewrite, x)
		}
		if d != c && cols == nil {
			cols = append([]*ColumnDeclaring(nil), s.Columns...)
		}
		if cols != nil {
			cols[i] = d
		}
	}
	if cols != nil {
		out = out.WithColumns(cols)
	}

	where, err := walkScalar(r, s.Where)
	if err != nil {
		return nil, err
	}
	if where != s.Where {
		out = out.WithWhere(where)
	}
	groupBy, changed, err := walkScalars(r, s.GroupBy)
	if err != nil {
		return nil, err
	}
	if changed {
		out = out.WithGroupBy(groupBy)
	}
	having, err := walkScalar(r, s.Having)
	if err != nil {
		return nil, err
	}
	if having != s.Having {
		out = out.WithHaving(having)
	}
	orders, changed, err := walkOrders(r, s.OrderBy)
	if err != nil {
		return nil, err
	}
	if changed {
		out = out.WithOrderBy(orders)
	}
	return out, nil
}

func rewriteAssignment(r Rewriter, a *ColumnAssignment) (*ColumnAssignment, error) {
	out := a
	if a.Column != nil {
		x, err := Walk(r, a.Column)
		if err != nil {
			return nil, err
		}
		col, ok := x.(*Column)
		if !ok {
			return nil, fmt.Errorf("%w: %T as assignment target", ErrInvalidRewrite, x)
		}
		if col != a.Column {
			out = out.WithColumn(col)
		}
	}
	x, err := walkScalar(r, a.Expression)
	if err != nil {
		return nil, err
	}
	if x != a.Expression {
		out = out.WithExpression(x)
	}
	return out, nil
}

func walkScalar(r Rewriter, s Scalar) (Scalar, error) {
	if s == nil {
		return nil, nil
	}
	x, err := Walk(r, s)
	if err != nil || x == nil {
		return nil, err
	}
	out, ok := x.(Scalar)
	if !ok {
		return nil, fmt.Errorf("%w: %T in scalar position", ErrInvalidRewrite, x)
	}
	return out, nil
}

func walkSource(r Rewriter, s Source) (Source, error) {
	if s == nil {
		return nil, nil
	}
	x, err := Walk(r, s)
	if err != nil {
		return nil, err
	}
	out, ok := x.(Source)
	if !ok {
		return nil, fmt.Errorf("%w: %T in source position", ErrInvalidRewrite, x)
	}
	return out, nil
}

func walkQuery(r Rewriter, q Query) (Query, error) {
	if q == nil {
		return nil, nil
	}
	x, err := Walk(r, q)
	if err != nil {
		return nil, err
	}
	out, ok := x.(Query)
	if !ok {
		return nil, fmt.Errorf("%w: %T in query position", ErrInvalidRewrite, x)
	}
	return out, nil
}

func walkTable(r Rewriter, t *Table) (*Table, error) {
	if t == nil {
		return nil, nil
	}
	x, err := Walk(r, t)
	if err != nil {
		return nil, err
	}
	out, ok := x.(*Table)
	if !ok {
		return nil, fmt.Errorf("%w: %T in table position", ErrInvalidRewrite, x)
	}
	return out, nil
}

// walkScalars rewrites a slice, copying it only on the first change.
func walkScalars(r Rewriter, in []Scalar) ([]Scalar, bool, error) {
	var out []Scalar
	for i, s := range in {
		x, err := walkScalar(r, s)
		if err != nil {
			return nil, false, err
		}
		if x != s && out == nil {
			out = append([]Scalar(nil), in...)
		}
		if out != nil {
			out[i] = x
		}
	}
	if out == nil {
		return in, false, nil
	}
	return out, true, nil
}

func walkOrders(r Rewriter, in []*OrderBy) ([]*OrderBy, bool, error) {
	var out []*OrderBy
	for i, o := range in {
		x, err := Walk(r, o)
		if err != nil {
			return nil, false, err
		}
		ob, ok := x.(*OrderBy)
		if !ok {
			return nil, false, fmt.Errorf("%w: %T in order by", ErrInvalidRewrite, x)
		}
		if ob != o && out == nil {
			out = append([]*OrderBy(nil), in...)
		}
		if out != nil {
			out[i] = ob
		}
	}
	if out == nil {
		return in, false, nil
	}
	return out, true, nil
}

func walkAssignments(r Rewriter, in []*ColumnAssignment) ([]*ColumnAssignment, bool, error) {
	var out []*ColumnAssignment
	for i, a := range in {
		x, err := Walk(r, a)
		if err != nil {
			return nil, false, err
		}
		ca, ok := x.(*ColumnAssignment)
		if !ok {
			return nil, false, fmt.Errorf("%w: %T in assignment list", ErrInvalidRewrite, x)
		}
		if ca != a && out == nil {
			out = append([]*ColumnAssignment(nil), in...)
		}
		if out != nil {
			out[i] = ca
		}
	}
	if out == nil {
		return in, false, nil
	}
	return out, true, nil
}
