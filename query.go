package sqltree

import (
	"fmt"

	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/sqltype"
)

// QuerySource is the FROM clause of a query under construction: a table, a
// derived table or a chain of joins. It is immutable; every join returns a
// new QuerySource.
type QuerySource struct {
	cfg *Config
	rel Relation
	src expr.Source
}

// From starts a query on rel.
func From(cfg *Config, rel Relation) QuerySource {
	return QuerySource{cfg: cfg, rel: rel, src: rel.Base().Expression()}
}

// FromQuery starts a query on a derived table. The formatter names the
// derived table unless q was given an alias.
func FromQuery(cfg *Config, q Query) QuerySource {
	return QuerySource{cfg: cfg, src: q.q}
}

// Relation returns the relation the source started from, or nil for a
// derived table.
func (s QuerySource) Relation() Relation { return s.rel }

// Expression returns the source node.
func (s QuerySource) Expression() expr.Source { return s.src }

func (s QuerySource) join(typ expr.JoinType, rel Relation, on []TypedOperand[bool]) QuerySource {
	j := &expr.Join{Type: typ, Left: s.src, Right: rel.Base().Expression()}
	if len(on) > 0 {
		conds := make([]Expr[bool], len(on))
		for i, c := range on {
			conds[i] = toExpr(c)
		}
		j.Condition = CombineConditions(conds, expr.And, True()).Scalar()
	}
	return QuerySource{cfg: s.cfg, rel: s.rel, src: j}
}

// CrossJoin joins rel without a condition.
func (s QuerySource) CrossJoin(rel Relation) QuerySource {
	return s.join(expr.CrossJoin, rel, nil)
}

// InnerJoin joins rel. Several conditions are combined with AND.
func (s QuerySource) InnerJoin(rel Relation, on ...TypedOperand[bool]) QuerySource {
	return s.join(expr.InnerJoin, rel, on)
}

// LeftJoin left-joins rel.
func (s QuerySource) LeftJoin(rel Relation, on ...TypedOperand[bool]) QuerySource {
	return s.join(expr.LeftJoin, rel, on)
}

// RightJoin right-joins rel.
func (s QuerySource) RightJoin(rel Relation, on ...TypedOperand[bool]) QuerySource {
	return s.join(expr.RightJoin, rel, on)
}

// Select selects cols. With no columns the query selects *.
func (s QuerySource) Select(cols ...Operand) Query {
	return Query{cfg: s.cfg, q: &expr.Select{From: s.src, Columns: declare(cols)}}
}

// SelectDistinct selects distinct rows of cols.
func (s QuerySource) SelectDistinct(cols ...Operand) Query {
	return Query{cfg: s.cfg, q: &expr.Select{From: s.src, Columns: declare(cols), Distinct: true}}
}

func declare(cols []Operand) []*expr.ColumnDeclaring {
	out := make([]*expr.ColumnDeclaring, len(cols))
	for i, c := range cols {
		if d, ok := c.Scalar().(*expr.ColumnDeclaring); ok {
			out[i] = d
			continue
		}
		out[i] = &expr.ColumnDeclaring{Expression: c.Scalar()}
	}
	return out
}

// Query is a SELECT or a UNION under construction. It is immutable; every
// combinator returns a new Query and leaves the receiver untouched.
//
// Combinators that can fail come in pairs: TryX returns the error and X
// panics with it.
type Query struct {
	cfg *Config
	q   expr.Query
}

// NewQuery wraps an existing query node.
func NewQuery(cfg *Config, q expr.Query) Query {
	return Query{cfg: cfg, q: q}
}

// Expression returns the query node.
func (q Query) Expression() expr.Query { return q.q }

// Config returns the configuration the query renders with.
func (q Query) Config() *Config { return q.cfg }

func (q Query) selectNode(clause string) (*expr.Select, error) {
	s, ok := q.q.(*expr.Select)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %T", ErrUnsupportedClause, clause, q.q)
	}
	return s, nil
}

// TryWhere adds a predicate. A second call combines the predicates with
// AND.
func (q Query) TryWhere(cond TypedOperand[bool]) (Query, error) {
	s, err := q.selectNode("WHERE")
	if err != nil {
		return q, err
	}
	where := cond.Scalar()
	if s.Where != nil {
		where = &expr.Binary{Op: expr.And, Left: s.Where, Right: where, Type: sqltype.Boolean}
	}
	return Query{cfg: q.cfg, q: s.WithWhere(where)}, nil
}

// Where is like TryWhere but panics on error.
func (q Query) Where(cond TypedOperand[bool]) Query {
	return must(q.TryWhere(cond))
}

func (q Query) whereCombined(op expr.BinaryType, conds []TypedOperand[bool]) (Query, error) {
	if _, err := q.selectNode("WHERE"); err != nil {
		return q, err
	}
	if len(conds) == 0 {
		return q, nil
	}
	exprs := make([]Expr[bool], len(conds))
	for i, c := range conds {
		exprs[i] = toExpr(c)
	}
	return q.TryWhere(CombineConditions(exprs, op, True()))
}

// TryWhereAll adds the conjunction of conds. No conditions leaves the
// query unchanged.
func (q Query) TryWhereAll(conds ...TypedOperand[bool]) (Query, error) {
	return q.whereCombined(expr.And, conds)
}

// WhereAll is like TryWhereAll but panics on error.
func (q Query) WhereAll(conds ...TypedOperand[bool]) Query {
	return must(q.TryWhereAll(conds...))
}

// TryWhereAny adds the disjunction of conds.
func (q Query) TryWhereAny(conds ...TypedOperand[bool]) (Query, error) {
	return q.whereCombined(expr.Or, conds)
}

// WhereAny is like TryWhereAny but panics on error.
func (q Query) WhereAny(conds ...TypedOperand[bool]) Query {
	return must(q.TryWhereAny(conds...))
}

// TryGroupBy sets the grouping columns.
func (q Query) TryGroupBy(cols ...Operand) (Query, error) {
	s, err := q.selectNode("GROUP BY")
	if err != nil {
		return q, err
	}
	groups := make([]expr.Scalar, len(cols))
	for i, c := range cols {
		groups[i] = c.Scalar()
	}
	return Query{cfg: q.cfg, q: s.WithGroupBy(groups)}, nil
}

// GroupBy is like TryGroupBy but panics on error.
func (q Query) GroupBy(cols ...Operand) Query {
	return must(q.TryGroupBy(cols...))
}

// TryHaving sets the HAVING predicate.
func (q Query) TryHaving(cond TypedOperand[bool]) (Query, error) {
	s, err := q.selectNode("HAVING")
	if err != nil {
		return q, err
	}
	return Query{cfg: q.cfg, q: s.WithHaving(cond.Scalar())}, nil
}

// Having is like TryHaving but panics on error.
func (q Query) Having(cond TypedOperand[bool]) Query {
	return must(q.TryHaving(cond))
}

// TryOrderBy sets the ordering. On a union every ordering expression must
// name a declared output column of the left branch: either the same
// expression as the declared column or a bare Ref to its name.
func (q Query) TryOrderBy(orders ...*expr.OrderBy) (Query, error) {
	switch n := q.q.(type) {
	case *expr.Select:
		return Query{cfg: q.cfg, q: n.WithOrderBy(orders)}, nil
	case *expr.Union:
		resolved, err := resolveUnionOrders(n, orders)
		if err != nil {
			return q, err
		}
		return Query{cfg: q.cfg, q: n.WithOrderBy(resolved)}, nil
	}
	return q, fmt.Errorf("%w: ORDER BY on %T", ErrUnsupportedClause, q.q)
}

// OrderBy is like TryOrderBy but panics on error.
func (q Query) OrderBy(orders ...*expr.OrderBy) Query {
	return must(q.TryOrderBy(orders...))
}

// Limit caps the number of rows. Non-positive values are ignored, keeping
// any previous limit, so optional values can be passed unconditionally.
func (q Query) Limit(n int) Query {
	if n <= 0 {
		return q
	}
	switch s := q.q.(type) {
	case *expr.Select:
		return Query{cfg: q.cfg, q: s.WithLimit(n)}
	case *expr.Union:
		return Query{cfg: q.cfg, q: s.WithLimit(n)}
	}
	return q
}

// Offset skips rows. Non-positive values are ignored.
func (q Query) Offset(n int) Query {
	if n <= 0 {
		return q
	}
	switch s := q.q.(type) {
	case *expr.Select:
		return Query{cfg: q.cfg, q: s.WithOffset(n)}
	case *expr.Union:
		return Query{cfg: q.cfg, q: s.WithOffset(n)}
	}
	return q
}

// Alias names the query when it is used as a derived table.
func (q Query) Alias(alias string) Query {
	switch s := q.q.(type) {
	case *expr.Select:
		return Query{cfg: q.cfg, q: s.WithTableAlias(alias)}
	case *expr.Union:
		return Query{cfg: q.cfg, q: s.WithTableAlias(alias)}
	}
	return q
}

// Union combines q and other, removing duplicates. The branches must have
// the same number of columns in the same order; this is not checked.
func (q Query) Union(other Query) Query {
	return Query{cfg: q.cfg, q: &expr.Union{Left: q.q, Right: other.q}}
}

// UnionAll combines q and other, keeping duplicates.
func (q Query) UnionAll(other Query) Query {
	return Query{cfg: q.cfg, q: &expr.Union{Left: q.q, Right: other.q, All: true}}
}

// CountQuery returns a query counting the rows q would return, ignoring its
// ordering and pagination.
func (q Query) CountQuery() Query {
	var inner expr.Query
	switch s := q.q.(type) {
	case *expr.Select:
		inner = s.WithoutPagination()
	case *expr.Union:
		inner = s.WithoutPagination()
	default:
		inner = q.q
	}
	count := &expr.ColumnDeclaring{Expression: &expr.Aggregate{Func: expr.Count, Type: sqltype.Long}}
	return Query{cfg: q.cfg, q: &expr.Select{From: inner, Columns: []*expr.ColumnDeclaring{count}}}
}

// Format renders the query on a single line.
func (q Query) Format() (string, []*expr.Argument, error) {
	return q.cfg.FormatExpression(q.q)
}

// FormatPretty renders the query over several lines.
func (q Query) FormatPretty(indent int) (string, []*expr.Argument, error) {
	return q.cfg.Format(q.q, true, indent)
}

// leftmostSelect returns the select whose columns name the union's output.
func leftmostSelect(q expr.Query) *expr.Select {
	for {
		switch n := q.(type) {
		case *expr.Select:
			return n
		case *expr.Union:
			q = n.Left
		default:
			return nil
		}
	}
}

func declaredName(d *expr.ColumnDeclaring) string {
	if d.DeclaredName != "" {
		return d.DeclaredName
	}
	if c, ok := d.Expression.(*expr.Column); ok {
		return c.Name
	}
	return ""
}

func resolveUnionOrders(u *expr.Union, orders []*expr.OrderBy) ([]*expr.OrderBy, error) {
	left := leftmostSelect(u.Left)
	if left == nil {
		return nil, fmt.Errorf("%w: union has no select branch", ErrOrderByNotFound)
	}
	out := make([]*expr.OrderBy, len(orders))
	for i, o := range orders {
		d := matchDeclared(left.Columns, o.Expression)
		if d == nil {
			return nil, fmt.Errorf("%w: %s", ErrOrderByNotFound, describe(o.Expression))
		}
		name := declaredName(d)
		if name == "" {
			return nil, fmt.Errorf("%w: %s has no name; declare it with As", ErrOrderByNotFound, describe(o.Expression))
		}
		out[i] = o.WithExpression(&expr.Column{Name: name, Type: d.SQLType()})
	}
	return out, nil
}

func matchDeclared(cols []*expr.ColumnDeclaring, e expr.Scalar) *expr.ColumnDeclaring {
	for _, d := range cols {
		if expr.Equal(e, d) || expr.Equal(e, d.Expression) {
			return d
		}
	}
	if c, ok := e.(*expr.Column); ok && c.Table == nil {
		for _, d := range cols {
			if declaredName(d) == c.Name {
				return d
			}
		}
	}
	return nil
}

func describe(e expr.Scalar) string {
	switch n := e.(type) {
	case *expr.Column:
		if n.Table != nil {
			return n.Table.Name + "." + n.Name
		}
		return n.Name
	case *expr.ColumnDeclaring:
		return n.DeclaredName
	}
	return fmt.Sprintf("%T", e)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
