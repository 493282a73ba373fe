package expr_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/sqltype"
)

func employeesTable(alias string) *expr.Table {
	return &expr.Table{Name: "employees", Alias: alias}
}

func sampleSelect() *expr.Select {
	e := employeesTable("e")
	d := &expr.Table{Name: "departments", Alias: "d"}
	salary := &expr.Column{Table: e, Name: "salary", Type: sqltype.Long}
	return &expr.Select{
		From: &expr.Join{
			Type:  expr.InnerJoin,
			Left:  e,
			Right: d,
			Condition: &expr.Binary{
				Op:    expr.Equals,
				Left:  &expr.Column{Table: d, Name: "id", Type: sqltype.Int},
				Right: &expr.Column{Table: e, Name: "department_id", Type: sqltype.Int},
				Type:  sqltype.Boolean,
			},
		},
		Columns: []*expr.ColumnDeclaring{
			{Expression: &expr.Column{Table: e, Name: "name", Type: sqltype.Varchar}},
		},
		Where: &expr.Binary{
			Op:    expr.GreaterThan,
			Left:  salary,
			Right: sqltype.Long.Bind(100),
			Type:  sqltype.Boolean,
		},
		OrderBy: []*expr.OrderBy{{Expression: salary, Order: expr.Descending}},
	}
}

func TestWalkIdentityPreserved(t *testing.T) {
	s := sampleSelect()
	out, err := expr.Walk(expr.RewriterFunc(func(e expr.Expression) (expr.Expression, error) {
		return e, nil
	}), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != expr.Expression(s) {
		t.Error("identity rewrite should return the same node")
	}
}

func TestWalkRebuildsOnlyChangedPath(t *testing.T) {
	s := sampleSelect()
	// Replace the bound argument only.
	out, err := expr.Walk(expr.RewriterFunc(func(e expr.Expression) (expr.Expression, error) {
		if a, ok := e.(*expr.Argument); ok {
			return sqltype.Long.Bind(a.Value.(int64) * 2), nil
		}
		return e, nil
	}), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.(*expr.Select)
	if got == s {
		t.Fatal("expected a new select")
	}
	if got.From != s.From {
		t.Error("FROM should be shared")
	}
	if &got.Columns[0] != &s.Columns[0] {
		t.Error("select list should be shared")
	}
	if got.Where == s.Where {
		t.Error("WHERE should be rebuilt")
	}
	arg := got.Where.(*expr.Binary).Right.(*expr.Argument)
	if arg.Value != int64(200) {
		t.Errorf("expected 200, got %v", arg.Value)
	}
	if s.Where.(*expr.Binary).Right.(*expr.Argument).Value != int64(100) {
		t.Error("original tree was modified")
	}
}

func TestWalkVisitsInArgumentOrder(t *testing.T) {
	s := sampleSelect().WithHaving(&expr.Binary{
		Op:    expr.LessThan,
		Left:  &expr.Aggregate{Func: expr.Count, Type: sqltype.Long},
		Right: sqltype.Long.Bind(5),
		Type:  sqltype.Boolean,
	})
	var seen []any
	_, err := expr.Walk(expr.RewriterFunc(func(e expr.Expression) (expr.Expression, error) {
		if a, ok := e.(*expr.Argument); ok {
			seen = append(seen, a.Value)
		}
		return e, nil
	}), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != int64(100) || seen[1] != int64(5) {
		t.Errorf("unexpected visit order: %v", seen)
	}
}

func TestWalkInvalidRewrite(t *testing.T) {
	s := sampleSelect()
	_, err := expr.Walk(expr.RewriterFunc(func(e expr.Expression) (expr.Expression, error) {
		if _, ok := e.(*expr.Argument); ok {
			return &expr.Table{Name: "oops"}, nil
		}
		return e, nil
	}), s)
	if !errors.Is(err, expr.ErrInvalidRewrite) {
		t.Errorf("expected ErrInvalidRewrite, got %v", err)
	}
}

func TestWalkPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := expr.Walk(expr.RewriterFunc(func(e expr.Expression) (expr.Expression, error) {
		if _, ok := e.(*expr.Column); ok {
			return nil, boom
		}
		return e, nil
	}), sampleSelect())
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

type skipQueries struct {
	rewritten int
}

func (s *skipQueries) Rewrite(e expr.Expression) (expr.Expression, error) {
	s.rewritten++
	return e, nil
}

func (s *skipQueries) Walk(e expr.Expression) expr.Rewriter {
	if _, ok := e.(*expr.InList); ok {
		return nil
	}
	return s
}

func TestWalkSkipsChildren(t *testing.T) {
	in := &expr.InList{
		Left:   &expr.Column{Name: "id", Type: sqltype.Int},
		Values: []expr.Scalar{sqltype.Int.Bind(1), sqltype.Int.Bind(2)},
		Type:   sqltype.Boolean,
	}
	r := &skipQueries{}
	if _, err := expr.Walk(r, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.rewritten != 1 {
		t.Errorf("expected only the InList to be rewritten, got %d calls", r.rewritten)
	}
}

func TestWalkStatements(t *testing.T) {
	tbl := employeesTable("e")
	upd := &expr.Update{
		Table: tbl,
		Assignments: []*expr.ColumnAssignment{
			{Column: &expr.Column{Table: tbl, Name: "salary", Type: sqltype.Long}, Expression: sqltype.Long.Bind(1)},
		},
		Where: &expr.Unary{Op: expr.IsNull, Operand: &expr.Column{Table: tbl, Name: "job", Type: sqltype.Varchar}, Type: sqltype.Boolean},
	}
	count := 0
	_, err := expr.Walk(expr.RewriterFunc(func(e expr.Expression) (expr.Expression, error) {
		if _, ok := e.(*expr.Table); ok {
			count++
		}
		return e, nil
	}), upd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Target plus the owner of each column reference.
	if count != 3 {
		t.Errorf("expected 3 table visits, got %d", count)
	}
}
