package postgres

import (
	"errors"
	"testing"

	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/sqltype"
	sqltesting "github.com/zoobzio/sqltree/testing"
)

func config(opts ...sqltree.Option) *sqltree.Config {
	return sqltree.NewConfig(append([]sqltree.Option{sqltree.WithDialect(New())}, opts...)...)
}

func TestNew(t *testing.T) {
	d := New()
	if d.Name() != "postgres" {
		t.Errorf("Name() = %q, want postgres", d.Name())
	}
	if d.Capabilities().Pagination != sqltree.PaginationLimitOffset {
		t.Errorf("Pagination = %s", d.Capabilities().Pagination)
	}
	if d.Capabilities().Xor {
		t.Error("postgres has no XOR operator")
	}
}

func TestRender_SelectWithWhere(t *testing.T) {
	e := sqltesting.NewEmployees("e")
	q := sqltree.From(config(), e).
		Select(e.ID, e.Name).
		Where(sqltree.Gt(e.Salary, 100)).
		Where(sqltree.Eq(e.Job, "engineer"))

	sql, args, err := q.Format()
	sqltesting.AssertNoError(t, err)
	sqltesting.AssertSQL(t, "SELECT e.id, e.name FROM employees e WHERE (e.salary > $1) AND (e.job = $2)", sql)
	sqltesting.AssertArgs(t, []any{int64(100), "engineer"}, args)
}

func TestRender_Pagination(t *testing.T) {
	e := sqltesting.NewEmployees("")
	q := sqltree.From(config(), e).
		Select(e.Name).
		Where(sqltree.Eq(e.DepartmentID, 1)).
		OrderBy(sqltree.Desc(e.Salary)).
		Limit(10).
		Offset(20)

	sql, args, err := q.Format()
	sqltesting.AssertNoError(t, err)
	expected := "SELECT employees.name FROM employees WHERE employees.department_id = $1 ORDER BY employees.salary DESC LIMIT $2 OFFSET $3"
	sqltesting.AssertSQL(t, expected, sql)
	sqltesting.AssertArgs(t, []any{1, 10, 20}, args)
}

func TestRender_OffsetOnly(t *testing.T) {
	e := sqltesting.NewEmployees("")
	sql, _, err := sqltree.From(config(), e).Select(e.ID).Offset(5).Format()
	sqltesting.AssertNoError(t, err)
	sqltesting.AssertSQL(t, "SELECT employees.id FROM employees OFFSET $1", sql)
}

func TestRender_Quoting(t *testing.T) {
	table := sqltree.NewBaseTable("Audit Log")
	user := sqltree.MustRegisterColumn(table, "user", sqltype.Varchar)
	camel := sqltree.MustRegisterColumn(table, "createdAt", sqltype.Varchar)

	sql, _, err := sqltree.From(config(), table).Select(user, camel).Format()
	sqltesting.AssertNoError(t, err)
	sqltesting.AssertSQL(t, `SELECT "Audit Log"."user", "Audit Log"."createdAt" FROM "Audit Log"`, sql)
}

func TestRender_Xor(t *testing.T) {
	e := sqltesting.NewEmployees("")
	cond := sqltree.Cmp(sqltree.Gt(e.Salary, 10), expr.Xor, sqltree.Gt(e.Salary, 20))
	_, _, err := sqltree.From(config(), e).Select(e.ID).Where(cond).Format()

	var unsupported sqltree.UnsupportedFeatureError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
	if unsupported.Dialect != "postgres" {
		t.Errorf("Dialect = %q, want postgres", unsupported.Dialect)
	}
}

func TestRender_Update(t *testing.T) {
	e := sqltesting.NewEmployees("e")
	sql, args, err := sqltree.UpdateTable(config(), e).
		Set(sqltree.Assign(e.Job, "engineer"), sqltree.AssignExpr(e.Salary, sqltree.Plus(e.Salary, sqltree.Bind(e.Salary.SQLType(), 10)))).
		Where(sqltree.Eq(e.ID, 2)).
		Format()
	sqltesting.AssertNoError(t, err)
	sqltesting.AssertSQL(t, "UPDATE employees SET job = $1, salary = salary + $2 WHERE id = $3", sql)
	sqltesting.AssertArgs(t, []any{"engineer", int64(10), 2}, args)
}
