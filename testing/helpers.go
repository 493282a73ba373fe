// Package testing provides fixtures and assertions for sqltree tests.
package testing

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/sqltype"
)

// Employees is the employees fixture table.
type Employees struct {
	*sqltree.BaseTable
	ID           sqltree.Column[int]
	Name         sqltree.Column[string]
	Job          sqltree.Column[string]
	ManagerID    sqltree.Column[int]
	HireDate     sqltree.Column[time.Time]
	Salary       sqltree.Column[int64]
	DepartmentID sqltree.Column[int]
}

// NewEmployees creates the employees table, aliased if alias is not empty.
func NewEmployees(alias string) *Employees {
	t := sqltree.NewBaseTable("employees", sqltree.WithAlias(alias))
	e := &Employees{
		BaseTable:    t,
		ID:           sqltree.MustRegisterColumn(t, "id", sqltype.Int, "ID"),
		Name:         sqltree.MustRegisterColumn(t, "name", sqltype.Varchar, "Name"),
		Job:          sqltree.MustRegisterColumn(t, "job", sqltype.Varchar, "Job"),
		ManagerID:    sqltree.MustRegisterColumn(t, "manager_id", sqltype.Int, "Manager", "ID"),
		HireDate:     sqltree.MustRegisterColumn(t, "hire_date", sqltype.Date, "HireDate"),
		Salary:       sqltree.MustRegisterColumn(t, "salary", sqltype.Long, "Salary"),
		DepartmentID: sqltree.MustRegisterColumn(t, "department_id", sqltype.Int, "Department", "ID"),
	}
	if err := t.MarkPrimaryKey("id"); err != nil {
		panic(err)
	}
	t.Freeze()
	return e
}

// Aliased implements sqltree.Relation.
func (e *Employees) Aliased(alias string) (sqltree.Relation, error) {
	return NewEmployees(alias), nil
}

// Departments is the departments fixture table.
type Departments struct {
	*sqltree.BaseTable
	ID       sqltree.Column[int]
	Name     sqltree.Column[string]
	Location sqltree.Column[string]
}

// NewDepartments creates the departments table, aliased if alias is not
// empty.
func NewDepartments(alias string) *Departments {
	t := sqltree.NewBaseTable("departments", sqltree.WithAlias(alias))
	d := &Departments{
		BaseTable: t,
		ID:        sqltree.MustRegisterColumn(t, "id", sqltype.Int, "ID"),
		Name:      sqltree.MustRegisterColumn(t, "name", sqltype.Varchar, "Name"),
		Location:  sqltree.MustRegisterColumn(t, "location", sqltype.Varchar, "Location"),
	}
	if err := t.MarkPrimaryKey("id"); err != nil {
		panic(err)
	}
	t.Freeze()
	return d
}

// Aliased implements sqltree.Relation.
func (d *Departments) Aliased(alias string) (sqltree.Relation, error) {
	return NewDepartments(alias), nil
}

// Project returns the fixture tables as a DBML project.
func Project() *dbml.Project {
	project := dbml.NewProject("company")

	departments := dbml.NewTable("departments")
	departments.AddColumn(dbml.NewColumn("id", "int"))
	departments.AddColumn(dbml.NewColumn("name", "varchar(128)"))
	departments.AddColumn(dbml.NewColumn("location", "varchar(128)"))
	project.AddTable(departments)

	employees := dbml.NewTable("employees")
	employees.AddColumn(dbml.NewColumn("id", "int"))
	employees.AddColumn(dbml.NewColumn("name", "varchar(128)"))
	employees.AddColumn(dbml.NewColumn("job", "varchar(128)"))
	employees.AddColumn(dbml.NewColumn("manager_id", "int"))
	employees.AddColumn(dbml.NewColumn("hire_date", "date"))
	employees.AddColumn(dbml.NewColumn("salary", "bigint"))
	employees.AddColumn(dbml.NewColumn("department_id", "int"))
	project.AddTable(employees)

	return project
}

// DDL creates the fixture tables. It is portable across the supported
// engines.
var DDL = []string{
	`CREATE TABLE departments (
		id INT NOT NULL PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		location VARCHAR(128) NOT NULL
	)`,
	`CREATE TABLE employees (
		id INT NOT NULL PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		job VARCHAR(128) NOT NULL,
		manager_id INT NULL,
		hire_date DATE NOT NULL,
		salary BIGINT NOT NULL,
		department_id INT NOT NULL
	)`,
}

// Seed inserts two departments and four employees.
func Seed(t *testing.T, cfg *sqltree.Config, db *sqltree.Database) {
	t.Helper()
	ctx := t.Context()
	d := NewDepartments("")
	e := NewEmployees("")

	depts := sqltree.BatchInsertInto(cfg, d)
	for _, row := range []struct {
		id             int
		name, location string
	}{{1, "tech", "Guangzhou"}, {2, "finance", "Beijing"}} {
		depts = depts.Item(func(b sqltree.InsertBuilder) sqltree.InsertBuilder {
			return b.Set(sqltree.Assign(d.ID, row.id), sqltree.Assign(d.Name, row.name), sqltree.Assign(d.Location, row.location))
		})
	}
	stmts, err := depts.Format()
	AssertNoError(t, err)
	_, err = db.ExecBatch(ctx, stmts)
	AssertNoError(t, err)

	hired := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	emps := sqltree.BatchInsertInto(cfg, e)
	for _, row := range []struct {
		id      int
		name    string
		job     string
		manager int
		salary  int64
		dept    int
	}{
		{1, "vince", "engineer", 0, 100, 1},
		{2, "marry", "trainee", 1, 50, 1},
		{3, "tom", "director", 0, 200, 2},
		{4, "penny", "assistant", 3, 100, 2},
	} {
		emps = emps.Item(func(b sqltree.InsertBuilder) sqltree.InsertBuilder {
			manager := sqltree.Assign(e.ManagerID, row.manager)
			if row.manager == 0 {
				manager = sqltree.AssignNull(e.ManagerID)
			}
			return b.Set(
				sqltree.Assign(e.ID, row.id),
				sqltree.Assign(e.Name, row.name),
				sqltree.Assign(e.Job, row.job),
				manager,
				sqltree.Assign(e.HireDate, hired),
				sqltree.Assign(e.Salary, row.salary),
				sqltree.Assign(e.DepartmentID, row.dept),
			)
		})
	}
	stmts, err = emps.Format()
	AssertNoError(t, err)
	_, err = db.ExecBatch(ctx, stmts)
	AssertNoError(t, err)
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertArgs checks the bound argument values, in order.
func AssertArgs(t *testing.T, expected []any, actual []*expr.Argument) {
	t.Helper()
	values := make([]any, len(actual))
	for i, a := range actual {
		values[i] = a.Value
	}
	if len(expected) == 0 && len(values) == 0 {
		return
	}
	if !reflect.DeepEqual(expected, values) {
		t.Errorf("Argument mismatch:\nExpected: %#v\nActual:   %#v", expected, values)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorIs checks that err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("Expected error wrapping %v, got: %v", target, err)
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics checks that fn panics with an error wrapping target.
func AssertPanics(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Error("Expected panic but function completed normally")
			return
		}
		err, ok := r.(error)
		if !ok {
			t.Errorf("Expected panic with error, got %v", r)
			return
		}
		if target != nil && !errors.Is(err, target) {
			t.Errorf("Expected panic wrapping %v, got: %v", target, err)
		}
	}()
	fn()
}
