package sqltree_test

import (
	"testing"

	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/sqltype"
	sqltesting "github.com/zoobzio/sqltree/testing"
)

func TestRegisterColumn_Duplicate(t *testing.T) {
	table := sqltree.NewBaseTable("accounts")
	_, err := sqltree.RegisterColumn(table, "id", sqltype.Long)
	sqltesting.AssertNoError(t, err)

	_, err = sqltree.RegisterColumn(table, "id", sqltype.Int)
	sqltesting.AssertErrorIs(t, err, sqltree.ErrDuplicateColumn)
	if len(table.Columns()) != 1 {
		t.Errorf("expected 1 column after failed registration, got %d", len(table.Columns()))
	}
}

func TestRegisterColumn_Frozen(t *testing.T) {
	table := sqltree.NewBaseTable("accounts")
	table.Freeze()
	_, err := sqltree.RegisterColumn(table, "id", sqltype.Long)
	sqltesting.AssertErrorIs(t, err, sqltree.ErrTableFrozen)
	sqltesting.AssertErrorIs(t, table.MarkPrimaryKey("id"), sqltree.ErrTableFrozen)
}

func TestColumns_RegistrationOrder(t *testing.T) {
	e := sqltesting.NewEmployees("")
	want := []string{"id", "name", "job", "manager_id", "hire_date", "salary", "department_id"}
	cols := e.Columns()
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, c := range cols {
		if c.Name() != want[i] {
			t.Errorf("column %d = %s, want %s", i, c.Name(), want[i])
		}
	}
	if got := e.HireDate.Binding(); len(got) != 1 || got[0] != "HireDate" {
		t.Errorf("HireDate binding = %v", got)
	}
}

func TestColumn_Lookup(t *testing.T) {
	e := sqltesting.NewEmployees("")
	ref, err := e.Column("salary")
	sqltesting.AssertNoError(t, err)
	if ref.Type().TypeName() != "bigint" {
		t.Errorf("salary type = %s", ref.Type().TypeName())
	}

	_, err = e.Column("bonus")
	sqltesting.AssertErrorIs(t, err, sqltree.ErrColumnNotFound)
}

func TestColumnOf(t *testing.T) {
	e := sqltesting.NewEmployees("e")
	salary, err := sqltree.ColumnOf[int64](e, "salary")
	sqltesting.AssertNoError(t, err)

	sql, _, err := sqltree.From(sqltree.NewConfig(), e).Select(salary).Format()
	sqltesting.AssertNoError(t, err)
	sqltesting.AssertSQL(t, "SELECT e.salary FROM employees e", sql)

	_, err = sqltree.ColumnOf[string](e, "salary")
	sqltesting.AssertErrorIs(t, err, sqltree.ErrColumnType)
}

func TestPrimaryKey(t *testing.T) {
	table := sqltree.NewBaseTable("memberships")
	sqltree.MustRegisterColumn(table, "user_id", sqltype.Long)
	sqltree.MustRegisterColumn(table, "group_id", sqltype.Long)

	_, err := table.SinglePrimaryKey()
	sqltesting.AssertErrorIs(t, err, sqltree.ErrNoPrimaryKey)

	sqltesting.AssertNoError(t, table.MarkPrimaryKey("user_id"))
	sqltesting.AssertNoError(t, table.MarkPrimaryKey("group_id"))
	_, err = table.SinglePrimaryKey()
	sqltesting.AssertErrorIs(t, err, sqltree.ErrCompoundPrimaryKey)

	if len(table.PrimaryKeys()) != 2 {
		t.Errorf("expected 2 primary key columns, got %d", len(table.PrimaryKeys()))
	}
	sqltesting.AssertErrorIs(t, table.MarkPrimaryKey("missing"), sqltree.ErrUnregisteredColumn)
}

func TestReferences(t *testing.T) {
	d := sqltesting.NewDepartments("")
	table := sqltree.NewBaseTable("employees")
	sqltree.MustRegisterColumn(table, "department_id", sqltype.Int)

	sqltesting.AssertNoError(t, table.RegisterReference("department_id", d))
	target, ok := table.Reference("department_id")
	if !ok || target.Name() != "departments" {
		t.Errorf("Reference = %v, %v", target, ok)
	}

	keyless := sqltree.NewBaseTable("logs")
	err := table.RegisterReference("department_id", keyless)
	sqltesting.AssertErrorIs(t, err, sqltree.ErrNoPrimaryKey)
}

func TestAliased(t *testing.T) {
	_, err := sqltree.NewBaseTable("plain").Aliased("p")
	sqltesting.AssertErrorIs(t, err, sqltree.ErrAliasNotSupported)

	dyn := sqltree.NewTable("events", sqltree.WithSchema("audit"))
	sqltree.MustRegisterColumn(dyn.BaseTable, "id", sqltype.Long)
	sqltesting.AssertNoError(t, dyn.MarkPrimaryKey("id"))
	dyn.Freeze()

	rel, err := dyn.Aliased("ev")
	sqltesting.AssertNoError(t, err)
	copied := rel.Base()
	if copied.Alias() != "ev" || copied.Schema() != "audit" || !copied.Frozen() {
		t.Errorf("aliased copy = %s (schema %q, frozen %v)", copied, copied.Schema(), copied.Frozen())
	}
	if !copied.SamePhysical(dyn.BaseTable) {
		t.Error("aliased copy should name the same physical table")
	}
	if len(copied.PrimaryKeys()) != 1 {
		t.Error("primary key should be copied")
	}
}

func TestCopyDefinitionsFrom_NotEmpty(t *testing.T) {
	src := sqltesting.NewDepartments("")
	dst := sqltree.NewBaseTable("departments")
	sqltree.MustRegisterColumn(dst, "id", sqltype.Int)

	sqltesting.AssertErrorIs(t, dst.CopyDefinitionsFrom(src.BaseTable), sqltree.ErrTableNotEmpty)
}

func TestTable_QualifiedName(t *testing.T) {
	table := sqltree.NewBaseTable("events", sqltree.WithCatalog("main"), sqltree.WithSchema("audit"), sqltree.WithAlias("ev"))
	id := sqltree.MustRegisterColumn(table, "id", sqltype.Long)

	sql, _, err := sqltree.From(sqltree.NewConfig(), table).Select(id).Format()
	sqltesting.AssertNoError(t, err)
	sqltesting.AssertSQL(t, "SELECT ev.id FROM main.audit.events ev", sql)
}
