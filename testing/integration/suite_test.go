package integration

import (
	"database/sql"
	"testing"
	"time"

	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/sqltype"
	sqltesting "github.com/zoobzio/sqltree/testing"
)

// resetFixtures drops and recreates the fixture tables, then seeds them.
func resetFixtures(t *testing.T, cfg *sqltree.Config, db *sql.DB) *sqltree.Database {
	t.Helper()
	ctx := t.Context()
	for _, stmt := range []string{"DROP TABLE IF EXISTS employees", "DROP TABLE IF EXISTS departments"} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, stmt)
		}
	}
	for _, stmt := range sqltesting.DDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, stmt)
		}
	}
	database := sqltree.NewDatabase(cfg, db)
	sqltesting.Seed(t, cfg, database)
	return database
}

// names runs q and collects its first column as strings.
func names(t *testing.T, db *sqltree.Database, q sqltree.Query) []string {
	t.Helper()
	rows, err := db.Query(t.Context(), q)
	sqltesting.AssertNoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		sqltesting.AssertNoError(t, rows.Scan(&s))
		out = append(out, s)
	}
	sqltesting.AssertNoError(t, rows.Err())
	return out
}

// pairs runs q and collects its first two columns as strings.
func pairs(t *testing.T, db *sqltree.Database, q sqltree.Query) [][2]string {
	t.Helper()
	rows, err := db.Query(t.Context(), q)
	sqltesting.AssertNoError(t, err)
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var p [2]string
		sqltesting.AssertNoError(t, rows.Scan(&p[0], &p[1]))
		out = append(out, p)
	}
	sqltesting.AssertNoError(t, rows.Err())
	return out
}

func count(t *testing.T, db *sqltree.Database, q sqltree.Query) int64 {
	t.Helper()
	rows, err := db.Query(t.Context(), q.CountQuery())
	sqltesting.AssertNoError(t, err)
	defer rows.Close()

	var n int64
	if !rows.Next() {
		t.Fatal("count query returned no rows")
	}
	sqltesting.AssertNoError(t, rows.Scan(&n))
	return n
}

func assertStrings(t *testing.T, expected, actual []string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("row %d: expected %q, got %q", i, expected[i], actual[i])
		}
	}
}

// runSuite exercises queries and statements against a live database. The
// subtests share the seeded rows and run in order.
func runSuite(t *testing.T, cfg *sqltree.Config, sqlDB *sql.DB) {
	t.Helper()
	db := resetFixtures(t, cfg, sqlDB)
	e := sqltesting.NewEmployees("e")
	d := sqltesting.NewDepartments("d")

	t.Run("Where", func(t *testing.T) {
		q := sqltree.From(cfg, e).
			Select(e.Name).
			Where(sqltree.Ge(e.Salary, 100)).
			OrderBy(sqltree.Asc(e.Name))
		assertStrings(t, []string{"penny", "tom", "vince"}, names(t, db, q))
	})

	t.Run("In", func(t *testing.T) {
		q := sqltree.From(cfg, e).
			Select(e.Name).
			WhereAny(sqltree.In(e.Job, "engineer", "trainee"), sqltree.Eq(e.ID, 4)).
			OrderBy(sqltree.Desc(e.Name))
		assertStrings(t, []string{"vince", "penny", "marry"}, names(t, db, q))
	})

	t.Run("EmptyIn", func(t *testing.T) {
		q := sqltree.From(cfg, e).Select(e.Name).Where(sqltree.In(e.Job))
		if n := count(t, db, q); n != 0 {
			t.Errorf("expected 0 rows, got %d", n)
		}
		q = sqltree.From(cfg, e).Select(e.Name).Where(sqltree.NotIn(e.Job))
		if n := count(t, db, q); n != 4 {
			t.Errorf("expected 4 rows, got %d", n)
		}
	})

	t.Run("SelfJoin", func(t *testing.T) {
		m := sqltesting.NewEmployees("m")
		q := sqltree.From(cfg, e).
			InnerJoin(m, sqltree.EqCol(e.ManagerID, m.ID)).
			Select(e.Name, sqltree.As(m.Name, "manager")).
			OrderBy(sqltree.Asc(e.Name))
		got := pairs(t, db, q)
		want := [][2]string{{"marry", "vince"}, {"penny", "tom"}}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("InSubquery", func(t *testing.T) {
		beijing := sqltree.From(cfg, d).Select(d.ID).Where(sqltree.Eq(d.Location, "Beijing"))
		q := sqltree.From(cfg, e).
			Select(e.Name).
			Where(sqltree.InQuery(e.DepartmentID, beijing)).
			OrderBy(sqltree.Asc(e.Name))
		assertStrings(t, []string{"penny", "tom"}, names(t, db, q))
	})

	t.Run("GroupByHaving", func(t *testing.T) {
		total := sqltree.Sum(e.Salary)
		q := sqltree.From(cfg, e).
			Select(e.DepartmentID, sqltree.As(total, "total")).
			GroupBy(e.DepartmentID).
			Having(sqltree.Ge(total, int64(200))).
			OrderBy(sqltree.Asc(e.DepartmentID))
		got := pairs(t, db, q)
		if len(got) != 1 || got[0] != [2]string{"2", "300"} {
			t.Errorf("expected [[2 300]], got %v", got)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		q := sqltree.From(cfg, e).
			Select(e.Name).
			OrderBy(sqltree.Asc(e.ID)).
			Limit(2).
			Offset(1)
		assertStrings(t, []string{"marry", "tom"}, names(t, db, q))
	})

	t.Run("Union", func(t *testing.T) {
		engineers := sqltree.From(cfg, e).Select(sqltree.As(e.Name, "label")).Where(sqltree.Eq(e.Job, "engineer"))
		locations := sqltree.From(cfg, d).Select(sqltree.As(d.Location, "label"))
		q := engineers.Union(locations).OrderBy(sqltree.Asc(sqltree.Ref("label")))
		assertStrings(t, []string{"Beijing", "Guangzhou", "vince"}, names(t, db, q))
	})

	t.Run("CountQuery", func(t *testing.T) {
		q := sqltree.From(cfg, e).Select().Where(sqltree.Eq(e.DepartmentID, 1)).OrderBy(sqltree.Asc(e.ID))
		if n := count(t, db, q); n != 2 {
			t.Errorf("expected 2 rows, got %d", n)
		}
	})

	t.Run("Decode", func(t *testing.T) {
		q := sqltree.From(cfg, e).Select(e.HireDate, e.Salary).Where(sqltree.Eq(e.Name, "tom"))
		rows, err := db.Query(t.Context(), q)
		sqltesting.AssertNoError(t, err)
		defer rows.Close()
		if !rows.Next() {
			t.Fatal("expected a row")
		}
		var rawDate, rawSalary any
		sqltesting.AssertNoError(t, rows.Scan(&rawDate, &rawSalary))

		hired, err := e.HireDate.Decode(rawDate)
		sqltesting.AssertNoError(t, err)
		if y, m, day := hired.Date(); y != 2018 || m != time.January || day != 1 {
			t.Errorf("hire date = %v", hired)
		}
		salary, err := e.Salary.Decode(rawSalary)
		sqltesting.AssertNoError(t, err)
		if salary != 200 {
			t.Errorf("salary = %d, want 200", salary)
		}
	})

	t.Run("Update", func(t *testing.T) {
		raise := sqltree.UpdateTable(cfg, e).
			Set(sqltree.AssignExpr(e.Salary, sqltree.Plus(e.Salary, sqltree.Bind(sqltype.Long, 10)))).
			Where(sqltree.Eq(e.DepartmentID, 2))
		n, err := db.Exec(t.Context(), raise)
		sqltesting.AssertNoError(t, err)
		if n != 2 {
			t.Errorf("expected 2 rows affected, got %d", n)
		}

		q := sqltree.From(cfg, e).Select(e.Name).Where(sqltree.Gt(e.Salary, 200))
		assertStrings(t, []string{"tom"}, names(t, db, q))
	})

	t.Run("BatchUpdate", func(t *testing.T) {
		batch := sqltree.BatchUpdateTable(cfg, e)
		for _, id := range []int{2, 4} {
			batch = batch.Item(func(b sqltree.UpdateBuilder) sqltree.UpdateBuilder {
				return b.Set(sqltree.Assign(e.Job, "engineer")).Where(sqltree.Eq(e.ID, id))
			})
		}
		stmts, err := batch.Format()
		sqltesting.AssertNoError(t, err)
		counts, err := db.ExecBatch(t.Context(), stmts)
		sqltesting.AssertNoError(t, err)
		if len(counts) != 2 || counts[0] != 1 || counts[1] != 1 {
			t.Errorf("expected [1 1], got %v", counts)
		}

		q := sqltree.From(cfg, e).Select(e.Name).Where(sqltree.Eq(e.Job, "engineer"))
		if n := count(t, db, q); n != 3 {
			t.Errorf("expected 3 engineers, got %d", n)
		}
	})

	t.Run("Rollback", func(t *testing.T) {
		tx, err := sqlDB.BeginTx(t.Context(), nil)
		sqltesting.AssertNoError(t, err)
		n, err := db.WithExecutor(tx).Exec(t.Context(), sqltree.DeleteFrom(cfg, e))
		sqltesting.AssertNoError(t, err)
		if n != 4 {
			t.Errorf("expected 4 rows deleted in transaction, got %d", n)
		}
		sqltesting.AssertNoError(t, tx.Rollback())

		if n := count(t, db, sqltree.From(cfg, e).Select()); n != 4 {
			t.Errorf("expected rollback to keep 4 rows, got %d", n)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		n, err := db.Exec(t.Context(), sqltree.DeleteFrom(cfg, e).Where(sqltree.IsNull(e.ManagerID)))
		sqltesting.AssertNoError(t, err)
		if n != 2 {
			t.Errorf("expected 2 rows deleted, got %d", n)
		}
		if n := count(t, db, sqltree.From(cfg, e).Select()); n != 2 {
			t.Errorf("expected 2 rows left, got %d", n)
		}
	})
}
