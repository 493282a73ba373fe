// Package integration runs sqltree against real databases.
package integration

import (
	"context"
	"database/sql"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mariadb"
	"github.com/testcontainers/testcontainers-go/modules/mssql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container is a started database container and its connection string.
type Container struct {
	container testcontainers.Container
	connStr   string
}

// Shared containers - lazily initialized
var (
	sharedPg      *Container
	sharedMariaDB *Container
	sharedMSSQL   *Container

	pgOnce      sync.Once
	mariadbOnce sync.Once
	mssqlOnce   sync.Once
)

// TestMain terminates the containers the tests started.
func TestMain(m *testing.M) {
	// testing.Short() is unavailable until flags are parsed; tests check
	// short mode themselves.
	code := m.Run()

	ctx := context.Background()
	for _, c := range []*Container{sharedPg, sharedMariaDB, sharedMSSQL} {
		if c != nil && c.container != nil {
			_ = c.container.Terminate(ctx)
		}
	}

	os.Exit(code)
}

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// openDB opens driverName on the container and waits until it answers.
func (c *Container) openDB(t *testing.T, driverName string, attempts int) *sql.DB {
	t.Helper()
	db, err := sql.Open(driverName, c.connStr)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", driverName, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < attempts; i++ {
		if err = db.PingContext(t.Context()); err == nil {
			return db
		}
		time.Sleep(time.Second)
	}
	t.Fatalf("%s never became ready: %v", driverName, err)
	return nil
}

// startContainer runs start once and records the container under slot.
// Container failures end the test binary.
func startContainer(once *sync.Once, slot **Container, name string, start func(ctx context.Context) (testcontainers.Container, func(context.Context) (string, error), error)) *Container {
	once.Do(func() {
		ctx := context.Background()
		container, connStr, err := start(ctx)
		if err != nil {
			log.Fatalf("Failed to start %s container: %v", name, err)
		}
		dsn, err := connStr(ctx)
		if err != nil {
			log.Fatalf("Failed to get %s connection string: %v", name, err)
		}
		*slot = &Container{container: container, connStr: dsn}
	})
	return *slot
}

func getPostgresContainer(t *testing.T) *Container {
	t.Helper()
	return startContainer(&pgOnce, &sharedPg, "postgres", func(ctx context.Context) (testcontainers.Container, func(context.Context) (string, error), error) {
		c, err := postgres.Run(ctx,
			"docker.io/postgres:16-alpine",
			postgres.WithDatabase("sqltree_test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		if err != nil {
			return nil, nil, err
		}
		return c, func(ctx context.Context) (string, error) { return c.ConnectionString(ctx, "sslmode=disable") }, nil
	})
}

func getMariaDBContainer(t *testing.T) *Container {
	t.Helper()
	return startContainer(&mariadbOnce, &sharedMariaDB, "mariadb", func(ctx context.Context) (testcontainers.Container, func(context.Context) (string, error), error) {
		c, err := mariadb.Run(ctx,
			"docker.io/mariadb:11",
			mariadb.WithDatabase("sqltree_test"),
			mariadb.WithUsername("test"),
			mariadb.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("mariadbd: ready for connections").
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			return nil, nil, err
		}
		return c, func(ctx context.Context) (string, error) { return c.ConnectionString(ctx) }, nil
	})
}

func getMSSQLContainer(t *testing.T) *Container {
	t.Helper()
	return startContainer(&mssqlOnce, &sharedMSSQL, "mssql", func(ctx context.Context) (testcontainers.Container, func(context.Context) (string, error), error) {
		c, err := mssql.Run(ctx,
			"mcr.microsoft.com/mssql/server:2022-latest",
			mssql.WithAcceptEULA(),
			mssql.WithPassword("Test@12345"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("SQL Server is now ready for client connections").
					WithStartupTimeout(120*time.Second),
			),
		)
		if err != nil {
			return nil, nil, err
		}
		return c, func(ctx context.Context) (string, error) { return c.ConnectionString(ctx) }, nil
	})
}
