package sqltree

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/zoobzio/sqltree/expr"
)

// Execer runs statements. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier runs queries. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DB is the executor a Database runs on.
type DB interface {
	Execer
	Querier
}

// Formattable is anything that renders to SQL: queries, statement
// builders and already rendered Statements.
type Formattable interface {
	Format() (string, []*expr.Argument, error)
}

// Database runs rendered SQL on an executor supplied by the caller. It
// never opens or closes connections; transactions are the caller's.
type Database struct {
	cfg    *Config
	db     DB
	logger *slog.Logger
}

// NewDatabase binds cfg to db.
func NewDatabase(cfg *Config, db DB) *Database {
	return &Database{cfg: cfg, db: db, logger: cfg.Logger()}
}

// Config returns the configuration statements are rendered with.
func (d *Database) Config() *Config { return d.cfg }

// WithExecutor returns a Database running on db, such as a transaction.
func (d *Database) WithExecutor(db DB) *Database {
	return &Database{cfg: d.cfg, db: db, logger: d.logger}
}

// DriverArgs encodes arguments into driver values, in order.
func DriverArgs(args []*expr.Argument) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		if a.Type == nil {
			out[i] = a.Value
			continue
		}
		v, err := a.Type.Encode(a.Value)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func (d *Database) prepare(ctx context.Context, f Formattable) (string, []any, error) {
	query, args, err := f.Format()
	if err != nil {
		return "", nil, err
	}
	values, err := DriverArgs(args)
	if err != nil {
		return "", nil, err
	}
	d.logger.DebugContext(ctx, "executing sql",
		"dialect", d.cfg.Dialect().Name(),
		"sql", query,
		"args", len(values),
	)
	return query, values, nil
}

// Exec renders and executes a statement, returning the affected row count.
func (d *Database) Exec(ctx context.Context, stmt Formattable) (int64, error) {
	query, args, err := d.prepare(ctx, stmt)
	if err != nil {
		return 0, err
	}
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	return res.RowsAffected()
}

// Query renders and runs a query. The caller closes the rows.
func (d *Database) Query(ctx context.Context, q Formattable) (*sql.Rows, error) {
	query, args, err := d.prepare(ctx, q)
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// ExecBatch executes the statements of a batch in order and returns the
// affected row count of each. All statements must share the same SQL text;
// a batch that does not fails with ErrHeterogeneousBatch before anything
// runs.
func (d *Database) ExecBatch(ctx context.Context, stmts []Statement) ([]int64, error) {
	for i := 1; i < len(stmts); i++ {
		if stmts[i].SQL != stmts[0].SQL {
			return nil, fmt.Errorf("%w: item %d renders %q, item 0 renders %q",
				ErrHeterogeneousBatch, i, stmts[i].SQL, stmts[0].SQL)
		}
	}
	counts := make([]int64, len(stmts))
	for i, s := range stmts {
		n, err := d.Exec(ctx, s)
		if err != nil {
			return counts[:i], fmt.Errorf("batch item %d: %w", i, err)
		}
		counts[i] = n
	}
	d.logger.DebugContext(ctx, "batch executed", "statements", len(stmts))
	return counts, nil
}
