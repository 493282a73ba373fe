// Package mssql provides the SQL Server dialect for sqltree.
package mssql

import (
	"strconv"

	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/internal/render"
)

// Dialect renders SQL Server: "@pN" placeholders, bracket quoting and
// OFFSET/FETCH pagination, which requires ORDER BY.
type Dialect struct{}

// New creates the SQL Server dialect.
func New() Dialect {
	return Dialect{}
}

// Name implements sqltree.Dialect.
func (Dialect) Name() string { return "mssql" }

// Identifiers implements sqltree.Dialect.
func (Dialect) Identifiers() sqltree.Identifiers {
	return sqltree.Identifiers{
		Open:     "[",
		Close:    "]",
		Keywords: keywords,
	}
}

// Capabilities implements sqltree.Dialect.
func (Dialect) Capabilities() sqltree.Capabilities {
	return sqltree.Capabilities{
		Pagination:             sqltree.PaginationOffsetFetch,
		PaginationNeedsOrderBy: true,
		RightJoin:              true,
		MaxParameters:          2100,
	}
}

// CreateFormatter implements sqltree.Dialect.
func (Dialect) CreateFormatter(cfg *sqltree.Config, pretty bool, indent int) *sqltree.Formatter {
	return sqltree.NewFormatter(cfg, pretty, indent,
		sqltree.WithPlaceholder(placeholder),
		sqltree.WithPaginator(sqltree.PaginatorFunc(paginate)),
	)
}

var keywords = (render.Identifiers{Keywords: render.AnsiKeywords}).WithKeywords(
	"BACKUP", "BREAK", "BROWSE", "BULK", "CHECKPOINT", "CLUSTERED",
	"COMPUTE", "CONTAINS", "DATABASE", "DBCC", "DENY", "DUMP", "ERRLVL",
	"EXEC", "EXECUTE", "FILE", "FILLFACTOR", "FREETEXT", "GOTO", "HOLDLOCK",
	"IDENTITY", "IDENTITYCOL", "KILL", "LINENO", "MERGE", "NOCHECK",
	"NONCLUSTERED", "OPENQUERY", "PERCENT", "PIVOT", "PRINT", "PROC",
	"RAISERROR", "READTEXT", "RECONFIGURE", "REPLICATION", "RESTORE",
	"REVERT", "ROWCOUNT", "RULE", "SAVE", "SETUSER", "SHUTDOWN",
	"STATISTICS", "TEXTSIZE", "TOP", "TRAN", "TRANSACTION", "TRUNCATE",
	"TSEQUAL", "UNPIVOT", "UPDATETEXT", "WAITFOR", "WRITETEXT",
).Keywords

func placeholder(n int) string {
	return "@p" + strconv.Itoa(n)
}

// paginate relies on the formatter rejecting OFFSET/FETCH without ORDER BY.
func paginate(f *sqltree.Formatter, _ bool, offset, limit *int) error {
	f.Write("OFFSET ")
	if offset != nil {
		f.WriteInt(*offset)
	} else {
		f.Write("0")
	}
	f.Write(" ROWS")
	if limit != nil {
		f.Write(" FETCH NEXT ")
		f.WriteInt(*limit)
		f.Write(" ROWS ONLY")
	}
	return nil
}
