// Package postgres provides the PostgreSQL dialect for sqltree.
package postgres

import (
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/internal/render"
)

// Dialect renders PostgreSQL: numbered "$n" placeholders, LIMIT/OFFSET
// pagination and identifiers quoted the way pgx sanitizes them.
type Dialect struct{}

// New creates the PostgreSQL dialect.
func New() Dialect {
	return Dialect{}
}

// Name implements sqltree.Dialect.
func (Dialect) Name() string { return "postgres" }

// Identifiers implements sqltree.Dialect. Unquoted names fold to lower
// case, so mixed-case names are quoted.
func (Dialect) Identifiers() sqltree.Identifiers {
	return sqltree.Identifiers{
		Quoter:   quote,
		Casing:   sqltree.CaseLower,
		Keywords: keywords,
	}
}

// Capabilities implements sqltree.Dialect.
func (Dialect) Capabilities() sqltree.Capabilities {
	return sqltree.Capabilities{
		Pagination:    sqltree.PaginationLimitOffset,
		RightJoin:     true,
		MaxParameters: 65535,
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
	"ANALYSE", "ANALYZE", "ARRAY", "ASYMMETRIC", "BOTH", "COLLATE",
	"CONCURRENTLY", "DEFERRABLE", "DO", "FREEZE", "ILIKE", "INITIALLY",
	"ISNULL", "LATERAL", "LEADING", "LOCALTIME", "LOCALTIMESTAMP",
	"NOTNULL", "ONLY", "OVERLAPS", "PLACING", "RETURNING", "SIMILAR",
	"SYMMETRIC", "TABLESAMPLE", "TRAILING", "VARIADIC", "VERBOSE", "WINDOW",
).Keywords

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func paginate(f *sqltree.Formatter, _ bool, offset, limit *int) error {
	if limit != nil {
		f.Write("LIMIT ")
		f.WriteInt(*limit)
	}
	if offset != nil {
		if limit != nil {
			f.Write(" ")
		}
		f.Write("OFFSET ")
		f.WriteInt(*offset)
	}
	return nil
}
