// Package sqlite provides the SQLite dialect for sqltree.
package sqlite

import (
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/internal/render"
)

// Dialect renders SQLite: "?" placeholders and LIMIT/OFFSET pagination.
type Dialect struct{}

// New creates the SQLite dialect.
func New() Dialect {
	return Dialect{}
}

// Name implements sqltree.Dialect.
func (Dialect) Name() string { return "sqlite" }

// Identifiers implements sqltree.Dialect.
func (Dialect) Identifiers() sqltree.Identifiers {
	return sqltree.Identifiers{
		Open:     `"`,
		Close:    `"`,
		Keywords: keywords,
	}
}

// Capabilities implements sqltree.Dialect.
func (Dialect) Capabilities() sqltree.Capabilities {
	return sqltree.Capabilities{
		Pagination:    sqltree.PaginationLimitOffset,
		RightJoin:     true,
		MaxParameters: 32766,
	}
}

// CreateFormatter implements sqltree.Dialect.
func (Dialect) CreateFormatter(cfg *sqltree.Config, pretty bool, indent int) *sqltree.Formatter {
	return sqltree.NewFormatter(cfg, pretty, indent,
		sqltree.WithPaginator(sqltree.PaginatorFunc(paginate)),
	)
}

var keywords = (render.Identifiers{Keywords: render.AnsiKeywords}).WithKeywords(
	"ABORT", "AUTOINCREMENT", "ATTACH", "DETACH", "GLOB", "INDEXED",
	"ISNULL", "NOTNULL", "PRAGMA", "RAISE", "REGEXP", "REINDEX", "VACUUM",
).Keywords

// paginate writes LIMIT/OFFSET. SQLite has no OFFSET without LIMIT, so a
// bare offset is written with LIMIT -1.
func paginate(f *sqltree.Formatter, _ bool, offset, limit *int) error {
	f.Write("LIMIT ")
	if limit != nil {
		f.WriteInt(*limit)
	} else {
		f.Write("-1")
	}
	if offset != nil {
		f.Write(" OFFSET ")
		f.WriteInt(*offset)
	}
	return nil
}
