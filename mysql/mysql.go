// Package mysql provides the MySQL and MariaDB dialect for sqltree.
package mysql

import (
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/internal/render"
)

// maxRows is the documented way to ask MySQL for "all remaining rows".
const maxRows = "18446744073709551615"

// Dialect renders MySQL: "?" placeholders, backtick quoting and
// "LIMIT offset, count" pagination.
type Dialect struct{}

// New creates the MySQL dialect.
func New() Dialect {
	return Dialect{}
}

// Name implements sqltree.Dialect.
func (Dialect) Name() string { return "mysql" }

// Identifiers implements sqltree.Dialect.
func (Dialect) Identifiers() sqltree.Identifiers {
	return sqltree.Identifiers{
		Open:     "`",
		Close:    "`",
		Keywords: keywords,
	}
}

// Capabilities implements sqltree.Dialect.
func (Dialect) Capabilities() sqltree.Capabilities {
	return sqltree.Capabilities{
		Pagination:    sqltree.PaginationLimitComma,
		RightJoin:     true,
		Xor:           true,
		MaxParameters: 65535,
	}
}

// CreateFormatter implements sqltree.Dialect.
func (Dialect) CreateFormatter(cfg *sqltree.Config, pretty bool, indent int) *sqltree.Formatter {
	return sqltree.NewFormatter(cfg, pretty, indent,
		sqltree.WithPaginator(sqltree.PaginatorFunc(paginate)),
	)
}

var keywords = (render.Identifiers{Keywords: render.AnsiKeywords}).WithKeywords(
	"ACCESSIBLE", "ANALYZE", "BEFORE", "BOTH", "CHANGE", "DATABASE",
	"DATABASES", "DELAYED", "DIV", "DUAL", "ENCLOSED", "ESCAPED", "EXPLAIN",
	"FORCE", "HIGH_PRIORITY", "IGNORE", "INDEX", "INTERVAL", "KEY", "KEYS",
	"KILL", "LOW_PRIORITY", "MOD", "OPTIMIZE", "PURGE", "RANGE", "READ",
	"REGEXP", "RENAME", "REPLACE", "REQUIRE", "RLIKE", "SCHEMA", "SHOW",
	"SPATIAL", "STRAIGHT_JOIN", "TERMINATED", "UNLOCK", "UNSIGNED", "USE",
	"XOR", "ZEROFILL",
).Keywords

func paginate(f *sqltree.Formatter, _ bool, offset, limit *int) error {
	f.Write("LIMIT ")
	if offset != nil {
		f.WriteInt(*offset)
		f.Write(", ")
	}
	if limit != nil {
		f.WriteInt(*limit)
	} else {
		f.Write(maxRows)
	}
	return nil
}
