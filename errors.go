package sqltree

import (
	"errors"

	"github.com/zoobzio/sqltree/internal/render"
)

// Table definition errors.
var (
	ErrDuplicateColumn    = errors.New("column already registered")
	ErrUnregisteredColumn = errors.New("column not registered on table")
	ErrTableNotEmpty      = errors.New("destination table already has columns")
	ErrTableFrozen        = errors.New("table definition is frozen")
	ErrAliasNotSupported  = errors.New("table does not support aliasing")
	ErrNoPrimaryKey       = errors.New("table has no primary key")
	ErrCompoundPrimaryKey = errors.New("table has a compound primary key")
	ErrColumnNotFound     = errors.New("column not found")
	ErrColumnType         = errors.New("column has a different type")
	ErrUnknownTable       = errors.New("table not found in schema")
)

// Query construction errors.
var (
	ErrUnsupportedClause = errors.New("clause is not supported on this query")
	ErrOrderByNotFound   = errors.New("order by expression matches no declared column")
	ErrAliasConflict     = errors.New("column belongs to a different table")
	ErrNoAssignments     = errors.New("statement has no assignments")
)

// Configuration errors.
var (
	ErrAmbiguousDialect = errors.New("more than one dialect available")
	ErrUnknownDialect   = errors.New("unknown dialect")
	ErrDuplicateDialect = errors.New("dialect already registered")
)

// Execution errors.
var (
	ErrHeterogeneousBatch = errors.New("batch statements differ in shape")
)

// UnsupportedFeatureError is returned when a dialect cannot render a
// construct, such as pagination on the ANSI dialect.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// ErrUnsupportedFeature matches any UnsupportedFeatureError.
var ErrUnsupportedFeature = render.ErrUnsupportedFeature
