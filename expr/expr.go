// Package expr defines the immutable SQL expression tree.
//
// The set of node types is closed: every node implements Expression through
// an unexported method, so only this package can add variants. Formatters and
// visitors switch over the concrete types exhaustively.
//
// Nodes are never modified after construction. Methods named WithX return a
// copy with one field replaced, which lets rewrites share every subtree they
// do not touch.
package expr

import "database/sql/driver"

// TypeCode identifies the wire type of a value.
type TypeCode string

// Type describes how a value travels to and from the database.
// It is implemented by sqltype.SqlType.
type Type interface {
	TypeName() string
	TypeCode() TypeCode
	Encode(v any) (driver.Value, error)
	Decode(src any) (any, error)
	Parse(text string) (any, error)
}

// Expression is any node of the tree.
type Expression interface {
	node()
}

// Scalar is an expression producing a single typed value.
type Scalar interface {
	Expression
	SQLType() Type
}

// Source is an expression that can appear in a FROM clause.
type Source interface {
	Expression
	source()
}

// Query is a SELECT or a UNION.
type Query interface {
	Source
	query()
	// Ordering returns the ORDER BY items of the query.
	Ordering() []*OrderBy
	// Pagination returns the OFFSET and LIMIT values; nil means unset.
	Pagination() (offset, limit *int)
	// Alias returns the derived-table alias, if any.
	Alias() string
}

// Statement is a data-modification statement.
type Statement interface {
	Expression
	statement()
	// Target returns the modified table.
	Target() *Table
}

// BinaryType is a binary operator.
type BinaryType string

// Binary operators.
const (
	Plus         BinaryType = "+"
	Minus        BinaryType = "-"
	Times        BinaryType = "*"
	Div          BinaryType = "/"
	Rem          BinaryType = "%"
	Like         BinaryType = "LIKE"
	NotLike      BinaryType = "NOT LIKE"
	And          BinaryType = "AND"
	Or           BinaryType = "OR"
	Xor          BinaryType = "XOR"
	LessThan     BinaryType = "<"
	LessEqual    BinaryType = "<="
	GreaterThan  BinaryType = ">"
	GreaterEqual BinaryType = ">="
	Equals       BinaryType = "="
	NotEquals    BinaryType = "<>"
)

// UnaryType is a unary operator.
type UnaryType string

// Unary operators.
const (
	IsNull        UnaryType = "IS NULL"
	IsNotNull     UnaryType = "IS NOT NULL"
	UnaryMinus    UnaryType = "-"
	UnaryPlus     UnaryType = "+"
	Not           UnaryType = "NOT"
	Parenthesized UnaryType = "()"
)

// JoinType is the kind of a join.
type JoinType string

// Join kinds.
const (
	CrossJoin JoinType = "CROSS JOIN"
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	RightJoin JoinType = "RIGHT JOIN"
)

// OrderType is a sort direction.
type OrderType string

// Sort directions.
const (
	Ascending  OrderType = "ASC"
	Descending OrderType = "DESC"
)

// AggregateType is an aggregate function.
type AggregateType string

// Aggregate functions.
const (
	Count AggregateType = "COUNT"
	Sum   AggregateType = "SUM"
	Avg   AggregateType = "AVG"
	Min   AggregateType = "MIN"
	Max   AggregateType = "MAX"
)
