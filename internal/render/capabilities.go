package render

// PaginationStyle is the syntax a dialect uses to page results.
type PaginationStyle int

const (
	PaginationNone        PaginationStyle = iota // no generic syntax
	PaginationLimitOffset                        // LIMIT n OFFSET m
	PaginationLimitComma                         // LIMIT m, n
	PaginationOffsetFetch                        // OFFSET m ROWS FETCH NEXT n ROWS ONLY
)

func (p PaginationStyle) String() string {
	switch p {
	case PaginationLimitOffset:
		return "LIMIT/OFFSET"
	case PaginationLimitComma:
		return "LIMIT offset, count"
	case PaginationOffsetFetch:
		return "OFFSET/FETCH"
	}
	return "none"
}

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	Pagination             PaginationStyle
	PaginationNeedsOrderBy bool // OFFSET/FETCH is only valid after ORDER BY
	RightJoin              bool // RIGHT JOIN
	Xor                    bool // XOR operator
	MaxParameters          int  // bound parameters per statement, 0 if unknown
}
