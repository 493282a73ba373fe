package cli

import (
	"fmt"
	"strings"

	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/expr"
)

// operators in match order; longer operators first so "<=" is not read
// as "<".
var operators = []struct {
	token string
	op    expr.BinaryType
}{
	{"<>", expr.NotEquals},
	{"!=", expr.NotEquals},
	{">=", expr.GreaterEqual},
	{"<=", expr.LessEqual},
	{"=", expr.Equals},
	{">", expr.GreaterThan},
	{"<", expr.LessThan},
	{"~", expr.Like},
}

// ParseCondition reads a filter such as "salary>=100", "name~v%" or
// "manager_id is null". The value is parsed with the column's type.
func ParseCondition(rel sqltree.Relation, filter string) (sqltree.Expr[bool], error) {
	text := strings.TrimSpace(filter)
	lower := strings.ToLower(text)
	for suffix, build := range map[string]func(sqltree.Operand) sqltree.Expr[bool]{
		" is not null": sqltree.IsNotNull,
		" is null":     sqltree.IsNull,
	} {
		if strings.HasSuffix(lower, suffix) {
			col, err := rel.Base().Column(strings.TrimSpace(text[:len(text)-len(suffix)]))
			if err != nil {
				return sqltree.Expr[bool]{}, err
			}
			return build(col), nil
		}
	}

	for _, o := range operators {
		i := strings.Index(text, o.token)
		if i <= 0 {
			continue
		}
		col, err := rel.Base().Column(strings.TrimSpace(text[:i]))
		if err != nil {
			return sqltree.Expr[bool]{}, err
		}
		raw := strings.TrimSpace(text[i+len(o.token):])
		value, err := col.Type().Parse(raw)
		if err != nil {
			return sqltree.Expr[bool]{}, fmt.Errorf("filter %q: %w", filter, err)
		}
		return col.Compare(o.op, value), nil
	}
	return sqltree.Expr[bool]{}, fmt.Errorf("filter %q: expected column, operator and value", filter)
}

// ParseOrder reads an ordering such as "salary" or "salary:desc".
func ParseOrder(rel sqltree.Relation, order string) (*expr.OrderBy, error) {
	name, dir, _ := strings.Cut(order, ":")
	col, err := rel.Base().Column(strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return sqltree.Asc(col), nil
	case "desc":
		return sqltree.Desc(col), nil
	}
	return nil, fmt.Errorf("order %q: direction must be asc or desc", order)
}
