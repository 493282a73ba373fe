package expr

import "reflect"

// Equal reports whether a and b are structurally equal. Types are compared
// by name and code; argument values with reflect.DeepEqual.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *Table:
		y, ok := b.(*Table)
		return ok && equalTable(x, y)
	case *Column:
		y, ok := b.(*Column)
		return ok && equalColumn(x, y)
	case *ColumnDeclaring:
		y, ok := b.(*ColumnDeclaring)
		return ok && x.DeclaredName == y.DeclaredName && Equal(x.Expression, y.Expression)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && sameType(x.Type, y.Type) &&
			Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Argument:
		y, ok := b.(*Argument)
		return ok && sameType(x.Type, y.Type) && reflect.DeepEqual(x.Value, y.Value)
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && sameType(x.Type, y.Type) && Equal(x.Operand, y.Operand)
	case *Aggregate:
		y, ok := b.(*Aggregate)
		return ok && x.Func == y.Func && x.Distinct == y.Distinct &&
			sameType(x.Type, y.Type) && Equal(x.Argument, y.Argument)
	case *InList:
		y, ok := b.(*InList)
		return ok && x.Not == y.Not && Equal(x.Left, y.Left) &&
			Equal(x.Query, y.Query) && equalScalars(x.Values, y.Values)
	case *Between:
		y, ok := b.(*Between)
		return ok && x.Not == y.Not && Equal(x.Expression, y.Expression) &&
			Equal(x.Lower, y.Lower) && Equal(x.Upper, y.Upper)
	case *Select:
		y, ok := b.(*Select)
		if !ok || x.Distinct != y.Distinct || x.TableAlias != y.TableAlias || len(x.Columns) != len(y.Columns) {
			return false
		}
		for i := range x.Columns {
			if !Equal(x.Columns[i], y.Columns[i]) {
				return false
			}
		}
		return Equal(x.From, y.From) && Equal(x.Where, y.Where) &&
			equalScalars(x.GroupBy, y.GroupBy) && Equal(x.Having, y.Having) &&
			equalOrders(x.OrderBy, y.OrderBy) &&
			equalInt(x.Offset, y.Offset) && equalInt(x.Limit, y.Limit)
	case *Union:
		y, ok := b.(*Union)
		return ok && x.All == y.All && x.TableAlias == y.TableAlias &&
			Equal(x.Left, y.Left) && Equal(x.Right, y.Right) &&
			equalOrders(x.OrderBy, y.OrderBy) &&
			equalInt(x.Offset, y.Offset) && equalInt(x.Limit, y.Limit)
	case *Insert:
		y, ok := b.(*Insert)
		return ok && equalTable(x.Table, y.Table) && equalAssignments(x.Assignments, y.Assignments)
	case *Update:
		y, ok := b.(*Update)
		return ok && equalTable(x.Table, y.Table) &&
			equalAssignments(x.Assignments, y.Assignments) && Equal(x.Where, y.Where)
	case *Delete:
		y, ok := b.(*Delete)
		return ok && equalTable(x.Table, y.Table) && Equal(x.Where, y.Where)
	case *Join:
		y, ok := b.(*Join)
		return ok && x.Type == y.Type && Equal(x.Left, y.Left) &&
			Equal(x.Right, y.Right) && Equal(x.Condition, y.Condition)
	case *OrderBy:
		y, ok := b.(*OrderBy)
		return ok && equalOrder(x, y)
	case *ColumnAssignment:
		y, ok := b.(*ColumnAssignment)
		return ok && equalColumn(x.Column, y.Column) && Equal(x.Expression, y.Expression)
	}
	return false
}

func equalTable(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalColumn(a, b *Column) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && sameType(a.Type, b.Type) && equalTable(a.Table, b.Table)
}

func equalOrder(a, b *OrderBy) bool {
	return a.Order == b.Order && Equal(a.Expression, b.Expression)
}

func equalScalars(a, b []Scalar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalOrders(a, b []*OrderBy) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalOrder(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalAssignments(a, b []*ColumnAssignment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalColumn(a[i].Column, b[i].Column) || !Equal(a[i].Expression, b[i].Expression) {
			return false
		}
	}
	return true
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.TypeName() == b.TypeName() && a.TypeCode() == b.TypeCode()
}
