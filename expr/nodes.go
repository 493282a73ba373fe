package expr

// Table references a physical table, optionally under an alias.
type Table struct {
	Name    string
	Alias   string
	Catalog string
	Schema  string
}

// WithAlias returns a copy of t bound to alias.
func (t *Table) WithAlias(alias string) *Table {
	c := *t
	c.Alias = alias
	return &c
}

// Column references a column. Table is nil for unqualified references.
type Column struct {
	Table *Table
	Name  string
	Type  Type
}

// SQLType implements Scalar.
func (c *Column) SQLType() Type { return c.Type }

// WithTable returns a copy of c owned by t.
func (c *Column) WithTable(t *Table) *Column {
	cp := *c
	cp.Table = t
	return &cp
}

// ColumnDeclaring is an output column of a select, optionally renamed.
type ColumnDeclaring struct {
	Expression   Scalar
	DeclaredName string
}

// SQLType implements Scalar.
func (c *ColumnDeclaring) SQLType() Type { return c.Expression.SQLType() }

// WithExpression returns a copy of c declaring e.
func (c *ColumnDeclaring) WithExpression(e Scalar) *ColumnDeclaring {
	cp := *c
	cp.Expression = e
	return &cp
}

// Binary is a binary operation.
type Binary struct {
	Op    BinaryType
	Left  Scalar
	Right Scalar
	Type  Type
}

// SQLType implements Scalar.
func (b *Binary) SQLType() Type { return b.Type }

// WithOperands returns a copy of b with new operands.
func (b *Binary) WithOperands(left, right Scalar) *Binary {
	cp := *b
	cp.Left, cp.Right = left, right
	return &cp
}

// Argument is a bound parameter.
type Argument struct {
	Value any
	Type  Type
}

// SQLType implements Scalar.
func (a *Argument) SQLType() Type { return a.Type }

// Unary is a unary operation.
type Unary struct {
	Op      UnaryType
	Operand Scalar
	Type    Type
}

// SQLType implements Scalar.
func (u *Unary) SQLType() Type { return u.Type }

// WithOperand returns a copy of u applied to operand.
func (u *Unary) WithOperand(operand Scalar) *Unary {
	cp := *u
	cp.Operand = operand
	return &cp
}

// Aggregate is an aggregate function call. A nil Argument renders as *.
type Aggregate struct {
	Func     AggregateType
	Argument Scalar
	Distinct bool
	Type     Type
}

// SQLType implements Scalar.
func (a *Aggregate) SQLType() Type { return a.Type }

// WithArgument returns a copy of a aggregating arg.
func (a *Aggregate) WithArgument(arg Scalar) *Aggregate {
	cp := *a
	cp.Argument = arg
	return &cp
}

// InList tests membership in a value list or a subquery. Exactly one of
// Query and Values is used; Query wins when set.
type InList struct {
	Left   Scalar
	Query  Query
	Values []Scalar
	Not    bool
	Type   Type
}

// SQLType implements Scalar.
func (in *InList) SQLType() Type { return in.Type }

// WithLeft returns a copy of in testing left.
func (in *InList) WithLeft(left Scalar) *InList {
	cp := *in
	cp.Left = left
	return &cp
}

// WithQuery returns a copy of in using q.
func (in *InList) WithQuery(q Query) *InList {
	cp := *in
	cp.Query = q
	return &cp
}

// WithValues returns a copy of in using values.
func (in *InList) WithValues(values []Scalar) *InList {
	cp := *in
	cp.Values = values
	return &cp
}

// Between is a range test.
type Between struct {
	Expression Scalar
	Lower      Scalar
	Upper      Scalar
	Not        bool
	Type       Type
}

// SQLType implements Scalar.
func (b *Between) SQLType() Type { return b.Type }

// WithOperands returns a copy of b with new operands.
func (b *Between) WithOperands(e, lower, upper Scalar) *Between {
	cp := *b
	cp.Expression, cp.Lower, cp.Upper = e, lower, upper
	return &cp
}

// Select is a SELECT query.
type Select struct {
	From       Source
	Columns    []*ColumnDeclaring
	Distinct   bool
	Where      Scalar
	GroupBy    []Scalar
	Having     Scalar
	OrderBy    []*OrderBy
	Offset     *int
	Limit      *int
	TableAlias string
}

// Ordering implements Query.
func (s *Select) Ordering() []*OrderBy { return s.OrderBy }

// Pagination implements Query.
func (s *Select) Pagination() (offset, limit *int) { return s.Offset, s.Limit }

// Alias implements Query.
func (s *Select) Alias() string { return s.TableAlias }

// WithFrom returns a copy of s selecting from src.
func (s *Select) WithFrom(src Source) *Select {
	cp := *s
	cp.From = src
	return &cp
}

// WithColumns returns a copy of s with new output columns.
func (s *Select) WithColumns(cols []*ColumnDeclaring) *Select {
	cp := *s
	cp.Columns = cols
	return &cp
}

// WithWhere returns a copy of s filtered by where.
func (s *Select) WithWhere(where Scalar) *Select {
	cp := *s
	cp.Where = where
	return &cp
}

// WithGroupBy returns a copy of s grouped by groupBy.
func (s *Select) WithGroupBy(groupBy []Scalar) *Select {
	cp := *s
	cp.GroupBy = groupBy
	return &cp
}

// WithHaving returns a copy of s with a HAVING predicate.
func (s *Select) WithHaving(having Scalar) *Select {
	cp := *s
	cp.Having = having
	return &cp
}

// WithOrderBy returns a copy of s with new ordering.
func (s *Select) WithOrderBy(orders []*OrderBy) *Select {
	cp := *s
	cp.OrderBy = orders
	return &cp
}

// WithOffset returns a copy of s skipping n rows.
func (s *Select) WithOffset(n int) *Select {
	cp := *s
	cp.Offset = &n
	return &cp
}

// WithLimit returns a copy of s returning at most n rows.
func (s *Select) WithLimit(n int) *Select {
	cp := *s
	cp.Limit = &n
	return &cp
}

// WithoutPagination returns a copy of s with ordering and pagination removed.
func (s *Select) WithoutPagination() *Select {
	cp := *s
	cp.OrderBy, cp.Offset, cp.Limit = nil, nil, nil
	return &cp
}

// WithTableAlias returns a copy of s aliased as a derived table.
func (s *Select) WithTableAlias(alias string) *Select {
	cp := *s
	cp.TableAlias = alias
	return &cp
}

// Union combines two queries.
type Union struct {
	Left       Query
	Right      Query
	All        bool
	OrderBy    []*OrderBy
	Offset     *int
	Limit      *int
	TableAlias string
}

// Ordering implements Query.
func (u *Union) Ordering() []*OrderBy { return u.OrderBy }

// Pagination implements Query.
func (u *Union) Pagination() (offset, limit *int) { return u.Offset, u.Limit }

// Alias implements Query.
func (u *Union) Alias() string { return u.TableAlias }

// WithBranches returns a copy of u combining left and right.
func (u *Union) WithBranches(left, right Query) *Union {
	cp := *u
	cp.Left, cp.Right = left, right
	return &cp
}

// WithOrderBy returns a copy of u with new ordering.
func (u *Union) WithOrderBy(orders []*OrderBy) *Union {
	cp := *u
	cp.OrderBy = orders
	return &cp
}

// WithOffset returns a copy of u skipping n rows.
func (u *Union) WithOffset(n int) *Union {
	cp := *u
	cp.Offset = &n
	return &cp
}

// WithLimit returns a copy of u returning at most n rows.
func (u *Union) WithLimit(n int) *Union {
	cp := *u
	cp.Limit = &n
	return &cp
}

// WithoutPagination returns a copy of u with ordering and pagination removed.
func (u *Union) WithoutPagination() *Union {
	cp := *u
	cp.OrderBy, cp.Offset, cp.Limit = nil, nil, nil
	return &cp
}

// WithTableAlias returns a copy of u aliased as a derived table.
func (u *Union) WithTableAlias(alias string) *Union {
	cp := *u
	cp.TableAlias = alias
	return &cp
}

// Insert is an INSERT statement.
type Insert struct {
	Table       *Table
	Assignments []*ColumnAssignment
}

// Target implements Statement.
func (i *Insert) Target() *Table { return i.Table }

// WithTable returns a copy of i inserting into t.
func (i *Insert) WithTable(t *Table) *Insert {
	cp := *i
	cp.Table = t
	return &cp
}

// WithAssignments returns a copy of i with new assignments.
func (i *Insert) WithAssignments(a []*ColumnAssignment) *Insert {
	cp := *i
	cp.Assignments = a
	return &cp
}

// Update is an UPDATE statement.
type Update struct {
	Table       *Table
	Assignments []*ColumnAssignment
	Where       Scalar
}

// Target implements Statement.
func (u *Update) Target() *Table { return u.Table }

// WithTable returns a copy of u updating t.
func (u *Update) WithTable(t *Table) *Update {
	cp := *u
	cp.Table = t
	return &cp
}

// WithAssignments returns a copy of u with new assignments.
func (u *Update) WithAssignments(a []*ColumnAssignment) *Update {
	cp := *u
	cp.Assignments = a
	return &cp
}

// WithWhere returns a copy of u filtered by where.
func (u *Update) WithWhere(where Scalar) *Update {
	cp := *u
	cp.Where = where
	return &cp
}

// Delete is a DELETE statement.
type Delete struct {
	Table *Table
	Where Scalar
}

// Target implements Statement.
func (d *Delete) Target() *Table { return d.Table }

// WithTable returns a copy of d deleting from t.
func (d *Delete) WithTable(t *Table) *Delete {
	cp := *d
	cp.Table = t
	return &cp
}

// WithWhere returns a copy of d filtered by where.
func (d *Delete) WithWhere(where Scalar) *Delete {
	cp := *d
	cp.Where = where
	return &cp
}

// Join joins two sources. Condition may be nil.
type Join struct {
	Type      JoinType
	Left      Source
	Right     Source
	Condition Scalar
}

// WithSources returns a copy of j joining left and right.
func (j *Join) WithSources(left, right Source) *Join {
	cp := *j
	cp.Left, cp.Right = left, right
	return &cp
}

// WithCondition returns a copy of j joined on cond.
func (j *Join) WithCondition(cond Scalar) *Join {
	cp := *j
	cp.Condition = cond
	return &cp
}

// OrderBy is one ORDER BY item.
type OrderBy struct {
	Expression Scalar
	Order      OrderType
}

// WithExpression returns a copy of o ordering by e.
func (o *OrderBy) WithExpression(e Scalar) *OrderBy {
	cp := *o
	cp.Expression = e
	return &cp
}

// ColumnAssignment is a "column = value" pair of an INSERT or UPDATE.
type ColumnAssignment struct {
	Column     *Column
	Expression Scalar
}

// WithColumn returns a copy of a assigning to col.
func (a *ColumnAssignment) WithColumn(col *Column) *ColumnAssignment {
	cp := *a
	cp.Column = col
	return &cp
}

// WithExpression returns a copy of a assigning e.
func (a *ColumnAssignment) WithExpression(e Scalar) *ColumnAssignment {
	cp := *a
	cp.Expression = e
	return &cp
}

func (*Table) node()            {}
func (*Column) node()           {}
func (*ColumnDeclaring) node()  {}
func (*Binary) node()           {}
func (*Argument) node()         {}
func (*Unary) node()            {}
func (*Aggregate) node()        {}
func (*InList) node()           {}
func (*Between) node()          {}
func (*Select) node()           {}
func (*Union) node()            {}
func (*Insert) node()           {}
func (*Update) node()           {}
func (*Delete) node()           {}
func (*Join) node()             {}
func (*OrderBy) node()          {}
func (*ColumnAssignment) node() {}

func (*Table) source()  {}
func (*Join) source()   {}
func (*Select) source() {}
func (*Union) source()  {}

func (*Select) query() {}
func (*Union) query()  {}

func (*Insert) statement() {}
func (*Update) statement() {}
func (*Delete) statement() {}
