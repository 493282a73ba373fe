package sqltree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/internal/render"
	"github.com/zoobzio/sqltree/sqltype"
)

// Paginator writes the pagination clause of a query. It is called after
// ORDER BY, only when an offset or a limit is set.
type Paginator interface {
	WritePagination(f *Formatter, hasOrderBy bool, offset, limit *int) error
}

// PaginatorFunc adapts a function to Paginator.
type PaginatorFunc func(f *Formatter, hasOrderBy bool, offset, limit *int) error

// WritePagination implements Paginator.
func (fn PaginatorFunc) WritePagination(f *Formatter, hasOrderBy bool, offset, limit *int) error {
	return fn(f, hasOrderBy, offset, limit)
}

// FormatterOption customizes a Formatter.
type FormatterOption func(*Formatter)

// WithPlaceholder sets the placeholder for the n-th argument, counting
// from 1. The default writes "?".
func WithPlaceholder(fn func(n int) string) FormatterOption {
	return func(f *Formatter) { f.placeholder = fn }
}

// WithPaginator enables pagination rendering.
func WithPaginator(p Paginator) FormatterOption {
	return func(f *Formatter) { f.paginator = p }
}

// Formatter renders one expression tree into SQL text and the arguments
// bound to its placeholders, in placeholder order. A Formatter carries the
// derived-table alias counter of a single call and must not be reused.
type Formatter struct {
	dialect     string
	ids         Identifiers
	caps        Capabilities
	pretty      bool
	indent      int
	level       int
	sql         strings.Builder
	args        []*expr.Argument
	aliases     int
	taken       map[string]struct{}
	placeholder func(n int) string
	paginator   Paginator
}

// NewFormatter creates a formatter for cfg. Dialects call it from
// CreateFormatter and customize it with options.
func NewFormatter(cfg *Config, pretty bool, indent int, opts ...FormatterOption) *Formatter {
	if pretty && indent <= 0 {
		indent = 2
	}
	f := &Formatter{
		dialect:     cfg.Dialect().Name(),
		ids:         cfg.Identifiers(),
		caps:        cfg.Dialect().Capabilities(),
		pretty:      pretty,
		indent:      indent,
		placeholder: func(int) string { return "?" },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders e. It must be called at most once per formatter.
//
// Generated derived-table aliases skip every alias already declared in e.
// A statement binding more arguments than the dialect's MaxParameters fails
// with an UnsupportedFeatureError.
func (f *Formatter) Format(e expr.Expression) (string, []*expr.Argument, error) {
	f.taken = declaredAliases(e)
	if err := f.WriteExpression(e); err != nil {
		return "", nil, err
	}
	if limit := f.caps.MaxParameters; limit > 0 && len(f.args) > limit {
		return "", nil, f.Unsupported(
			fmt.Sprintf("%d bound parameters", len(f.args)),
			fmt.Sprintf("at most %d are accepted per statement", limit))
	}
	return f.sql.String(), f.args, nil
}

func declaredAliases(e expr.Expression) map[string]struct{} {
	taken := make(map[string]struct{})
	collect := expr.RewriterFunc(func(n expr.Expression) (expr.Expression, error) {
		switch n := n.(type) {
		case *expr.Table:
			if n.Alias != "" {
				taken[n.Alias] = struct{}{}
			}
		case expr.Query:
			if a := n.Alias(); a != "" {
				taken[a] = struct{}{}
			}
		}
		return n, nil
	})
	// collect never fails.
	_, _ = expr.Walk(collect, e)
	return taken
}

// Dialect returns the name of the dialect being rendered.
func (f *Formatter) Dialect() string { return f.dialect }

// Write appends raw SQL text.
func (f *Formatter) Write(s string) { f.sql.WriteString(s) }

// Quote applies the identifier rules to name.
func (f *Formatter) Quote(name string) string { return f.ids.Quote(name) }

// WriteArgument binds a and writes its placeholder.
func (f *Formatter) WriteArgument(a *expr.Argument) {
	f.args = append(f.args, a)
	f.sql.WriteString(f.placeholder(len(f.args)))
}

// WriteInt binds n as an integer argument, as used for pagination values.
func (f *Formatter) WriteInt(n int) {
	f.WriteArgument(sqltype.Int.Bind(n))
}

// Separator writes a clause break: a newline at the current indentation
// when pretty printing, a space otherwise.
func (f *Formatter) Separator() {
	if f.pretty {
		f.newline()
		return
	}
	f.sql.WriteByte(' ')
}

// Unsupported builds the error for a construct the dialect cannot render.
func (f *Formatter) Unsupported(feature string, hint ...string) error {
	return render.NewUnsupportedFeatureError(f.dialect, feature, hint...)
}

func (f *Formatter) newline() {
	f.sql.WriteByte('\n')
	f.sql.WriteString(strings.Repeat(" ", f.indent*f.level))
}

// open starts a parenthesized block, breaking the line when pretty printing.
func (f *Formatter) open() {
	f.sql.WriteByte('(')
	f.level++
	if f.pretty {
		f.newline()
	}
}

func (f *Formatter) close() {
	f.level--
	if f.pretty {
		f.newline()
	}
	f.sql.WriteByte(')')
}

func (f *Formatter) nextAlias() string {
	for {
		f.aliases++
		alias := "_t" + strconv.Itoa(f.aliases)
		if _, ok := f.taken[alias]; !ok {
			return alias
		}
	}
}

// WriteExpression renders any node.
func (f *Formatter) WriteExpression(e expr.Expression) error {
	switch n := e.(type) {
	case *expr.Select:
		return f.writeSelect(n)
	case *expr.Union:
		return f.writeUnion(n)
	case *expr.Insert:
		return f.writeInsert(n)
	case *expr.Update:
		return f.writeUpdate(n)
	case *expr.Delete:
		return f.writeDelete(n)
	case *expr.Table:
		f.writeTable(n)
		return nil
	case *expr.Join:
		return f.writeSource(n)
	case *expr.OrderBy:
		return f.writeOrderBy(n)
	case *expr.ColumnAssignment:
		f.Write(f.Quote(n.Column.Name))
		f.Write(" = ")
		return f.WriteScalar(n.Expression)
	case expr.Scalar:
		return f.WriteScalar(n)
	case nil:
		return fmt.Errorf("cannot format a nil expression")
	}
	return fmt.Errorf("cannot format %T", e)
}

// WriteScalar renders a value expression.
func (f *Formatter) WriteScalar(s expr.Scalar) error {
	switch n := s.(type) {
	case *expr.Column:
		f.writeColumn(n)
	case *expr.ColumnDeclaring:
		if n.DeclaredName != "" {
			f.Write(f.Quote(n.DeclaredName))
			return nil
		}
		return f.WriteScalar(n.Expression)
	case *expr.Argument:
		f.WriteArgument(n)
	case *expr.Binary:
		return f.writeBinary(n)
	case *expr.Unary:
		return f.writeUnary(n)
	case *expr.Aggregate:
		f.Write(string(n.Func))
		f.Write("(")
		if n.Distinct {
			f.Write("DISTINCT ")
		}
		if n.Argument == nil {
			f.Write("*")
		} else if err := f.WriteScalar(n.Argument); err != nil {
			return err
		}
		f.Write(")")
	case *expr.InList:
		return f.writeInList(n)
	case *expr.Between:
		if err := f.writeOperand(n.Expression); err != nil {
			return err
		}
		if n.Not {
			f.Write(" NOT")
		}
		f.Write(" BETWEEN ")
		if err := f.writeOperand(n.Lower); err != nil {
			return err
		}
		f.Write(" AND ")
		return f.writeOperand(n.Upper)
	case nil:
		return fmt.Errorf("cannot format a nil scalar")
	default:
		return fmt.Errorf("cannot format %T", s)
	}
	return nil
}

// writeOperand parenthesizes compound operands.
func (f *Formatter) writeOperand(s expr.Scalar) error {
	switch n := s.(type) {
	case *expr.Binary, *expr.Between, *expr.InList:
	case *expr.Unary:
		if n.Op == expr.Parenthesized {
			return f.WriteScalar(s)
		}
	default:
		return f.WriteScalar(s)
	}
	f.Write("(")
	if err := f.WriteScalar(s); err != nil {
		return err
	}
	f.Write(")")
	return nil
}

func (f *Formatter) writeBinary(b *expr.Binary) error {
	if b.Op == expr.Xor && !f.caps.Xor {
		return f.Unsupported("XOR")
	}
	if err := f.writeOperand(b.Left); err != nil {
		return err
	}
	f.Write(" ")
	f.Write(string(b.Op))
	f.Write(" ")
	return f.writeOperand(b.Right)
}

func (f *Formatter) writeUnary(u *expr.Unary) error {
	switch u.Op {
	case expr.IsNull, expr.IsNotNull:
		if err := f.writeOperand(u.Operand); err != nil {
			return err
		}
		f.Write(" ")
		f.Write(string(u.Op))
		return nil
	case expr.Parenthesized:
		f.Write("(")
		if err := f.WriteScalar(u.Operand); err != nil {
			return err
		}
		f.Write(")")
		return nil
	case expr.Not:
		f.Write("NOT ")
	default:
		f.Write(string(u.Op))
	}
	return f.writeOperand(u.Operand)
}

func (f *Formatter) writeInList(in *expr.InList) error {
	if in.Query == nil && len(in.Values) == 0 {
		// An empty list matches nothing; NOT IN () matches everything.
		if in.Not {
			f.Write("1 = 1")
		} else {
			f.Write("1 = 0")
		}
		return nil
	}
	if err := f.writeOperand(in.Left); err != nil {
		return err
	}
	if in.Not {
		f.Write(" NOT")
	}
	f.Write(" IN ")
	if in.Query != nil {
		f.open()
		if err := f.writeQuery(in.Query); err != nil {
			return err
		}
		f.close()
		return nil
	}
	f.Write("(")
	for i, v := range in.Values {
		if i > 0 {
			f.Write(", ")
		}
		if err := f.WriteScalar(v); err != nil {
			return err
		}
	}
	f.Write(")")
	return nil
}

func (f *Formatter) writeColumn(c *expr.Column) {
	if c.Table != nil {
		if c.Table.Alias != "" {
			f.Write(f.Quote(c.Table.Alias))
		} else {
			f.writeTableName(c.Table)
		}
		f.Write(".")
	}
	f.Write(f.Quote(c.Name))
}

func (f *Formatter) writeTableName(t *expr.Table) {
	if t.Catalog != "" {
		f.Write(f.Quote(t.Catalog))
		f.Write(".")
	}
	if t.Schema != "" {
		f.Write(f.Quote(t.Schema))
		f.Write(".")
	}
	f.Write(f.Quote(t.Name))
}

func (f *Formatter) writeTable(t *expr.Table) {
	f.writeTableName(t)
	if t.Alias != "" {
		f.Write(" ")
		f.Write(f.Quote(t.Alias))
	}
}

func (f *Formatter) writeSource(s expr.Source) error {
	switch n := s.(type) {
	case *expr.Table:
		f.writeTable(n)
	case *expr.Join:
		if n.Type == expr.RightJoin && !f.caps.RightJoin {
			return f.Unsupported("RIGHT JOIN", "swap the join operands and use LEFT JOIN")
		}
		if err := f.writeSource(n.Left); err != nil {
			return err
		}
		f.Separator()
		f.Write(string(n.Type))
		f.Write(" ")
		if err := f.writeSource(n.Right); err != nil {
			return err
		}
		if n.Condition != nil {
			f.Write(" ON ")
			if err := f.WriteScalar(n.Condition); err != nil {
				return err
			}
		}
	case expr.Query:
		alias := n.Alias()
		if alias == "" {
			alias = f.nextAlias()
		}
		f.open()
		if err := f.writeQuery(n); err != nil {
			return err
		}
		f.close()
		f.Write(" ")
		f.Write(f.Quote(alias))
	default:
		return fmt.Errorf("cannot format %T as a source", s)
	}
	return nil
}

func (f *Formatter) writeQuery(q expr.Query) error {
	switch n := q.(type) {
	case *expr.Select:
		return f.writeSelect(n)
	case *expr.Union:
		return f.writeUnion(n)
	}
	return fmt.Errorf("cannot format %T as a query", q)
}

func (f *Formatter) writeSelect(s *expr.Select) error {
	f.Write("SELECT ")
	if s.Distinct {
		f.Write("DISTINCT ")
	}
	if len(s.Columns) == 0 {
		f.Write("*")
	}
	for i, c := range s.Columns {
		if i > 0 {
			f.Write(", ")
		}
		if err := f.WriteScalar(c.Expression); err != nil {
			return err
		}
		if c.DeclaredName != "" {
			f.Write(" AS ")
			f.Write(f.Quote(c.DeclaredName))
		}
	}
	if s.From != nil {
		f.Separator()
		f.Write("FROM ")
		if err := f.writeSource(s.From); err != nil {
			return err
		}
	}
	if s.Where != nil {
		f.Separator()
		f.Write("WHERE ")
		if err := f.WriteScalar(s.Where); err != nil {
			return err
		}
	}
	if len(s.GroupBy) > 0 {
		f.Separator()
		f.Write("GROUP BY ")
		for i, g := range s.GroupBy {
			if i > 0 {
				f.Write(", ")
			}
			if err := f.WriteScalar(g); err != nil {
				return err
			}
		}
	}
	if s.Having != nil {
		f.Separator()
		f.Write("HAVING ")
		if err := f.WriteScalar(s.Having); err != nil {
			return err
		}
	}
	return f.writeOrderingAndPagination(s)
}

func (f *Formatter) writeUnion(u *expr.Union) error {
	if err := f.writeBranch(u.Left, false); err != nil {
		return err
	}
	f.Separator()
	if u.All {
		f.Write("UNION ALL")
	} else {
		f.Write("UNION")
	}
	f.Separator()
	if err := f.writeBranch(u.Right, true); err != nil {
		return err
	}
	return f.writeOrderingAndPagination(u)
}

// writeBranch parenthesizes a union branch only when it carries its own
// ordering or pagination, or when it is a nested union on the right.
func (f *Formatter) writeBranch(q expr.Query, right bool) error {
	offset, limit := q.Pagination()
	_, isUnion := q.(*expr.Union)
	if len(q.Ordering()) == 0 && offset == nil && limit == nil && !(right && isUnion) {
		return f.writeQuery(q)
	}
	f.open()
	if err := f.writeQuery(q); err != nil {
		return err
	}
	f.close()
	return nil
}

func (f *Formatter) writeOrderingAndPagination(q expr.Query) error {
	orders := q.Ordering()
	if len(orders) > 0 {
		f.Separator()
		f.Write("ORDER BY ")
		for i, o := range orders {
			if i > 0 {
				f.Write(", ")
			}
			if err := f.writeOrderBy(o); err != nil {
				return err
			}
		}
	}
	offset, limit := q.Pagination()
	if offset == nil && limit == nil {
		return nil
	}
	if f.paginator == nil {
		return f.Unsupported("LIMIT/OFFSET", "configure a dialect that supports pagination")
	}
	if f.caps.PaginationNeedsOrderBy && len(orders) == 0 {
		return f.Unsupported("LIMIT/OFFSET without ORDER BY", "add ORDER BY clause when using LIMIT or OFFSET")
	}
	f.Separator()
	return f.paginator.WritePagination(f, len(orders) > 0, offset, limit)
}

func (f *Formatter) writeOrderBy(o *expr.OrderBy) error {
	if err := f.WriteScalar(o.Expression); err != nil {
		return err
	}
	order := o.Order
	if order == "" {
		order = expr.Ascending
	}
	f.Write(" ")
	f.Write(string(order))
	return nil
}

func (f *Formatter) writeInsert(ins *expr.Insert) error {
	if len(ins.Assignments) == 0 {
		return fmt.Errorf("%w: INSERT INTO %s", ErrNoAssignments, ins.Table.Name)
	}
	f.Write("INSERT INTO ")
	f.writeTable(ins.Table)
	f.Write(" (")
	for i, a := range ins.Assignments {
		if i > 0 {
			f.Write(", ")
		}
		f.Write(f.Quote(a.Column.Name))
	}
	f.Write(")")
	f.Separator()
	f.Write("VALUES (")
	for i, a := range ins.Assignments {
		if i > 0 {
			f.Write(", ")
		}
		if err := f.WriteScalar(a.Expression); err != nil {
			return err
		}
	}
	f.Write(")")
	return nil
}

func (f *Formatter) writeUpdate(u *expr.Update) error {
	if len(u.Assignments) == 0 {
		return fmt.Errorf("%w: UPDATE %s", ErrNoAssignments, u.Table.Name)
	}
	f.Write("UPDATE ")
	f.writeTable(u.Table)
	f.Separator()
	f.Write("SET ")
	for i, a := range u.Assignments {
		if i > 0 {
			f.Write(", ")
		}
		f.Write(f.Quote(a.Column.Name))
		f.Write(" = ")
		if err := f.WriteScalar(a.Expression); err != nil {
			return err
		}
	}
	if u.Where != nil {
		f.Separator()
		f.Write("WHERE ")
		return f.WriteScalar(u.Where)
	}
	return nil
}

func (f *Formatter) writeDelete(d *expr.Delete) error {
	f.Write("DELETE FROM ")
	f.writeTable(d.Table)
	if d.Where != nil {
		f.Separator()
		f.Write("WHERE ")
		return f.WriteScalar(d.Where)
	}
	return nil
}
