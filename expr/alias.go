package expr

// RemoveAliases strips the alias of a statement's target table and drops
// the qualifier from column references to that target. Data-modification
// statements name a single physical table, where an alias is either
// illegal or meaningless.
//
// Subqueries keep their own aliases and qualifiers. A correlated reference
// to the target inside a subquery is qualified with the bare table name so
// it still binds to the outer row. A subquery that lists the target under
// the same alias in its own FROM is left as is. Expressions that are not
// statements are returned unchanged.
//
// Applying RemoveAliases to its own output returns an equal tree.
func RemoveAliases(e Expression) (Expression, error) {
	s, ok := e.(Statement)
	if !ok || s.Target() == nil {
		return e, nil
	}
	return Walk(&aliasRemover{target: s.Target()}, e)
}

type aliasRemover struct {
	target *Table
	nested bool
}

func (r *aliasRemover) Walk(e Expression) Rewriter {
	switch n := e.(type) {
	case *Column:
		// Handled whole in Rewrite; its table is compared before any change.
		return nil
	case *Select:
		if r.declares(n.From) {
			// The subquery binds the target's name itself.
			return nil
		}
		if !r.nested {
			return &aliasRemover{target: r.target, nested: true}
		}
	case *Union:
		if !r.nested {
			return &aliasRemover{target: r.target, nested: true}
		}
	}
	return r
}

func (r *aliasRemover) declares(src Source) bool {
	switch s := src.(type) {
	case *Table:
		return r.isTarget(s)
	case *Join:
		return r.declares(s.Left) || r.declares(s.Right)
	}
	return false
}

func (r *aliasRemover) Rewrite(e Expression) (Expression, error) {
	switch n := e.(type) {
	case *Table:
		if !r.nested && n.Alias != "" && r.isTarget(n) {
			return n.WithAlias(""), nil
		}
	case *Column:
		if n.Table == nil || !r.isTarget(n.Table) {
			return n, nil
		}
		if !r.nested {
			return n.WithTable(nil), nil
		}
		if n.Table.Alias != "" {
			return n.WithTable(r.target.WithAlias("")), nil
		}
	}
	return e, nil
}

func (r *aliasRemover) isTarget(t *Table) bool {
	if t == r.target {
		return true
	}
	return t.Name == r.target.Name &&
		t.Schema == r.target.Schema &&
		t.Catalog == r.target.Catalog &&
		t.Alias == r.target.Alias
}
