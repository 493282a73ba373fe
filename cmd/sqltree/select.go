package main

import (
	"github.com/spf13/cobra"
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/internal/cli"
)

type selectOptions struct {
	alias    string
	columns  []string
	where    []string
	orderBy  []string
	limit    int
	offset   int
	distinct bool
}

func (a *app) selectCommand() *cobra.Command {
	var opts selectOptions
	cmd := &cobra.Command{
		Use:   "select TABLE",
		Short: "Render a SELECT",
		Example: `  # Highest paid employees
  sqltree select employees --columns name,salary --where "salary>=100" --order-by salary:desc --limit 10

  # Render for PostgreSQL over several lines
  sqltree select employees --alias e --dialect postgres --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.sqlConfig()
			if err != nil {
				return err
			}
			q, err := a.buildSelect(cfg, args[0], opts)
			if err != nil {
				return err
			}
			return a.write(cfg, q.Expression())
		},
	}
	addSelectFlags(cmd, &opts)
	cmd.Flags().StringSliceVarP(&opts.columns, "columns", "c", nil, "columns to select (default: *)")
	cmd.Flags().StringArrayVar(&opts.orderBy, "order-by", nil, "order by column, optionally suffixed with :asc or :desc")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum number of rows")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "rows to skip")
	cmd.Flags().BoolVar(&opts.distinct, "distinct", false, "select distinct rows")
	return cmd
}

func addSelectFlags(cmd *cobra.Command, opts *selectOptions) {
	cmd.Flags().StringVar(&opts.alias, "alias", "", "table alias")
	cmd.Flags().StringArrayVarP(&opts.where, "where", "w", nil, `filter such as "salary>=100" or "manager_id is null" (repeatable)`)
}

func (a *app) buildSelect(cfg *sqltree.Config, table string, opts selectOptions) (sqltree.Query, error) {
	t, err := a.table(table, opts.alias)
	if err != nil {
		return sqltree.Query{}, err
	}

	cols := make([]sqltree.Operand, 0, len(opts.columns))
	for _, name := range opts.columns {
		c, err := t.Column(name)
		if err != nil {
			return sqltree.Query{}, cli.SchemaError("resolving column", err)
		}
		cols = append(cols, c)
	}

	src := sqltree.From(cfg, t)
	q := src.Select(cols...)
	if opts.distinct {
		q = src.SelectDistinct(cols...)
	}

	cond, ok, err := a.where(t, opts.where)
	if err != nil {
		return sqltree.Query{}, err
	}
	if ok {
		q = q.Where(cond)
	}

	orders := make([]*expr.OrderBy, 0, len(opts.orderBy))
	for _, o := range opts.orderBy {
		order, err := cli.ParseOrder(t, o)
		if err != nil {
			return sqltree.Query{}, cli.GeneralError("parsing order", err)
		}
		orders = append(orders, order)
	}
	if len(orders) > 0 {
		q = q.OrderBy(orders...)
	}
	return q.Limit(opts.limit).Offset(opts.offset), nil
}

func (a *app) countCommand() *cobra.Command {
	var opts selectOptions
	cmd := &cobra.Command{
		Use:   "count TABLE",
		Short: "Render a row count",
		Example: `  # Count engineers
  sqltree count employees --where job=engineer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.sqlConfig()
			if err != nil {
				return err
			}
			q, err := a.buildSelect(cfg, args[0], opts)
			if err != nil {
				return err
			}
			return a.write(cfg, q.CountQuery().Expression())
		},
	}
	addSelectFlags(cmd, &opts)
	return cmd
}
