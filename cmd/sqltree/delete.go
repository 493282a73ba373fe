package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/internal/cli"
)

func (a *app) deleteCommand() *cobra.Command {
	var (
		opts selectOptions
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "delete TABLE",
		Short: "Render a DELETE",
		Example: `  # Remove trainees
  sqltree delete employees --where job=trainee

  # Empty the table
  sqltree delete employees --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.where) == 0 && !all {
				return cli.GeneralError("refusing to delete every row", errors.New("pass --where or --all"))
			}
			cfg, err := a.sqlConfig()
			if err != nil {
				return err
			}
			t, err := a.table(args[0], opts.alias)
			if err != nil {
				return err
			}
			cond, ok, err := a.where(t, opts.where)
			if err != nil {
				return err
			}

			b := sqltree.DeleteFrom(cfg, t)
			if ok {
				b = b.Where(cond)
			}
			stmt, err := expr.RemoveAliases(b.Build())
			if err != nil {
				return cli.RenderError("removing aliases", err)
			}
			return a.write(cfg, stmt)
		},
	}
	addSelectFlags(cmd, &opts)
	cmd.Flags().BoolVar(&all, "all", false, "delete every row when no filter is given")
	return cmd
}
