package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zoobzio/sqltree/internal/cli"
)

func (a *app) dialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := cli.Dialects()
			fmt.Fprintf(a.out, "%-10s%-21s%-8s%s\n", "NAME", "PAGINATION", "XOR", "MAX PARAMS")
			for _, name := range reg.Names() {
				d, err := reg.Resolve(name)
				if err != nil {
					return cli.GeneralError("resolving dialect", err)
				}
				caps := d.Capabilities()
				limit := "-"
				if caps.MaxParameters > 0 {
					limit = strconv.Itoa(caps.MaxParameters)
				}
				fmt.Fprintf(a.out, "%-10s%-21s%-8t%s\n", d.Name(), caps.Pagination, caps.Xor, limit)
			}
			return nil
		},
	}
}
