package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

func (a *app) configCommand() *cobra.Command {
	var showSource bool

	show := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, config file, and environment variables.`,
		Example: `  # Show effective configuration
  sqltree config show

  # Show configuration with source file path
  sqltree config show --source`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showSource {
				if a.configPath != "" {
					fmt.Fprintf(a.out, "Config file: %s\n\n", a.configPath)
				} else {
					fmt.Fprintln(a.out, "Config file: (none, using defaults)")
					fmt.Fprintln(a.out)
				}
			}

			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, string(out))
			return nil
		},
	}
	show.Flags().BoolVar(&showSource, "source", false, "show config file source")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(show)
	return cmd
}
