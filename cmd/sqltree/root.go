package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zoobzio/sqltree"
	"github.com/zoobzio/sqltree/expr"
	"github.com/zoobzio/sqltree/internal/cli"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	out    io.Writer
	logger *slog.Logger

	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string

	// Persistent flags
	cfgFile string
	dialect string
	output  string
	pretty  bool
	verbose bool
}

// Command group IDs
const (
	groupRender  = "render"
	groupUtility = "utility"
)

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{out: stdout}

	root := &cobra.Command{
		Use:   "sqltree",
		Short: "Render SQL from configured tables",
		Long: `sqltree - render SQL from configured tables

sqltree loads table definitions from sqltree.yaml and renders SELECT, COUNT
and DELETE statements for any of the supported dialects.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "dialects" {
				return nil
			}

			var err error
			a.cfg, a.configPath, err = cli.LoadConfig(a.cfgFile)
			if err != nil {
				return cli.ConfigError("loading configuration", err)
			}
			a.logger.Debug("configuration loaded", "path", a.configPath, "dialect", a.cfg.Dialect)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default: auto-discover sqltree.yaml)")
	f.StringVar(&a.dialect, "dialect", "", "dialect to render for (overrides config)")
	f.StringVarP(&a.output, "output", "o", cli.OutputSQL, "output format: sql or yaml")
	f.BoolVar(&a.pretty, "pretty", false, "render over several lines")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddGroup(
		&cobra.Group{ID: groupRender, Title: "Render:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	for _, cmd := range []*cobra.Command{a.selectCommand(), a.countCommand(), a.deleteCommand()} {
		cmd.GroupID = groupRender
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{a.dialectsCommand(), a.configCommand()} {
		cmd.GroupID = groupUtility
		root.AddCommand(cmd)
	}
	return root
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return cli.ExitCode(stderr, root.Execute())
}

// sqlConfig builds the rendering configuration.
func (a *app) sqlConfig() (*sqltree.Config, error) {
	cfg, err := a.cfg.SQLConfig(a.dialect)
	if err != nil {
		return nil, cli.ConfigError("resolving dialect", err)
	}
	return cfg, nil
}

// table loads the schema and returns one of its tables.
func (a *app) table(name, alias string) (*sqltree.Table, error) {
	schema, err := a.cfg.Schema()
	if err != nil {
		return nil, cli.SchemaError("loading tables", err)
	}
	t, err := schema.TryTable(name, alias)
	if err != nil {
		return nil, cli.SchemaError("resolving table", err)
	}
	return t, nil
}

// where parses filters and combines them with AND. ok is false when no
// filter is given.
func (a *app) where(t *sqltree.Table, filters []string) (cond sqltree.Expr[bool], ok bool, err error) {
	conds := make([]sqltree.Expr[bool], 0, len(filters))
	for _, f := range filters {
		c, err := cli.ParseCondition(t, f)
		if err != nil {
			return cond, false, cli.GeneralError("parsing filter", err)
		}
		conds = append(conds, c)
	}
	return sqltree.CombineConditions(conds, expr.And, sqltree.True()), len(conds) > 0, nil
}

// write renders e and prints it in the selected format.
func (a *app) write(cfg *sqltree.Config, e expr.Expression) error {
	pretty := a.pretty || a.cfg.Format.Pretty
	sql, args, err := cfg.Format(e, pretty, a.cfg.Format.Indent)
	if err != nil {
		return cli.RenderError("rendering", err)
	}
	a.logger.Debug("rendered", "dialect", cfg.Dialect().Name(), "args", len(args))
	return cli.NewRendered(cfg.Dialect().Name(), sql, args).Write(a.out, a.output)
}
