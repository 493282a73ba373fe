// Package main provides a CLI that renders SQL from a table configuration.
//
// The CLI supports:
//   - dialects: List the dialects and their pagination syntax
//   - select: Render a SELECT over a configured table
//   - count: Render a row count of a filtered table
//   - delete: Render a DELETE of a configured table
//   - config show: Print the effective configuration
//
// Tables, the default dialect and formatting options are read from
// sqltree.yaml, discovered upwards from the working directory, and may be
// overridden with SQLTREE_* environment variables.
//
// Usage:
//
//	sqltree [flags] <command>
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
