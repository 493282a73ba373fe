package main

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/sqltree/internal/cli"
)

const testConfig = "testdata/sqltree.yaml"

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestRender(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		golden string
		args   []string
	}{
		{"dialects", []string{"dialects"}},
		{"select_postgres", []string{"select", "employees", "--alias", "e",
			"--columns", "name,salary", "--where", "salary>=100",
			"--order-by", "salary:desc", "--limit", "2", "--dialect", "postgres"}},
		{"select_pretty", []string{"select", "employees", "--alias", "e",
			"-w", "job=engineer", "-w", "manager_id is not null", "--offset", "1", "--pretty"}},
		{"select_yaml", []string{"select", "departments", "-c", "name", "--limit", "5", "-o", "yaml"}},
		{"count", []string{"count", "employees", "--where", "job=engineer"}},
		{"delete_mysql", []string{"delete", "employees", "--alias", "e",
			"--where", "manager_id is null", "--dialect", "mysql"}},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			stdout, stderr, code := execute(t, append([]string{"--config", testConfig}, tt.args...)...)
			require.Equal(t, cli.ExitSuccess, code, stderr)
			g.Assert(t, tt.golden, []byte(stdout))
		})
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		code    int
		message string
	}{
		{"missing config", []string{"--config", "testdata/missing.yaml", "select", "employees"}, cli.ExitConfig, "config file not found"},
		{"unknown dialect", []string{"--config", testConfig, "--dialect", "oracle", "select", "employees"}, cli.ExitConfig, "unknown dialect"},
		{"unknown table", []string{"--config", testConfig, "select", "payroll"}, cli.ExitSchema, "table not found"},
		{"unknown column", []string{"--config", testConfig, "select", "employees", "-c", "bonus"}, cli.ExitSchema, "column not found"},
		{"bad filter", []string{"--config", testConfig, "select", "employees", "-w", "salary>=lots"}, cli.ExitGeneral, "parsing filter"},
		{"bad order", []string{"--config", testConfig, "select", "employees", "--order-by", "salary:sideways"}, cli.ExitGeneral, "direction must be asc or desc"},
		{"ansi pagination", []string{"--config", testConfig, "--dialect", "ansi", "select", "employees", "--limit", "1"}, cli.ExitRender, "LIMIT/OFFSET"},
		{"mssql without order", []string{"--config", testConfig, "--dialect", "mssql", "select", "employees", "--limit", "1"}, cli.ExitRender, "ORDER BY"},
		{"unfiltered delete", []string{"--config", testConfig, "delete", "employees"}, cli.ExitGeneral, "pass --where or --all"},
		{"unknown output", []string{"--config", testConfig, "-o", "json", "select", "employees"}, cli.ExitGeneral, "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := execute(t, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr, "Error:")
			assert.Contains(t, stderr, tt.message)
		})
	}
}

func TestDeleteAll(t *testing.T) {
	stdout, stderr, code := execute(t, "--config", testConfig, "delete", "departments", "--all")
	require.Equal(t, cli.ExitSuccess, code, stderr)
	assert.Equal(t, "DELETE FROM departments\n", stdout)
}

func TestSelectDistinct(t *testing.T) {
	stdout, stderr, code := execute(t, "--config", testConfig, "select", "employees", "-c", "job", "--distinct")
	require.Equal(t, cli.ExitSuccess, code, stderr)
	assert.Equal(t, "SELECT DISTINCT employees.job FROM employees\n", stdout)
}

func TestDialectFromEnvironment(t *testing.T) {
	t.Setenv("SQLTREE_DIALECT", "postgres")

	stdout, stderr, code := execute(t, "--config", testConfig, "count", "departments")
	require.Equal(t, cli.ExitSuccess, code, stderr)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT * FROM departments) _t1\n", stdout)
}

func TestConfigShow(t *testing.T) {
	stdout, stderr, code := execute(t, "--config", testConfig, "config", "show", "--source")
	require.Equal(t, cli.ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Config file: testdata/sqltree.yaml")
	assert.Contains(t, stdout, "dialect: sqlite")
	assert.Contains(t, stdout, "name: employees")
	assert.Contains(t, stdout, "primary_key: true")
	assert.Contains(t, stdout, "indent: 2")
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, code := execute(t, "--config", testConfig, "-v", "count", "employees")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stderr, "configuration loaded")
	assert.Contains(t, stderr, "dialect=sqlite")
}
