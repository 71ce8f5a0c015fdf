package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableYAML = `
table:
  classes: [table]
  sort: {enabled: true, base_url: /items}
columns:
  - {key: name, heading: Name}
  - {key: active, type: bool, heading: Active}
  - {key: view, type: link, heading: View, endpoint: item, params: {id: id}}
routes:
  item: /items/{id}
`

const rowsJSON = `{"items": [
  {"id": 1, "name": "Widget", "active": true},
  {"id": 2, "name": "<Gadget>", "active": false}
]}`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "table.yaml", tableYAML)
	data := writeFile(t, dir, "rows.json", rowsJSON)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "query",
			args:     []string{"--query", ".items"},
			contains: []string{`<table class="table">`, "<td>Widget</td>", "<td>&lt;Gadget&gt;</td>", `<a href="/items/2">View</a>`},
		},
		{
			name:     "query filter",
			args:     []string{"--query", ".items[] | select(.active)"},
			contains: []string{"<td>Widget</td>"},
			excludes: []string{"Gadget"},
		},
		{
			name:     "jsonpath",
			args:     []string{"--jsonpath", "$.items[*]"},
			contains: []string{"<td>Widget</td>", "<td>No</td>"},
		},
		{
			name:     "sort",
			args:     []string{"--query", ".items", "--sort", "name", "--desc"},
			contains: []string{`href="/items?direction=asc&amp;sort=name"`, "↑"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--config", cfg, "--rows", data}, tt.args...)
			out, _, err := execute(t, args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "table.yaml", tableYAML)
	data := writeFile(t, dir, "rows.yaml", "- {id: 3, name: Sprocket, active: true}\n")
	out := filepath.Join(dir, "out.html")

	stdout, _, err := execute(t, "render", "-c", cfg, "-r", data, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<td>Sprocket</td>")
}

func TestRenderFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "table.yaml", tableYAML)
	data := writeFile(t, dir, "rows.json", "[1, 2]")
	out := filepath.Join(dir, "out.html")

	_, _, err := execute(t, "render", "-c", cfg, "-r", data, "-o", out)
	require.Error(t, err)

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "table.yaml", tableYAML)
	data := writeFile(t, dir, "rows.json", rowsJSON)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing config flag", args: []string{"render", "--rows", data}, want: "config"},
		{name: "bad query", args: []string{"render", "-c", cfg, "-r", data, "--query", ".["}, want: "invalid --query"},
		{name: "not rows", args: []string{"render", "-c", cfg, "-r", data, "--jsonpath", "$.items[0].name"}, want: "not a list of rows"},
		{name: "exclusive selectors", args: []string{"render", "-c", cfg, "-r", data, "--query", ".", "--jsonpath", "$"}, want: "none of the others"},
		{name: "bad log format", args: []string{"--log-format", "xml", "version"}, want: "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "item.go", "package store\n\n//hxtable:row\ntype Item struct {\n\tName string\n}\n")

	out, _, err := execute(t, "generate", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "item_hxt.go")

	_, err = os.Stat(filepath.Join(dir, "item_hxt.go"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hxtable version "))
}
