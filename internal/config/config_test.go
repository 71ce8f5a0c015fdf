package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm/hxtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsConfig = `
table:
  classes: [table, striped]
  id: items
  border: true
  no_items: Nothing here
  sort:
    enabled: true
    base_url: /items
    by: name
  locale: en-US
  timezone: UTC
routes:
  item.view: /items/{id}
  item.delete: POST /items/{id}/delete
columns:
  - key: name
    heading: Name
  - key: status
    type: opt
    heading: Status
    choices: {a: Active, d: Disabled}
    default: Unknown
  - key: verified
    type: boolna
    heading: Verified
    na: "-"
  - key: created
    type: date
    heading: Created
    pattern: "%Y-%m-%d"
  - key: view
    type: link
    heading: View
    endpoint: item.view
    params: {id: id}
  - key: delete
    type: button
    heading: Delete
    endpoint: item.delete
    params: {id: id}
    hidden_fields: {csrf: token}
  - key: tags
    type: nested
    heading: Tags
    columns:
      - {key: label, heading: Label}
`

func TestLoadFromPath(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "valid", content: itemsConfig},
		{name: "invalid yaml", content: "columns: [yaml", wantErr: true},
		{name: "no columns", content: "table: {id: x}", wantErr: true},
		{name: "missing key", content: "columns: [{heading: Name}]", wantErr: true},
		{name: "duplicate key", content: "columns: [{key: a}, {key: a}]", wantErr: true},
		{name: "unknown type", content: "columns: [{key: a, type: money}]", wantErr: true},
		{name: "link without endpoint", content: "columns: [{key: a, type: link}]", wantErr: true},
		{name: "attr and path", content: "columns: [{key: a, attr: x, path: [y]}]", wantErr: true},
		{name: "sort without base", content: "table: {sort: {enabled: true}}\ncolumns: [{key: a}]", wantErr: true},
		{name: "empty nested", content: "columns: [{key: a, type: nested}]", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "table.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := LoadFromPath(path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild(t *testing.T) {
	cfg, err := Parse([]byte(itemsConfig))
	require.NoError(t, err)

	def, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "status", "verified", "created", "view", "delete", "tags"}, def.Keys())

	rows := []any{
		map[string]any{
			"id": 7, "name": "Widget", "status": "a", "verified": nil,
			"created": "2024-03-05T10:00:00Z",
			"tags":    []any{map[string]any{"label": "red"}},
		},
		map[string]any{"id": 8, "name": "Gadget", "status": "x", "verified": false},
	}
	result, err := hxtable.TestRender(def.Table(hxtable.Rows(rows)))
	require.NoError(t, err)

	assert.Equal(t, []string{"↓Name", "Status", "Verified", "Created", "View", "Delete", "Tags"}, result.Headers())
	got := result.Rows()
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Widget", "Active", "-", "2024-03-05", "View", "Delete", "Label red"}, got[0])
	assert.Equal(t, []string{"Gadget", "Unknown", "No", "", "View", "Delete", "No Items"}, got[1])

	id, _ := result.TableAttr("id")
	assert.Equal(t, "items", id)
	assert.True(t, result.HTMLContainsAll(
		`<a href="/items/7">View</a>`,
		`<form action="/items/7/delete" method="post"><input name="csrf" type="hidden" value="token">`,
		`class="table striped"`,
		`border="1"`,
	))
	assert.Contains(t, result.Links(), "/items?direction=desc&sort=name")
}

func TestBuildEmpty(t *testing.T) {
	cfg, err := Parse([]byte(itemsConfig))
	require.NoError(t, err)
	def, err := cfg.Build()
	require.NoError(t, err)

	result, err := hxtable.TestRender(def.Table(nil))
	require.NoError(t, err)
	assert.True(t, result.IsEmptyState())
	assert.Equal(t, "Nothing here", result.EmptyText())
}

func TestBuildBadLocale(t *testing.T) {
	cfg, err := Parse([]byte("table: {locale: '!!'}\ncolumns: [{key: a}]"))
	require.NoError(t, err)
	_, err = cfg.Build()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildExternalSanitizesURL(t *testing.T) {
	cfg, err := Parse([]byte("columns: [{key: name, type: external, url: site}]"))
	require.NoError(t, err)
	def, err := cfg.Build()
	require.NoError(t, err)

	result, err := hxtable.TestRender(def.Table(hxtable.Rows([]any{
		map[string]any{"name": "x", "site": "javascript:alert(1)"},
	})))
	require.NoError(t, err)
	assert.Equal(t, []string{"about:invalid#TemplFailedSanitizationURL"}, result.Links())
}
