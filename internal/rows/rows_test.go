package rows

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsJSON = `{"items": [
  {"id": 1, "name": "Widget", "active": true},
  {"id": 2, "name": "Gadget", "active": false}
]}`

const itemsYAML = `
items:
  - {id: 1, name: Widget, active: true}
  - {id: 2, name: Gadget, active: false}
`

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("rows.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("ROWS.YML"))
	assert.Equal(t, FormatJSON, FormatFor("rows.json"))
	assert.Equal(t, FormatJSON, FormatFor("rows"))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  string
		wantErr bool
	}{
		{name: "json", input: itemsJSON, format: FormatJSON},
		{name: "yaml", input: itemsYAML, format: FormatYAML},
		{name: "bad json", input: "{", format: FormatJSON, wantErr: true},
		{name: "bad yaml", input: "items: [", format: FormatYAML, wantErr: true},
		{name: "unknown format", input: "{}", format: "toml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load(strings.NewReader(tt.input), tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			m, ok := doc.(map[string]any)
			require.True(t, ok, "got %T", doc)
			items, ok := m["items"].([]any)
			require.True(t, ok)
			require.Len(t, items, 2)
			first := items[0].(map[string]any)
			assert.Equal(t, "Widget", first["name"])
			assert.Equal(t, float64(1), first["id"])
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	doc, err := Load(strings.NewReader("  \n"), FormatJSON)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.yml")
	require.NoError(t, os.WriteFile(path, []byte(itemsYAML), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Contains(t, doc, "items")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestQuery(t *testing.T) {
	doc, err := Load(strings.NewReader(itemsJSON), FormatJSON)
	require.NoError(t, err)

	t.Run("array result is unwrapped", func(t *testing.T) {
		got, err := Query(doc, ".items")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("stream of rows", func(t *testing.T) {
		got, err := Query(doc, ".items[] | select(.active)")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Widget", got[0].(map[string]any)["name"])
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := Query(doc, ".items[")
		assert.ErrorContains(t, err, "invalid --query")
	})

	t.Run("runtime error", func(t *testing.T) {
		_, err := Query(doc, ".items[0].name | .x")
		assert.ErrorContains(t, err, "query error")
	})
}

func TestSelect(t *testing.T) {
	doc, err := Load(strings.NewReader(itemsJSON), FormatJSON)
	require.NoError(t, err)

	got, err := Select(doc, "$.items[*].name")
	require.NoError(t, err)
	assert.Equal(t, []any{"Widget", "Gadget"}, got)

	got, err = Select(doc, "items")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Select(doc, "  ")
	assert.Error(t, err)
}

func TestSeq(t *testing.T) {
	seq, err := Seq([]any{map[string]any{"a": 1}, map[string]any{"a": 2}})
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 2)

	seq, err = Seq(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 1)

	seq, err = Seq(nil)
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(seq))

	_, err = Seq("text")
	assert.ErrorIs(t, err, ErrNotRows)
}
