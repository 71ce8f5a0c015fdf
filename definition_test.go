package hxtable

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclarationOrder(t *testing.T) {
	first := NewCol("First")
	second := NewCol("Second")
	third := NewCol("Third")
	assert.Less(t, first.Order(), second.Order())
	assert.Less(t, second.Order(), third.Order())

	// Added out of order, laid out as constructed.
	d := New().Add("c", third).Add("a", first).Add("b", second)
	assert.Equal(t, []string{"a", "b", "c"}, d.Keys())
}

func TestAddReplacesInPlace(t *testing.T) {
	d := New().
		Add("a", NewCol("A")).
		Add("b", NewCol("B")).
		Add("c", NewCol("C"))

	replacement := NewCol("New A")
	d.Add("a", replacement)

	assert.Equal(t, []string{"a", "b", "c"}, d.Keys())
	col, ok := d.Column("a")
	require.True(t, ok)
	assert.Same(t, replacement, col)
	assert.Equal(t, 3, d.Len())
}

func TestAddNilPanics(t *testing.T) {
	assert.Panics(t, func() { New().Add("a", nil) })
}

func TestExtend(t *testing.T) {
	base := New(Classes("base")).
		Add("name", NewCol("Name")).
		Add("created", NewCol("Created"))
	other := New().
		Add("owner", NewCol("Owner")).
		Add("name", NewCol("Other name"))

	// Own columns follow the inherited ones even when constructed earlier,
	// and sort among themselves by construction.
	early := NewCol("Early")

	child := Extend(base, other).
		Add("extra", NewCol("Extra")).
		Add("early", early).
		Add("created", NewCol("Made"))

	assert.Equal(t, []string{"name", "created", "owner", "early", "extra"}, child.Keys())

	name, _ := child.Column("name")
	assert.Equal(t, "Other name", name.ColumnSpec().Heading())
	created, _ := child.Column("created")
	assert.Equal(t, "Made", created.ColumnSpec().Heading())

	assert.Equal(t, []string{"base"}, child.Options().Classes)
	assert.Equal(t, []string{"name", "created"}, base.Keys(), "base is unchanged")
}

func TestExtendOwnColumnsSorted(t *testing.T) {
	base := New().Add("a", NewCol("A"))
	x := NewCol("X")
	y := NewCol("Y")

	child := Extend(base).Add("y", y).Add("x", x)
	assert.Equal(t, []string{"a", "x", "y"}, child.Keys())
}

func TestColumnsIterator(t *testing.T) {
	d := New().Add("a", NewCol("A")).Add("b", NewCol("B"))

	var keys []string
	for key, col := range d.Columns() {
		keys = append(keys, key+":"+col.ColumnSpec().Heading())
	}
	assert.Equal(t, []string{"a:A", "b:B"}, keys)

	_, ok := d.Column("missing")
	assert.False(t, ok)
}

func TestDefinitionOptions(t *testing.T) {
	d := New(Classes("a")).With(TableID("items"), NoItems("Empty"))

	opts := d.Options()
	assert.Equal(t, []string{"a"}, opts.Classes)
	assert.Equal(t, "items", opts.ID)
	assert.Equal(t, "Empty", opts.NoItems)

	// The copy is detached.
	opts.Classes[0] = "changed"
	assert.Equal(t, []string{"a"}, d.Options().Classes)

	table := d.Table(nil, Classes("b"))
	assert.Equal(t, []string{"a", "b"}, table.Options().Classes)
	assert.Equal(t, []string{"a"}, d.Options().Classes)
}

func TestTableSnapshotsColumns(t *testing.T) {
	d := New().Add("a", NewCol("A"))
	table := d.Table(Rows([]map[string]any{{"a": 1, "b": 2}}))
	d.Add("b", NewCol("B"))

	result, err := TestRender(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, result.Headers())
	assert.True(t, slices.Equal(d.Keys(), []string{"a", "b"}))
}
