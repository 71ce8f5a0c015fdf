package hxtable

import (
	"fmt"
	"sync/atomic"
)

// Column renders one field of each row.
//
// Every column type embeds Base, which provides ColumnSpec. CellContents
// returns the inner HTML of the cell; the table wraps it in a <td> carrying
// the column's cell attributes. The result is trusted markup, so
// implementations must escape anything taken from the row (Text does this).
//
// A custom column is a struct embedding Base:
//
//	type StatusCol struct{ hxtable.Base }
//
//	func (c *StatusCol) CellContents(env *hxtable.Env, row any, key string) (string, error) {
//	    v, _, err := c.Value(env, row, key)
//	    if err != nil {
//	        return "", err
//	    }
//	    return hxtable.Element("span", hxtable.Attrs{"class": "status"}, fmt.Sprint(v)), nil
//	}
type Column interface {
	ColumnSpec() *Base
	CellContents(env *Env, row any, key string) (string, error)
}

// declared is the process-wide declaration counter. Each column draws its
// order from it once, at construction; it is never reset.
var declared atomic.Uint64

// Base holds what every column shares: heading, access path, flags,
// attributes and declaration order.
type Base struct {
	heading  string
	path     Path
	sortable bool
	visible  bool
	attrs    Attrs
	thAttrs  Attrs
	tdAttrs  Attrs
	order    uint64
}

// ColumnOption configures a column at construction.
type ColumnOption func(*Base)

// NewBase returns a Base with a fresh declaration order. Custom column
// constructors call it:
//
//	func NewStatusCol(heading string, opts ...hxtable.ColumnOption) *StatusCol {
//	    return &StatusCol{Base: hxtable.NewBase(heading, opts...)}
//	}
func NewBase(heading string, opts ...ColumnOption) Base {
	return newBase(heading, true, opts)
}

func newBase(heading string, sortable bool, opts []ColumnOption) Base {
	b := Base{
		heading:  heading,
		sortable: sortable,
		visible:  true,
		order:    declared.Add(1),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Attr sets the column's access path from a dotted string. Without it the
// column reads the key it is registered under.
func Attr(dotted string) ColumnOption {
	return func(b *Base) {
		b.path = ParsePath(dotted)
	}
}

// AttrPath sets the access path from explicit segments. Use it when a key
// contains a dot.
func AttrPath(segments ...string) ColumnOption {
	return func(b *Base) {
		b.path = append(Path(nil), segments...)
	}
}

// Sortable overrides whether the column offers a sort link.
func Sortable(sortable bool) ColumnOption {
	return func(b *Base) {
		b.sortable = sortable
	}
}

// Hidden keeps the column in the definition but out of the output.
func Hidden() ColumnOption {
	return func(b *Base) {
		b.visible = false
	}
}

// ColumnAttrs sets attributes applied to both the header and the cells.
func ColumnAttrs(attrs Attrs) ColumnOption {
	return func(b *Base) {
		b.attrs = attrs.Merge(nil)
	}
}

// HeaderAttrs sets <th> attributes. They win over ColumnAttrs.
func HeaderAttrs(attrs Attrs) ColumnOption {
	return func(b *Base) {
		b.thAttrs = attrs.Merge(nil)
	}
}

// CellAttrs sets <td> attributes. They win over ColumnAttrs.
func CellAttrs(attrs Attrs) ColumnOption {
	return func(b *Base) {
		b.tdAttrs = attrs.Merge(nil)
	}
}

// ColumnSpec implements Column.
func (b *Base) ColumnSpec() *Base { return b }

func (b *Base) Heading() string { return b.heading }
func (b *Base) Path() Path      { return b.path }
func (b *Base) Sortable() bool  { return b.sortable }
func (b *Base) Visible() bool   { return b.visible }
func (b *Base) Order() uint64   { return b.order }

// HeaderAttributes returns the <th> attributes.
func (b *Base) HeaderAttributes() Attrs {
	return b.attrs.Merge(b.thAttrs)
}

// CellAttributes returns the <td> attributes.
func (b *Base) CellAttributes() Attrs {
	return b.attrs.Merge(b.tdAttrs)
}

// EffectivePath returns the column's own path, or key split on dots when
// the column has none.
func (b *Base) EffectivePath(key string) Path {
	if len(b.path) > 0 {
		return b.path
	}
	return ParsePath(key)
}

// Value resolves the column's effective path against row.
func (b *Base) Value(env *Env, row any, key string) (any, bool, error) {
	return env.Resolve(row, b.EffectivePath(key))
}

// Col displays the resolved value as escaped text. Absent values display
// as an empty cell.
type Col struct {
	Base
}

// NewCol creates a plain text column.
func NewCol(heading string, opts ...ColumnOption) *Col {
	return &Col{Base: newBase(heading, true, opts)}
}

// CellContents implements Column.
func (c *Col) CellContents(env *Env, row any, key string) (string, error) {
	v, _, err := c.Value(env, row, key)
	if err != nil {
		return "", err
	}
	return Text(v), nil
}

// renderCell renders the complete <td> for one column and row.
func renderCell(env *Env, key string, col Column, row any) (string, error) {
	contents, err := col.CellContents(env, row, key)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", key, err)
	}
	return RawElement("td", col.ColumnSpec().CellAttributes(), contents), nil
}

// renderHeading renders the text of a <th>, translated and escaped.
func renderHeading(env *Env, col Column) string {
	return Text(env.Translate(col.ColumnSpec().Heading()))
}
