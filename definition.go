package hxtable

import (
	"fmt"
	"iter"
)

// Definition is an ordered set of named columns plus default Options.
//
//	items := hxtable.New(hxtable.Classes("items")).
//	    Add("name", hxtable.NewCol("Name")).
//	    Add("created", hxtable.NewDateCol("Created")).
//	    Add("view", hxtable.NewLinkCol("View", "item.view").Param("id", "id"))
//
// Column order is declaration order: columns inherited through Extend come
// first, in the order of their bases, followed by the definition's own
// columns sorted by when each column was constructed. Replacing a key keeps
// its position.
//
// A Definition is not safe for concurrent modification. Once built, any
// number of goroutines may render tables from it.
type Definition struct {
	entries   []entry
	index     map[string]int
	inherited int
	opts      Options
}

type entry struct {
	key string
	col Column
}

// New creates an empty definition with the given default options.
func New(opts ...Option) *Definition {
	d := &Definition{index: make(map[string]int), opts: defaultOptions()}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// Extend creates a definition inheriting the columns of bases, earlier bases
// first. A key that appears in more than one base keeps the position of its
// first appearance and the column of its last. The default options are
// copied from the first base.
func Extend(bases ...*Definition) *Definition {
	d := New()
	if len(bases) > 0 && bases[0] != nil {
		d.opts = bases[0].opts.clone()
	}
	for _, base := range bases {
		if base == nil {
			continue
		}
		for _, e := range base.entries {
			if i, ok := d.index[e.key]; ok {
				d.entries[i].col = e.col
				continue
			}
			d.index[e.key] = len(d.entries)
			d.entries = append(d.entries, e)
		}
	}
	d.inherited = len(d.entries)
	return d
}

// Add registers col under key and returns d. A key already present is
// replaced in place. A new key is placed among the definition's own columns
// by the column's declaration order, so columns constructed up front and
// added in any order still appear in the order they were written.
//
// Add panics if col is nil.
func (d *Definition) Add(key string, col Column) *Definition {
	if col == nil {
		panic(fmt.Sprintf("hxtable: Add(%q) with nil column", key))
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].col = col
		return d
	}

	order := col.ColumnSpec().Order()
	pos := len(d.entries)
	for pos > d.inherited && d.entries[pos-1].col.ColumnSpec().Order() > order {
		pos--
	}
	d.entries = append(d.entries, entry{})
	copy(d.entries[pos+1:], d.entries[pos:])
	d.entries[pos] = entry{key: key, col: col}
	for i := pos; i < len(d.entries); i++ {
		d.index[d.entries[i].key] = i
	}
	return d
}

// With applies default options and returns d.
func (d *Definition) With(opts ...Option) *Definition {
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

// Keys returns the column keys in render order.
func (d *Definition) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Column returns the column registered under key.
func (d *Definition) Column(key string) (Column, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].col, true
}

// Columns iterates over the columns in render order.
func (d *Definition) Columns() iter.Seq2[string, Column] {
	return func(yield func(string, Column) bool) {
		for _, e := range d.entries {
			if !yield(e.key, e.col) {
				return
			}
		}
	}
}

// Len returns the number of columns, hidden ones included.
func (d *Definition) Len() int { return len(d.entries) }

// Options returns a copy of the definition's default options.
func (d *Definition) Options() Options { return d.opts.clone() }

// Table creates a table over rows. The rows are read once per render.
func (d *Definition) Table(rows iter.Seq[any], opts ...Option) *Table {
	t := &Table{
		columns: append([]entry(nil), d.entries...),
		rows:    rows,
		opts:    d.opts.clone(),
	}
	for _, opt := range opts {
		opt(&t.opts)
	}
	return t
}
