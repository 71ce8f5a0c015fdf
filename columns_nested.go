package hxtable

import (
	"fmt"
	"iter"
)

// NestedCol renders the resolved value as the rows of a sub-table. The
// sub-table's HTML is placed in the cell unescaped.
//
// The sub-table takes its presentation options (classes, empty text) from
// its own definition and TableOptions, and its collaborators (resolver,
// formatter, translator, logger) from the outer table. An absent value
// renders the sub-table with no rows.
type NestedCol struct {
	Base
	sub  *Definition
	opts []Option
}

// NewNestedCol creates a column rendering sub for each row.
func NewNestedCol(heading string, sub *Definition, opts ...ColumnOption) *NestedCol {
	if sub == nil {
		panic("hxtable: NewNestedCol requires a sub-table definition")
	}
	return &NestedCol{Base: newBase(heading, true, opts), sub: sub}
}

// TableOptions sets options for every sub-table instance.
func (c *NestedCol) TableOptions(opts ...Option) *NestedCol {
	c.opts = append(c.opts, opts...)
	return c
}

// CellContents implements Column.
func (c *NestedCol) CellContents(env *Env, row any, key string) (string, error) {
	v, ok, err := c.Value(env, row, key)
	if err != nil {
		return "", err
	}
	var rows iter.Seq[any]
	if ok {
		rows, err = RowsOf(v)
		if err != nil {
			return "", fmt.Errorf("nested rows: %w", err)
		}
	}
	return c.sub.Table(rows, c.opts...).render(env)
}
