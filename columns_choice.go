package hxtable

import "reflect"

// OptCol maps the resolved value through a fixed set of choices.
//
// Absent values reach the coercion and the lookup as nil, so a nil key in
// choices gives them their own label. Values with no entry, and values that
// cannot be map keys, display the default.
type OptCol struct {
	Base
	choices map[any]string
	def     string
	coerce  func(any) any
}

// NewOptCol creates a choice column. The choices map is copied.
func NewOptCol(heading string, choices map[any]string, opts ...ColumnOption) *OptCol {
	c := &OptCol{Base: newBase(heading, true, opts), choices: make(map[any]string, len(choices))}
	for k, v := range choices {
		c.choices[k] = v
	}
	return c
}

// Default sets the label for values with no entry.
func (c *OptCol) Default(label string) *OptCol {
	c.def = label
	return c
}

// DefaultKey uses the label of an existing choice as the default. It does
// nothing when key has no entry.
func (c *OptCol) DefaultKey(key any) *OptCol {
	if label, ok := c.lookup(key); ok {
		c.def = label
	}
	return c
}

// Coerce sets a function applied to the value before the lookup.
func (c *OptCol) Coerce(fn func(any) any) *OptCol {
	c.coerce = fn
	return c
}

// CellContents implements Column.
func (c *OptCol) CellContents(env *Env, row any, key string) (string, error) {
	v, ok, err := c.Value(env, row, key)
	if err != nil {
		return "", err
	}
	if !ok {
		v = nil
	}
	if c.coerce != nil {
		v = c.coerce(v)
	}
	label, ok := c.lookup(v)
	if !ok {
		label = c.def
	}
	return Text(label), nil
}

func (c *OptCol) lookup(v any) (string, bool) {
	if v != nil && !reflect.ValueOf(v).Comparable() {
		return "", false
	}
	label, ok := c.choices[v]
	return label, ok
}

// BoolCol displays "Yes" or "No" by the truthiness of the value. Absent,
// nil, zero and empty values are all "No".
type BoolCol struct {
	OptCol
}

// NewBoolCol creates a boolean column.
func NewBoolCol(heading string, opts ...ColumnOption) *BoolCol {
	c := &BoolCol{OptCol: *NewOptCol(heading, map[any]string{true: "Yes", false: "No"}, opts...)}
	c.coerce = func(v any) any { return truthy(v) }
	return c
}

// Labels replaces the "Yes" and "No" labels.
func (c *BoolCol) Labels(yes, no string) *BoolCol {
	c.choices[true] = yes
	c.choices[false] = no
	return c
}

// BoolNACol is a BoolCol that keeps nil apart from false: absent and nil
// values display "N/A".
type BoolNACol struct {
	BoolCol
}

// NewBoolNACol creates a boolean column with a not-applicable label.
func NewBoolNACol(heading string, opts ...ColumnOption) *BoolNACol {
	c := &BoolNACol{BoolCol: *NewBoolCol(heading, opts...)}
	c.choices[nil] = "N/A"
	c.coerce = func(v any) any {
		if isNull(v) {
			return nil
		}
		return truthy(v)
	}
	return c
}

// Labels replaces the "Yes" and "No" labels.
func (c *BoolNACol) Labels(yes, no string) *BoolNACol {
	c.BoolCol.Labels(yes, no)
	return c
}

// NALabel replaces the "N/A" label.
func (c *BoolNACol) NALabel(label string) *BoolNACol {
	c.choices[nil] = label
	return c
}
