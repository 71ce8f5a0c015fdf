package hxtable

// DateCol formats the value as a date with the table's TemporalFormatter.
// Absent, nil and zero values display as an empty cell and never reach the
// formatter.
type DateCol struct {
	Base
	pattern string
}

// NewDateCol creates a date column using the "short" pattern.
func NewDateCol(heading string, opts ...ColumnOption) *DateCol {
	return &DateCol{Base: newBase(heading, true, opts), pattern: PatternShort}
}

// Pattern sets the format pattern passed to the formatter.
func (c *DateCol) Pattern(pattern string) *DateCol {
	c.pattern = pattern
	return c
}

// CellContents implements Column.
func (c *DateCol) CellContents(env *Env, row any, key string) (string, error) {
	return formatTemporal(env, &c.Base, row, key, c.pattern, false)
}

// DatetimeCol is DateCol for timestamps.
type DatetimeCol struct {
	Base
	pattern string
}

// NewDatetimeCol creates a datetime column using the "short" pattern.
func NewDatetimeCol(heading string, opts ...ColumnOption) *DatetimeCol {
	return &DatetimeCol{Base: newBase(heading, true, opts), pattern: PatternShort}
}

// Pattern sets the format pattern passed to the formatter.
func (c *DatetimeCol) Pattern(pattern string) *DatetimeCol {
	c.pattern = pattern
	return c
}

// CellContents implements Column.
func (c *DatetimeCol) CellContents(env *Env, row any, key string) (string, error) {
	return formatTemporal(env, &c.Base, row, key, c.pattern, true)
}

func formatTemporal(env *Env, b *Base, row any, key, pattern string, datetime bool) (string, error) {
	v, ok, err := b.Value(env, row, key)
	if err != nil || !ok || !truthy(v) {
		return "", err
	}
	if env == nil || env.Formatter == nil {
		return "", ErrNoFormatter
	}
	var s string
	if datetime {
		s, err = env.Formatter.FormatDateTime(v, pattern)
	} else {
		s, err = env.Formatter.FormatDate(v, pattern)
	}
	if err != nil {
		return "", err
	}
	return Text(s), nil
}
