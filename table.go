package hxtable

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Table is a definition bound to rows and per-instance options. It renders
// to a single HTML fragment: a <table>, or a <p> holding the NoItems text
// when there are no rows.
//
// Table implements templ.Component, so it can be used directly in templ
// templates:
//
//	@itemsTable.Table(hxtable.Rows(items), hxtable.SortBy(sort.Key, sort.Reverse))
//
// Any error aborts the render; no partial HTML is written.
type Table struct {
	columns []entry
	rows    iter.Seq[any]
	opts    Options
}

// Options returns the table's effective options.
func (t *Table) Options() Options { return t.opts.clone() }

// HTML renders the table.
func (t *Table) HTML() (string, error) {
	return t.render(nil)
}

// Render implements templ.Component. The context is passed to the Env
// columns receive.
func (t *Table) Render(ctx context.Context, w io.Writer) error {
	out, err := t.render(&Env{Context: ctx})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// String renders the table, returning the error text on failure.
func (t *Table) String() string {
	out, err := t.HTML()
	if err != nil {
		return err.Error()
	}
	return out
}

// env builds the render environment from the table's options. Fields set
// on outer override them; nested tables use this to share the collaborators
// of the table they sit in.
func (t *Table) env(outer *Env) *Env {
	env := &Env{
		Resolver:   t.opts.Resolver,
		Formatter:  t.opts.Formatter,
		Translator: t.opts.Translator,
		Logger:     t.opts.Logger,
	}
	if outer == nil {
		return env
	}
	env.Context = outer.Context
	if outer.Resolver != nil {
		env.Resolver = outer.Resolver
	}
	if outer.Formatter != nil {
		env.Formatter = outer.Formatter
	}
	if outer.Translator != nil {
		env.Translator = outer.Translator
	}
	if outer.Logger != nil {
		env.Logger = outer.Logger
	}
	return env
}

func (t *Table) render(outer *Env) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}
	env := t.env(outer)
	ctx := env.context()

	var body []string
	if t.rows != nil {
		for row := range t.rows {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			tr, err := t.renderRow(env, row)
			if err != nil {
				return "", err
			}
			body = append(body, tr)
		}
	}

	if len(body) == 0 && !t.opts.AllowEmpty {
		env.logger().Debug("hxtable: no rows, rendering empty-state text")
		return Element("p", nil, env.Translate(t.opts.NoItems)), nil
	}

	head, err := t.renderHead(env)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(RawElement("table", t.tableAttrs()), "</table>"))
	sb.WriteByte('\n')
	sb.WriteString(head)
	sb.WriteByte('\n')
	if len(body) == 0 {
		sb.WriteString("<tbody></tbody>")
	} else {
		sb.WriteString("<tbody>\n")
		sb.WriteString(strings.Join(body, "\n"))
		sb.WriteString("\n</tbody>")
	}
	sb.WriteString("\n</table>")
	return sb.String(), nil
}

// validate reports configuration errors before any row is read.
func (t *Table) validate() error {
	if t.opts.AllowSort && t.opts.SortURL == nil {
		return ErrSortURLMissing
	}
	if t.opts.SortBy != "" && !t.hasColumn(t.opts.SortBy) {
		return fmt.Errorf("%w: sort key %q", ErrUnknownColumn, t.opts.SortBy)
	}
	return nil
}

func (t *Table) hasColumn(key string) bool {
	for _, e := range t.columns {
		if e.key == key {
			return true
		}
	}
	return false
}

func (t *Table) tableAttrs() Attrs {
	attrs := Attrs{}
	if t.opts.Border {
		attrs["border"] = "1"
	}
	if class := classAttr(t.opts.Classes); class != "" {
		attrs["class"] = class
	}
	if t.opts.ID != "" {
		attrs["id"] = t.opts.ID
	}
	return attrs
}

func (t *Table) renderHead(env *Env) (string, error) {
	var ths []string
	for _, e := range t.columns {
		spec := e.col.ColumnSpec()
		if !spec.Visible() {
			continue
		}
		contents, err := t.headingContents(env, e.key, e.col)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", e.key, err)
		}
		ths = append(ths, RawElement("th", spec.HeaderAttributes(), contents))
	}

	var attrs Attrs
	if class := classAttr(t.opts.TheadClasses); class != "" {
		attrs = Attrs{"class": class}
	}
	return RawElement("thead", attrs, RawElement("tr", nil, ths...)), nil
}

// headingContents returns the inner HTML of a <th>: the escaped heading,
// or a sort link around it.
func (t *Table) headingContents(env *Env, key string, col Column) (string, error) {
	if !t.opts.AllowSort || !col.ColumnSpec().Sortable() {
		return renderHeading(env, col), nil
	}
	heading := env.Translate(col.ColumnSpec().Heading())

	reverse := false
	if key == t.opts.SortBy {
		if t.opts.SortReverse {
			heading = "↑" + heading
		} else {
			heading = "↓" + heading
			reverse = true
		}
	}
	url, err := t.opts.SortURL(key, reverse)
	if err != nil {
		return "", err
	}
	return Element("a", Attrs{"href": url}, heading), nil
}

func (t *Table) renderRow(env *Env, row any) (string, error) {
	var cells []string
	for _, e := range t.columns {
		if !e.col.ColumnSpec().Visible() {
			continue
		}
		td, err := renderCell(env, e.key, e.col, row)
		if err != nil {
			return "", err
		}
		cells = append(cells, td)
	}
	var attrs Attrs
	if t.opts.RowAttrs != nil {
		attrs = t.opts.RowAttrs(row)
	}
	return RawElement("tr", attrs, cells...), nil
}
