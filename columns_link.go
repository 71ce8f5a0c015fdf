package hxtable

import (
	"fmt"
	"sort"

	"github.com/a-h/templ"
)

// LinkCol renders an anchor to an application endpoint.
//
// The URL comes from the link resolver: the column's own, or else the
// table's. Its parameters are the Extra values overlaid with values read
// from the row through Param paths; row values win, and params whose path
// is absent are left out.
//
// The link text is read from the column's own Attr path when it has one.
// Otherwise it is the TextFallback, or the heading. The table key is never
// used for the text.
//
//	hxtable.NewLinkCol("View", "item.view").Param("id", "id")
type LinkCol struct {
	Base
	endpoint    string
	params      map[string]Path
	extra       map[string]string
	fallback    string
	resolver    LinkResolver
	anchorAttrs Attrs
}

// NewLinkCol creates a link column for endpoint. Link columns are not
// sortable unless Sortable(true) is given.
func NewLinkCol(heading, endpoint string, opts ...ColumnOption) *LinkCol {
	return &LinkCol{
		Base:     newBase(heading, false, opts),
		endpoint: endpoint,
		params:   make(map[string]Path),
		extra:    make(map[string]string),
	}
}

// Param fills URL parameter name from a dotted path into the row.
func (c *LinkCol) Param(name, dotted string) *LinkCol {
	c.params[name] = ParsePath(dotted)
	return c
}

// ParamPath is Param with explicit path segments.
func (c *LinkCol) ParamPath(name string, segments ...string) *LinkCol {
	c.params[name] = append(Path(nil), segments...)
	return c
}

// Extra sets a static URL parameter. A Param of the same name wins when the
// row has a value for it.
func (c *LinkCol) Extra(name, value string) *LinkCol {
	c.extra[name] = value
	return c
}

// TextFallback sets the link text used when the column has no Attr path.
func (c *LinkCol) TextFallback(text string) *LinkCol {
	c.fallback = text
	return c
}

// Resolver sets a resolver for this column, overriding the table's.
func (c *LinkCol) Resolver(r LinkResolver) *LinkCol {
	c.resolver = r
	return c
}

// AnchorAttrs sets attributes on the <a> element.
func (c *LinkCol) AnchorAttrs(attrs Attrs) *LinkCol {
	c.anchorAttrs = attrs.Merge(nil)
	return c
}

// Endpoint returns the endpoint identifier.
func (c *LinkCol) Endpoint() string { return c.endpoint }

// CellContents implements Column.
func (c *LinkCol) CellContents(env *Env, row any, _ string) (string, error) {
	url, err := c.LinkURL(env, row)
	if err != nil {
		return "", err
	}
	text, err := c.LinkText(env, row)
	if err != nil {
		return "", err
	}
	return Element("a", c.anchorAttrs.Merge(Attrs{"href": url}), text), nil
}

// LinkText returns the unescaped link text for row.
func (c *LinkCol) LinkText(env *Env, row any) (string, error) {
	if len(c.path) > 0 {
		v, _, err := env.Resolve(row, c.path)
		if err != nil {
			return "", err
		}
		return stringify(v), nil
	}
	if c.fallback != "" {
		return env.Translate(c.fallback), nil
	}
	return env.Translate(c.heading), nil
}

// LinkURL resolves the URL for row.
func (c *LinkCol) LinkURL(env *Env, row any) (string, error) {
	resolver := c.resolver
	if resolver == nil && env != nil {
		resolver = env.Resolver
	}
	if resolver == nil {
		return "", fmt.Errorf("%w for endpoint %q", ErrNoLinkResolver, c.endpoint)
	}
	params, err := c.urlParams(env, row)
	if err != nil {
		return "", err
	}
	return resolver.ResolveURL(c.endpoint, params)
}

func (c *LinkCol) urlParams(env *Env, row any) (map[string]string, error) {
	params := make(map[string]string, len(c.extra)+len(c.params))
	for k, v := range c.extra {
		params[k] = v
	}
	for _, name := range sortedKeys(c.params) {
		v, ok, err := env.Resolve(row, c.params[name])
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", name, err)
		}
		if !ok {
			env.logger().Debug("hxtable: link param absent", "endpoint", c.endpoint, "param", name)
			continue
		}
		params[name] = stringify(v)
	}
	return params, nil
}

// ButtonCol is a LinkCol rendered as a form that posts to the URL:
//
//	<form action="/items/1/delete" method="post">
//	  <input name="csrf" type="hidden" value="..."><button type="submit">Delete</button>
//	</form>
//
// Hidden fields are emitted sorted by name.
type ButtonCol struct {
	LinkCol
	hidden      map[string]string
	buttonAttrs Attrs
	formAttrs   Attrs
}

// NewButtonCol creates a button column for endpoint. Like links, buttons are
// not sortable by default.
func NewButtonCol(heading, endpoint string, opts ...ColumnOption) *ButtonCol {
	return &ButtonCol{
		LinkCol: *NewLinkCol(heading, endpoint, opts...),
		hidden:  make(map[string]string),
	}
}

// Param fills URL parameter name from a dotted path into the row.
func (c *ButtonCol) Param(name, dotted string) *ButtonCol {
	c.LinkCol.Param(name, dotted)
	return c
}

// ParamPath is Param with explicit path segments.
func (c *ButtonCol) ParamPath(name string, segments ...string) *ButtonCol {
	c.LinkCol.ParamPath(name, segments...)
	return c
}

// Extra sets a static URL parameter.
func (c *ButtonCol) Extra(name, value string) *ButtonCol {
	c.LinkCol.Extra(name, value)
	return c
}

// TextFallback sets the button label used when the column has no Attr path.
func (c *ButtonCol) TextFallback(text string) *ButtonCol {
	c.LinkCol.TextFallback(text)
	return c
}

// Resolver sets a resolver for this column, overriding the table's.
func (c *ButtonCol) Resolver(r LinkResolver) *ButtonCol {
	c.LinkCol.Resolver(r)
	return c
}

// HiddenField adds a hidden form field, such as a CSRF token.
func (c *ButtonCol) HiddenField(name, value string) *ButtonCol {
	c.hidden[name] = value
	return c
}

// AnchorAttrs has no <a> to apply to on a button column; it sets the
// <button> attributes, like ButtonAttrs.
func (c *ButtonCol) AnchorAttrs(attrs Attrs) *ButtonCol {
	return c.ButtonAttrs(attrs)
}

// ButtonAttrs sets attributes on the <button> element.
func (c *ButtonCol) ButtonAttrs(attrs Attrs) *ButtonCol {
	c.buttonAttrs = attrs.Merge(nil)
	return c
}

// FormAttrs sets attributes on the <form> element. The method and action
// are always set by the column.
func (c *ButtonCol) FormAttrs(attrs Attrs) *ButtonCol {
	c.formAttrs = attrs.Merge(nil)
	return c
}

// CellContents implements Column.
func (c *ButtonCol) CellContents(env *Env, row any, _ string) (string, error) {
	url, err := c.LinkURL(env, row)
	if err != nil {
		return "", err
	}
	text, err := c.LinkText(env, row)
	if err != nil {
		return "", err
	}

	content := make([]string, 0, len(c.hidden)+1)
	for _, name := range sortedKeys(c.hidden) {
		content = append(content, Element("input", Attrs{
			"type":  "hidden",
			"name":  name,
			"value": c.hidden[name],
		}))
	}
	content = append(content, Element("button", c.buttonAttrs.Merge(Attrs{"type": "submit"}), text))

	form := c.formAttrs.Merge(Attrs{"method": "post", "action": url})
	return RawElement("form", form, content...), nil
}

// ExternalLinkCol links to a URL stored in the row rather than to an
// application endpoint. The text is read like a Col's value.
//
//	hxtable.NewExternalLinkCol("Site", "homepage", hxtable.Attr("name"))
type ExternalLinkCol struct {
	Base
	urlPath     Path
	anchorAttrs Attrs
}

// NewExternalLinkCol creates a column linking to the URL at urlPath.
func NewExternalLinkCol(heading, urlPath string, opts ...ColumnOption) *ExternalLinkCol {
	return &ExternalLinkCol{Base: newBase(heading, true, opts), urlPath: ParsePath(urlPath)}
}

// AnchorAttrs sets attributes on the <a> element.
func (c *ExternalLinkCol) AnchorAttrs(attrs Attrs) *ExternalLinkCol {
	c.anchorAttrs = attrs.Merge(nil)
	return c
}

// CellContents implements Column. Rows without a URL get plain text.
func (c *ExternalLinkCol) CellContents(env *Env, row any, key string) (string, error) {
	text, _, err := c.Value(env, row, key)
	if err != nil {
		return "", err
	}
	url, ok, err := env.Resolve(row, c.urlPath)
	if err != nil {
		return "", err
	}
	if !ok {
		return Text(text), nil
	}
	// Row URLs are untrusted; unsafe schemes such as javascript: are replaced.
	href := string(templ.URL(stringify(url)))
	return Element("a", c.anchorAttrs.Merge(Attrs{"href": href}), stringify(text)), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
