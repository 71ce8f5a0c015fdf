// Package hxtableecho provides Echo framework integration for hxtable.
//
// Link columns resolve endpoints against named Echo routes, and sort headers
// link back to the current request:
//
//	e := echo.New()
//	e.GET("/items/:id", showItem).Name = "item.view"
//
//	e.GET("/items", func(c echo.Context) error {
//	    opts, err := hxtableecho.TableOptions(c, itemsTable)
//	    if err != nil {
//	        return err
//	    }
//	    return hxtableecho.Render(c, itemsTable.Table(hxtable.Rows(items), opts...))
//	})
package hxtableecho

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxtable"
)

// Option configures the sort helpers.
type Option func(*options)

type options struct {
	encoder   *hxtable.Encoder
	sensitive bool
}

// WithEncoder carries the sort state in a signed token instead of plain
// sort and direction parameters. Sensitive tokens are also encrypted.
func WithEncoder(enc *hxtable.Encoder, sensitive bool) Option {
	return func(o *options) {
		o.encoder = enc
		o.sensitive = sensitive
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resolver returns a LinkResolver over the named routes of e. Parameters
// fill ":name" and "*" segments; the rest become a sorted query string.
//
//	e.GET("/users/:id/files/*", files).Name = "user.files"
//	// params {id: 7, *: "a/b.txt", v: 2} -> /users/7/files/a/b.txt?v=2
func Resolver(e *echo.Echo) hxtable.LinkResolver {
	return hxtable.LinkResolverFunc(func(endpoint string, params map[string]string) (string, error) {
		for _, r := range e.Routes() {
			if r.Name == endpoint {
				return reverse(r.Path, endpoint, params)
			}
		}
		return "", fmt.Errorf("%w: %q", hxtable.ErrUnknownEndpoint, endpoint)
	})
}

func reverse(path, endpoint string, params map[string]string) (string, error) {
	used := make(map[string]bool)
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		var name string
		switch {
		case strings.HasPrefix(seg, ":"):
			name = seg[1:]
		case seg == "*":
			name = "*"
		default:
			continue
		}
		value, ok := params[name]
		if !ok {
			return "", fmt.Errorf("%w: %q for endpoint %q", hxtable.ErrMissingParam, name, endpoint)
		}
		used[name] = true
		if name == "*" {
			parts := strings.Split(value, "/")
			for j, p := range parts {
				parts[j] = url.PathEscape(p)
			}
			segs[i] = strings.Join(parts, "/")
		} else {
			segs[i] = url.PathEscape(value)
		}
	}

	out := strings.Join(segs, "/")
	query := url.Values{}
	for k, v := range params {
		if !used[k] {
			query.Set(k, v)
		}
	}
	if len(query) > 0 {
		out += "?" + query.Encode()
	}
	return out, nil
}

// SortURL links sort headers back to the current request, keeping its
// other query parameters.
func SortURL(c echo.Context, opts ...Option) hxtable.SortURLFunc {
	o := buildOptions(opts)
	base := *c.Request().URL
	if o.encoder != nil {
		return hxtable.SignedSortURL(base.RequestURI(), o.encoder, o.sensitive)
	}
	q := base.Query()
	q.Del(hxtable.TokenParam)
	base.RawQuery = q.Encode()
	return hxtable.QuerySortURL(base.RequestURI())
}

// SortState reads the request's sort state, dropping keys def cannot sort
// by. A bad signed token fails with hxtable.ErrInvalidSortData.
func SortState(c echo.Context, def *hxtable.Definition, opts ...Option) (hxtable.SortState, error) {
	o := buildOptions(opts)
	if o.encoder != nil {
		s, err := hxtable.SortFromSignedRequest(c.Request(), o.encoder, o.sensitive)
		if err != nil {
			return hxtable.SortState{}, err
		}
		return s.Sanitize(def), nil
	}
	return hxtable.SortFromRequest(c.Request()).Sanitize(def), nil
}

// TableOptions returns the per-request options for a sortable table: the
// route resolver, the request context's sort links and the current sort.
func TableOptions(c echo.Context, def *hxtable.Definition, opts ...Option) ([]hxtable.Option, error) {
	state, err := SortState(c, def, opts...)
	if err != nil {
		return nil, err
	}
	return []hxtable.Option{
		hxtable.WithResolver(Resolver(c.Echo())),
		hxtable.AllowSort(true),
		hxtable.SortURL(SortURL(c, opts...)),
		state.Option(),
	}, nil
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxtableecho.Render(c, itemsTable.Table(rows))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
