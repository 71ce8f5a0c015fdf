package hxtable

import (
	"fmt"
	"net/url"
	"strings"
)

// LinkResolver turns an endpoint identifier and its parameters into a URL.
// It is the table's only view of the application's routing.
type LinkResolver interface {
	ResolveURL(endpoint string, params map[string]string) (string, error)
}

// LinkResolverFunc adapts a function to LinkResolver.
type LinkResolverFunc func(endpoint string, params map[string]string) (string, error)

// ResolveURL implements LinkResolver.
func (f LinkResolverFunc) ResolveURL(endpoint string, params map[string]string) (string, error) {
	return f(endpoint, params)
}

// Routes resolves endpoints against net/http ServeMux style patterns:
//
//	routes := hxtable.Routes{
//	    "view":   "/items/{id}",
//	    "delete": "POST /items/{id}/delete",
//	    "files":  "/files/{path...}",
//	}
//
// Wildcards are filled from the parameters, path-escaped. Parameters that
// match no wildcard are appended as a query string, sorted by name.
type Routes map[string]string

// ResolveURL implements LinkResolver.
func (r Routes) ResolveURL(endpoint string, params map[string]string) (string, error) {
	pattern, ok := r[endpoint]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}
	// Drop an optional "METHOD " prefix.
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = strings.TrimSpace(pattern[i+1:])
	}

	used := make(map[string]bool)
	var sb strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated wildcard in %q", ErrUnknownEndpoint, pattern)
		}
		sb.WriteString(rest[:open])
		name := rest[open+1 : open+end]
		rest = rest[open+end+1:]

		if name == "$" {
			continue
		}
		remainder := strings.HasSuffix(name, "...")
		name = strings.TrimSuffix(name, "...")
		value, ok := params[name]
		if !ok {
			return "", fmt.Errorf("%w: %q for endpoint %q", ErrMissingParam, name, endpoint)
		}
		used[name] = true
		if remainder {
			segs := strings.Split(value, "/")
			for i, s := range segs {
				segs[i] = url.PathEscape(s)
			}
			sb.WriteString(strings.Join(segs, "/"))
		} else {
			sb.WriteString(url.PathEscape(value))
		}
	}

	query := url.Values{}
	for k, v := range params {
		if !used[k] {
			query.Set(k, v)
		}
	}
	if len(query) > 0 {
		sb.WriteByte('?')
		sb.WriteString(query.Encode())
	}
	return sb.String(), nil
}
