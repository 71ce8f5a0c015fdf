package hxtable

import (
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Source produces the rows of a registered table for one request. The sort
// state has already been checked against the definition; sorting the rows
// is up to the source.
type Source func(r *http.Request, sort SortState) (iter.Seq[any], error)

// Registry serves registered tables as HTML fragments, one route per table.
// Sort headers carry the sort state in a signed token, so a client can
// follow them but not forge a sort on a column the table does not offer.
//
//	reg := hxtable.NewRegistry(key, "/tables/")
//	reg.Add("items", itemsTable, func(r *http.Request, s hxtable.SortState) (iter.Seq[any], error) {
//	    return hxtable.Rows(store.List(s.Key, s.Reverse)), nil
//	})
//	mux.Handle("/tables/", reg.Handler())
type Registry struct {
	mu      sync.RWMutex
	mux     *http.ServeMux
	encoder *Encoder
	prefix  string
	tables  map[string]*registered

	// Sensitive encrypts sort tokens instead of only signing them.
	Sensitive bool

	// OnError is called when a table cannot be rendered.
	OnError func(http.ResponseWriter, *http.Request, error)
}

type registered struct {
	def    *Definition
	source Source
	opts   []Option
}

// NewRegistry creates a registry serving tables under prefix (default
// "/tables/"). It panics if key cannot create an encoder.
func NewRegistry(key []byte, prefix string) *Registry {
	enc, err := NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("hxtable: failed to create encoder: %v", err))
	}
	if prefix == "" {
		prefix = "/tables/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	reg := &Registry{
		mux:     http.NewServeMux(),
		encoder: enc,
		prefix:  prefix,
		tables:  make(map[string]*registered),
	}

	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, ErrInvalidSortData) {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}

	return reg
}

// Encoder returns the registry's token encoder.
func (reg *Registry) Encoder() *Encoder {
	return reg.encoder
}

// Add registers def under name. Options apply to every render on top of the
// definition's defaults. Add panics on a duplicate name or a nil definition
// or source.
func (reg *Registry) Add(name string, def *Definition, source Source, opts ...Option) *Registry {
	if def == nil || source == nil {
		panic(fmt.Sprintf("hxtable: Registry.Add(%q) needs a definition and a source", name))
	}
	if name == "" || strings.Contains(name, "/") {
		panic(fmt.Sprintf("hxtable: invalid table name %q", name))
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.tables[name]; exists {
		panic(fmt.Sprintf("hxtable: table %q already registered", name))
	}
	t := &registered{def: def, source: source, opts: opts}
	reg.tables[name] = t
	reg.mux.HandleFunc("GET "+reg.URL(name), func(w http.ResponseWriter, r *http.Request) {
		reg.serve(t, w, r)
	})
	return reg
}

// URL returns the path a registered table is served at.
func (reg *Registry) URL(name string) string {
	return reg.prefix + name
}

// Names returns the registered table names.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return sortedKeys(reg.tables)
}

// Handler returns the HTTP handler for table routes. Mount it at the
// registry's prefix.
func (reg *Registry) Handler() http.Handler {
	return reg.mux
}

func (reg *Registry) serve(t *registered, w http.ResponseWriter, r *http.Request) {
	sort, err := SortFromSignedRequest(r, reg.encoder, reg.Sensitive)
	if err != nil {
		reg.OnError(w, r, err)
		return
	}
	sort = sort.Sanitize(t.def)

	rows, err := t.source(r, sort)
	if err != nil {
		reg.OnError(w, r, err)
		return
	}

	opts := append([]Option{}, t.opts...)
	opts = append(opts,
		AllowSort(true),
		SortURL(SignedSortURL(tokenlessURL(r.URL), reg.encoder, reg.Sensitive)),
		sort.Option(),
	)
	if err := Render(w, r, t.def.Table(rows, opts...)); err != nil {
		reg.OnError(w, r, err)
	}
}

// tokenlessURL returns the request path and query without the sort token.
func tokenlessURL(u *url.URL) string {
	out := *u
	q := out.Query()
	q.Del(TokenParam)
	out.RawQuery = q.Encode()
	return out.RequestURI()
}
