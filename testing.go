package hxtable

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TestResult holds rendered output for testing.
//
// Provides convenience methods for asserting on HTML content, the parsed
// table structure, and (for handler tests) status codes and headers.
type TestResult struct {
	HTML       string
	StatusCode int
	Header     http.Header

	once  sync.Once
	nodes []*html.Node
}

// TestRender renders a table (or any component) and returns testable output.
//
//	result, err := hxtable.TestRender(itemsTable.Table(hxtable.Rows(items)))
//	if got := result.Headers(); !slices.Equal(got, []string{"Name", "Created"}) {
//	    t.Fatalf("headers = %v", got)
//	}
func TestRender(component templ.Component) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), component)
}

// TestRenderWithContext renders a component with a custom context.
func TestRenderWithContext(ctx context.Context, component templ.Component) (*TestResult, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
	}, nil
}

// TestGet performs a GET request against h and records the response.
func TestGet(h http.Handler, target string) (*TestResult, error) {
	return NewTestRequest(http.MethodGet, target).Execute(h)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// IsEmptyState reports whether the output is the empty-state paragraph
// rather than a table.
func (r *TestResult) IsEmptyState() bool {
	return r.table() == nil && r.find(atom.P) != nil
}

// EmptyText returns the text of the empty-state paragraph.
func (r *TestResult) EmptyText() string {
	if p := r.find(atom.P); p != nil {
		return textOf(p)
	}
	return ""
}

// Headers returns the text of the outer table's header cells.
func (r *TestResult) Headers() []string {
	var out []string
	for _, tr := range children(child(r.table(), atom.Thead), atom.Tr) {
		for _, th := range children(tr, atom.Th) {
			out = append(out, textOf(th))
		}
	}
	return out
}

// Rows returns the text of the outer table's body cells, one slice per row.
// Text from nested tables is included in the cell that holds them. As with
// Headers, runs of whitespace are collapsed to one space.
func (r *TestResult) Rows() [][]string {
	var out [][]string
	for _, tr := range children(child(r.table(), atom.Tbody), atom.Tr) {
		var cells []string
		for _, td := range children(tr, atom.Td) {
			cells = append(cells, textOf(td))
		}
		out = append(out, cells)
	}
	return out
}

// TableAttr returns an attribute of the outer <table> element.
func (r *TestResult) TableAttr(name string) (string, bool) {
	return attrOf(r.table(), name)
}

// Links returns the href of every anchor in the output, in document order.
func (r *TestResult) Links() []string {
	var out []string
	for _, n := range r.parse() {
		walk(n, func(n *html.Node) {
			if n.DataAtom == atom.A {
				if href, ok := attrOf(n, "href"); ok {
					out = append(out, href)
				}
			}
		})
	}
	return out
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a response header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Header.Get(key) == value
}

// GetHeader returns the value of a response header.
func (r *TestResult) GetHeader(key string) string {
	return r.Header.Get(key)
}

func (r *TestResult) parse() []*html.Node {
	r.once.Do(func() {
		body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		nodes, err := html.ParseFragment(strings.NewReader(r.HTML), body)
		if err == nil {
			r.nodes = nodes
		}
	})
	return r.nodes
}

func (r *TestResult) table() *html.Node {
	return r.find(atom.Table)
}

// find returns the first element with the given tag in document order.
func (r *TestResult) find(a atom.Atom) *html.Node {
	var found *html.Node
	for _, n := range r.parse() {
		walk(n, func(n *html.Node) {
			if found == nil && n.Type == html.ElementNode && n.DataAtom == a {
				found = n
			}
		})
	}
	return found
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func child(n *html.Node, a atom.Atom) *html.Node {
	if cs := children(n, a); len(cs) > 0 {
		return cs[0]
	}
	return nil
}

func children(n *html.Node, a atom.Atom) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			out = append(out, c)
		}
	}
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attrOf(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// TestRequestBuilder provides a fluent interface for building test requests
// against handlers that render tables.
//
//	result, err := hxtable.NewTestRequest("GET", "/items").
//	    WithQuery("sort", "name").
//	    WithHeader("Accept-Language", "de").
//	    Execute(handler)
type TestRequestBuilder struct {
	method  string
	target  string
	query   url.Values
	headers map[string]string
	ctx     context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, target string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:  method,
		target:  target,
		query:   url.Values{},
		headers: make(map[string]string),
		ctx:     context.Background(),
	}
}

// WithQuery adds a query parameter to the request URL.
func (b *TestRequestBuilder) WithQuery(key, value string) *TestRequestBuilder {
	b.query.Add(key, value)
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute executes the request against h.
func (b *TestRequestBuilder) Execute(h http.Handler) (*TestResult, error) {
	target, err := url.Parse(b.target)
	if err != nil {
		return nil, err
	}
	if len(b.query) > 0 {
		q := target.Query()
		for k, vs := range b.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	req := httptest.NewRequest(b.method, target.String(), nil)
	req = req.WithContext(b.ctx)
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Header:     rec.Header(),
	}, nil
}

// RecordingResolver is a LinkResolver for tests. It builds URLs as
// "/endpoint?params" and records every call.
type RecordingResolver struct {
	mu    sync.Mutex
	calls []ResolveCall
}

// ResolveCall is one call seen by a RecordingResolver.
type ResolveCall struct {
	Endpoint string
	Params   map[string]string
}

// ResolveURL implements LinkResolver.
func (r *RecordingResolver) ResolveURL(endpoint string, params map[string]string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make(map[string]string, len(params))
	q := url.Values{}
	for k, v := range params {
		copied[k] = v
		q.Set(k, v)
	}
	r.calls = append(r.calls, ResolveCall{Endpoint: endpoint, Params: copied})

	u := "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

// Calls returns the calls made so far.
func (r *RecordingResolver) Calls() []ResolveCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ResolveCall(nil), r.calls...)
}
