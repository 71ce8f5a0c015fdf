package hxtableecho

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pthm/hxtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(c echo.Context) error { return nil }

func newEcho() *echo.Echo {
	e := echo.New()
	e.GET("/items/:id", noop).Name = "item.view"
	e.POST("/items/:id/delete", noop).Name = "item.delete"
	e.GET("/users/:user/files/*", noop).Name = "user.files"
	e.GET("/about", noop).Name = "about"
	return e
}

func TestResolver(t *testing.T) {
	r := Resolver(newEcho())

	tests := []struct {
		name     string
		endpoint string
		params   map[string]string
		want     string
		wantErr  error
	}{
		{name: "param", endpoint: "item.view", params: map[string]string{"id": "7"}, want: "/items/7"},
		{name: "escaped", endpoint: "item.view", params: map[string]string{"id": "a b/c"}, want: "/items/a%20b%2Fc"},
		{name: "extra becomes query", endpoint: "item.delete", params: map[string]string{"id": "7", "next": "/", "a": "1"}, want: "/items/7/delete?a=1&next=%2F"},
		{name: "wildcard keeps slashes", endpoint: "user.files", params: map[string]string{"user": "u1", "*": "docs/a b.txt"}, want: "/users/u1/files/docs/a%20b.txt"},
		{name: "static", endpoint: "about", want: "/about"},
		{name: "missing param", endpoint: "item.view", wantErr: hxtable.ErrMissingParam},
		{name: "unknown endpoint", endpoint: "nope", wantErr: hxtable.ErrUnknownEndpoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveURL(tt.endpoint, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func itemsTable() *hxtable.Definition {
	return hxtable.New().
		Add("name", hxtable.NewCol("Name")).
		Add("view", hxtable.NewLinkCol("View", "item.view").Param("id", "id"))
}

func newContext(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSortState(t *testing.T) {
	e := newEcho()
	def := itemsTable()

	c, _ := newContext(e, "/items?sort=name&direction=desc")
	s, err := SortState(c, def)
	require.NoError(t, err)
	assert.Equal(t, hxtable.SortState{Key: "name", Reverse: true}, s)

	// Link columns are not sortable.
	c, _ = newContext(e, "/items?sort=view")
	s, err = SortState(c, def)
	require.NoError(t, err)
	assert.Equal(t, hxtable.SortState{}, s)
}

func TestSortURL(t *testing.T) {
	c, _ := newContext(newEcho(), "/items?page=2&sort=name")
	u, err := SortURL(c)("name", true)
	require.NoError(t, err)
	assert.Equal(t, "/items?direction=desc&page=2&sort=name", u)
}

func TestSignedSort(t *testing.T) {
	enc, err := hxtable.NewEncoder(make([]byte, 32))
	require.NoError(t, err)
	e := newEcho()
	def := itemsTable()

	c, _ := newContext(e, "/items")
	u, err := SortURL(c, WithEncoder(enc, true))("name", true)
	require.NoError(t, err)

	c, _ = newContext(e, u)
	s, err := SortState(c, def, WithEncoder(enc, true))
	require.NoError(t, err)
	assert.Equal(t, hxtable.SortState{Key: "name", Reverse: true}, s)

	c, _ = newContext(e, "/items?s=garbage")
	_, err = SortState(c, def, WithEncoder(enc, true))
	assert.ErrorIs(t, err, hxtable.ErrInvalidSortData)
}

func TestRenderTable(t *testing.T) {
	e := newEcho()
	def := itemsTable()
	e.GET("/items", func(c echo.Context) error {
		opts, err := TableOptions(c, def)
		if err != nil {
			return err
		}
		rows := []map[string]any{{"id": 1, "name": "Widget"}}
		return Render(c, def.Table(hxtable.Rows(rows), opts...))
	})

	result, err := hxtable.TestGet(e, "/items?sort=name")
	require.NoError(t, err)
	assert.True(t, result.IsOK())
	assert.Equal(t, "text/html; charset=utf-8", result.GetHeader("Content-Type"))
	assert.Equal(t, []string{"↓Name", "View"}, result.Headers())
	assert.Equal(t, [][]string{{"Widget", "View"}}, result.Rows())
	assert.Equal(t, []string{"/items?direction=desc&sort=name", "/items/1"}, result.Links())
}
