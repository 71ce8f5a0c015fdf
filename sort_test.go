package hxtable

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySortURL(t *testing.T) {
	fn := QuerySortURL("/items?page=2&sort=old")

	got, err := fn("name", false)
	require.NoError(t, err)
	assert.Equal(t, "/items?direction=asc&page=2&sort=name", got)

	got, err = fn("name", true)
	require.NoError(t, err)
	assert.Equal(t, "/items?direction=desc&page=2&sort=name", got)

	_, err = QuerySortURL("%zz")("name", false)
	assert.Error(t, err)
}

func TestSortFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  SortState
	}{
		{"", SortState{}},
		{"sort=name", SortState{Key: "name"}},
		{"sort=name&direction=asc", SortState{Key: "name"}},
		{"sort=name&direction=desc", SortState{Key: "name", Reverse: true}},
		{"sort=name&direction=sideways", SortState{Key: "name"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, SortFromQuery(q))
		})
	}

	r := httptest.NewRequest("GET", "/items?sort=size&direction=desc", nil)
	assert.Equal(t, SortState{Key: "size", Reverse: true}, SortFromRequest(r))
}

func TestSortStateSanitize(t *testing.T) {
	d := New().
		Add("name", NewCol("Name")).
		Add("fixed", NewCol("Fixed", Sortable(false))).
		Add("view", NewLinkCol("View", "view"))

	assert.True(t, d.CanSort("name"))
	assert.False(t, d.CanSort("fixed"))
	assert.False(t, d.CanSort("view"))
	assert.False(t, d.CanSort("missing"))

	assert.Equal(t, SortState{Key: "name", Reverse: true}, SortState{Key: "name", Reverse: true}.Sanitize(d))
	assert.Equal(t, SortState{}, SortState{Key: "missing", Reverse: true}.Sanitize(d))

	// A sanitized state never trips the unknown-column check.
	state := SortState{Key: "missing"}.Sanitize(d)
	_, err := d.Table(nil, state.Option()).HTML()
	assert.NoError(t, err)
}

func TestSignedSortURL(t *testing.T) {
	enc, err := NewEncoder([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	for _, sensitive := range []bool{false, true} {
		link, err := SignedSortURL("/items?page=3", enc, sensitive)("name", true)
		require.NoError(t, err)

		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "/items", u.Path)
		assert.Equal(t, "3", u.Query().Get("page"))

		state, err := SortFromToken(enc, u.Query().Get(TokenParam), sensitive)
		require.NoError(t, err)
		assert.Equal(t, SortState{Key: "name", Reverse: true}, state)

		r := httptest.NewRequest("GET", link, nil)
		state, err = SortFromSignedRequest(r, enc, sensitive)
		require.NoError(t, err)
		assert.Equal(t, SortState{Key: "name", Reverse: true}, state)
	}
}

func TestSortFromTokenInvalid(t *testing.T) {
	enc, err := NewEncoder([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	other, err := NewEncoder([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	state, err := SortFromToken(enc, "", false)
	require.NoError(t, err)
	assert.Equal(t, SortState{}, state)

	_, err = SortFromToken(enc, "not-a-token", false)
	assert.ErrorIs(t, err, ErrInvalidSortData)

	link, err := SignedSortURL("/items", other, false)("name", false)
	require.NoError(t, err)
	u, _ := url.Parse(link)
	_, err = SortFromToken(enc, u.Query().Get(TokenParam), false)
	assert.ErrorIs(t, err, ErrInvalidSortData)
}

func TestSortStateOption(t *testing.T) {
	var opts Options
	SortState{Key: "name", Reverse: true}.Option()(&opts)
	assert.Equal(t, "name", opts.SortBy)
	assert.True(t, opts.SortReverse)
}
