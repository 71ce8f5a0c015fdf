package hxtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	routes := Routes{
		"home":   "GET /{$}",
		"view":   "/items/{id}",
		"delete": "POST /items/{id}/delete",
		"files":  "/files/{path...}",
		"broken": "/items/{id",
	}

	tests := []struct {
		name     string
		endpoint string
		params   map[string]string
		want     string
		wantErr  error
	}{
		{name: "anchored root", endpoint: "home", want: "/"},
		{name: "wildcard", endpoint: "view", params: map[string]string{"id": "7"}, want: "/items/7"},
		{name: "escaped wildcard", endpoint: "view", params: map[string]string{"id": "a/b c"}, want: "/items/a%2Fb%20c"},
		{name: "method prefix", endpoint: "delete", params: map[string]string{"id": "7"}, want: "/items/7/delete"},
		{name: "remainder keeps slashes", endpoint: "files", params: map[string]string{"path": "a/b c.txt"}, want: "/files/a/b%20c.txt"},
		{name: "extra params sorted", endpoint: "view", params: map[string]string{"id": "7", "z": "1", "a": "x y"}, want: "/items/7?a=x+y&z=1"},
		{name: "missing param", endpoint: "view", wantErr: ErrMissingParam},
		{name: "unknown endpoint", endpoint: "nope", wantErr: ErrUnknownEndpoint},
		{name: "unterminated", endpoint: "broken", params: map[string]string{"id": "1"}, wantErr: ErrUnknownEndpoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := routes.ResolveURL(tt.endpoint, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinkResolverFunc(t *testing.T) {
	var r LinkResolver = LinkResolverFunc(func(endpoint string, params map[string]string) (string, error) {
		return "/" + endpoint + "/" + params["id"], nil
	})
	got, err := r.ResolveURL("items", map[string]string{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, "/items/1", got)
}

func TestRecordingResolver(t *testing.T) {
	r := &RecordingResolver{}
	params := map[string]string{"id": "1"}
	got, err := r.ResolveURL("view", params)
	require.NoError(t, err)
	assert.Equal(t, "/view?id=1", got)

	params["id"] = "changed"
	calls := r.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ResolveCall{Endpoint: "view", Params: map[string]string{"id": "1"}}, calls[0])
}
