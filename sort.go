package hxtable

import (
	"fmt"
	"net/http"
	"net/url"
)

// Query parameters used by the built-in sort strategies.
const (
	SortParam      = "sort"
	DirectionParam = "direction"
	TokenParam     = "s"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// SortState is the sort column and direction of a request. Tables display
// it; sorting the rows is the caller's job.
type SortState struct {
	Key     string `msgpack:"k" json:"key"`
	Reverse bool   `msgpack:"r" json:"reverse"`
}

// Option returns the SortBy option for s.
func (s SortState) Option() Option {
	return SortBy(s.Key, s.Reverse)
}

// QuerySortURL links sort headers to base with sort and direction query
// parameters, keeping any other parameters base already has:
//
//	/items?page=2&sort=name&direction=desc
func QuerySortURL(base string) SortURLFunc {
	return func(key string, reverse bool) (string, error) {
		u, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("hxtable: sort base URL: %w", err)
		}
		q := u.Query()
		q.Set(SortParam, key)
		if reverse {
			q.Set(DirectionParam, DirectionDesc)
		} else {
			q.Set(DirectionParam, DirectionAsc)
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
}

// SortFromQuery reads the parameters written by QuerySortURL.
func SortFromQuery(q url.Values) SortState {
	return SortState{
		Key:     q.Get(SortParam),
		Reverse: q.Get(DirectionParam) == DirectionDesc,
	}
}

// SortFromRequest reads the sort state from r's query string.
func SortFromRequest(r *http.Request) SortState {
	return SortFromQuery(r.URL.Query())
}

// SignedSortURL links sort headers to base with the sort state in a single
// tamper-proof token, encrypted when sensitive is true.
func SignedSortURL(base string, enc *Encoder, sensitive bool) SortURLFunc {
	return func(key string, reverse bool) (string, error) {
		u, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("hxtable: sort base URL: %w", err)
		}
		token, err := enc.Encode(SortState{Key: key, Reverse: reverse}, sensitive)
		if err != nil {
			return "", err
		}
		q := u.Query()
		q.Set(TokenParam, token)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
}

// SortFromToken decodes a token written by SignedSortURL. An empty token is
// the zero state. A token that fails verification returns
// ErrInvalidSortData.
func SortFromToken(enc *Encoder, token string, sensitive bool) (SortState, error) {
	var s SortState
	if token == "" {
		return s, nil
	}
	if err := enc.Decode(token, sensitive, &s); err != nil {
		return SortState{}, wrapEncodingError(err)
	}
	return s, nil
}

// SortFromSignedRequest reads the token parameter of r.
func SortFromSignedRequest(r *http.Request, enc *Encoder, sensitive bool) (SortState, error) {
	return SortFromToken(enc, r.URL.Query().Get(TokenParam), sensitive)
}

// CanSort reports whether key names a sortable column of d. Handlers use it
// to drop sort keys from the request that the table would reject.
func (d *Definition) CanSort(key string) bool {
	col, ok := d.Column(key)
	return ok && col.ColumnSpec().Sortable()
}

// Sanitize returns s, or the zero state when d cannot sort by s.Key.
func (s SortState) Sanitize(d *Definition) SortState {
	if !d.CanSort(s.Key) {
		return SortState{}
	}
	return s
}
