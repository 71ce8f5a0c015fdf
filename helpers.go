package hxtable

import (
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Tables are components, so a handler can render one
// directly:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sort := hxtable.SortFromRequest(r).Sanitize(itemsTable)
//	    t := itemsTable.Table(hxtable.Rows(items), sort.Option())
//	    if err := hxtable.Render(w, r, t); err != nil {
//	        http.Error(w, err.Error(), http.StatusInternalServerError)
//	    }
//	}
//
// The table is rendered to memory first, so a failed render writes nothing
// to w.
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// RequestURL returns the path and query of r, for use as the base of a sort
// URL strategy.
//
//	hxtable.SortURL(hxtable.QuerySortURL(hxtable.RequestURL(r)))
func RequestURL(r *http.Request) string {
	return r.URL.RequestURI()
}
