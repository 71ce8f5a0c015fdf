// Package hxtable renders HTML tables from declared columns and a sequence
// of row records.
//
// A table definition is an ordered set of named columns. Rows are maps,
// structs, or anything implementing RowAccessor; each column reads one value
// from each row through an access path and renders it into a cell. The
// output is one escaped HTML fragment per render.
//
// # Defining Tables
//
// Definitions are built explicitly:
//
//	var items = hxtable.New(hxtable.Classes("table")).
//	    Add("name", hxtable.NewCol("Name")).
//	    Add("owner", hxtable.NewCol("Owner", hxtable.Attr("owner.email"))).
//	    Add("active", hxtable.NewBoolCol("Active")).
//	    Add("view", hxtable.NewLinkCol("View", "item.view").Param("id", "id"))
//
// A column without an Attr reads the key it is registered under. Paths are
// dotted strings split once at construction; use AttrPath for keys that
// themselves contain dots.
//
// Columns keep the order in which they were constructed, not the order in
// which they were added, so a definition built from a list of pre-made
// columns lays them out as written. Extend composes definitions: inherited
// columns come first, and replacing an inherited key keeps its position.
//
//	var adminItems = hxtable.Extend(items).
//	    Add("name", hxtable.NewCol("Item")).                      // keeps slot 1
//	    Add("delete", hxtable.NewButtonCol("Delete", "item.delete")) // appended
//
// # Resolving Values
//
// At each path segment a RowAccessor is asked first, then map lookup, then
// struct fields (by table tag, json tag or name) and methods. A value that is
// a function taking no arguments is called and its result used. A nil value
// anywhere along the path makes the cell absent, which renders as an empty
// cell; a value that supports no lookup at all for a segment is an error
// (ErrPathMismatch), since the path does not match the rows.
//
// Choice columns (OptCol, BoolCol, BoolNACol) see absent values as nil, so
// they can give them a label of their own.
//
// # Rendering
//
// A Table binds a definition to rows and per-instance options:
//
//	t := items.Table(hxtable.Rows(list),
//	    hxtable.WithResolver(routes),
//	    hxtable.AllowSort(true),
//	    hxtable.SortURL(hxtable.QuerySortURL("/items")),
//	    hxtable.SortBy("name", false))
//	out, err := t.HTML()
//
// Table implements templ.Component. Rows are read once per render. With no
// rows the table renders a <p> with the NoItems text, or an empty table
// when AllowEmpty is set.
//
// Rendering never writes partial output: configuration errors (sorting
// without a SortURL strategy, an unknown sort key, a link column without a
// resolver) and path errors abort the render and are returned.
//
// # Collaborators
//
// Links are resolved by a LinkResolver: Routes maps endpoint names to
// net/http patterns, and adapters/echo reverses echo routes. Dates go
// through a TemporalFormatter (TimeFormatter by default). Headings and link
// text go through an optional Translator; lib/i18n provides one backed by
// go-i18n.
//
// # Code Generation
//
// Run 'hxtable generate' to emit reflection-free Field accessors for structs
// marked with a //hxtable:row comment. Generated accessors answer the same
// keys the reflective lookup would, without reflection; other keys fall back
// to reflection and resolve as absent when nothing matches.
package hxtable
