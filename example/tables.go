package main

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pthm/hxtable"
)

var tagTable = hxtable.New(hxtable.Classes("tags")).
	Add("tag", hxtable.NewCol("Tag"))

// todoTable lists todos with per-row actions.
var todoTable = hxtable.New(
	hxtable.Classes("table", "todos"),
	hxtable.TableID("todos"),
	hxtable.NoItems("No Items"),
	hxtable.RowAttrs(func(row any) hxtable.Attrs {
		if t, ok := row.(Todo); ok && t.Done() {
			return hxtable.Attrs{"class": "done"}
		}
		return nil
	}),
).
	Add("title", hxtable.NewLinkCol("Title", "todo.show", hxtable.Attr("title"), hxtable.Sortable(true)).
		Param("id", "id")).
	Add("status", hxtable.NewOptCol("Status", map[any]string{
		StatusPending:   "Pending",
		StatusCompleted: "Completed",
	})).
	Add("created", hxtable.NewDateCol("Created")).
	Add("due", hxtable.NewDateCol("Due").Pattern(hxtable.PatternMedium)).
	Add("done", hxtable.NewBoolCol("Done", hxtable.Sortable(false))).
	Add("tags", hxtable.NewNestedCol("Tags", tagTable, hxtable.Attr("tagRows"), hxtable.Sortable(false)).
		TableOptions(hxtable.AllowEmpty(true))).
	Add("toggle", hxtable.NewButtonCol("Toggle", "todo.toggle").
		Param("id", "id").
		ButtonAttrs(hxtable.Attrs{"class": "btn"})).
	Add("delete", hxtable.NewButtonCol("Delete", "todo.delete").
		Param("id", "id").
		ButtonAttrs(hxtable.Attrs{"class": "btn danger"}))

// sortTodos orders todos in place by a sortable column of todoTable.
func sortTodos(todos []Todo, key string, reverse bool) {
	compare := func(a, b Todo) int {
		switch key {
		case "title":
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case "status":
			return cmp.Compare(a.Status, b.Status)
		case "due":
			switch {
			case a.DueAt == nil && b.DueAt == nil:
				return 0
			case a.DueAt == nil:
				return 1
			case b.DueAt == nil:
				return -1
			}
			return a.DueAt.Compare(*b.DueAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	slices.SortStableFunc(todos, func(a, b Todo) int {
		if reverse {
			return compare(b, a)
		}
		return compare(a, b)
	})
}
