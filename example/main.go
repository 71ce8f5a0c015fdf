package main

import (
	"crypto/rand"
	"embed"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"os"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pthm/hxtable"
	"github.com/pthm/hxtable/lib/i18n"
	"golang.org/x/text/language"
)

//go:embed locales
var locales embed.FS

var routes = hxtable.Routes{
	"todo.list":   "GET /{$}",
	"todo.show":   "GET /todo/{id}",
	"todo.toggle": "POST /todo/{id}/toggle",
	"todo.delete": "POST /todo/{id}/delete",
}

// App serves the todo table.
type App struct {
	store  *Store
	bundle *goi18n.Bundle
	tables *hxtable.Registry
	log    *slog.Logger
}

// NewApp loads the translations and builds the handlers.
func NewApp(store *Store, log *slog.Logger) (*App, error) {
	bundle, err := i18n.LoadBundle(language.English, locales, "locales/*.yaml")
	if err != nil {
		return nil, err
	}
	a := &App{store: store, bundle: bundle, log: log}

	// Fragment endpoints sort through signed tokens; a fresh key per
	// process invalidates old links on restart.
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	a.tables = hxtable.NewRegistry(key, "/tables/")
	a.tables.Add("todos", todoTable, a.todoSource,
		hxtable.WithResolver(routes),
		hxtable.WithLogger(log),
	)
	a.tables.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("table fragment", "path", r.URL.Path, "error", err)
		if errors.Is(err, hxtable.ErrInvalidSortData) {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
	return a, nil
}

// todoSource feeds the todos fragment, filtered by the status parameter.
func (a *App) todoSource(r *http.Request, sort hxtable.SortState) (iter.Seq[any], error) {
	todos := a.store.List(Status(r.URL.Query().Get("status")))
	if sort.Key != "" {
		sortTodos(todos, sort.Key, sort.Reverse)
	}
	return hxtable.Rows(todos), nil
}

// Handler returns the app's routes.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(routes["todo.list"], a.handleList)
	mux.HandleFunc(routes["todo.show"], a.handleShow)
	mux.HandleFunc(routes["todo.toggle"], a.handleToggle)
	mux.HandleFunc(routes["todo.delete"], a.handleDelete)
	mux.Handle("/tables/", a.tables.Handler())
	return mux
}

func (a *App) handleList(w http.ResponseWriter, r *http.Request) {
	sort := hxtable.SortFromRequest(r).Sanitize(todoTable)
	todos := a.store.List(Status(r.URL.Query().Get("status")))
	if sort.Key != "" {
		sortTodos(todos, sort.Key, sort.Reverse)
	}

	t := todoTable.Table(hxtable.Rows(todos),
		hxtable.WithResolver(routes),
		hxtable.WithTranslator(i18n.ForRequest(a.bundle, r).WithLogger(a.log)),
		hxtable.WithLogger(a.log),
		hxtable.AllowSort(true),
		hxtable.SortURL(hxtable.QuerySortURL(hxtable.RequestURL(r))),
		sort.Option(),
	)
	if err := hxtable.Render(w, r, t); err != nil {
		a.log.Error("render todos", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (a *App) handleShow(w http.ResponseWriter, r *http.Request) {
	todo, ok := a.store.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	// Shared columns keep their construction order, so they lead.
	status, _ := todoTable.Column("status")
	due, _ := todoTable.Column("due")
	detail := hxtable.New(hxtable.Classes("table", "detail"), hxtable.WithResolver(routes)).
		Add("title", hxtable.NewCol("Title")).
		Add("description", hxtable.NewCol("Description")).
		Add("status", status).
		Add("due", due)
	if err := hxtable.Render(w, r, detail.Table(hxtable.Rows([]Todo{todo}))); err != nil {
		a.log.Error("render todo", "id", todo.ID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (a *App) handleToggle(w http.ResponseWriter, r *http.Request) {
	if !a.store.Toggle(r.PathValue("id")) {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !a.store.Delete(r.PathValue("id")) {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	app, err := NewApp(NewStore(time.Now), log)
	if err != nil {
		log.Error("start", "error", err)
		os.Exit(1)
	}

	addr := ":8080"
	log.Info("starting server", "url", "http://localhost"+addr)
	if err := http.ListenAndServe(addr, app.Handler()); err != nil {
		log.Error("serve", "error", err)
		os.Exit(1)
	}
}
