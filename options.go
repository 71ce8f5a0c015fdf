package hxtable

import "log/slog"

// DefaultNoItems is the text shown in place of a table with no rows.
const DefaultNoItems = "No Items"

// SortURLFunc builds the URL a sortable header links to.
type SortURLFunc func(key string, reverse bool) (string, error)

// Options controls how a table renders. Definitions carry defaults; each
// Table copies them and applies its own options on top.
type Options struct {
	Classes      []string
	TheadClasses []string
	ID           string
	Border       bool

	// NoItems replaces the table when there are no rows, unless AllowEmpty
	// is set, in which case an empty table is rendered.
	NoItems    string
	AllowEmpty bool

	// AllowSort turns sortable headings into links built by SortURL. SortBy
	// and SortReverse describe the current order; the table only displays
	// it and never sorts rows itself.
	AllowSort   bool
	SortBy      string
	SortReverse bool
	SortURL     SortURLFunc

	// RowAttrs returns attributes for each row's <tr>.
	RowAttrs func(row any) Attrs

	Resolver   LinkResolver
	Formatter  TemporalFormatter
	Translator Translator
	Logger     *slog.Logger
}

// Option configures Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		NoItems:   DefaultNoItems,
		Formatter: TimeFormatter{},
	}
}

func (o Options) clone() Options {
	o.Classes = append([]string(nil), o.Classes...)
	o.TheadClasses = append([]string(nil), o.TheadClasses...)
	return o
}

// Classes appends CSS classes to the <table> element.
func Classes(classes ...string) Option {
	return func(o *Options) {
		o.Classes = append(o.Classes, classes...)
	}
}

// TheadClasses appends CSS classes to the <thead> element.
func TheadClasses(classes ...string) Option {
	return func(o *Options) {
		o.TheadClasses = append(o.TheadClasses, classes...)
	}
}

// TableID sets the id of the <table> element.
func TableID(id string) Option {
	return func(o *Options) {
		o.ID = id
	}
}

// Border sets border="1" on the <table> element.
func Border(border bool) Option {
	return func(o *Options) {
		o.Border = border
	}
}

// NoItems sets the text shown when there are no rows.
func NoItems(text string) Option {
	return func(o *Options) {
		o.NoItems = text
	}
}

// AllowEmpty renders an empty table instead of the NoItems text.
func AllowEmpty(allow bool) Option {
	return func(o *Options) {
		o.AllowEmpty = allow
	}
}

// AllowSort enables sort links on sortable columns. It requires SortURL.
func AllowSort(allow bool) Option {
	return func(o *Options) {
		o.AllowSort = allow
	}
}

// SortBy records the current sort column and direction.
func SortBy(key string, reverse bool) Option {
	return func(o *Options) {
		o.SortBy = key
		o.SortReverse = reverse
	}
}

// SortURL sets the strategy used to build sort links.
func SortURL(fn SortURLFunc) Option {
	return func(o *Options) {
		o.SortURL = fn
	}
}

// RowAttrs sets the per-row attribute hook.
func RowAttrs(fn func(row any) Attrs) Option {
	return func(o *Options) {
		o.RowAttrs = fn
	}
}

// WithResolver sets the link resolver for link and button columns.
func WithResolver(r LinkResolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// WithFormatter replaces the default TimeFormatter.
func WithFormatter(f TemporalFormatter) Option {
	return func(o *Options) {
		o.Formatter = f
	}
}

// WithTranslator translates headings, link text and the NoItems text.
func WithTranslator(t Translator) Option {
	return func(o *Options) {
		o.Translator = t
	}
}

// WithLogger sets the logger used for debug output. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
