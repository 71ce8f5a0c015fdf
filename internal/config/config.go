// Package config reads YAML table definitions for the hxtable command.
//
//	table:
//	  classes: [table, striped]
//	  no_items: Nothing to show
//	  sort: {enabled: true, base_url: /items, by: name}
//	routes:
//	  item.view: /items/{id}
//	columns:
//	  - {key: name, heading: Name}
//	  - {key: active, type: bool, heading: Active}
//	  - {key: view, type: link, heading: View, endpoint: item.view, params: {id: id}}
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pthm/hxtable"
	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid table config")

// Column types.
const (
	TypeText     = "text"
	TypeOpt      = "opt"
	TypeBool     = "bool"
	TypeBoolNA   = "boolna"
	TypeDate     = "date"
	TypeDatetime = "datetime"
	TypeLink     = "link"
	TypeButton   = "button"
	TypeExternal = "external"
	TypeNested   = "nested"
)

// Config is a complete table description.
type Config struct {
	Table   TableConfig       `yaml:"table,omitempty"`
	Routes  map[string]string `yaml:"routes,omitempty"`
	Columns []ColumnConfig    `yaml:"columns"`
}

// TableConfig holds table-level options.
type TableConfig struct {
	Classes      []string   `yaml:"classes,omitempty"`
	TheadClasses []string   `yaml:"thead_classes,omitempty"`
	ID           string     `yaml:"id,omitempty"`
	Border       bool       `yaml:"border,omitempty"`
	NoItems      string     `yaml:"no_items,omitempty"`
	AllowEmpty   bool       `yaml:"allow_empty,omitempty"`
	Sort         SortConfig `yaml:"sort,omitempty"`

	// Locale and Timezone configure the default date formatter.
	Locale   string `yaml:"locale,omitempty"`
	Timezone string `yaml:"timezone,omitempty"`
}

// SortConfig enables sort links built with hxtable.QuerySortURL.
type SortConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	By      string `yaml:"by,omitempty"`
	Reverse bool   `yaml:"reverse,omitempty"`
}

// ColumnConfig describes one column. Which fields apply depends on Type.
type ColumnConfig struct {
	Key      string            `yaml:"key"`
	Type     string            `yaml:"type,omitempty"`
	Heading  string            `yaml:"heading,omitempty"`
	Attr     string            `yaml:"attr,omitempty"`
	Path     []string          `yaml:"path,omitempty"`
	Sortable *bool             `yaml:"sortable,omitempty"`
	Hidden   bool              `yaml:"hidden,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	ThAttrs  map[string]string `yaml:"th_attrs,omitempty"`
	TdAttrs  map[string]string `yaml:"td_attrs,omitempty"`

	// opt
	Choices map[string]string `yaml:"choices,omitempty"`
	Default string            `yaml:"default,omitempty"`

	// bool, boolna
	Yes string `yaml:"yes,omitempty"`
	No  string `yaml:"no,omitempty"`
	NA  string `yaml:"na,omitempty"`

	// date, datetime
	Pattern string `yaml:"pattern,omitempty"`

	// link, button, external
	Endpoint     string            `yaml:"endpoint,omitempty"`
	Params       map[string]string `yaml:"params,omitempty"`
	Extra        map[string]string `yaml:"extra,omitempty"`
	Text         string            `yaml:"text,omitempty"`
	HiddenFields map[string]string `yaml:"hidden_fields,omitempty"`
	URL          string            `yaml:"url,omitempty"`

	// nested
	Columns []ColumnConfig `yaml:"columns,omitempty"`
}

// LoadFromPath loads a config file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config without building it.
func (c *Config) Validate() error {
	if len(c.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidConfig)
	}
	if c.Table.Sort.Enabled && c.Table.Sort.BaseURL == "" {
		return fmt.Errorf("%w: sort.enabled requires sort.base_url", ErrInvalidConfig)
	}
	return validateColumns(c.Columns, "columns")
}

func validateColumns(cols []ColumnConfig, where string) error {
	seen := make(map[string]bool)
	for i, col := range cols {
		at := fmt.Sprintf("%s[%d]", where, i)
		if col.Key == "" {
			return fmt.Errorf("%w: %s: missing key", ErrInvalidConfig, at)
		}
		if seen[col.Key] {
			return fmt.Errorf("%w: %s: duplicate key %q", ErrInvalidConfig, at, col.Key)
		}
		seen[col.Key] = true
		if col.Attr != "" && len(col.Path) > 0 {
			return fmt.Errorf("%w: %s: attr and path are exclusive", ErrInvalidConfig, at)
		}

		switch col.Type {
		case "", TypeText, TypeOpt, TypeBool, TypeBoolNA, TypeDate, TypeDatetime:
		case TypeLink, TypeButton:
			if col.Endpoint == "" {
				return fmt.Errorf("%w: %s: %s column needs an endpoint", ErrInvalidConfig, at, col.Type)
			}
		case TypeExternal:
			if col.URL == "" {
				return fmt.Errorf("%w: %s: external column needs a url path", ErrInvalidConfig, at)
			}
		case TypeNested:
			if len(col.Columns) == 0 {
				return fmt.Errorf("%w: %s: nested column needs columns", ErrInvalidConfig, at)
			}
			if err := validateColumns(col.Columns, at+".columns"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s: unknown column type %q", ErrInvalidConfig, at, col.Type)
		}
	}
	return nil
}

// Build compiles the config into a definition carrying its table options.
func (c *Config) Build() (*hxtable.Definition, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts, err := c.Table.options()
	if err != nil {
		return nil, err
	}
	if len(c.Routes) > 0 {
		opts = append(opts, hxtable.WithResolver(hxtable.Routes(c.Routes)))
	}

	def := hxtable.New(opts...)
	for _, col := range c.Columns {
		column, err := col.build()
		if err != nil {
			return nil, err
		}
		def.Add(col.Key, column)
	}
	return def, nil
}

func (t TableConfig) options() ([]hxtable.Option, error) {
	opts := []hxtable.Option{
		hxtable.Classes(t.Classes...),
		hxtable.TheadClasses(t.TheadClasses...),
		hxtable.TableID(t.ID),
		hxtable.Border(t.Border),
		hxtable.AllowEmpty(t.AllowEmpty),
	}
	if t.NoItems != "" {
		opts = append(opts, hxtable.NoItems(t.NoItems))
	}
	if t.Sort.Enabled {
		opts = append(opts,
			hxtable.AllowSort(true),
			hxtable.SortURL(hxtable.QuerySortURL(t.Sort.BaseURL)),
			hxtable.SortBy(t.Sort.By, t.Sort.Reverse),
		)
	}

	if t.Locale != "" || t.Timezone != "" {
		var f hxtable.TimeFormatter
		if t.Locale != "" {
			tag, err := language.Parse(t.Locale)
			if err != nil {
				return nil, fmt.Errorf("%w: locale %q: %v", ErrInvalidConfig, t.Locale, err)
			}
			f.Locale = tag
		}
		if t.Timezone != "" {
			loc, err := time.LoadLocation(t.Timezone)
			if err != nil {
				return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, t.Timezone, err)
			}
			f.Location = loc
		}
		opts = append(opts, hxtable.WithFormatter(f))
	}
	return opts, nil
}

func (col ColumnConfig) columnOptions() []hxtable.ColumnOption {
	var opts []hxtable.ColumnOption
	switch {
	case col.Attr != "":
		opts = append(opts, hxtable.Attr(col.Attr))
	case len(col.Path) > 0:
		opts = append(opts, hxtable.AttrPath(col.Path...))
	}
	if col.Sortable != nil {
		opts = append(opts, hxtable.Sortable(*col.Sortable))
	}
	if col.Hidden {
		opts = append(opts, hxtable.Hidden())
	}
	if len(col.Attrs) > 0 {
		opts = append(opts, hxtable.ColumnAttrs(col.Attrs))
	}
	if len(col.ThAttrs) > 0 {
		opts = append(opts, hxtable.HeaderAttrs(col.ThAttrs))
	}
	if len(col.TdAttrs) > 0 {
		opts = append(opts, hxtable.CellAttrs(col.TdAttrs))
	}
	return opts
}

func (col ColumnConfig) build() (hxtable.Column, error) {
	heading := col.Heading
	if heading == "" {
		heading = col.Key
	}
	opts := col.columnOptions()

	switch col.Type {
	case "", TypeText:
		return hxtable.NewCol(heading, opts...), nil

	case TypeOpt:
		// YAML keys arrive as strings, so row values are compared as strings.
		choices := make(map[any]string, len(col.Choices))
		for k, v := range col.Choices {
			choices[k] = v
		}
		return hxtable.NewOptCol(heading, choices, opts...).
			Default(col.Default).
			Coerce(func(v any) any {
				if v == nil {
					return nil
				}
				return cast.ToString(v)
			}), nil

	case TypeBool:
		c := hxtable.NewBoolCol(heading, opts...)
		if col.Yes != "" || col.No != "" {
			c.Labels(orDefault(col.Yes, "Yes"), orDefault(col.No, "No"))
		}
		return c, nil

	case TypeBoolNA:
		c := hxtable.NewBoolNACol(heading, opts...)
		if col.Yes != "" || col.No != "" {
			c.Labels(orDefault(col.Yes, "Yes"), orDefault(col.No, "No"))
		}
		if col.NA != "" {
			c.NALabel(col.NA)
		}
		return c, nil

	case TypeDate:
		return hxtable.NewDateCol(heading, opts...).Pattern(orDefault(col.Pattern, hxtable.PatternShort)), nil

	case TypeDatetime:
		return hxtable.NewDatetimeCol(heading, opts...).Pattern(orDefault(col.Pattern, hxtable.PatternShort)), nil

	case TypeLink:
		c := hxtable.NewLinkCol(heading, col.Endpoint, opts...).TextFallback(col.Text)
		for name, path := range col.Params {
			c.Param(name, path)
		}
		for name, value := range col.Extra {
			c.Extra(name, value)
		}
		return c, nil

	case TypeButton:
		c := hxtable.NewButtonCol(heading, col.Endpoint, opts...).TextFallback(col.Text)
		for name, path := range col.Params {
			c.Param(name, path)
		}
		for name, value := range col.Extra {
			c.Extra(name, value)
		}
		for name, value := range col.HiddenFields {
			c.HiddenField(name, value)
		}
		return c, nil

	case TypeExternal:
		return hxtable.NewExternalLinkCol(heading, col.URL, opts...), nil

	case TypeNested:
		sub := hxtable.New()
		for _, subCol := range col.Columns {
			c, err := subCol.build()
			if err != nil {
				return nil, err
			}
			sub.Add(subCol.Key, c)
		}
		return hxtable.NewNestedCol(heading, sub, opts...), nil
	}
	return nil, fmt.Errorf("%w: unknown column type %q", ErrInvalidConfig, col.Type)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
