// Package i18n translates table headings and link text with go-i18n.
//
// Message IDs are the source strings themselves, so a bundle file maps the
// English heading to its translation:
//
//	# active.fr.yaml
//	Name: Nom
//	"No Items": Aucun élément
package i18n

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Translator implements hxtable.Translator over a go-i18n Localizer.
// Messages missing from the bundle are returned unchanged.
type Translator struct {
	localizer *goi18n.Localizer
	log       *slog.Logger
}

// New wraps a localizer.
func New(l *goi18n.Localizer) *Translator {
	return &Translator{localizer: l, log: slog.Default()}
}

// WithLogger sets the logger that reports missing messages at debug level.
func (t *Translator) WithLogger(l *slog.Logger) *Translator {
	t.log = l
	return t
}

// Translate implements hxtable.Translator.
func (t *Translator) Translate(msg string) string {
	if msg == "" {
		return msg
	}
	out, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: msg})
	if err != nil || out == "" {
		t.log.Debug("i18n: no translation", "message", msg, "error", err)
		return msg
	}
	return out
}

// LoadBundle creates a bundle with the given default language and loads the
// message files in fsys matching patterns. JSON and YAML files are
// supported, named <anything>.<lang>.<ext> as go-i18n expects.
func LoadBundle(def language.Tag, fsys fs.FS, patterns ...string) (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)

	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("i18n: %w", err)
		}
		for _, path := range matches {
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return nil, fmt.Errorf("i18n: %w", err)
			}
			if _, err := bundle.ParseMessageFileBytes(data, path); err != nil {
				return nil, fmt.Errorf("i18n: parse %s: %w", path, err)
			}
		}
	}
	return bundle, nil
}

// ForLanguages returns a translator for the first of langs the bundle
// supports. Each entry may be a tag or an Accept-Language value.
func ForLanguages(bundle *goi18n.Bundle, langs ...string) *Translator {
	return New(goi18n.NewLocalizer(bundle, langs...))
}

// ForRequest returns a translator for the request's lang query parameter or
// its Accept-Language header, in that order.
func ForRequest(bundle *goi18n.Bundle, r *http.Request) *Translator {
	return ForLanguages(bundle, r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}
