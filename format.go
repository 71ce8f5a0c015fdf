package hxtable

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/itchyny/timefmt-go"
	"github.com/spf13/cast"
	"golang.org/x/text/language"
)

// TemporalFormatter formats dates and datetimes for display. Date and
// datetime columns call it; they never pass it an absent value.
type TemporalFormatter interface {
	FormatDate(v any, pattern string) (string, error)
	FormatDateTime(v any, pattern string) (string, error)
}

// Translator translates display strings such as headings and link text.
type Translator interface {
	Translate(msg string) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(msg string) string

// Translate implements Translator.
func (f TranslatorFunc) Translate(msg string) string { return f(msg) }

// Named patterns understood by TimeFormatter.
const (
	PatternShort  = "short"
	PatternMedium = "medium"
	PatternLong   = "long"
	PatternFull   = "full"
)

// TimeFormatter is the default TemporalFormatter.
//
// Patterns are interpreted as:
//   - "short", "medium", "long", "full": a locale-specific style
//   - anything containing '%': a strftime pattern ("%Y-%m-%d")
//   - anything else: a Go reference layout ("2006-01-02")
//
// Values may be time.Time, *time.Time, or anything spf13/cast can turn into
// a time (RFC 3339 strings, dates, Unix seconds). Month and weekday names
// are always English; non-English locales only change numeric layouts.
type TimeFormatter struct {
	// Locale selects the named styles. The zero value means en-GB.
	Locale language.Tag
	// Location, when set, converts datetimes before formatting. Dates are
	// formatted in the value's own location.
	Location *time.Location
}

type localeStyles struct {
	date     map[string]string
	datetime map[string]string
}

var supportedLocales = []language.Tag{
	language.BritishEnglish,
	language.AmericanEnglish,
	language.German,
	language.French,
	language.Japanese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var styles = []localeStyles{
	{ // en-GB
		date: map[string]string{
			PatternShort:  "02/01/2006",
			PatternMedium: "2 Jan 2006",
			PatternLong:   "2 January 2006",
			PatternFull:   "Monday, 2 January 2006",
		},
		datetime: map[string]string{
			PatternShort:  "02/01/2006, 15:04",
			PatternMedium: "2 Jan 2006, 15:04:05",
			PatternLong:   "2 January 2006 at 15:04:05 MST",
			PatternFull:   "Monday, 2 January 2006 at 15:04:05 MST",
		},
	},
	{ // en-US
		date: map[string]string{
			PatternShort:  "1/2/06",
			PatternMedium: "Jan 2, 2006",
			PatternLong:   "January 2, 2006",
			PatternFull:   "Monday, January 2, 2006",
		},
		datetime: map[string]string{
			PatternShort:  "1/2/06, 3:04 PM",
			PatternMedium: "Jan 2, 2006, 3:04:05 PM",
			PatternLong:   "January 2, 2006 at 3:04:05 PM MST",
			PatternFull:   "Monday, January 2, 2006 at 3:04:05 PM MST",
		},
	},
	{ // de
		date: map[string]string{
			PatternShort:  "02.01.06",
			PatternMedium: "02.01.2006",
			PatternLong:   "02.01.2006",
			PatternFull:   "02.01.2006",
		},
		datetime: map[string]string{
			PatternShort:  "02.01.06, 15:04",
			PatternMedium: "02.01.2006, 15:04:05",
			PatternLong:   "02.01.2006, 15:04:05 MST",
			PatternFull:   "02.01.2006, 15:04:05 MST",
		},
	},
	{ // fr
		date: map[string]string{
			PatternShort:  "02/01/2006",
			PatternMedium: "02/01/2006",
			PatternLong:   "02/01/2006",
			PatternFull:   "02/01/2006",
		},
		datetime: map[string]string{
			PatternShort:  "02/01/2006 15:04",
			PatternMedium: "02/01/2006 15:04:05",
			PatternLong:   "02/01/2006 15:04:05 MST",
			PatternFull:   "02/01/2006 15:04:05 MST",
		},
	},
	{ // ja
		date: map[string]string{
			PatternShort:  "2006/01/02",
			PatternMedium: "2006/01/02",
			PatternLong:   "2006/01/02",
			PatternFull:   "2006/01/02",
		},
		datetime: map[string]string{
			PatternShort:  "2006/01/02 15:04",
			PatternMedium: "2006/01/02 15:04:05",
			PatternLong:   "2006/01/02 15:04:05 MST",
			PatternFull:   "2006/01/02 15:04:05 MST",
		},
	},
}

// FormatDate implements TemporalFormatter.
func (f TimeFormatter) FormatDate(v any, pattern string) (string, error) {
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	return f.format(t, pattern, false), nil
}

// FormatDateTime implements TemporalFormatter.
func (f TimeFormatter) FormatDateTime(v any, pattern string) (string, error) {
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	if f.Location != nil {
		t = t.In(f.Location)
	}
	return f.format(t, pattern, true), nil
}

func (f TimeFormatter) format(t time.Time, pattern string, datetime bool) string {
	if pattern == "" {
		pattern = PatternShort
	}
	if strings.ContainsRune(pattern, '%') {
		return timefmt.Format(t, pattern)
	}
	_, idx, _ := localeMatcher.Match(f.Locale)
	set := styles[idx].date
	if datetime {
		set = styles[idx].datetime
	}
	if layout, ok := set[pattern]; ok {
		return t.Format(layout)
	}
	return t.Format(pattern)
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		return *t, nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("hxtable: cannot format %T as a time: %w", v, err)
	}
	return t, nil
}

// Text stringifies v and escapes it for use as element content. It is what
// plain columns display; custom columns can use it for the same result.
func Text(v any) string {
	return templ.EscapeString(stringify(v))
}

// stringify renders a resolved value as display text.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// truthy mirrors the usual notion of a "set" value: false, zero numbers,
// empty strings and collections, zero times and nil are all false.
func truthy(v any) bool {
	if isNull(v) {
		return false
	}
	if t, ok := v.(time.Time); ok {
		return !t.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	}
	return true
}
