package hxtable

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Path is an access path: the ordered keys used to walk from a row to the
// value a column displays.
type Path []string

// ParsePath splits a dotted path ("author.profile.email") into segments.
// The split happens once, here. Keys that themselves contain dots cannot be
// expressed this way; build the Path from explicit segments instead.
func ParsePath(dotted string) Path {
	if dotted == "" {
		return nil
	}
	return Path(strings.Split(dotted, "."))
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// RowAccessor is implemented by rows that look up their own fields. It takes
// precedence over map and struct reflection. The generator in lib/generator
// emits implementations for tagged structs.
//
// Field returns false when the row has no value for key.
type RowAccessor interface {
	Field(key string) (any, bool)
}

// MapRow adapts a map to RowAccessor.
type MapRow map[string]any

// Field implements RowAccessor.
func (m MapRow) Field(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// StructRow adapts any struct (or pointer to struct) to RowAccessor using the
// same property rules Resolve applies: `table` tag, `json` tag, field name,
// then method name.
type StructRow struct {
	V any
}

// Field implements RowAccessor.
func (s StructRow) Field(key string) (any, bool) {
	if isNull(s.V) {
		return nil, false
	}
	return property(reflect.ValueOf(s.V), key)
}

// Resolve walks row along path. The boolean result is false when the value
// is absent: an intermediate or final step was nil, or a map had no entry
// for the key. Absent is distinct from present zero values such as false or
// "".
//
// At every step a RowAccessor is consulted first, then map-style lookup,
// then property-style lookup (fields and methods). Once a step yields a
// value, a function or method needing no arguments is called and its result
// used instead; functions that need arguments are kept as they are. A
// non-nil value that supports neither kind of lookup for a key fails with
// ErrPathMismatch.
func Resolve(row any, path Path) (any, bool, error) {
	return resolve(row, path, nil)
}

func resolve(row any, path Path, log *slog.Logger) (any, bool, error) {
	cur := row
	for i, key := range path {
		if isNull(cur) {
			return nil, false, nil
		}
		v, ok, err := step(cur, key)
		if err != nil {
			return nil, false, fmt.Errorf("path %q segment %d: %w", path.String(), i, err)
		}
		if !ok {
			return nil, false, nil
		}
		v, err = invoke(v, key, log)
		if err != nil {
			return nil, false, fmt.Errorf("path %q segment %d: %w", path.String(), i, err)
		}
		cur = v
	}
	if isNull(cur) {
		return nil, false, nil
	}
	return indirect(cur), true, nil
}

func step(cur any, key string) (any, bool, error) {
	if acc, ok := cur.(RowAccessor); ok {
		v, ok := acc.Field(key)
		return v, ok, nil
	}

	rv := reflect.ValueOf(cur)
	if m := mapValue(rv); m.IsValid() {
		if v := m.MapIndex(reflect.ValueOf(key).Convert(m.Type().Key())); v.IsValid() {
			return v.Interface(), true, nil
		}
		// A map type may still carry methods.
		if v, ok := property(rv, key); ok {
			return v, true, nil
		}
		return nil, false, nil
	}

	if v, ok := property(rv, key); ok {
		return v, true, nil
	}
	return nil, false, fmt.Errorf("%w: %T has no key or field %q", ErrPathMismatch, cur, key)
}

// mapValue returns the map behind rv when its keys are string-like.
func mapValue(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		return rv
	}
	return reflect.Value{}
}

// property looks key up as a struct field or a method of rv.
func property(rv reflect.Value, key string) (any, bool) {
	names := []string{key}
	if exported := exportName(key); exported != key {
		names = append(names, exported)
	}

	sv := rv
	for sv.Kind() == reflect.Pointer || sv.Kind() == reflect.Interface {
		if sv.IsNil() {
			return nil, false
		}
		sv = sv.Elem()
	}

	if sv.Kind() == reflect.Struct {
		if f, ok := taggedField(sv, key); ok {
			return f, true
		}
		for _, name := range names {
			if sf, ok := sv.Type().FieldByName(name); ok && sf.IsExported() && !hiddenField(sf) {
				f, err := sv.FieldByIndexErr(sf.Index)
				if err != nil {
					// promoted through a nil embedded pointer
					return nil, true
				}
				return f.Interface(), true
			}
		}
	}

	// Methods declared on the pointer type are only reachable through a
	// pointer; take one when the row was passed by value.
	mv := rv
	if mv.Kind() != reflect.Pointer && sv.Kind() == reflect.Struct {
		p := reflect.New(sv.Type())
		p.Elem().Set(sv)
		mv = p
	}
	for _, name := range names {
		if m := mv.MethodByName(name); m.IsValid() {
			return m.Interface(), true
		}
	}
	return nil, false
}

func taggedField(sv reflect.Value, key string) (any, bool) {
	for _, sf := range reflect.VisibleFields(sv.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		for _, tag := range []string{"table", "json"} {
			name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
			if name != "" && name != "-" && name == key {
				f, err := sv.FieldByIndexErr(sf.Index)
				if err != nil {
					return nil, true
				}
				return f.Interface(), true
			}
		}
	}
	return nil, false
}

// hiddenField reports whether sf is tagged table:"-".
func hiddenField(sf reflect.StructField) bool {
	name, _, _ := strings.Cut(sf.Tag.Get("table"), ",")
	return name == "-"
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// invoke calls v when it is a function that can be called without
// arguments. Anything else, including functions that need arguments, is
// returned unchanged.
func invoke(v any, key string, log *slog.Logger) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return v, nil
	}
	t := rv.Type()
	callable := t.NumIn() == 0 || (t.NumIn() == 1 && t.IsVariadic())
	if !callable || t.NumOut() == 0 {
		if log != nil {
			log.Debug("hxtable: keeping uncallable function value", "key", key, "type", t.String())
		}
		return v, nil
	}

	out := rv.Call(nil)
	if last := t.NumOut() - 1; last > 0 && t.Out(last) == errorType {
		if err, _ := out[last].Interface().(error); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCallFailed, key, err)
		}
	}
	return out[0].Interface(), nil
}

// isNull reports whether v is nil or a nil pointer, interface or function.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// indirect dereferences pointers to non-struct values so that a *string
// displays like a string. Struct pointers keep their methods.
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() != reflect.Struct {
		rv = rv.Elem()
	}
	return rv.Interface()
}

func exportName(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
