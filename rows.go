package hxtable

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Rows adapts a typed slice to the row sequence a table reads.
func Rows[T any](items []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// RowsOf adapts v to a row sequence. It accepts nil (no rows), iter.Seq[any],
// []any, any slice or array, and receive-capable channels, which are drained
// once. Anything else fails with ErrNotIterable.
func RowsOf(v any) (iter.Seq[any], error) {
	switch rows := v.(type) {
	case nil:
		return func(func(any) bool) {}, nil
	case iter.Seq[any]:
		return rows, nil
	case func(func(any) bool):
		return rows, nil
	case []any:
		return slices.Values(rows), nil
	case []map[string]any:
		return Rows(rows), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, nil
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			break
		}
		return func(yield func(any) bool) {
			for {
				x, ok := rv.Recv()
				if !ok || !yield(x.Interface()) {
					return
				}
			}
		}, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return RowsOf(nil)
		}
		if k := rv.Elem().Kind(); k == reflect.Slice || k == reflect.Array {
			return RowsOf(rv.Elem().Interface())
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrNotIterable, v)
}
