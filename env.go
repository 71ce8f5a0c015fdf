package hxtable

import (
	"context"
	"log/slog"
)

// Env carries the collaborators a render needs. Columns receive it for every
// cell; custom columns read what they need from it.
//
// An Env is built per render from the table's Options and is not retained.
type Env struct {
	Context    context.Context
	Resolver   LinkResolver
	Formatter  TemporalFormatter
	Translator Translator
	Logger     *slog.Logger
}

// Translate returns msg translated when a Translator is configured, msg
// otherwise.
func (e *Env) Translate(msg string) string {
	if e == nil || e.Translator == nil {
		return msg
	}
	return e.Translator.Translate(msg)
}

// Resolve walks row along path, logging calls that had to be skipped.
func (e *Env) Resolve(row any, path Path) (any, bool, error) {
	return resolve(row, path, e.logger())
}

func (e *Env) logger() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Env) context() context.Context {
	if e == nil || e.Context == nil {
		return context.Background()
	}
	return e.Context
}
