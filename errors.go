package hxtable

import "errors"

// Sentinel errors for table definition and rendering.
//
// Configuration errors (ErrSortURLMissing, ErrUnknownColumn,
// ErrNoLinkResolver, ErrNoFormatter, ErrUnknownEndpoint) signal a
// programming mistake and abort the render. Path errors (ErrPathMismatch, ErrCallFailed) mean a column's
// access path does not match the shape of the rows it is given.
var (
	ErrSortURLMissing  = errors.New("hxtable: sorting enabled but no sort URL strategy configured")
	ErrUnknownColumn   = errors.New("hxtable: unknown column")
	ErrNoLinkResolver  = errors.New("hxtable: no link resolver configured")
	ErrNoFormatter     = errors.New("hxtable: no temporal formatter configured")
	ErrUnknownEndpoint = errors.New("hxtable: unknown endpoint")
	ErrMissingParam    = errors.New("hxtable: missing URL parameter")
	ErrPathMismatch    = errors.New("hxtable: access path does not match row shape")
	ErrCallFailed      = errors.New("hxtable: computed field returned an error")
	ErrNotIterable     = errors.New("hxtable: value is not a row sequence")
	ErrInvalidSortData = errors.New("hxtable: invalid sort state")
)

// IsConfigError reports whether err is a configuration error: the table was
// asked to do something it was never given the means to do.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrSortURLMissing) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrNoLinkResolver) ||
		errors.Is(err, ErrNoFormatter) ||
		errors.Is(err, ErrUnknownEndpoint)
}

// IsPathError reports whether err came from resolving an access path
// against a row of the wrong shape.
func IsPathError(err error) bool {
	return errors.Is(err, ErrPathMismatch) || errors.Is(err, ErrCallFailed)
}
