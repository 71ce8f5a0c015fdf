package hxtable

import (
	"errors"
	"fmt"

	"github.com/pthm/hxtable/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// NewEncoder creates an encoder for signed sort tokens with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// wrapEncodingError maps token failures to ErrInvalidSortData. Callers
// usually treat a bad token like a missing one.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed) {
		return fmt.Errorf("%w: %v", ErrInvalidSortData, err)
	}
	return err
}
