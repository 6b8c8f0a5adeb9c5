package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrTruncated          = errors.New("model data is truncated")
	ErrMalformed          = errors.New("malformed model")
)

// ValidationError provides detailed information about structural failures.
// It unwraps to ErrMalformed.
type ValidationError struct {
	Type    string // Type of error (e.g., "shape_mismatch", "trailing_data")
	Field   string // Field involved (e.g., "layer 1 weights")
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *ValidationError) Unwrap() error {
	return ErrMalformed
}
