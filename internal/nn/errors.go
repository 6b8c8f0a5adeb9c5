package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrDimensionMismatch   = errors.New("dimension mismatch")
	ErrInvalidTarget       = errors.New("invalid target vector")
	ErrInvalidArchitecture = errors.New("invalid network architecture")
	ErrNumericInstability  = errors.New("numeric instability: non-finite value")
	ErrSnapshotMismatch    = errors.New("snapshot does not match network architecture")
)

// DimensionError reports a vector or matrix whose length does not match the
// configured size. It unwraps to ErrDimensionMismatch.
type DimensionError struct {
	What     string // What was being checked (e.g., "input", "target", "layer 1 weights")
	Expected int
	Got      int
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: expected length %d, got %d", e.What, e.Expected, e.Got)
}

// Unwrap lets errors.Is match ErrDimensionMismatch.
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

func checkLen(what string, expected, got int) error {
	if expected != got {
		return &DimensionError{What: what, Expected: expected, Got: got}
	}
	return nil
}
