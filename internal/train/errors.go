package train

import "errors"

// Common errors.
var (
	ErrEmptyDataset  = errors.New("training set is empty")
	ErrInvalidConfig = errors.New("invalid training config")
)
