package seed

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidInput = errors.New("invalid items document")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field value")
	ErrDuplicateID  = errors.New("duplicate item id")
)
