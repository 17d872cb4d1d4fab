package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoStore       = errors.New("service has no store")
	ErrReadOnlyField = errors.New("field cannot be set directly")
)
