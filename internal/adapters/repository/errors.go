package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("item not found")
	ErrEmptyID        = errors.New("item id must not be empty")
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrUnprocessed    = errors.New("items left unprocessed after retries")
)
