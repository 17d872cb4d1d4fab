package config

import "errors"

// Errors returned by Load and Validate; match them with errors.Is.
var (
	// ErrInvalidConfig wraps every validation failure (bad backend, empty teams, ...).
	ErrInvalidConfig = errors.New("invalid draftrank config")
	// ErrLoadConfig wraps failures reading the config file or environment.
	ErrLoadConfig = errors.New("load draftrank config")
)
