package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrMissingRank = errors.New("missing rank")
)
