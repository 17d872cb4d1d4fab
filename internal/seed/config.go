package seed

import (
	"github.com/okian/draftrank/internal/adapters/repository"
	"github.com/okian/draftrank/pkg/logger"
)

// Config holds configuration for a load.
type Config struct {
	Input     string            // Path of the JSON array to load
	Recompute bool              // Recompute value7..value10 from the inputs
	DryRun    bool              // Parse and validate without writing
	Verbose   bool              // Log every written id
	Store     repository.Config // Destination store, used for logging only
	Logger    logger.Logger     // Defaults to a no-op logger
}

// Stats summarizes a load.
type Stats struct {
	Read    int
	Written int
	Teams   map[string]int
}
