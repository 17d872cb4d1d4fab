package repository

import (
	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/logger"
)

// Option applies a configuration option to the memory and file stores.
type Option func(*storeOptions)

type storeOptions struct {
	logger logger.Logger
	seed   []model.Item
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithItems pre-populates a memory store.
func WithItems(items []model.Item) Option {
	return func(o *storeOptions) {
		o.seed = items
	}
}
