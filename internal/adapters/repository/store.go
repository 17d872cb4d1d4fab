// Package repository defines the item store contract and its backends.
package repository

import (
	"context"
	"sort"

	"github.com/okian/draftrank/internal/domain/model"
)

// Store persists items. It is the only state shared between requests.
type Store interface {
	// LoadItems returns every stored item ordered by id.
	LoadItems(ctx context.Context) ([]model.Item, error)

	// SaveItems writes items, replacing any stored item with the same id.
	// Items not in the batch are left untouched.
	SaveItems(ctx context.Context, items []model.Item) error

	// GetItem returns the item with id, or ErrNotFound.
	GetItem(ctx context.Context, id string) (model.Item, error)

	// UpdateItem merges patch into the stored item and returns its new state.
	// Returns ErrNotFound if id is unknown.
	UpdateItem(ctx context.Context, id string, patch model.Patch) (model.Item, error)

	// Count returns the number of stored items.
	Count(ctx context.Context) (int, error)
}

// persisted strips fields the store never keeps.
func persisted(it model.Item) model.Item {
	it.Value11 = 0
	return it
}

func sortByID(items []model.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

func validateBatch(items []model.Item) error {
	for _, it := range items {
		if it.ID == "" {
			return ErrEmptyID
		}
	}
	return nil
}
