package repository

import (
	"context"
	"sync"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/logger"
)

// MemoryStore keeps items in a map. Useful for tests and single-process demos.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]model.Item
	logger logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := storeOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	s := &MemoryStore{items: make(map[string]model.Item, len(o.seed)), logger: o.logger}
	for _, it := range o.seed {
		s.items[it.ID] = persisted(it)
	}
	return s
}

func (s *MemoryStore) LoadItems(ctx context.Context) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sortByID(out)
	return out, nil
}

func (s *MemoryStore) SaveItems(ctx context.Context, items []model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateBatch(items); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.ID] = persisted(it)
	}
	s.logger.Debug(ctx, "saved items", logger.Int("count", len(items)))
	return nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id string) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return model.Item{}, ErrNotFound
	}
	return it, nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, id string, patch model.Patch) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return model.Item{}, ErrNotFound
	}
	it = persisted(it.Merge(patch))
	s.items[id] = it
	return it, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}
