package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/logger"
)

const (
	jsonFilePermission = 0o644
	jsonDirPermission  = 0o755
)

// JSONFileStore keeps items as a JSON array in a single file. Every write
// rewrites the file through a temp file and rename.
type JSONFileStore struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

// NewJSONFileStore opens (without creating) the file at path. A missing file
// reads as an empty set.
func NewJSONFileStore(path string, opts ...Option) (*JSONFileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("json store path is required")
	}
	o := storeOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &JSONFileStore{path: filepath.Clean(path), logger: o.logger}, nil
}

func (s *JSONFileStore) read() (map[string]model.Item, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]model.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var items []model.Item
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.path, err)
		}
	}
	out := make(map[string]model.Item, len(items))
	for _, it := range items {
		out[it.ID] = persisted(it)
	}
	return out, nil
}

func (s *JSONFileStore) write(items map[string]model.Item) error {
	list := make([]model.Item, 0, len(items))
	for _, it := range items {
		list = append(list, it)
	}
	sortByID(list)
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), jsonDirPermission); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), jsonFilePermission); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONFileStore) LoadItems(ctx context.Context) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]model.Item, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	sortByID(out)
	return out, nil
}

func (s *JSONFileStore) SaveItems(ctx context.Context, items []model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateBatch(items); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	for _, it := range items {
		m[it.ID] = persisted(it)
	}
	if err := s.write(m); err != nil {
		return err
	}
	s.logger.Debug(ctx, "wrote items file", logger.String("path", s.path), logger.Int("count", len(m)))
	return nil
}

func (s *JSONFileStore) GetItem(ctx context.Context, id string) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return model.Item{}, err
	}
	it, ok := m[id]
	if !ok {
		return model.Item{}, ErrNotFound
	}
	return it, nil
}

func (s *JSONFileStore) UpdateItem(ctx context.Context, id string, patch model.Patch) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return model.Item{}, err
	}
	it, ok := m[id]
	if !ok {
		return model.Item{}, ErrNotFound
	}
	it = persisted(it.Merge(patch))
	m[id] = it
	if err := s.write(m); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *JSONFileStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(m), nil
}
