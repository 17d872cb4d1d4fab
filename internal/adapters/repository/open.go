package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/metrics"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendDynamo = "dynamodb"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend    string
	JSONPath   string
	SQLitePath string
	Dynamo     DynamoConfig
}

// Open builds the configured backend wrapped with metrics instrumentation.
func Open(ctx context.Context, cfg Config, opts ...Option) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory, "":
		backend = BackendMemory
		s = NewMemoryStore(opts...)
	case BackendJSON:
		s, err = NewJSONFileStore(cfg.JSONPath, opts...)
	case BackendSQLite:
		s, err = OpenSQLite(ctx, cfg.SQLitePath, opts...)
	case BackendDynamo:
		s, err = OpenDynamo(ctx, cfg.Dynamo, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	return Instrument(s, backend), nil
}

// Close releases s if its backend holds resources.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// instrumented records latency and failures of every call on the wrapped store.
type instrumented struct {
	next    Store
	backend string
}

// Instrument wraps s so each operation is reported to metrics under backend.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	metrics.RecordStoreOp(s.backend, op, float64(time.Since(start).Microseconds())/1000.0, err != nil && !errors.Is(err, ErrNotFound))
}

func (s *instrumented) LoadItems(ctx context.Context) (items []model.Item, err error) {
	defer func(start time.Time) { s.observe("load", start, err) }(time.Now())
	return s.next.LoadItems(ctx)
}

func (s *instrumented) SaveItems(ctx context.Context, items []model.Item) (err error) {
	defer func(start time.Time) { s.observe("save", start, err) }(time.Now())
	return s.next.SaveItems(ctx, items)
}

func (s *instrumented) GetItem(ctx context.Context, id string) (it model.Item, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.next.GetItem(ctx, id)
}

func (s *instrumented) UpdateItem(ctx context.Context, id string, patch model.Patch) (it model.Item, err error) {
	defer func(start time.Time) { s.observe("update", start, err) }(time.Now())
	return s.next.UpdateItem(ctx, id, patch)
}

func (s *instrumented) Count(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { s.observe("count", start, err) }(time.Now())
	return s.next.Count(ctx)
}

func (s *instrumented) Close() error {
	return Close(s.next)
}
