// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/draftrank/internal/adapters/repository"
	"github.com/okian/draftrank/internal/domain/dedupe"
	"github.com/okian/draftrank/internal/domain/format"
	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
	"github.com/okian/draftrank/internal/domain/sampling"
	"github.com/okian/draftrank/pkg/logger"
	"github.com/okian/draftrank/pkg/metrics"
)

// TeamSample is the quintile draw for one team.
type TeamSample struct {
	Team  string
	Items []format.View
}

// SaveResult reports the outcome of Save.
type SaveResult struct {
	Item      model.Item
	Duplicate bool
}

// Service ranks, samples and mutates the items held by a store.
type Service struct {
	mu sync.RWMutex
	// saveMu serializes read-modify-write cycles on the store.
	saveMu sync.Mutex

	store   repository.Store
	deduper dedupe.Deduper
	sampler *sampling.Sampler

	teams      []string
	dedupeSize int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSampler replaces the default clock-seeded sampler.
func WithSampler(sm *sampling.Sampler) Option {
	return func(s *Service) {
		if sm != nil {
			s.sampler = sm
		}
	}
}

// WithTeams sets the teams Generate draws for, in output order.
func WithTeams(teams ...string) Option {
	return func(s *Service) {
		if len(teams) > 0 {
			s.teams = append([]string(nil), teams...)
		}
	}
}

// WithDedupeSize sets the size of the idempotency-key cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDeduper injects a deduper, overriding WithDedupeSize.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		s.deduper = d
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		teams:      []string{"A", "B"},
		dedupeSize: 10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sampler == nil {
		s.sampler = sampling.New()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	}
	return s
}

// Start prepares the service and logs the item count. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		return ErrNoStore
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	metrics.UpdateTotalItems(n)

	s.started = true
	s.logger.Info(ctx, "ranking service started",
		logger.Int("items", n),
		logger.Any("teams", s.teams),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop closes the store. Calling it on a stopped service is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := repository.Close(s.store); err != nil {
		s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "ranking service stopped")
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// Leaderboard ranks every stored item and annotates ranks with colors.
func (s *Service) Leaderboard(ctx context.Context) ([]format.View, error) {
	items, err := s.store.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	metrics.UpdateTotalItems(len(items))

	start := time.Now()
	board, err := ranking.Leaderboard(items)
	if err != nil {
		return nil, err
	}
	metrics.RecordRankingPass("leaderboard", msSince(start))
	return format.Colors(board.Entries(), board.Len()), nil
}

// Generate draws up to one item per composite-rank quintile for every team.
// Ranks are computed over all items; teams only filter the candidates.
func (s *Service) Generate(ctx context.Context) ([]TeamSample, error) {
	items, err := s.store.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	metrics.UpdateTotalItems(len(items))

	start := time.Now()
	board, err := ranking.ForSampling(items)
	if err != nil {
		return nil, err
	}
	metrics.RecordRankingPass("sampling", msSince(start))

	byTeam := make(map[string][]ranking.Entry, len(s.teams))
	for _, e := range board.Entries() {
		byTeam[e.Item.Team] = append(byTeam[e.Item.Team], e)
	}

	out := make([]TeamSample, 0, len(s.teams))
	for _, team := range s.teams {
		picked, err := s.sampler.PickFromQuintiles(byTeam[team], model.Value11, board.Len())
		if err != nil {
			return nil, err
		}
		metrics.RecordSamplesDrawn(team, len(picked))
		out = append(out, TeamSample{Team: team, Items: format.Ordinals(picked, board.Len())})
	}
	return out, nil
}

// Save adds delta to the inputs of item id, recomputes its derived values and
// writes the whole set back. A non-empty idempotencyKey already applied makes
// the call a no-op reported as Duplicate. Keys are checked under the save lock,
// so a retry racing an in-flight attempt waits for its outcome.
func (s *Service) Save(ctx context.Context, id string, delta model.Delta, idempotencyKey string) (SaveResult, error) {
	if id == "" {
		return SaveResult{}, repository.ErrEmptyID
	}

	res, err := s.save(ctx, id, delta, idempotencyKey)
	switch {
	case err != nil:
		if !errors.Is(err, repository.ErrNotFound) {
			metrics.RecordSaveError()
		}
		return SaveResult{}, err
	case res.Duplicate:
		metrics.RecordSaveDuplicate()
		s.log().Debug(ctx, "duplicate save skipped",
			logger.String("id", id), logger.String("idempotencyKey", idempotencyKey))
	default:
		metrics.RecordSave()
		s.log().Info(ctx, "item saved", logger.String("id", id))
	}
	return res, nil
}

func (s *Service) save(ctx context.Context, id string, delta model.Delta, key string) (SaveResult, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if key != "" && s.deduper.SeenAndRecord(ctx, key) {
		return SaveResult{Duplicate: true}, nil
	}
	it, err := s.apply(ctx, id, delta)
	if err != nil {
		if key != "" {
			s.deduper.Unrecord(ctx, key)
		}
		return SaveResult{}, err
	}
	return SaveResult{Item: it}, nil
}

// apply runs the read-modify-write of one save. Callers hold saveMu.
func (s *Service) apply(ctx context.Context, id string, delta model.Delta) (model.Item, error) {
	items, err := s.store.LoadItems(ctx)
	if err != nil {
		return model.Item{}, fmt.Errorf("load items: %w", err)
	}
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Item{}, fmt.Errorf("save %s: %w", id, repository.ErrNotFound)
	}
	items[idx] = ranking.CalculateDerived(items[idx].Apply(delta))

	if err := s.store.SaveItems(ctx, items); err != nil {
		return model.Item{}, fmt.Errorf("save items: %w", err)
	}
	return items[idx], nil
}

// Item returns the stored item with id.
func (s *Service) Item(ctx context.Context, id string) (model.Item, error) {
	return s.store.GetItem(ctx, id)
}

// UpdateItem sets the team and input values named by patch, recomputes the
// derived values and returns the stored result. Derived and composite fields
// in patch are rejected.
func (s *Service) UpdateItem(ctx context.Context, id string, patch model.Patch) (model.Item, error) {
	for f := range patch.Values {
		if f < model.Value1 || f > model.Value6 {
			return model.Item{}, fmt.Errorf("%w: %s", ErrReadOnlyField, f)
		}
	}
	if patch.Empty() {
		return s.store.GetItem(ctx, id)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	current, err := s.store.GetItem(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	next := ranking.CalculateDerived(current.Merge(patch))

	full := model.Patch{Team: patch.Team, Values: make(map[model.Field]float64, len(model.InputFields)+len(model.DerivedFields))}
	for _, f := range model.InputFields {
		full.Values[f] = next.Value(f)
	}
	for _, f := range model.DerivedFields {
		full.Values[f] = next.Value(f)
	}
	updated, err := s.store.UpdateItem(ctx, id, full)
	if err != nil {
		return model.Item{}, err
	}
	s.log().Info(ctx, "item updated", logger.String("id", id))
	return updated, nil
}

// Teams returns the configured teams in output order.
func (s *Service) Teams() []string {
	return append([]string(nil), s.teams...)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"teams":       s.Teams(),
		"dedupeSize":  s.dedupeSize,
		"dedupeCount": s.deduper.Size(),
	}

	if s.started {
		if n, err := s.store.Count(ctx); err == nil {
			stats["totalItems"] = n
			metrics.UpdateTotalItems(n)
		} else {
			stats["storeError"] = err.Error()
		}
	}
	return stats
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
