// Package sampling draws a stratified random selection of ranked entries:
// one per quintile of a global rank.
package sampling

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
)

// Quintiles is the number of rank bands sampled.
const Quintiles = 5

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithSeed makes picks reproducible.
func WithSeed(seed int64) Option {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // sampling is not security sensitive
	}
}

// WithSource sets the random source used for picks.
func WithSource(src rand.Source) Option {
	return func(s *Sampler) {
		if src != nil {
			s.rng = rand.New(src) //nolint:gosec // sampling is not security sensitive
		}
	}
}

// Sampler picks entries uniformly at random within rank bands.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New constructs a Sampler seeded from the clock unless an option overrides it.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // sampling is not security sensitive
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the inclusive rank range of quintile q (0-based) over total
// ranked items. The last quintile absorbs the remainder of total/5.
func Bounds(q, total int) (lo, hi int) {
	size := total / Quintiles
	lo = q*size + 1
	hi = (q + 1) * size
	if q == Quintiles-1 {
		hi = total
	}
	return lo, hi
}

// PickFromQuintiles returns up to five candidates, one per quintile of the
// rank on key, in quintile order. Ranks are global: total is the size of the
// full ranked set, candidates is typically one team's subset of it.
// Quintiles with no candidate are skipped.
func (s *Sampler) PickFromQuintiles(candidates []ranking.Entry, key model.Field, total int) ([]ranking.Entry, error) {
	ranks := make([]int, len(candidates))
	for i, c := range candidates {
		r, ok := c.Rank(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s on item %s", ranking.ErrMissingRank, key, c.Item.ID)
		}
		ranks[i] = r
	}

	picked := make([]ranking.Entry, 0, Quintiles)
	for q := 0; q < Quintiles; q++ {
		lo, hi := Bounds(q, total)
		var band []int
		for i, r := range ranks {
			if r >= lo && r <= hi {
				band = append(band, i)
			}
		}
		if len(band) == 0 {
			continue
		}
		picked = append(picked, candidates[band[s.intn(len(band))]])
	}
	return picked, nil
}

func (s *Sampler) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
