// Package ranking computes per-field ranks and the composite score over a
// full item set.
//
// A Board holds a private copy of the items for one request; rank annotations
// accumulate on it across ComputeRanks calls and never leak back to the store.
package ranking

import (
	"fmt"
	"sort"

	"github.com/okian/draftrank/internal/domain/model"
)

// CompositeFields feed the composite score (value11).
var CompositeFields = []model.Field{
	model.Value2, model.Value3, model.Value4, model.Value5, model.Value6,
	model.Value7, model.Value8, model.Value9, model.Value10,
}

// invertedFields contribute N+1-rank to the composite, so large values count against an item.
var invertedFields = map[model.Field]bool{
	model.Value3: true,
	model.Value6: true,
}

// LeaderboardFields are ranked for the full leaderboard before the composite.
var LeaderboardFields = []model.Field{
	model.Value1, model.Value2, model.Value3, model.Value4, model.Value5,
	model.Value6, model.Value7, model.Value8, model.Value9, model.Value10,
}

// Entry is an item plus the ranks computed for it on a Board.
type Entry struct {
	Item  model.Item
	Ranks map[model.Field]int
}

// Rank returns the rank of f and whether it has been computed.
func (e Entry) Rank(f model.Field) (int, bool) {
	r, ok := e.Ranks[f]
	return r, ok
}

// Board is a per-request ranking workspace.
type Board struct {
	entries []Entry
}

// NewBoard copies items into a fresh Board, preserving their order.
func NewBoard(items []model.Item) *Board {
	entries := make([]Entry, len(items))
	for i, it := range items {
		entries[i] = Entry{Item: it, Ranks: make(map[model.Field]int, model.FieldCount)}
	}
	return &Board{entries: entries}
}

// Len returns the number of items on the board.
func (b *Board) Len() int { return len(b.entries) }

// Entries returns the ranked entries in original collection order.
// The returned slice shares rank maps with the board.
func (b *Board) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// ComputeRanks assigns ranks 1..N for field f. Rank 1 is the largest value when
// higherIsBetter, otherwise the smallest. Equal values keep collection order.
func (b *Board) ComputeRanks(f model.Field, higherIsBetter bool) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", model.ErrUnknownField, int(f))
	}
	order := make([]int, len(b.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, c := b.entries[order[i]].Item.Value(f), b.entries[order[j]].Item.Value(f)
		if higherIsBetter {
			return a > c
		}
		return a < c
	})
	for rank, idx := range order {
		b.entries[idx].Ranks[f] = rank + 1
	}
	return nil
}

// ComputeComposite sets value11 on every entry from the ranks of
// CompositeFields. value3 and value6 ranks are inverted (N+1-rank).
// Lower is better.
func (b *Board) ComputeComposite() error {
	n := len(b.entries)
	for i := range b.entries {
		e := &b.entries[i]
		sum := 0
		for _, f := range CompositeFields {
			r, ok := e.Ranks[f]
			if !ok {
				return fmt.Errorf("%w: %s on item %s", ErrMissingRank, f, e.Item.ID)
			}
			if invertedFields[f] {
				r = n + 1 - r
			}
			sum += r
		}
		e.Item.Value11 = float64(sum)
	}
	return nil
}

// Leaderboard ranks value1..value10 (higher is better), computes the
// composite and ranks it (lower is better).
func Leaderboard(items []model.Item) (*Board, error) {
	return run(items, LeaderboardFields)
}

// ForSampling ranks only the composite inputs before the composite itself.
func ForSampling(items []model.Item) (*Board, error) {
	return run(items, CompositeFields)
}

func run(items []model.Item, fields []model.Field) (*Board, error) {
	b := NewBoard(items)
	for _, f := range fields {
		if err := b.ComputeRanks(f, true); err != nil {
			return nil, err
		}
	}
	if err := b.ComputeComposite(); err != nil {
		return nil, err
	}
	if err := b.ComputeRanks(model.Value11, false); err != nil {
		return nil, err
	}
	return b, nil
}
