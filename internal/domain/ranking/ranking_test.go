package ranking_test

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func randomItems(n int, seed int64) []model.Item {
	r := rand.New(rand.NewSource(seed))
	items := make([]model.Item, n)
	for i := range items {
		it := model.Item{ID: fmt.Sprintf("%03d", i+1), Team: []string{"A", "B"}[i%2]}
		for _, f := range model.InputFields {
			it = it.WithValue(f, float64(r.Intn(50)))
		}
		items[i] = ranking.CalculateDerived(it)
	}
	return items
}

func ranksOf(b *ranking.Board, f model.Field) []int {
	var out []int
	for _, e := range b.Entries() {
		r, _ := e.Rank(f)
		out = append(out, r)
	}
	return out
}

func TestComputeRanks(t *testing.T) {
	Convey("Given a board of items", t, func() {
		items := randomItems(37, 7)
		b := ranking.NewBoard(items)

		Convey("When ranking any field", func() {
			for _, f := range ranking.LeaderboardFields {
				So(b.ComputeRanks(f, true), ShouldBeNil)
			}

			Convey("Then ranks are a permutation of 1..N", func() {
				for _, f := range ranking.LeaderboardFields {
					got := ranksOf(b, f)
					sort.Ints(got)
					for i, r := range got {
						So(r, ShouldEqual, i+1)
					}
				}
			})
		})

		Convey("When higher is better", func() {
			So(b.ComputeRanks(model.Value2, true), ShouldBeNil)

			Convey("Then the maximum gets rank 1", func() {
				for _, e := range b.Entries() {
					if r, _ := e.Rank(model.Value2); r == 1 {
						for _, other := range items {
							So(e.Item.Value2, ShouldBeGreaterThanOrEqualTo, other.Value2)
						}
					}
				}
			})
		})

		Convey("When lower is better", func() {
			So(b.ComputeRanks(model.Value2, false), ShouldBeNil)

			Convey("Then the minimum gets rank 1", func() {
				for _, e := range b.Entries() {
					if r, _ := e.Rank(model.Value2); r == 1 {
						for _, other := range items {
							So(e.Item.Value2, ShouldBeLessThanOrEqualTo, other.Value2)
						}
					}
				}
			})
		})

		Convey("When ranking an unknown field", func() {
			err := b.ComputeRanks(model.Field(42), true)
			So(errors.Is(err, model.ErrUnknownField), ShouldBeTrue)
		})
	})

	Convey("Given items with tied values", t, func() {
		items := []model.Item{
			{ID: "a", Value4: 5},
			{ID: "b", Value4: 9},
			{ID: "c", Value4: 5},
			{ID: "d", Value4: 5},
		}
		b := ranking.NewBoard(items)

		Convey("Then ties get consecutive ranks in collection order", func() {
			So(b.ComputeRanks(model.Value4, true), ShouldBeNil)
			So(ranksOf(b, model.Value4), ShouldResemble, []int{2, 1, 3, 4})

			So(b.ComputeRanks(model.Value4, false), ShouldBeNil)
			So(ranksOf(b, model.Value4), ShouldResemble, []int{1, 4, 2, 3})
		})

		Convey("And re-running is idempotent", func() {
			So(b.ComputeRanks(model.Value4, true), ShouldBeNil)
			first := ranksOf(b, model.Value4)
			So(b.ComputeRanks(model.Value4, true), ShouldBeNil)
			So(ranksOf(b, model.Value4), ShouldResemble, first)
		})
	})

	Convey("Given an empty item set", t, func() {
		b, err := ranking.Leaderboard(nil)
		So(err, ShouldBeNil)
		So(b.Len(), ShouldEqual, 0)
	})
}

func TestComputeComposite(t *testing.T) {
	Convey("Given three items with hand-checked ranks", t, func() {
		// Every field is ranked descending, so rank = position by value.
		items := []model.Item{
			{ID: "x", Value2: 3, Value3: 1, Value4: 3, Value5: 3, Value6: 1, Value7: 3, Value8: 3, Value9: 3, Value10: 3},
			{ID: "y", Value2: 2, Value3: 2, Value4: 2, Value5: 2, Value6: 2, Value7: 2, Value8: 2, Value9: 2, Value10: 2},
			{ID: "z", Value2: 1, Value3: 3, Value4: 1, Value5: 1, Value6: 3, Value7: 1, Value8: 1, Value9: 1, Value10: 1},
		}
		b, err := ranking.ForSampling(items)
		So(err, ShouldBeNil)
		entries := b.Entries()

		Convey("Then value3 and value6 ranks are inverted in the sum", func() {
			// x: seven ranks of 1, value3/value6 rank 3 -> inverted 1 each.
			So(entries[0].Item.Value11, ShouldEqual, 9.0)
			// y: everything rank 2.
			So(entries[1].Item.Value11, ShouldEqual, 18.0)
			// z: seven ranks of 3, value3/value6 rank 1 -> inverted 3 each.
			So(entries[2].Item.Value11, ShouldEqual, 27.0)
		})

		Convey("And the lowest composite is ranked first", func() {
			So(ranksOf(b, model.Value11), ShouldResemble, []int{1, 2, 3})
		})

		Convey("And value1 is not ranked for sampling", func() {
			_, ok := entries[0].Rank(model.Value1)
			So(ok, ShouldBeFalse)
		})

		Convey("And the source items are not mutated", func() {
			So(items[0].Value11, ShouldEqual, 0.0)
		})
	})

	Convey("Given a board missing composite inputs", t, func() {
		b := ranking.NewBoard([]model.Item{{ID: "1"}, {ID: "2"}})
		So(b.ComputeRanks(model.Value2, true), ShouldBeNil)

		Convey("Then the composite fails with a missing rank", func() {
			err := b.ComputeComposite()
			So(errors.Is(err, ranking.ErrMissingRank), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "value3")
		})
	})

	Convey("Given a ranked board", t, func() {
		items := randomItems(25, 3)
		b, err := ranking.Leaderboard(items)
		So(err, ShouldBeNil)
		first := make([]float64, 0, b.Len())
		for _, e := range b.Entries() {
			first = append(first, e.Item.Value11)
		}

		Convey("When re-ranking with unchanged inputs", func() {
			for _, f := range ranking.CompositeFields {
				So(b.ComputeRanks(f, true), ShouldBeNil)
				So(b.ComputeRanks(f, true), ShouldBeNil)
			}
			So(b.ComputeComposite(), ShouldBeNil)

			Convey("Then the composite is unchanged", func() {
				for i, e := range b.Entries() {
					So(e.Item.Value11, ShouldEqual, first[i])
				}
			})
		})
	})
}

func TestLeaderboardEndToEnd(t *testing.T) {
	Convey("Given 10 items where one dominates every field", t, func() {
		items := make([]model.Item, 10)
		for i := range items {
			v := float64(i + 1)
			items[i] = model.Item{
				ID: fmt.Sprintf("%03d", i+1), Team: "A",
				Value1: v, Value2: v, Value4: v, Value5: v, Value7: v, Value8: v, Value9: v, Value10: v,
				// Lower value3/value6 is better.
				Value3: 11 - v, Value6: 11 - v,
			}
		}

		Convey("When running the leaderboard pipeline", func() {
			b, err := ranking.Leaderboard(items)
			So(err, ShouldBeNil)

			Convey("Then every item has value11 and ranks for all eleven fields", func() {
				for _, e := range b.Entries() {
					So(e.Item.Value11, ShouldBeGreaterThan, 0)
					for _, f := range model.Fields {
						_, ok := e.Rank(f)
						So(ok, ShouldBeTrue)
					}
				}
			})

			Convey("And the best overall item has rank_value11 == 1", func() {
				for _, e := range b.Entries() {
					if e.Item.ID == "010" {
						r, _ := e.Rank(model.Value11)
						So(r, ShouldEqual, 1)
						So(e.Item.Value11, ShouldEqual, 9.0)
					}
					if e.Item.ID == "001" {
						r, _ := e.Rank(model.Value11)
						So(r, ShouldEqual, 10)
					}
				}
			})
		})
	})
}
