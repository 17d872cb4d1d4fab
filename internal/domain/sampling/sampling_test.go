package sampling_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
	"github.com/okian/draftrank/internal/domain/sampling"
	. "github.com/smartystreets/goconvey/convey"
)

func board(n int, seed int64) *ranking.Board {
	r := rand.New(rand.NewSource(seed))
	items := make([]model.Item, n)
	for i := range items {
		it := model.Item{ID: fmt.Sprintf("%03d", i+1), Team: []string{"A", "B"}[r.Intn(2)]}
		for _, f := range model.InputFields {
			it = it.WithValue(f, float64(r.Intn(40)))
		}
		items[i] = ranking.CalculateDerived(it)
	}
	b, err := ranking.ForSampling(items)
	if err != nil {
		panic(err)
	}
	return b
}

func team(b *ranking.Board, name string) []ranking.Entry {
	var out []ranking.Entry
	for _, e := range b.Entries() {
		if e.Item.Team == name {
			out = append(out, e)
		}
	}
	return out
}

func TestBounds(t *testing.T) {
	Convey("Given 100 ranked items", t, func() {
		Convey("Then quintiles are 20 wide", func() {
			lo, hi := sampling.Bounds(0, 100)
			So([]int{lo, hi}, ShouldResemble, []int{1, 20})
			lo, hi = sampling.Bounds(4, 100)
			So([]int{lo, hi}, ShouldResemble, []int{81, 100})
		})
	})

	Convey("Given 23 ranked items", t, func() {
		Convey("Then the last quintile absorbs the remainder", func() {
			lo, hi := sampling.Bounds(3, 23)
			So([]int{lo, hi}, ShouldResemble, []int{13, 16})
			lo, hi = sampling.Bounds(4, 23)
			So([]int{lo, hi}, ShouldResemble, []int{17, 23})
		})
	})

	Convey("Given fewer than five ranked items", t, func() {
		Convey("Then only the last quintile is non-empty", func() {
			for q := 0; q < 4; q++ {
				lo, hi := sampling.Bounds(q, 3)
				So(lo, ShouldBeGreaterThan, hi)
			}
			lo, hi := sampling.Bounds(4, 3)
			So([]int{lo, hi}, ShouldResemble, []int{1, 3})
		})
	})
}

func TestPickFromQuintiles(t *testing.T) {
	Convey("Given a ranked board split by team", t, func() {
		b := board(100, 11)
		s := sampling.New(sampling.WithSeed(1))

		for _, name := range []string{"A", "B"} {
			candidates := team(b, name)

			Convey("When sampling team "+name, func() {
				for round := 0; round < 50; round++ {
					picked, err := s.PickFromQuintiles(candidates, model.Value11, b.Len())
					So(err, ShouldBeNil)

					So(len(picked), ShouldBeLessThanOrEqualTo, sampling.Quintiles)
					prevQ := -1
					for _, p := range picked {
						So(p.Item.Team, ShouldEqual, name)
						r, _ := p.Rank(model.Value11)
						q := -1
						for i := 0; i < sampling.Quintiles; i++ {
							lo, hi := sampling.Bounds(i, b.Len())
							if r >= lo && r <= hi {
								q = i
							}
						}
						So(q, ShouldBeGreaterThan, prevQ)
						prevQ = q
					}
				}
			})
		}
	})

	Convey("Given a seeded sampler", t, func() {
		b := board(60, 5)
		candidates := team(b, "A")

		Convey("Then the same seed reproduces the same picks", func() {
			first, err := sampling.New(sampling.WithSeed(99)).PickFromQuintiles(candidates, model.Value11, b.Len())
			So(err, ShouldBeNil)
			second, err := sampling.New(sampling.WithSource(rand.NewSource(99))).PickFromQuintiles(candidates, model.Value11, b.Len())
			So(err, ShouldBeNil)
			So(len(first), ShouldEqual, len(second))
			for i := range first {
				So(first[i].Item.ID, ShouldEqual, second[i].Item.ID)
			}
		})
	})

	Convey("Given a team confined to the top ranks", t, func() {
		b := board(50, 3)
		var top []ranking.Entry
		for _, e := range b.Entries() {
			if r, _ := e.Rank(model.Value11); r <= 10 {
				top = append(top, e)
			}
		}

		Convey("Then empty quintiles are skipped", func() {
			picked, err := sampling.New().PickFromQuintiles(top, model.Value11, b.Len())
			So(err, ShouldBeNil)
			So(len(picked), ShouldEqual, 1)
		})
	})

	Convey("Given no candidates", t, func() {
		picked, err := sampling.New().PickFromQuintiles(nil, model.Value11, 10)
		So(err, ShouldBeNil)
		So(picked, ShouldBeEmpty)
	})

	Convey("Given candidates without the rank key", t, func() {
		entries := ranking.NewBoard([]model.Item{{ID: "x"}}).Entries()

		Convey("Then sampling fails with a missing rank", func() {
			_, err := sampling.New().PickFromQuintiles(entries, model.Value11, 1)
			So(errors.Is(err, ranking.ErrMissingRank), ShouldBeTrue)
		})
	})
}
