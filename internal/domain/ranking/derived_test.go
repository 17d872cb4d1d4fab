package ranking_test

import (
	"testing"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculateDerived(t *testing.T) {
	Convey("Given an item with zero divisors", t, func() {
		in := model.Item{ID: "001", Value1: 0, Value2: 10, Value3: 0, Value4: 5, Value5: 2, Value6: 1}

		Convey("When calculating derived values", func() {
			got := ranking.CalculateDerived(in)

			Convey("Then both divisors are clamped to 1", func() {
				So(got.Value7, ShouldEqual, 10.0)
				So(got.Value8, ShouldEqual, 12.5)
				So(got.Value9, ShouldEqual, 125.0)
				// value10 = (tk*10 + ta*5 + (tc-tn) - td*10) / tg = (100 + 25 + 1 - 10) / 1.
				// The -td*10 term uses the clamped td=1, so the result is 116 rather than 126.
				So(got.Value10, ShouldEqual, 116.0)
			})

			Convey("And the clamp is not written back", func() {
				So(got.Value1, ShouldEqual, 0.0)
				So(got.Value3, ShouldEqual, 0.0)
			})

			Convey("And the input is not mutated", func() {
				So(in.Value7, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given an item with regular divisors", t, func() {
		in := model.Item{Value1: 4, Value2: 7, Value3: 2, Value4: 3, Value5: 10, Value6: 4}
		got := ranking.CalculateDerived(in)

		Convey("Then floating-point division is used", func() {
			So(got.Value7, ShouldEqual, 3.5)
			So(got.Value8, ShouldEqual, (7+1.5)/4)
			So(got.Value9, ShouldEqual, (70.0+15)/2)
			So(got.Value10, ShouldEqual, (70.0+15+6-20)/4)
		})
	})

	Convey("Given fractional divisors below 1", t, func() {
		got := ranking.CalculateDerived(model.Item{Value1: 0.5, Value2: 3, Value3: 0.25})

		Convey("Then they are clamped too", func() {
			So(got.Value7, ShouldEqual, 3.0)
			So(got.Value8, ShouldEqual, 3.0)
		})
	})
}
