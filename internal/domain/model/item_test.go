package model_test

import (
	"errors"
	"testing"

	"github.com/okian/draftrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestField(t *testing.T) {
	Convey("Given the field enumeration", t, func() {
		Convey("Then every field has a wire name and round-trips through ParseField", func() {
			So(len(model.Fields), ShouldEqual, model.FieldCount)
			for _, f := range model.Fields {
				So(f.Valid(), ShouldBeTrue)
				got, err := model.ParseField(f.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, f)
			}
		})

		Convey("And rank and color keys are prefixed", func() {
			So(model.Value3.RankKey(), ShouldEqual, "rank_value3")
			So(model.Value11.ColorKey(), ShouldEqual, "color_value11")
		})

		Convey("When parsing unknown names", func() {
			for _, s := range []string{"value0", "value12", "value01", "rank_value1", "", "value"} {
				_, err := model.ParseField(s)
				So(errors.Is(err, model.ErrUnknownField), ShouldBeTrue)
			}
		})
	})
}

func TestItem(t *testing.T) {
	Convey("Given an item", t, func() {
		it := model.Item{ID: "001", Team: "A", Value1: 1, Value2: 2, Value6: 6}

		Convey("Then Value and WithValue address every field", func() {
			for i, f := range model.Fields {
				updated := it.WithValue(f, float64(100+i))
				So(updated.Value(f), ShouldEqual, float64(100+i))
			}
			So(it.Value(model.Field(99)), ShouldEqual, 0.0)
		})

		Convey("And WithValue does not mutate the receiver", func() {
			_ = it.WithValue(model.Value1, 42)
			So(it.Value1, ShouldEqual, 1.0)
		})

		Convey("When applying a delta", func() {
			got := it.Apply(model.Delta{Value1: 1, Value2: 3, Value6: -1})

			Convey("Then inputs accumulate additively", func() {
				So(got.Value1, ShouldEqual, 2.0)
				So(got.Value2, ShouldEqual, 5.0)
				So(got.Value6, ShouldEqual, 5.0)
				So(got.ID, ShouldEqual, "001")
			})
		})

		Convey("When merging a patch", func() {
			team := "B"
			got := it.Merge(model.Patch{Team: &team, Values: map[model.Field]float64{model.Value4: 9}})

			Convey("Then only the named fields change", func() {
				So(got.Team, ShouldEqual, "B")
				So(got.Value4, ShouldEqual, 9.0)
				So(got.Value2, ShouldEqual, 2.0)
			})
			So(model.Patch{}.Empty(), ShouldBeTrue)
		})
	})
}
