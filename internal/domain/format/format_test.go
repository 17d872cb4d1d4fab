package format_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/draftrank/internal/domain/format"
	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOrdinal(t *testing.T) {
	Convey("Given positive integers", t, func() {
		cases := map[int]string{
			1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
			11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 23: "23rd",
			100: "100th", 101: "101st", 111: "111th", 112: "112th", 113: "113th", 122: "122nd",
		}

		Convey("Then each gets the English ordinal suffix", func() {
			for n, want := range cases {
				So(format.Ordinal(n), ShouldEqual, want)
			}
		})
	})
}

func TestRankToColor(t *testing.T) {
	Convey("Given a rank scale", t, func() {
		Convey("Then rank 1 is green and the last rank is red", func() {
			So(format.RankToColor(1, 100), ShouldEqual, "#00FF00")
			So(format.RankToColor(100, 100), ShouldEqual, "#FF0000")
		})

		Convey("And a single-item scale does not divide by zero", func() {
			So(format.RankToColor(1, 1), ShouldEqual, "#00FF00")
		})

		Convey("And the midpoint truncates both channels", func() {
			// ratio 0.5 -> int(127.5) for both channels.
			So(format.RankToColor(2, 3), ShouldEqual, "#7F7F00")
		})

		Convey("And out of range ranks stay within two hex digits", func() {
			So(format.RankToColor(12, 10), ShouldEqual, "#FF0000")
			So(format.RankToColor(0, 10), ShouldEqual, "#00FF00")
		})
	})
}

func TestViews(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		items := []model.Item{
			{ID: "001", Team: "A", Value2: 10, Value3: 1},
			{ID: "002", Team: "B", Value2: 5, Value3: 2},
			{ID: "003", Team: "A", Value2: 1, Value3: 3},
		}
		b := ranking.NewBoard(items)
		So(b.ComputeRanks(model.Value2, true), ShouldBeNil)
		So(b.ComputeRanks(model.Value3, true), ShouldBeNil)
		entries := b.Entries()

		Convey("When adding colors only", func() {
			views := format.Colors(entries, len(entries))

			Convey("Then ranks stay numeric and colors follow them", func() {
				c := views[0].Cells[model.Value2]
				So(c.Rank, ShouldEqual, 1)
				So(c.Ordinal, ShouldEqual, "")
				So(c.Color, ShouldEqual, "#00FF00")
				So(views[2].Cells[model.Value2].Color, ShouldEqual, "#FF0000")
			})

			Convey("And the JSON carries integer ranks", func() {
				raw, err := json.Marshal(views[0])
				So(err, ShouldBeNil)
				var got map[string]any
				So(json.Unmarshal(raw, &got), ShouldBeNil)
				So(got["rank_value2"], ShouldEqual, 1.0)
				So(got["color_value2"], ShouldEqual, "#00FF00")
				So(got["rank_value3"], ShouldEqual, 3.0)
				So(got["id"], ShouldEqual, "001")
				So(got["value2"], ShouldEqual, 10.0)
				_, ranked := got["rank_value1"]
				So(ranked, ShouldBeFalse)
			})
		})

		Convey("When formatting as ordinals", func() {
			views := format.Ordinals(entries, len(entries))

			Convey("Then the color is computed from the numeric rank", func() {
				c := views[2].Cells[model.Value2]
				So(c.Rank, ShouldEqual, 3)
				So(c.Ordinal, ShouldEqual, "3rd")
				So(c.Color, ShouldEqual, "#FF0000")
			})

			Convey("And the JSON carries ordinal strings", func() {
				raw, err := json.Marshal(views[1])
				So(err, ShouldBeNil)
				var got map[string]any
				So(json.Unmarshal(raw, &got), ShouldBeNil)
				So(got["rank_value2"], ShouldEqual, "2nd")
				So(got["color_value2"], ShouldEqual, "#7F7F00")
				So(got["team"], ShouldEqual, "B")
			})
		})
	})
}
