// Package format renders ranks for display: ordinal strings and a
// green-to-red color scale.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
)

const colorChannelMax = 255

// Ordinal renders n with its English ordinal suffix: 1st, 2nd, 3rd, 4th, 11th, 101st.
func Ordinal(n int) string {
	suffix := "th"
	if m := n % 100; m < 11 || m > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// RankToColor maps rank 1 to green (#00FF00) and rank == total to red (#FF0000),
// interpolating linearly in between.
func RankToColor(rank, total int) string {
	ratio := 0.0
	if total > 1 {
		ratio = float64(rank-1) / float64(total-1)
	}
	ratio = min(max(ratio, 0), 1)
	r := int(colorChannelMax * ratio)
	g := int(colorChannelMax * (1 - ratio))
	return fmt.Sprintf("#%02X%02X00", r, g)
}

// Cell is the display annotation for one ranked field.
type Cell struct {
	Rank    int
	Ordinal string
	Color   string
}

// View is an item together with its display annotations.
type View struct {
	Item  model.Item
	Cells map[model.Field]Cell
}

// Colors annotates every ranked field with a color and keeps ranks numeric,
// which lets clients sort leaderboard columns.
func Colors(entries []ranking.Entry, total int) []View {
	return render(entries, total, false)
}

// Ordinals annotates every ranked field with a color derived from the numeric
// rank and the rank's ordinal string.
func Ordinals(entries []ranking.Entry, total int) []View {
	return render(entries, total, true)
}

func render(entries []ranking.Entry, total int, ordinal bool) []View {
	views := make([]View, len(entries))
	for i, e := range entries {
		cells := make(map[model.Field]Cell, len(e.Ranks))
		for f, rank := range e.Ranks {
			c := Cell{Rank: rank, Color: RankToColor(rank, total)}
			if ordinal {
				c.Ordinal = Ordinal(rank)
			}
			cells[f] = c
		}
		views[i] = View{Item: e.Item, Cells: cells}
	}
	return views
}

// MarshalJSON flattens the view: item fields plus rank_valueN and color_valueN
// for each annotated field. rank_valueN is the ordinal string when present.
func (v View) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 2+model.FieldCount*3)
	out["id"] = v.Item.ID
	out["team"] = v.Item.Team
	for _, f := range model.Fields {
		out[f.String()] = v.Item.Value(f)
	}
	for f, c := range v.Cells {
		if c.Ordinal != "" {
			out[f.RankKey()] = c.Ordinal
		} else {
			out[f.RankKey()] = c.Rank
		}
		out[f.ColorKey()] = c.Color
	}
	return json.Marshal(out)
}
