// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies one of the numeric attributes carried by an Item.
type Field int

// Ranked attributes. Value1..Value6 are inputs, Value7..Value10 are derived
// from them and Value11 is the composite score.
const (
	Value1 Field = iota + 1
	Value2
	Value3
	Value4
	Value5
	Value6
	Value7
	Value8
	Value9
	Value10
	Value11
)

// FieldCount is the number of attributes an Item carries.
const FieldCount = int(Value11)

// Fields lists every attribute in order.
var Fields = []Field{Value1, Value2, Value3, Value4, Value5, Value6, Value7, Value8, Value9, Value10, Value11}

// InputFields are the additive attributes accepted by saves.
var InputFields = []Field{Value1, Value2, Value3, Value4, Value5, Value6}

// DerivedFields are recomputed from InputFields on every save.
var DerivedFields = []Field{Value7, Value8, Value9, Value10}

// Valid reports whether f names a known attribute.
func (f Field) Valid() bool { return f >= Value1 && f <= Value11 }

// String returns the wire name, e.g. "value3".
func (f Field) String() string { return "value" + strconv.Itoa(int(f)) }

// RankKey returns the flat wire key carrying the rank of f.
func (f Field) RankKey() string { return "rank_" + f.String() }

// ColorKey returns the flat wire key carrying the color of f.
func (f Field) ColorKey() string { return "color_" + f.String() }

// ParseField resolves a wire name such as "value7".
func ParseField(s string) (Field, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "value"))
	if err != nil || !Field(n).Valid() || Field(n).String() != s {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return Field(n), nil
}

// Item is a ranked entity (a player) belonging to a team.
type Item struct {
	ID      string  `json:"id" dynamodbav:"id"`
	Team    string  `json:"team" dynamodbav:"team"`
	Value1  float64 `json:"value1" dynamodbav:"value1"`
	Value2  float64 `json:"value2" dynamodbav:"value2"`
	Value3  float64 `json:"value3" dynamodbav:"value3"`
	Value4  float64 `json:"value4" dynamodbav:"value4"`
	Value5  float64 `json:"value5" dynamodbav:"value5"`
	Value6  float64 `json:"value6" dynamodbav:"value6"`
	Value7  float64 `json:"value7" dynamodbav:"value7"`
	Value8  float64 `json:"value8" dynamodbav:"value8"`
	Value9  float64 `json:"value9" dynamodbav:"value9"`
	Value10 float64 `json:"value10" dynamodbav:"value10"`
	// Value11 is only meaningful after a ranking pass and is not persisted.
	Value11 float64 `json:"value11" dynamodbav:"-"`
}

// Value returns the attribute f. Unknown fields yield 0.
func (it Item) Value(f Field) float64 {
	switch f {
	case Value1:
		return it.Value1
	case Value2:
		return it.Value2
	case Value3:
		return it.Value3
	case Value4:
		return it.Value4
	case Value5:
		return it.Value5
	case Value6:
		return it.Value6
	case Value7:
		return it.Value7
	case Value8:
		return it.Value8
	case Value9:
		return it.Value9
	case Value10:
		return it.Value10
	case Value11:
		return it.Value11
	}
	return 0
}

// WithValue returns a copy of it with attribute f set to v.
func (it Item) WithValue(f Field, v float64) Item {
	switch f {
	case Value1:
		it.Value1 = v
	case Value2:
		it.Value2 = v
	case Value3:
		it.Value3 = v
	case Value4:
		it.Value4 = v
	case Value5:
		it.Value5 = v
	case Value6:
		it.Value6 = v
	case Value7:
		it.Value7 = v
	case Value8:
		it.Value8 = v
	case Value9:
		it.Value9 = v
	case Value10:
		it.Value10 = v
	case Value11:
		it.Value11 = v
	}
	return it
}

// Delta holds the increments applied to the input attributes by a save.
type Delta struct {
	Value1 float64
	Value2 float64
	Value3 float64
	Value4 float64
	Value5 float64
	Value6 float64
}

// Apply adds d to the input attributes of it and returns the result.
// Derived attributes are left untouched.
func (it Item) Apply(d Delta) Item {
	it.Value1 += d.Value1
	it.Value2 += d.Value2
	it.Value3 += d.Value3
	it.Value4 += d.Value4
	it.Value5 += d.Value5
	it.Value6 += d.Value6
	return it
}

// Patch is a partial update merged into a stored Item.
type Patch struct {
	Team   *string
	Values map[Field]float64
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool { return p.Team == nil && len(p.Values) == 0 }

// Merge returns it with p applied.
func (it Item) Merge(p Patch) Item {
	if p.Team != nil {
		it.Team = *p.Team
	}
	for f, v := range p.Values {
		it = it.WithValue(f, v)
	}
	return it
}
