package ranking

import "github.com/okian/draftrank/internal/domain/model"

// CalculateDerived recomputes value7..value10 from value1..value6.
// value1 and value3 are used as divisors and floored at 1 for the computation only.
func CalculateDerived(it model.Item) model.Item {
	tg := it.Value1
	tk := it.Value2
	td := it.Value3
	ta := it.Value4
	tc := it.Value5
	tn := it.Value6

	if td < 1 {
		td = 1
	}
	if tg < 1 {
		tg = 1
	}

	it.Value7 = tk / td
	it.Value8 = (tk + ta/2) / tg
	it.Value9 = (tk*10 + ta*5) / td
	it.Value10 = (tk*10 + ta*5 + (tc - tn) - td*10) / tg
	return it
}
