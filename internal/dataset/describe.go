package dataset

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Describe computes count, mean, sample std, min, quartiles and max for every
// numeric column, ignoring missing cells.
func (t *CustomerTable) Describe() []model.ColumnStats {
	names := t.df.Names()
	types := t.df.Types()

	out := make([]model.ColumnStats, 0, len(names))
	for i, name := range names {
		if types[i] != series.Int && types[i] != series.Float {
			continue
		}
		out = append(out, DescribeValues(name, t.df.Col(name).Float()))
	}
	return out
}

// DescribeSpend describes the six spend columns over the customers whose
// spend is complete, in table column order.
func DescribeSpend(rows []model.Customer) []model.ColumnStats {
	cols := make(map[model.Product][]float64, len(model.Products))
	for _, r := range rows {
		if !r.HasAllSpend() {
			continue
		}
		for _, p := range model.Products {
			cols[p] = append(cols[p], *r.Spend[p])
		}
	}

	out := make([]model.ColumnStats, 0, len(model.Products))
	for _, p := range model.Products {
		out = append(out, DescribeValues(p.String(), cols[p]))
	}
	return out
}

// DescribeValues computes describe statistics for one column. NaN cells are
// ignored.
func DescribeValues(name string, raw []float64) model.ColumnStats {
	vals := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}

	st := model.ColumnStats{Column: name, Count: len(vals)}
	if len(vals) == 0 {
		return st
	}

	sort.Float64s(vals)
	st.Min = vals[0]
	st.Max = vals[len(vals)-1]
	st.Mean = floats.Sum(vals) / float64(len(vals))
	if len(vals) > 1 {
		st.Std = stat.StdDev(vals, nil)
	}
	st.P25 = quantile(vals, 0.25)
	st.P50 = quantile(vals, 0.50)
	st.P75 = quantile(vals, 0.75)
	return st
}

// quantile interpolates linearly between the closest ranks of sorted values
// (numpy "linear"); stat.Quantile's LinInterp is a different estimator.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	frac := pos - lo
	return sorted[int(lo)] + frac*(sorted[int(hi)]-sorted[int(lo)])
}
