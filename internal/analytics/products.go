package analytics

import (
	"fmt"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
)

// ProductTotals sums each spend column over the rows where all spend columns
// are present.
func ProductTotals(rows []model.Customer) (map[model.Product]float64, int) {
	totals := make(map[model.Product]float64, len(model.Products))
	for _, p := range model.Products {
		totals[p] = 0
	}

	complete := 0
	for _, r := range rows {
		if !r.HasAllSpend() {
			continue
		}
		complete++
		for _, p := range model.Products {
			totals[p] += *r.Spend[p]
		}
	}
	return totals, complete
}

// BestSellingProduct returns the spend column with the highest total and that
// total. The first column in table order wins a tie.
func BestSellingProduct(rows []model.Customer) (model.Product, map[model.Product]float64, error) {
	totals, complete := ProductTotals(rows)
	if complete == 0 {
		return "", nil, ErrEmptyDataset
	}

	best := model.Products[0]
	for _, p := range model.Products[1:] {
		if totals[p] > totals[best] {
			best = p
		}
	}
	return best, totals, nil
}

// AmountEarned sums the present values of a spend column across all rows.
func AmountEarned(rows []model.Customer, p model.Product) (float64, error) {
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProduct, p)
	}

	var sum float64
	for _, r := range rows {
		if v := r.Spend[p]; v != nil {
			sum += *v
		}
	}
	return sum, nil
}
