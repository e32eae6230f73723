package analytics

import (
	"sort"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultTopCustomers is the size of the top customers list when none is given.
const DefaultTopCustomers = 5

// HighestTaxAndFreight returns the product of the first line with the highest
// tax amount and the product of the first line with the highest freight.
func HighestTaxAndFreight(orders []model.SalesOrder) (taxProd, freightProd string, err error) {
	if len(orders) == 0 {
		return "", "", ErrEmptyDataset
	}
	tax, freight := 0, 0
	for i := 1; i < len(orders); i++ {
		if orders[i].TaxAmt.GreaterThan(orders[tax].TaxAmt) {
			tax = i
		}
		if orders[i].Freight.GreaterThan(orders[freight].Freight) {
			freight = i
		}
	}
	return orders[tax].ProdID, orders[freight].ProdID, nil
}

// BoughtTogether finds the pair of distinct products that shares the most
// sales orders. Each order counts a pair once. Ties go to the smallest pair.
func BoughtTogether(orders []model.SalesOrder) (model.ProductPair, error) {
	byOrder := make(map[string]map[string]struct{})
	for _, o := range orders {
		if o.SalesOrderID == "" || o.ProdID == "" {
			continue
		}
		set, ok := byOrder[o.SalesOrderID]
		if !ok {
			set = make(map[string]struct{})
			byOrder[o.SalesOrderID] = set
		}
		set[o.ProdID] = struct{}{}
	}

	counts := make(map[[2]string]int)
	for _, set := range byOrder {
		if len(set) < 2 {
			continue
		}
		prods := make([]string, 0, len(set))
		for p := range set {
			prods = append(prods, p)
		}
		sort.Strings(prods)
		for i := 0; i < len(prods)-1; i++ {
			for j := i + 1; j < len(prods); j++ {
				counts[[2]string{prods[i], prods[j]}]++
			}
		}
	}
	if len(counts) == 0 {
		return model.ProductPair{}, ErrNoPairs
	}

	var best [2]string
	bestN := 0
	for pair, n := range counts {
		if n > bestN || (n == bestN && pairLess(pair, best)) {
			best, bestN = pair, n
		}
	}
	return model.ProductPair{First: best[0], Second: best[1], Orders: bestN}, nil
}

func pairLess(a, b [2]string) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// RevenueAndProfit sums SubTotal as revenue and subtracts tax and freight to
// get profit. A non-empty filter keeps only the listed sales orders.
func RevenueAndProfit(orders []model.SalesOrder, filter []string) model.RevenueProfit {
	var keep map[string]struct{}
	if len(filter) > 0 {
		keep = make(map[string]struct{}, len(filter))
		for _, id := range filter {
			keep[id] = struct{}{}
		}
	}

	revenue, cost := decimal.Zero, decimal.Zero
	for _, o := range orders {
		if keep != nil {
			if _, ok := keep[o.SalesOrderID]; !ok {
				continue
			}
		}
		revenue = revenue.Add(o.SubTotal)
		cost = cost.Add(o.TaxAmt).Add(o.Freight)
	}
	return model.RevenueProfit{Revenue: revenue, Profit: revenue.Sub(cost)}
}

// TopCustomers ranks customers by number of order lines, ties by customer id.
func TopCustomers(orders []model.SalesOrder, n int) []model.CustomerCount {
	if n <= 0 {
		n = DefaultTopCustomers
	}

	counts := make(map[string]int)
	for _, o := range orders {
		if o.CustID == "" {
			continue
		}
		counts[o.CustID]++
	}

	out := make([]model.CustomerCount, 0, len(counts))
	for id, c := range counts {
		out = append(out, model.CustomerCount{CustID: id, Purchases: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Purchases != out[j].Purchases {
			return out[i].Purchases > out[j].Purchases
		}
		return out[i].CustID < out[j].CustID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
