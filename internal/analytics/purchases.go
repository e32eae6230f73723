package analytics

import (
	"sort"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
)

// DailyPurchases groups customers by join date and sums the purchase channel
// counts per day. Rows without a join date are left out. The result is sorted
// by date.
func DailyPurchases(rows []model.Customer) []model.DailyTotal {
	byDay := make(map[time.Time]*model.DailyTotal)
	for _, r := range rows {
		if r.JoinedAt.IsZero() {
			continue
		}
		y, m, dd := r.JoinedAt.Date()
		day := time.Date(y, m, dd, 0, 0, 0, 0, r.JoinedAt.Location())
		d, ok := byDay[day]
		if !ok {
			d = &model.DailyTotal{Date: day}
			byDay[day] = d
		}
		d.Deals += value(r.Channels[model.ChannelDeals])
		d.Web += value(r.Channels[model.ChannelWeb])
		d.Catalog += value(r.Channels[model.ChannelCatalog])
		d.Store += value(r.Channels[model.ChannelStore])
	}

	out := make([]model.DailyTotal, 0, len(byDay))
	for _, d := range byDay {
		d.Total = d.Deals + d.Web + d.Catalog + d.Store
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// BusiestDay returns the first day, in date order, with the highest total.
func BusiestDay(daily []model.DailyTotal) (model.DailyTotal, error) {
	if len(daily) == 0 {
		return model.DailyTotal{}, ErrEmptyDataset
	}
	best := daily[0]
	for _, d := range daily[1:] {
		if d.Total > best.Total {
			best = d
		}
	}
	return best, nil
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
