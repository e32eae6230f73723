package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmehdipour/superstore-dashboard/internal/util"
)

// Summary is the webhook payload.
type Summary struct {
	Text           string    `json:"text"`
	SnapshotID     string    `json:"snapshot_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	BestProduct    string    `json:"best_product,omitempty"`
	AmountEarned   string    `json:"amount_earned,omitempty"`
	BusiestDay     string    `json:"busiest_day,omitempty"`
	BoughtTogether []string  `json:"bought_together,omitempty"`
	Revenue        string    `json:"revenue,omitempty"`
	Profit         string    `json:"profit,omitempty"`
	TopCustomers   []string  `json:"top_customers,omitempty"`
	FailedSections []string  `json:"failed_sections,omitempty"`
}

// Summarize condenses a snapshot into a Summary.
func Summarize(s *model.Snapshot) Summary {
	sum := Summary{SnapshotID: s.ID, GeneratedAt: s.GeneratedAt}
	lines := []string{fmt.Sprintf("Superstore snapshot %s", s.ID)}

	if bp := s.BestProduct; bp != nil {
		sum.BestProduct = bp.Label
		sum.AmountEarned = util.FormatMoneyFloat(bp.AmountEarned)
		lines = append(lines, fmt.Sprintf("Best seller: %s (%s)", sum.BestProduct, sum.AmountEarned))
	}
	if d := s.BusiestDay; d != nil {
		sum.BusiestDay = d.Day()
		lines = append(lines, "Busiest day: "+sum.BusiestDay)
	}
	if p := s.BoughtTogether; p != nil {
		sum.BoughtTogether = []string{p.First, p.Second}
		lines = append(lines, fmt.Sprintf("Bought together: %s + %s", p.First, p.Second))
	}
	if rp := s.RevenueProfit; rp != nil {
		sum.Revenue = util.FormatMoney(rp.Revenue)
		sum.Profit = util.FormatMoney(rp.Profit)
		lines = append(lines, fmt.Sprintf("Revenue %s, profit %s", sum.Revenue, sum.Profit))
	}
	for _, c := range s.TopCustomers {
		sum.TopCustomers = append(sum.TopCustomers, c.CustID)
	}
	if len(sum.TopCustomers) > 0 {
		lines = append(lines, "Top customers: "+strings.Join(sum.TopCustomers, ", "))
	}
	for sec := range s.Errors {
		sum.FailedSections = append(sum.FailedSections, sec)
	}
	sort.Strings(sum.FailedSections)
	if len(sum.FailedSections) > 0 {
		lines = append(lines, "Unavailable: "+strings.Join(sum.FailedSections, ", "))
	}

	sum.Text = strings.Join(lines, "\n")
	return sum
}
