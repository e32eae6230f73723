package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmehdipour/superstore-dashboard/internal/util"
	"github.com/olekukonko/tablewriter"
)

// WriteText prints the snapshot as plain text with one block per question.
func WriteText(w io.Writer, snap *model.Snapshot) error {
	p := &printer{w: w}

	p.f("Superstore snapshot %s (%s)\n\n", snap.ID, snap.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	if o := snap.Overview; o != nil {
		p.f("First few rows of the dataset\n")
		table(w, o.Columns, o.Head)

		p.f("\nSummary statistics\n")
		describeTable(w, o.Describe)

		p.f("\nColumns (%d rows): %v\n", o.Rows, o.Columns)
	} else {
		p.failed(snap, model.SectionOverview)
	}

	p.f("\n1. Product that sold most\n")
	if bp := snap.BestProduct; bp != nil {
		p.f("The product that sold most is %s (%s).\n%s\n", bp.Label, bp.Product, bp.Reason)
		p.f("\nSummary statistics for the relevant columns\n")
		describeTable(w, bp.ProductStats)
		p.f("\n")
		p.f("2. The amount earned from the product that sold most is %s.\n", util.FormatMoneyFloat(bp.AmountEarned))
	} else {
		p.failed(snap, model.SectionBestProduct)
	}

	p.f("\n3. Time to display advertisements\n")
	if d := snap.BusiestDay; d != nil {
		p.f("The day with the highest total purchases is %s (%s purchases over %d days).\n",
			d.Day(), num(d.Total), len(snap.DailyPurchases))
	} else {
		p.failed(snap, model.SectionDailyPurchases)
	}

	p.f("\n4. Highest tax amount and freight charges\n")
	if tf := snap.TaxFreight; tf != nil {
		p.f("Highest tax amount: product %s\nHighest freight charges: product %s\n",
			tf.HighestTaxProduct, tf.HighestFreightProduct)
	} else {
		p.failed(snap, model.SectionTaxFreight)
	}

	p.f("\n5. Products usually bought together\n")
	if pair := snap.BoughtTogether; pair != nil {
		p.f("%s and %s appear together in %d orders.\n", pair.First, pair.Second, pair.Orders)
	} else {
		p.failed(snap, model.SectionBoughtTogether)
	}

	p.f("\n6. Total revenue and profit\n")
	if rp := snap.RevenueProfit; rp != nil {
		p.f("Revenue: %s\nProfit: %s\n", util.FormatMoney(rp.Revenue), util.FormatMoney(rp.Profit))
	} else {
		p.failed(snap, model.SectionRevenueProfit)
	}

	p.f("\n7. Customers with the highest number of purchases\n")
	if len(snap.TopCustomers) > 0 {
		rows := make([][]string, 0, len(snap.TopCustomers))
		for i, c := range snap.TopCustomers {
			rows = append(rows, []string{strconv.Itoa(i + 1), c.CustID, strconv.Itoa(c.Purchases)})
		}
		table(w, []string{"#", "customer", "purchases"}, rows)
	} else {
		p.failed(snap, model.SectionTopCustomers)
	}

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) f(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) failed(snap *model.Snapshot, section string) {
	p.f("unavailable: %s\n", snap.Errors[section])
}

func table(w io.Writer, header []string, rows [][]string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	t.AppendBulk(rows)
	t.Render()
}

func describeTable(w io.Writer, stats []model.ColumnStats) {
	rows := make([][]string, 0, len(stats))
	for _, d := range stats {
		rows = append(rows, []string{
			d.Column, strconv.Itoa(d.Count), num(d.Mean), num(d.Std), num(d.Min),
			num(d.P25), num(d.P50), num(d.P75), num(d.Max),
		})
	}
	table(w, []string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
