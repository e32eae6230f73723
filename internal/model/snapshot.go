package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Section names, used as keys of Snapshot.Errors and as metric labels.
const (
	SectionOverview       = "overview"
	SectionBestProduct    = "best_product"
	SectionDailyPurchases = "daily_purchases"
	SectionTaxFreight     = "tax_freight"
	SectionBoughtTogether = "bought_together"
	SectionRevenueProfit  = "revenue_profit"
	SectionTopCustomers   = "top_customers"
)

// Snapshot is one full computation of the dashboard.
// Sections that failed are nil and carry a message in Errors.
type Snapshot struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	Overview       *Overview       `json:"overview,omitempty"`
	BestProduct    *BestProduct    `json:"best_product,omitempty"`
	DailyPurchases []DailyTotal    `json:"daily_purchases,omitempty"`
	BusiestDay     *DailyTotal     `json:"busiest_day,omitempty"`
	TaxFreight     *TaxFreight     `json:"tax_freight,omitempty"`
	BoughtTogether *ProductPair    `json:"bought_together,omitempty"`
	RevenueProfit  *RevenueProfit  `json:"revenue_profit,omitempty"`
	TopCustomers   []CustomerCount `json:"top_customers,omitempty"`

	Errors map[string]string `json:"errors,omitempty"`
}

// Failed reports whether the section could not be computed.
func (s *Snapshot) Failed(section string) bool {
	_, ok := s.Errors[section]
	return ok
}

type Overview struct {
	Rows     int           `json:"rows"`
	Columns  []string      `json:"columns"`
	Head     [][]string    `json:"head"`
	Describe []ColumnStats `json:"describe"`
}

// ColumnStats mirrors a describe() row for one numeric column.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

type BestProduct struct {
	Product      Product             `json:"product"`
	Label        string              `json:"label"`
	Reason       string              `json:"reason"`
	AmountEarned float64             `json:"amount_earned"`
	Totals       map[Product]float64 `json:"totals"`
	// ProductStats describes the spend columns over customers with complete spend.
	ProductStats []ColumnStats `json:"product_stats"`
}

type DailyTotal struct {
	Date    time.Time `json:"date"`
	Deals   float64   `json:"deals"`
	Web     float64   `json:"web"`
	Catalog float64   `json:"catalog"`
	Store   float64   `json:"store"`
	Total   float64   `json:"total"`
}

// DayLayout is how a busiest day is presented.
const DayLayout = "January 02, 2006"

// Day formats the date of the total.
func (d DailyTotal) Day() string { return d.Date.Format(DayLayout) }

type TaxFreight struct {
	HighestTaxProduct     string `json:"highest_tax_product"`
	HighestFreightProduct string `json:"highest_freight_product"`
}

type ProductPair struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Orders int    `json:"orders"`
}

type RevenueProfit struct {
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

type CustomerCount struct {
	CustID    string `json:"cust_id"`
	Purchases int    `json:"purchases"`
}
