package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder is one line of the sales order sheet (or the sales_orders table).
type SalesOrder struct {
	SalesOrderID string          `db:"sales_order_id" json:"sales_order_id"`
	ProdID       string          `db:"prod_id"        json:"prod_id"`
	CustID       string          `db:"cust_id"        json:"cust_id"`
	SubTotal     decimal.Decimal `db:"sub_total"      json:"sub_total"`
	TaxAmt       decimal.Decimal `db:"tax_amt"        json:"tax_amt"`
	Freight      decimal.Decimal `db:"freight"        json:"freight"`
	OrderDate    *time.Time      `db:"order_date"     json:"order_date,omitempty"`
}

// OrderEvent is the payload consumed from the sales.orders topic.
type OrderEvent struct {
	ID    string     `json:"id"` // producer-side event id, informational
	Order SalesOrder `json:"order"`
}

// Valid reports whether the order carries the keys every aggregation needs.
func (o SalesOrder) Valid() bool {
	return o.SalesOrderID != "" && o.ProdID != "" && o.CustID != ""
}
