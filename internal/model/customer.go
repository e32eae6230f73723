package model

import "time"

// Purchase channel columns of the customer table.
const (
	ChannelDeals   = "NumDealsPurchases"
	ChannelWeb     = "NumWebPurchases"
	ChannelCatalog = "NumCatalogPurchases"
	ChannelStore   = "NumStorePurchases"
)

// Channels lists the purchase channel columns in table order.
var Channels = []string{ChannelDeals, ChannelWeb, ChannelCatalog, ChannelStore}

const (
	ColumnID       = "Id"
	ColumnJoinDate = "Dt_Customer"
)

// Customer is one row of the superstore customer table.
// Spend values are nil when the cell was missing.
type Customer struct {
	ID       string
	Spend    map[Product]*float64
	Channels map[string]*float64
	JoinedAt time.Time // zero when Dt_Customer is empty
}

// HasAllSpend reports whether every spend column is present.
func (c Customer) HasAllSpend() bool {
	for _, p := range Products {
		if c.Spend[p] == nil {
			return false
		}
	}
	return true
}

// ChannelTotal sums the channel counts, treating missing cells as zero.
func (c Customer) ChannelTotal() float64 {
	var sum float64
	for _, ch := range Channels {
		if v := c.Channels[ch]; v != nil {
			sum += *v
		}
	}
	return sum
}
