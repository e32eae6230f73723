package util

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopspring/decimal"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount as $1,234.56.
func FormatMoney(d decimal.Decimal) string {
	v := d.Round(2)
	if v.IsNegative() {
		return "-$" + moneyPrinter.Sprintf("%.2f", v.Neg().InexactFloat64())
	}
	return "$" + moneyPrinter.Sprintf("%.2f", v.InexactFloat64())
}

// FormatMoneyFloat is FormatMoney for float totals.
func FormatMoneyFloat(v float64) string {
	return FormatMoney(decimal.NewFromFloat(v))
}
