package sales

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
	printer  = message.NewPrinter(language.English)
)

// FormatSales renders a sales amount for hover text: "$1.2 M", "$3.4 K" or
// "$999", with thousands separators.
func FormatSales(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(million):
		return printer.Sprintf("$%.1f M", v.Div(million).InexactFloat64())
	case v.GreaterThanOrEqual(thousand):
		return printer.Sprintf("$%.1f K", v.Div(thousand).InexactFloat64())
	default:
		return printer.Sprintf("$%.0f", v.InexactFloat64())
	}
}
