package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Money renders an amount with the currency symbol reported by the platform
// ("₹1,299.00"). Falls back to a bare symbol-less figure when the platform
// omits the symbol.
func Money(amount decimal.Decimal, symbol string) string {
	ac := accounting.Accounting{Symbol: symbol, Precision: 2}
	return ac.FormatMoneyDecimal(amount)
}

// MoneyWhole is Money without decimals, used for list-price strikethroughs.
func MoneyWhole(amount decimal.Decimal, symbol string) string {
	ac := accounting.Accounting{Symbol: symbol, Precision: 0}
	return ac.FormatMoneyDecimal(amount)
}
