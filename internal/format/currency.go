// Package format renders money for human-readable summaries.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency returns a dollar string with cents and thousands separators (e.g. "-$1,234.56").
func Currency(amount decimal.Decimal) string {
	return sign(amount) + printer.Sprintf("%.2f", amount.Abs().Round(2).InexactFloat64())
}

// WholeCurrency is Currency rounded to whole dollars (e.g. "$1,235").
func WholeCurrency(amount decimal.Decimal) string {
	return sign(amount) + printer.Sprintf("%d", amount.Abs().Round(0).IntPart())
}

// Percent formats a rate such as 4 or 1.5 as "4%" / "1.5%".
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).String() + "%"
}

func sign(amount decimal.Decimal) string {
	if amount.Round(2).IsNegative() {
		return "-$"
	}
	return "$"
}
