package money

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount as en-AU dollars, e.g. "$1,234.50".
func FormatCurrency(amount float64) string {
	if !isFinite(amount) {
		return "$0.00"
	}
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/CentsPerDollar), cents%CentsPerDollar)
}

// FormatFixed renders an amount with exactly two decimal places and no symbol.
func FormatFixed(amount float64) string {
	if !isFinite(amount) {
		return "0.00"
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatPercent renders a rate as a percentage, e.g. 0.1 -> "10%".
func FormatPercent(rate float64) string {
	if !isFinite(rate) {
		return "0%"
	}
	return decimal.NewFromFloat(rate).Shift(2).String() + "%"
}
