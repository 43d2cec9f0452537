// Package money does exact cent arithmetic for quote and job totals.
//
// Dollar amounts cross the package boundary as float64 values that never
// carry more than two decimal places; everything that is summed or compared
// is done on int64 cents. Rounding goes through shopspring/decimal so that
// binary float artefacts (0.1+0.2) never leak into a total.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

const (
	CentsPerDollar = 100

	// GSTRate is the flat Australian GST rate.
	GSTRate = 0.10
)

// ToCents converts dollars to whole cents, rounding halves up.
func ToCents(dollars float64) (int64, error) {
	if err := CheckFinite("toCents", dollars); err != nil {
		return 0, err
	}
	return roundCents(decimal.NewFromFloat(dollars).Shift(2)), nil
}

// FromCents converts whole cents back to dollars.
func FromCents(cents int64) float64 {
	return float64(cents) / CentsPerDollar
}

// RoundMoney rounds a dollar amount to two decimal places.
func RoundMoney(dollars float64) (float64, error) {
	cents, err := ToCents(dollars)
	if err != nil {
		return 0, err
	}
	return FromCents(cents), nil
}

// SumCents adds cent values. No values sums to zero.
func SumCents(values ...int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// MultiplyDollars multiplies an amount by a factor and rounds the product to cents.
func MultiplyDollars(amount, factor float64) (float64, error) {
	if err := CheckFinite("multiplyDollars", amount, factor); err != nil {
		return 0, err
	}
	product := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(factor))
	return FromCents(roundCents(product.Shift(2))), nil
}

// ApplyMinimumCents returns the larger of amount and minimum.
func ApplyMinimumCents(amount, minimum int64) int64 {
	if amount < minimum {
		return minimum
	}
	return amount
}

// ApplyMinimum returns max(amount, minimum), compared on cents.
func ApplyMinimum(amount, minimum float64) (float64, error) {
	amountCents, err := ToCents(amount)
	if err != nil {
		return 0, err
	}
	minimumCents, err := ToCents(minimum)
	if err != nil {
		return 0, err
	}
	return FromCents(ApplyMinimumCents(amountCents, minimumCents)), nil
}

// GST is the tax on a subtotal and the tax-inclusive total.
type GST struct {
	GST   float64 `json:"gst"`
	Total float64 `json:"total"`
}

// CalculateGST computes tax on a tax-exclusive subtotal. Zero, negative or
// non-finite subtotals yield a zero result; GST is never negative.
func CalculateGST(subtotal, rate float64) GST {
	if !isFinite(subtotal) || !isFinite(rate) || subtotal <= 0 {
		return GST{}
	}
	subtotalCents := roundCents(decimal.NewFromFloat(subtotal).Shift(2))
	gstCents := centsTimes(subtotalCents, decimal.NewFromFloat(rate))
	if gstCents < 0 {
		gstCents = 0
	}
	return GST{
		GST:   FromCents(gstCents),
		Total: FromCents(subtotalCents + gstCents),
	}
}

// AddGST returns the tax-inclusive total for a subtotal.
func AddGST(subtotal, rate float64) float64 {
	return CalculateGST(subtotal, rate).Total
}

// ExtractGST derives the tax component of a tax-inclusive total as
// total x rate/(1+rate). At 10% this is the divide-by-eleven rule.
func ExtractGST(totalInclusive, rate float64) float64 {
	return FromCents(extractGSTCents(totalInclusive, rate))
}

// ExtractSubtotal is the tax-inclusive total less its extracted GST.
func ExtractSubtotal(totalInclusive, rate float64) float64 {
	if !isFinite(totalInclusive) || totalInclusive <= 0 {
		return 0
	}
	totalCents := roundCents(decimal.NewFromFloat(totalInclusive).Shift(2))
	return FromCents(totalCents - extractGSTCents(totalInclusive, rate))
}

func extractGSTCents(totalInclusive, rate float64) int64 {
	if !isFinite(totalInclusive) || !isFinite(rate) || totalInclusive <= 0 || rate <= 0 {
		return 0
	}
	totalCents := decimal.NewFromInt(roundCents(decimal.NewFromFloat(totalInclusive).Shift(2)))
	r := decimal.NewFromFloat(rate)
	return roundCents(totalCents.Mul(r).Div(decimal.NewFromInt(1).Add(r)))
}

// roundCents rounds to a whole number with halves going up, so -2.5 becomes -2.
func roundCents(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

func centsTimes(cents int64, factor decimal.Decimal) int64 {
	return roundCents(decimal.NewFromInt(cents).Mul(factor))
}

// IsWholeCents reports whether an amount carries no more than two decimal places.
func IsWholeCents(amount float64) bool {
	if !isFinite(amount) {
		return false
	}
	return FromCents(int64(math.Round(amount*CentsPerDollar))) == amount
}
