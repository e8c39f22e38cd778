package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// ClampDiscountPercent normalizes a whole-number discount percentage the way
// the record form does: rounded to the nearest whole percent and clamped into
// [0, 25]. Non-numeric input (NaN) is treated as 0.
func ClampDiscountPercent(percent float64) float64 {
	if math.IsNaN(percent) {
		return 0
	}
	p := math.Round(percent)
	if p > 25 {
		return 25
	}
	if p < 0 {
		return 0
	}
	return p
}

// ComputeTotal returns quantity * unitPrice * (1 - discountPercent/100).
// The percentage is clamped before use, and the arithmetic runs on decimals
// so money amounts come out exact.
func ComputeTotal(quantity int64, unitPrice, discountPercent float64) float64 {
	pct := decimal.NewFromFloat(ClampDiscountPercent(discountPercent))
	factor := decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))

	total := decimal.NewFromInt(quantity).
		Mul(decimal.NewFromFloat(unitPrice)).
		Mul(factor)

	f, _ := total.Float64()
	return f
}
