// Package discount evaluates promotional codes: validity windows and the
// reduction a code grants on a cart total.
package discount

import (
	"time"

	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/pricing"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// IsValid reports whether asOf falls inside [StartsAt, EndsAt], bounds included.
func IsValid(d *models.Discount, asOf time.Time) bool {
	return !asOf.Before(d.StartsAt) && !asOf.After(d.EndsAt)
}

// MeetsMinimum reports whether totalQuantity reaches the code's threshold.
func MeetsMinimum(d *models.Discount, totalQuantity int) bool {
	return totalQuantity >= d.MinQuantity
}

// ComputeAmount returns the larger of the percentage reduction and the fixed
// reduction. The two are never stacked.
func ComputeAmount(d *models.Discount, total decimal.Decimal) decimal.Decimal {
	byPercent := total.Mul(d.Percentage).Div(hundred).Round(pricing.Scale)
	return decimal.Max(byPercent, d.FixedAmount)
}

// Apply returns ComputeAmount clamped to total, so the net amount never goes
// below zero.
func Apply(d *models.Discount, total decimal.Decimal) decimal.Decimal {
	amount := ComputeAmount(d, total)
	if amount.GreaterThan(total) {
		return total
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Describe renders a short label for receipts, e.g. "SUMMER10: 10% off".
func Describe(d *models.Discount) string {
	label := d.Code + ": "
	switch {
	case d.Percentage.IsPositive():
		return label + d.Percentage.String() + "% off"
	case d.FixedAmount.IsPositive():
		return label + pricing.Format(d.FixedAmount) + " off"
	}
	return d.Code
}
