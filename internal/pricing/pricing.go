// Package pricing computes unit and line prices for catalog items, including
// the bulk tier: full lots at the bulk price, the remainder at the base price,
// averaged over the whole quantity.
package pricing

import (
	"github.com/diewo77/go-shop/internal/models"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept on unit prices and amounts.
// Line totals are always quantity * rounded unit price, so a blended bulk price
// can move a line total away from the exact lot sum by at most
// quantity * 0.00005. Displayed amounts are rounded to cents.
const Scale = 4

// UnitPrice returns the average unit price of item for quantity units.
// The bulk price is a per-unit price granted on every full lot of BulkThreshold
// units; remaining units pay the base price. quantity must be positive.
func UnitPrice(item *models.CatalogItem, quantity int) decimal.Decimal {
	if !item.HasBulkTier() || quantity < *item.BulkThreshold {
		return item.UnitPrice
	}
	threshold := *item.BulkThreshold
	lots := quantity / threshold
	remainder := quantity % threshold
	if remainder == 0 {
		return item.BulkPrice.Decimal
	}

	bulkUnits := decimal.NewFromInt(int64(lots * threshold))
	total := item.BulkPrice.Decimal.Mul(bulkUnits).
		Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(remainder))))
	return total.Div(decimal.NewFromInt(int64(quantity))).Round(Scale)
}

// PriceFor returns the unit price for an item sold under a brand. A brand
// specific price overrides the base and bulk pricing.
func PriceFor(ib *models.ItemBrand, item *models.CatalogItem, quantity int) decimal.Decimal {
	if ib != nil && ib.SpecificPrice.Valid {
		return ib.SpecificPrice.Decimal
	}
	return UnitPrice(item, quantity)
}

// LineTotal returns quantity * unitPrice.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Format renders an amount with two decimals for display.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
