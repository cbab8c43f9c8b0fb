// Package cart holds the in-memory shopping cart of a single session.
//
// A Cart is owned by one caller at a time and is not safe for concurrent use.
// Every mutation reprices the touched line and recomputes the applied discount,
// so Total, DiscountAmount and Net are always consistent with the lines.
package cart

import (
	"time"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/discount"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/pricing"
	"github.com/shopspring/decimal"
)

// Line is one priced entry of the cart. Item is a snapshot taken when the line
// was last touched; the authoritative stock is re-read at checkout.
type Line struct {
	Item      models.CatalogItem
	ItemBrand *models.ItemBrand
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// ItemBrandID returns the brand relation id, or nil for a plain item line.
func (l *Line) ItemBrandID() *uint {
	if l.ItemBrand == nil {
		return nil
	}
	id := l.ItemBrand.ID
	return &id
}

func (l *Line) sameProduct(itemID uint, ib *models.ItemBrand) bool {
	if l.Item.ID != itemID {
		return false
	}
	if l.ItemBrand == nil || ib == nil {
		return l.ItemBrand == nil && ib == nil
	}
	return l.ItemBrand.ID == ib.ID
}

func (l *Line) reprice() {
	l.UnitPrice = pricing.PriceFor(l.ItemBrand, &l.Item, l.Quantity)
	l.LineTotal = pricing.LineTotal(l.UnitPrice, l.Quantity)
}

// Cart is the mutable collection of lines plus the discount state.
type Cart struct {
	lines          []Line
	discount       *models.Discount
	discountAmount decimal.Decimal
	lastNet        decimal.Decimal
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds quantity units of item. Adding an item already in the cart merges
// the quantities and reprices the line on the combined quantity.
func (c *Cart) AddItem(item *models.CatalogItem, quantity int) error {
	if item == nil {
		return apperr.New(apperr.KindInvalidInput, "cart.AddItem", "item is required")
	}
	return c.add("cart.AddItem", item, nil, quantity)
}

// AddBrandItem adds quantity units of an item sold under a brand. ib.Item must be
// loaded.
func (c *Cart) AddBrandItem(ib *models.ItemBrand, quantity int) error {
	if ib == nil || ib.Item == nil {
		return apperr.New(apperr.KindInvalidInput, "cart.AddBrandItem", "item brand without item")
	}
	return c.add("cart.AddBrandItem", ib.Item, ib, quantity)
}

func (c *Cart) add(op string, item *models.CatalogItem, ib *models.ItemBrand, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, op, "quantity %d", quantity)
	}
	idx := -1
	for i := range c.lines {
		if c.lines[i].sameProduct(item.ID, ib) {
			idx = i
			break
		}
	}
	lineQty := quantity
	if idx >= 0 {
		lineQty += c.lines[idx].Quantity
	}
	if need := lineQty + c.quantityOfItem(item.ID, idx); item.Stock < need {
		return apperr.New(apperr.KindInsufficientStock, op, "item %d: want %d, have %d", item.ID, need, item.Stock)
	}

	if idx < 0 {
		c.lines = append(c.lines, Line{ItemBrand: ib})
		idx = len(c.lines) - 1
	}
	line := &c.lines[idx]
	line.Item = *item
	line.ItemBrand = ib
	line.Quantity = lineQty
	line.reprice()
	c.refreshDiscount()
	return nil
}

// ModifyQuantity replaces the quantity of the line at index and reprices it.
func (c *Cart) ModifyQuantity(index, quantity int) error {
	const op = "cart.ModifyQuantity"
	if index < 0 || index >= len(c.lines) {
		return apperr.New(apperr.KindIndexOutOfRange, op, "index %d, %d lines", index, len(c.lines))
	}
	if quantity <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, op, "quantity %d", quantity)
	}
	line := &c.lines[index]
	if need := quantity + c.quantityOfItem(line.Item.ID, index); line.Item.Stock < need {
		return apperr.New(apperr.KindInsufficientStock, op, "item %d: want %d, have %d", line.Item.ID, need, line.Item.Stock)
	}
	line.Quantity = quantity
	line.reprice()
	c.refreshDiscount()
	return nil
}

// RemoveItem drops the line at index.
func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.lines) {
		return apperr.New(apperr.KindIndexOutOfRange, "cart.RemoveItem", "index %d, %d lines", index, len(c.lines))
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	c.refreshDiscount()
	return nil
}

// ApplyDiscount validates d at asOf and records it. The amount is the larger of
// the percentage and fixed reductions, capped at the cart total.
func (c *Cart) ApplyDiscount(d *models.Discount, asOf time.Time) error {
	const op = "cart.ApplyDiscount"
	if d == nil {
		return apperr.New(apperr.KindDiscountUnknown, op, "no discount")
	}
	if !discount.IsValid(d, asOf) {
		return apperr.New(apperr.KindDiscountExpired, op, "%s", d.Code)
	}
	if qty := c.TotalQuantity(); !discount.MeetsMinimum(d, qty) {
		return apperr.New(apperr.KindDiscountMinimumNotMet, op, "%s: %d < %d", d.Code, qty, d.MinQuantity)
	}
	c.discount = d
	c.discountAmount = discount.Apply(d, c.Total())
	return nil
}

// ClearDiscount removes any applied discount.
func (c *Cart) ClearDiscount() {
	c.discount = nil
	c.discountAmount = decimal.Zero
}

// Empty removes every line and the discount. LastNetAmount is kept.
func (c *Cart) Empty() {
	c.lines = nil
	c.ClearDiscount()
}

// Finalize records the current net amount as LastNetAmount and empties the cart.
// It is called once the order has been persisted.
func (c *Cart) Finalize() decimal.Decimal {
	c.lastNet = c.Net()
	c.Empty()
	return c.lastNet
}

// refreshDiscount keeps an applied discount consistent with the lines. The code is
// dropped once the minimum quantity is no longer reached.
func (c *Cart) refreshDiscount() {
	if c.discount == nil {
		return
	}
	if !discount.MeetsMinimum(c.discount, c.TotalQuantity()) {
		c.ClearDiscount()
		return
	}
	c.discountAmount = discount.Apply(c.discount, c.Total())
}

// quantityOfItem sums the quantities of item across lines, skipping skip.
func (c *Cart) quantityOfItem(itemID uint, skip int) int {
	n := 0
	for i := range c.lines {
		if i != skip && c.lines[i].Item.ID == itemID {
			n += c.lines[i].Quantity
		}
	}
	return n
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Total is the sum of the line totals, before discount.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.lines {
		total = total.Add(c.lines[i].LineTotal)
	}
	return total
}

func (c *Cart) TotalQuantity() int {
	n := 0
	for i := range c.lines {
		n += c.lines[i].Quantity
	}
	return n
}

func (c *Cart) DiscountAmount() decimal.Decimal { return c.discountAmount }

// DiscountCode returns the applied code, or "" when none.
func (c *Cart) DiscountCode() string {
	if c.discount == nil {
		return ""
	}
	return c.discount.Code
}

// Discount returns the applied discount, or nil.
func (c *Cart) Discount() *models.Discount { return c.discount }

// Net is Total minus DiscountAmount. It is never negative.
func (c *Cart) Net() decimal.Decimal {
	return c.Total().Sub(c.discountAmount)
}

// LastNetAmount is the net amount of the last finalized checkout.
func (c *Cart) LastNetAmount() decimal.Decimal { return c.lastNet }
