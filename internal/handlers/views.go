package handlers

import (
	"github.com/diewo77/go-shop/internal/cart"
	"github.com/diewo77/go-shop/internal/discount"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/pricing"
	"github.com/shopspring/decimal"
)

type cartLineView struct {
	Index       int             `json:"index"`
	ItemID      uint            `json:"item_id"`
	ItemBrandID *uint           `json:"item_brand_id,omitempty"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type cartView struct {
	Lines          []cartLineView  `json:"lines"`
	TotalQuantity  int             `json:"total_quantity"`
	Total          decimal.Decimal `json:"total"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	DiscountLabel  string          `json:"discount_label,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Net            decimal.Decimal `json:"net"`
	NetDisplay     string          `json:"net_display"`
	LastNetAmount  decimal.Decimal `json:"last_net_amount"`
}

func newCartView(c *cart.Cart) cartView {
	lines := c.Lines()
	v := cartView{
		Lines:          make([]cartLineView, len(lines)),
		TotalQuantity:  c.TotalQuantity(),
		Total:          c.Total(),
		DiscountCode:   c.DiscountCode(),
		DiscountAmount: c.DiscountAmount(),
		Net:            c.Net(),
		NetDisplay:     pricing.Format(c.Net()),
		LastNetAmount:  c.LastNetAmount(),
	}
	if d := c.Discount(); d != nil {
		v.DiscountLabel = discount.Describe(d)
	}
	for i, l := range lines {
		v.Lines[i] = cartLineView{
			Index:       i,
			ItemID:      l.Item.ID,
			ItemBrandID: l.ItemBrandID(),
			Name:        l.Item.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}
	return v
}

type orderView struct {
	*models.Order
	Net     decimal.Decimal `json:"net"`
	Display string          `json:"net_display"`
}

func newOrderView(o *models.Order) orderView {
	return orderView{Order: o, Net: o.Net(), Display: pricing.Format(o.Net())}
}
