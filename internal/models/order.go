package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusValidated OrderStatus = "validated"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the allowed next states for each state.
// pending -> validated -> shipped -> delivered, with cancellation allowed until shipping.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusValidated, OrderStatusCancelled},
	OrderStatusValidated: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusValidated, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows s -> next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// Order is the immutable record created at checkout. Total and DiscountAmount are
// frozen at creation; only Status changes afterwards.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Reference is the public receipt identifier.
	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	ClientID uint  `gorm:"index;not null" json:"client_id"`
	Client   *User `gorm:"foreignKey:ClientID" json:"-"`

	Status OrderStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Total          decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"total"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"discount_amount"`
	DiscountCode   string          `gorm:"size:50" json:"discount_code,omitempty"`
	Note           string          `gorm:"type:text" json:"note,omitempty"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// GetUserID returns the owning client, for ownership checks.
func (o *Order) GetUserID() uint {
	return o.ClientID
}

// Net returns total minus discount.
func (o *Order) Net() decimal.Decimal {
	return o.Total.Sub(o.DiscountAmount)
}

// IsCancelled returns true if the order has been cancelled.
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// CanCancel returns true while the order has not shipped.
func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// LinesTotal sums the line totals.
func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

// OrderLine is a priced line frozen at checkout time.
type OrderLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID uint   `gorm:"index;not null" json:"order_id"`
	Order   *Order `gorm:"foreignKey:OrderID" json:"-"`

	ItemID      uint         `gorm:"index;not null" json:"item_id"`
	Item        *CatalogItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	ItemBrandID *uint        `gorm:"index" json:"item_brand_id,omitempty"`

	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"line_total"`
}

// Consistent reports whether LineTotal == Quantity * UnitPrice.
func (l *OrderLine) Consistent() bool {
	return l.LineTotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}
