package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusAccepted PaymentStatus = "accepted"
	PaymentStatusRefused  PaymentStatus = "refused"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethod is how the client paid.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodPayPal   PaymentMethod = "paypal"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// Valid reports whether m is a supported method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodTransfer:
		return true
	}
	return false
}

// Payment records money received (or expected) for an order.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderID uint   `gorm:"index;not null" json:"order_id"`
	Order   *Order `gorm:"foreignKey:OrderID" json:"-"`

	Amount decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"amount"`
	Method PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Status PaymentStatus   `gorm:"size:20;not null;default:'pending'" json:"status"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// IsPending returns true while the payment has not been processed.
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}
