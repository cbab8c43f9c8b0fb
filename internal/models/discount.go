package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount is a promotional code. It is never mutated once issued.
type Discount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code        string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Percentage  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"percentage"`
	FixedAmount decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"fixed_amount"`

	// Validity window, both bounds inclusive.
	StartsAt time.Time `gorm:"not null" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`

	MinQuantity int `gorm:"not null;default:1" json:"min_quantity"`
}
