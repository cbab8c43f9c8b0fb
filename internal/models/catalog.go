package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem is a sellable article with an optional bulk-price tier.
// BulkPrice and BulkThreshold are either both set or both absent; the pair is
// checked by services.ValidateItem before an item enters the catalog.
type CatalogItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"size:255;not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string `gorm:"size:500" json:"image_url,omitempty"`

	// Pricing
	UnitPrice     decimal.Decimal     `gorm:"type:decimal(12,4);not null" json:"unit_price"`
	BulkPrice     decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"bulk_price"`
	BulkThreshold *int                `json:"bulk_threshold,omitempty"`

	// Stock is decremented with a conditional update; it never goes negative.
	Stock int `gorm:"not null;default:0;check:chk_catalog_items_stock,stock >= 0" json:"stock"`
}

// HasBulkTier reports whether the item defines a usable bulk tier.
func (i *CatalogItem) HasBulkTier() bool {
	return i.BulkPrice.Valid && i.BulkThreshold != nil && *i.BulkThreshold > 0
}

// InStock reports whether qty units can be taken from the current snapshot.
func (i *CatalogItem) InStock(qty int) bool {
	return i.Stock >= qty
}

// Brand is a manufacturer an item can be sold under.
type Brand struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	LogoURL     string    `gorm:"size:500" json:"logo_url,omitempty"`
}

// ItemBrand links an item to a brand. A SpecificPrice, when set, replaces the
// item's base and bulk pricing for purchases made under this brand.
type ItemBrand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ItemID  uint         `gorm:"not null;uniqueIndex:idx_item_brand,priority:1" json:"item_id"`
	Item    *CatalogItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	BrandID uint         `gorm:"not null;uniqueIndex:idx_item_brand,priority:2" json:"brand_id"`
	Brand   *Brand       `gorm:"foreignKey:BrandID" json:"brand,omitempty"`

	SpecificPrice decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"specific_price"`
}
