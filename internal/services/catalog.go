package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogWriter stores new catalog entries.
type CatalogWriter interface {
	CreateItem(ctx context.Context, item *models.CatalogItem) error
	CreateDiscount(ctx context.Context, d *models.Discount) error
}

// CatalogService validates and creates items and discount codes.
type CatalogService struct {
	lookup    CatalogLookup
	discounts DiscountLookup
	writer    CatalogWriter
	log       *zap.Logger
}

func NewCatalogService(lookup CatalogLookup, discounts DiscountLookup, writer CatalogWriter, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{lookup: lookup, discounts: discounts, writer: writer, log: log}
}

var hundred = decimal.NewFromInt(100)

// ValidateItem checks the catalog rules of an item.
func ValidateItem(item *models.CatalogItem) validation.Violations {
	v := validation.Violations{}
	validation.Required("name", item.Name, v)
	validation.PositiveDecimal("unit_price", item.UnitPrice, v)
	validation.MinInt("stock", item.Stock, 0, v)
	switch {
	case item.BulkPrice.Valid != (item.BulkThreshold != nil):
		v["bulk_price"] = "invalid_pair"
	case item.BulkPrice.Valid:
		validation.PositiveDecimal("bulk_price", item.BulkPrice.Decimal, v)
		validation.MinInt("bulk_threshold", *item.BulkThreshold, 1, v)
	}
	return v
}

// ValidateDiscount checks the rules of a discount code, uniqueness aside.
func ValidateDiscount(d *models.Discount) validation.Violations {
	v := validation.Violations{}
	validation.Required("code", d.Code, v)
	validation.RangeDecimal("percentage", d.Percentage, decimal.Zero, hundred, v)
	validation.NonNegativeDecimal("fixed_amount", d.FixedAmount, v)
	if d.StartsAt.IsZero() {
		v["starts_at"] = "required"
	}
	if d.EndsAt.IsZero() {
		v["ends_at"] = "required"
	} else if d.EndsAt.Before(d.StartsAt) {
		v["ends_at"] = "out_of_range"
	}
	validation.MinInt("min_quantity", d.MinQuantity, 1, v)
	return v
}

// CreateItem validates and stores item.
func (s *CatalogService) CreateItem(ctx context.Context, item *models.CatalogItem) error {
	const op = "catalog.CreateItem"
	item.Name = strings.TrimSpace(item.Name)
	if v := ValidateItem(item); !v.Empty() {
		return apperr.Wrap(apperr.KindInvalidInput, op, v)
	}
	if err := s.writer.CreateItem(ctx, item); err != nil {
		return err
	}
	s.log.Info("item created", zap.Uint("item_id", item.ID), zap.String("name", item.Name))
	return nil
}

// CreateDiscount validates and stores a new code. A zero MinQuantity is read
// as the default of 1.
func (s *CatalogService) CreateDiscount(ctx context.Context, d *models.Discount) error {
	const op = "catalog.CreateDiscount"
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	if d.MinQuantity == 0 {
		d.MinQuantity = 1
	}
	v := ValidateDiscount(d)
	if v.Empty() {
		existing, err := s.discounts.FindByCode(ctx, d.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			v["code"] = "already_exists"
		}
	}
	if !v.Empty() {
		return apperr.Wrap(apperr.KindInvalidInput, op, v)
	}
	if err := s.writer.CreateDiscount(ctx, d); err != nil {
		return err
	}
	s.log.Info("discount created", zap.String("code", d.Code))
	return nil
}

func (s *CatalogService) Search(ctx context.Context, q string) ([]models.CatalogItem, error) {
	return s.lookup.FindByName(ctx, q)
}

func (s *CatalogService) Item(ctx context.Context, id uint) (*models.CatalogItem, error) {
	return s.lookup.GetItem(ctx, id)
}

func (s *CatalogService) ItemBrand(ctx context.Context, id uint) (*models.ItemBrand, error) {
	return s.lookup.GetItemBrand(ctx, id)
}

// Brands lists the brand offers of an item.
func (s *CatalogService) Brands(ctx context.Context, itemID uint) ([]models.ItemBrand, error) {
	return s.lookup.BrandsForItem(ctx, itemID)
}

// Discount finds a code; an unknown code is a discount_unknown error.
func (s *CatalogService) Discount(ctx context.Context, code string) (*models.Discount, error) {
	d, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.New(apperr.KindDiscountUnknown, "catalog.Discount", "%q", code)
	}
	return d, nil
}
