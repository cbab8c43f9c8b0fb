package store

import (
	"context"
	"strings"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
)

func (s *Store) GetItem(ctx context.Context, id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := s.conn(ctx).First(&item, id).Error; err != nil {
		return nil, dbErr("store.GetItem", err)
	}
	return &item, nil
}

// FindByName returns the items whose name contains substring, case-insensitive.
// An empty substring lists the whole catalog.
func (s *Store) FindByName(ctx context.Context, substring string) ([]models.CatalogItem, error) {
	q := s.conn(ctx).Order("name").Order("id")
	if substring = strings.TrimSpace(substring); substring != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(substring)+"%")
	}
	var items []models.CatalogItem
	if err := q.Find(&items).Error; err != nil {
		return nil, dbErr("store.FindByName", err)
	}
	return items, nil
}

func (s *Store) GetItemBrand(ctx context.Context, id uint) (*models.ItemBrand, error) {
	var ib models.ItemBrand
	if err := s.conn(ctx).Preload("Item").Preload("Brand").First(&ib, id).Error; err != nil {
		return nil, dbErr("store.GetItemBrand", err)
	}
	return &ib, nil
}

// BrandsForItem lists the brand relations of an item.
func (s *Store) BrandsForItem(ctx context.Context, itemID uint) ([]models.ItemBrand, error) {
	var out []models.ItemBrand
	err := s.conn(ctx).Preload("Brand").Where("item_id = ?", itemID).Order("id").Find(&out).Error
	if err != nil {
		return nil, dbErr("store.BrandsForItem", err)
	}
	return out, nil
}

func (s *Store) CreateItem(ctx context.Context, item *models.CatalogItem) error {
	return dbErr("store.CreateItem", s.conn(ctx).Create(item).Error)
}

func (s *Store) CreateBrand(ctx context.Context, b *models.Brand) error {
	return dbErr("store.CreateBrand", s.conn(ctx).Create(b).Error)
}

func (s *Store) CreateItemBrand(ctx context.Context, ib *models.ItemBrand) error {
	if ib.ItemID == 0 || ib.BrandID == 0 {
		return apperr.New(apperr.KindInvalidInput, "store.CreateItemBrand", "item and brand are required")
	}
	return dbErr("store.CreateItemBrand", s.conn(ctx).Omit("Item", "Brand").Create(ib).Error)
}
