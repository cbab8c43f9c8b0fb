package store

import (
	"context"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/gorm"
)

// CheckAvailability reports whether the stored stock covers qty.
func (s *Store) CheckAvailability(ctx context.Context, itemID uint, qty int) (bool, error) {
	var item models.CatalogItem
	err := s.conn(ctx).Select("id", "stock").First(&item, itemID).Error
	if err != nil {
		return false, dbErr("store.CheckAvailability", err)
	}
	return item.Stock >= qty, nil
}

// Decrement takes qty units from stock with a single conditional update, so two
// concurrent decrements can never take more than what is stored.
func (s *Store) Decrement(ctx context.Context, itemID uint, qty int) error {
	const op = "store.Decrement"
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, op, "quantity %d", qty)
	}
	res := s.conn(ctx).Model(&models.CatalogItem{}).
		Where("id = ? AND stock >= ?", itemID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return dbErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.KindTransactionConflict, op, ErrStockConflict)
	}
	return nil
}

// Restore gives qty units back to stock.
func (s *Store) Restore(ctx context.Context, itemID uint, qty int) error {
	const op = "store.Restore"
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, op, "quantity %d", qty)
	}
	res := s.conn(ctx).Model(&models.CatalogItem{}).
		Where("id = ?", itemID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return dbErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, op, "item %d", itemID)
	}
	return nil
}
