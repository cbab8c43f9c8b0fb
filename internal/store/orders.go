package store

import (
	"context"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOrder inserts the order header and its lines in one transaction and
// returns the new order id. order.Lines is set to the stored lines.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) (uint, error) {
	const op = "store.CreateOrder"
	if len(lines) == 0 {
		return 0, apperr.New(apperr.KindEmptyCart, op, "order without lines")
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		order.Lines = nil
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return err
		}
		order.Lines = lines
		return nil
	})
	if err != nil {
		return 0, dbErr(op, err)
	}
	return order.ID, nil
}

// UpdateOrderStatus is a compare-and-set on the status column.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, from, to models.OrderStatus) error {
	const op = "store.UpdateOrderStatus"
	res := s.conn(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return dbErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return dbErr(op, err)
		}
		if n == 0 {
			return apperr.New(apperr.KindNotFound, op, "order %d", id)
		}
		return apperr.Wrap(apperr.KindTransactionConflict, op, ErrStatusConflict)
	}
	return nil
}

// FindOrder loads an order with its lines.
func (s *Store) FindOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.conn(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&o, id).Error
	if err != nil {
		return nil, dbErr("store.FindOrder", err)
	}
	return &o, nil
}

func (s *Store) FindLines(ctx context.Context, orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := s.conn(ctx).Preload("Item").Where("order_id = ?", orderID).Order("id").Find(&lines).Error
	if err != nil {
		return nil, dbErr("store.FindLines", err)
	}
	return lines, nil
}

// FindByClient lists a client's orders, newest first.
func (s *Store) FindByClient(ctx context.Context, clientID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.conn(ctx).Where("client_id = ?", clientID).Order("created_at DESC").Order("id DESC").Find(&orders).Error
	if err != nil {
		return nil, dbErr("store.FindByClient", err)
	}
	return orders, nil
}
