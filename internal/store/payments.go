package store

import (
	"context"
	"time"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/gorm/clause"
)

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	return dbErr("store.CreatePayment", s.conn(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *Store) FindPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, dbErr("store.FindPayment", err)
	}
	return &p, nil
}

func (s *Store) FindPaymentsByOrder(ctx context.Context, orderID uint) ([]models.Payment, error) {
	var out []models.Payment
	if err := s.conn(ctx).Where("order_id = ?", orderID).Order("id").Find(&out).Error; err != nil {
		return nil, dbErr("store.FindPaymentsByOrder", err)
	}
	return out, nil
}

// UpdatePaymentStatus swaps the status of a payment still in from. Settling a
// pending payment stamps ProcessedAt.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id uint, from, to models.PaymentStatus) error {
	const op = "store.UpdatePaymentStatus"
	fields := map[string]any{"status": to}
	if from == models.PaymentStatusPending {
		fields["processed_at"] = time.Now()
	}
	res := s.conn(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return dbErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.conn(ctx).Model(&models.Payment{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return dbErr(op, err)
		}
		if n == 0 {
			return apperr.New(apperr.KindNotFound, op, "payment %d", id)
		}
		return apperr.Wrap(apperr.KindTransactionConflict, op, ErrStatusConflict)
	}
	return nil
}
