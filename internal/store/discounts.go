package store

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/gorm"
)

// FindByCode looks a code up case-insensitively. A missing code is not an error:
// it returns nil, nil.
func (s *Store) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	var d models.Discount
	err := s.conn(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr("store.FindByCode", err)
	}
	return &d, nil
}

// CreateDiscount stores a new code, upper-cased.
func (s *Store) CreateDiscount(ctx context.Context, d *models.Discount) error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	return dbErr("store.CreateDiscount", s.conn(ctx).Create(d).Error)
}
