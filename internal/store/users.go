package store

import (
	"context"
	"strings"

	"github.com/diewo77/go-shop/internal/models"
)

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.conn(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, dbErr("store.FindUserByEmail", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, dbErr("store.GetUser", err)
	}
	return &u, nil
}

// UserExists is used by the session verifier.
func (s *Store) UserExists(ctx context.Context, id uint) bool {
	var n int64
	s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n)
	return n > 0
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return dbErr("store.CreateUser", s.conn(ctx).Create(u).Error)
}
