package policy

import (
	"context"

	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/gorm"
)

// DBRoleResolver reads a user's role from the users table.
type DBRoleResolver struct {
	DB *gorm.DB
}

func NewDBRoleResolver(db *gorm.DB) *DBRoleResolver {
	return &DBRoleResolver{DB: db}
}

// Resolve maps clients to gate.RoleClient and parses the stored role code of
// back-office users. An unknown code is an error rather than a silent client.
func (r *DBRoleResolver) Resolve(ctx context.Context, userID uint) (gate.Role, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Select("id", "kind", "role").First(&user, userID).Error; err != nil {
		return gate.RoleClient, err
	}
	if !user.IsAdmin() {
		return gate.RoleClient, nil
	}
	return gate.ParseRole(user.Role)
}
