package models

import (
	"time"

	"gorm.io/gorm"
)

// UserKind separates shoppers from back-office staff.
type UserKind string

const (
	UserKindClient UserKind = "client"
	UserKindAdmin  UserKind = "admin"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Kind      UserKind       `gorm:"size:20;not null;default:'client'" json:"kind"`
	// Role is the code of a gate.Role; parsed at the authorization boundary.
	// Empty for clients.
	Role    string `gorm:"size:30" json:"role,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	Phone   string `gorm:"size:30" json:"phone,omitempty"`
}

// IsAdmin returns true for back-office users.
func (u *User) IsAdmin() bool {
	return u.Kind == UserKindAdmin
}
