package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values attached to a User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the two enumerated values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is an account derived from external identity sign-in. Email is the
// natural key: lookups and role updates address users by email, never by the
// internal id.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" gorm:"type:text"`
	Email     string    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	Image     string    `json:"image" gorm:"type:text"`
	Role      string    `json:"role" gorm:"type:text;not null;default:user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
