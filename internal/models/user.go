package models

import (
	"strings"
	"time"
)

// Role represents a user's permission level. Roles are a closed enum and
// must only be produced through ParseRole so that casing variations from
// clients never leak into comparisons.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// ParseRole normalizes a role string to a Role. This is the single
// normalization point; nothing else in the codebase string-compares roles.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "standard", "standard user", "user":
		return RoleStandard, true
	}
	return "", false
}

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	DisplayName         string     `json:"display_name"`
	Role                Role       `gorm:"not null;default:standard" json:"role"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
