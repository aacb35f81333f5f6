package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"`
	Password            string `gorm:"not null"`
	Name                string
	Role                string `gorm:"default:'merchant'"`
	Status              string `gorm:"default:'active'"`
	EmailVerified       bool   `gorm:"default:false"`
	MFAEnabled          bool   `gorm:"default:false"`
	MFASecret           string
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int `gorm:"default:1"`
	LastLoginAt         time.Time
	LastLoginIP         string
}

// MFABackupCode is a single-use recovery code. Only the bcrypt hash is
// stored; the plaintext is shown once, at generation time.
type MFABackupCode struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null"`
	CodeHash string `gorm:"not null"`
	UsedAt   *time.Time
}

type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IsStaff reports whether the user may access the admin console.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}
