// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the account role. Every identity is either a Student or an Admin.
type Role string

const (
	RoleStudent Role = "Student"
	RoleAdmin   Role = "Admin"
)

// Valid reports whether the role is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Account represents a registered identity. Names are unique per role:
// a Student "sam" and an Admin "sam" are distinct accounts.
// Accounts are never mutated or deleted through the API.
type Account struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;uniqueIndex:idx_account_name_role" json:"name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"not null;uniqueIndex:idx_account_name_role" json:"userType"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
