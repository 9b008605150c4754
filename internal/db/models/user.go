package models

import (
	"strings"
	"time"
)

// User represents a user account in the system.
// Credentials and token issuance are handled by the external auth service;
// this backend only reads the account record.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Email is the unique email address used for login and display.
	Email string `gorm:"unique;size:255;not null"`
	// Name is the optional display name.
	Name string `gorm:"size:255"`
	// Avatar is the optional avatar URL.
	Avatar string `gorm:"size:512"`
	// Credits is the wallet balance, mutated by the billing collaborator only.
	Credits float64 `gorm:"default:0"`
	// IsAdmin marks administrative accounts.
	IsAdmin bool
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// FullName returns the display name, falling back to the local part of the
// email address when no explicit name is set.
func (u *User) FullName() string {
	if u.Name != "" {
		return u.Name
	}

	local, _, _ := strings.Cut(u.Email, "@")

	return local
}
