// Package models contains database model definitions.
package models

import (
	"time"
)

// UserSettings holds the one settings row per user. The security and privacy
// columns carry opaque JSON objects; the merge engine in
// controller/usersettings guarantees their key sets on every read and write.
type UserSettings struct {
	ID uint64 `gorm:"primaryKey"`
	// UserID links the row to its owning user, one row per user.
	UserID uint64 `gorm:"uniqueIndex;not null"`
	// Security is the security settings JSON blob, including the embedded
	// whitelist and blacklist arrays.
	Security []byte `gorm:"type:blob"`
	// Privacy is the privacy settings JSON blob.
	Privacy []byte `gorm:"type:blob"`
	// Notifications toggles user notifications.
	Notifications bool `gorm:"default:true"`
	// Language is the UI language code.
	Language string `gorm:"size:16"`
	// Theme is the UI theme name.
	Theme     string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
