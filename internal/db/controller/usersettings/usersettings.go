// Package usersettings provides the settings store and merge engine for the
// one settings row kept per user. Reads and writes always go through the
// default merge so the security and privacy blobs returned to callers carry
// the full default key set, even for rows written before a schema addition.
//
// The settings row is read and written as a whole document. Concurrent
// updates for the same user are last-writer-wins; there is no row version.
package usersettings

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/models"
)

const (
	userQueryPattern = "user_id = ?"

	// DefaultNotifications is the default notification toggle.
	DefaultNotifications = true
	// DefaultLanguage is the default UI language.
	DefaultLanguage = "en"
	// DefaultTheme is the default UI theme.
	DefaultTheme = "light"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// DefaultSecurity returns the canonical shape and default values of the
// security blob. Numeric values are float64 so they compare equal with
// values decoded from stored JSON.
func DefaultSecurity() map[string]any {
	return map[string]any{
		"realTimeProtection": true,
		"autoUpdate":         false,
		"speedLimit":         float64(80),
		"customFilters":      []any{},
		"whitelist":          []any{},
		"blacklist":          []any{},
		"vpnEnabled":         false,
	}
}

// DefaultPrivacy returns the canonical shape and default values of the
// privacy blob.
func DefaultPrivacy() map[string]any {
	return map[string]any{
		"dataSharing":     true,
		"analytics":       false,
		"crashReports":    true,
		"personalizedAds": false,
	}
}

// Merge performs a shallow right-biased key union: stored values win per key,
// missing keys fall back to the defaults.
func Merge(defaults, stored map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(stored))

	for k, v := range defaults {
		out[k] = v
	}

	for k, v := range stored {
		out[k] = v
	}

	return out
}

// DecodeBlob decodes a stored JSON object column. Nil, empty and non-object
// blobs decode to an empty map.
func DecodeBlob(blob []byte) map[string]any {
	if len(blob) == 0 {
		return map[string]any{}
	}

	var m map[string]any
	if err := json.Unmarshal(blob, &m); err != nil || m == nil {
		return map[string]any{}
	}

	return m
}

// EncodeBlob encodes a settings map to its canonical JSON form. Map keys are
// marshaled in sorted order, so equal maps produce equal bytes.
func EncodeBlob(m map[string]any) []byte {
	out, err := json.Marshal(m)
	if err != nil {
		// settings maps come from json.Unmarshal or the defaults table and
		// always marshal
		panic(err)
	}

	return out
}

// Ensure loads the settings row for a user, creating it with full defaults if
// absent. If the stored security or privacy blob is missing default keys the
// merged result is persisted before returning. This is an explicit
// self-healing write, not a pure read.
func Ensure(db *gorm.DB, userID uint64) (*models.UserSettings, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings models.UserSettings

	result := db.Where(userQueryPattern, userID).First(&settings)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}

		settings = models.UserSettings{
			UserID:        userID,
			Security:      EncodeBlob(DefaultSecurity()),
			Privacy:       EncodeBlob(DefaultPrivacy()),
			Notifications: DefaultNotifications,
			Language:      DefaultLanguage,
			Theme:         DefaultTheme,
		}

		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}

		return &settings, nil
	}

	mergedSecurity := EncodeBlob(Merge(DefaultSecurity(), DecodeBlob(settings.Security)))
	mergedPrivacy := EncodeBlob(Merge(DefaultPrivacy(), DecodeBlob(settings.Privacy)))

	updates := map[string]any{}

	if !bytes.Equal(mergedSecurity, EncodeBlob(DecodeBlob(settings.Security))) {
		updates["security"] = mergedSecurity
	}

	if !bytes.Equal(mergedPrivacy, EncodeBlob(DecodeBlob(settings.Privacy))) {
		updates["privacy"] = mergedPrivacy
	}

	if settings.Language == "" {
		updates["language"] = DefaultLanguage
	}

	if settings.Theme == "" {
		updates["theme"] = DefaultTheme
	}

	if len(updates) > 0 {
		if err := db.Model(&settings).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	settings.Security = mergedSecurity
	settings.Privacy = mergedPrivacy

	if settings.Language == "" {
		settings.Language = DefaultLanguage
	}

	if settings.Theme == "" {
		settings.Theme = DefaultTheme
	}

	return &settings, nil
}

// UpdateSecurity persists a replacement security blob for an ensured
// settings row. Used by the filter list manager, which mutates the embedded
// whitelist/blacklist arrays.
func UpdateSecurity(db *gorm.DB, settings *models.UserSettings, security map[string]any) error {
	if db == nil {
		return ErrDBNil
	}

	blob := EncodeBlob(security)

	if err := db.Model(settings).Update("security", blob).Error; err != nil {
		return err
	}

	settings.Security = blob

	return nil
}

// Get returns the merged, default-filled settings view for a user, lazily
// creating the settings row.
func Get(db *gorm.DB, userID uint64) (*View, error) {
	settings, err := Ensure(db, userID)
	if err != nil {
		return nil, err
	}

	return buildView(settings), nil
}

// Update applies a partial settings update. Security and privacy objects are
// merged key-wise over defaults and the stored value; scalar fields are
// overwritten only when provided. Omission always means "leave unchanged".
func Update(db *gorm.DB, userID uint64, payload UpdatePayload) (*View, error) {
	settings, err := Ensure(db, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if payload.Security != nil {
		merged := Merge(DefaultSecurity(), DecodeBlob(settings.Security))
		payload.Security.apply(merged)
		updates["security"] = EncodeBlob(merged)
	}

	if payload.Privacy != nil {
		merged := Merge(DefaultPrivacy(), DecodeBlob(settings.Privacy))
		payload.Privacy.apply(merged)
		updates["privacy"] = EncodeBlob(merged)
	}

	if payload.Notifications != nil {
		updates["notifications"] = *payload.Notifications
	}

	if payload.Language != nil {
		updates["language"] = *payload.Language
	}

	if payload.Theme != nil {
		updates["theme"] = *payload.Theme
	}

	if len(updates) > 0 {
		if err := db.Model(settings).Updates(updates).Error; err != nil {
			return nil, err
		}

		if blob, ok := updates["security"].([]byte); ok {
			settings.Security = blob
		}

		if blob, ok := updates["privacy"].([]byte); ok {
			settings.Privacy = blob
		}

		if payload.Notifications != nil {
			settings.Notifications = *payload.Notifications
		}

		if payload.Language != nil {
			settings.Language = *payload.Language
		}

		if payload.Theme != nil {
			settings.Theme = *payload.Theme
		}
	}

	return buildView(settings), nil
}

func buildView(settings *models.UserSettings) *View {
	view := &View{
		Notifications: settings.Notifications,
		Language:      settings.Language,
		Theme:         settings.Theme,
	}

	if view.Language == "" {
		view.Language = DefaultLanguage
	}

	if view.Theme == "" {
		view.Theme = DefaultTheme
	}

	// decode via JSON round trip so keys outside the typed view, like the
	// embedded whitelist and blacklist arrays, stay out of the response
	security := Merge(DefaultSecurity(), DecodeBlob(settings.Security))
	privacy := Merge(DefaultPrivacy(), DecodeBlob(settings.Privacy))

	if err := json.Unmarshal(EncodeBlob(security), &view.Security); err != nil {
		log.Warn().Err(err).Uint64("userID", settings.UserID).
			Msg("security blob has mismatched value types, zero-filling affected fields")
	}

	if err := json.Unmarshal(EncodeBlob(privacy), &view.Privacy); err != nil {
		log.Warn().Err(err).Uint64("userID", settings.UserID).
			Msg("privacy blob has mismatched value types, zero-filling affected fields")
	}

	if view.Security.CustomFilters == nil {
		view.Security.CustomFilters = []string{}
	}

	return view
}
