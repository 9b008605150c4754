// Package filterlist manages the whitelist and blacklist URL arrays embedded
// in the security blob of a user's settings row. All operations go through
// usersettings.Ensure first, so the blob always carries the full default key
// set before it is read or mutated.
//
// Mutations rewrite the whole security blob; two concurrent adds for the same
// user are last-writer-wins, matching the settings store.
package filterlist

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/controller/usersettings"
)

// ListKey selects one of the two URL lists inside the security blob.
type ListKey string

const (
	// Whitelist is the list of always-allowed URLs.
	Whitelist ListKey = "whitelist"
	// Blacklist is the list of always-blocked URLs.
	Blacklist ListKey = "blacklist"
)

var (
	// ErrInvalidList is returned for a list key other than whitelist or blacklist.
	ErrInvalidList = errors.New("list must be whitelist or blacklist")
	// ErrEntryNotFound is returned when removing an id that is not in the list.
	ErrEntryNotFound = errors.New("list entry not found")
)

// Valid reports whether the key names a managed list.
func (k ListKey) Valid() bool {
	return k == Whitelist || k == Blacklist
}

// Entry is the normalized view of one URL list entry.
type Entry struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	AddedAt time.Time `json:"addedAt"`
	Visits  int       `json:"visits"`
}

// Items returns the normalized entries of the given list.
func Items(db *gorm.DB, userID uint64, key ListKey) ([]Entry, error) {
	if !key.Valid() {
		return nil, ErrInvalidList
	}

	settings, err := usersettings.Ensure(db, userID)
	if err != nil {
		return nil, err
	}

	raw := rawEntries(usersettings.DecodeBlob(settings.Security), key)

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		entries = append(entries, normalizeEntry(item))
	}

	return entries, nil
}

// Add inserts a URL into the given list. The URL is normalized by trimming
// whitespace and lower-casing. Adding a URL that is already present returns
// the existing entry unchanged, so the operation is idempotent.
func Add(db *gorm.DB, userID uint64, key ListKey, rawURL string) (*Entry, error) {
	if !key.Valid() {
		return nil, ErrInvalidList
	}

	settings, err := usersettings.Ensure(db, userID)
	if err != nil {
		return nil, err
	}

	security := usersettings.DecodeBlob(settings.Security)
	items := rawEntries(security, key)

	normalizedURL := strings.ToLower(strings.TrimSpace(rawURL))

	for _, item := range items {
		if entryURL(item) == normalizedURL {
			existing := normalizeEntry(item)
			return &existing, nil
		}
	}

	newItem := map[string]any{
		"id":      uuid.NewString(),
		"url":     normalizedURL,
		"addedAt": time.Now().UTC().Format(time.RFC3339),
		"visits":  float64(0),
	}

	security[string(key)] = append(items, newItem)

	if err := usersettings.UpdateSecurity(db, settings, security); err != nil {
		return nil, err
	}

	entry := normalizeEntry(newItem)

	return &entry, nil
}

// Remove deletes the entry with the given id from the list. If no entry
// matches, ErrEntryNotFound is returned and nothing is written.
func Remove(db *gorm.DB, userID uint64, key ListKey, itemID string) error {
	if !key.Valid() {
		return ErrInvalidList
	}

	settings, err := usersettings.Ensure(db, userID)
	if err != nil {
		return err
	}

	security := usersettings.DecodeBlob(settings.Security)
	items := rawEntries(security, key)

	filtered := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if entryID(item) != itemID {
			filtered = append(filtered, item)
		}
	}

	if len(filtered) == len(items) {
		return ErrEntryNotFound
	}

	security[string(key)] = filtered

	return usersettings.UpdateSecurity(db, settings, security)
}

// rawEntries extracts the object elements of the list array. Elements that
// are not JSON objects are dropped.
func rawEntries(security map[string]any, key ListKey) []map[string]any {
	list, _ := security[string(key)].([]any)

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}

	return out
}

func entryID(item map[string]any) string {
	id, _ := item["id"].(string)
	return id
}

func entryURL(item map[string]any) string {
	u, _ := item["url"].(string)
	return strings.ToLower(strings.TrimSpace(u))
}

// normalizeEntry converts a raw stored entry into the return shape. Legacy
// timestamp field names are tolerated; unparsable or missing timestamps are
// replaced with the current time without a corrective write, but logged so
// data quality issues stay visible.
func normalizeEntry(item map[string]any) Entry {
	entry := Entry{
		ID:  entryID(item),
		URL: entryURL(item),
	}

	if visits, ok := item["visits"].(float64); ok {
		entry.Visits = int(visits)
	}

	addedAtRaw := item["addedAt"]
	if addedAtRaw == nil {
		addedAtRaw = item["created_at"]
	}
	if addedAtRaw == nil {
		addedAtRaw = item["createdAt"]
	}

	if s, ok := addedAtRaw.(string); ok {
		if ts, err := parseTimestamp(s); err == nil {
			entry.AddedAt = ts
			return entry
		}
	}

	log.Warn().
		Str("id", entry.ID).
		Interface("addedAt", addedAtRaw).
		Msg("list entry has no usable timestamp, substituting now")

	entry.AddedAt = time.Now().UTC()

	return entry
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04:05.999999"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, errors.New("unsupported timestamp format")
}
