package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Subscription{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedUser(t *testing.T, db *gorm.DB, u models.User) models.User {
	t.Helper()

	require.NoError(t, db.Create(&u).Error)

	return u
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	_, err := Get(nil, 1)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Get(db, 42)
	require.ErrorIs(t, err, ErrUserNotFound)

	seeded := seedUser(t, db, models.User{Email: "jane@example.com"})

	u, err := Get(db, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
}

func TestGetProfileFullNameFallback(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, models.User{Email: "jane.doe@example.com", Credits: 12.5})

	profile, err := GetProfile(db, seeded.ID)
	require.NoError(t, err)

	assert.Equal(t, seeded.ID, profile.ID)
	assert.Equal(t, "jane.doe", profile.FullName, "full name falls back to email local part")
	assert.Equal(t, "Free", profile.Plan)
	assert.Equal(t, models.PlanFree, profile.PlanType)
	assert.InDelta(t, 12.5, profile.Credits, 0.001)
	assert.False(t, profile.IsAdmin)
}

func TestGetProfileWithActiveSubscription(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, models.User{Email: "pro@example.com", Name: "Pro User"})

	expires := time.Now().UTC().Add(30 * 24 * time.Hour)
	require.NoError(t, db.Create(&models.Subscription{
		UserID:    seeded.ID,
		Plan:      models.PlanPro,
		Status:    models.SubscriptionActive,
		ExpiresAt: &expires,
	}).Error)

	profile, err := GetProfile(db, seeded.ID)
	require.NoError(t, err)

	assert.Equal(t, "Pro User", profile.FullName)
	assert.Equal(t, "Pro", profile.Plan)
	assert.Equal(t, models.PlanPro, profile.PlanType)
}

func TestGetProfileNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetProfile(db, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	db := setupTestDB(t)

	owner := seedUser(t, db, models.User{Email: "owner@example.com"})
	victim := seedUser(t, db, models.User{Email: "victim@example.com"})

	email := owner.Email
	_, err := UpdateProfile(db, victim.ID, ProfileUpdate{Email: &email})
	require.ErrorIs(t, err, ErrEmailTaken)

	var stored models.User
	require.NoError(t, db.First(&stored, victim.ID).Error)
	assert.Equal(t, "victim@example.com", stored.Email, "conflict must leave the email unchanged")
}

func TestUpdateProfileSameEmailIsNoConflict(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, models.User{Email: "same@example.com"})

	email := seeded.Email
	profile, err := UpdateProfile(db, seeded.ID, ProfileUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "same@example.com", profile.Email)
}

func TestUpdateProfileAvatarOnly(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, models.User{Email: "a@example.com", Name: "Alice"})

	avatar := "https://cdn.example.com/a.png"
	profile, err := UpdateProfile(db, seeded.ID, ProfileUpdate{Avatar: &avatar})
	require.NoError(t, err)

	assert.Equal(t, avatar, profile.Avatar)
	assert.Equal(t, "Alice", profile.FullName)
	assert.Equal(t, "a@example.com", profile.Email)

	var stored models.User
	require.NoError(t, db.First(&stored, seeded.ID).Error)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "a@example.com", stored.Email)
}

func TestUpdateProfilePrefersFullNameOverName(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, models.User{Email: "n@example.com"})

	fullName := "Preferred"
	legacy := "Legacy"

	profile, err := UpdateProfile(db, seeded.ID, ProfileUpdate{FullName: &fullName, Name: &legacy})
	require.NoError(t, err)
	assert.Equal(t, "Preferred", profile.FullName)

	profile, err = UpdateProfile(db, seeded.ID, ProfileUpdate{Name: &legacy})
	require.NoError(t, err)
	assert.Equal(t, "Legacy", profile.FullName)
}

func TestUpdateProfileNotFound(t *testing.T) {
	db := setupTestDB(t)

	name := "ghost"
	_, err := UpdateProfile(db, 404, ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, ErrUserNotFound)
}
