package usagelog

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

	err = db.AutoMigrate(&models.UsageLog{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedLogs(t *testing.T, db *gorm.DB, userID uint64, at time.Time, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		require.NoError(t, Record(db, &models.UsageLog{
			UserID:    userID,
			Endpoint:  "/filter/check",
			Method:    "POST",
			CreatedAt: at,
		}))
	}
}

func TestNilDB(t *testing.T) {
	require.ErrorIs(t, Record(nil, &models.UsageLog{}), ErrDBNil)

	_, err := CountTotal(nil, 1)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = CountSince(nil, 1, time.Now())
	require.ErrorIs(t, err, ErrDBNil)
}

func TestAggregateWindows(t *testing.T) {
	db := setupTestDB(t)

	// anchor mid-month so all three windows are distinct
	now := time.Date(2025, 3, 20, 15, 30, 0, 0, time.UTC)

	seedLogs(t, db, 1, now.Add(-time.Hour), 5)         // today
	seedLogs(t, db, 1, now.AddDate(0, 0, -3), 3)       // this week, not today
	seedLogs(t, db, 1, now.AddDate(0, 0, -10), 2)      // this month, not this week
	seedLogs(t, db, 2, now.Add(-2*time.Hour), 4)       // another user, never counted

	stats, err := Aggregate(db, 1, now)
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TodayBlocked)
	assert.Equal(t, int64(8), stats.WeeklyBlocked)
	assert.Equal(t, int64(10), stats.MonthlyBlocked)
	assert.Equal(t, int64(10), stats.TotalBlocked)

	assert.Equal(t, map[string]int64{
		"sensitive": 0,
		"violence":  0,
		"toxicity":  0,
		"vice":      0,
	}, stats.ByCategory)
}

func TestAggregateTotalOutlivesMonth(t *testing.T) {
	db := setupTestDB(t)

	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	seedLogs(t, db, 1, now.AddDate(0, -2, 0), 7) // before this month
	seedLogs(t, db, 1, now.Add(-time.Minute), 1)

	stats, err := Aggregate(db, 1, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TodayBlocked)
	assert.Equal(t, int64(1), stats.WeeklyBlocked)
	assert.Equal(t, int64(1), stats.MonthlyBlocked)
	assert.Equal(t, int64(8), stats.TotalBlocked)
}

func TestAggregateEmpty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := Aggregate(db, 1, time.Now().UTC())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalBlocked)
	assert.Zero(t, stats.TodayBlocked)
	assert.Zero(t, stats.WeeklyBlocked)
	assert.Zero(t, stats.MonthlyBlocked)
}
