// Package usagelog stores filtering events and aggregates them into the
// time-windowed statistics view.
package usagelog

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Statistics is the aggregated usage view. The category breakdown is a fixed
// placeholder: usage logs carry no category tag yet, so attribution is not
// computed here.
type Statistics struct {
	TotalBlocked   int64            `json:"totalBlocked"`
	TodayBlocked   int64            `json:"todayBlocked"`
	WeeklyBlocked  int64            `json:"weeklyBlocked"`
	MonthlyBlocked int64            `json:"monthlyBlocked"`
	ByCategory     map[string]int64 `json:"byCategory"`
}

// Record stores one usage log row.
func Record(db *gorm.DB, entry *models.UsageLog) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(entry).Error
}

// CountTotal counts all usage logs of a user.
func CountTotal(db *gorm.DB, userID uint64) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	err := db.Model(&models.UsageLog{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}

// CountSince counts the usage logs of a user created at or after the given time.
func CountSince(db *gorm.DB, userID uint64, since time.Time) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	err := db.Model(&models.UsageLog{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error

	return count, err
}

// Aggregate computes the statistics view with windows anchored to now:
// start of today (midnight UTC), 7 days prior to now, start of the current
// calendar month, and unbounded.
func Aggregate(db *gorm.DB, userID uint64, now time.Time) (*Statistics, error) {
	now = now.UTC()
	startToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startWeek := now.AddDate(0, 0, -7)
	startMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	total, err := CountTotal(db, userID)
	if err != nil {
		return nil, err
	}

	today, err := CountSince(db, userID, startToday)
	if err != nil {
		return nil, err
	}

	weekly, err := CountSince(db, userID, startWeek)
	if err != nil {
		return nil, err
	}

	monthly, err := CountSince(db, userID, startMonth)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		TotalBlocked:   total,
		TodayBlocked:   today,
		WeeklyBlocked:  weekly,
		MonthlyBlocked: monthly,
		ByCategory: map[string]int64{
			"sensitive": 0,
			"violence":  0,
			"toxicity":  0,
			"vice":      0,
		},
	}, nil
}
