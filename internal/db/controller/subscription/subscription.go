// Package subscription resolves the plan record currently granting a user's
// plan type. Purchases and renewals are owned by the payment collaborator.
package subscription

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNoActiveSubscription is returned when the user has no active plan.
	ErrNoActiveSubscription = errors.New("no active subscription")
)

// planLabels maps plan types to their human readable labels.
var planLabels = map[models.PlanType]string{
	models.PlanFree: "Free",
	models.PlanPlus: "Plus",
	models.PlanPro:  "Pro",
}

// PlanLabel returns the display label for a plan type, defaulting to "Free"
// for unknown or missing plan types.
func PlanLabel(plan models.PlanType) string {
	if label, ok := planLabels[plan]; ok {
		return label
	}

	return "Free"
}

// Active returns the newest active, unexpired subscription for a user.
func Active(db *gorm.DB, userID uint64) (*models.Subscription, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var sub models.Subscription

	result := db.
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Order("created_at DESC").
		First(&sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}

		return nil, result.Error
	}

	return &sub, nil
}
