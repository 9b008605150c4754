package models

import (
	"time"
)

// PlanType enumerates the subscription plan types.
type PlanType string

const (
	// PlanFree is the default plan for users without an active subscription.
	PlanFree PlanType = "free"
	// PlanPlus is the mid tier plan.
	PlanPlus PlanType = "plus"
	// PlanPro is the top tier plan.
	PlanPro PlanType = "pro"
)

// SubscriptionStatus enumerates subscription lifecycle states.
type SubscriptionStatus string

const (
	// SubscriptionActive marks the subscription currently granting the plan.
	SubscriptionActive SubscriptionStatus = "active"
	// SubscriptionCancelled marks a cancelled subscription.
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	// SubscriptionExpired marks a lapsed subscription.
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Subscription represents a plan purchase. Billing and renewal are driven by
// the payment collaborator; this backend only resolves the active record.
type Subscription struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"index;not null"`
	// Plan is the purchased plan type.
	Plan PlanType `gorm:"type:varchar(20);not null;default:'free'"`
	// Status is the subscription lifecycle state.
	Status SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'"`
	// ExpiresAt is the end of the paid period, zero for open ended plans.
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
