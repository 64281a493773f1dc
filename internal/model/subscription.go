package model

import (
	"time"
)

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanPremium SubscriptionPlan = "premium"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// swagger:model Subscription
type Subscription struct {
	BaseModel
	UserID    uint               `gorm:"index;not null" json:"userId"`
	Plan      SubscriptionPlan   `gorm:"size:20;default:'free'" json:"plan"`
	Status    SubscriptionStatus `gorm:"size:20;default:'active'" json:"status"`
	StartedAt time.Time          `json:"startedAt"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActivePremium reports whether the subscription currently grants access
// to premium lesson content.
func (s *Subscription) IsActivePremium(now time.Time) bool {
	if s.Plan != PlanPremium || s.Status != SubscriptionActive {
		return false
	}
	if s.ExpiresAt != nil && s.ExpiresAt.Before(now) {
		return false
	}
	return true
}
