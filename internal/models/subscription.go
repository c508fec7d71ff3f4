package models

import "time"

// SubscriptionStatus tracks whether a subscription currently grants access.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionExpired  SubscriptionStatus = "EXPIRED"
	SubscriptionCanceled SubscriptionStatus = "CANCELED"
)

// Subscription is a user's entitlement to a plan over a time window.
type Subscription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint            `gorm:"not null;index" json:"userId"`
	PlanID uint            `gorm:"not null;index" json:"planId"`
	Plan   *MembershipPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	Status  SubscriptionStatus `gorm:"not null;size:10;index" json:"status"`
	StartAt time.Time          `gorm:"index" json:"startAt"`
	EndAt   *time.Time         `json:"endAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
