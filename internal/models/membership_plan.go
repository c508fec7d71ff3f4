package models

import (
	"time"

	"gorm.io/datatypes"
)

// BillingCycle is the recurrence of a membership plan.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "MONTHLY"
	BillingYearly  BillingCycle = "YEARLY"
)

// Valid reports whether the billing cycle is a known value.
func (b BillingCycle) Valid() bool {
	return b == BillingMonthly || b == BillingYearly
}

// MembershipPlan describes a purchasable subscription tier. Price is stored in
// minor currency units (cents).
type MembershipPlan struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:100" json:"name"`
	Price        int64          `gorm:"not null" json:"price"`
	Currency     string         `gorm:"not null;size:10" json:"currency"`
	BillingCycle BillingCycle   `gorm:"not null;size:8" json:"billingCycle"`
	Description  *string        `gorm:"size:500" json:"description"`
	Features     datatypes.JSON `json:"features"`
	IsActive     bool           `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
