package models

import "time"

// OrderStatus tracks an order through its payment lifecycle.
type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderPaid     OrderStatus = "PAID"
	OrderFailed   OrderStatus = "FAILED"
	OrderCanceled OrderStatus = "CANCELED"
)

// PaymentChannel identifies the upstream payment provider.
type PaymentChannel string

const (
	// ChannelStripe is the default channel; actual payment integration is
	// stubbed and only a payment URL is produced.
	ChannelStripe PaymentChannel = "STRIPE"
)

// Order records a purchase attempt for a membership plan. Amount and currency
// are snapshotted from the plan at creation time.
type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderNo string `gorm:"uniqueIndex;not null;size:32" json:"orderNo"`

	UserID uint            `gorm:"not null;index" json:"userId"`
	PlanID uint            `gorm:"not null;index" json:"planId"`
	Plan   *MembershipPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	Amount         int64          `gorm:"not null" json:"amount"`
	Currency       string         `gorm:"not null;size:10" json:"currency"`
	Status         OrderStatus    `gorm:"not null;default:PENDING;size:10;index" json:"status"`
	PaymentChannel PaymentChannel `gorm:"not null;size:16" json:"paymentChannel"`
	PaidAt         *time.Time     `json:"paidAt"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
