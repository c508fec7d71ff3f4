package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/models"
)

// SubscriptionService reads membership periods granted by paid orders.
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService constructs a SubscriptionService instance.
func NewSubscriptionService(db *gorm.DB) (*SubscriptionService, error) {
	if db == nil {
		return nil, errors.New("subscription service: db is required")
	}
	return &SubscriptionService{db: db}, nil
}

// ListForUser returns the member's subscriptions, newest first, with plans
// preloaded.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID uint) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("start_at DESC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("subscriptions: list: %w", err)
	}
	return subscriptions, nil
}
