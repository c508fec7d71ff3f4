package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/models"
	apperrors "github.com/skydimo/membership/pkg/errors"
)

// CreatePlanInput describes the fields accepted when creating a plan.
type CreatePlanInput struct {
	Name         string
	Price        int64
	Currency     string
	BillingCycle models.BillingCycle
	Description  *string
	Features     []string
	IsActive     *bool
}

// UpdatePlanInput enumerates mutable plan attributes.
type UpdatePlanInput struct {
	Name         *string
	Price        *int64
	Currency     *string
	BillingCycle *models.BillingCycle
	Description  *string
	Features     []string
	IsActive     *bool
}

// PlanService manages the membership plan catalog.
type PlanService struct {
	db *gorm.DB
}

// NewPlanService constructs a PlanService instance.
func NewPlanService(db *gorm.DB) (*PlanService, error) {
	if db == nil {
		return nil, errors.New("plan service: db is required")
	}
	return &PlanService{db: db}, nil
}

// ListActive returns plans visible to members, cheapest first.
func (s *PlanService) ListActive(ctx context.Context) ([]models.MembershipPlan, error) {
	var plans []models.MembershipPlan
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("plans: list active: %w", err)
	}
	return plans, nil
}

// ListAll returns every plan, including inactive ones, for the admin console.
func (s *PlanService) ListAll(ctx context.Context) ([]models.MembershipPlan, error) {
	var plans []models.MembershipPlan
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("plans: list: %w", err)
	}
	return plans, nil
}

// Get loads a plan by primary key.
func (s *PlanService) Get(ctx context.Context, planID uint) (*models.MembershipPlan, error) {
	var plan models.MembershipPlan
	err := s.db.WithContext(ctx).First(&plan, planID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("plans: load: %w", err)
	}
	return &plan, nil
}

// Create adds a plan to the catalog.
func (s *PlanService) Create(ctx context.Context, input CreatePlanInput) (*models.MembershipPlan, error) {
	features, err := encodeFeatures(input.Features)
	if err != nil {
		return nil, err
	}

	plan := &models.MembershipPlan{
		Name:         strings.TrimSpace(input.Name),
		Price:        input.Price,
		Currency:     strings.ToUpper(strings.TrimSpace(input.Currency)),
		BillingCycle: input.BillingCycle,
		Description:  input.Description,
		Features:     features,
		IsActive:     true,
	}
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, fmt.Errorf("plans: create: %w", err)
	}
	return plan, nil
}

// Update applies the provided fields and returns the fresh record.
func (s *PlanService) Update(ctx context.Context, planID uint, input UpdatePlanInput) (*models.MembershipPlan, error) {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Currency != nil {
		updates["currency"] = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.BillingCycle != nil {
		updates["billing_cycle"] = *input.BillingCycle
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Features != nil {
		features, err := encodeFeatures(input.Features)
		if err != nil {
			return nil, err
		}
		updates["features"] = features
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return plan, nil
	}

	if err := s.db.WithContext(ctx).Model(plan).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("plans: update: %w", err)
	}
	return s.Get(ctx, planID)
}

// Delete removes a plan. Plans referenced by any order or subscription are
// kept; deactivate them instead.
func (s *PlanService) Delete(ctx context.Context, planID uint) error {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return err
	}

	var orders int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("plan_id = ?", plan.ID).Count(&orders).Error; err != nil {
		return fmt.Errorf("plans: count orders: %w", err)
	}
	var subscriptions int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("plan_id = ?", plan.ID).Count(&subscriptions).Error; err != nil {
		return fmt.Errorf("plans: count subscriptions: %w", err)
	}
	if orders > 0 || subscriptions > 0 {
		return apperrors.ErrHasData
	}

	if err := s.db.WithContext(ctx).Delete(plan).Error; err != nil {
		return fmt.Errorf("plans: delete: %w", err)
	}
	return nil
}

func encodeFeatures(features []string) (datatypes.JSON, error) {
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("plans: encode features: %w", err)
	}
	return datatypes.JSON(raw), nil
}
