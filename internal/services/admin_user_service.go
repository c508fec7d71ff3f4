package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/models"
	apperrors "github.com/skydimo/membership/pkg/errors"
)

// AdminUpdateUserInput enumerates the attributes an administrator may edit.
type AdminUpdateUserInput struct {
	Name *string
	Role *models.Role
}

// UserOverview is a member row in the admin console, enriched with activity
// counts and the most recent active subscription.
type UserOverview struct {
	models.User
	OrdersCount        int64                `json:"ordersCount"`
	SubscriptionsCount int64                `json:"subscriptionsCount"`
	ActiveSubscription *models.Subscription `json:"activeSubscription,omitempty"`
}

// AdminUserService backs the admin console's user management screens.
type AdminUserService struct {
	db *gorm.DB
}

// NewAdminUserService constructs an AdminUserService instance.
func NewAdminUserService(db *gorm.DB) (*AdminUserService, error) {
	if db == nil {
		return nil, errors.New("admin user service: db is required")
	}
	return &AdminUserService{db: db}, nil
}

// ListUsers returns every member account with order and subscription counts
// plus the latest active subscription, if any.
func (s *AdminUserService) ListUsers(ctx context.Context) ([]UserOverview, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleUser).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("admin users: list: %w", err)
	}

	orderCounts, err := s.countByUser(ctx, &models.Order{})
	if err != nil {
		return nil, err
	}
	subscriptionCounts, err := s.countByUser(ctx, &models.Subscription{})
	if err != nil {
		return nil, err
	}

	overviews := make([]UserOverview, 0, len(users))
	for i := range users {
		user := users[i]
		overview := UserOverview{
			User:               user,
			OrdersCount:        orderCounts[user.ID],
			SubscriptionsCount: subscriptionCounts[user.ID],
		}

		var active models.Subscription
		err := s.db.WithContext(ctx).
			Preload("Plan").
			Where("user_id = ? AND status = ?", user.ID, models.SubscriptionActive).
			Order("start_at DESC").
			First(&active).Error
		switch {
		case err == nil:
			overview.ActiveSubscription = &active
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return nil, fmt.Errorf("admin users: load active subscription: %w", err)
		}

		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// ListAdmins returns every administrator account.
func (s *AdminUserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Order("id ASC").
		Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("admin users: list admins: %w", err)
	}
	return admins, nil
}

// Get loads a user by primary key.
func (s *AdminUserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("admin users: load: %w", err)
	}
	return &user, nil
}

// Update applies the provided fields and returns the fresh record.
func (s *AdminUserService) Update(ctx context.Context, userID uint, input AdminUpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewInvalidInput("Invalid role")
		}
		updates["role"] = *input.Role
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("admin users: update: %w", err)
	}
	return s.Get(ctx, userID)
}

// Delete removes a user account. Administrators cannot delete themselves, and
// accounts with order or subscription history are kept for bookkeeping.
func (s *AdminUserService) Delete(ctx context.Context, userID, actorID uint) error {
	if userID == actorID {
		return apperrors.ErrForbidden
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	var orders int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", user.ID).Count(&orders).Error; err != nil {
		return fmt.Errorf("admin users: count orders: %w", err)
	}
	var subscriptions int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ?", user.ID).Count(&subscriptions).Error; err != nil {
		return fmt.Errorf("admin users: count subscriptions: %w", err)
	}
	if orders > 0 || subscriptions > 0 {
		return apperrors.ErrHasData
	}

	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return fmt.Errorf("admin users: delete: %w", err)
	}
	return nil
}

func (s *AdminUserService) countByUser(ctx context.Context, model any) (map[uint]int64, error) {
	type row struct {
		UserID uint
		N      int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(model).
		Select("user_id, COUNT(*) AS n").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("admin users: count rows: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.N
	}
	return counts, nil
}
