package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/crypto"
	apperrors "github.com/skydimo/membership/pkg/errors"
)

// DefaultPaymentBaseURL is the stub checkout endpoint used until a real
// payment provider integration lands.
const DefaultPaymentBaseURL = "https://pay.example.com"

const orderNoRandomDigits = 6

// OrderServiceOption customises an OrderService.
type OrderServiceOption func(*OrderService)

// WithPaymentBaseURL overrides the checkout URL prefix.
func WithPaymentBaseURL(base string) OrderServiceOption {
	return func(s *OrderService) {
		if base != "" {
			s.paymentBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithOrderClock injects the time source used for order numbers.
func WithOrderClock(clock func() time.Time) OrderServiceOption {
	return func(s *OrderService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// CreatedOrder pairs a pending order with the URL the member is sent to
// for payment.
type CreatedOrder struct {
	Order      *models.Order
	PaymentURL string
}

// OrderService creates purchase orders against active plans and lists a
// member's order history.
type OrderService struct {
	db             *gorm.DB
	paymentBaseURL string
	now            func() time.Time
}

// NewOrderService constructs an OrderService instance.
func NewOrderService(db *gorm.DB, opts ...OrderServiceOption) (*OrderService, error) {
	if db == nil {
		return nil, errors.New("order service: db is required")
	}
	s := &OrderService{
		db:             db,
		paymentBaseURL: DefaultPaymentBaseURL,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create opens a pending order for the given plan. Only active plans can be
// purchased; the amount and currency are snapshotted from the plan at order
// time so later plan edits do not rewrite history.
func (s *OrderService) Create(ctx context.Context, userID, planID uint) (*CreatedOrder, error) {
	var plan models.MembershipPlan
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", planID, true).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orders: load plan: %w", err)
	}

	orderNo, err := s.generateOrderNo()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:        orderNo,
		UserID:         userID,
		PlanID:         plan.ID,
		Amount:         plan.Price,
		Currency:       plan.Currency,
		Status:         models.OrderPending,
		PaymentChannel: models.ChannelStripe,
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("orders: create: %w", err)
	}
	order.Plan = &plan

	return &CreatedOrder{
		Order:      order,
		PaymentURL: fmt.Sprintf("%s/%s", s.paymentBaseURL, order.OrderNo),
	}, nil
}

// ListForUser returns the member's orders, newest first, with plans preloaded.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return orders, nil
}

// generateOrderNo yields a timestamped order number: a second-resolution
// prefix plus six random digits.
func (s *OrderService) generateOrderNo() (string, error) {
	suffix, err := crypto.RandomDigits(orderNoRandomDigits)
	if err != nil {
		return "", fmt.Errorf("orders: generate order number: %w", err)
	}
	return s.now().Format("20060102150405") + suffix, nil
}
