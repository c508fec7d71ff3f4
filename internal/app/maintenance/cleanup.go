package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/logger"
)

const (
	defaultSchedule      = "@hourly"
	defaultPendingMaxAge = 24 * time.Hour
)

// Cleaner coordinates background maintenance: purging expired verification
// codes and abandoning stale pending orders.
type Cleaner struct {
	db            *gorm.DB
	cron          *cron.Cron
	now           func() time.Time
	log           *zap.Logger
	schedule      string
	pendingMaxAge time.Duration
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithSchedule overrides the cron expression for the cleanup job.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// WithPendingMaxAge adjusts how long pending orders survive before being canceled.
func WithPendingMaxAge(maxAge time.Duration) Option {
	return func(cleaner *Cleaner) {
		if maxAge > 0 {
			cleaner.pendingMaxAge = maxAge
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:            db,
		now:           time.Now,
		schedule:      defaultSchedule,
		pendingMaxAge: defaultPendingMaxAge,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.db == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("maintenance run failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all cleanup routines sequentially. Primarily used in tests
// and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	now := c.now()
	var errs error

	if _, err := CleanupVerificationCodes(ctx, c.db, now); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := CancelStaleOrders(ctx, c.db, now.Add(-c.pendingMaxAge)); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// CleanupVerificationCodes clears expired one-time codes from user records.
func CleanupVerificationCodes(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("cleanup codes: db is required")
	}

	result := db.WithContext(ctx).Model(&models.User{}).
		Where("verification_expires_at IS NOT NULL AND verification_expires_at < ?", now).
		Updates(map[string]any{
			"verification_code":       nil,
			"verification_expires_at": nil,
		})
	return result.RowsAffected, result.Error
}

// CancelStaleOrders marks pending orders older than cutoff as canceled.
func CancelStaleOrders(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("cancel orders: db is required")
	}

	result := db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderPending, cutoff).
		Update("status", models.OrderCanceled)
	return result.RowsAffected, result.Error
}
