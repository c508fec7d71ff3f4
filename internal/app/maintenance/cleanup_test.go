package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/database/testutil"
	"github.com/skydimo/membership/internal/models"
)

func seedCleanupUser(t *testing.T, db *gorm.DB, email, code string, expiresAt time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Email:                 email,
		Name:                  "Cleanup",
		PasswordHash:          "irrelevant",
		Role:                  models.RoleUser,
		VerificationCode:      &code,
		VerificationExpiresAt: &expiresAt,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCleanupVerificationCodes(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	expired := seedCleanupUser(t, db, "cleanup-expired@example.com", "111111", now.Add(-time.Minute))
	fresh := seedCleanupUser(t, db, "cleanup-fresh@example.com", "222222", now.Add(time.Minute))

	removed, err := CleanupVerificationCodes(context.Background(), db, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	var stored models.User
	require.NoError(t, db.First(&stored, expired.ID).Error)
	require.Nil(t, stored.VerificationCode)

	stored = models.User{}
	require.NoError(t, db.First(&stored, fresh.ID).Error)
	require.NotNil(t, stored.VerificationCode)
}

func TestCancelStaleOrders(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	user := seedCleanupUser(t, db, "cleanup-orders@example.com", "333333", time.Now().Add(time.Hour))
	plan := &models.MembershipPlan{
		Name:         "cleanup-plan",
		Price:        1000,
		Currency:     "USD",
		BillingCycle: models.BillingMonthly,
		IsActive:     true,
	}
	require.NoError(t, db.Create(plan).Error)

	stale := &models.Order{
		OrderNo:        "20240101000000000001",
		UserID:         user.ID,
		PlanID:         plan.ID,
		Amount:         1000,
		Currency:       "USD",
		Status:         models.OrderPending,
		PaymentChannel: models.ChannelStripe,
	}
	require.NoError(t, db.Create(stale).Error)
	// Backdate past the cutoff.
	require.NoError(t, db.Model(stale).UpdateColumn("created_at", time.Now().Add(-48*time.Hour)).Error)

	paid := &models.Order{
		OrderNo:        "20240101000000000002",
		UserID:         user.ID,
		PlanID:         plan.ID,
		Amount:         1000,
		Currency:       "USD",
		Status:         models.OrderPaid,
		PaymentChannel: models.ChannelStripe,
	}
	require.NoError(t, db.Create(paid).Error)
	require.NoError(t, db.Model(paid).UpdateColumn("created_at", time.Now().Add(-48*time.Hour)).Error)

	canceled, err := CancelStaleOrders(context.Background(), db, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), canceled)

	var stored models.Order
	require.NoError(t, db.First(&stored, stale.ID).Error)
	require.Equal(t, models.OrderCanceled, stored.Status)

	stored = models.Order{}
	require.NoError(t, db.First(&stored, paid.ID).Error)
	require.Equal(t, models.OrderPaid, stored.Status)
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	seedCleanupUser(t, db, "cleanup-runonce@example.com", "444444", now.Add(-time.Minute))

	cleaner := NewCleaner(db, WithNow(func() time.Time { return now }))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var stored models.User
	require.NoError(t, db.Where("email = ?", "cleanup-runonce@example.com").First(&stored).Error)
	require.Nil(t, stored.VerificationCode)
}
