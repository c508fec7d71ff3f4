package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/database/testutil"
	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/crypto"
	"github.com/skydimo/membership/pkg/mail"
)

// captureMailer records outbound messages instead of delivering them.
type captureMailer struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *captureMailer) last(t *testing.T) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.messages)
	return m.messages[len(m.messages)-1]
}

func mustTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t)
}

func newAuthFixture(t *testing.T) (*gorm.DB, *AuthService, *auth.CodeIssuer, *captureMailer) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)
	codes, err := auth.NewCodeIssuer(db)
	require.NoError(t, err)

	mailer := &captureMailer{}
	svc, err := NewAuthService(db, codes, mailer, "Membership")
	require.NoError(t, err)

	return db, svc, codes, mailer
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Name:         "Seeded User",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPlan(t *testing.T, db *gorm.DB, name string, price int64, active bool) *models.MembershipPlan {
	t.Helper()

	plan := &models.MembershipPlan{
		Name:         name,
		Price:        price,
		Currency:     "USD",
		BillingCycle: models.BillingMonthly,
		IsActive:     active,
	}
	require.NoError(t, db.Create(plan).Error)
	// The model declares `gorm:"default:true"` on IsActive, so Create skips the
	// zero value false; force the column so inactive seeds actually persist.
	require.NoError(t, db.Model(plan).UpdateColumn("is_active", active).Error)
	return plan
}
