package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/database/testutil"
	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/crypto"
	apperrors "github.com/skydimo/membership/pkg/errors"
)

func newAccountFixture(t *testing.T) (*gorm.DB, *AccountService, *captureMailer) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)
	codes, err := auth.NewCodeIssuer(db)
	require.NoError(t, err)

	mailer := &captureMailer{}
	svc, err := NewAccountService(db, codes, mailer, "Membership")
	require.NoError(t, err)

	return db, svc, mailer
}

func TestAccountServiceGet(t *testing.T) {
	db, svc, _ := newAccountFixture(t)
	ctx := context.Background()

	user := seedUser(t, db, "get-account@example.com", "password123", models.RoleUser)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)

	_, err = svc.Get(ctx, 99999)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAccountServiceUpdateProfile(t *testing.T) {
	db, svc, _ := newAccountFixture(t)
	ctx := context.Background()

	user := seedUser(t, db, "profile@example.com", "password123", models.RoleUser)

	name := "  Renamed Member "
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed Member", updated.Name)

	// Empty patch is a no-op.
	same, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{})
	require.NoError(t, err)
	require.Equal(t, "Renamed Member", same.Name)
}

func TestAccountServiceChangePassword(t *testing.T) {
	db, svc, _ := newAccountFixture(t)
	ctx := context.Background()

	user := seedUser(t, db, "changepw@example.com", "oldpassword", models.RoleUser)

	err := svc.ChangePassword(ctx, user.ID, "not-the-password", "newpassword")
	require.ErrorIs(t, err, apperrors.ErrInvalidCurrentPassword)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "oldpassword", "newpassword"))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.True(t, crypto.VerifyPassword(stored.PasswordHash, "newpassword"))
}

func TestAccountServiceEmailChangeFlow(t *testing.T) {
	db, svc, mailer := newAccountFixture(t)
	ctx := context.Background()

	user := seedUser(t, db, "old-address@example.com", "password123", models.RoleUser)
	seedUser(t, db, "occupied@example.com", "password123", models.RoleUser)

	// The current password gates the request.
	err := svc.RequestEmailChange(ctx, user.ID, "new-address@example.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCurrentPassword)

	// Addresses held by someone else are rejected up front.
	err = svc.RequestEmailChange(ctx, user.ID, "occupied@example.com", "password123")
	require.ErrorIs(t, err, apperrors.ErrEmailAlreadyInUse)

	require.NoError(t, svc.RequestEmailChange(ctx, user.ID, "New-Address@example.com", "password123"))

	// The code goes to the new address; the account email is unchanged.
	msg := mailer.last(t)
	require.Equal(t, []string{"new-address@example.com"}, msg.To)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, "old-address@example.com", stored.Email)
	require.NotNil(t, stored.VerificationCode)
	code := *stored.VerificationCode

	_, err = svc.ConfirmEmailChange(ctx, user.ID, "new-address@example.com", "000000")
	require.ErrorIs(t, err, apperrors.ErrVerificationCodeInvalid)

	updated, err := svc.ConfirmEmailChange(ctx, user.ID, "new-address@example.com", code)
	require.NoError(t, err)
	require.Equal(t, "new-address@example.com", updated.Email)
	require.True(t, updated.IsEmailVerified)
	require.Nil(t, updated.VerificationCode)

	// The code was consumed.
	_, err = svc.ConfirmEmailChange(ctx, user.ID, "third@example.com", code)
	require.ErrorIs(t, err, apperrors.ErrVerificationNotFound)
}

func TestAccountServiceConfirmEmailChangeConflict(t *testing.T) {
	db, svc, _ := newAccountFixture(t)
	ctx := context.Background()

	user := seedUser(t, db, "swapper@example.com", "password123", models.RoleUser)
	require.NoError(t, svc.RequestEmailChange(ctx, user.ID, "target@example.com", "password123"))

	// Another account claims the address between request and confirm.
	seedUser(t, db, "target@example.com", "password123", models.RoleUser)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	_, err := svc.ConfirmEmailChange(ctx, user.ID, "target@example.com", *stored.VerificationCode)
	require.ErrorIs(t, err, apperrors.ErrEmailAlreadyInUse)
}
