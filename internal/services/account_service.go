package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/crypto"
	apperrors "github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/mail"
)

// UpdateProfileInput enumerates the member-editable profile attributes.
type UpdateProfileInput struct {
	Name *string
}

// AccountService serves the signed-in member's own profile: reads, edits,
// password changes and the two-step email change flow.
type AccountService struct {
	db      *gorm.DB
	codes   *auth.CodeIssuer
	mailer  mail.Mailer
	appName string
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(db *gorm.DB, codes *auth.CodeIssuer, mailer mail.Mailer, appName string) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	if codes == nil {
		return nil, errors.New("account service: code issuer is required")
	}
	if appName == "" {
		appName = "Membership"
	}
	return &AccountService{
		db:      db,
		codes:   codes,
		mailer:  mailer,
		appName: appName,
	}, nil
}

// Get loads a user by primary key.
func (s *AccountService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account: load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the provided profile fields and returns the fresh record.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("account: update profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// ChangePassword swaps the password after re-checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.VerifyPassword(user.PasswordHash, currentPassword) {
		return apperrors.ErrInvalidCurrentPassword
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account: hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("account: update password: %w", err)
	}
	return nil
}

// RequestEmailChange re-authenticates the member, checks the new address is
// free, and mails a confirmation code to the new address. The account keeps
// its current email until the code is confirmed.
func (s *AccountService) RequestEmailChange(ctx context.Context, userID uint, newEmail, currentPassword string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !crypto.VerifyPassword(user.PasswordHash, currentPassword) {
		return apperrors.ErrInvalidCurrentPassword
	}

	newEmail = normalizeEmail(newEmail)
	if err := s.ensureEmailFree(ctx, newEmail, userID); err != nil {
		return err
	}

	code, err := s.codes.Issue(ctx, user)
	if err != nil {
		return err
	}

	if s.mailer != nil {
		msg := mail.VerificationMessage(s.appName, newEmail, code)
		msg.Subject = fmt.Sprintf("[%s] Confirm your new email address", s.appName)
		if err := s.mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
			return fmt.Errorf("account: send confirmation email: %w", err)
		}
	}
	return nil
}

// ConfirmEmailChange consumes the outstanding code and swaps the account email.
// The new address is considered verified at that point.
func (s *AccountService) ConfirmEmailChange(ctx context.Context, userID uint, newEmail, code string) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.VerificationCode == nil {
		return nil, apperrors.ErrVerificationNotFound
	}
	if err := s.checkCode(user, code); err != nil {
		return nil, err
	}

	newEmail = normalizeEmail(newEmail)
	if err := s.ensureEmailFree(ctx, newEmail, userID); err != nil {
		return nil, err
	}

	now := s.db.NowFunc()
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"email":                   newEmail,
		"is_email_verified":       true,
		"email_verified_at":       now,
		"verification_code":       nil,
		"verification_expires_at": nil,
	}).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("account: update email: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string, userID uint) error {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ? AND id <> ?", email, userID).First(&existing).Error
	if err == nil {
		return apperrors.ErrEmailAlreadyInUse
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("account: lookup email: %w", err)
	}
	return nil
}

func (s *AccountService) checkCode(user *models.User, supplied string) error {
	switch err := s.codes.Check(user, supplied); {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrCodeNotFound):
		return apperrors.ErrVerificationNotFound
	case errors.Is(err, auth.ErrCodeExpired):
		return apperrors.ErrVerificationExpired
	case errors.Is(err, auth.ErrCodeInvalid):
		return apperrors.ErrVerificationCodeInvalid
	default:
		return err
	}
}
