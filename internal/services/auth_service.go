package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/crypto"
	apperrors "github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/logger"
	"github.com/skydimo/membership/pkg/mail"
)

// RegisterInput describes the fields accepted when signing up.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// AuthService owns the credential lifecycle: sign-up, email verification,
// password checks and the one-time-code reset flows for members and admins.
type AuthService struct {
	db      *gorm.DB
	codes   *auth.CodeIssuer
	mailer  mail.Mailer
	appName string
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(db *gorm.DB, codes *auth.CodeIssuer, mailer mail.Mailer, appName string) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if codes == nil {
		return nil, errors.New("auth service: code issuer is required")
	}
	if appName == "" {
		appName = "Membership"
	}
	return &AuthService{
		db:      db,
		codes:   codes,
		mailer:  mailer,
		appName: appName,
	}, nil
}

// Register creates an unverified member account and dispatches a verification
// code to the supplied address. The caller decides whether the new account may
// sign in before the address is confirmed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}

	if err := s.issueAndSendCode(ctx, user, user.Email, "Verify your email address"); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail consumes the outstanding code and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.VerificationCode == nil {
		return nil, apperrors.ErrVerificationNotFound
	}
	if user.IsEmailVerified {
		return nil, apperrors.ErrAlreadyVerified
	}
	if err := s.checkCode(user, code); err != nil {
		return nil, err
	}

	now := s.db.NowFunc()
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"is_email_verified":       true,
		"email_verified_at":       now,
		"verification_code":       nil,
		"verification_expires_at": nil,
	}).Error; err != nil {
		return nil, fmt.Errorf("auth: mark verified: %w", err)
	}
	user.IsEmailVerified = true
	user.EmailVerifiedAt = &now
	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	return user, nil
}

// Authenticate validates an email/password pair. All failure modes collapse to
// the same credentials error so callers cannot probe which addresses exist.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !crypto.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset issues a reset code for the account, if one exists.
// Unknown addresses are silently ignored so the endpoint never reveals
// whether an email is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Debug("password reset requested for unknown email")
		return nil
	}
	return s.issueAndSendCode(ctx, user, user.Email, "Reset your password")
}

// ResetPassword consumes the outstanding code and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.VerificationCode == nil {
		return apperrors.ErrVerificationNotFound
	}
	if err := s.checkCode(user, code); err != nil {
		return err
	}
	return s.replacePassword(ctx, user, newPassword)
}

// RequestAdminPasswordReset is the console variant of RequestPasswordReset.
// Unlike the member flow it reports whether the target is an admin account.
func (s *AuthService) RequestAdminPasswordReset(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsAdmin() {
		return apperrors.ErrNotAdminUser
	}
	return s.issueAndSendCode(ctx, user, user.Email, "Reset your admin password")
}

// ResetAdminPassword consumes the code for an admin account and returns the
// user so the caller can establish a session immediately.
func (s *AuthService) ResetAdminPassword(ctx context.Context, email, code, newPassword string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsAdmin() || user.VerificationCode == nil {
		return nil, apperrors.ErrVerificationNotFound
	}
	if err := s.checkCode(user, code); err != nil {
		return nil, err
	}
	if err := s.replacePassword(ctx, user, newPassword); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}
	return &user, nil
}

func (s *AuthService) checkCode(user *models.User, supplied string) error {
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

func (s *AuthService) replacePassword(ctx context.Context, user *models.User, newPassword string) error {
	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"password_hash":           hash,
		"verification_code":       nil,
		"verification_expires_at": nil,
	}).Error; err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}
	user.PasswordHash = hash
	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	return nil
}

// issueAndSendCode rotates the user's verification slot and emails the code to
// recipient. When SMTP is disabled the code is logged instead so local
// environments keep working without a relay.
func (s *AuthService) issueAndSendCode(ctx context.Context, user *models.User, recipient, subject string) error {
	code, err := s.codes.Issue(ctx, user)
	if err != nil {
		return err
	}

	if s.mailer == nil {
		logger.Info("verification code issued without mailer",
			zap.Uint("user_id", user.ID),
			zap.String("code", code))
		return nil
	}

	msg := mail.VerificationMessage(s.appName, recipient, code)
	msg.Subject = fmt.Sprintf("[%s] %s", s.appName, subject)
	if err := s.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			logger.Info("smtp disabled, verification code not delivered",
				zap.Uint("user_id", user.ID),
				zap.String("code", code))
			return nil
		}
		return fmt.Errorf("auth: send verification email: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
