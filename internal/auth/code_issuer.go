package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/crypto"
)

const (
	// CodeLength is the number of decimal digits in a verification code.
	CodeLength = 6
	// DefaultCodeTTL is the validity window for a freshly issued code.
	DefaultCodeTTL = 10 * time.Minute
)

var (
	// ErrCodeNotFound indicates no code is outstanding for the user.
	ErrCodeNotFound = errors.New("verification: no code outstanding")
	// ErrCodeExpired indicates the outstanding code is past its window.
	ErrCodeExpired = errors.New("verification: code expired")
	// ErrCodeInvalid indicates the supplied code does not match.
	ErrCodeInvalid = errors.New("verification: code mismatch")
)

// CodeIssuerOption customises a CodeIssuer.
type CodeIssuerOption func(*CodeIssuer)

// WithCodeTTL overrides the code lifetime.
func WithCodeTTL(d time.Duration) CodeIssuerOption {
	return func(i *CodeIssuer) {
		if d > 0 {
			i.ttl = d
		}
	}
}

// WithCodeClock injects a custom time source.
func WithCodeClock(clock func() time.Time) CodeIssuerOption {
	return func(i *CodeIssuer) {
		if clock != nil {
			i.now = clock
		}
	}
}

// CodeIssuer manages the single verification-code slot on each user record.
// Issuing a new code overwrites any outstanding one; the registration,
// password-reset, and email-change flows all share the slot, last write wins.
type CodeIssuer struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewCodeIssuer constructs a CodeIssuer over the credential store.
func NewCodeIssuer(db *gorm.DB, opts ...CodeIssuerOption) (*CodeIssuer, error) {
	if db == nil {
		return nil, errors.New("verification: db is required")
	}

	issuer := &CodeIssuer{
		db:  db,
		ttl: DefaultCodeTTL,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(issuer)
	}

	return issuer, nil
}

// Issue generates a fresh 6-digit code, persists it with its expiry on the
// user record, and returns it for out-of-band delivery. The user value is
// updated in place.
func (i *CodeIssuer) Issue(ctx context.Context, user *models.User) (string, error) {
	if user == nil || user.ID == 0 {
		return "", errors.New("verification: user is required")
	}

	code, err := crypto.RandomDigits(CodeLength)
	if err != nil {
		return "", fmt.Errorf("verification: generate code: %w", err)
	}

	expiresAt := i.now().Add(i.ttl)

	if err := i.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"verification_code":       code,
		"verification_expires_at": expiresAt,
	}).Error; err != nil {
		return "", fmt.Errorf("verification: persist code: %w", err)
	}

	user.VerificationCode = &code
	user.VerificationExpiresAt = &expiresAt
	return code, nil
}

// Check compares a supplied code against the user's outstanding slot. It does
// not clear the code on success; consuming flows decide when to rotate state
// and call Clear themselves.
func (i *CodeIssuer) Check(user *models.User, supplied string) error {
	if user == nil || user.VerificationCode == nil {
		return ErrCodeNotFound
	}

	if user.VerificationExpiresAt != nil && user.VerificationExpiresAt.Before(i.now()) {
		return ErrCodeExpired
	}

	if *user.VerificationCode != supplied {
		return ErrCodeInvalid
	}

	return nil
}

// Clear removes the outstanding code from the user record.
func (i *CodeIssuer) Clear(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("verification: user is required")
	}

	if err := i.db.WithContext(ctx).Model(user).Updates(map[string]any{
		"verification_code":       nil,
		"verification_expires_at": nil,
	}).Error; err != nil {
		return fmt.Errorf("verification: clear code: %w", err)
	}

	user.VerificationCode = nil
	user.VerificationExpiresAt = nil
	return nil
}
