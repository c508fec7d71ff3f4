package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skydimo/membership/internal/models"
)

func TestTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	require.Error(t, err)
}

func TestTokenServiceSignAndVerify(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: "test-secret", Issuer: "membership"})
	require.NoError(t, err)

	token, err := svc.Sign(42, models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenServiceDefaultTTL(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)
	require.Equal(t, 7*24*time.Hour, svc.TTL())
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	signer, err := NewTokenService(TokenConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
		Clock:  func() time.Time { return past },
	})
	require.NoError(t, err)

	token, err := signer.Sign(1, models.RoleUser)
	require.NoError(t, err)

	verifier, err := NewTokenService(TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	signer, err := NewTokenService(TokenConfig{Secret: "secret-a"})
	require.NoError(t, err)
	verifier, err := NewTokenService(TokenConfig{Secret: "secret-b"})
	require.NoError(t, err)

	token, err := signer.Sign(1, models.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = svc.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
