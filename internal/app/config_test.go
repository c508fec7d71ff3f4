package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "Membership Test", cfg.App.Name)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	require.Equal(t, 30, cfg.Server.RateLimitPerMinute)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, "membership", cfg.Database.Name)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "membership-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, "example.com", cfg.Auth.Cookie.Domain)
	require.True(t, cfg.Auth.Cookie.Secure)
	require.Equal(t, 5*time.Minute, cfg.Auth.Verification.TTL)

	require.Equal(t, "root@example.com", cfg.Admin.Email)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, 465, cfg.Email.SMTP.Port)
	require.Equal(t, 20*time.Second, cfg.Email.SMTP.Timeout)

	require.Equal(t, "https://pay.example.org", cfg.Orders.PaymentBaseURL)
	require.Equal(t, 48*time.Hour, cfg.Orders.PendingMaxAge)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "@daily", cfg.Monitoring.Maintenance.Schedule)

	db := cfg.DatabaseSettings()
	require.Equal(t, "postgres", db.Driver)
	require.Equal(t, "db.example.com", db.Host)

	smtp := cfg.SMTPSettings()
	require.True(t, smtp.Enabled)
	require.Equal(t, "smtp.example.com", smtp.Host)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "Membership", cfg.App.Name)
	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, 100, cfg.Server.RateLimitPerMinute)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 10*time.Minute, cfg.Auth.Verification.TTL)
	require.Empty(t, cfg.Auth.JWT.Secret)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "https://pay.example.com", cfg.Orders.PaymentBaseURL)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "@hourly", cfg.Monitoring.Maintenance.Schedule)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MEMBERSHIP_SERVER_PORT", "9999")
	t.Setenv("MEMBERSHIP_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
}
