package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/app"
	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/pkg/crypto"
	"github.com/skydimo/membership/pkg/logger"
)

// ensureInitialAdmin seeds the first administrator account from configuration.
// It is a no-op when any admin already exists or when no credentials are
// configured.
func ensureInitialAdmin(ctx context.Context, db *gorm.DB, cfg *app.Config) error {
	if db == nil {
		return errors.New("db is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	password := cfg.Admin.Password
	if email == "" || password == "" {
		return nil
	}

	log := logger.WithModule("bootstrap")

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	name := strings.TrimSpace(cfg.Admin.Name)
	if name == "" {
		name = "Administrator"
	}

	now := time.Now()
	admin := &models.User{
		Email:           email,
		Name:            name,
		PasswordHash:    hash,
		Role:            models.RoleAdmin,
		IsEmailVerified: true,
		EmailVerifiedAt: &now,
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info("initial admin created", zap.String("email", email))
	return nil
}
