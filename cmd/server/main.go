package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skydimo/membership/internal/api"
	"github.com/skydimo/membership/internal/app"
	"github.com/skydimo/membership/internal/app/maintenance"
	iauth "github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/database"
	"github.com/skydimo/membership/internal/services"
	"github.com/skydimo/membership/pkg/logger"
	"github.com/skydimo/membership/pkg/mail"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("membership-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	if err := ensureSecretsPresent(cfg); err != nil {
		return err
	}

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	deps, err := buildDependencies(cfg, db)
	if err != nil {
		return err
	}

	if err := ensureInitialAdmin(ctx, db, cfg); err != nil {
		return fmt.Errorf("seed initial admin: %w", err)
	}

	var cleaner *maintenance.Cleaner
	if cfg.Monitoring.Maintenance.Enabled {
		cleaner = maintenance.NewCleaner(db,
			maintenance.WithSchedule(cfg.Monitoring.Maintenance.Schedule),
			maintenance.WithPendingMaxAge(cfg.Orders.PendingMaxAge),
		)
		if err := cleaner.Start(); err != nil {
			return fmt.Errorf("start maintenance jobs: %w", err)
		}
		defer func() {
			stopCtx := cleaner.Stop()
			if err := cleaner.RunOnce(stopCtx); err != nil {
				log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
			}
		}()
	}

	router, err := api.NewRouter(deps, api.Options{
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		EnableMetrics:      cfg.Monitoring.Prometheus.Enabled,
	})
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func buildDependencies(cfg *app.Config, db *gorm.DB) (api.Dependencies, error) {
	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: cfg.Auth.JWT.Secret,
		Issuer: cfg.Auth.JWT.Issuer,
		TTL:    cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise token service: %w", err)
	}

	cookies := iauth.NewCookieManager(cfg.Auth.Cookie.Domain, cfg.Auth.Cookie.Secure, tokens.TTL())

	codes, err := iauth.NewCodeIssuer(db, iauth.WithCodeTTL(cfg.Auth.Verification.TTL))
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise code issuer: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.SMTPSettings())
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise mailer: %w", err)
	}

	authSvc, err := services.NewAuthService(db, codes, mailer, cfg.App.Name)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise auth service: %w", err)
	}
	accountSvc, err := services.NewAccountService(db, codes, mailer, cfg.App.Name)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise account service: %w", err)
	}
	planSvc, err := services.NewPlanService(db)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise plan service: %w", err)
	}
	orderSvc, err := services.NewOrderService(db, services.WithPaymentBaseURL(cfg.Orders.PaymentBaseURL))
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise order service: %w", err)
	}
	subscriptionSvc, err := services.NewSubscriptionService(db)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise subscription service: %w", err)
	}
	adminUserSvc, err := services.NewAdminUserService(db)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("initialise admin user service: %w", err)
	}

	return api.Dependencies{
		DB:            db,
		Tokens:        tokens,
		Cookies:       cookies,
		Auth:          authSvc,
		Accounts:      accountSvc,
		Plans:         planSvc,
		Orders:        orderSvc,
		Subscriptions: subscriptionSvc,
		AdminUsers:    adminUserSvc,
	}, nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func ensureSecretsPresent(cfg *app.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	return nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.DatabaseSettings()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("database handle unavailable on shutdown", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("database close failed", zap.Error(err))
	}
}
