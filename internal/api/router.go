package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/middleware"
	"github.com/skydimo/membership/internal/services"
)

// Dependencies bundles everything the HTTP layer needs.
type Dependencies struct {
	DB            *gorm.DB
	Tokens        *iauth.TokenService
	Cookies       *iauth.CookieManager
	Auth          *services.AuthService
	Accounts      *services.AccountService
	Plans         *services.PlanService
	Orders        *services.OrderService
	Subscriptions *services.SubscriptionService
	AdminUsers    *services.AdminUserService
}

// Options tune the router's cross-cutting middleware.
type Options struct {
	// AllowedOrigins restricts CORS; empty means echo any origin.
	AllowedOrigins []string
	// RateLimitPerMinute caps requests per client IP and path. Zero disables it.
	RateLimitPerMinute int
	// EnableMetrics exposes the Prometheus endpoint at /metrics.
	EnableMetrics bool
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Dependencies, opts Options) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token service must be provided")
	}
	if deps.Cookies == nil {
		return nil, fmt.Errorf("cookie manager must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(opts.AllowedOrigins...))
	if opts.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMinute, time.Minute))
	}

	r.NoRoute(middleware.NotFoundHandler)

	registerHealthRoutes(r, deps)
	registerAuthRoutes(r, deps)
	registerAccountRoutes(r, deps)
	registerMembershipRoutes(r, deps)
	registerAdminRoutes(r, deps)

	if opts.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r, nil
}
