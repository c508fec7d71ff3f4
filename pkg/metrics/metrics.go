package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// CodeVerifications counts verification-code checks and their outcome
	// (success|not_found|expired|invalid).
	CodeVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_code_verifications_total",
			Help: "Total number of verification code checks",
		},
		[]string{"result"},
	)

	// OrdersCreated counts order creations.
	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "membership_orders_created_total",
			Help: "Total number of orders created",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "membership_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
