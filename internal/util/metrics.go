package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Total number of registered users",
	})

	LoginAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts",
	})

	LoginFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "login_failures_total",
		Help: "Total number of failed login attempts",
	})

	SessionsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_issued_total",
		Help: "Total number of session tokens issued",
	})

	SessionsRevokedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_revoked_total",
		Help: "Total number of session revocations",
	})

	TokenRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_rejections_total",
		Help: "Total number of rejected bearer tokens",
	}, []string{"reason"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"reason"})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of order status transitions",
	}, []string{"from", "to"})

	OrderEventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_consumed_total",
		Help: "Total number of order events processed by the audit worker",
	}, []string{"type"})

	SessionCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_cache_hits_total",
		Help: "Total number of session lookups served from Redis",
	})

	SessionCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_cache_misses_total",
		Help: "Total number of session lookups that fell back to the database",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
