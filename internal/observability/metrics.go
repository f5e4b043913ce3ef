package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SessionsIssued counts established sessions by kind (authenticated or anonymous).
	SessionsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_sessions_issued_total",
		Help: "Total number of sessions established",
	}, []string{"kind"})

	// LoginFailures counts failed login attempts by reason.
	LoginFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_login_failures_total",
		Help: "Total number of failed login attempts by reason",
	}, []string{"reason"})
)
