// File: internal/utils/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Authentication outcome counters. Label values are small fixed sets
// ("success", "invalid_credentials", "locked", ...), never user input.
var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	TwoFactorChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_two_factor_checks_total",
		Help: "Second-factor verifications by outcome.",
	}, []string{"outcome"})

	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_token_refreshes_total",
		Help: "Refresh-token rotations by outcome.",
	}, []string{"outcome"})

	AccountLockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "identity_account_lockouts_total",
		Help: "Accounts blocked by the lockout guard.",
	})

	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "identity_audit_write_failures_total",
		Help: "Audit log writes that failed and were dropped.",
	})
)
