// Package metrics defines and registers all custom Prometheus metrics for the
// logistics API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import and
// exposed by the /metrics endpoint next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logistics"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "invalid" (validation/credentials) or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// RateLimitedTotal counts requests rejected by the auth rate limiter.
// Label:
//   - path: the route template (e.g. "/api/auth/login")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
	[]string{"path"},
)

// ── City metrics ──────────────────────────────────────────────────────────────

// CitiesRemovedTotal counts admin city removals.
// Label:
//   - outcome: "deleted" (hard delete) or "deactivated" (soft delete)
var CitiesRemovedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cities_removed_total",
		Help:      "Total number of city removals, by outcome.",
	},
	[]string{"outcome"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UserRoleChangesTotal counts successful role changes.
// Label:
//   - role: the new role ("ADMIN" or "USER")
var UserRoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_role_changes_total",
		Help:      "Total number of user role changes, by new role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts accounts removed by administrators.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user accounts deleted.",
	},
)
