// Package metrics defines and registers all custom Prometheus metrics for
// the registration API. It is the single source of truth for metric names,
// labels, and help strings. Registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "registration"

// RegistrationsTotal counts account creation attempts.
// Label:
//   - result: "created", "rejected" (generic failure, duplicate included), "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of account registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "denied", "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// EnrollmentsTotal counts enrollment operations.
// Labels:
//   - op: "enroll" or "drop"
//   - result: "ok", "already_enrolled", "not_enrolled", "not_found", "rate_limited", "error"
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of enrollment operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// RateLimitedTotal counts requests rejected by a limiter.
// Label:
//   - limiter: "login" or "enroll"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by a rate limiter.",
	},
	[]string{"limiter"},
)

// AuthDuration measures register and login end-to-end service time. Both
// paths are dominated by the adaptive password hash, so this is effectively
// the hash-cost budget watch.
// Label:
//   - op: "register" or "login"
var AuthDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_duration_seconds",
		Help:      "Duration of register and login operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)
