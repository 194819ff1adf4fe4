// Package metrics defines and registers all custom Prometheus metrics for the
// client portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto, which is the registry echoprometheus exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRegistrationsTotal counts accounts created.
// Label:
//   - source: "self" for public registration, "admin" for staff-created accounts
var AuthRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of accounts created, by source.",
	},
	[]string{"source"},
)

// AuthTokenRejectionsTotal counts requests rejected by the authenticator.
// Label:
//   - reason: "missing", "malformed", "expired", "invalid" or "inactive"
var AuthTokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_rejections_total",
		Help:      "Total number of requests rejected during authentication, by reason.",
	},
	[]string{"reason"},
)

// ── Client profile metrics ────────────────────────────────────────────────────

// ClientOperationsTotal counts client profile operations.
// Labels:
//   - op: "list", "get", "create", "update", "delete"
//   - result: "ok", "forbidden", "not_found", "invalid", "conflict" or "error"
var ClientOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_operations_total",
		Help:      "Total number of client profile operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Rate limit metrics ────────────────────────────────────────────────────────

// RateLimitRejectionsTotal counts requests rejected with 429.
var RateLimitRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_rejections_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts events discarded because a worker queue was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped because the queue was full.",
	},
)

// ActivityProcessingDuration measures how long persisting one event takes.
// Label:
//   - result: "ok" or "error"
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity event persistence from dequeue to write.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
