// Package metrics defines and registers all custom Prometheus metrics for the
// AYMA portal API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionTeardownsTotal counts sessions destroyed because the core API
// rejected their bearer token (explicit logouts are not counted here).
var SessionTeardownsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_teardowns_total",
		Help:      "Total number of forced session teardowns after a core API 401.",
	},
)

// ── Aggregation metrics ───────────────────────────────────────────────────────

// AggregationPassesTotal counts dashboard aggregation passes.
// Label:
//   - outcome: "success", "required_failed", "session_invalid", or "discarded"
var AggregationPassesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregation_passes_total",
		Help:      "Total number of dashboard aggregation passes, by outcome.",
	},
	[]string{"outcome"},
)

// ── Core API metrics ──────────────────────────────────────────────────────────

// CoreRequestDuration measures outbound core API request latency.
// Labels:
//   - endpoint: logical endpoint name (e.g. "policies", "login")
//   - status: HTTP status code, or "network_error" when no response arrived
var CoreRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "core_request_duration_seconds",
		Help:      "Duration of outbound requests to the brokerage core API.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint", "status"},
)
