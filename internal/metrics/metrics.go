// Package metrics defines and registers all custom Prometheus metrics for the
// CityFeedback portal. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import; the
// web portal exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cityfeedback"

// ── Backend client metrics ────────────────────────────────────────────────────

// BackendRequestsTotal counts requests issued to the feedback backend.
// Labels:
//   - endpoint: the route template (e.g. "/feedback/:id/status")
//   - method: HTTP method
//   - outcome: HTTP status code, or "unreachable" when no response arrived
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests issued to the feedback backend.",
	},
	[]string{"endpoint", "method", "outcome"},
)

// BackendRequestDuration measures backend round-trip time.
// Label:
//   - endpoint: the route template
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the feedback backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Session and gate metrics ──────────────────────────────────────────────────

// GateDenialsTotal counts role-gate refusals.
// Label:
//   - capability: the denied capability (e.g. "manage_users")
var GateDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_denials_total",
		Help:      "Total number of privileged actions refused by the role gate.",
	},
	[]string{"capability"},
)

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - event: "login", "logout" or "corrupt"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events.",
	},
	[]string{"event"},
)

// ── Feedback metrics ──────────────────────────────────────────────────────────

// FeedbacksCreatedTotal counts feedback items submitted through the portal.
// Label:
//   - category: e.g. "VERKEHR"
var FeedbacksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedbacks_created_total",
		Help:      "Total number of feedback items submitted, by category.",
	},
	[]string{"category"},
)

// StatusChangesTotal counts status writes.
// Label:
//   - status: the status written
var StatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Total number of feedback status changes issued.",
	},
	[]string{"status"},
)

// CommentFetchErrorsTotal counts per-item comment fetches that fell back to
// an empty list.
// Label:
//   - view: "staff" or "public"
var CommentFetchErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comment_fetch_errors_total",
		Help:      "Total number of comment fetches that failed and defaulted to an empty list.",
	},
	[]string{"view"},
)
