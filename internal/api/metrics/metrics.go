// Package metrics defines and registers all custom Prometheus metrics of the
// HR gateway. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the router on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hrgateway"

// ── Session gate ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts session gate decisions on protected paths.
// Label:
//   - outcome: "allowed", "no_token", "invalid_token", "expired", "unauthorized"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of session gate decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Backend ───────────────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the remote HR API.
// Labels:
//   - operation: logical operation name (e.g. "auth.login", "notice.list")
//   - code: HTTP status code, or "transport_error"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the remote HR API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "code"},
)

// ── Stores ────────────────────────────────────────────────────────────────────

// StoreCommandDuration measures Redis and MongoDB commands.
// Labels:
//   - store: "redis" or "mongo"
//   - command: command name (e.g. "get", "setnx", "insert")
//   - result: "ok" or "error"
var StoreCommandDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_command_duration_seconds",
		Help:      "Duration of Redis and MongoDB commands issued by the gateway.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"store", "command", "result"},
)

// ── Notices ───────────────────────────────────────────────────────────────────

// AttachmentUploadsTotal counts attachment uploads.
// Labels:
//   - driver: "cloudinary", "blob" or "gridfs"
//   - result: "ok" or "error"
var AttachmentUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachment_uploads_total",
		Help:      "Total number of attachment uploads, by storage driver and result.",
	},
	[]string{"driver", "result"},
)

// InFlightRejectionsTotal counts duplicate submissions rejected by the
// in-flight guard.
// Label:
//   - operation: "login", "signup" or "notice"
var InFlightRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inflight_rejections_total",
		Help:      "Total number of submissions rejected because an identical one was in progress.",
	},
	[]string{"operation"},
)

// ── Activity log ──────────────────────────────────────────────────────────────

// ActivityDroppedTotal counts audit entries dropped because a worker queue
// was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity entries dropped due to a full worker queue.",
	},
)

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityWriteErrorsTotal counts failed activity inserts.
var ActivityWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_write_errors_total",
		Help:      "Total number of activity entries that could not be persisted.",
	},
)
