// Package metrics defines and registers the custom Prometheus metrics of the
// membership API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "membership"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "not_verified", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccountsRegisteredTotal counts successful self-registrations.
// Label:
//   - role: "initiate" or "pending"
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts created through registration, by role.",
	},
	[]string{"role"},
)

// ── Account lifecycle metrics ─────────────────────────────────────────────────

// GateRejectionsTotal counts account writes aborted by the mutation gate.
// Label:
//   - step: "hash_password", "resolve_role" or "update_validity"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of account writes aborted by a gate step.",
	},
	[]string{"step"},
)

// AttendanceRecordedTotal counts event check-ins.
var AttendanceRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_recorded_total",
		Help:      "Total number of attendance records created.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWritesTotal counts audit entries handled by the dispatcher.
// Label:
//   - result: "ok", "error" or "dropped"
var AuditWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_writes_total",
		Help:      "Total number of audit entries, by outcome.",
	},
	[]string{"result"},
)

// AuditWriteDuration measures how long a single audit insert takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit entry insert.",
		Buckets:   prometheus.DefBuckets,
	},
)
