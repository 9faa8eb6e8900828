// Package metrics defines all custom Prometheus metrics for the booking API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// ── Request lifecycle metrics ────────────────────────────────────────────────

// RequestsCreatedTotal counts new truck requests.
// Label:
//   - kind: "blanket" or "specific"
var RequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of truck requests created, by kind.",
	},
	[]string{"kind"},
)

// RequestsAcceptedTotal counts successful pending-to-accepted transitions.
var RequestsAcceptedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_accepted_total",
		Help:      "Total number of requests accepted.",
	},
)

// AcceptConflictsTotal counts accept attempts that lost the race: the
// conditional status update matched zero documents.
var AcceptConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accept_conflicts_total",
		Help:      "Total number of accept attempts rejected because the request was no longer pending.",
	},
)

// ── Fan-out metrics ──────────────────────────────────────────────────────────

// FanoutRecipientsTotal counts notification recipients per event kind. A
// blanket request with zero active trucks adds zero.
var FanoutRecipientsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_recipients_total",
		Help:      "Total number of notification recipients, by event kind.",
	},
	[]string{"kind"},
)

// FanoutErrorsTotal counts fan-out events that failed processing.
var FanoutErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_errors_total",
		Help:      "Total number of fan-out events that failed processing, by event kind.",
	},
	[]string{"kind"},
)

// EmailsSentTotal counts email recipients successfully handed to the channel.
var EmailsSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of email recipients delivered to the outbound channel.",
	},
)

// EmailSendErrorsTotal counts failed email sends. Failures never propagate
// to the lifecycle operation that triggered them.
var EmailSendErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_send_errors_total",
		Help:      "Total number of failed outbound email sends.",
	},
)

// ── Schedule and queue metrics ───────────────────────────────────────────────

// ScheduleQueriesTotal counts public day-schedule reads.
var ScheduleQueriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schedule_queries_total",
		Help:      "Total number of public day-schedule queries served.",
	},
)

// FanoutQueueDepth tracks events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var FanoutQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fanout_queue_depth",
		Help:      "Current number of fan-out events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
