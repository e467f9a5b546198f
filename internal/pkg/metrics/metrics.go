// Package metrics defines and registers all custom Prometheus metrics for the
// timesheet API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timesheet"

// ── Time log metrics ──────────────────────────────────────────────────────────

// TimeLogsCreatedTotal counts time logs committed to the store.
var TimeLogsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timelogs_created_total",
		Help:      "Total number of time logs created.",
	},
)

// TimeLogRejectionsTotal counts rejected time log writes.
// Label:
//   - reason: "daily_cap", "project_archived", "validation", "forbidden"
var TimeLogRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timelog_rejections_total",
		Help:      "Total number of rejected time log writes, by reason.",
	},
	[]string{"reason"},
)

// IdempotentReplaysTotal counts creates answered from a previously used
// Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timelog_idempotent_replays_total",
		Help:      "Total number of time log creates replayed from an idempotency key.",
	},
)

// ── Billing metrics ───────────────────────────────────────────────────────────

// BillingCacheLookupsTotal counts summary cache lookups.
// Label:
//   - result: "hit" or "miss"
var BillingCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_cache_lookups_total",
		Help:      "Total number of billing summary cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// BillingCacheInvalidationsTotal counts summary cache invalidations.
var BillingCacheInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_cache_invalidations_total",
		Help:      "Total number of billing summary cache invalidations.",
	},
)

// BillingCacheEntries tracks the number of projects with a cached summary.
var BillingCacheEntries = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "billing_cache_entries",
		Help:      "Current number of cached billing summaries.",
	},
)

// BillingAggregationDuration measures how long one summary computation takes.
var BillingAggregationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "billing_aggregation_duration_seconds",
		Help:      "Duration of billing summary aggregation.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
