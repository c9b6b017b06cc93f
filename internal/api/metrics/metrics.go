// Package metrics defines all custom Prometheus metrics for the production
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register with the default registry at import time via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "callsheet"

// ProductionsCreatedTotal counts successfully created productions.
var ProductionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "productions_created_total",
		Help:      "Total number of productions created.",
	},
)

// AdminMutationsTotal counts successful admin-set mutations.
// Label:
//   - op: "add" or "remove"
var AdminMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_mutations_total",
		Help:      "Total number of successful admin-set mutations, by operation.",
	},
	[]string{"op"},
)

// AdminWriteConflictsTotal counts version conflicts detected during
// conditional admin-set writes. Each conflict triggers a bounded retry.
var AdminWriteConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_write_conflicts_total",
		Help:      "Total number of optimistic-concurrency conflicts on admin-set writes.",
	},
)

// RosterMutationsTotal counts successful roster mutations.
// Labels:
//   - kind: "cast" or "creative"
//   - op: "add", "update", or "remove"
var RosterMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_mutations_total",
		Help:      "Total number of successful roster mutations, by kind and operation.",
	},
	[]string{"kind", "op"},
)

// VisibilityCacheTotal counts visibility cache lookups.
// Label:
//   - result: "hit" or "miss"
var VisibilityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visibility_cache_total",
		Help:      "Total number of visibility cache lookups, labelled by result.",
	},
	[]string{"result"},
)
