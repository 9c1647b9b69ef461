package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_lookups_total",
		Help: "Total number of Get* lookups against the code base, by element kind and result.",
	}, []string{"kind", "result"})

	BuiltinResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_builtin_resolutions_total",
		Help: "Total number of builtin signature table consultations after a function miss.",
	}, []string{"result"})

	BuiltinFunctionsMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_builtin_functions_materialized_total",
		Help: "Total number of function elements synthesized from builtin signatures.",
	})

	HydrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_hydrations_total",
		Help: "Total number of class hydrations, by result.",
	}, []string{"result"})

	HydrationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symtab_hydration_seconds",
		Help:    "Time spent hydrating a single class, ancestors included.",
		Buckets: prometheus.DefBuckets,
	})

	ClonesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_clones_total",
		Help: "Total number of code base clones.",
	})

	Elements = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "symtab_elements",
		Help: "Number of elements held by the most recently reported code base, by kind.",
	}, []string{"kind"})

	SeedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symtab_seed_seconds",
		Help:    "Time spent seeding a code base with builtin declarations.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_watcher_events_total",
		Help: "Total number of file system events seen by the stub watcher.",
	})

	StubReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_stub_reloads_total",
		Help: "Total number of stub file reloads, by result.",
	}, []string{"result"})

	ExportQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symtab_export_queue_depth",
		Help: "Number of inventory snapshots waiting to be exported.",
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_exports_total",
		Help: "Total number of inventory exports written, by result.",
	}, []string{"result"})

	ExportSnapshotsCoalescedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_export_snapshots_coalesced_total",
		Help: "Total number of queued snapshots skipped because a newer one was in the same batch.",
	})

	ExportQueueDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_export_queue_dropped_total",
		Help: "Total number of snapshots that did not fit in the export queue.",
	})

	ExportLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symtab_export_seconds",
		Help:    "Time spent writing one inventory snapshot.",
		Buckets: prometheus.DefBuckets,
	})
)

const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultError   = "error"
	ResultLimited = "limited"
)
