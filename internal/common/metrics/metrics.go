// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for TransitionsTotal.
const (
	OutcomeCommitted         = "committed"
	OutcomeRejected          = "rejected"
	OutcomeTransactionFailed = "transaction_failed"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_transitions_total",
			Help: "Lifecycle write units by entity, action and outcome",
		},
		[]string{"entity_type", "action", "outcome"},
	)

	TransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_transaction_duration_seconds",
			Help:    "Duration of atomic write units in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"unit"},
	)

	AfterCommitHookFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_after_commit_hook_failures_total",
			Help: "Best-effort hooks that failed after a unit committed",
		},
		[]string{"hook"},
	)

	NotificationMappingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_mapping_fallbacks_total",
			Help: "Unrecognized recipient or category values that fell back to a default",
		},
		[]string{"kind"},
	)

	CountsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_counts_cache_lookups_total",
			Help: "Status count cache lookups by result",
		},
		[]string{"entity_type", "result"},
	)
)
