// Package metrics provides Prometheus metrics for the hackdesk lifecycle service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hackdesk"

// registry is private so only metrics registered here are exposed on /healthz.
var registry = prometheus.NewRegistry()

var (
	sweepsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_sweeps_total",
		Help:      "Number of completed scheduler sweeps.",
	})
	sweepDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scheduler_sweep_duration_ms",
		Help:      "Duration of a full scheduler sweep in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	})
	transitionsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Status transitions committed, by entity kind and target status.",
	}, []string{"kind", "to"})
	transitionErrorsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Failed transition applications, by entity kind.",
	}, []string{"kind"})
	transitionConflictsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_conflicts_total",
		Help:      "Guarded status writes skipped because another writer advanced the status first.",
	})

	cleanupRunsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cleanup_runs_total",
		Help:      "Roster cleanup invocations that completed successfully.",
	})
	cleanupFailuresTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cleanup_failures_total",
		Help:      "Roster cleanup invocations that aborted with an error.",
	})
	cleanupEvictionsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cleanup_evictions_total",
		Help:      "Participants evicted from completed events.",
	})
	cleanupTeamsDeletedTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cleanup_teams_deleted_total",
		Help:      "Teams deleted because their last member was evicted.",
	})
	cleanupDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cleanup_duration_ms",
		Help:      "Duration of a single event's roster cleanup in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
	})

	trackedEvents = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_events",
		Help:      "Events seen during the most recent sweep.",
	})
	trackedWorkshops = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_workshops",
		Help:      "Workshops seen during the most recent sweep.",
	})

	httpRequestsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	httpRequestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"endpoint", "method"})
)

// GetRegistry returns the registry backing the exposition endpoint.
func GetRegistry() *prometheus.Registry { return registry }

// Scheduler metrics.

func RecordSweep(durationMS float64) {
	sweepsTotal.Inc()
	sweepDuration.Observe(durationMS)
}

func RecordTransition(kind, to string)   { transitionsTotal.WithLabelValues(kind, to).Inc() }
func RecordTransitionError(kind string)  { transitionErrorsTotal.WithLabelValues(kind).Inc() }
func RecordTransitionConflict()          { transitionConflictsTotal.Inc() }
func UpdateTrackedEvents(n int)          { trackedEvents.Set(float64(n)) }
func UpdateTrackedWorkshops(n int)       { trackedWorkshops.Set(float64(n)) }

// Cleanup metrics.

func RecordCleanupRun(durationMS float64) {
	cleanupRunsTotal.Inc()
	cleanupDuration.Observe(durationMS)
}

func RecordCleanupFailure()       { cleanupFailuresTotal.Inc() }
func RecordEvictions(n int)       { cleanupEvictionsTotal.Add(float64(n)) }
func RecordTeamsDeleted(n int)    { cleanupTeamsDeletedTotal.Add(float64(n)) }

// HTTP metrics.

func RecordHTTPRequest(endpoint, method, status string) {
	httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, durationMS float64) {
	httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMS)
}
