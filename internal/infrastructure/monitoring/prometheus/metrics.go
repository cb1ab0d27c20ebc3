package prometheus

import (
	"time"
)

// AppMetrics holds all application metrics for the analytics engine.
type AppMetrics struct {
	// Analytics engine
	EntityComputeTotal    CounterVec
	EntityComputeDuration HistogramVec
	CasesScanned          HistogramVec
	LockContentionTotal   CounterVec

	// Sweep
	SweepTotal         CounterVec
	SweepDuration      HistogramVec
	SweepEntitiesTotal CounterVec
	ActiveWorkers      GaugeVec

	// Infrastructure
	DBQueryDuration   HistogramVec
	CacheHitsTotal    CounterVec
	CacheMissesTotal  CounterVec
	EventPublishTotal CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultComputeDurationBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultSweepDurationBuckets   = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}
	DefaultCaseCountBuckets       = []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500}
	DefaultDBDurationBuckets      = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// Analytics engine
	m.EntityComputeTotal = collector.RegisterCounter("entity_compute_total", "Per-entity analytics computations", "result")
	m.EntityComputeDuration = collector.RegisterHistogram("entity_compute_duration_seconds", "Per-entity analytics computation duration", DefaultComputeDurationBuckets, "trigger")
	m.CasesScanned = collector.RegisterHistogram("entity_cases_scanned", "Case records matched per entity computation", DefaultCaseCountBuckets)
	m.LockContentionTotal = collector.RegisterCounter("entity_lock_contention_total", "Recomputations skipped because the entity lock was held")

	// Sweep
	m.SweepTotal = collector.RegisterCounter("sweep_total", "Corpus-wide analytics sweeps", "result")
	m.SweepDuration = collector.RegisterHistogram("sweep_duration_seconds", "Corpus-wide sweep duration", DefaultSweepDurationBuckets)
	m.SweepEntitiesTotal = collector.RegisterCounter("sweep_entities_total", "Entities processed by sweeps", "result")
	m.ActiveWorkers = collector.RegisterGauge("active_workers", "Concurrently running sweep workers")

	// Infrastructure
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "repo", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventPublishTotal = collector.RegisterCounter("event_publish_total", "Domain events published", "topic", "status")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// Helpers

// RecordEntityCompute records the outcome and duration of one per-entity
// analytics computation.  trigger is "sweep" or "manual".
func RecordEntityCompute(metrics *AppMetrics, trigger string, success bool, cases int, duration time.Duration) {
	if metrics == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	metrics.EntityComputeTotal.WithLabelValues(result).Inc()
	metrics.EntityComputeDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	if success {
		metrics.CasesScanned.WithLabelValues().Observe(float64(cases))
	}
}

// RecordSweep records the outcome of one corpus-wide sweep.
func RecordSweep(metrics *AppMetrics, succeeded, failed int, duration time.Duration) {
	if metrics == nil {
		return
	}
	result := "success"
	if failed > 0 {
		result = "partial"
	}
	metrics.SweepTotal.WithLabelValues(result).Inc()
	metrics.SweepDuration.WithLabelValues().Observe(duration.Seconds())
	metrics.SweepEntitiesTotal.WithLabelValues("success").Add(float64(succeeded))
	metrics.SweepEntitiesTotal.WithLabelValues("failure").Add(float64(failed))
}

// RecordDBQuery records the duration of one repository call and counts errors.
func RecordDBQuery(metrics *AppMetrics, repo, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.DBQueryDuration.WithLabelValues(repo, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(repo, "query_error").Inc()
	}
}

// RecordCacheAccess counts a cache hit or miss for the named cache.
func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordEventPublish counts a Kafka publish attempt for the named topic.
func RecordEventPublish(metrics *AppMetrics, topic string, err error) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.EventPublishTotal.WithLabelValues(topic, status).Inc()
}
