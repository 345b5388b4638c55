package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic,
// the published-solution cache and the solver.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	cacheLatency      prometheus.Observer
	solverDuration    *prometheus.HistogramVec
	solverOutcomes    *prometheus.CounterVec
	precheckFailures  *prometheus.CounterVec
	solverInFlight    prometheus.Gauge
	solutionsSaved    *prometheus.CounterVec
	solutionLockFlips *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "published_cache_lookups_total",
		Help: "Published timetable cache lookups by result",
	}, []string{"result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "published_cache_latency_seconds",
		Help:    "Latency for published timetable cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	solverDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_run_duration_seconds",
		Help:    "Wall time of solver invocations",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"outcome"})

	solverOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_outcomes_total",
		Help: "Classified solver outcomes",
	}, []string{"outcome"})

	precheckFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feasibility_precheck_failures_total",
		Help: "Generate requests rejected before solving, by rule",
	}, []string{"code"})

	solverInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solver_in_flight",
		Help: "Solver invocations currently running",
	})

	solutionsSaved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_solutions_saved_total",
		Help: "Saved timetable solutions by initial lock state",
	}, []string{"locked"})

	solutionLockFlips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_lock_toggles_total",
		Help: "Lock toggles by resulting state",
	}, []string{"locked"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLookups, cacheLatency, solverDuration,
		solverOutcomes, precheckFailures, solverInFlight, solutionsSaved, solutionLockFlips, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLookups:      cacheLookups,
		cacheLatency:      cacheLatency,
		solverDuration:    solverDuration,
		solverOutcomes:    solverOutcomes,
		precheckFailures:  precheckFailures,
		solverInFlight:    solverInFlight,
		solutionsSaved:    solutionsSaved,
		solutionLockFlips: solutionLockFlips,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a published-cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// SolverStarted and SolverFinished bracket one solver invocation.
func (m *MetricsService) SolverStarted() {
	if m == nil {
		return
	}
	m.solverInFlight.Inc()
}

// SolverFinished records the classified outcome of a solver run.
func (m *MetricsService) SolverFinished(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.solverInFlight.Dec()
	m.solverDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.solverOutcomes.WithLabelValues(outcome).Inc()
}

// RecordPrecheckFailure counts a generate request rejected by the
// feasibility checks.
func (m *MetricsService) RecordPrecheckFailure(code string) {
	if m == nil {
		return
	}
	m.precheckFailures.WithLabelValues(code).Inc()
}

// RecordSolutionSaved counts persisted solutions.
func (m *MetricsService) RecordSolutionSaved(locked bool) {
	if m == nil {
		return
	}
	m.solutionsSaved.WithLabelValues(fmt.Sprintf("%t", locked)).Inc()
}

// RecordLockToggle counts lock flips by their resulting state.
func (m *MetricsService) RecordLockToggle(locked bool) {
	if m == nil {
		return
	}
	m.solutionLockFlips.WithLabelValues(fmt.Sprintf("%t", locked)).Inc()
}
