// Package metrics exposes Prometheus collectors for feed retrieval and the
// snapshot API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so several instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	strategyAttempts *prometheus.CounterVec
	refreshes        *prometheus.CounterVec
	refreshDuration  prometheus.Histogram
	snapshotJobs     prometheus.Gauge
	snapshotTime     prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers every collector, plus the Go and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		strategyAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vagas_strategy_attempts_total",
				Help: "Access strategy attempts, labeled by strategy and outcome.",
			},
			[]string{"strategy", "outcome"},
		),
		refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vagas_refresh_total",
				Help: "Snapshot refreshes, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		refreshDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vagas_refresh_duration_seconds",
				Help:    "Time spent retrieving the whole feed.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		),
		snapshotJobs: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "vagas_snapshot_jobs",
				Help: "Jobs in the current snapshot.",
			},
		),
		snapshotTime: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "vagas_snapshot_timestamp_seconds",
				Help: "Unix time of the last successful refresh.",
			},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vagas_http_requests_total",
				Help: "API requests, labeled by method, route and code.",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vagas_http_request_duration_seconds",
				Help:    "API request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveAttempt counts one strategy attempt.
func (r *Recorder) ObserveAttempt(strategy string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.strategyAttempts.WithLabelValues(strategy, outcome).Inc()
}

// ObserveRefresh records one scheduler refresh. jobs is only used on success.
func (r *Recorder) ObserveRefresh(ok bool, jobs int, elapsed time.Duration) {
	r.refreshDuration.Observe(elapsed.Seconds())
	if !ok {
		r.refreshes.WithLabelValues("failure").Inc()
		return
	}
	r.refreshes.WithLabelValues("success").Inc()
	r.snapshotJobs.Set(float64(jobs))
	r.snapshotTime.SetToCurrentTime()
}

// ObserveHTTPRequest records one served API request.
func (r *Recorder) ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
