// Package metrics exposes ledger and export counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/application/export"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricStoreMutationsTotal      = "ledger_store_mutations_total"
	MetricExportTransmissionsTotal = "ledger_export_transmissions_total"
	MetricExportSchedulesTotal     = "ledger_export_schedules_total"
	MetricExportLastSuccess        = "ledger_export_last_success_timestamp_seconds"
	MetricHTTPRequestsTotal        = "ledger_http_requests_total"
	MetricHTTPRequestDuration      = "ledger_http_request_duration_seconds"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// HTTPDurationBuckets are the latency buckets for API requests
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Registry owns the ledger metrics on a private Prometheus registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Registry struct {
	registry *prometheus.Registry

	storeMutations      *prometheus.CounterVec
	exportTransmissions *prometheus.CounterVec
	exportSchedules     prometheus.Counter
	exportLastSuccess   prometheus.Gauge
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// NewRegistry creates the ledger metrics, plus the Go runtime and process collectors
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.storeMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricStoreMutationsTotal,
			Help: "Ledger store mutations by action and result.",
		},
		[]string{"action", "result"},
	)
	r.exportTransmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricExportTransmissionsTotal,
			Help: "Snapshot transmissions to the export endpoint by result.",
		},
		[]string{"result"},
	)
	r.exportSchedules = prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricExportSchedulesTotal,
		Help: "Times the debounced export timer was (re)armed.",
	})
	r.exportLastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricExportLastSuccess,
		Help: "Unix time of the last successful export transmission.",
	})
	r.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricHTTPRequestsTotal,
			Help: "API requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)
	r.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricHTTPRequestDuration,
			Help:    "API request latency in seconds.",
			Buckets: HTTPDurationBuckets,
		},
		[]string{"method", "route"},
	)

	r.registry.MustRegister(
		r.storeMutations,
		r.exportTransmissions,
		r.exportSchedules,
		r.exportLastSuccess,
		r.httpRequests,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordMutation implements dashboard.MutationRecorder
func (r *Registry) RecordMutation(action string, ok bool) {
	r.storeMutations.WithLabelValues(action, result(ok)).Inc()
}

// RecordSchedule implements export.Recorder
func (r *Registry) RecordSchedule() {
	r.exportSchedules.Inc()
}

// RecordTransmission implements export.Recorder
func (r *Registry) RecordTransmission(success bool, at time.Time) {
	r.exportTransmissions.WithLabelValues(result(success)).Inc()
	if success {
		r.exportLastSuccess.Set(float64(at.Unix()))
	}
}

// ObserveRequest records one API request
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry, mainly for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func result(ok bool) string {
	if ok {
		return resultSuccess
	}
	return resultFailure
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

var (
	_ dashboard.MutationRecorder = (*Registry)(nil)
	_ export.Recorder            = (*Registry)(nil)
)
