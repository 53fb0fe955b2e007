package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the paper ingestion service.
// Metrics are organized by subsystem: ingestion passes, papers, Entrez
// requests, and the HTTP API. All counters and histograms are registered via
// promauto for automatic registration with the default Prometheus registry.
type Metrics struct {
	// PassesStarted counts the total number of ingestion passes initiated.
	PassesStarted prometheus.Counter

	// PassesCompleted counts the total number of passes that finished successfully.
	PassesCompleted prometheus.Counter

	// PassesFailed counts the total number of passes that ended in a run-level error.
	PassesFailed prometheus.Counter

	// PassDuration observes the end-to-end duration of ingestion passes in seconds.
	PassDuration prometheus.Histogram

	// PapersFetched counts article records retrieved from the remote source.
	PapersFetched prometheus.Counter

	// PapersInserted counts newly persisted papers.
	PapersInserted prometheus.Counter

	// PapersSkipped counts papers skipped as already-present duplicates.
	PapersSkipped prometheus.Counter

	// PapersFailed counts per-record failures, labeled by stage (normalize, persist).
	PapersFailed *prometheus.CounterVec

	// EntrezRequestsTotal counts requests to the E-utilities API, labeled by endpoint.
	EntrezRequestsTotal *prometheus.CounterVec

	// EntrezRequestsFailed counts failed E-utilities requests, labeled by endpoint.
	EntrezRequestsFailed *prometheus.CounterVec

	// EntrezRequestDuration observes E-utilities request duration in seconds, labeled by endpoint.
	EntrezRequestDuration *prometheus.HistogramVec

	// HTTPRequestsTotal counts API requests, labeled by method, path, and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes API request duration in seconds, labeled by method and path.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Passes
		PassesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_started_total",
			Help:      "Total number of ingestion passes started",
		}),
		PassesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_completed_total",
			Help:      "Total number of ingestion passes completed successfully",
		}),
		PassesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_failed_total",
			Help:      "Total number of ingestion passes that failed",
		}),
		PassDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of ingestion passes in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		// Papers
		PapersFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_fetched_total",
			Help:      "Total number of article records fetched from the remote source",
		}),
		PapersInserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_inserted_total",
			Help:      "Total number of papers newly persisted",
		}),
		PapersSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_skipped_total",
			Help:      "Total number of papers skipped as duplicates",
		}),
		PapersFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_failed_total",
			Help:      "Total number of per-record failures by stage",
		}, []string{"stage"}),

		// Entrez
		EntrezRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entrez_requests_total",
			Help:      "Total number of E-utilities requests by endpoint",
		}, []string{"endpoint"}),
		EntrezRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entrez_requests_failed_total",
			Help:      "Total number of failed E-utilities requests by endpoint",
		}, []string{"endpoint"}),
		EntrezRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entrez_request_duration_seconds",
			Help:      "Duration of E-utilities requests in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),

		// HTTP API
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of API requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
	}
}

// RecordPassStarted increments the pass started counter.
func (m *Metrics) RecordPassStarted() {
	m.PassesStarted.Inc()
}

// RecordPassCompleted increments the completed counter and observes duration.
func (m *Metrics) RecordPassCompleted(durationSeconds float64) {
	m.PassesCompleted.Inc()
	m.PassDuration.Observe(durationSeconds)
}

// RecordPassFailed increments the failed counter and observes duration.
func (m *Metrics) RecordPassFailed(durationSeconds float64) {
	m.PassesFailed.Inc()
	m.PassDuration.Observe(durationSeconds)
}

// RecordPapersFetched adds to the fetched counter.
func (m *Metrics) RecordPapersFetched(count int) {
	m.PapersFetched.Add(float64(count))
}

// RecordPaperInserted increments the inserted counter.
func (m *Metrics) RecordPaperInserted() {
	m.PapersInserted.Inc()
}

// RecordPaperSkipped increments the duplicate-skip counter.
func (m *Metrics) RecordPaperSkipped() {
	m.PapersSkipped.Inc()
}

// RecordPaperFailed increments the per-record failure counter for a stage.
func (m *Metrics) RecordPaperFailed(stage string) {
	m.PapersFailed.WithLabelValues(stage).Inc()
}

// RecordEntrezRequest records a request to an E-utilities endpoint.
func (m *Metrics) RecordEntrezRequest(endpoint string, durationSeconds float64) {
	m.EntrezRequestsTotal.WithLabelValues(endpoint).Inc()
	m.EntrezRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordEntrezRequestFailed records a failed E-utilities request.
func (m *Metrics) RecordEntrezRequestFailed(endpoint string) {
	m.EntrezRequestsFailed.WithLabelValues(endpoint).Inc()
}

// RecordHTTPRequest records one API request observation.
func (m *Metrics) RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}
