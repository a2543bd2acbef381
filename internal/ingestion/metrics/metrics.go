package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// Metrics holds Prometheus collectors for the ingestion pipeline.
type Metrics struct {
	BatchesTotal       *prometheus.CounterVec
	RowsIssued         prometheus.Counter
	RowsFailed         prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	IssueLatency       prometheus.Histogram
	BatchSize          prometheus.Histogram
}

// New registers ingestion collectors with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credhub_ingestion_batches_total",
			Help: "Total number of upload batches, labeled by outcome",
		}, []string{"outcome"}),
		RowsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "credhub_ingestion_rows_issued_total",
			Help: "Total number of rows issued as credentials",
		}),
		RowsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "credhub_ingestion_rows_failed_total",
			Help: "Total number of rows whose issuance failed",
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "credhub_ingestion_validation_failures_total",
			Help: "Total number of field validation failures, labeled by field",
		}, []string{"field"}),
		IssueLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "credhub_ingestion_issue_latency_seconds",
			Help:    "Latency of single credential issuance calls in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "credhub_ingestion_batch_rows",
			Help:    "Distribution of rows per upload batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

func (m *Metrics) ObserveBatch(outcome string, rows int) {
	m.BatchesTotal.WithLabelValues(outcome).Inc()
	m.BatchSize.Observe(float64(rows))
}

func (m *Metrics) IncrementValidationFailure(field string) {
	m.ValidationFailures.WithLabelValues(field).Inc()
}

func (m *Metrics) ObserveIssue(d time.Duration, ok bool) {
	m.IssueLatency.Observe(d.Seconds())
	if ok {
		m.RowsIssued.Inc()
		return
	}
	m.RowsFailed.Inc()
}
