package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBatch(OutcomeProcessed, 3)
	m.ObserveBatch(OutcomeRejected, 1)
	m.IncrementValidationFailure("title")
	m.ObserveIssue(10*time.Millisecond, true)
	m.ObserveIssue(20*time.Millisecond, false)
	m.ObserveIssue(30*time.Millisecond, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchesTotal.WithLabelValues(OutcomeProcessed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("title")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsFailed))
}
