// Package tracer provides a small tracing abstraction over OpenTelemetry.
//
// Ingestion batches and remote credential calls emit spans through the
// Tracer interface; NoopTracer serves tests and OTelTracer production.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span; the returned context carries it to child operations.
	//
	// Example:
	//   ctx, span := tr.Start(ctx, tracer.SpanIngestionBatch,
	//       tracer.Int64(tracer.AttrRowCount, int64(len(rows))),
	//   )
	//   defer span.End(err)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanIngestionBatch = "ingestion.batch"
	SpanIngestionRow   = "ingestion.row"
	SpanRemoteCall     = "credential.remote.call"
)

// Attribute keys.
const (
	AttrRowCount     = "ingestion.rows"
	AttrRowNumber    = "ingestion.row_number"
	AttrSuccessCount = "ingestion.success"
	AttrFailedCount  = "ingestion.failed"
	AttrCredentialID = "credential.id"
	AttrInstitution  = "credential.institution"
	AttrOperation    = "credential.operation"
	AttrHTTPStatus   = "http.status_code"
)

// Event names.
const (
	EventValidationRejected = "ingestion.validation_rejected"
	EventRowFailed          = "ingestion.row_failed"
	EventCircuitOpen        = "circuit.open"
)
