package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/credstore/internal/errors"
)

// Status values attached to every operation reading.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BusinessMetrics records counts and latencies of use case operations.
//
// Domains used by credstore are "credentials", "permissions", "regeneration",
// "encryption" and "audit". Operations are snake_case verbs such as
// "credential_save" or "bulk_regenerate".
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, domain, operation, status string)
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// StatusFromError maps an operation result to a status label.
func StatusFromError(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// Observe records both the count and the latency of an operation started at start.
func Observe(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := StatusFromError(err)
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

type otelBusinessMetrics struct {
	ops     metric.Int64Counter
	latency metric.Float64Histogram
}

// latencyBuckets covers a cached read (sub-millisecond) up to a large bulk regeneration.
var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// NewBusinessMetrics registers <namespace>_operations_total and
// <namespace>_operation_duration_seconds on meterProvider.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	ops, err := meter.Int64Counter(namespace+"_operations_total",
		metric.WithDescription("Use case invocations by domain, operation and outcome"),
		metric.WithUnit("{operation}"))
	if err != nil {
		return nil, apperrors.Wrap(err, "operations counter")
	}

	latency, err := meter.Float64Histogram(namespace+"_operation_duration_seconds",
		metric.WithDescription("Use case latency by domain, operation and outcome"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...))
	if err != nil {
		return nil, apperrors.Wrap(err, "operation duration histogram")
	}

	return &otelBusinessMetrics{ops: ops, latency: latency}, nil
}

func labels(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributeSet(attribute.NewSet(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (m *otelBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.ops.Add(ctx, 1, labels(domain, operation, status))
}

func (m *otelBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.latency.Record(ctx, duration.Seconds(), labels(domain, operation, status))
}

// NoOpBusinessMetrics is installed when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics returns a NoOpBusinessMetrics.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (*NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (*NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}
