package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records batch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordBatchRun records a finished run with its row count.
	RecordBatchRun(ctx context.Context, batch string, rows int, success bool, duration time.Duration)

	// RecordOutputError records an output that failed for one row.
	RecordOutputError(ctx context.Context, batch, output string)

	// RecordCompile records a compilation and its outcome.
	RecordCompile(ctx context.Context, batch string, duration time.Duration, err error)

	// RecordCacheHit records reuse of a cached compilation.
	RecordCacheHit(ctx context.Context, batch string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	batchRuns      metric.Int64Counter
	batchLatency   metric.Float64Histogram
	rowsEmitted    metric.Int64Counter
	outputErrors   metric.Int64Counter
	compiles       metric.Int64Counter
	compileLatency metric.Float64Histogram
	compileErrors  metric.Int64Counter
	cacheHits      metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("tagbatch")
	m := &otelMetrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.batchRuns, "tagbatch.batch.runs", "Number of batch runs"},
		{&m.rowsEmitted, "tagbatch.batch.rows", "Number of batch rows emitted"},
		{&m.outputErrors, "tagbatch.output.errors", "Number of outputs that failed for a row"},
		{&m.compiles, "tagbatch.compile.count", "Number of batch compilations"},
		{&m.compileErrors, "tagbatch.compile.errors", "Number of failed batch compilations"},
		{&m.cacheHits, "tagbatch.compile.cache_hits", "Number of compilations served from cache"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	m.batchLatency, err = meter.Float64Histogram("tagbatch.batch.latency_ms",
		metric.WithDescription("Batch run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	m.compileLatency, err = meter.Float64Histogram("tagbatch.compile.latency_ms",
		metric.WithDescription("Batch compile latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordBatchRun records a batch run.
func (m *otelMetrics) RecordBatchRun(ctx context.Context, batch string, rows int, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("batch", batch),
		attribute.Bool("success", success),
	)
	m.batchRuns.Add(ctx, 1, attrs)
	m.rowsEmitted.Add(ctx, int64(rows), attrs)
	m.batchLatency.Record(ctx, Milliseconds(duration), attrs)
}

// RecordOutputError records a failed output.
func (m *otelMetrics) RecordOutputError(ctx context.Context, batch, output string) {
	m.outputErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("batch", batch),
		attribute.String("output", output),
	))
}

// RecordCompile records a compilation.
func (m *otelMetrics) RecordCompile(ctx context.Context, batch string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("batch", batch))
	m.compiles.Add(ctx, 1, attrs)
	m.compileLatency.Record(ctx, Milliseconds(duration), attrs)
	if err != nil {
		m.compileErrors.Add(ctx, 1, attrs)
	}
}

// RecordCacheHit records a cache hit.
func (m *otelMetrics) RecordCacheHit(ctx context.Context, batch string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("batch", batch)))
}
