// Package observability provides structured logging, metrics and tracing
// for batch compilation and runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds batch context to a logger.
// Returns a new logger with run_id and batch fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "copy-outputs")
//	enriched.Info("doing work") // includes run_id, batch
func EnrichLogger(logger *slog.Logger, runID, batch string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("batch", batch),
	)
}

// LogRunStart logs the start of a batch run.
func LogRunStart(logger *slog.Logger, runID, batch string) {
	if logger == nil {
		return
	}
	logger.Info("batch run starting",
		slog.String("run_id", runID),
		slog.String("batch", batch),
	)
}

// LogRunComplete logs a batch run that produced every row.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, rows, failed int) {
	if logger == nil {
		return
	}
	logger.Info("batch run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("rows_emitted", rows),
		slog.Int("rows_failed", failed),
	)
}

// LogRunStopped logs a run the consumer stopped early or that was cancelled.
func LogRunStopped(logger *slog.Logger, runID string, durationMs float64, rows int, cause error) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("rows_emitted", rows),
	}
	if cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	logger.Info("batch run stopped", attrs...)
}

// LogRowEmitted logs one produced row.
func LogRowEmitted(logger *slog.Logger, index, entries int) {
	if logger == nil {
		return
	}
	logger.Debug("row emitted",
		slog.Int("row", index),
		slog.Int("entries", entries),
	)
}

// LogRowFiltered logs a row dropped by the condition filter.
func LogRowFiltered(logger *slog.Logger, index int) {
	if logger == nil {
		return
	}
	logger.Debug("row filtered",
		slog.Int("row", index),
	)
}

// LogOutputError logs an output that failed for one row. The run continues.
func LogOutputError(logger *slog.Logger, index int, output string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("output failed",
		slog.Int("row", index),
		slog.String("output", output),
		slog.String("error", err.Error()),
	)
}

// LogCompile logs a successful compilation.
func LogCompile(logger *slog.Logger, batch string, outputs int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("batch compiled",
		slog.String("batch", batch),
		slog.Int("outputs", outputs),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCompileError logs a failed compilation.
func LogCompileError(logger *slog.Logger, batch string, err error) {
	if logger == nil {
		return
	}
	logger.Error("batch compile failed",
		slog.String("batch", batch),
		slog.String("error", err.Error()),
	)
}

// LogCacheHit logs reuse of a cached compilation.
func LogCacheHit(logger *slog.Logger, batch string, fingerprint uint64) {
	if logger == nil {
		return
	}
	logger.Debug("compiled batch reused",
		slog.String("batch", batch),
		slog.Uint64("fingerprint", fingerprint),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the time elapsed so far.
//
// Example:
//
//	elapsed := TimedOperation()
//	// ... do work ...
//	LogCompile(logger, batch, outputs, Milliseconds(elapsed()))
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
