package tagbatch

import (
	"context"
	"iter"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/observability"
)

// Engine compiles definitions once and runs them many times.
//
// Compiled batches are cached by Definition.Fingerprint(). The cache has
// no locking: an Engine must be used from one goroutine at a time.
//
// Example:
//
//	engine := tagbatch.NewEngine(tagbatch.WithEngineLogger(logger))
//	for inst, err := range engine.Run(ctx, def, e) {
//	    ...
//	}
type Engine struct {
	compileOpts []CompileOption
	runOpts     []RunOption

	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool

	cache map[uint64]*CompiledBatch
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCompileOptions sets the options every definition is compiled with.
func WithCompileOptions(opts ...CompileOption) EngineOption {
	return func(e *Engine) {
		e.compileOpts = append(e.compileOpts, opts...)
	}
}

// WithRunOptions sets options applied to every run before the per-call options.
func WithRunOptions(opts ...RunOption) EngineOption {
	return func(e *Engine) {
		e.runOpts = append(e.runOpts, opts...)
	}
}

// WithEngineLogger sets the logger for compile and run events.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
		e.runOpts = append(e.runOpts, WithObservabilityLogger(logger))
	}
}

// WithEngineMetrics enables OpenTelemetry metrics for compiles and runs.
func WithEngineMetrics(enabled bool) EngineOption {
	return func(e *Engine) {
		if enabled {
			e.metrics = observability.NewMetricsRecorder()
		} else {
			e.metrics = observability.NoopMetrics{}
		}
		e.runOpts = append(e.runOpts, WithMetrics(enabled))
	}
}

// WithEngineTracing enables OpenTelemetry spans for compiles and runs.
func WithEngineTracing(enabled bool) EngineOption {
	return func(e *Engine) {
		e.tracingEnabled = enabled
		if enabled {
			e.spans = observability.NewSpanManager()
		} else {
			e.spans = observability.NoopSpanManager{}
		}
		e.runOpts = append(e.runOpts, WithTracing(enabled))
	}
}

// NewEngine creates an engine with an empty cache.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		cache:   make(map[uint64]*CompiledBatch),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile returns the cached CompiledBatch for def, compiling it on the
// first call for its fingerprint. Failed compiles are not cached.
func (e *Engine) Compile(ctx context.Context, def *Definition) (compiled *CompiledBatch, err error) {
	fp := def.Fingerprint()
	if cb, ok := e.cache[fp]; ok {
		e.metrics.RecordCacheHit(ctx, def.Name())
		observability.LogCacheHit(e.logger, def.Name(), fp)
		return cb, nil
	}

	compileCtx := ctx
	if e.tracingEnabled {
		var span trace.Span
		compileCtx, span = e.spans.StartCompileSpan(ctx, def.Name(), fp)
		defer func() {
			e.spans.EndSpanWithError(span, err)
		}()
	}

	elapsed := observability.TimedOperation()
	compiled, err = def.Compile(e.compileOpts...)
	duration := elapsed()

	e.metrics.RecordCompile(compileCtx, def.Name(), duration, err)
	if err != nil {
		observability.LogCompileError(e.logger, def.Name(), err)
		return nil, err
	}
	observability.LogCompile(e.logger, def.Name(), len(compiled.outputs), observability.Milliseconds(duration))

	e.cache[fp] = compiled
	return compiled, nil
}

// Run compiles def through the cache and runs it against scope.
// A compile error is yielded once as (nil, err).
func (e *Engine) Run(ctx context.Context, def *Definition, scope env.Scope, opts ...RunOption) iter.Seq2[*Instance, error] {
	return func(yield func(*Instance, error) bool) {
		compiled, err := e.Compile(ctx, def)
		if err != nil {
			yield(nil, err)
			return
		}

		all := make([]RunOption, 0, len(e.runOpts)+len(opts))
		all = append(all, e.runOpts...)
		all = append(all, opts...)
		for inst, err := range compiled.Run(ctx, scope, all...) {
			if !yield(inst, err) {
				return
			}
		}
	}
}

// CacheLen returns the number of cached compiled batches.
func (e *Engine) CacheLen() int {
	return len(e.cache)
}

// Reset empties the compile cache.
func (e *Engine) Reset() {
	clear(e.cache)
}
