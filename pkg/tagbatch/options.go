package tagbatch

import (
	"io/fs"
	"log/slog"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/expr"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/observability"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// compileConfig holds configuration for compilation.
type compileConfig struct {
	conditionArgs        expr.ParserArgs
	transformConstraints bool
}

// defaultCompileConfig returns the default compile configuration.
func defaultCompileConfig() compileConfig {
	return compileConfig{
		conditionArgs:        expr.DefaultArgs(),
		transformConstraints: true,
	}
}

// CompileOption configures compilation.
type CompileOption func(*compileConfig)

// WithConditionArgs sets the parser arguments for condition outputs.
// Default: expr.DefaultArgs(), every reference kind in strict mode.
func WithConditionArgs(args expr.ParserArgs) CompileOption {
	return func(c *compileConfig) {
		c.conditionArgs = args
	}
}

// WithAndOrPriority parses conditions with "and" binding tighter than
// "or" instead of rejecting unparenthesized mixes.
func WithAndOrPriority() CompileOption {
	return func(c *compileConfig) {
		c.conditionArgs.ApplyAndOrPriority = true
	}
}

// WithoutTransformConstraints excludes metadata referenced only inside
// item transforms from the grouping constraints. By default such
// metadata groups rows like any other reference.
func WithoutTransformConstraints() CompileOption {
	return func(c *compileConfig) {
		c.transformConstraints = false
	}
}

// runConfig holds configuration for batch execution.
type runConfig struct {
	conditionFilter bool
	runID           string
	fsys            fs.FS
	missingAction   template.MissingAction

	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	metricsEnabled bool
	spans          observability.SpanManager
	tracingEnabled bool
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		missingAction: template.MissingEmpty,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithConditionFilter yields only rows whose ConditionResult() is true.
//
// Example:
//
//	for inst, err := range compiled.Run(ctx, e, tagbatch.WithConditionFilter()) {
//	    // every inst satisfies all conditions
//	}
func WithConditionFilter() RunOption {
	return func(c *runConfig) {
		c.conditionFilter = true
	}
}

// WithRunID sets the run ID used in logs and spans.
// Default: a random UUID per run.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithFS sets the file system used by exists() in conditions.
func WithFS(fsys fs.FS) RunOption {
	return func(c *runConfig) {
		c.fsys = fsys
	}
}

// WithMissingReferences sets how unresolved references render.
// Default: template.MissingEmpty.
func WithMissingReferences(action template.MissingAction) RunOption {
	return func(c *runConfig) {
		c.missingAction = action
	}
}

// WithObservabilityLogger sets the logger for run events.
// Default: no logging.
func WithObservabilityLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the run.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		c.metricsEnabled = enabled
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans for the run.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}
