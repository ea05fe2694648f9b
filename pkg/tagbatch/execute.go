package tagbatch

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/expr"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/observability"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// Run groups the entries of scope into rows and yields one Instance per
// row, evaluating every output for it.
//
// The returned sequence is lazy: rows are grouped when iteration starts
// and outputs are evaluated as rows are pulled. Each iteration is
// independent and yields the same rows for the same environment.
//
// A row whose outputs fail yields (nil, err) where err is an *OutputError,
// or several joined with errors.Join, and iteration continues with the
// next row. Cancellation of ctx yields (nil, ctx.Err()) and ends the run.
//
// Example:
//
//	for inst, err := range compiled.Run(ctx, e) {
//	    if err != nil {
//	        log.Println(err)
//	        continue
//	    }
//	    info, _ := inst.Get("info")
//	    fmt.Println(info)
//	}
func (cb *CompiledBatch) Run(ctx context.Context, scope env.Scope, opts ...RunOption) iter.Seq2[*Instance, error] {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(*Instance, error) bool) {
		if scope == nil {
			yield(nil, ErrNilEnvironment)
			return
		}
		cb.run(ctx, scope, &cfg, yield)
	}
}

// runner holds the per-run state.
type runner struct {
	batch     *CompiledBatch
	scope     env.Scope
	evaluator *expr.Evaluator
	renderer  *template.Renderer
}

func (cb *CompiledBatch) run(ctx context.Context, scope env.Scope, cfg *runConfig, yield func(*Instance, error) bool) {
	runID := cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := observability.EnrichLogger(cfg.logger, runID, cb.name)

	elapsed := observability.TimedOperation()
	observability.LogRunStart(logger, runID, cb.name)

	runCtx := ctx
	var runSpan trace.Span
	if cfg.tracingEnabled {
		runCtx, runSpan = cfg.spans.StartRunSpan(ctx, cb.name, runID)
	}

	var (
		emitted int
		failed  int
		stopped bool
		stopErr error
	)
	defer func() {
		duration := elapsed()
		durationMs := observability.Milliseconds(duration)

		cfg.metrics.RecordBatchRun(runCtx, cb.name, emitted, stopErr == nil && failed == 0, duration)
		if runSpan != nil {
			cfg.spans.EndSpanWithError(runSpan, stopErr)
		}

		if stopped || stopErr != nil {
			observability.LogRunStopped(logger, runID, durationMs, emitted, stopErr)
		} else {
			observability.LogRunComplete(logger, runID, durationMs, emitted, failed)
		}
	}()

	r := &runner{
		batch: cb,
		scope: scope,
		evaluator: expr.NewEvaluator(
			expr.WithFS(cfg.fsys),
			expr.WithMissingAction(cfg.missingAction),
		),
		renderer: template.NewRenderer(template.WithMissingAction(cfg.missingAction)),
	}

	for i, rw := range cb.group(scope) {
		if err := ctx.Err(); err != nil {
			stopErr = err
			yield(nil, err)
			return
		}

		inst, errs := r.instantiate(i, rw)
		if len(errs) > 0 {
			failed++
			for _, err := range errs {
				var oe *OutputError
				if errors.As(err, &oe) {
					cfg.metrics.RecordOutputError(runCtx, cb.name, oe.Output)
					observability.LogOutputError(logger, i, oe.Output, oe.Err)
				}
			}
			err := errs[0]
			if len(errs) > 1 {
				err = errors.Join(errs...)
			}
			if !yield(nil, err) {
				stopped = true
				return
			}
			continue
		}

		if cfg.conditionFilter && !inst.ConditionResult() {
			observability.LogRowFiltered(logger, i)
			continue
		}

		emitted++
		observability.LogRowEmitted(logger, i, rw.count)
		cfg.spans.AddSpanEvent(runCtx, "row.emitted",
			attribute.Int("row.index", i),
			attribute.Int("row.entries", rw.count),
		)
		if !yield(inst, nil) {
			stopped = true
			return
		}
	}
}

// instantiate evaluates every output for one row.
func (r *runner) instantiate(index int, rw *row) (*Instance, []error) {
	inst := &Instance{
		batch:  r.batch,
		parent: r.scope,
		index:  index,
		row:    rw,
		values: make([]Value, len(r.batch.outputs)),
	}

	var errs []error
	for i, co := range r.batch.outputs {
		v, err := r.evaluate(co, inst)
		if err != nil {
			errs = append(errs, &OutputError{Output: co.def.Name, Op: opFor(co.def.Type), Row: index, Err: err})
			continue
		}
		inst.values[i] = v
	}
	return inst, errs
}

func opFor(t OutputType) string {
	if t == Condition {
		return "evaluate"
	}
	return "render"
}

// evaluate produces the value of one output against an instance.
func (r *runner) evaluate(co *compiledOutput, inst *Instance) (Value, error) {
	switch co.def.Type {
	case Condition:
		b, err := r.evaluator.EvaluateCondition(co.cond, inst)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil

	case String:
		s, err := r.renderer.Render(co.parts, inst)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil

	case Item:
		if co.single {
			ip := co.parts[0].(template.ItemPart)
			if entries := inst.Entries(ip.Item); len(entries) == 1 {
				return ItemValue(entries[0]), nil
			}
		}
		s, err := r.renderer.Render(co.parts, inst)
		if err != nil {
			return Value{}, err
		}
		if s == "" {
			return ItemValue(nil), nil
		}
		return ItemValue(env.NewEntry(co.def.Name, s)), nil

	case StringList:
		els, err := r.renderer.RenderList(co.parts, inst)
		if err != nil {
			return Value{}, err
		}
		strs := make([]string, len(els))
		for i, el := range els {
			strs[i] = el.Value
		}
		return StringListValue(strs), nil

	case ItemList:
		els, err := r.renderer.RenderList(co.parts, inst)
		if err != nil {
			return Value{}, err
		}
		items := make([]env.TagItem, len(els))
		for i, el := range els {
			if el.Source != nil {
				items[i] = el.Source
			} else {
				items[i] = env.NewEntry(co.def.Name, el.Value)
			}
		}
		return ItemListValue(items), nil
	}
	return Value{}, ErrUnknownOutputType
}
