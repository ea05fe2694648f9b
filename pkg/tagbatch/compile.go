package tagbatch

import (
	"errors"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/expr"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// Compile validates the definition and creates an executable CompiledBatch.
// Returns an error if any output fails. Errors are joined together, one
// *OutputError per failing output.
//
// Compilation runs in three phases:
//  1. PrePrepare parses conditions and decomposes templates, collecting
//     the items each output refers to
//  2. Prepare binds the used items of the whole definition and decides
//     how each output is rendered
//  3. PostPrepare collects the grouping constraints: every metadata
//     reference anywhere in the definition
//
// Compile does not look at any environment. The same CompiledBatch can
// be run against many environments.
func (d *Definition) Compile(opts ...CompileOption) (*CompiledBatch, error) {
	cfg := defaultCompileConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(d.outputs) == 0 {
		return nil, ErrNoOutputs
	}

	outputs, errs := prePrepare(d.outputs, cfg)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cb := &CompiledBatch{
		name:        d.name,
		fingerprint: d.Fingerprint(),
		outputs:     outputs,
		index:       make(map[string]int, len(outputs)),
	}
	cb.prepare()
	cb.postPrepare(cfg)
	return cb, nil
}

// compiledOutput is one output after parsing.
type compiledOutput struct {
	def OutputDef

	// Exactly one of cond and parts is set.
	cond  expr.Node
	parts template.Parts

	// refs are the template parts the output refers to.
	refs template.Parts

	// single is set for Item outputs that are one untransformed item
	// reference, so the row entry itself is the value.
	single bool
}

func prePrepare(defs []OutputDef, cfg compileConfig) ([]*compiledOutput, []error) {
	var errs []error
	outputs := make([]*compiledOutput, 0, len(defs))

	for _, def := range defs {
		co := &compiledOutput{def: def}

		if def.Type == Condition {
			n, err := expr.ParseCondition(def.Text, cfg.conditionArgs)
			if err != nil {
				errs = append(errs, &OutputError{Output: def.Name, Op: "parse", Row: -1, Err: err})
				continue
			}
			co.cond = n
			co.refs = expr.References(n)
		} else {
			parts, err := template.Decompose(def.Text)
			if err != nil {
				errs = append(errs, &OutputError{Output: def.Name, Op: "parse", Row: -1, Err: err})
				continue
			}
			co.parts = parts
			co.refs = parts
		}

		outputs = append(outputs, co)
	}
	return outputs, errs
}

// prepare collects used items in first-seen order: item references plus
// the prefixes of prefixed metadata references.
func (cb *CompiledBatch) prepare() {
	for i, co := range cb.outputs {
		cb.index[env.FoldName(co.def.Name)] = i

		for _, item := range co.refs.Items() {
			cb.addItem(item)
		}
		for _, tag := range co.refs.Tags() {
			if tag.Item != "" {
				cb.addItem(tag.Item)
			}
		}

		if co.def.Type == Item && len(co.parts) == 1 {
			if ip, ok := co.parts[0].(template.ItemPart); ok && !ip.HasTransform {
				co.single = true
			}
		}
	}
}

func (cb *CompiledBatch) addItem(name string) {
	for _, it := range cb.items {
		if env.SameName(it, name) {
			return
		}
	}
	cb.items = append(cb.items, name)
}

// postPrepare collects the grouping constraints.
func (cb *CompiledBatch) postPrepare(cfg compileConfig) {
	for _, co := range cb.outputs {
		for _, tag := range co.refs.Tags() {
			if tag.Nested && !cfg.transformConstraints {
				continue
			}
			cb.addConstraint(Constraint{Item: tag.Item, Key: tag.Key})
		}
	}
}

func (cb *CompiledBatch) addConstraint(c Constraint) {
	for _, existing := range cb.constraints {
		if env.SameName(existing.Item, c.Item) && env.SameName(existing.Key, c.Key) {
			return
		}
	}
	cb.constraints = append(cb.constraints, c)
}
