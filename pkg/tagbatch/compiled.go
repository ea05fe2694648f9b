package tagbatch

import (
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// Constraint is a metadata reference that groups entries into rows.
// A constraint with an Item only applies to entries of that item.
type Constraint struct {
	Item string
	Key  string
}

// String returns the constraint as it would be written in a template.
func (c Constraint) String() string {
	if c.Item == "" {
		return "%(" + c.Key + ")"
	}
	return "%(" + c.Item + "." + c.Key + ")"
}

// appliesTo reports whether the constraint groups entries of item.
func (c Constraint) appliesTo(item string) bool {
	return c.Item == "" || env.SameName(c.Item, item)
}

// CompiledBatch is an immutable, executable batch definition.
// It is created by calling Compile() on a Definition.
//
// CompiledBatch can be run any number of times against different
// environments. Each Run call is independent; the produced rows are the
// same given the same environment.
type CompiledBatch struct {
	name        string
	fingerprint uint64
	outputs     []*compiledOutput
	index       map[string]int

	// items are the used items in first-seen order.
	items       []string
	constraints []Constraint
}

// Name returns the definition name.
func (cb *CompiledBatch) Name() string {
	return cb.name
}

// Fingerprint returns the fingerprint of the definition it was compiled from.
func (cb *CompiledBatch) Fingerprint() uint64 {
	return cb.fingerprint
}

// Items returns the items referenced anywhere in the definition, in
// first-seen order.
func (cb *CompiledBatch) Items() []string {
	items := make([]string, len(cb.items))
	copy(items, cb.items)
	return items
}

// Constraints returns the metadata references rows are grouped by.
func (cb *CompiledBatch) Constraints() []Constraint {
	cs := make([]Constraint, len(cb.constraints))
	copy(cs, cb.constraints)
	return cs
}

// Outputs returns the output definitions in declaration order.
func (cb *CompiledBatch) Outputs() []OutputDef {
	defs := make([]OutputDef, len(cb.outputs))
	for i, co := range cb.outputs {
		defs[i] = co.def
	}
	return defs
}

// HasOutput checks if an output is declared (case-insensitive).
func (cb *CompiledBatch) HasOutput(name string) bool {
	_, ok := cb.index[env.FoldName(name)]
	return ok
}

// output returns the compiled output with the given name.
func (cb *CompiledBatch) output(name string) (*compiledOutput, int, bool) {
	i, ok := cb.index[env.FoldName(name)]
	if !ok {
		return nil, -1, false
	}
	return cb.outputs[i], i, true
}
