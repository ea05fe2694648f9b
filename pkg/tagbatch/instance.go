package tagbatch

import (
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// Instance is one produced row of a batch run.
//
// It holds the value of every output and the entries grouped into the
// row. Instance implements env.Scope: properties resolve through the
// run's environment, used items resolve to the row's entries, and
// metadata resolves to the row's grouping values first.
type Instance struct {
	batch  *CompiledBatch
	parent env.Scope
	index  int
	row    *row
	values []Value
}

// Compile-time interface check.
var _ env.Scope = (*Instance)(nil)

// Index returns the zero-based position of the row in the run.
func (inst *Instance) Index() int {
	return inst.index
}

// Names returns the output names in declaration order.
func (inst *Instance) Names() []string {
	names := make([]string, len(inst.batch.outputs))
	for i, co := range inst.batch.outputs {
		names[i] = co.def.Name
	}
	return names
}

// Get returns the value of an output (case-insensitive).
func (inst *Instance) Get(name string) (Value, bool) {
	_, i, ok := inst.batch.output(name)
	if !ok || i >= len(inst.values) {
		return Value{}, false
	}
	return inst.values[i], true
}

// ConditionResult reports whether the named conditions are all true.
// With no names, every declared condition is checked and the result is
// true when the definition has none. A name that is unknown or not a
// condition yields false.
//
// Example:
//
//	if inst.ConditionResult("if") {
//	    copyFiles(inst)
//	}
func (inst *Instance) ConditionResult(names ...string) bool {
	if len(names) == 0 {
		for i, co := range inst.batch.outputs {
			if co.def.Type == Condition && !inst.values[i].AsBool() {
				return false
			}
		}
		return true
	}

	for _, name := range names {
		co, i, ok := inst.batch.output(name)
		if !ok || co.def.Type != Condition || !inst.values[i].AsBool() {
			return false
		}
	}
	return true
}

// EntryCount returns the number of entries grouped into the row.
func (inst *Instance) EntryCount() int {
	return inst.row.count
}

// Property implements env.Scope.
func (inst *Instance) Property(name string) (string, bool) {
	return inst.parent.Property(name)
}

// Entries returns the row's entries of a used item. Other items resolve
// through the environment.
func (inst *Instance) Entries(item string) []env.TagItem {
	for i, it := range inst.batch.items {
		if env.SameName(it, item) {
			return inst.row.entries[i]
		}
	}
	return inst.parent.Entries(item)
}

// Metadata implements env.Scope. A grouping constraint fixed by the row
// answers first, then the first entry of the row for the item (any item
// when item is empty), then the environment.
func (inst *Instance) Metadata(item, key string) (string, bool) {
	for i, c := range inst.batch.constraints {
		if !inst.row.set[i] || !env.SameName(c.Key, key) {
			continue
		}
		if (item == "" && c.Item == "") || (item != "" && env.SameName(c.Item, item)) {
			return inst.row.values[i], inst.row.found[i]
		}
	}

	for i, it := range inst.batch.items {
		if item != "" && !env.SameName(it, item) {
			continue
		}
		if entries := inst.row.entries[i]; len(entries) > 0 {
			return entries[0].Metadata(key)
		}
	}

	return inst.parent.Metadata(item, key)
}
