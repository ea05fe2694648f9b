package tagbatch

import (
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// row is one group of entries before its outputs are evaluated.
type row struct {
	// values[i] is the value of constraint i, fixed once set[i] is true.
	values []string
	found  []bool
	set    []bool

	// entries holds the row's entries per used item, in used-item order.
	entries [][]env.TagItem
	count   int
}

// group buckets the entries of every used item into rows.
//
// Entries are visited in used-item order, then entry order. An entry
// joins the first row whose fixed constraint values agree with its own
// values for every constraint that applies to its item. Constraints the
// row has not fixed yet are fixed by the joining entry. Missing metadata
// has the value "". Rows keep first-seen order.
//
// With no used items, or no entries at all, a single empty row is
// returned so conditions and scalar templates are still evaluated once.
func (cb *CompiledBatch) group(scope env.Scope) []*row {
	var rows []*row

	for itemIdx, item := range cb.items {
		for _, entry := range scope.Entries(item) {
			r := cb.findRow(rows, item, entry)
			if r == nil {
				r = cb.newRow()
				rows = append(rows, r)
			}
			cb.join(r, itemIdx, item, entry)
		}
	}

	if len(rows) == 0 {
		rows = append(rows, cb.newRow())
	}
	return rows
}

func (cb *CompiledBatch) newRow() *row {
	n := len(cb.constraints)
	return &row{
		values:  make([]string, n),
		found:   make([]bool, n),
		set:     make([]bool, n),
		entries: make([][]env.TagItem, len(cb.items)),
	}
}

func (cb *CompiledBatch) findRow(rows []*row, item string, entry env.TagItem) *row {
	for _, r := range rows {
		if cb.accepts(r, item, entry) {
			return r
		}
	}
	return nil
}

func (cb *CompiledBatch) accepts(r *row, item string, entry env.TagItem) bool {
	for i, c := range cb.constraints {
		if !r.set[i] || !c.appliesTo(item) {
			continue
		}
		v, _ := entry.Metadata(c.Key)
		if v != r.values[i] {
			return false
		}
	}
	return true
}

func (cb *CompiledBatch) join(r *row, itemIdx int, item string, entry env.TagItem) {
	for i, c := range cb.constraints {
		if r.set[i] || !c.appliesTo(item) {
			continue
		}
		r.values[i], r.found[i] = entry.Metadata(c.Key)
		r.set[i] = true
	}
	r.entries[itemIdx] = append(r.entries[itemIdx], entry)
	r.count++
}
