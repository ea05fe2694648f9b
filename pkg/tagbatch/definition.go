package tagbatch

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// OutputDef is one declared output of a Definition.
type OutputDef struct {
	Name string
	Type OutputType
	// Text is the template, or the expression for conditions.
	Text string
}

// Definition is a mutable builder for batch definitions.
// Use NewDefinition, chain AddOutput and AddCondition, then call
// Compile() to create an immutable CompiledBatch.
//
// Definition is NOT thread-safe during building.
//
// Example:
//
//	def := tagbatch.NewDefinition("copy").
//	    AddOutput("src", "@(ProjectOutput)", tagbatch.ItemList).
//	    AddOutput("info", "%(Origin)", tagbatch.String).
//	    AddCondition("if", "'%(Origin)' == 'dirA'")
//
//	compiled, err := def.Compile()
type Definition struct {
	name    string
	outputs []OutputDef
	index   map[string]int
}

// NewDefinition creates a new definition builder.
func NewDefinition(name string) *Definition {
	return &Definition{
		name:  name,
		index: make(map[string]int),
	}
}

// AddOutput declares a template output, or a condition when typ is Condition.
// Returns the definition for method chaining.
//
// Panics if:
//   - name is empty
//   - name is already declared (case-insensitive)
//   - typ is not a declared OutputType
func (d *Definition) AddOutput(name, text string, typ OutputType) *Definition {
	if name == "" {
		panic("tagbatch: output name cannot be empty")
	}
	if !typ.Valid() {
		panic(fmt.Sprintf("tagbatch: invalid output type %d for output %s", int(typ), name))
	}

	key := env.FoldName(name)
	if _, exists := d.index[key]; exists {
		panic(fmt.Sprintf("tagbatch: duplicate output name: %s", name))
	}

	d.index[key] = len(d.outputs)
	d.outputs = append(d.outputs, OutputDef{Name: name, Type: typ, Text: text})
	return d
}

// AddCondition declares a condition output.
// Returns the definition for method chaining.
func (d *Definition) AddCondition(name, expr string) *Definition {
	return d.AddOutput(name, expr, Condition)
}

// Name returns the definition name.
func (d *Definition) Name() string {
	return d.name
}

// Outputs returns the declared outputs in declaration order.
func (d *Definition) Outputs() []OutputDef {
	out := make([]OutputDef, len(d.outputs))
	copy(out, d.outputs)
	return out
}

// Fingerprint hashes the definition structure. Two definitions with the
// same name and the same outputs in the same order have the same
// fingerprint.
func (d *Definition) Fingerprint() uint64 {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(strconv.Itoa(len(s)))
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(s)
	}

	write(d.name)
	for _, o := range d.outputs {
		write(o.Name)
		write(o.Type.String())
		write(o.Text)
	}
	return h.Sum64()
}
