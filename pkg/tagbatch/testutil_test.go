package tagbatch

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// projectOutputEnv returns the build outputs of a project: three entries
// from dirA and one from dirB.
func projectOutputEnv() *env.Environment {
	e := env.New().SetProperty("Configuration", "Debug")
	e.AddItem("ProjectOutput", "assembly.dll", "Origin", "dirA")
	e.AddItem("ProjectOutput", "assembly.pdb", "Origin", "dirA")
	e.AddItem("ProjectOutput", "en/assembly.resources.dll", "Origin", "dirA")
	e.AddItem("ProjectOutput", "res.txt", "Origin", "dirB")
	return e
}

// copyDefinition groups project outputs by origin.
func copyDefinition() *Definition {
	return NewDefinition("copy").
		AddOutput("src2", "@(ProjectOutput)", ItemList).
		AddOutput("info", "%(Origin)", String).
		AddCondition("if", "'%(Origin)' == 'dirA'")
}

func mustCompile(t *testing.T, def *Definition, opts ...CompileOption) *CompiledBatch {
	t.Helper()
	compiled, err := def.Compile(opts...)
	require.NoError(t, err)
	return compiled
}

// collectRows drains seq and fails the test on any error.
func collectRows(t *testing.T, seq iter.Seq2[*Instance, error]) []*Instance {
	t.Helper()
	var rows []*Instance
	for inst, err := range seq {
		require.NoError(t, err)
		rows = append(rows, inst)
	}
	return rows
}

// result is one element of a drained sequence.
type result struct {
	inst *Instance
	err  error
}

func collectAll(seq iter.Seq2[*Instance, error]) []result {
	var out []result
	for inst, err := range seq {
		out = append(out, result{inst: inst, err: err})
	}
	return out
}

func runRows(t *testing.T, def *Definition, scope env.Scope, opts ...RunOption) []*Instance {
	t.Helper()
	return collectRows(t, mustCompile(t, def).Run(context.Background(), scope, opts...))
}

func get(t *testing.T, inst *Instance, name string) Value {
	t.Helper()
	v, ok := inst.Get(name)
	require.True(t, ok, "output %s not found", name)
	return v
}

func specs(items []env.TagItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ItemSpec()
	}
	return out
}

// snapshot renders every output of every row as text.
func snapshot(rows []*Instance) [][]string {
	out := make([][]string, len(rows))
	for i, inst := range rows {
		for _, name := range inst.Names() {
			v, _ := inst.Get(name)
			out[i] = append(out[i], name+"="+v.String())
		}
	}
	return out
}
