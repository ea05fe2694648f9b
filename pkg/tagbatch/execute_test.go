package tagbatch

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/expr"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// TestRun_GroupsByMetadata tests grouping of entries by a referenced metadata value.
func TestRun_GroupsByMetadata(t *testing.T) {
	rows := runRows(t, copyDefinition(), projectOutputEnv())
	require.Len(t, rows, 2)

	dirA := rows[0]
	assert.Equal(t, 0, dirA.Index())
	assert.Equal(t, "dirA", get(t, dirA, "info").AsString())
	assert.True(t, get(t, dirA, "if").AsBool())
	assert.Equal(t,
		[]string{"assembly.dll", "assembly.pdb", "en/assembly.resources.dll"},
		specs(get(t, dirA, "src2").AsItems()))
	assert.Equal(t, 3, dirA.EntryCount())

	dirB := rows[1]
	assert.Equal(t, 1, dirB.Index())
	assert.Equal(t, "dirB", get(t, dirB, "info").AsString())
	assert.False(t, get(t, dirB, "if").AsBool())
	assert.Equal(t, []string{"res.txt"}, specs(get(t, dirB, "src2").AsItems()))
}

// TestRun_ItemListKeepsSourceEntries tests that list elements are the environment's entries.
func TestRun_ItemListKeepsSourceEntries(t *testing.T) {
	e := env.New()
	entry := e.AddItem("Src", "a.cs", "Kind", "code")

	rows := runRows(t, NewDefinition("b").AddOutput("files", "@(Src)", ItemList), e)
	require.Len(t, rows, 1)

	items := get(t, rows[0], "files").AsItems()
	require.Len(t, items, 1)
	assert.Same(t, entry, items[0])
	kind, ok := items[0].Metadata("Kind")
	assert.True(t, ok)
	assert.Equal(t, "code", kind)
}

// TestRun_Idempotent tests that repeated runs produce identical rows.
func TestRun_Idempotent(t *testing.T) {
	compiled := mustCompile(t, copyDefinition())
	e := projectOutputEnv()

	first := snapshot(collectRows(t, compiled.Run(context.Background(), e)))
	second := snapshot(collectRows(t, compiled.Run(context.Background(), e)))

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"src2=res.txt", "info=dirB", "if=false"}, second[1])
}

// TestRun_SequenceIsReusable tests that one sequence value can be ranged twice.
func TestRun_SequenceIsReusable(t *testing.T) {
	seq := mustCompile(t, copyDefinition()).Run(context.Background(), projectOutputEnv())

	assert.Len(t, collectRows(t, seq), 2)
	assert.Len(t, collectRows(t, seq), 2)
}

// TestRun_TagOnlyDefinition tests that tags alone do not select items to group.
func TestRun_TagOnlyDefinition(t *testing.T) {
	def := NewDefinition("tags").
		AddOutput("info", "%(Origin)", String).
		AddCondition("empty", "'%(Origin)' == ''")

	compiled := mustCompile(t, def)
	assert.Empty(t, compiled.Items())

	rows := runRows(t, def, projectOutputEnv())
	require.Len(t, rows, 1)
	assert.Equal(t, "", get(t, rows[0], "info").AsString())
	assert.True(t, rows[0].ConditionResult("empty"))
	assert.Equal(t, 0, rows[0].EntryCount())
}

// TestRun_ConditionItemTransform tests bare item transforms inside conditions.
func TestRun_ConditionItemTransform(t *testing.T) {
	e := env.New()
	e.AddItem("Src", "a.cs")
	e.AddItem("Src", "b.cs")

	def := NewDefinition("transforms").
		AddOutput("files", "@(Src)", StringList).
		AddCondition("names", "@(Src->'%(Filename)', ',') == 'a,b'").
		AddCondition("arrow", "@(Src=>'%(Extension)') == '.cs;.cs'")

	t.Run("without transform constraints", func(t *testing.T) {
		compiled := mustCompile(t, def, WithoutTransformConstraints())
		rows := collectRows(t, compiled.Run(context.Background(), e))

		require.Len(t, rows, 1)
		assert.True(t, rows[0].ConditionResult("names"))
		assert.True(t, rows[0].ConditionResult("arrow"))
	})

	t.Run("transform tags group rows", func(t *testing.T) {
		compiled := mustCompile(t, def)
		rows := collectRows(t, compiled.Run(context.Background(), e))

		require.Len(t, rows, 2)
		assert.False(t, rows[0].ConditionResult("names"))
		assert.Equal(t, []string{"a.cs"}, get(t, rows[0], "files").AsStrings())
		assert.False(t, rows[0].ConditionResult("arrow"))
	})
}

// TestRun_NoItems tests that a definition without item references yields one row.
func TestRun_NoItems(t *testing.T) {
	def := NewDefinition("props").
		AddOutput("config", "$(Configuration)", String).
		AddCondition("debug", "'$(Configuration)' == 'Debug'")

	rows := runRows(t, def, projectOutputEnv())

	require.Len(t, rows, 1)
	assert.Equal(t, "Debug", get(t, rows[0], "config").AsString())
	assert.True(t, rows[0].ConditionResult())
	assert.Equal(t, 0, rows[0].EntryCount())
}

// TestRun_UnknownItem tests that an item missing from the environment contributes nothing.
func TestRun_UnknownItem(t *testing.T) {
	def := NewDefinition("missing").
		AddOutput("files", "@(Missing)", ItemList).
		AddOutput("names", "@(Missing->'%(Filename)')", StringList)

	rows := runRows(t, def, projectOutputEnv())

	require.Len(t, rows, 1)
	assert.Empty(t, get(t, rows[0], "files").AsItems())
	assert.Empty(t, get(t, rows[0], "names").AsStrings())
	assert.Equal(t, 0, get(t, rows[0], "files").Len())
}

// TestRun_CrossItem tests that entries of different items share rows.
func TestRun_CrossItem(t *testing.T) {
	e := env.New()
	e.AddItem("Compile", "a.cs", "Dir", "x")
	e.AddItem("Compile", "b.cs", "Dir", "y")
	e.AddItem("Resource", "r.resx", "Dir", "x")

	def := NewDefinition("cross").
		AddOutput("src", "@(Compile)", StringList).
		AddOutput("res", "@(Resource)", StringList).
		AddOutput("dir", "%(Dir)", String)

	rows := runRows(t, def, e)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a.cs"}, get(t, rows[0], "src").AsStrings())
	assert.Equal(t, []string{"r.resx"}, get(t, rows[0], "res").AsStrings())
	assert.Equal(t, "x", get(t, rows[0], "dir").AsString())
	assert.Equal(t, 2, rows[0].EntryCount())

	assert.Equal(t, []string{"b.cs"}, get(t, rows[1], "src").AsStrings())
	assert.Empty(t, get(t, rows[1], "res").AsStrings())
	assert.Equal(t, "y", get(t, rows[1], "dir").AsString())
}

// TestRun_PrefixedConstraint tests that %(Item.Key) only groups entries of Item.
func TestRun_PrefixedConstraint(t *testing.T) {
	e := env.New()
	e.AddItem("A", "a1", "K", "1")
	e.AddItem("A", "a2", "K", "2")
	e.AddItem("B", "b1", "K", "1")
	e.AddItem("B", "b2", "K", "3")

	def := NewDefinition("prefixed").
		AddOutput("key", "%(A.K)", String).
		AddOutput("others", "@(B)", StringList)

	compiled := mustCompile(t, def)
	assert.Equal(t, []string{"A", "B"}, compiled.Items())
	assert.Equal(t, []Constraint{{Item: "A", Key: "K"}}, compiled.Constraints())

	rows := collectRows(t, compiled.Run(context.Background(), e))
	require.Len(t, rows, 2)
	assert.Equal(t, "1", get(t, rows[0], "key").AsString())
	assert.Equal(t, []string{"b1", "b2"}, get(t, rows[0], "others").AsStrings())
	assert.Equal(t, "2", get(t, rows[1], "key").AsString())
	assert.Empty(t, get(t, rows[1], "others").AsStrings())
}

// TestRun_MissingMetadataGroupsAsEmpty tests that entries without a key share the "" group.
func TestRun_MissingMetadataGroupsAsEmpty(t *testing.T) {
	e := env.New()
	e.AddItem("Src", "a.cs")
	e.AddItem("Src", "b.cs", "Culture", "fr")
	e.AddItem("Src", "c.cs", "Culture", "")

	def := NewDefinition("culture").
		AddOutput("files", "@(Src)", StringList).
		AddOutput("culture", "%(Culture)", String)

	rows := runRows(t, def, e)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a.cs", "c.cs"}, get(t, rows[0], "files").AsStrings())
	assert.Equal(t, "", get(t, rows[0], "culture").AsString())
	assert.Equal(t, []string{"b.cs"}, get(t, rows[1], "files").AsStrings())
}

// TestRun_TransformConstraints tests grouping by metadata used only inside transforms.
func TestRun_TransformConstraints(t *testing.T) {
	e := env.New()
	e.AddItem("Src", "a.cs", "Culture", "en")
	e.AddItem("Src", "b.cs", "Culture", "fr")

	def := NewDefinition("objects").
		AddOutput("objs", "@(Src->'%(Culture)/%(Filename).o')", StringList)

	t.Run("included by default", func(t *testing.T) {
		compiled := mustCompile(t, def)
		assert.Equal(t, []Constraint{
			{Item: "Src", Key: "Culture"},
			{Item: "Src", Key: "Filename"},
		}, compiled.Constraints())

		rows := collectRows(t, compiled.Run(context.Background(), e))
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"en/a.o"}, get(t, rows[0], "objs").AsStrings())
		assert.Equal(t, []string{"fr/b.o"}, get(t, rows[1], "objs").AsStrings())
	})

	t.Run("excluded", func(t *testing.T) {
		compiled := mustCompile(t, def, WithoutTransformConstraints())
		assert.Empty(t, compiled.Constraints())

		rows := collectRows(t, compiled.Run(context.Background(), e))
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"en/a.o", "fr/b.o"}, get(t, rows[0], "objs").AsStrings())
	})
}

// TestRun_ItemOutputs tests the three forms of scalar item outputs.
func TestRun_ItemOutputs(t *testing.T) {
	e := env.New()
	entry := e.AddItem("Src", "a.cs")

	def := NewDefinition("items").
		AddOutput("one", "@(Src)", Item).
		AddOutput("obj", "@(Src->'%(Filename).o')", Item).
		AddOutput("none", "@(Missing)", Item)

	rows := runRows(t, def, e)
	require.Len(t, rows, 1)

	assert.Same(t, entry, get(t, rows[0], "one").AsItem())

	obj := get(t, rows[0], "obj")
	require.NotNil(t, obj.AsItem())
	assert.Equal(t, "a.o", obj.AsItem().ItemSpec())
	assert.Equal(t, "a.o", obj.String())

	none := get(t, rows[0], "none")
	assert.Nil(t, none.AsItem())
	assert.Equal(t, "", none.String())
	assert.Equal(t, 0, none.Len())
}

// TestRun_ItemOutputJoinsSeveralEntries tests an item output over a row with several entries.
func TestRun_ItemOutputJoinsSeveralEntries(t *testing.T) {
	e := env.New()
	e.AddItem("Src", "a.cs")
	e.AddItem("Src", "b.cs")

	rows := runRows(t, NewDefinition("joined").AddOutput("all", "@(Src)", Item), e)

	require.Len(t, rows, 1)
	assert.Equal(t, "a.cs;b.cs", get(t, rows[0], "all").AsItem().ItemSpec())
}

// TestRun_StringListSegments tests list rendering with literal segments.
func TestRun_StringListSegments(t *testing.T) {
	e := env.New().SetProperty("OutDir", "bin")
	e.AddItem("Src", "a.cs")
	e.AddItem("Src", "b.cs")

	def := NewDefinition("list").
		AddOutput("objs", "$(OutDir)/@(Src->'%(Filename)').o;extra", StringList).
		AddOutput("joined", "@(Src, ' ')", String)

	rows := runRows(t, def, e, WithMissingReferences(template.MissingError))

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"bin/a.o", "extra"}, get(t, rows[0], "objs").AsStrings())
	assert.Equal(t, "a.cs", get(t, rows[0], "joined").AsString())
	assert.Equal(t, []string{"bin/b.o", "extra"}, get(t, rows[1], "objs").AsStrings())
}

// TestRun_ConditionFilter tests that only rows passing every condition are yielded.
func TestRun_ConditionFilter(t *testing.T) {
	rows := runRows(t, copyDefinition(), projectOutputEnv(), WithConditionFilter())

	require.Len(t, rows, 1)
	assert.Equal(t, "dirA", get(t, rows[0], "info").AsString())
	assert.Equal(t, 0, rows[0].Index())
}

// TestRun_ConditionFilterKeepsIndex tests that filtered rows keep their run position.
func TestRun_ConditionFilterKeepsIndex(t *testing.T) {
	def := NewDefinition("copy").
		AddOutput("src", "@(ProjectOutput)", ItemList).
		AddOutput("info", "%(Origin)", String).
		AddCondition("if", "'%(Origin)' == 'dirB'")

	rows := runRows(t, def, projectOutputEnv(), WithConditionFilter())

	require.Len(t, rows, 1)
	assert.Equal(t, "dirB", get(t, rows[0], "info").AsString())
	assert.Equal(t, 1, rows[0].Index())
}

// TestRun_OutputErrorContinues tests that a failing row does not end the run.
func TestRun_OutputErrorContinues(t *testing.T) {
	e := env.New()
	e.AddItem("Src", "a.cs", "Extra", "1")
	e.AddItem("Src", "b.cs")
	e.AddItem("Src", "c.cs", "Extra", "2")

	def := NewDefinition("strict").
		AddOutput("files", "@(Src)", StringList).
		AddOutput("extra", "%(Extra)", String)

	results := collectAll(mustCompile(t, def).Run(
		context.Background(), e, WithMissingReferences(template.MissingError)))

	require.Len(t, results, 3)

	require.NoError(t, results[0].err)
	assert.Equal(t, "1", get(t, results[0].inst, "extra").AsString())

	assert.Nil(t, results[1].inst)
	var oe *OutputError
	require.ErrorAs(t, results[1].err, &oe)
	assert.Equal(t, "extra", oe.Output)
	assert.Equal(t, "render", oe.Op)
	assert.Equal(t, 1, oe.Row)
	var ue *template.UndefinedReferenceError
	require.ErrorAs(t, results[1].err, &ue)
	assert.Equal(t, []string{"%(Extra)"}, ue.Names)

	require.NoError(t, results[2].err)
	assert.Equal(t, "2", get(t, results[2].inst, "extra").AsString())
}

// TestRun_ConditionTypeError tests that evaluation errors keep their type and position.
func TestRun_ConditionTypeError(t *testing.T) {
	def := NewDefinition("bad").AddCondition("neg", "!'x'")

	results := collectAll(mustCompile(t, def).Run(context.Background(), env.New()))

	require.Len(t, results, 1)
	var oe *OutputError
	require.ErrorAs(t, results[0].err, &oe)
	assert.Equal(t, "neg", oe.Output)
	assert.Equal(t, "evaluate", oe.Op)
	assert.Equal(t, 0, oe.Row)
	assert.ErrorIs(t, results[0].err, expr.ErrType)

	var te *expr.TypeError
	require.ErrorAs(t, results[0].err, &te)
	assert.Equal(t, 0, te.Pos)
}

// TestRun_SeveralOutputErrorsJoined tests that every failing output of a row is reported.
func TestRun_SeveralOutputErrorsJoined(t *testing.T) {
	def := NewDefinition("bad").
		AddCondition("first", "!'x'").
		AddCondition("second", "'a' < true")

	results := collectAll(mustCompile(t, def).Run(context.Background(), env.New()))

	require.Len(t, results, 1)
	joined, ok := results[0].err.(interface{ Unwrap() []error })
	require.True(t, ok)
	errs := joined.Unwrap()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "output first")
	assert.Contains(t, errs[1].Error(), "output second")
}

// TestRun_Cancelled tests that a cancelled context ends the run with its error.
func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := collectAll(mustCompile(t, copyDefinition()).Run(ctx, projectOutputEnv()))

	require.Len(t, results, 1)
	assert.Nil(t, results[0].inst)
	assert.ErrorIs(t, results[0].err, context.Canceled)
}

// TestRun_NilEnvironment tests that running without a scope fails.
func TestRun_NilEnvironment(t *testing.T) {
	results := collectAll(mustCompile(t, copyDefinition()).Run(context.Background(), nil))

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].err, ErrNilEnvironment)
}

// TestRun_EarlyBreak tests that the consumer can stop pulling rows.
func TestRun_EarlyBreak(t *testing.T) {
	count := 0
	for inst, err := range mustCompile(t, copyDefinition()).Run(context.Background(), projectOutputEnv()) {
		require.NoError(t, err)
		require.NotNil(t, inst)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

// TestRun_ExistsUsesFS tests file checks against the run's file system.
func TestRun_ExistsUsesFS(t *testing.T) {
	e := env.New()
	e.AddItem("Src", "src/a.cs")
	e.AddItem("Src", "src/b.cs")

	fsys := fstest.MapFS{"src/a.cs": &fstest.MapFile{Data: []byte("class A {}")}}
	def := NewDefinition("exists").
		AddOutput("file", "@(Src)", String).
		AddCondition("present", "exists('%(Identity)')")

	rows := runRows(t, def, e, WithFS(fsys))

	require.Len(t, rows, 2)
	assert.True(t, rows[0].ConditionResult("present"))
	assert.False(t, rows[1].ConditionResult("present"))

	rows = runRows(t, def, e)
	assert.False(t, rows[0].ConditionResult("present"))
}

// TestInstance_ConditionResult tests the condition accessors.
func TestInstance_ConditionResult(t *testing.T) {
	def := NewDefinition("conds").
		AddOutput("src", "@(ProjectOutput)", StringList).
		AddOutput("info", "%(Origin)", String).
		AddCondition("isA", "'%(Origin)' == 'dirA'").
		AddCondition("always", "true")

	rows := runRows(t, def, projectOutputEnv())
	require.Len(t, rows, 2)

	tests := []struct {
		name  string
		row   int
		names []string
		want  bool
	}{
		{"all true", 0, nil, true},
		{"one false", 1, nil, false},
		{"named true", 1, []string{"always"}, true},
		{"named false", 1, []string{"always", "isA"}, false},
		{"case-insensitive", 0, []string{"ISA"}, true},
		{"not a condition", 0, []string{"info"}, false},
		{"unknown", 0, []string{"nope"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rows[tt.row].ConditionResult(tt.names...))
		})
	}
}

// TestInstance_NoConditions tests ConditionResult on a definition without conditions.
func TestInstance_NoConditions(t *testing.T) {
	rows := runRows(t, NewDefinition("plain").AddOutput("v", "x", String), env.New())

	require.Len(t, rows, 1)
	assert.True(t, rows[0].ConditionResult())
}

// TestInstance_Get tests output lookup.
func TestInstance_Get(t *testing.T) {
	rows := runRows(t, copyDefinition(), projectOutputEnv())

	v, ok := rows[0].Get("INFO")
	assert.True(t, ok)
	assert.Equal(t, String, v.Type())

	_, ok = rows[0].Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"src2", "info", "if"}, rows[0].Names())
}

// TestInstance_Scope tests evaluating expressions against a row.
func TestInstance_Scope(t *testing.T) {
	e := projectOutputEnv()
	e.AddItem("Other", "x.txt")
	rows := runRows(t, copyDefinition(), e)
	require.Len(t, rows, 2)

	ok, err := expr.Eval("'%(Origin)' == 'dirB' and '$(Configuration)' == 'Debug'", rows[1])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = expr.Eval("'@(ProjectOutput)' == 'res.txt'", rows[1])
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Len(t, rows[0].Entries("projectoutput"), 3)
	assert.Equal(t, []string{"x.txt"}, specs(rows[0].Entries("Other")))

	v, found := rows[0].Metadata("ProjectOutput", "Filename")
	assert.True(t, found)
	assert.Equal(t, "assembly", v)

	_, found = rows[0].Metadata("", "Unknown")
	assert.False(t, found)
}
