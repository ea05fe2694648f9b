package expr

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priorityArgs() ParserArgs {
	args := DefaultArgs()
	args.ApplyAndOrPriority = true
	return args
}

func TestParseCondition_Display(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"'$(Configuration)' == ''", "('$(Configuration)' == '')"},
		{
			"( '$(ProjectOutput)' <= '@(Configuration)' AnD 12 < 24.0 ) Or 12==24",
			"((('$(ProjectOutput)' <= '@(Configuration)') AND (12 < 24.0)) OR (12 == 24))",
		},
		{
			"1==2 and 2==2 AND 3==2 and 4==2 and 5==2",
			"(((((1 == 2) AND (2 == 2)) AND (3 == 2)) AND (4 == 2)) AND (5 == 2))",
		},
		{
			"1==2 or 2==2 OR 3==2 or 4==2 Or 5==2",
			"(((((1 == 2) OR (2 == 2)) OR (3 == 2)) OR (4 == 2)) OR (5 == 2))",
		},
		{"!true", "!true"},
		{"!!false", "!!false"},
		{"not (1 == 2)", "!(1 == 2)"},
		{"TRUE == false", "(true == false)"},
		{"((true))", "true"},
		{"exists('a', 'b')", "exists('a', 'b')"},
		{"f()", "f()"},
		{"hasTrailingSlash($(Dir))", "hasTrailingSlash($(Dir))"},
		{"%(Src . Kind) == 'code'", "(%(Src.Kind) == 'code')"},
		{"@(Src -> '%(Filename)') != ''", "(@(Src->'%(Filename)') != '')"},
		{"-1.50 >= -2", "(-1.50 >= -2)"},
		{"!1 == 2", "(!1 == 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := ParseCondition(tt.input, DefaultArgs())
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestParseCondition_Priority(t *testing.T) {
	tests := []struct {
		input string
		want  string
		pos   int
	}{
		{"1==2 and 2==2 OR 3==2", "(((1 == 2) AND (2 == 2)) OR (3 == 2))", 14},
		{"1==2 or 2==2 and 3==2", "((1 == 2) OR ((2 == 2) AND (3 == 2)))", 13},
		{"true or false and true or false", "((true OR (false AND true)) OR false)", 14},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCondition(tt.input, DefaultArgs())
			require.ErrorIs(t, err, ErrAmbiguousPriority)
			var pe *PriorityError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.pos, pe.Pos)

			n, err := ParseCondition(tt.input, priorityArgs())
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestParseCondition_ParenthesesResolvePriority(t *testing.T) {
	n, err := ParseCondition("(1==2 and 2==2) or 3==2", DefaultArgs())
	require.NoError(t, err)
	assert.Equal(t, "(((1 == 2) AND (2 == 2)) OR (3 == 2))", n.String())
}

func TestParseCondition_Errors(t *testing.T) {
	noProps := DefaultArgs()
	noProps.AllowProperties = false
	noTags := DefaultArgs()
	noTags.AllowTags = false

	tests := []struct {
		name   string
		input  string
		args   ParserArgs
		target error
	}{
		{"empty", "", DefaultArgs(), ErrParser},
		{"whitespace only", "   ", DefaultArgs(), ErrParser},
		{"chained comparison", "'$(Configuration)' == '' == 24", DefaultArgs(), ErrParser},
		{"trailing operand", "1 == 2 12", DefaultArgs(), ErrParser},
		{"trailing comma", "exists('a',)", DefaultArgs(), ErrParser},
		{"unclosed paren", "(1 == 2", DefaultArgs(), ErrParser},
		{"leading close paren", ") 1 == 2", DefaultArgs(), ErrParser},
		{"empty parens", "()", DefaultArgs(), ErrParser},
		{"missing operand", "1 ==", DefaultArgs(), ErrParser},
		{"operator only", "and", DefaultArgs(), ErrParser},
		{"unclosed call", "exists('a'", DefaultArgs(), ErrParser},
		{"items disallowed", "@(X) == ''", ConditionArgs(), ErrParser},
		{"properties disallowed", "$(X) == ''", noProps, ErrParser},
		{"tags disallowed", "%(X) == ''", noTags, ErrParser},
		{"lexer error surfaces", "1 | 2", DefaultArgs(), ErrLexer},
		{"mixed and or", "1==2 or 2==2 and 3==2", DefaultArgs(), ErrAmbiguousPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCondition(tt.input, tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParseCondition_ErrorPositions(t *testing.T) {
	_, err := ParseCondition("1 == 2 12", DefaultArgs())
	var pe *ParserError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 7, pe.Pos)

	_, err = ParseCondition("'a' == 'b' == 'c'", DefaultArgs())
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 11, pe.Pos)

	_, err = ParseCondition("(1 == 2", DefaultArgs())
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 7, pe.Pos)
}

func TestParseCondition_ItemsInStringsFollowArgs(t *testing.T) {
	n, err := ParseCondition("'@(X)' == ''", ConditionArgs())
	require.NoError(t, err)
	assert.Empty(t, References(n), "item reference stays literal text")

	n, err = ParseCondition("'@(X)' == '%(Y)'", DefaultArgs())
	require.NoError(t, err)
	refs := References(n)
	require.Len(t, refs, 2)
	assert.Equal(t, "@(X)", refs[0].String())
	assert.Equal(t, "%(Y)", refs[1].String())
}

func TestParse_Tokens(t *testing.T) {
	tokens := []Token{
		{Type: TokenLiteral, Value: "true", Pos: 0},
		{Type: TokenAnd, Value: "and", Pos: 5},
		{Type: TokenNot, Value: "!", Pos: 9},
		{Type: TokenLiteral, Value: "false", Pos: 10},
	}
	n, err := Parse(tokens, DefaultArgs())
	require.NoError(t, err)
	assert.Equal(t, "(true AND !false)", n.String())

	and, ok := n.(*And)
	require.True(t, ok)
	assert.Equal(t, 5, and.Pos)
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() { MustParse("true") })
	assert.Panics(t, func() { MustParse("1 |") })
}

func TestEqual(t *testing.T) {
	a := MustParse("'x' == 1 and exists('p')")
	b := MustParse("'x'==1   AND exists( 'p' )")
	assert.True(t, Equal(a, b), "positions are ignored")

	assert.False(t, Equal(MustParse("1 == 2"), MustParse("1 != 2")))
	assert.False(t, Equal(MustParse("1 == 2"), MustParse("1 == '2'")))
	assert.False(t, Equal(MustParse("f(1)"), MustParse("f(1, 2)")))
	assert.False(t, Equal(MustParse("true and true"), MustParse("true or true")))
	assert.True(t, Equal(MustParse("TRUE"), MustParse("true")))
}

// randomCondition builds a syntactically valid condition. Every and/or
// is parenthesized, so the text is valid in strict mode.
func randomCondition(r *rand.Rand, depth int) string {
	values := []string{
		"1", "-2.5", "24.0", "'abc'", "''", "'$(P)'", "'%(Origin)'",
		"$(P)", "%(Src.Kind)", "@(Src->'%(Filename)',',')", "@(Src)", "true",
	}
	ops := []string{"==", "!=", "<", "<=", ">", ">="}
	keywords := []string{"and", "AND", "And"}
	orKeywords := []string{"or", "OR", "Or"}

	if depth == 0 || r.Intn(3) == 0 {
		switch r.Intn(4) {
		case 0:
			return []string{"true", "false", "TRUE"}[r.Intn(3)]
		case 1:
			return "exists(" + values[r.Intn(len(values))] + ")"
		default:
			return values[r.Intn(len(values))] + " " + ops[r.Intn(len(ops))] + " " + values[r.Intn(len(values))]
		}
	}

	left := randomCondition(r, depth-1)
	right := randomCondition(r, depth-1)
	switch r.Intn(4) {
	case 0:
		return "(" + left + " " + keywords[r.Intn(len(keywords))] + " " + right + ")"
	case 1:
		return "(" + left + " " + orKeywords[r.Intn(len(orKeywords))] + " " + right + ")"
	case 2:
		return "not (" + left + ")"
	default:
		return "!(" + left + ")"
	}
}

func TestParse_DisplayRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	conditions := gen.Int64().Map(func(seed int64) string {
		return randomCondition(rand.New(rand.NewSource(seed)), 4)
	})

	properties.Property("reparsing the display form yields an equal tree", prop.ForAll(
		func(s string) bool {
			n, err := ParseCondition(s, DefaultArgs())
			if err != nil {
				return false
			}
			again, err := ParseCondition(n.String(), DefaultArgs())
			if err != nil {
				return false
			}
			return Equal(n, again) && again.String() == n.String()
		},
		conditions,
	))

	properties.Property("and/or chains parse the same in both modes", prop.ForAll(
		func(s string) bool {
			strict, err := ParseCondition(s, DefaultArgs())
			if err != nil {
				return false
			}
			prio, err := ParseCondition(s, priorityArgs())
			if err != nil {
				return false
			}
			return Equal(strict, prio)
		},
		conditions,
	))

	properties.Property("uniform chains are left nested", prop.ForAll(
		func(n int) bool {
			leaves := make([]string, n)
			for i := range leaves {
				leaves[i] = "true"
			}
			node, err := ParseCondition(strings.Join(leaves, " and "), DefaultArgs())
			if err != nil {
				return false
			}
			depth := 0
			for {
				and, ok := node.(*And)
				if !ok {
					break
				}
				if _, leaf := and.Right.(*Literal); !leaf {
					return false
				}
				node = and.Left
				depth++
			}
			return depth == n-1
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
