/*
Package expr provides the condition language used by batch definitions.

# Overview

A condition is tokenized by a Lexer, parsed into a Node tree by Parse, and
evaluated against an env.Scope by an Evaluator. References resolve at
evaluation time, so one parsed tree can be evaluated once per batch row.

# Expression Syntax

	<boolean>    := <comparison> (('and' | 'or') <comparison>)*
	<comparison> := <unary> [<op> <unary>]
	<unary>      := ('!' | 'not') <unary> | <primary>
	<primary>    := 'string' | number | true | false
	              | $(Name) | @(Item...) | %(Key) | %(Item.Key)
	              | name(<boolean>, ...) | '(' <boolean> ')'
	<op>         := '==' | '!=' | '<' | '>' | '<=' | '>='

Keywords are case-insensitive. Comparisons do not chain: a == b == c is
an error.

# And/Or Priority

Mixing 'and' and 'or' at one level without parentheses is rejected with
a *PriorityError by default:

	_, err := expr.ParseCondition("a == 1 and b == 2 or c == 3", expr.DefaultArgs())
	// errors.Is(err, expr.ErrAmbiguousPriority)

Setting ParserArgs.ApplyAndOrPriority binds 'and' tighter:

	args := expr.DefaultArgs()
	args.ApplyAndOrPriority = true
	n, _ := expr.ParseCondition("1==2 and 2==2 or 3==2", args)
	// n.String(): "(((1 == 2) AND (2 == 2)) OR (3 == 2))"

# Comparison

Two number literals compare numerically:

	12 < 24.0          // true
	9 < 10             // true

Anything else compares as strings, byte by byte:

	'9' < '10'         // false
	'$(Config)' == ''  // true when Config is unset

Booleans only support == and != against other booleans.

# Strings

References inside quotes are substituted before comparison:

	'$(OutDir)' == 'bin'
	'%(Extension)' == '.cs'
	'@(Compile)' != ''

# Functions

Built-in functions:

	exists('a.txt;b.txt')    // every path exists in the configured fs.FS
	hasTrailingSlash('$(Dir)')

Register more with WithFunction:

	e := expr.NewEvaluator(
	    expr.WithFunction("isEmpty", func(_ *expr.EvalContext, args []expr.Value) (expr.Value, error) {
	        return expr.BoolValue(args[0].String() == ""), nil
	    }),
	)

# Errors

*LexerError, *ParserError and *PriorityError come from parsing.
*TypeError comes from evaluation and only affects that evaluation.
*/
package expr
