package expr

import (
	"fmt"
	"io/fs"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// Func is a function callable from conditions.
type Func func(ec *EvalContext, args []Value) (Value, error)

// EvalContext is what a Func sees of the evaluation.
type EvalContext struct {
	Scope env.Scope
	// FS is the file system for path functions; nil when none is configured.
	FS fs.FS
}

// Evaluator evaluates parsed expressions against a scope.
//
// An Evaluator holds no per-evaluation state and can be shared.
type Evaluator struct {
	functions map[string]Func
	fsys      fs.FS
	renderer  *template.Renderer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFunction registers a function. Names are case-insensitive and a
// registration replaces a built-in of the same name.
func WithFunction(name string, fn Func) Option {
	return func(e *Evaluator) {
		e.functions[env.FoldName(name)] = fn
	}
}

// WithFS sets the file system used by exists().
func WithFS(fsys fs.FS) Option {
	return func(e *Evaluator) {
		e.fsys = fsys
	}
}

// WithMissingAction sets how unresolved references are rendered.
func WithMissingAction(action template.MissingAction) Option {
	return func(e *Evaluator) {
		e.renderer = template.NewRenderer(template.WithMissingAction(action))
	}
}

// NewEvaluator creates an Evaluator with the built-in functions and the
// given options.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		functions: make(map[string]Func, len(builtins)),
		renderer:  template.NewRenderer(),
	}
	for name, fn := range builtins {
		e.functions[name] = fn
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the value of n. References resolve through scope at
// this point, so one node can be evaluated against many scopes.
func (e *Evaluator) Evaluate(n Node, scope env.Scope) (Value, error) {
	switch x := n.(type) {
	case *Literal:
		switch x.Kind {
		case LiteralBool:
			return BoolValue(x.Bool), nil
		case LiteralNumber:
			return numberLiteral(x.Raw, x.Number), nil
		}
		return e.render(x.Parts, x.Pos, scope)

	case *PropertyRef:
		return e.render(template.Parts{template.PropertyPart{Name: x.Name}}, x.Pos, scope)

	case *ItemRef:
		return e.render(template.Parts{x.Part}, x.Pos, scope)

	case *TagRef:
		return e.render(template.Parts{template.TagPart{Item: x.Item, Key: x.Key}}, x.Pos, scope)

	case *Not:
		b, err := e.evalBool(x.X, scope, "!", x.Pos)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!b), nil

	case *Compare:
		left, err := e.Evaluate(x.Left, scope)
		if err != nil {
			return Value{}, err
		}
		right, err := e.Evaluate(x.Right, scope)
		if err != nil {
			return Value{}, err
		}
		ok, err := CompareValues(x.Op, left, right)
		if err != nil {
			if te, isType := err.(*TypeError); isType {
				te.Pos = x.Pos
			}
			return Value{}, err
		}
		return BoolValue(ok), nil

	case *And:
		left, err := e.evalBool(x.Left, scope, "and", x.Pos)
		if err != nil || !left {
			return BoolValue(false), err
		}
		right, err := e.evalBool(x.Right, scope, "and", x.Pos)
		return BoolValue(right), err

	case *Or:
		left, err := e.evalBool(x.Left, scope, "or", x.Pos)
		if err != nil {
			return BoolValue(false), err
		}
		if left {
			return BoolValue(true), nil
		}
		right, err := e.evalBool(x.Right, scope, "or", x.Pos)
		return BoolValue(right), err

	case *Call:
		return e.call(x, scope)
	}

	return Value{}, fmt.Errorf("expr: unknown node type %T", n)
}

// EvaluateCondition evaluates n and requires a bool result.
func (e *Evaluator) EvaluateCondition(n Node, scope env.Scope) (bool, error) {
	return e.evalBool(n, scope, "condition", n.Position())
}

func (e *Evaluator) evalBool(n Node, scope env.Scope, op string, pos int) (bool, error) {
	v, err := e.Evaluate(n, scope)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, &TypeError{Pos: pos, Op: op, Msg: fmt.Sprintf("operand %s must be bool, got %s", n, v.Kind())}
	}
	return b, nil
}

func (e *Evaluator) render(parts template.Parts, pos int, scope env.Scope) (Value, error) {
	s, err := e.renderer.Render(parts, scope)
	if err != nil {
		return Value{}, fmt.Errorf("at position %d: %w", pos, err)
	}
	return StringValue(s), nil
}

func (e *Evaluator) call(c *Call, scope env.Scope) (Value, error) {
	fn, ok := e.functions[env.FoldName(c.Name)]
	if !ok {
		return Value{}, &TypeError{Pos: c.Pos, Op: c.Name, Msg: "cannot call", Err: ErrUnknownFunction}
	}

	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		v, err := e.Evaluate(a, scope)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	v, err := fn(&EvalContext{Scope: scope, FS: e.fsys}, args)
	if err != nil {
		if te, isType := err.(*TypeError); isType {
			if te.Pos < 0 {
				te.Pos = c.Pos
			}
			return Value{}, te
		}
		return Value{}, &TypeError{Pos: c.Pos, Op: c.Name, Msg: "call failed", Err: err}
	}
	return v, nil
}

// defaultEvaluator is the package-level evaluator with default settings.
var defaultEvaluator = NewEvaluator()

// Evaluate evaluates n using the default evaluator.
func Evaluate(n Node, scope env.Scope) (Value, error) {
	return defaultEvaluator.Evaluate(n, scope)
}

// EvaluateCondition evaluates n as a condition using the default evaluator.
func EvaluateCondition(n Node, scope env.Scope) (bool, error) {
	return defaultEvaluator.EvaluateCondition(n, scope)
}

// Eval parses text with DefaultArgs and evaluates it as a condition.
//
// Example:
//
//	e := env.New().SetProperty("Configuration", "Debug")
//	ok, err := expr.Eval("'$(Configuration)' == 'Debug' and 12 < 24.0", e)
//	// ok: true
func Eval(text string, scope env.Scope) (bool, error) {
	n, err := ParseCondition(text, DefaultArgs())
	if err != nil {
		return false, err
	}
	return defaultEvaluator.EvaluateCondition(n, scope)
}
