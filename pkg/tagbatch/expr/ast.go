package expr

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// Node is a parsed expression.
//
// String returns the canonical fully parenthesized form. Parsing that
// form again yields a node that is Equal to the original.
type Node interface {
	String() string

	// Position returns the byte offset of the node in the source text.
	Position() int

	node()
}

// LiteralKind identifies the type of a Literal.
type LiteralKind int

const (
	LiteralBool LiteralKind = iota
	LiteralNumber
	LiteralString
)

// Literal is a boolean, number or quoted string.
type Literal struct {
	Kind LiteralKind
	// Raw is the source text; strings keep their quotes.
	Raw string

	Bool   bool
	Number decimal.Decimal
	// Parts is the decomposed content of a string literal.
	Parts template.Parts

	Pos int
}

// PropertyRef is a bare $(Name) reference.
type PropertyRef struct {
	Name string
	Pos  int
}

// ItemRef is a bare @(...) reference.
type ItemRef struct {
	Part template.ItemPart
	Pos  int
}

// TagRef is a bare %(Key) or %(Item.Key) reference.
type TagRef struct {
	Item string
	Key  string
	Pos  int
}

// Not negates a boolean operand.
type Not struct {
	X   Node
	Pos int
}

// Compare applies one relational operator.
type Compare struct {
	Op    TokenType
	Left  Node
	Right Node
	Pos   int
}

// And is a short-circuiting conjunction.
type And struct {
	Left  Node
	Right Node
	Pos   int
}

// Or is a short-circuiting disjunction.
type Or struct {
	Left  Node
	Right Node
	Pos   int
}

// Call is a function call.
type Call struct {
	Name string
	Args []Node
	Pos  int
}

func (*Literal) node()     {}
func (*PropertyRef) node() {}
func (*ItemRef) node()     {}
func (*TagRef) node()      {}
func (*Not) node()         {}
func (*Compare) node()     {}
func (*And) node()         {}
func (*Or) node()          {}
func (*Call) node()        {}

func (n *Literal) Position() int     { return n.Pos }
func (n *PropertyRef) Position() int { return n.Pos }
func (n *ItemRef) Position() int     { return n.Pos }
func (n *TagRef) Position() int      { return n.Pos }
func (n *Not) Position() int         { return n.Pos }
func (n *Compare) Position() int     { return n.Pos }
func (n *And) Position() int         { return n.Pos }
func (n *Or) Position() int          { return n.Pos }
func (n *Call) Position() int        { return n.Pos }

var opSymbols = map[TokenType]string{
	TokenEq: "==",
	TokenNe: "!=",
	TokenLe: "<=",
	TokenLt: "<",
	TokenGt: ">",
	TokenGe: ">=",
}

func (n *Literal) String() string {
	if n.Kind == LiteralBool {
		if n.Bool {
			return "true"
		}
		return "false"
	}
	return n.Raw
}

func (n *PropertyRef) String() string {
	return template.PropertyPart{Name: n.Name}.String()
}

func (n *ItemRef) String() string {
	return n.Part.String()
}

func (n *TagRef) String() string {
	return template.TagPart{Item: n.Item, Key: n.Key}.String()
}

func (n *Not) String() string {
	return "!" + n.X.String()
}

func (n *Compare) String() string {
	return "(" + n.Left.String() + " " + opSymbols[n.Op] + " " + n.Right.String() + ")"
}

func (n *And) String() string {
	return "(" + n.Left.String() + " AND " + n.Right.String() + ")"
}

func (n *Or) String() string {
	return "(" + n.Left.String() + " OR " + n.Right.String() + ")"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// Equal reports whether a and b are structurally identical, ignoring
// source positions.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		if !ok || x.Kind != y.Kind {
			return false
		}
		switch x.Kind {
		case LiteralBool:
			return x.Bool == y.Bool
		case LiteralNumber:
			return x.Raw == y.Raw && x.Number.Equal(y.Number)
		default:
			return x.Raw == y.Raw
		}
	case *PropertyRef:
		y, ok := b.(*PropertyRef)
		return ok && x.Name == y.Name
	case *ItemRef:
		y, ok := b.(*ItemRef)
		return ok && x.Part.String() == y.Part.String()
	case *TagRef:
		y, ok := b.(*TagRef)
		return ok && x.Item == y.Item && x.Key == y.Key
	case *Not:
		y, ok := b.(*Not)
		return ok && Equal(x.X, y.X)
	case *Compare:
		y, ok := b.(*Compare)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *And:
		y, ok := b.(*And)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Or:
		y, ok := b.(*Or)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Walk calls fn for n and every node below it in depth-first order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	switch x := n.(type) {
	case *Not:
		Walk(x.X, fn)
	case *Compare:
		Walk(x.Left, fn)
		Walk(x.Right, fn)
	case *And:
		Walk(x.Left, fn)
		Walk(x.Right, fn)
	case *Or:
		Walk(x.Left, fn)
		Walk(x.Right, fn)
	case *Call:
		for _, a := range x.Args {
			Walk(a, fn)
		}
	}
}

// References returns every template part a node refers to: bare
// references as parts, plus the parts of string literals. The batch
// engine uses it to collect items and metadata keys of a condition.
func References(n Node) template.Parts {
	var out template.Parts
	Walk(n, func(n Node) {
		switch x := n.(type) {
		case *Literal:
			for _, p := range x.Parts {
				if _, lit := p.(template.Literal); !lit {
					out = append(out, p)
				}
			}
		case *PropertyRef:
			out = append(out, template.PropertyPart{Name: x.Name})
		case *ItemRef:
			out = append(out, x.Part)
		case *TagRef:
			out = append(out, template.TagPart{Item: x.Item, Key: x.Key})
		}
	})
	return out
}
