package expr

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// parser is a recursive-descent parser over a token slice.
//
// Grammar, lowest precedence first:
//
//	boolean    := comparison (('and' | 'or') comparison)*
//	comparison := unary (cmpop unary)?
//	unary      := ('!' | 'not') unary | primary
//	primary    := literal | number | string | ref | call | '(' boolean ')'
//	call       := function '(' (boolean (',' boolean)*)? ')'
type parser struct {
	tokens []Token
	pos    int
	args   ParserArgs
}

// ParseCondition tokenizes and parses text.
//
// Example:
//
//	n, err := expr.ParseCondition("'$(Configuration)' == ''", expr.DefaultArgs())
//	// n.String(): "('$(Configuration)' == '')"
func ParseCondition(text string, args ParserArgs) (Node, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, args)
}

// MustParse is ParseCondition with DefaultArgs that panics on error.
func MustParse(text string) Node {
	n, err := ParseCondition(text, DefaultArgs())
	if err != nil {
		panic(fmt.Sprintf("expr: %v", err))
	}
	return n
}

// Parse builds an expression from tokens. All tokens must be consumed.
func Parse(tokens []Token, args ParserArgs) (Node, error) {
	p := &parser{tokens: tokens, args: args}
	if len(tokens) == 0 {
		return nil, &ParserError{Pos: 0, Msg: "empty expression"}
	}

	n, err := p.parseBoolean()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.current(); ok {
		return nil, p.errorf(tok.Pos, "unexpected %s %q after expression", tok.Type, tok.Value)
	}
	return n, nil
}

func (p *parser) current() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) is(typ TokenType) bool {
	tok, ok := p.current()
	return ok && tok.Type == typ
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// end is the offset just past the last token, used for errors at end of input.
func (p *parser) end() int {
	last := p.tokens[len(p.tokens)-1]
	return last.Pos + len(last.Value)
}

func (p *parser) expect(typ TokenType, msg string) (Token, error) {
	tok, ok := p.current()
	if !ok {
		return Token{}, p.errorf(p.end(), "%s, got end of expression", msg)
	}
	if tok.Type != typ {
		return Token{}, p.errorf(tok.Pos, "%s, got %s %q", msg, tok.Type, tok.Value)
	}
	return p.advance(), nil
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParserError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// parseBoolean parses a chain of comparisons joined by "and"/"or".
// Chains of one operator are left-nested. A mixed chain is a
// PriorityError unless ApplyAndOrPriority is set, in which case runs of
// "and" are grouped first.
func (p *parser) parseBoolean() (Node, error) {
	first, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	operands := []Node{first}
	var ops []Token
	for p.is(TokenAnd) || p.is(TokenOr) {
		ops = append(ops, p.advance())
		next, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(ops) == 0 {
		return first, nil
	}

	if !p.args.ApplyAndOrPriority {
		for _, op := range ops[1:] {
			if op.Type != ops[0].Type {
				return nil, &PriorityError{Pos: op.Pos}
			}
		}
	}

	var (
		disjuncts []Node
		orPos     []int
	)
	acc := operands[0]
	for i, op := range ops {
		right := operands[i+1]
		if op.Type == TokenAnd {
			acc = &And{Left: acc, Right: right, Pos: op.Pos}
			continue
		}
		disjuncts = append(disjuncts, acc)
		orPos = append(orPos, op.Pos)
		acc = right
	}
	disjuncts = append(disjuncts, acc)

	result := disjuncts[0]
	for i, d := range disjuncts[1:] {
		result = &Or{Left: result, Right: d, Pos: orPos[i]}
	}
	return result, nil
}

// parseComparison parses at most one relational operator.
func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	tok, ok := p.current()
	if !ok || !tok.Type.IsComparison() {
		return left, nil
	}
	p.advance()

	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if next, ok := p.current(); ok && next.Type.IsComparison() {
		return nil, p.errorf(next.Pos, "comparison operators cannot be chained, use parentheses")
	}
	return &Compare{Op: tok.Type, Left: left, Right: right, Pos: tok.Pos}, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.is(TokenNot) {
		tok := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{X: x, Pos: tok.Pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok, ok := p.current()
	if !ok {
		return nil, p.errorf(p.end(), "missing operand at end of expression")
	}

	switch tok.Type {
	case TokenLParen:
		p.advance()
		n, err := p.parseBoolean()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "missing ')'"); err != nil {
			return nil, err
		}
		return n, nil

	case TokenString:
		p.advance()
		inner := tok.Value[1 : len(tok.Value)-1]
		parts, err := template.Decompose(inner, template.WithAllowed(p.args.kinds()))
		if err != nil {
			return nil, p.errorf(tok.Pos, "%v", err)
		}
		return &Literal{Kind: LiteralString, Raw: tok.Value, Parts: parts, Pos: tok.Pos}, nil

	case TokenNumber:
		p.advance()
		d, err := decimal.NewFromString(tok.Value)
		if err != nil {
			return nil, p.errorf(tok.Pos, "invalid number %q", tok.Value)
		}
		return &Literal{Kind: LiteralNumber, Raw: tok.Value, Number: d, Pos: tok.Pos}, nil

	case TokenLiteral:
		p.advance()
		return &Literal{
			Kind: LiteralBool,
			Raw:  tok.Value,
			Bool: tok.Value[0] == 't' || tok.Value[0] == 'T',
			Pos:  tok.Pos,
		}, nil

	case TokenProperty:
		if !p.args.AllowProperties {
			return nil, p.errorf(tok.Pos, "property references are not allowed here: %s", tok.Value)
		}
		p.advance()
		pp, _ := template.ParsePropertyReference(tok.Value)
		return &PropertyRef{Name: pp.Name, Pos: tok.Pos}, nil

	case TokenItem:
		if !p.args.AllowItems {
			return nil, p.errorf(tok.Pos, "item references are not allowed here: %s", tok.Value)
		}
		p.advance()
		ip, _, err := template.ParseItemReference(tok.Value)
		if err != nil {
			return nil, p.errorf(tok.Pos, "%v", err)
		}
		return &ItemRef{Part: ip, Pos: tok.Pos}, nil

	case TokenTag:
		if !p.args.AllowTags {
			return nil, p.errorf(tok.Pos, "metadata references are not allowed here: %s", tok.Value)
		}
		p.advance()
		tp, _ := template.ParseTagReference(tok.Value)
		return &TagRef{Item: tp.Item, Key: tp.Key, Pos: tok.Pos}, nil

	case TokenFunction:
		return p.parseCall()
	}

	return nil, p.errorf(tok.Pos, "unexpected %s %q", tok.Type, tok.Value)
}

func (p *parser) parseCall() (Node, error) {
	name := p.advance()
	if _, err := p.expect(TokenLParen, fmt.Sprintf("expected '(' after %s", name.Value)); err != nil {
		return nil, err
	}

	call := &Call{Name: name.Value, Pos: name.Pos}
	if p.is(TokenRParen) {
		p.advance()
		return call, nil
	}

	for {
		arg, err := p.parseBoolean()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if !p.is(TokenComma) {
			break
		}
		comma := p.advance()
		if p.is(TokenRParen) {
			return nil, p.errorf(comma.Pos, "missing argument after ','")
		}
	}

	if _, err := p.expect(TokenRParen, fmt.Sprintf("missing ')' in call to %s", name.Value)); err != nil {
		return nil, err
	}
	return call, nil
}
