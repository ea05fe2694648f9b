package expr

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

// Lexer splits a condition into tokens.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns every token of input.
//
// Example:
//
//	tokens, err := expr.Tokenize("'$(Configuration)' == 'Debug'")
//	// tokens: String, Eq, String
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token. ok is false at the end of input,
// which is not an error.
func (l *Lexer) NextToken() (tok Token, ok bool, err error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{}, false, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch == '\'':
		return l.readString()
	case ch == '@' && l.peek() == '(':
		return l.readItem()
	case ch == '$' && l.peek() == '(':
		return l.readReference(TokenProperty, "property", func(s string) bool {
			_, ok := template.ParsePropertyReference(s)
			return ok
		})
	case ch == '%' && l.peek() == '(':
		return l.readReference(TokenTag, "metadata", func(s string) bool {
			_, ok := template.ParseTagReference(s)
			return ok
		})
	case isDigit(ch) || (ch == '-' && isDigit(l.peek())):
		return l.readNumber()
	case isIdentStart(ch):
		return l.readIdentifier()
	}

	switch ch {
	case '=':
		if l.peek() == '=' {
			return l.emit(TokenEq, start, 2)
		}
		return Token{}, false, l.errorf(start, "unexpected '=', did you mean '=='?")
	case '!':
		if l.peek() == '=' {
			return l.emit(TokenNe, start, 2)
		}
		return l.emit(TokenNot, start, 1)
	case '<':
		if l.peek() == '=' {
			return l.emit(TokenLe, start, 2)
		}
		return l.emit(TokenLt, start, 1)
	case '>':
		if l.peek() == '=' {
			return l.emit(TokenGe, start, 2)
		}
		return l.emit(TokenGt, start, 1)
	case '(':
		return l.emit(TokenLParen, start, 1)
	case ')':
		return l.emit(TokenRParen, start, 1)
	case ',':
		return l.emit(TokenComma, start, 1)
	}

	return Token{}, false, l.errorf(start, "unexpected character %q", ch)
}

func (l *Lexer) emit(typ TokenType, start, n int) (Token, bool, error) {
	l.pos = start + n
	return Token{Type: typ, Value: l.input[start:l.pos], Pos: start}, true, nil
}

func (l *Lexer) errorf(pos int, format string, args ...any) error {
	return &LexerError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// readString reads a single-quoted string. References inside are kept
// verbatim; there are no escape sequences.
func (l *Lexer) readString() (Token, bool, error) {
	start := l.pos
	end := strings.IndexByte(l.input[start+1:], '\'')
	if end < 0 {
		return Token{}, false, l.errorf(start, "unterminated string")
	}
	return l.emit(TokenString, start, end+2)
}

// readItem reads an @(...) reference up to the closing parenthesis that
// is outside quotes, so transforms may contain parentheses.
func (l *Lexer) readItem() (Token, bool, error) {
	start := l.pos
	quoted := false
	for i := start + 2; i < len(l.input); i++ {
		switch l.input[i] {
		case '\'':
			quoted = !quoted
		case ')':
			if quoted {
				continue
			}
			text := l.input[start : i+1]
			_, ok, err := template.ParseItemReference(text)
			if err != nil {
				return Token{}, false, l.errorf(start, "%v", err)
			}
			if !ok {
				return Token{}, false, l.errorf(start, "malformed item reference %s", text)
			}
			return l.emit(TokenItem, start, len(text))
		}
	}
	return Token{}, false, l.errorf(start, "unterminated item reference")
}

func (l *Lexer) readReference(typ TokenType, what string, valid func(string) bool) (Token, bool, error) {
	start := l.pos
	end := strings.IndexByte(l.input[start:], ')')
	if end < 0 {
		return Token{}, false, l.errorf(start, "unterminated %s reference", what)
	}
	text := l.input[start : start+end+1]
	if !valid(text) {
		return Token{}, false, l.errorf(start, "malformed %s reference %s", what, text)
	}
	return l.emit(typ, start, len(text))
}

// readNumber reads an integer or decimal with an optional leading minus.
func (l *Lexer) readNumber() (Token, bool, error) {
	start := l.pos
	i := start
	if l.input[i] == '-' {
		i++
	}
	for i < len(l.input) && isDigit(l.input[i]) {
		i++
	}
	if i < len(l.input) && l.input[i] == '.' {
		i++
		if i >= len(l.input) || !isDigit(l.input[i]) {
			return Token{}, false, l.errorf(start, "malformed number %s", l.input[start:i])
		}
		for i < len(l.input) && isDigit(l.input[i]) {
			i++
		}
	}
	if i < len(l.input) && (isIdentStart(l.input[i]) || l.input[i] == '.') {
		return Token{}, false, l.errorf(start, "malformed number %s", l.input[start:i+1])
	}
	return l.emit(TokenNumber, start, i-start)
}

// readIdentifier reads a keyword, boolean literal or function name.
func (l *Lexer) readIdentifier() (Token, bool, error) {
	start := l.pos
	i := start
	for i < len(l.input) && isIdentPart(l.input[i]) {
		i++
	}
	word := l.input[start:i]

	switch {
	case strings.EqualFold(word, "and"):
		return l.emit(TokenAnd, start, len(word))
	case strings.EqualFold(word, "or"):
		return l.emit(TokenOr, start, len(word))
	case strings.EqualFold(word, "not"):
		return l.emit(TokenNot, start, len(word))
	case strings.EqualFold(word, "true"), strings.EqualFold(word, "false"):
		return l.emit(TokenLiteral, start, len(word))
	case i < len(l.input) && l.input[i] == '(':
		return l.emit(TokenFunction, start, len(word))
	}
	return Token{}, false, l.errorf(start, "unexpected identifier %q", word)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
