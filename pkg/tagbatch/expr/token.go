package expr

import "fmt"

// TokenType identifies the kind of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenString
	TokenNumber
	TokenLiteral
	TokenProperty
	TokenItem
	TokenTag
	TokenFunction
	TokenEq
	TokenNe
	TokenLe
	TokenLt
	TokenGt
	TokenGe
	TokenNot
	TokenAnd
	TokenOr
	TokenLParen
	TokenRParen
	TokenComma
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "EOF",
	TokenString:   "String",
	TokenNumber:   "Number",
	TokenLiteral:  "Literal",
	TokenProperty: "Property",
	TokenItem:     "Item",
	TokenTag:      "Tag",
	TokenFunction: "Function",
	TokenEq:       "Eq",
	TokenNe:       "Ne",
	TokenLe:       "Le",
	TokenLt:       "Lt",
	TokenGt:       "Gt",
	TokenGe:       "Ge",
	TokenNot:      "Not",
	TokenAnd:      "And",
	TokenOr:       "Or",
	TokenLParen:   "LParen",
	TokenRParen:   "RParen",
	TokenComma:    "Comma",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsComparison reports whether t is one of == != <= < > >=.
func (t TokenType) IsComparison() bool {
	switch t {
	case TokenEq, TokenNe, TokenLe, TokenLt, TokenGt, TokenGe:
		return true
	}
	return false
}

// Token is a single lexical token. Value is the raw text of the token as
// it appears in the input, quotes included for strings.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Value, t.Pos)
}
