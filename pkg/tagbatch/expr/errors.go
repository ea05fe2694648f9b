package expr

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching of the error kinds.
var (
	// ErrLexer matches every *LexerError.
	ErrLexer = errors.New("lexer error")

	// ErrParser matches every *ParserError.
	ErrParser = errors.New("parser error")

	// ErrAmbiguousPriority matches every *PriorityError.
	ErrAmbiguousPriority = errors.New("ambiguous and/or priority")

	// ErrType matches every *TypeError.
	ErrType = errors.New("type error")

	// ErrUnknownFunction indicates a call to a function that is not registered.
	ErrUnknownFunction = errors.New("unknown function")
)

// LexerError reports a malformed token or an unterminated string or reference.
type LexerError struct {
	// Pos is the byte offset of the offending input.
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *LexerError) Error() string {
	return fmt.Sprintf("lexer error at position %d: %s", e.Pos, e.Msg)
}

// Unwrap returns ErrLexer for errors.Is support.
func (e *LexerError) Unwrap() error {
	return ErrLexer
}

// ParserError reports a structural grammar violation.
type ParserError struct {
	// Pos is the byte offset of the offending token.
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *ParserError) Error() string {
	return fmt.Sprintf("parser error at position %d: %s", e.Pos, e.Msg)
}

// Unwrap returns ErrParser for errors.Is support.
func (e *ParserError) Unwrap() error {
	return ErrParser
}

// PriorityError reports "and" and "or" mixed at one nesting level without
// parentheses. Parsing again with ParserArgs.ApplyAndOrPriority set
// resolves the ambiguity by binding "and" tighter.
type PriorityError struct {
	// Pos is the byte offset of the operator that introduced the mix.
	Pos int
}

// Error implements the error interface.
func (e *PriorityError) Error() string {
	return fmt.Sprintf("ambiguous priority at position %d: mixing 'and' and 'or' requires parentheses", e.Pos)
}

// Unwrap returns ErrAmbiguousPriority for errors.Is support.
func (e *PriorityError) Unwrap() error {
	return ErrAmbiguousPriority
}

// TypeError reports an operand of the wrong type during evaluation.
// It is fatal to one evaluation only; the expression can be evaluated
// again against another scope.
type TypeError struct {
	// Pos is the byte offset of the operator or call, -1 if unknown.
	Pos int
	// Op is the operator or function name.
	Op  string
	Msg string
	// Err is an optional cause.
	Err error
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	msg := fmt.Sprintf("type error at position %d: %s: %s", e.Pos, e.Op, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrType and the cause for errors.Is/As support.
func (e *TypeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrType, e.Err}
	}
	return []error{ErrType}
}
