package expr

import (
	"github.com/shopspring/decimal"
)

// ValueKind identifies the type of a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return "string"
	}
}

// Value is the result of evaluating a node.
// The zero Value is the empty string.
type Value struct {
	kind ValueKind
	b    bool
	num  decimal.Decimal
	// s is the string form; for numbers it is the source text.
	s string
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	s := "false"
	if b {
		s = "true"
	}
	return Value{kind: KindBool, b: b, s: s}
}

// NumberValue returns a numeric value.
func NumberValue(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d, s: d.String()}
}

// numberLiteral keeps the source text as the string form, so 24.0 stays 24.0.
func numberLiteral(raw string, d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d, s: raw}
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind returns the value type.
func (v Value) Kind() ValueKind {
	return v.kind
}

// AsBool returns the boolean and whether v is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number and whether v is a number.
func (v Value) AsNumber() (decimal.Decimal, bool) {
	return v.num, v.kind == KindNumber
}

// String returns the string form used by ordinal comparison.
func (v Value) String() string {
	return v.s
}
