package tagbatch

import (
	"fmt"
	"strings"
)

// OutputType is the declared type of a batch output.
type OutputType int

const (
	// String is a scalar template rendered to one string.
	String OutputType = iota + 1
	// Item is a scalar template rendered to one entry.
	Item
	// StringList is a list template rendered to strings.
	StringList
	// ItemList is a list template rendered to entries.
	ItemList
	// Condition is a boolean expression.
	Condition
)

// OutputKind groups output types by how they are produced.
type OutputKind int

const (
	KindCondition OutputKind = iota
	KindScalar
	KindList
)

// ElementKind is the element type of template outputs.
type ElementKind int

const (
	ElementNone ElementKind = iota
	ElementString
	ElementItem
)

var outputTypeNames = map[OutputType]string{
	String:     "string",
	Item:       "item",
	StringList: "string[]",
	ItemList:   "item[]",
	Condition:  "condition",
}

// ParseOutputType maps a type name to an OutputType.
// Accepted names: string, item, string[], item[], condition (case-insensitive).
func ParseOutputType(name string) (OutputType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for t, s := range outputTypeNames {
		if s == n {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutputType, name)
}

// String returns the type name accepted by ParseOutputType.
func (t OutputType) String() string {
	if s, ok := outputTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("OutputType(%d)", int(t))
}

// Valid reports whether t is a declared output type.
func (t OutputType) Valid() bool {
	_, ok := outputTypeNames[t]
	return ok
}

// Kind returns how outputs of this type are produced.
func (t OutputType) Kind() OutputKind {
	switch t {
	case Condition:
		return KindCondition
	case StringList, ItemList:
		return KindList
	}
	return KindScalar
}

// Element returns the element type, ElementNone for conditions.
func (t OutputType) Element() ElementKind {
	switch t {
	case String, StringList:
		return ElementString
	case Item, ItemList:
		return ElementItem
	}
	return ElementNone
}
