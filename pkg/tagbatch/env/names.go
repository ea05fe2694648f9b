package env

import (
	"golang.org/x/text/cases"
)

// FoldName returns the case-folded form of a property, item or metadata name.
// Two names are the same name when their folded forms are equal.
// A Caser is stateful, so each call gets its own.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// SameName reports whether a and b name the same property, item or metadata key.
func SameName(a, b string) bool {
	if a == b {
		return true
	}
	return FoldName(a) == FoldName(b)
}

// ValidName reports whether name can be used inside $(...), @(...) or %(...).
// Names start with a letter or underscore and continue with letters,
// digits, underscores or dashes.
//
// Example:
//
//	env.ValidName("Configuration") // true
//	env.ValidName("Out-Dir")       // true
//	env.ValidName("1st")           // false
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && ((r >= '0' && r <= '9') || r == '-'):
		default:
			return false
		}
	}
	return true
}
