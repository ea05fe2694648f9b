package template

import (
	"strings"
)

const hexDigits = "0123456789ABCDEF"

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// Unescape decodes every %XX sequence where XX is a hexadecimal byte.
// Invalid sequences are left untouched.
//
// Example:
//
//	template.Unescape("50%25 off%3B now") // "50% off; now"
//	template.Unescape("%(Meta) %zz")      // "%(Meta) %zz"
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			sb.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// Escape encodes the characters that have a meaning in templates as %XX.
// Quotes and semicolons are always escaped, as is a % that would otherwise
// start an escape sequence. With globs, * and ? are escaped. With meta,
// the openers $( @( and %( are escaped.
//
// Example:
//
//	template.Escape("a;b", false, false)    // "a%3Bb"
//	template.Escape("$(X) *.cs", true, true) // "%24(X) %2A.cs"
func Escape(s string, globs, meta bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		var next byte
		if i+1 < len(s) {
			next = s[i+1]
		}

		escape := false
		switch c {
		case '%':
			escape = (next == '(' && meta) || isHex(next)
		case '@', '$':
			escape = next == '(' && meta
		case '*', '?':
			escape = globs
		case '\'', ';':
			escape = true
		}

		if escape {
			sb.WriteByte('%')
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
