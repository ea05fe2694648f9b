package expr

import (
	"fmt"
	"strings"
)

// CompareValues applies a relational operator to two values.
//
// Two numbers compare numerically. A bool only compares to another bool
// and only with == or !=. Everything else compares the string forms
// ordinally, byte by byte, so '9' < '10' is false while 9 < 10 is true.
func CompareValues(op TokenType, left, right Value) (bool, error) {
	sym, ok := opSymbols[op]
	if !ok {
		return false, fmt.Errorf("unknown operator: %s", op)
	}

	if left.kind == KindBool || right.kind == KindBool {
		if left.kind != right.kind {
			return false, &TypeError{Pos: -1, Op: sym, Msg: fmt.Sprintf("cannot compare %s with %s", left.kind, right.kind)}
		}
		switch op {
		case TokenEq:
			return left.b == right.b, nil
		case TokenNe:
			return left.b != right.b, nil
		}
		return false, &TypeError{Pos: -1, Op: sym, Msg: "booleans support only == and !="}
	}

	var c int
	if left.kind == KindNumber && right.kind == KindNumber {
		c = left.num.Cmp(right.num)
	} else {
		c = strings.Compare(left.s, right.s)
	}

	switch op {
	case TokenEq:
		return c == 0, nil
	case TokenNe:
		return c != 0, nil
	case TokenLt:
		return c < 0, nil
	case TokenLe:
		return c <= 0, nil
	case TokenGt:
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}
