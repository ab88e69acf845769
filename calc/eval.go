package calc

import (
	"fmt"
	"math"
)

// Version of the calc language package.
const Version = "0.3.0"

// Eval evaluates the tree depth-first. It fails with KindDivisionByZero on a
// zero divisor and with KindOverflow when a result does not fit in int64.
// Division truncates toward zero.
func Eval(n Node) (int64, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil
	case *Grouped:
		return Eval(n.Inner)
	case *Negated:
		v, err := Eval(n.Inner)
		if err != nil {
			return 0, err
		}
		return negate(v)
	case *BinaryOp:
		l, err := Eval(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.Right)
		if err != nil {
			return 0, err
		}
		return apply(n.Op, l, r)
	case nil:
		return 0, errorf(KindMalformedExpression, "nil expression")
	default:
		return 0, errorf(KindMalformedExpression, "unknown node %T", n)
	}
}

// Evaluate runs the whole pipeline on one line of text.
func Evaluate(src string) (int64, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return 0, err
	}
	tree, err := Parse(toks)
	if err != nil {
		return 0, err
	}
	return Eval(tree)
}

// apply is shared by Eval and Program.Run so both report identical errors.
func apply(op TokenType, l, r int64) (int64, error) {
	switch op {
	case PLUS:
		s := l + r
		if (l > 0 && r > 0 && s < 0) || (l < 0 && r < 0 && s >= 0) {
			return 0, overflow(op, l, r)
		}
		return s, nil
	case MINUS:
		d := l - r
		if (r < 0 && d < l) || (r > 0 && d > l) {
			return 0, overflow(op, l, r)
		}
		return d, nil
	case STAR:
		if l == 0 || r == 0 {
			return 0, nil
		}
		p := l * r
		if p/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return 0, overflow(op, l, r)
		}
		return p, nil
	case SLASH:
		if r == 0 {
			return 0, errorf(KindDivisionByZero, "division by zero: %d / 0", l)
		}
		if l == math.MinInt64 && r == -1 {
			return 0, overflow(op, l, r)
		}
		return l / r, nil
	}
	return 0, errorf(KindMalformedExpression, "unknown operator %s", op)
}

func negate(v int64) (int64, error) {
	if v == math.MinInt64 {
		return 0, errorf(KindOverflow, "integer overflow: -(%d)", v)
	}
	return -v, nil
}

func overflow(op TokenType, l, r int64) *Error {
	return &Error{Kind: KindOverflow, Msg: fmt.Sprintf("integer overflow: %d %s %d", l, opSymbol(op), r)}
}
