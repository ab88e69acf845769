// parser.go: operator-precedence (shunting-yard) parser producing a tree.
//
// OVERVIEW
// --------
// Parse consumes the token slice produced by the lexer with two stacks:
//
//   - operands:  finished subtrees (Node)
//   - operators: pending binary operators and open parentheses
//
// NUMBER pushes a *Literal. A binary operator first reduces every operator
// on top of the stack with greater or equal precedence (left associativity),
// then is pushed itself. '(' is pushed unconditionally and acts as a barrier:
// reductions never look past it and never consume operands that were on the
// stack before it was opened. ')' reduces down to the matching '(' and
// replaces the single operand built inside with a *Grouped (wrapped in a
// *Negated when the lexer marked the '(' as negated). End of input reduces
// whatever is left.
//
// Every reduction goes through reduceTop.
//
// Precedence
// ----------
//
//	PLUS MINUS   1
//	STAR SLASH   2
//
// Parentheses have no rank; precedence() reports ok=false for them and the
// loops stop on that, never on a numeric comparison.
package calc

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parse builds the expression tree for tokens.
//
// Errors (all *Error):
//   - KindUnmatchedParen: ')' with no open '('.
//   - KindMismatchedParen: '(' still open at end of input.
//   - KindStackUnderflow: an operator without two operands, or "()".
//   - KindMalformedExpression: empty input or operands with no operator
//     between them.
func Parse(tokens []Token) (Node, error) {
	p := &parser{}
	for _, t := range tokens {
		if err := p.shift(t); err != nil {
			return nil, err
		}
	}
	return p.finish()
}

////////////////////////////////////////////////////////////////////////////////
//                                 IMPLEMENTATION
////////////////////////////////////////////////////////////////////////////////

// opEntry is an operator stack slot. base is the operand stack height below
// which this entry must not reach: for '(' it is the height when the group
// opened, for a binary operator the base of the group it was pushed in.
// outer (for '(' only) is the base to restore once the group closes.
type opEntry struct {
	tok   Token
	base  int
	outer int
}

type parser struct {
	operands  []Node
	operators []opEntry
	base      int // base of the innermost open group
}

// ───────────────────────── precedence / associativity ──────────────────────

func precedence(t TokenType) (int, bool) {
	switch t {
	case PLUS, MINUS:
		return 1, true
	case STAR, SLASH:
		return 2, true
	}
	return 0, false
}

// ───────────────────────────── stack operations ────────────────────────────

func (p *parser) pushOperand(n Node) { p.operands = append(p.operands, n) }

func (p *parser) popOperand() Node {
	n := p.operands[len(p.operands)-1]
	p.operands[len(p.operands)-1] = nil
	p.operands = p.operands[:len(p.operands)-1]
	return n
}

func (p *parser) top() (opEntry, bool) {
	if len(p.operators) == 0 {
		return opEntry{}, false
	}
	return p.operators[len(p.operators)-1], true
}

func (p *parser) popOperator() opEntry {
	e := p.operators[len(p.operators)-1]
	p.operators = p.operators[:len(p.operators)-1]
	return e
}

func (p *parser) shift(t Token) error {
	switch t.Type {
	case NUMBER:
		p.pushOperand(&Literal{Value: t.Value})
	case PLUS, MINUS, STAR, SLASH:
		prec, _ := precedence(t.Type)
		for {
			e, ok := p.top()
			if !ok {
				break
			}
			topPrec, isOp := precedence(e.tok.Type)
			if !isOp || topPrec < prec {
				break
			}
			if err := p.reduceTop(); err != nil {
				return err
			}
		}
		p.operators = append(p.operators, opEntry{tok: t, base: p.base})
	case LROUND:
		p.operators = append(p.operators, opEntry{tok: t, base: len(p.operands), outer: p.base})
		p.base = len(p.operands)
	case RROUND:
		return p.closeGroup()
	default:
		return errorf(KindMalformedExpression, "unexpected token %s", t.Type)
	}
	return nil
}

// closeGroup handles ')'.
func (p *parser) closeGroup() error {
	for {
		e, ok := p.top()
		if !ok {
			return errorf(KindUnmatchedParen, "unmatched ')'")
		}
		if e.tok.Type != LROUND {
			if err := p.reduceTop(); err != nil {
				return err
			}
			continue
		}

		p.popOperator()
		p.base = e.outer
		switch inside := len(p.operands) - e.base; {
		case inside == 0:
			return errorf(KindStackUnderflow, "empty parentheses")
		case inside > 1:
			return errorf(KindMalformedExpression, "missing operator inside parentheses")
		}

		var n Node = &Grouped{Inner: p.popOperand()}
		if e.tok.Neg {
			n = &Negated{Inner: n}
		}
		p.pushOperand(n)
		return nil
	}
}

// reduceTop pops the top operator and its two operands and pushes the
// combined *BinaryOp. The right operand is popped first.
func (p *parser) reduceTop() error {
	e, ok := p.top()
	if !ok {
		return errorf(KindStackUnderflow, "no operator to reduce")
	}
	if _, isOp := precedence(e.tok.Type); !isOp {
		return errorf(KindMismatchedParen, "unclosed '('")
	}
	if len(p.operands)-e.base < 2 {
		return errorf(KindStackUnderflow, "operator %s is missing an operand", opSymbol(e.tok.Type))
	}
	p.popOperator()
	right := p.popOperand()
	left := p.popOperand()
	p.pushOperand(&BinaryOp{Op: e.tok.Type, Left: left, Right: right})
	return nil
}

func (p *parser) finish() (Node, error) {
	for len(p.operators) > 0 {
		if err := p.reduceTop(); err != nil {
			return nil, err
		}
	}
	switch len(p.operands) {
	case 1:
		return p.operands[0], nil
	case 0:
		return nil, errorf(KindMalformedExpression, "empty expression")
	default:
		return nil, errorf(KindMalformedExpression, "missing operator between operands")
	}
}
