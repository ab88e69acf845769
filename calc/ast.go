package calc

import (
	"strconv"
	"strings"
)

// Node is an expression tree node. The set of implementations is closed:
// *Literal, *BinaryOp, *Grouped and *Negated. Each node owns its children.
//
// String renders an S-expression:
//
//	(int 3)
//	(binop + (int 1) (int 2))
//	(group (int 1))
//	(neg (group ...))
type Node interface {
	String() string
	node()
}

// Literal is an integer constant.
type Literal struct {
	Value int64
}

// BinaryOp applies Op (PLUS, MINUS, STAR or SLASH) to Left and Right.
type BinaryOp struct {
	Op          TokenType
	Left, Right Node
}

// Grouped is a parenthesized subexpression. It evaluates to Inner.
type Grouped struct {
	Inner Node
}

// Negated flips the sign of Inner. The parser only produces it around a
// *Grouped, for a unary minus written directly before '('.
type Negated struct {
	Inner Node
}

func (*Literal) node()  {}
func (*BinaryOp) node() {}
func (*Grouped) node()  {}
func (*Negated) node()  {}

func (n *Literal) String() string  { return sexpr(n) }
func (n *BinaryOp) String() string { return sexpr(n) }
func (n *Grouped) String() string  { return sexpr(n) }
func (n *Negated) String() string  { return sexpr(n) }

// opSymbol returns the source symbol of a binary operator token type.
func opSymbol(t TokenType) string {
	switch t {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	}
	return t.String()
}

func sexpr(n Node) string {
	var b strings.Builder
	writeSexpr(&b, n)
	return b.String()
}

func writeSexpr(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		b.WriteString("(int ")
		b.WriteString(strconv.FormatInt(n.Value, 10))
		b.WriteByte(')')
	case *BinaryOp:
		b.WriteString("(binop ")
		b.WriteString(opSymbol(n.Op))
		b.WriteByte(' ')
		writeSexpr(b, n.Left)
		b.WriteByte(' ')
		writeSexpr(b, n.Right)
		b.WriteByte(')')
	case *Grouped:
		b.WriteString("(group ")
		writeSexpr(b, n.Inner)
		b.WriteByte(')')
	case *Negated:
		b.WriteString("(neg ")
		writeSexpr(b, n.Inner)
		b.WriteByte(')')
	case nil:
		b.WriteString("(nil)")
	}
}
