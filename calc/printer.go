package calc

import (
	"strconv"
	"strings"
)

/* ---------- infix printer ---------- */

// Format renders n as canonical infix text: one space around binary
// operators, source parentheses kept, nothing added. For trees built by Parse
// the output tokenizes and parses back to an equal tree.
func Format(n Node) string {
	var b strings.Builder
	writeInfix(&b, n)
	return b.String()
}

func writeInfix(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *BinaryOp:
		writeInfix(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(opSymbol(n.Op))
		b.WriteByte(' ')
		writeInfix(b, n.Right)
	case *Grouped:
		b.WriteByte('(')
		writeInfix(b, n.Inner)
		b.WriteByte(')')
	case *Negated:
		b.WriteByte('-')
		if _, ok := n.Inner.(*Grouped); ok {
			writeInfix(b, n.Inner)
			return
		}
		b.WriteByte('(')
		writeInfix(b, n.Inner)
		b.WriteByte(')')
	}
}

/* ---------- tree dump ---------- */

// Dump renders n as an indented tree, one node per line. Used by the REPL's
// tree view.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	switch n := n.(type) {
	case *Literal:
		b.WriteString(strconv.FormatInt(n.Value, 10))
		b.WriteByte('\n')
	case *BinaryOp:
		b.WriteString(opSymbol(n.Op))
		b.WriteByte('\n')
		dump(b, n.Left, depth+1)
		dump(b, n.Right, depth+1)
	case *Grouped:
		b.WriteString("()\n")
		dump(b, n.Inner, depth+1)
	case *Negated:
		b.WriteString("neg\n")
		dump(b, n.Inner, depth+1)
	default:
		b.WriteString("?\n")
	}
}
