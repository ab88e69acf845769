// tac.go: lowering of expression trees to three-address code.
//
// A Program is a straight-line list of instructions over numbered
// temporaries, each of the form
//
//	t2 = t0 * t1
//	t3 = -t2
//
// followed by "return <operand>". Literals are folded into operands and
// never get a temporary of their own; groups are transparent. Run executes
// the code with the same arithmetic (and the same failures) as Eval.
package calc

import (
	"fmt"
	"strconv"
	"strings"
)

// -----------------------------
// Instruction encoding
// -----------------------------

type opcode uint8

const (
	opAdd opcode = iota
	opSub
	opMul
	opDiv
	opNeg // unary; Y unused
)

var binOpcodes = map[TokenType]opcode{
	PLUS:  opAdd,
	MINUS: opSub,
	STAR:  opMul,
	SLASH: opDiv,
}

var opTokens = [...]TokenType{
	opAdd: PLUS,
	opSub: MINUS,
	opMul: STAR,
	opDiv: SLASH,
}

// Operand is a constant or a temporary.
type Operand struct {
	Temp   int // valid when IsTemp
	Const  int64
	IsTemp bool
}

func (o Operand) String() string {
	if o.IsTemp {
		return "t" + strconv.Itoa(o.Temp)
	}
	return strconv.FormatInt(o.Const, 10)
}

// Instr assigns the result of Op on X (and Y) to temporary Dst.
type Instr struct {
	Op   opcode
	Dst  int
	X, Y Operand
}

func (in Instr) String() string {
	if in.Op == opNeg {
		return fmt.Sprintf("t%d = -%s", in.Dst, in.X)
	}
	return fmt.Sprintf("t%d = %s %s %s", in.Dst, in.X, opSymbol(opTokens[in.Op]), in.Y)
}

// Program is compiled three-address code for one expression.
type Program struct {
	Code   []Instr
	Result Operand
	temps  int
	err    error
}

// Compile lowers n. Compilation itself cannot fail; a malformed tree yields
// a program whose Run reports the problem.
func Compile(n Node) *Program {
	p := &Program{}
	res, err := p.lower(n)
	if err != nil {
		p.err = err
		return p
	}
	p.Result = res
	return p
}

func (p *Program) newTemp() int {
	t := p.temps
	p.temps++
	return t
}

func (p *Program) lower(n Node) (Operand, error) {
	switch n := n.(type) {
	case *Literal:
		return Operand{Const: n.Value}, nil
	case *Grouped:
		return p.lower(n.Inner)
	case *Negated:
		x, err := p.lower(n.Inner)
		if err != nil {
			return Operand{}, err
		}
		dst := p.newTemp()
		p.Code = append(p.Code, Instr{Op: opNeg, Dst: dst, X: x})
		return Operand{Temp: dst, IsTemp: true}, nil
	case *BinaryOp:
		op, ok := binOpcodes[n.Op]
		if !ok {
			return Operand{}, errorf(KindMalformedExpression, "unknown operator %s", n.Op)
		}
		x, err := p.lower(n.Left)
		if err != nil {
			return Operand{}, err
		}
		y, err := p.lower(n.Right)
		if err != nil {
			return Operand{}, err
		}
		dst := p.newTemp()
		p.Code = append(p.Code, Instr{Op: op, Dst: dst, X: x, Y: y})
		return Operand{Temp: dst, IsTemp: true}, nil
	case nil:
		return Operand{}, errorf(KindMalformedExpression, "nil expression")
	default:
		return Operand{}, errorf(KindMalformedExpression, "unknown node %T", n)
	}
}

// String lists the instructions followed by the return line.
func (p *Program) String() string {
	var b strings.Builder
	for _, in := range p.Code {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	if p.err != nil {
		b.WriteString("; ")
		b.WriteString(p.err.Error())
		b.WriteByte('\n')
		return b.String()
	}
	fmt.Fprintf(&b, "return %s\n", p.Result)
	return b.String()
}

// Run executes the program.
func (p *Program) Run() (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	temps := make([]int64, p.temps)
	load := func(o Operand) int64 {
		if o.IsTemp {
			return temps[o.Temp]
		}
		return o.Const
	}
	for _, in := range p.Code {
		var (
			v   int64
			err error
		)
		if in.Op == opNeg {
			v, err = negate(load(in.X))
		} else {
			v, err = apply(opTokens[in.Op], load(in.X), load(in.Y))
		}
		if err != nil {
			return 0, err
		}
		temps[in.Dst] = v
	}
	return load(p.Result), nil
}
