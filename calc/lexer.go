// lexer.go: single-pass tokenizer for integer arithmetic.
//
// The lexer walks the input once, left to right, keeping a digit buffer and
// a pending sign. The only context-sensitive character is '-':
//
//   - after a value (a NUMBER, a ')' or digits still in the buffer) it is
//     the binary MINUS operator;
//   - anywhere else it is unary and toggles the pending sign. The sign is
//     consumed by the next NUMBER (parsed together with its digits) or by
//     the next '(' which is then emitted as a negated LROUND.
//
// A pending sign that is never consumed is a lexical error, as is any byte
// outside digits, "+-*/()" and ASCII whitespace. The scan also counts
// parentheses; a non-zero balance at end of input is reported as
// UnbalancedParenError. Order of '(' and ')' is checked by the parser.
package calc

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	NUMBER TokenType = iota
	PLUS
	MINUS
	STAR
	SLASH
	LROUND // "(" (possibly negated, see Token.Neg)
	RROUND // ")"
)

var tokenNames = [...]string{
	NUMBER: "NUMBER",
	PLUS:   "PLUS",
	MINUS:  "MINUS",
	STAR:   "STAR",
	SLASH:  "SLASH",
	LROUND: "LROUND",
	RROUND: "RROUND",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token. Value is set for NUMBER only; Neg only for
// LROUND, when a unary minus applies to the whole group.
type Token struct {
	Type  TokenType
	Value int64
	Neg   bool
}

// Num builds a NUMBER token.
func Num(v int64) Token { return Token{Type: NUMBER, Value: v} }

// Op builds a non-number token.
func Op(t TokenType) Token { return Token{Type: t} }

// String returns the token as it would be written in source.
func (t Token) String() string {
	switch t.Type {
	case NUMBER:
		return strconv.FormatInt(t.Value, 10)
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case LROUND:
		if t.Neg {
			return "-("
		}
		return "("
	case RROUND:
		return ")"
	}
	return t.Type.String()
}

// Lexer scans an expression string into tokens. A Lexer is single use.
type Lexer struct {
	src    string
	cur    int
	digits []byte // accumulating NUMBER
	neg    bool   // pending unary sign
	depth  int    // '(' minus ')'
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize scans src and returns its tokens.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

// Scan runs the lexer to the end of its input.
func (l *Lexer) Scan() ([]Token, error) {
	for l.cur < len(l.src) {
		ch := l.src[l.cur]
		var err error
		switch {
		case isDigit(ch):
			l.digits = append(l.digits, ch)
		case isSpace(ch):
			err = l.flush()
		case ch == '-':
			err = l.minus()
		case ch == '(':
			err = l.open()
		case ch == '+', ch == '*', ch == '/', ch == ')':
			err = l.operator(ch)
		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
			err = errorf(KindLex, "unexpected character %q", r)
		}
		if err != nil {
			return nil, err
		}
		l.cur++
	}

	if err := l.flush(); err != nil {
		return nil, err
	}
	if l.neg {
		return nil, errorf(KindLex, "dangling unary minus at end of input")
	}
	if l.depth != 0 {
		return nil, errorf(KindUnbalancedParen, "unbalanced parentheses: %s", balanceMsg(l.depth))
	}
	return l.tokens, nil
}

// ----- helpers -----

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func balanceMsg(depth int) string {
	if depth > 0 {
		return fmt.Sprintf("%d unclosed '('", depth)
	}
	return fmt.Sprintf("%d extra ')'", -depth)
}

func (l *Lexer) emit(t Token) { l.tokens = append(l.tokens, t) }

// valueBefore reports whether a complete value ends right before the
// cursor, which makes a following '-' binary.
func (l *Lexer) valueBefore() bool {
	if len(l.digits) > 0 {
		return true
	}
	if n := len(l.tokens); n > 0 {
		switch l.tokens[n-1].Type {
		case NUMBER, RROUND:
			return true
		}
	}
	return false
}

// flush turns buffered digits (and the pending sign) into a NUMBER.
func (l *Lexer) flush() error {
	if len(l.digits) == 0 {
		return nil
	}
	text := string(l.digits)
	if l.neg {
		text = "-" + text
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return &Error{Kind: KindInvalidNumber, Msg: fmt.Sprintf("invalid number %s", text), Err: err}
	}
	l.emit(Num(v))
	l.digits = l.digits[:0]
	l.neg = false
	return nil
}

func (l *Lexer) minus() error {
	if !l.valueBefore() {
		l.neg = !l.neg
		return nil
	}
	if err := l.flush(); err != nil {
		return err
	}
	l.emit(Op(MINUS))
	return nil
}

func (l *Lexer) open() error {
	if err := l.flush(); err != nil {
		return err
	}
	l.emit(Token{Type: LROUND, Neg: l.neg})
	l.neg = false
	l.depth++
	return nil
}

func (l *Lexer) operator(ch byte) error {
	if err := l.flush(); err != nil {
		return err
	}
	if l.neg {
		return errorf(KindLex, "dangling unary minus before %q", ch)
	}
	switch ch {
	case '+':
		l.emit(Op(PLUS))
	case '*':
		l.emit(Op(STAR))
	case '/':
		l.emit(Op(SLASH))
	case ')':
		l.emit(Op(RROUND))
		l.depth--
	}
	return nil
}
