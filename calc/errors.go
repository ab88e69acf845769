// errors.go: typed failures for the tokenize → parse → eval pipeline.
//
// Every failure the package reports is a *Error carrying a Kind. Callers
// branch on the kind with errors.Is against the exported sentinels:
//
//	_, err := calc.Evaluate("1/0")
//	if errors.Is(err, calc.ErrDivisionByZero) { ... }
//
// Error() renders a one-line message with an upper-case header, in the same
// spirit as the "LEXICAL ERROR" / "PARSE ERROR" / "RUNTIME ERROR" headers of
// an interpreter. There are no source positions.
package calc

import (
	"errors"
	"fmt"
)

/* ===========================
   PUBLIC API
   =========================== */

// Kind classifies a pipeline failure.
type Kind int

const (
	KindLex Kind = iota + 1
	KindInvalidNumber
	KindUnbalancedParen

	KindUnmatchedParen
	KindMismatchedParen
	KindMalformedExpression
	KindStackUnderflow

	KindDivisionByZero
	KindOverflow
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindInvalidNumber:
		return "InvalidNumberError"
	case KindUnbalancedParen:
		return "UnbalancedParenError"
	case KindUnmatchedParen:
		return "UnmatchedParen"
	case KindMismatchedParen:
		return "MismatchedParen"
	case KindMalformedExpression:
		return "MalformedExpression"
	case KindStackUnderflow:
		return "StackUnderflow"
	case KindDivisionByZero:
		return "DivisionByZeroError"
	case KindOverflow:
		return "OverflowError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// header groups kinds by pipeline stage.
func (k Kind) header() string {
	switch k {
	case KindLex, KindInvalidNumber, KindUnbalancedParen:
		return "LEXICAL ERROR"
	case KindUnmatchedParen, KindMismatchedParen, KindMalformedExpression, KindStackUnderflow:
		return "PARSE ERROR"
	default:
		return "RUNTIME ERROR"
	}
}

// Error is the single error type produced by Tokenize, Parse, Eval and
// Program.Run.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional cause
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.header() + ": " + e.Kind.String()
	}
	return e.Kind.header() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrLex                 = &Error{Kind: KindLex}
	ErrInvalidNumber       = &Error{Kind: KindInvalidNumber}
	ErrUnbalancedParen     = &Error{Kind: KindUnbalancedParen}
	ErrUnmatchedParen      = &Error{Kind: KindUnmatchedParen}
	ErrMismatchedParen     = &Error{Kind: KindMismatchedParen}
	ErrMalformedExpression = &Error{Kind: KindMalformedExpression}
	ErrStackUnderflow      = &Error{Kind: KindStackUnderflow}
	ErrDivisionByZero      = &Error{Kind: KindDivisionByZero}
	ErrOverflow            = &Error{Kind: KindOverflow}
)

// KindOf returns the Kind of err, or 0 if err is not (and does not wrap) a
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsParseError reports whether err came from the parser stage.
func IsParseError(err error) bool {
	switch KindOf(err) {
	case KindUnmatchedParen, KindMismatchedParen, KindMalformedExpression, KindStackUnderflow:
		return true
	}
	return false
}

//// END_OF_PUBLIC

func errorf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}
