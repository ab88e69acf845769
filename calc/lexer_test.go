// lexer_test.go
package calc

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize(src)
	require.NoError(t, err, "source: %q", src)
	return ts
}

func wantTokens(t *testing.T, src string, want ...Token) {
	t.Helper()
	got := toks(t, src)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch for %q (-want +got):\n%s", src, diff)
	}
}

func negOpen() Token { return Token{Type: LROUND, Neg: true} }

func Test_Lexer_Basic(t *testing.T) {
	wantTokens(t, "1+2", Num(1), Op(PLUS), Num(2))
	wantTokens(t, "12*(3/4)", Num(12), Op(STAR), Op(LROUND), Num(3), Op(SLASH), Num(4), Op(RROUND))
	wantTokens(t, "007", Num(7))
}

func Test_Lexer_WhitespaceIsInsignificant(t *testing.T) {
	compact := toks(t, "1+2*(3-4)")
	for _, src := range []string{
		"1 + 2",
		" 1 +2 ",
		"\t1\n+ 2\r",
	} {
		wantTokens(t, src, Num(1), Op(PLUS), Num(2))
	}
	spaced := toks(t, " 1 + 2 * ( 3 - 4 ) ")
	assert.Equal(t, compact, spaced)
}

func Test_Lexer_WhitespaceSplitsNumbers(t *testing.T) {
	wantTokens(t, "12 34", Num(12), Num(34))
}

func Test_Lexer_Empty(t *testing.T) {
	assert.Empty(t, toks(t, ""))
	assert.Empty(t, toks(t, "   "))
}

func Test_Lexer_UnaryMinus(t *testing.T) {
	cases := []struct {
		src  string
		want []Token
	}{
		{"-1", []Token{Num(-1)}},
		{"-1+1", []Token{Num(-1), Op(PLUS), Num(1)}},
		{"--5", []Token{Num(5)}},
		{"---5", []Token{Num(-5)}},
		{"- 5", []Token{Num(-5)}},
		{"2*-3", []Token{Num(2), Op(STAR), Num(-3)}},
		{"2 - -3", []Token{Num(2), Op(MINUS), Num(-3)}},
		{"(-2)", []Token{Op(LROUND), Num(-2), Op(RROUND)}},
		{"(1)-2", []Token{Op(LROUND), Num(1), Op(RROUND), Op(MINUS), Num(2)}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			wantTokens(t, tc.src, tc.want...)
		})
	}
}

func Test_Lexer_BinaryMinusAfterBufferedDigits(t *testing.T) {
	// The digits of 12 are still buffered when '-' arrives.
	wantTokens(t, "12-3", Num(12), Op(MINUS), Num(3))
	wantTokens(t, "12 -3", Num(12), Op(MINUS), Num(3))
}

func Test_Lexer_UnaryMinusBeforeGroup(t *testing.T) {
	wantTokens(t, "-(2+3)", negOpen(), Num(2), Op(PLUS), Num(3), Op(RROUND))
	wantTokens(t, "8/-(2)", Num(8), Op(SLASH), negOpen(), Num(2), Op(RROUND))
	wantTokens(t, "--(1)", Op(LROUND), Num(1), Op(RROUND))
	wantTokens(t, "-(-1)", negOpen(), Num(-1), Op(RROUND))
}

func Test_Lexer_Int64Bounds(t *testing.T) {
	wantTokens(t, "9223372036854775807", Num(9223372036854775807))
	wantTokens(t, "-9223372036854775808", Num(-9223372036854775808))
}

func Test_Lexer_InvalidNumber(t *testing.T) {
	for _, src := range []string{
		"9223372036854775808",
		"-9223372036854775809",
		"1 + 99999999999999999999",
	} {
		_, err := Tokenize(src)
		require.Error(t, err, src)
		assert.ErrorIs(t, err, ErrInvalidNumber, src)

		var numErr *strconv.NumError
		assert.True(t, errors.As(err, &numErr), "cause should be *strconv.NumError for %q", src)
	}
}

func Test_Lexer_UnrecognizedCharacter(t *testing.T) {
	for _, src := range []string{"1+a", "x", "1 % 2", "2^3", "1.5", "1+é"} {
		_, err := Tokenize(src)
		assert.ErrorIs(t, err, ErrLex, src)
	}
}

func Test_Lexer_UnrecognizedCharacter_Deterministic(t *testing.T) {
	_, _ = Tokenize("1+2")
	_, _ = Tokenize("((")
	_, err1 := Tokenize("1+a")
	_, err2 := Tokenize("1+a")
	require.Error(t, err1)
	assert.Equal(t, err1.Error(), err2.Error())
}

func Test_Lexer_DanglingUnaryMinus(t *testing.T) {
	for _, src := range []string{"-", "---", "1+-", "(-)", "- * 2", "1 * - + 2"} {
		_, err := Tokenize(src)
		assert.ErrorIs(t, err, ErrLex, src)
	}
}

func Test_Lexer_UnbalancedParens(t *testing.T) {
	for _, src := range []string{"1+2+(((()+3", "(", "1)", "((1)"} {
		_, err := Tokenize(src)
		assert.ErrorIs(t, err, ErrUnbalancedParen, src)
	}
}

func Test_Lexer_OrderOfParensIsLeftToParser(t *testing.T) {
	wantTokens(t, ")(", Op(RROUND), Op(LROUND))
}

func Test_Token_String(t *testing.T) {
	assert.Equal(t, "-(", negOpen().String())
	assert.Equal(t, "(", Op(LROUND).String())
	assert.Equal(t, "-42", Num(-42).String())
	assert.Equal(t, "/", Op(SLASH).String())
	assert.Equal(t, "STAR", STAR.String())
	assert.Equal(t, "TokenType(99)", TokenType(99).String())
}
