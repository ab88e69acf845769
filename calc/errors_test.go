package calc

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHaveHeader(t *testing.T, err error, header string) {
	t.Helper()
	require.Error(t, err)
	if !strings.HasPrefix(err.Error(), header+": ") {
		t.Fatalf("expected header %q\n--- error ---\n%s", header, err)
	}
}

func Test_Error_Headers(t *testing.T) {
	_, err := Evaluate("1+a")
	mustHaveHeader(t, err, "LEXICAL ERROR")

	_, err = Evaluate("1+")
	mustHaveHeader(t, err, "PARSE ERROR")

	_, err = Evaluate("1/0")
	mustHaveHeader(t, err, "RUNTIME ERROR")
	assert.Contains(t, err.Error(), "division by zero")
}

func Test_Error_EmptyMessageFallsBackToKind(t *testing.T) {
	assert.Equal(t, "RUNTIME ERROR: DivisionByZeroError", ErrDivisionByZero.Error())
	assert.Equal(t, "PARSE ERROR: StackUnderflow", ErrStackUnderflow.Error())
}

func Test_Error_IsMatchesByKind(t *testing.T) {
	err := errorf(KindOverflow, "some message")
	assert.ErrorIs(t, err, ErrOverflow)
	assert.NotErrorIs(t, err, ErrDivisionByZero)

	wrapped := fmt.Errorf("line 3: %w", err)
	assert.ErrorIs(t, wrapped, ErrOverflow)
	assert.Equal(t, KindOverflow, KindOf(wrapped))
}

func Test_Error_KindOf(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))

	_, err := Evaluate("(1")
	assert.Equal(t, KindUnbalancedParen, KindOf(err))
}

func Test_Error_IsParseError(t *testing.T) {
	for _, src := range []string{")(", "()", "1 2"} {
		_, err := Evaluate(src)
		assert.True(t, IsParseError(err), src)
	}
	for _, src := range []string{"1+a", "(", "1/0"} {
		_, err := Evaluate(src)
		assert.False(t, IsParseError(err), src)
	}
	_, err := Parse([]Token{Op(LROUND)})
	assert.True(t, IsParseError(err))
}

func Test_Kind_String(t *testing.T) {
	assert.Equal(t, "LexError", KindLex.String())
	assert.Equal(t, "MismatchedParen", KindMismatchedParen.String())
	assert.Equal(t, "Kind(77)", Kind(77).String())
}
