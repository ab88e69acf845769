package calc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Format_Canonical(t *testing.T) {
	cases := map[string]string{
		"1+2*3":          "1 + 2 * 3",
		"  (1+2)  *3 ":   "(1 + 2) * 3",
		"-(1+2)*3":       "-(1 + 2) * 3",
		"8/-(2)":         "8 / -(2)",
		"-1+1+(-2)*(-3)": "-1 + 1 + (-2) * (-3)",
		"(((7)))":        "(((7)))",
		"1 - -2":         "1 - -2",
	}
	for src, want := range cases {
		assert.Equal(t, want, Format(mustParse(t, src)), "source: %q", src)
	}
}

func Test_Format_RoundTrip(t *testing.T) {
	for _, tc := range evalCases {
		tree := mustParse(t, tc.src)
		again := mustParse(t, Format(tree))
		if diff := cmp.Diff(tree, again); diff != "" {
			t.Fatalf("round trip of %q changed the tree (-first +second):\n%s", tc.src, diff)
		}
		got, err := Eval(again)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.src)
	}
}

func Test_Format_NegatedWithoutGroup(t *testing.T) {
	n := &Negated{Inner: &Literal{Value: 3}}
	assert.Equal(t, "-(3)", Format(n))
}

func Test_Dump(t *testing.T) {
	want := "+\n" +
		"  1\n" +
		"  neg\n" +
		"    ()\n" +
		"      *\n" +
		"        2\n" +
		"        3\n"
	assert.Equal(t, want, Dump(mustParse(t, "1+-(2*3)")))
}
