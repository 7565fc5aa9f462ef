package condition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Operators(t *testing.T) {
	cases := []struct {
		raw     string
		op      Op
		operand string
	}{
		{"> 500", OpGt, "500"},
		{">=4.5", OpGe, "4.5"},
		{"<= 10", OpLe, "10"},
		{"< 0", OpLt, "0"},
		{"== Active", OpEq, "Active"},
		{"!= Active", OpNe, "Active"},
		{"   >   500  ", OpGt, "500"},
	}
	for _, c := range cases {
		got := Parse(c.raw)
		require.Equal(t, c.op, got.Op, "raw=%q", c.raw)
		require.Equal(t, c.operand, got.Operand, "raw=%q", c.raw)
	}
}

func TestParse_NoOperatorDefaultsToEquality(t *testing.T) {
	got := Parse("Burgers")
	require.Equal(t, OpEq, got.Op)
	require.Equal(t, "Burgers", got.Operand)
}

func TestParse_TwoCharOperatorsWinOverPrefixes(t *testing.T) {
	require.Equal(t, Condition{Op: OpGe, Operand: "5"}, Parse(">= 5"))
	require.Equal(t, Condition{Op: OpLe, Operand: "5"}, Parse("<= 5"))
	// A bare ">" at the same position still parses as OpGt.
	require.Equal(t, Condition{Op: OpGt, Operand: "5"}, Parse("> 5"))
}

func TestParse_FirstOperatorOccurrenceWins(t *testing.T) {
	// Everything after the first operator is operand text.
	got := Parse("> 5 < 10")
	require.Equal(t, OpGt, got.Op)
	require.Equal(t, "5 < 10", got.Operand)
}

func TestParse_QuoteStripping(t *testing.T) {
	require.Equal(t, "Active", Parse(`== "Active"`).Operand)
	require.Equal(t, "Active", Parse("== 'Active'").Operand)
	// Only one layer is stripped.
	require.Equal(t, `"Active"`, Parse(`== ""Active""`).Operand)
	// Mismatched quotes are kept verbatim.
	require.Equal(t, `"Active'`, Parse(`== "Active'`).Operand)
}

func TestParse_OperatorInsideValueSplits(t *testing.T) {
	// Documented ambiguity: the first operator-like character splits the
	// string even when it was meant as value text.
	got := Parse("a<b")
	require.Equal(t, OpLt, got.Op)
	require.Equal(t, "b", got.Operand)
}

func TestNumericOperand(t *testing.T) {
	f, ok := Parse("> 4.5").NumericOperand()
	require.True(t, ok)
	require.Equal(t, 4.5, f)

	_, ok = Parse("== Active").NumericOperand()
	require.False(t, ok)
}

func TestOpOrdering(t *testing.T) {
	require.True(t, OpGt.Ordering())
	require.True(t, OpLe.Ordering())
	require.False(t, OpEq.Ordering())
	require.False(t, OpNe.Ordering())
}
