package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datasmith-io/datasmith/internal/dataset"
)

func column(t *testing.T, tbl *dataset.Table, name string) []string {
	t.Helper()
	col, err := tbl.Column(name)
	require.NoError(t, err)
	out := make([]string, len(col))
	for i, v := range col {
		out[i] = v.String()
	}
	return out
}

func build(t *testing.T, cols []string, rows [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(cols)
	require.NoError(t, err)
	for _, r := range rows {
		vals := make([]dataset.Value, len(r))
		for i, s := range r {
			vals[i] = dataset.Parse(s)
		}
		tbl, err = tbl.AppendRow(vals)
		require.NoError(t, err)
	}
	return tbl
}

func TestFillMissing(t *testing.T) {
	tbl := build(t, []string{"A"}, [][]string{{"1"}, {""}, {"3"}, {""}})
	msg, out, err := FillMissing(tbl, "A", "0")
	require.NoError(t, err)
	require.Equal(t, `Filled 2 missing values in "A" with "0"`, msg)
	require.Equal(t, []string{"1", "0", "3", "0"}, column(t, out, "A"))
}

func TestFillMissing_NoOpWhenComplete(t *testing.T) {
	tbl := build(t, []string{"A"}, [][]string{{"1"}, {"2"}})
	msg, out, err := FillMissing(tbl, "A", "0")
	require.NoError(t, err)
	require.Nil(t, out)
	require.Equal(t, `No missing values found in column "A"`, msg)
}

func TestConvertColumn_TextToNumber(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"10"}, {"2.5"}, {""}})
	// Force text first so the conversion is observable.
	msg, out, err := ConvertColumn(tbl, "N", "str")
	require.NoError(t, err)
	require.Equal(t, `Converted column "N" to text`, msg)

	msg, out, err = ConvertColumn(out, "N", "float")
	require.NoError(t, err)
	require.Equal(t, `Converted column "N" to number`, msg)

	col, err := out.Column("N")
	require.NoError(t, err)
	require.Equal(t, dataset.KindNumber, col[0].Kind())
	require.Equal(t, dataset.KindNumber, col[1].Kind())
	// Missing cells pass through untouched.
	require.True(t, col[2].IsMissing())
}

func TestConvertColumn_ToBool(t *testing.T) {
	tbl := build(t, []string{"B"}, [][]string{{"true"}, {"1"}, {"false"}})
	_, out, err := ConvertColumn(tbl, "B", "boolean")
	require.NoError(t, err)
	require.Equal(t, []string{"true", "true", "false"}, column(t, out, "B"))
}

func TestConvertColumn_FailureAbortsWithRow(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"1"}, {"oops"}})
	_, out, err := ConvertColumn(tbl, "N", "int")
	require.ErrorIs(t, err, ErrNotConvertible)
	require.Contains(t, err.Error(), "row 2")
	require.Nil(t, out)
}

func TestConvertColumn_UnknownKind(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"1"}})
	_, _, err := ConvertColumn(tbl, "N", "complex")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown type "complex"`)
}

func TestNormalizeColumn(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"0"}, {"5"}, {"10"}, {""}})
	msg, out, err := NormalizeColumn(tbl, "N")
	require.NoError(t, err)
	require.Equal(t, `Normalized column "N" using min-max normalization (range: 0-1)`, msg)
	require.Equal(t, []string{"0", "0.5", "1", ""}, column(t, out, "N"))
}

func TestNormalizeColumn_ConstantIsNoOp(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"7"}, {"7"}})
	msg, out, err := NormalizeColumn(tbl, "N")
	require.NoError(t, err)
	require.Nil(t, out)
	require.Contains(t, msg, "normalization not performed")
}

func TestNormalizeColumn_NonNumericAborts(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"1"}, {"abc"}})
	_, _, err := NormalizeColumn(tbl, "N")
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 2")
}

func TestDescribeColumn_Numeric(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"2"}, {"4"}, {"6"}, {""}})
	info, err := DescribeColumn(tbl, "N")
	require.NoError(t, err)
	require.Equal(t, "number", info.Kind)
	require.Equal(t, 3, info.NonNull)
	require.Equal(t, 1, info.Null)
	require.Equal(t, 3, info.Unique)
	require.NotNil(t, info.Mean)
	require.Equal(t, 4.0, *info.Mean)
	require.Equal(t, 2.0, *info.Min)
	require.Equal(t, 6.0, *info.Max)
	require.InDelta(t, 2.0, *info.Std, 1e-9)
}

func TestDescribeColumn_MixedSkipsNumericSummary(t *testing.T) {
	tbl := build(t, []string{"C"}, [][]string{{"a"}, {"1"}, {"a"}})
	info, err := DescribeColumn(tbl, "C")
	require.NoError(t, err)
	require.Equal(t, 2, info.Unique)
	require.Nil(t, info.Mean)
	require.Nil(t, info.Min)
}
