package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datasmith-io/datasmith/internal/dataset"
)

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

func TestMissingColumns(t *testing.T) {
	tbl := build(t, []string{"A", "B", "C"}, [][]string{
		{"1", "", "x"},
		{"", "", "y"},
	})
	rep := MissingColumns(tbl)
	require.Equal(t, map[string]int{"A": 1, "B": 2}, rep.MissingColumns)
	require.Equal(t, 3, rep.TotalMissing)
	require.Equal(t, "Found missing values in 2 columns", rep.Message)
}

func TestMissingColumns_NoneFound(t *testing.T) {
	tbl := build(t, []string{"A"}, [][]string{{"1"}, {"2"}})
	rep := MissingColumns(tbl)
	require.Empty(t, rep.MissingColumns)
	require.Equal(t, "No missing values found in any columns", rep.Message)
	require.Zero(t, rep.TotalMissing)
}

func TestColumnAverages(t *testing.T) {
	tbl := build(t, []string{"Score", "Name"}, [][]string{
		{"80", "Ann"},
		{"90", "Bob"},
		{"", "Cid"},
	})
	rep, err := ColumnAverages(tbl, []string{"Score", "Name"})
	require.NoError(t, err)
	require.Equal(t, 85.0, rep.Averages["Score"])
	require.Equal(t, []string{"Name"}, rep.NonNumeric)
	require.Contains(t, rep.Message, "1 numeric columns")
	require.Contains(t, rep.Message, "1 non-numeric columns skipped")
}

func TestColumnAverages_UnknownColumnFailsWholeRequest(t *testing.T) {
	tbl := build(t, []string{"Score"}, [][]string{{"80"}})
	_, err := ColumnAverages(tbl, []string{"Score", "Nope"})
	require.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestBasicStats(t *testing.T) {
	tbl := build(t, []string{"N", "Label"}, [][]string{
		{"2", "a"},
		{"4", "b"},
		{"6", "a"},
		{"", "b"},
	})
	stats := BasicStats(tbl)
	require.Contains(t, stats, "N")
	require.NotContains(t, stats, "Label")

	s := stats["N"]
	require.Equal(t, 3, s.Count)
	require.Equal(t, 4.0, s.Mean)
	require.Equal(t, 4.0, s.Median)
	require.Equal(t, 2.0, s.Std)
	require.Equal(t, 2.0, s.Min)
	require.Equal(t, 6.0, s.Max)
	require.Equal(t, 1, s.Missing)
}

func TestBasicStats_SingleValueColumnHasZeroStd(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"7"}})
	s := BasicStats(tbl)["N"]
	require.Equal(t, 1, s.Count)
	require.Equal(t, 0.0, s.Std)
}

func TestDeepStats(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"1"}, {"2"}, {"3"}, {"4"}})
	s, ok := DeepStats(tbl)["N"]
	require.True(t, ok)
	require.Equal(t, 1.75, s.Q1)
	require.Equal(t, 3.25, s.Q3)
	require.Equal(t, 1.5, s.IQR)
	require.Equal(t, 0.0, s.Skewness)
}

func TestDeepStats_SkipsTinyColumns(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"1"}})
	require.NotContains(t, DeepStats(tbl), "N")
}

func TestOutliersZScore(t *testing.T) {
	rows := make([][]string, 0, 11)
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{"10"})
	}
	rows = append(rows, []string{"1000"})
	tbl := build(t, []string{"N"}, rows)

	out := OutliersZScore(tbl, 3.0)
	co, ok := out["N"]
	require.True(t, ok)
	require.Equal(t, 1, co.Count)
	require.Equal(t, []int{11}, co.Rows)
	require.Equal(t, []float64{1000}, co.Values)
	require.InDelta(t, 9.0909, co.Percentage, 1e-4)
}

func TestOutliersZScore_DefaultThreshold(t *testing.T) {
	tbl := build(t, []string{"N"}, [][]string{{"1"}, {"2"}, {"3"}})
	// No value is three population stds out, so nothing is reported.
	require.Empty(t, OutliersZScore(tbl, 0))
}

func TestFrequencyCounts(t *testing.T) {
	tbl := build(t, []string{"Cat"}, [][]string{
		{"a"}, {"b"}, {"a"}, {""}, {"c"}, {"a"},
	})
	rep, err := FrequencyCounts(tbl, "Cat")
	require.NoError(t, err)
	require.Equal(t, 3, rep.Unique)
	require.Equal(t, 5, rep.NonMissing)
	require.Equal(t, 1, rep.Missing)
	require.Equal(t, map[string]int{"a": 3, "b": 1, "c": 1}, rep.Frequencies)
	require.Equal(t, 60.0, rep.Percentages["a"])
	require.False(t, rep.Truncated)
}

func TestFrequencyCounts_TruncatesWideColumns(t *testing.T) {
	rows := make([][]string, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, []string{string(rune('A' + i%26)) + string(rune('a' + i/26))})
	}
	tbl := build(t, []string{"ID"}, rows)
	rep, err := FrequencyCounts(tbl, "ID")
	require.NoError(t, err)
	require.True(t, rep.Truncated)
	require.Len(t, rep.Frequencies, 20)
	require.Contains(t, rep.Message, "showing top 20")
}

func TestFrequencyCounts_UnknownColumn(t *testing.T) {
	tbl := build(t, []string{"Cat"}, nil)
	_, err := FrequencyCounts(tbl, "Dog")
	require.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestDuplicateRows(t *testing.T) {
	tbl := build(t, []string{"A", "B"}, [][]string{
		{"1", "x"},
		{"1", "x"},
		{"1", "y"},
		{"1", "x"},
	})
	rep := DuplicateRows(tbl)
	require.Equal(t, 2, rep.DuplicateRows)
	require.Equal(t, 2, rep.UniqueRows)
	require.True(t, rep.HasDuplicates)
	require.Equal(t, 50.0, rep.Percentage)
}

func TestDuplicateRows_None(t *testing.T) {
	tbl := build(t, []string{"A"}, [][]string{{"1"}, {"2"}})
	rep := DuplicateRows(tbl)
	require.False(t, rep.HasDuplicates)
	require.Zero(t, rep.DuplicateRows)
}

func TestDescribe(t *testing.T) {
	tbl := build(t, []string{"N", "Label"}, [][]string{
		{"1", "x"},
		{"", "y"},
		{"3", ""},
	})
	ov := Describe(tbl)
	require.Equal(t, 3, ov.Rows)
	require.Equal(t, 2, ov.Columns)
	require.Equal(t, []string{"N"}, ov.NumericColumns)
	require.Equal(t, []string{"Label"}, ov.TextColumns)
	require.Equal(t, map[string]int{"N": 1, "Label": 1}, ov.MissingValues)
	require.Equal(t, 2, ov.TotalMissing)
	require.Contains(t, ov.NumericStats, "N")
}
