package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datasmith-io/datasmith/internal/dataset"
)

func scoresTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New([]string{"Name", "Score"})
	require.NoError(t, err)
	for _, r := range [][]string{{"Ann", "90"}, {"Bob", "75"}, {"Cid", "60"}} {
		tbl, err = tbl.AppendRow([]dataset.Value{dataset.Parse(r[0]), dataset.Parse(r[1])})
		require.NoError(t, err)
	}
	return tbl
}

func TestRemoveRow(t *testing.T) {
	tbl := scoresTable(t)
	msg, out, err := RemoveRow(tbl, 2)
	require.NoError(t, err)
	require.Equal(t, "Removed row 2", msg)
	require.Equal(t, 2, out.RowCount())
	require.Equal(t, 3, tbl.RowCount())

	_, _, err = RemoveRow(tbl, 9)
	require.ErrorIs(t, err, dataset.ErrRowOutOfRange)
}

func TestRemoveColumn(t *testing.T) {
	tbl := scoresTable(t)
	msg, out, err := RemoveColumn(tbl, "Score")
	require.NoError(t, err)
	require.Equal(t, `Removed column "Score"`, msg)
	require.Equal(t, []string{"Name"}, out.Columns)

	_, _, err = RemoveColumn(tbl, "Grade")
	require.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestAddColumn(t *testing.T) {
	tbl := scoresTable(t)
	msg, out, err := AddColumn(tbl, "Passed", "yes")
	require.NoError(t, err)
	require.Contains(t, msg, `Added column "Passed"`)
	v, err := out.Cell(3, "Passed")
	require.NoError(t, err)
	require.Equal(t, "yes", v.String())

	_, _, err = AddColumn(tbl, "Score", "0")
	require.ErrorIs(t, err, dataset.ErrColumnExists)
}

func TestAddRow(t *testing.T) {
	tbl := scoresTable(t)
	msg, out, err := AddRow(tbl, []string{"Dee", "88"})
	require.NoError(t, err)
	require.Equal(t, "Added row: [Dee, 88]", msg)
	require.Equal(t, 4, out.RowCount())

	// New numeric text infers as a number.
	v, err := out.Cell(4, "Score")
	require.NoError(t, err)
	require.Equal(t, dataset.KindNumber, v.Kind())

	_, _, err = AddRow(tbl, []string{"too-few"})
	require.Error(t, err)
}

func TestSetCell(t *testing.T) {
	tbl := scoresTable(t)
	msg, out, err := SetCell(tbl, 1, "Score", "95")
	require.NoError(t, err)
	require.Equal(t, `Set value at row 1, column "Score" from "90" to "95"`, msg)

	v, err := out.Cell(1, "Score")
	require.NoError(t, err)
	require.Equal(t, "95", v.String())
}

func TestSetRow(t *testing.T) {
	tbl := scoresTable(t)
	msg, out, err := SetRow(tbl, 2, []string{"Bobby", "80"})
	require.NoError(t, err)
	require.Equal(t, "Updated row 2 with [Bobby, 80]", msg)

	v, err := out.Cell(2, "Name")
	require.NoError(t, err)
	require.Equal(t, "Bobby", v.String())

	_, _, err = SetRow(tbl, 0, []string{"X", "1"})
	require.ErrorIs(t, err, dataset.ErrRowOutOfRange)
}
