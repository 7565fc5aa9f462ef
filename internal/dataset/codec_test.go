package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, "Item,Calories\nFries,300\nBurger,700\n")
	tbl, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Item", "Calories"}, tbl.Columns)
	require.Equal(t, 2, tbl.RowCount())

	v, err := tbl.Cell(2, "Calories")
	require.NoError(t, err)
	require.Equal(t, KindNumber, v.Kind())
	require.Equal(t, "700", v.String())
}

func TestLoadCSV_RaggedRows(t *testing.T) {
	path := writeTempCSV(t, "A,B,C\n1,2\n1,2,3,4\n")
	tbl, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())

	// Short rows pad with Missing.
	v, err := tbl.Cell(1, "C")
	require.NoError(t, err)
	require.True(t, v.IsMissing())

	// Long rows drop their extra cells.
	require.Len(t, tbl.Rows[1], 3)
}

func TestLoadCSV_EmptyCellsAreMissing(t *testing.T) {
	path := writeTempCSV(t, "A,B\n1,\n,x\n")
	tbl, err := Load(path)
	require.NoError(t, err)

	v, err := tbl.Cell(1, "B")
	require.NoError(t, err)
	require.True(t, v.IsMissing())

	v, err = tbl.Cell(2, "A")
	require.NoError(t, err)
	require.True(t, v.IsMissing())
}

func TestSaveLoadCSV_RoundTrip(t *testing.T) {
	tbl, err := New([]string{"Name", "Score", "Active"})
	require.NoError(t, err)
	for _, r := range [][]string{{"Ann", "90", "true"}, {"Bob", "", "false"}} {
		vals := make([]Value, len(r))
		for i, s := range r {
			vals[i] = Parse(s)
		}
		tbl, err = tbl.AppendRow(vals)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Save(tbl, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Columns, got.Columns)
	require.Equal(t, tbl.RowCount(), got.RowCount())
	for ri := 1; ri <= tbl.RowCount(); ri++ {
		for _, col := range tbl.Columns {
			want, err := tbl.Cell(ri, col)
			require.NoError(t, err)
			have, err := got.Cell(ri, col)
			require.NoError(t, err)
			require.True(t, want.Equal(have), "row=%d col=%s want=%q have=%q", ri, col, want.String(), have.String())
		}
	}
}

func TestSaveLoadExcel_RoundTrip(t *testing.T) {
	tbl, err := New([]string{"Item", "Calories"})
	require.NoError(t, err)
	tbl, err = tbl.AppendRow([]Value{Text("Fries"), Number(300)})
	require.NoError(t, err)
	tbl, err = tbl.AppendRow([]Value{Text("Burger"), Number(700)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "menu.xlsx")
	require.NoError(t, Save(tbl, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Item", "Calories"}, got.Columns)
	require.Equal(t, 2, got.RowCount())

	v, err := got.Cell(1, "Calories")
	require.NoError(t, err)
	f, ok := v.AsFloat()
	require.True(t, ok)
	require.Equal(t, 300.0, f)
}

func TestLoadExcel_FirstSheetWins(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"X"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"1"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"Y"}))

	path := filepath.Join(t.TempDir(), "multi.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"X"}, tbl.Columns)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("data.parquet")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	tbl, _ := New([]string{"A"})
	err = Save(tbl, "data.parquet")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSave_OverwritesAtomically(t *testing.T) {
	path := writeTempCSV(t, "A\nold\n")

	tbl, err := New([]string{"A"})
	require.NoError(t, err)
	tbl, err = tbl.AppendRow([]Value{Text("new")})
	require.NoError(t, err)
	require.NoError(t, Save(tbl, path))

	got, err := Load(path)
	require.NoError(t, err)
	v, err := got.Cell(1, "A")
	require.NoError(t, err)
	require.Equal(t, "new", v.String())

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
