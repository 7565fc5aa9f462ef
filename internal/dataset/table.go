package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrColumnNotFound indicates a reference to a column the table does not have.
var ErrColumnNotFound = errors.New("dataset: column not found")

// ErrColumnExists indicates an attempt to create a column that already exists.
var ErrColumnExists = errors.New("dataset: column already exists")

// ErrRowOutOfRange indicates a 1-based row index outside the table.
var ErrRowOutOfRange = errors.New("dataset: row out of range")

// Table is an ordered collection of named columns over rows of Values.
// Invariants: every row has exactly len(Columns) cells, column names are
// unique, and column order is preserved across load/mutate/save cycles.
// Mutating helpers return a new Table and leave the receiver untouched.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// New creates an empty table with the given column names.
func New(columns []string) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}, nil
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnIndex returns the position of a named column, or an error listing the
// available columns so tool callers can self-correct.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (available: %s)", ErrColumnNotFound, name, strings.Join(t.Columns, ", "))
}

// HasColumn reports whether a named column exists.
func (t *Table) HasColumn(name string) bool {
	_, err := t.ColumnIndex(name)
	return err == nil
}

// rowIndex converts a 1-based user row to a 0-based index with bounds checks.
func (t *Table) rowIndex(userRow int) (int, error) {
	if userRow < 1 {
		return -1, fmt.Errorf("%w: row index must be a positive integer, got %d", ErrRowOutOfRange, userRow)
	}
	if userRow > len(t.Rows) {
		return -1, fmt.Errorf("%w: row %d does not exist (max: %d)", ErrRowOutOfRange, userRow, len(t.Rows))
	}
	return userRow - 1, nil
}

// Clone makes a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]Value, len(r))
		copy(row, r)
		rows[i] = row
	}
	return &Table{Columns: cols, Rows: rows}
}

// AppendRow adds a row. The value count must match the column count.
func (t *Table) AppendRow(values []Value) (*Table, error) {
	if len(values) != len(t.Columns) {
		return nil, fmt.Errorf("dataset: row length mismatch: expected %d values, got %d", len(t.Columns), len(values))
	}
	out := t.Clone()
	row := make([]Value, len(values))
	copy(row, values)
	out.Rows = append(out.Rows, row)
	return out, nil
}

// RemoveRow drops the given 1-based row, re-numbering the remainder.
func (t *Table) RemoveRow(userRow int) (*Table, error) {
	idx, err := t.rowIndex(userRow)
	if err != nil {
		return nil, err
	}
	out := t.Clone()
	out.Rows = append(out.Rows[:idx], out.Rows[idx+1:]...)
	return out, nil
}

// RemoveColumn drops a named column from every row.
func (t *Table) RemoveColumn(name string) (*Table, error) {
	ci, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := t.Clone()
	out.Columns = append(out.Columns[:ci], out.Columns[ci+1:]...)
	for i, r := range out.Rows {
		out.Rows[i] = append(r[:ci], r[ci+1:]...)
	}
	return out, nil
}

// AddColumn appends a new column filled with the default value.
func (t *Table) AddColumn(name string, def Value) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("%w: %q", ErrColumnExists, name)
	}
	out := t.Clone()
	out.Columns = append(out.Columns, name)
	for i, r := range out.Rows {
		out.Rows[i] = append(r, def)
	}
	return out, nil
}

// SetCell overwrites one cell addressed by 1-based row and column name.
func (t *Table) SetCell(userRow int, column string, v Value) (*Table, Value, error) {
	idx, err := t.rowIndex(userRow)
	if err != nil {
		return nil, Missing(), err
	}
	ci, err := t.ColumnIndex(column)
	if err != nil {
		return nil, Missing(), err
	}
	out := t.Clone()
	old := out.Rows[idx][ci]
	out.Rows[idx][ci] = v
	return out, old, nil
}

// SetRow replaces every cell of a 1-based row.
func (t *Table) SetRow(userRow int, values []Value) (*Table, error) {
	idx, err := t.rowIndex(userRow)
	if err != nil {
		return nil, err
	}
	if len(values) != len(t.Columns) {
		return nil, fmt.Errorf("dataset: value count mismatch: expected %d, got %d", len(t.Columns), len(values))
	}
	out := t.Clone()
	row := make([]Value, len(values))
	copy(row, values)
	out.Rows[idx] = row
	return out, nil
}

// Cell returns the value at a 1-based row and column name.
func (t *Table) Cell(userRow int, column string) (Value, error) {
	idx, err := t.rowIndex(userRow)
	if err != nil {
		return Missing(), err
	}
	ci, err := t.ColumnIndex(column)
	if err != nil {
		return Missing(), err
	}
	return t.Rows[idx][ci], nil
}

// Column returns a copy of one column's cells in row order.
func (t *Table) Column(name string) ([]Value, error) {
	ci, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[ci]
	}
	return out, nil
}

// NumericColumn coerces one column to floats. Entries that do not coerce are
// reported as NaN alongside ok=false in the validity slice; they never satisfy
// an ordering comparison.
func (t *Table) NumericColumn(name string) ([]float64, []bool, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, nil, err
	}
	nums := make([]float64, len(col))
	ok := make([]bool, len(col))
	for i, v := range col {
		f, valid := v.AsFloat()
		if !valid {
			nums[i] = math.NaN()
			continue
		}
		nums[i] = f
		ok[i] = valid
	}
	return nums, ok, nil
}

// Head returns up to n leading rows as a preview table.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := t.Clone()
	out.Rows = out.Rows[:n]
	return out
}
