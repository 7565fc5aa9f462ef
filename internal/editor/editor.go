// Package editor implements the row/column mutation operations exposed by
// the edit tools. Every operation is a pure transform: it takes a table and
// returns a human-readable message plus the resulting table, leaving the
// input untouched. A nil result table signals a no-op so callers can skip
// the persist step.
package editor

import (
	"fmt"
	"strings"

	"github.com/datasmith-io/datasmith/internal/dataset"
)

// RemoveRow drops one 1-based row.
func RemoveRow(t *dataset.Table, userRow int) (string, *dataset.Table, error) {
	out, err := t.RemoveRow(userRow)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Removed row %d", userRow), out, nil
}

// RemoveColumn drops a named column.
func RemoveColumn(t *dataset.Table, column string) (string, *dataset.Table, error) {
	out, err := t.RemoveColumn(column)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Removed column %q", column), out, nil
}

// AddColumn appends a column filled with a default value.
func AddColumn(t *dataset.Table, column, defaultValue string) (string, *dataset.Table, error) {
	out, err := t.AddColumn(column, dataset.Parse(defaultValue))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Added column %q with default value %q", column, defaultValue), out, nil
}

// AddRow appends a row; values must match the column count and order.
func AddRow(t *dataset.Table, values []string) (string, *dataset.Table, error) {
	row := make([]dataset.Value, len(values))
	for i, s := range values {
		row[i] = dataset.Parse(s)
	}
	out, err := t.AppendRow(row)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Added row: [%s]", strings.Join(values, ", ")), out, nil
}

// SetCell overwrites one cell addressed by 1-based row and column name.
func SetCell(t *dataset.Table, userRow int, column, value string) (string, *dataset.Table, error) {
	out, old, err := t.SetCell(userRow, column, dataset.Parse(value))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Set value at row %d, column %q from %q to %q", userRow, column, old.String(), value), out, nil
}

// SetRow replaces every cell of a 1-based row.
func SetRow(t *dataset.Table, userRow int, values []string) (string, *dataset.Table, error) {
	row := make([]dataset.Value, len(values))
	for i, s := range values {
		row[i] = dataset.Parse(s)
	}
	out, err := t.SetRow(userRow, row)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Updated row %d with [%s]", userRow, strings.Join(values, ", ")), out, nil
}
