package editor

import (
	"fmt"

	"github.com/datasmith-io/datasmith/internal/condition"
	"github.com/datasmith-io/datasmith/internal/dataset"
)

// RemoveRowsWhere drops every row matching the condition, re-numbering the
// remainder contiguously. Matching zero rows is an explicit no-op.
func RemoveRowsWhere(t *dataset.Table, column, cond string) (string, *dataset.Table, error) {
	mask, err := condition.Apply(t, column, cond)
	if err != nil {
		return "", nil, err
	}
	removed := mask.Count()
	if removed == 0 {
		return fmt.Sprintf("No rows match condition %q on column %q; table unchanged", cond, column), nil, nil
	}
	out := t.Clone()
	rows := out.Rows[:0]
	for i, row := range out.Rows {
		if !mask[i] {
			rows = append(rows, row)
		}
	}
	out.Rows = rows
	return fmt.Sprintf("Removed %d rows where %q %s (%d remaining)", removed, column, condition.Parse(cond), out.RowCount()), out, nil
}

// UpdateWhere overwrites targetColumn with newValue in every row where the
// condition holds on conditionColumn.
func UpdateWhere(t *dataset.Table, targetColumn, conditionColumn, cond, newValue string) (string, *dataset.Table, error) {
	ti, err := t.ColumnIndex(targetColumn)
	if err != nil {
		return "", nil, err
	}
	mask, err := condition.Apply(t, conditionColumn, cond)
	if err != nil {
		return "", nil, err
	}
	updated := mask.Count()
	if updated == 0 {
		return fmt.Sprintf("No rows match condition %q on column %q; table unchanged", cond, conditionColumn), nil, nil
	}
	val := dataset.Parse(newValue)
	out := t.Clone()
	for i := range out.Rows {
		if mask[i] {
			out.Rows[i][ti] = val
		}
	}
	return fmt.Sprintf("Updated %q to %q in %d rows where %q %s", targetColumn, newValue, updated, conditionColumn, condition.Parse(cond)), out, nil
}

// AddConditionalColumn creates newColumn set to trueValue where the condition
// holds on conditionColumn and falseValue everywhere else. Fails when
// newColumn already exists or conditionColumn is missing.
func AddConditionalColumn(t *dataset.Table, newColumn, conditionColumn, cond, trueValue, falseValue string) (string, *dataset.Table, error) {
	mask, err := condition.Apply(t, conditionColumn, cond)
	if err != nil {
		return "", nil, err
	}
	out, err := t.AddColumn(newColumn, dataset.Parse(falseValue))
	if err != nil {
		return "", nil, err
	}
	ci := len(out.Columns) - 1
	tv := dataset.Parse(trueValue)
	for i := range out.Rows {
		if mask[i] {
			out.Rows[i][ci] = tv
		}
	}
	trueCount := mask.Count()
	return fmt.Sprintf("Added column %q: %d rows set to %q, %d rows set to %q",
		newColumn, trueCount, trueValue, out.RowCount()-trueCount, falseValue), out, nil
}

// FilterRows computes the subset of rows where the condition holds. With
// persist=false the subset is returned for display only and the stored table
// is untouched; with persist=true the table is replaced by the subset.
func FilterRows(t *dataset.Table, column, cond string, persist bool) (string, *dataset.Table, error) {
	mask, err := condition.Apply(t, column, cond)
	if err != nil {
		return "", nil, err
	}
	out := t.Clone()
	rows := make([][]dataset.Value, 0, mask.Count())
	for i, row := range out.Rows {
		if mask[i] {
			rows = append(rows, row)
		}
	}
	out.Rows = rows
	verb := "Previewing"
	if persist {
		verb = "Kept"
	}
	msg := fmt.Sprintf("%s %d of %d rows where %q %s", verb, out.RowCount(), t.RowCount(), column, condition.Parse(cond))
	return msg, out, nil
}
