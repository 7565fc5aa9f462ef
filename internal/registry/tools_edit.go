package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datasmith-io/datasmith/internal/dataset"
	"github.com/datasmith-io/datasmith/internal/editor"
	"github.com/datasmith-io/datasmith/pkg/dserr"
	"github.com/datasmith-io/datasmith/pkg/validation"
)

// MutationOutput is the common response shape for tools that edit a dataset.
// Rows and Columns report the shape after the edit was saved.
type MutationOutput struct {
	Message string `json:"message"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// RemoveRowInput removes a single row by 1-based index.
type RemoveRowInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Row       int    `json:"row" validate:"required,gte=1"`
}

// RemoveColumnInput removes a column by name.
type RemoveColumnInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
}

// AddColumnInput appends a column filled with a default value.
type AddColumnInput struct {
	DatasetID    string `json:"dataset_id" validate:"required"`
	Column       string `json:"column" validate:"required"`
	DefaultValue string `json:"default_value,omitempty"`
}

// AddRowInput appends a row; values align with the column order.
type AddRowInput struct {
	DatasetID string   `json:"dataset_id" validate:"required"`
	Values    []string `json:"values" validate:"required,min=1"`
}

// SetCellInput overwrites one cell.
type SetCellInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Row       int    `json:"row" validate:"required,gte=1"`
	Column    string `json:"column" validate:"required"`
	Value     string `json:"value"`
}

// SetRowInput overwrites a whole row.
type SetRowInput struct {
	DatasetID string   `json:"dataset_id" validate:"required"`
	Row       int      `json:"row" validate:"required,gte=1"`
	Values    []string `json:"values" validate:"required,min=1"`
}

// RemoveRowsWhereInput removes every row matching a condition on a column.
type RemoveRowsWhereInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
	Condition string `json:"condition" validate:"required"`
}

// UpdateColumnWhereInput sets target_column to new_value on rows matching a
// condition evaluated against condition_column.
type UpdateColumnWhereInput struct {
	DatasetID       string `json:"dataset_id" validate:"required"`
	TargetColumn    string `json:"target_column" validate:"required"`
	ConditionColumn string `json:"condition_column" validate:"required"`
	Condition       string `json:"condition" validate:"required"`
	NewValue        string `json:"new_value"`
}

// AddConditionalColumnInput adds a column whose value per row depends on a
// condition evaluated against another column.
type AddConditionalColumnInput struct {
	DatasetID       string `json:"dataset_id" validate:"required"`
	NewColumn       string `json:"new_column" validate:"required"`
	ConditionColumn string `json:"condition_column" validate:"required"`
	Condition       string `json:"condition" validate:"required"`
	TrueValue       string `json:"true_value"`
	FalseValue      string `json:"false_value"`
}

// FilterRowsInput keeps only rows matching a condition. With persist=false the
// result is a preview; the file on disk is untouched.
type FilterRowsInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
	Condition string `json:"condition" validate:"required"`
	Persist   bool   `json:"persist,omitempty"`
}

// FilterRowsOutput carries the filtered preview or the persisted shape.
type FilterRowsOutput struct {
	Message   string              `json:"message"`
	Rows      int                 `json:"rows"`
	Columns   []string            `json:"columns"`
	Data      []map[string]string `json:"data,omitempty"`
	Persisted bool                `json:"persisted"`
}

func applyEdit(ctx context.Context, deps Deps, id string, fn func(*dataset.Table) (string, *dataset.Table, error)) (*mcp.CallToolResult, error) {
	return applyMutation(ctx, deps, id, dserr.EditFailed, fn)
}

// RegisterEditTools wires the row/column/cell editing tools, including the
// condition-driven bulk operations.
func RegisterEditTools(s *server.MCPServer, reg *Registry, deps Deps) {
	removeRow := mcp.NewTool(
		"edit_remove_row",
		mcp.WithDescription("Remove a single row by its 1-based index and save the dataset"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithNumber("row", mcp.Required(), mcp.Min(1), mcp.Description("1-based row index")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(removeRow, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in RemoveRowInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.RemoveRow(t, in.Row)
		})
	}))
	reg.Register(removeRow)

	removeColumn := mcp.NewTool(
		"edit_remove_column",
		mcp.WithDescription("Remove a column by name and save the dataset"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column name to remove")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(removeColumn, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in RemoveColumnInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.RemoveColumn(t, in.Column)
		})
	}))
	reg.Register(removeColumn)

	addColumn := mcp.NewTool(
		"edit_add_column",
		mcp.WithDescription("Add a new column filled with a default value and save the dataset"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("New column name")),
		mcp.WithString("default_value", mcp.Description("Value assigned to every row (empty means missing)")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(addColumn, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AddColumnInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.AddColumn(t, in.Column, in.DefaultValue)
		})
	}))
	reg.Register(addColumn)

	addRow := mcp.NewTool(
		"edit_add_row",
		mcp.WithDescription("Append a row; values must align with the column order"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithArray("values", mcp.Required(), mcp.Items(map[string]any{"type": "string"}), mcp.Description("Cell values in column order")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(addRow, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AddRowInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.AddRow(t, in.Values)
		})
	}))
	reg.Register(addRow)

	setCell := mcp.NewTool(
		"edit_set_cell",
		mcp.WithDescription("Overwrite a single cell identified by row index and column name"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithNumber("row", mcp.Required(), mcp.Min(1), mcp.Description("1-based row index")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column name")),
		mcp.WithString("value", mcp.Description("New cell value")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(setCell, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in SetCellInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.SetCell(t, in.Row, in.Column, in.Value)
		})
	}))
	reg.Register(setCell)

	setRow := mcp.NewTool(
		"edit_set_row",
		mcp.WithDescription("Overwrite a whole row; values must align with the column order"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithNumber("row", mcp.Required(), mcp.Min(1), mcp.Description("1-based row index")),
		mcp.WithArray("values", mcp.Required(), mcp.Items(map[string]any{"type": "string"}), mcp.Description("Cell values in column order")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(setRow, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in SetRowInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.SetRow(t, in.Row, in.Values)
		})
	}))
	reg.Register(setRow)

	removeWhere := mcp.NewTool(
		"edit_remove_rows_where",
		mcp.WithDescription("Remove every row whose column value matches a condition like '> 500' or '== Active'"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column the condition is evaluated against")),
		mcp.WithString("condition", mcp.Required(), mcp.Description("Condition string, e.g. '> 500', '!= Active', 'Burgers'")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(removeWhere, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in RemoveRowsWhereInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.RemoveRowsWhere(t, in.Column, in.Condition)
		})
	}))
	reg.Register(removeWhere)

	updateWhere := mcp.NewTool(
		"update_column_where",
		mcp.WithDescription("Set target_column to new_value on every row matching a condition on condition_column"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("target_column", mcp.Required(), mcp.Description("Column receiving the new value")),
		mcp.WithString("condition_column", mcp.Required(), mcp.Description("Column the condition is evaluated against")),
		mcp.WithString("condition", mcp.Required(), mcp.Description("Condition string, e.g. '>= 4.5'")),
		mcp.WithString("new_value", mcp.Description("Replacement value for matching rows")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(updateWhere, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in UpdateColumnWhereInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.UpdateWhere(t, in.TargetColumn, in.ConditionColumn, in.Condition, in.NewValue)
		})
	}))
	reg.Register(updateWhere)

	addConditional := mcp.NewTool(
		"edit_add_conditional_column",
		mcp.WithDescription("Add a column whose per-row value depends on a condition evaluated against another column"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("new_column", mcp.Required(), mcp.Description("Name of the column to add")),
		mcp.WithString("condition_column", mcp.Required(), mcp.Description("Column the condition is evaluated against")),
		mcp.WithString("condition", mcp.Required(), mcp.Description("Condition string, e.g. '> 500'")),
		mcp.WithString("true_value", mcp.Description("Value for rows matching the condition")),
		mcp.WithString("false_value", mcp.Description("Value for rows not matching the condition")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(addConditional, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AddConditionalColumnInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyEdit(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return editor.AddConditionalColumn(t, in.NewColumn, in.ConditionColumn, in.Condition, in.TrueValue, in.FalseValue)
		})
	}))
	reg.Register(addConditional)

	filterRows := mcp.NewTool(
		"filter_rows",
		mcp.WithDescription("Keep only rows matching a condition; preview by default, or persist to overwrite the file"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column the condition is evaluated against")),
		mcp.WithString("condition", mcp.Required(), mcp.Description("Condition string, e.g. '> 500'")),
		mcp.WithBoolean("persist", mcp.DefaultBool(false), mcp.Description("Write the filtered result back to disk")),
		mcp.WithOutputSchema[FilterRowsOutput](),
	)
	s.AddTool(filterRows, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in FilterRowsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		var out FilterRowsOutput
		if in.Persist {
			err := deps.Store.Update(ctx, in.DatasetID, func(t *dataset.Table) (*dataset.Table, error) {
				msg, next, err := editor.FilterRows(t, in.Column, in.Condition, true)
				if err != nil {
					return nil, err
				}
				out = FilterRowsOutput{
					Message:   msg,
					Rows:      next.RowCount(),
					Columns:   next.Columns,
					Persisted: true,
				}
				return next, nil
			})
			if err != nil {
				return toolError(err, dserr.FilterFailed), nil
			}
			return jsonResult(out), nil
		}
		err := deps.Store.View(ctx, in.DatasetID, func(t *dataset.Table) error {
			msg, next, err := editor.FilterRows(t, in.Column, in.Condition, false)
			if err != nil {
				return err
			}
			limit := next.RowCount()
			if limit > deps.Limits.MaxPreviewRows {
				limit = deps.Limits.MaxPreviewRows
			}
			out = FilterRowsOutput{
				Message: msg,
				Rows:    next.RowCount(),
				Columns: next.Columns,
				Data:    rowsAsRecords(next, 0, limit),
			}
			return nil
		})
		if err != nil {
			return toolError(err, dserr.FilterFailed), nil
		}
		return jsonResult(out), nil
	}))
	reg.Register(filterRows)
}
