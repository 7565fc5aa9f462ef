package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datasmith-io/datasmith/internal/dataset"
	"github.com/datasmith-io/datasmith/internal/transform"
	"github.com/datasmith-io/datasmith/pkg/dserr"
	"github.com/datasmith-io/datasmith/pkg/validation"
)

// FillMissingInput fills empty cells in a column with a value.
type FillMissingInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
	Value     string `json:"value" validate:"required"`
}

// ConvertColumnInput coerces every cell in a column to a target kind.
type ConvertColumnInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
	Kind      string `json:"kind" validate:"required"`
}

// NormalizeColumnInput min-max scales a numeric column to [0, 1].
type NormalizeColumnInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
}

// ColumnInfoInput selects a column to profile.
type ColumnInfoInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
}

// RegisterTransformTools wires the column transformation and profiling tools.
func RegisterTransformTools(s *server.MCPServer, reg *Registry, deps Deps) {
	fill := mcp.NewTool(
		"transform_fill_missing",
		mcp.WithDescription("Fill every missing cell in a column with a value and save the dataset"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column to fill")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Replacement for missing cells")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(fill, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in FillMissingInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		res, err := applyTransform(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return transform.FillMissing(t, in.Column, in.Value)
		})
		return res, err
	}))
	reg.Register(fill)

	convert := mcp.NewTool(
		"transform_convert_column",
		mcp.WithDescription("Convert every cell in a column to a target kind (number, text, bool) and save"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column to convert")),
		mcp.WithString("kind", mcp.Required(), mcp.Enum("number", "int", "float", "numeric", "text", "string", "bool", "boolean"), mcp.Description("Target kind")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(convert, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ConvertColumnInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyTransform(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return transform.ConvertColumn(t, in.Column, in.Kind)
		})
	}))
	reg.Register(convert)

	normalize := mcp.NewTool(
		"transform_normalize_column",
		mcp.WithDescription("Min-max scale a numeric column to the [0, 1] range and save"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Numeric column to normalize")),
		mcp.WithOutputSchema[MutationOutput](),
	)
	s.AddTool(normalize, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in NormalizeColumnInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return applyTransform(ctx, deps, in.DatasetID, func(t *dataset.Table) (string, *dataset.Table, error) {
			return transform.NormalizeColumn(t, in.Column)
		})
	}))
	reg.Register(normalize)

	info := mcp.NewTool(
		"column_info",
		mcp.WithDescription("Profile a single column: dominant kind, missing count, unique count, numeric summary"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column to profile")),
		mcp.WithOutputSchema[transform.ColumnInfo](),
	)
	s.AddTool(info, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ColumnInfoInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		var ci transform.ColumnInfo
		err := deps.Store.View(ctx, in.DatasetID, func(t *dataset.Table) error {
			var err error
			ci, err = transform.DescribeColumn(t, in.Column)
			return err
		})
		if err != nil {
			return toolError(err, dserr.AnalysisFailed), nil
		}
		return jsonResult(ci), nil
	}))
	reg.Register(info)
}

func applyTransform(ctx context.Context, deps Deps, id string, fn func(*dataset.Table) (string, *dataset.Table, error)) (*mcp.CallToolResult, error) {
	return applyMutation(ctx, deps, id, dserr.TransformFailed, fn)
}
