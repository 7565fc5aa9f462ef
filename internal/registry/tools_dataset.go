package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datasmith-io/datasmith/internal/analyzer"
	"github.com/datasmith-io/datasmith/internal/dataset"
	"github.com/datasmith-io/datasmith/pkg/dserr"
	"github.com/datasmith-io/datasmith/pkg/pagination"
	"github.com/datasmith-io/datasmith/pkg/validation"
)

// --- Input / Output Schemas (typed for discovery) ---

// OpenDatasetInput defines parameters for opening a dataset file.
type OpenDatasetInput struct {
	Path string `json:"path" validate:"required,filepath_ext" jsonschema_description:"Absolute or allowed path to a CSV/Excel dataset"`
}

// OpenDatasetOutput documents the response fields for open_dataset.
type OpenDatasetOutput struct {
	DatasetID string   `json:"dataset_id" jsonschema_description:"Server-assigned dataset handle ID"`
	Rows      int      `json:"rows" jsonschema_description:"Row count at open time"`
	Columns   []string `json:"columns" jsonschema_description:"Column names in file order"`
}

// CloseDatasetInput defines parameters for closing a dataset handle.
type CloseDatasetInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID to close"`
}

// DescribeDatasetInput selects the dataset to describe.
type DescribeDatasetInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID"`
}

// PreviewRowsInput defines parameters for previewing rows.
type PreviewRowsInput struct {
	DatasetID string `json:"dataset_id" validate:"required_without=Cursor" jsonschema_description:"Dataset handle ID"`
	Rows      int    `json:"rows,omitempty" validate:"gte=0" jsonschema_description:"Max rows per page (bounded)"`
	Cursor    string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque cursor to continue a previous preview"`
}

// PageMeta captures paging/truncation metadata.
type PageMeta struct {
	Total      int    `json:"total"`
	Returned   int    `json:"returned"`
	Truncated  bool   `json:"truncated"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// PreviewRowsOutput documents preview payloads.
type PreviewRowsOutput struct {
	DatasetID string              `json:"dataset_id"`
	Columns   []string            `json:"columns"`
	Data      []map[string]string `json:"data"`
	Meta      PageMeta            `json:"meta"`
}

// RegisterDatasetTools wires the dataset lifecycle and inspection tools.
func RegisterDatasetTools(s *server.MCPServer, reg *Registry, deps Deps) {
	openTool := mcp.NewTool(
		"open_dataset",
		mcp.WithDescription("Open a CSV/Excel dataset and return a handle ID plus its shape"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute or allowed path to a dataset (.csv, .xlsx, .xlsm)")),
		mcp.WithOutputSchema[OpenDatasetOutput](),
	)
	s.AddTool(openTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in OpenDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		id, t, err := deps.Store.Open(ctx, in.Path)
		if err != nil {
			return toolError(err, dserr.LoadFailed), nil
		}
		deps.Logger.Info().Str("dataset_id", id).Int("rows", t.RowCount()).Int("columns", len(t.Columns)).Msg("dataset opened")
		return jsonResult(OpenDatasetOutput{DatasetID: id, Rows: t.RowCount(), Columns: t.Columns}), nil
	}))
	reg.Register(openTool)

	closeTool := mcp.NewTool(
		"close_dataset",
		mcp.WithDescription("Close a previously opened dataset handle"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
	)
	s.AddTool(closeTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in CloseDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		if err := deps.Store.CloseHandle(in.DatasetID); err != nil {
			return toolError(err, dserr.InvalidHandle), nil
		}
		return jsonResult(map[string]bool{"success": true}), nil
	}))
	reg.Register(closeTool)

	describeTool := mcp.NewTool(
		"describe_dataset",
		mcp.WithDescription("Comprehensive dataset description: shape, column kinds, missing values, numeric statistics"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
	)
	s.AddTool(describeTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in DescribeDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		var ov analyzer.Overview
		err := deps.Store.View(ctx, in.DatasetID, func(t *dataset.Table) error {
			ov = analyzer.Describe(t)
			return nil
		})
		if err != nil {
			return toolError(err, dserr.AnalysisFailed), nil
		}
		return jsonResult(ov), nil
	}))
	reg.Register(describeTool)

	previewTool := mcp.NewTool(
		"preview_rows",
		mcp.WithDescription("Return a bounded page of rows; pass the returned cursor to continue"),
		mcp.WithString("dataset_id", mcp.Description("Dataset handle ID (required unless cursor is supplied)")),
		mcp.WithNumber("rows", mcp.DefaultNumber(float64(deps.Limits.PreviewRowLimit)), mcp.Min(1), mcp.Max(float64(deps.Limits.MaxPreviewRows)), mcp.Description("Max rows per page")),
		mcp.WithString("cursor", mcp.Description("Opaque cursor from a previous preview_rows call")),
		mcp.WithOutputSchema[PreviewRowsOutput](),
	)
	s.AddTool(previewTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in PreviewRowsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		id := in.DatasetID
		offset := 0
		pageSize := in.Rows
		if in.Cursor != "" {
			cur, err := pagination.DecodeCursor(in.Cursor)
			if err != nil {
				return dserr.New(dserr.Validation, err.Error()), nil
			}
			id, offset, pageSize = cur.Did, cur.Off, cur.Ps
		}
		if pageSize <= 0 {
			pageSize = deps.Limits.PreviewRowLimit
		}
		if pageSize > deps.Limits.MaxPreviewRows {
			pageSize = deps.Limits.MaxPreviewRows
		}

		var out PreviewRowsOutput
		err := deps.Store.View(ctx, id, func(t *dataset.Table) error {
			out = PreviewRowsOutput{
				DatasetID: id,
				Columns:   t.Columns,
				Data:      rowsAsRecords(t, offset, pageSize),
			}
			out.Meta.Total = t.RowCount()
			out.Meta.Returned = len(out.Data)
			remaining := t.RowCount() - (offset + len(out.Data))
			if remaining > 0 {
				out.Meta.Truncated = true
				tok, err := pagination.EncodeCursor(pagination.Cursor{
					Did: id,
					Off: pagination.NextOffset(offset, len(out.Data)),
					Ps:  pageSize,
				})
				if err != nil {
					return err
				}
				out.Meta.NextCursor = tok
			}
			return nil
		})
		if err != nil {
			return toolError(err, dserr.LoadFailed), nil
		}
		return jsonResult(out), nil
	}))
	reg.Register(previewTool)
}
