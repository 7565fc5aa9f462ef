package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datasmith-io/datasmith/internal/analyzer"
	"github.com/datasmith-io/datasmith/internal/dataset"
	"github.com/datasmith-io/datasmith/pkg/dserr"
	"github.com/datasmith-io/datasmith/pkg/validation"
)

// AnalyzeDatasetInput selects a dataset for a whole-table analysis.
type AnalyzeDatasetInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
}

// ColumnAveragesInput selects numeric columns to average.
type ColumnAveragesInput struct {
	DatasetID string   `json:"dataset_id" validate:"required"`
	Columns   []string `json:"columns" validate:"required,min=1"`
}

// OutliersInput configures z-score outlier detection.
type OutliersInput struct {
	DatasetID string  `json:"dataset_id" validate:"required"`
	Threshold float64 `json:"threshold,omitempty" validate:"gte=0"`
}

// FrequencyInput selects a column for value frequency counts.
type FrequencyInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Column    string `json:"column" validate:"required"`
}

// analyzeView runs a read-only analysis and serializes its report.
func analyzeView(ctx context.Context, deps Deps, id string, fn func(*dataset.Table) (any, error)) (*mcp.CallToolResult, error) {
	var report any
	err := deps.Store.View(ctx, id, func(t *dataset.Table) error {
		var err error
		report, err = fn(t)
		return err
	})
	if err != nil {
		return toolError(err, dserr.AnalysisFailed), nil
	}
	return jsonResult(report), nil
}

// RegisterAnalyzeTools wires the read-only statistical analysis tools.
func RegisterAnalyzeTools(s *server.MCPServer, reg *Registry, deps Deps) {
	missing := mcp.NewTool(
		"analyze_missing_columns",
		mcp.WithDescription("Report missing-value counts and percentages per column"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithOutputSchema[analyzer.MissingReport](),
	)
	s.AddTool(missing, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AnalyzeDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return analyzeView(ctx, deps, in.DatasetID, func(t *dataset.Table) (any, error) {
			return analyzer.MissingColumns(t), nil
		})
	}))
	reg.Register(missing)

	averages := mcp.NewTool(
		"analyze_column_averages",
		mcp.WithDescription("Compute the mean of one or more numeric columns"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithArray("columns", mcp.Required(), mcp.Items(map[string]any{"type": "string"}), mcp.Description("Numeric columns to average")),
		mcp.WithOutputSchema[analyzer.AveragesReport](),
	)
	s.AddTool(averages, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ColumnAveragesInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return analyzeView(ctx, deps, in.DatasetID, func(t *dataset.Table) (any, error) {
			return analyzer.ColumnAverages(t, in.Columns)
		})
	}))
	reg.Register(averages)

	basic := mcp.NewTool(
		"analyze_basic_stats",
		mcp.WithDescription("Count, mean, std, min, median and max for every numeric column"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
	)
	s.AddTool(basic, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AnalyzeDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return analyzeView(ctx, deps, in.DatasetID, func(t *dataset.Table) (any, error) {
			return analyzer.BasicStats(t), nil
		})
	}))
	reg.Register(basic)

	deep := mcp.NewTool(
		"analyze_deep_stats",
		mcp.WithDescription("Basic stats plus quartiles, IQR, skewness and kurtosis for every numeric column"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
	)
	s.AddTool(deep, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AnalyzeDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return analyzeView(ctx, deps, in.DatasetID, func(t *dataset.Table) (any, error) {
			return analyzer.DeepStats(t), nil
		})
	}))
	reg.Register(deep)

	outliers := mcp.NewTool(
		"analyze_outliers",
		mcp.WithDescription("Flag rows whose numeric values exceed a z-score threshold (default 3.0)"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithNumber("threshold", mcp.DefaultNumber(3.0), mcp.Min(0), mcp.Description("Z-score threshold; values farther from the mean are flagged")),
	)
	s.AddTool(outliers, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in OutliersInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return analyzeView(ctx, deps, in.DatasetID, func(t *dataset.Table) (any, error) {
			return analyzer.OutliersZScore(t, in.Threshold), nil
		})
	}))
	reg.Register(outliers)

	frequency := mcp.NewTool(
		"analyze_frequency",
		mcp.WithDescription("Value frequency counts for a column, most frequent first"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithString("column", mcp.Required(), mcp.Description("Column to count")),
		mcp.WithOutputSchema[analyzer.FrequencyReport](),
	)
	s.AddTool(frequency, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in FrequencyInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return analyzeView(ctx, deps, in.DatasetID, func(t *dataset.Table) (any, error) {
			return analyzer.FrequencyCounts(t, in.Column)
		})
	}))
	reg.Register(frequency)

	duplicates := mcp.NewTool(
		"analyze_duplicates",
		mcp.WithDescription("Find groups of fully identical rows"),
		mcp.WithString("dataset_id", mcp.Required(), mcp.Description("Dataset handle ID")),
		mcp.WithOutputSchema[analyzer.DuplicateReport](),
	)
	s.AddTool(duplicates, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in AnalyzeDatasetInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		return analyzeView(ctx, deps, in.DatasetID, func(t *dataset.Table) (any, error) {
			return analyzer.DuplicateRows(t), nil
		})
	}))
	reg.Register(duplicates)
}
