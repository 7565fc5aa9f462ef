package registry

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/datasmith-io/datasmith/internal/condition"
	"github.com/datasmith-io/datasmith/internal/dataset"
	"github.com/datasmith-io/datasmith/internal/runtime"
	"github.com/datasmith-io/datasmith/internal/security"
	"github.com/datasmith-io/datasmith/internal/store"
	"github.com/datasmith-io/datasmith/pkg/dserr"
)

// Deps carries the shared collaborators every tool handler needs.
type Deps struct {
	Store  *store.Store
	Limits runtime.Limits
	Logger zerolog.Logger
}

// toolError maps domain sentinel errors onto catalog codes, falling back to
// the operation's own failure code. Handlers never let an error escape as a
// protocol error: every failure becomes a textual tool result.
func toolError(err error, fallback dserr.Code) *mcp.CallToolResult {
	switch {
	case errors.Is(err, dataset.ErrColumnNotFound):
		return dserr.New(dserr.InvalidColumn, err.Error())
	case errors.Is(err, dataset.ErrColumnExists):
		return dserr.New(dserr.Validation, err.Error())
	case errors.Is(err, dataset.ErrRowOutOfRange):
		return dserr.New(dserr.InvalidRow, err.Error())
	case errors.Is(err, dataset.ErrUnsupportedFormat):
		return dserr.New(dserr.UnsupportedFormat, err.Error())
	case errors.Is(err, condition.ErrBadOperand):
		return dserr.New(dserr.ConditionInvalid, err.Error())
	case errors.Is(err, store.ErrHandleNotFound):
		return dserr.New(dserr.InvalidHandle, err.Error())
	case errors.Is(err, security.ErrNotAllowed):
		return dserr.New(dserr.PermissionDenied, err.Error())
	case errors.Is(err, security.ErrNotFound):
		return dserr.New(dserr.NotFound, err.Error())
	case errors.Is(err, security.ErrUnsupportedExtension):
		return dserr.New(dserr.UnsupportedFormat, err.Error())
	default:
		return dserr.New(fallback, err.Error())
	}
}

// jsonResult marshals a response payload into a text tool result.
func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return dserr.Wrapf(dserr.AnalysisFailed, "encode response: %v", err)
	}
	return mcp.NewToolResultText(string(b))
}

// rowsAsRecords renders up to limit rows as column-keyed records for preview
// payloads, with missing cells rendered as empty strings.
func rowsAsRecords(t *dataset.Table, offset, limit int) []map[string]string {
	if offset < 0 {
		offset = 0
	}
	if offset > t.RowCount() {
		offset = t.RowCount()
	}
	end := offset + limit
	if limit <= 0 || end > t.RowCount() {
		end = t.RowCount()
	}
	records := make([]map[string]string, 0, end-offset)
	for _, row := range t.Rows[offset:end] {
		rec := make(map[string]string, len(t.Columns))
		for ci, name := range t.Columns {
			rec[name] = row[ci].String()
		}
		records = append(records, rec)
	}
	return records
}

// applyMutation runs fn under the store's per-path write lock and reports the
// resulting table shape. A nil table from fn means no change was made and the
// file on disk is left untouched.
func applyMutation(ctx context.Context, deps Deps, id string, fallback dserr.Code, fn func(*dataset.Table) (string, *dataset.Table, error)) (*mcp.CallToolResult, error) {
	var out MutationOutput
	err := deps.Store.Update(ctx, id, func(t *dataset.Table) (*dataset.Table, error) {
		msg, next, err := fn(t)
		if err != nil {
			return nil, err
		}
		out.Message = msg
		shape := next
		if shape == nil {
			shape = t
		}
		out.Rows = shape.RowCount()
		out.Columns = len(shape.Columns)
		return next, nil
	})
	if err != nil {
		return toolError(err, fallback), nil
	}
	deps.Logger.Info().Str("dataset_id", id).Str("result", out.Message).Msg("dataset mutated")
	return jsonResult(out), nil
}
