package dserr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code defines a canonical tool error code used across dataset tools.
type Code string

const (
	// Validation & Input
	Validation       Code = "VALIDATION"
	InvalidHandle    Code = "INVALID_HANDLE"
	InvalidColumn    Code = "INVALID_COLUMN"
	InvalidRow       Code = "INVALID_ROW"
	ConditionInvalid Code = "CONDITION_INVALID"

	// Resource & Limits
	BusyResource Code = "BUSY_RESOURCE"
	Timeout      Code = "TIMEOUT"

	// IO & Formats
	LoadFailed        Code = "LOAD_FAILED"
	SaveFailed        Code = "SAVE_FAILED"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	NotFound          Code = "NOT_FOUND"
	PermissionDenied  Code = "PERMISSION_DENIED"

	// Operations
	EditFailed      Code = "EDIT_FAILED"
	FilterFailed    Code = "FILTER_FAILED"
	TransformFailed Code = "TRANSFORM_FAILED"
	AnalysisFailed  Code = "ANALYSIS_FAILED"
)

// Entry documents a code's standard message, retry semantics, and next steps.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation:       {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},
	InvalidHandle:    {Code: InvalidHandle, Message: "dataset handle not found or expired", Retryable: true, NextSteps: []string{"Reopen the dataset via path and retry"}},
	InvalidColumn:    {Code: InvalidColumn, Message: "column not found", Retryable: true, NextSteps: []string{"Call describe_dataset to list column names", "Check case and spacing"}},
	InvalidRow:       {Code: InvalidRow, Message: "row index out of range", Retryable: true, NextSteps: []string{"Row numbers are 1-based; check the current row count"}},
	ConditionInvalid: {Code: ConditionInvalid, Message: "condition could not be evaluated", Retryable: true, NextSteps: []string{"Use forms like '> 500', '!= Active', or a bare value for equality", "Ordering operators need a numeric operand"}},

	BusyResource: {Code: BusyResource, Message: "concurrent request limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:      {Code: Timeout, Message: "operation exceeded configured time limit", Retryable: true, NextSteps: []string{"Narrow scope (fewer rows) or increase timeout"}},

	LoadFailed:        {Code: LoadFailed, Message: "failed to load dataset", Retryable: true, NextSteps: []string{"Verify path, permissions, and format"}},
	SaveFailed:        {Code: SaveFailed, Message: "failed to save dataset", Retryable: true, NextSteps: []string{"Check disk space and permissions; the original file is untouched"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported dataset format", Retryable: false, NextSteps: []string{"Convert to .csv or .xlsx and retry"}},
	NotFound:          {Code: NotFound, Message: "file not found", Retryable: false, NextSteps: []string{"Verify the path and allowed directories"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "path not inside an allowed directory", Retryable: false, NextSteps: []string{"Choose a path under DATASMITH_ALLOWED_DIRS"}},

	EditFailed:      {Code: EditFailed, Message: "edit operation failed", Retryable: false, NextSteps: []string{"Validate row/column references and values"}},
	FilterFailed:    {Code: FilterFailed, Message: "filter execution failed", Retryable: true, NextSteps: []string{"Simplify the condition or verify the column"}},
	TransformFailed: {Code: TransformFailed, Message: "transform operation failed", Retryable: false, NextSteps: []string{"Verify the column contains convertible values"}},
	AnalysisFailed:  {Code: AnalysisFailed, Message: "analysis failed", Retryable: true, NextSteps: []string{"Verify column names and that numeric analysis targets numeric columns"}},
}

// normalize builds a standard error string including next steps for MCP clients that
// surface only a message string. Format: "CODE: message" followed by a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
		// Unknown code; preserve as-is
		if base == "" {
			return string(code)
		}
		return fmt.Sprintf("%s: %s", string(code), base)
	}
	if base == "" {
		base = e.Message
	}
	// Append compact nextSteps guidance inline to aid clients lacking structured fields.
	guidance := ""
	if len(e.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(e.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}

// Retryable reports whether the catalog marks a code as retryable.
func Retryable(code Code) bool {
	e, ok := catalog[code]
	return ok && e.Retryable
}
