package registry

import (
	"context"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// WriteToolFilter conditionally hides mutating tools unless explicitly enabled.
// Enable by setting environment variable DATASMITH_ENABLE_WRITES=true.
type WriteToolFilter struct {
	allowWrites bool
}

// NewWriteToolFilterFromEnv constructs a filter using DATASMITH_ENABLE_WRITES.
func NewWriteToolFilterFromEnv() *WriteToolFilter {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DATASMITH_ENABLE_WRITES")))
	allow := v == "1" || v == "true" || v == "yes"
	return &WriteToolFilter{allowWrites: allow}
}

// WritesEnabled reports whether mutating tools are exposed.
func (f *WriteToolFilter) WritesEnabled() bool { return f.allowWrites }

// FilterTools implements server tool filtering semantics.
// When writes are disabled, tools with prefixes commonly used for writes
// are excluded from discovery: edit_, update_, transform_, write_.
func (f *WriteToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if f.allowWrites {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		name := strings.ToLower(t.Name)
		if strings.HasPrefix(name, "edit_") || strings.HasPrefix(name, "update_") || strings.HasPrefix(name, "transform_") || strings.HasPrefix(name, "write_") {
			continue
		}
		out = append(out, t)
	}
	return out
}
