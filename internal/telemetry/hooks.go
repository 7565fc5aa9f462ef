// Package telemetry builds the mcp-go server hooks that log session and
// request lifecycle events. It is intentionally minimal; metrics backends can
// be added later under this package.
package telemetry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// BuildHooks constructs mcp-go server hooks for basic telemetry.
func BuildHooks(logger zerolog.Logger) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("session registered")
	})

	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("session unregistered")
	})

	hooks.AddAfterListTools(func(ctx context.Context, id any, req *mcp.ListToolsRequest, res *mcp.ListToolsResult) {
		// Keep it light: tool count only
		logger.Info().Int("tools", len(res.Tools)).Msg("list_tools served")
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, res *mcp.CallToolResult) {
		logger.Info().Str("tool", req.Params.Name).Msg("tool call served")
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Error().Str("method", string(method)).Err(err).Msg("request error")
	})

	return hooks
}
