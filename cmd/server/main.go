package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/datasmith-io/datasmith/config"
	"github.com/datasmith-io/datasmith/internal/registry"
	"github.com/datasmith-io/datasmith/internal/runtime"
	"github.com/datasmith-io/datasmith/internal/security"
	"github.com/datasmith-io/datasmith/internal/store"
	"github.com/datasmith-io/datasmith/internal/telemetry"
	"github.com/datasmith-io/datasmith/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var (
		useStdio        bool
		shutdownTimeout time.Duration
	)

	flag.BoolVar(&useStdio, "stdio", false, "Run server over stdio transport")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.Parse()

	logger := zlog.With().Str("service", "datasmith-server").Logger()
	ctx := logger.WithContext(context.Background())

	// Security: validate allow-list directories on startup (fail-safe on error)
	secMgr, err := security.NewManagerFromEnv()
	if err != nil {
		logger.Error().Err(err).Msg("security: failed to initialize manager from env")
		fmt.Fprintln(os.Stderr, "invalid security configuration; set DATASMITH_ALLOWED_DIRS")
		os.Exit(1)
	}
	if err := secMgr.ValidateConfig(); err != nil {
		logger.Error().Err(err).Msg("security: invalid allow-list configuration")
		fmt.Fprintln(os.Stderr, "no allowed directories configured; set DATASMITH_ALLOWED_DIRS")
		os.Exit(1)
	}
	logger.Info().Strs("allowed_dirs", secMgr.AllowedDirectories()).Msg("security allow-list configured")

	limits := runtime.NewLimits(config.DefaultMaxConcurrentRequests, config.DefaultMaxOpenDatasets)
	runtimeController := runtime.NewController(limits)
	runtimeMW := runtime.NewMiddleware(runtimeController)

	datasets := store.NewStore(config.DefaultDatasetIdleTTL, config.DefaultDatasetCleanupPeriod, runtimeController, secMgr, nil)
	datasets.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := datasets.Close(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("store shutdown incomplete")
		}
	}()

	toolRegistry := registry.New()

	writeFilter := registry.NewWriteToolFilterFromEnv()

	srv := server.NewMCPServer(
		"MCP Dataset Edit & Analysis Server",
		version.Version(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(telemetry.BuildHooks(logger)),
		server.WithToolHandlerMiddleware(runtimeMW.ToolMiddleware),
		server.WithToolFilter(func(ctx context.Context, tools []mcp.Tool) []mcp.Tool { return writeFilter.FilterTools(ctx, tools) }),
	)

	deps := registry.Deps{
		Store:  datasets,
		Limits: runtimeController.LimitsSnapshot(),
		Logger: logger,
	}
	registry.RegisterDatasetTools(srv, toolRegistry, deps)
	registry.RegisterEditTools(srv, toolRegistry, deps)
	registry.RegisterTransformTools(srv, toolRegistry, deps)
	registry.RegisterAnalyzeTools(srv, toolRegistry, deps)

	toolContextSize := toolRegistry.ModelContextSize("gpt-4o")

	logger.Info().
		Ctx(ctx).
		Str("version", version.Version()).
		Int("max_concurrent_requests", limits.MaxConcurrentRequests).
		Int("max_open_datasets", limits.MaxOpenDatasets).
		Int("model_context_size", toolContextSize).
		Bool("writes_enabled", writeFilter.WritesEnabled()).
		Bool("stdio", useStdio).
		Msg("server bootstrap configured")

	if useStdio {
		if err := server.ServeStdio(srv); err != nil {
			// Use stderr for transport errors so clients don't misinterpret output
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// If no transport flags provided, print usage and exit non-zero
	fmt.Fprintln(os.Stderr, "no transport selected; use --stdio to run over stdio")
	os.Exit(2)
}
