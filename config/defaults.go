package config

import "time"

// Default runtime limits and guardrails for the datasmith MCP server.
// These values are conservative and can be overridden by future configuration
// mechanisms (env, CLI, or files). They are referenced by internal/runtime
// and internal/store.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10
	DefaultMaxOpenDatasets       = 8

	// Row limits
	DefaultPreviewRowLimit = 5
	DefaultMaxPreviewRows  = 100

	// Frequency analysis: columns with more unique values than this report
	// only the top slice.
	DefaultFrequencyTruncateAt = 50
	DefaultFrequencyTopN       = 20
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second

	// Handle lifecycle
	DefaultDatasetIdleTTL       = 10 * time.Minute
	DefaultDatasetCleanupPeriod = time.Minute
)
