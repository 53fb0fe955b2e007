// Package observability provides logging and metrics support for the paper
// ingestion service.
//
// Structured logging uses zerolog, configured through LoggingConfig:
//
//	logger := observability.NewLogger(observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//	logger.Info().Int64("pmid", pmid).Msg("paper persisted")
//
// Prometheus metrics cover ingestion passes, per-paper outcomes, E-utilities
// requests, and the HTTP API. Initialize once per process:
//
//	metrics := observability.NewMetrics("rnai")
//	metrics.RecordPassStarted()
//
// All components are safe for concurrent use from multiple goroutines.
package observability
