// Package main provides the ingestion pass runner. By default a single pass
// runs and the process exits; with -loop, passes repeat on the configured
// interval until the process is signalled.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rebeccacombs/rnai-project/internal/config"
	"github.com/rebeccacombs/rnai-project/internal/database"
	"github.com/rebeccacombs/rnai-project/internal/entrez"
	"github.com/rebeccacombs/rnai-project/internal/ingest"
	"github.com/rebeccacombs/rnai-project/internal/observability"
	"github.com/rebeccacombs/rnai-project/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	loop := flag.Bool("loop", false, "Run passes repeatedly on the configured interval")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "ingest").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("database connection established")

	metrics := observability.NewMetrics(cfg.Metrics.Namespace)

	paperRepo := repository.NewPgPaperRepository(db)

	entrezClient := entrez.New(entrez.Config{
		BaseURL:    cfg.Entrez.BaseURL,
		APIKey:     cfg.Entrez.APIKey,
		Timeout:    cfg.Entrez.Timeout,
		RateLimit:  cfg.Entrez.RateLimit,
		BurstSize:  cfg.Entrez.BurstSize,
		MaxResults: cfg.Ingest.MaxPapers,
	}).WithObserver(metrics)

	orchestrator := ingest.New(
		entrezClient,
		paperRepo,
		ingest.Config{
			Authors:   cfg.Ingest.Authors,
			Topics:    cfg.Ingest.Topics,
			DateRange: cfg.Ingest.DateRange,
			MaxPapers: cfg.Ingest.MaxPapers,
		},
		logger,
		metrics,
	)

	if !*loop {
		return runPass(ctx, orchestrator, logger)
	}

	interval := cfg.Ingest.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	logger.Info().Dur("interval", interval).Msg("ingest worker starting")

	// Run one pass immediately, then on every tick.
	if err := runPass(ctx, orchestrator, logger); err != nil {
		logger.Error().Err(err).Msg("ingestion pass failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("ingest worker stopping")
			return nil
		case <-ticker.C:
			if err := runPass(ctx, orchestrator, logger); err != nil {
				logger.Error().Err(err).Msg("ingestion pass failed")
			}
		}
	}
}

func runPass(ctx context.Context, orchestrator *ingest.Orchestrator, logger zerolog.Logger) error {
	report, err := orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("run ingestion pass: %w", err)
	}
	logger.Info().
		Int("matched", report.Matched).
		Int("fetched", report.Fetched).
		Int("inserted", report.Inserted).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("ingestion pass report")
	return nil
}
