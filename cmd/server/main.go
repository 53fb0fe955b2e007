// Package main provides the entry point for the paper ingestion HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rebeccacombs/rnai-project/internal/config"
	"github.com/rebeccacombs/rnai-project/internal/database"
	"github.com/rebeccacombs/rnai-project/internal/entrez"
	"github.com/rebeccacombs/rnai-project/internal/ingest"
	"github.com/rebeccacombs/rnai-project/internal/observability"
	"github.com/rebeccacombs/rnai-project/internal/repository"
	httpserver "github.com/rebeccacombs/rnai-project/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
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
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("rnai-project server starting")

	// Graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("database connection established")

	if cfg.Database.MigrationAutoRun {
		migrator, err := database.NewMigrator(db, cfg.Database.MigrationPath, logger)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer func() {
			if closeErr := migrator.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close migrator")
			}
		}()

		if err := migrator.Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

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

	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	httpSrv := httpserver.NewServer(
		httpCfg,
		paperRepo,
		orchestrator,
		db,
		logger,
		metrics,
		httpserver.MetricsConfig{
			Enabled: cfg.Metrics.Enabled,
			Path:    cfg.Metrics.Path,
		},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().
		Str("http_address", httpCfg.Address).
		Msg("rnai-project is ready")

	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down rnai-project")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("rnai-project shutdown complete")
	return nil
}
