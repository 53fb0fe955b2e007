// Package ingest coordinates one ingestion pass: build the search query,
// fetch matching article records from Entrez, normalize them, and persist
// the results.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rebeccacombs/rnai-project/internal/domain"
	"github.com/rebeccacombs/rnai-project/internal/entrez"
	"github.com/rebeccacombs/rnai-project/internal/observability"
)

// ArticleSource retrieves article identifiers and records from the remote
// literature database.
type ArticleSource interface {
	SearchIDs(ctx context.Context, query string, maxResults int) ([]string, error)
	FetchArticles(ctx context.Context, pmids []string) ([]entrez.PubmedArticle, error)
}

// PaperStore persists normalized papers.
type PaperStore interface {
	InsertIfAbsent(ctx context.Context, paper *domain.Paper) (bool, error)
}

// Config holds the search parameters for an ingestion pass.
type Config struct {
	// Authors are combined into an OR group with the [Author] field tag.
	Authors []string

	// Topics are combined into an OR group with the [Title/Abstract] field tag.
	Topics []string

	// DateRange is a preformatted Entrez date filter clause.
	DateRange string

	// MaxPapers caps how many identifiers one pass requests. Zero uses the
	// source's configured default.
	MaxPapers int
}

// Report summarizes the outcome of one ingestion pass.
type Report struct {
	// Query is the Entrez query string the pass searched with.
	Query string `json:"query"`

	// Matched is how many identifiers the search returned.
	Matched int `json:"matched"`

	// Fetched is how many article records the detail fetch returned.
	Fetched int `json:"fetched"`

	// Inserted is how many papers were newly persisted.
	Inserted int `json:"inserted"`

	// Skipped is how many papers were already present.
	Skipped int `json:"skipped"`

	// Failed is how many records were dropped by normalization or
	// persistence failures.
	Failed int `json:"failed"`

	// Duration is the wall-clock length of the pass.
	Duration time.Duration `json:"duration_ns"`
}

// Orchestrator runs ingestion passes sequentially. Uniqueness of stored
// papers is enforced by the database constraint, not by in-process checks,
// so concurrent passes remain safe.
type Orchestrator struct {
	source  ArticleSource
	store   PaperStore
	config  Config
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// New creates an ingestion orchestrator.
func New(source ArticleSource, store PaperStore, cfg Config, logger zerolog.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		source:  source,
		store:   store,
		config:  cfg,
		logger:  logger.With().Str("component", "ingest").Logger(),
		metrics: metrics,
	}
}

// Run executes one ingestion pass and returns its Report.
//
// A failed search is not fatal: the pass completes with zero records. A
// failed detail fetch aborts the pass with an error and persists nothing.
// Per-record normalization and persistence failures are logged and skipped
// without affecting the rest of the batch.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	o.metrics.RecordPassStarted()

	query := entrez.BuildQuery(o.config.Authors, o.config.Topics, o.config.DateRange)
	report := Report{Query: query}

	logger := observability.WithQueryContext(o.logger, query, o.config.MaxPapers)
	logger.Info().Msg("starting ingestion pass")

	ids, err := o.source.SearchIDs(ctx, query, o.config.MaxPapers)
	if err != nil {
		logger.Warn().Err(err).Msg("search failed, completing pass with no records")
		report.Duration = time.Since(start)
		o.metrics.RecordPassCompleted(report.Duration.Seconds())
		return report, nil
	}
	report.Matched = len(ids)

	if len(ids) == 0 {
		logger.Info().Msg("search matched no records")
		report.Duration = time.Since(start)
		o.metrics.RecordPassCompleted(report.Duration.Seconds())
		return report, nil
	}

	articles, err := o.source.FetchArticles(ctx, ids)
	if err != nil {
		logger.Error().Err(err).Int("matched", len(ids)).Msg("detail fetch failed, aborting pass")
		report.Duration = time.Since(start)
		o.metrics.RecordPassFailed(report.Duration.Seconds())
		return report, fmt.Errorf("fetch articles: %w", err)
	}
	report.Fetched = len(articles)
	o.metrics.RecordPapersFetched(len(articles))

	for _, article := range articles {
		paper, err := entrez.Normalize(article)
		if err != nil {
			logger.Warn().Err(err).
				Str("pmid", article.MedlineCitation.PMID.Value).
				Msg("skipping record that failed normalization")
			o.metrics.RecordPaperFailed("normalize")
			report.Failed++
			continue
		}

		inserted, err := o.store.InsertIfAbsent(ctx, paper)
		if err != nil {
			paperLogger := observability.WithPaperContext(logger, paper.PMID, paper.Slug)
			paperLogger.Warn().Err(err).Msg("skipping record that failed persistence")
			o.metrics.RecordPaperFailed("persist")
			report.Failed++
			continue
		}
		if inserted {
			report.Inserted++
			o.metrics.RecordPaperInserted()
		} else {
			report.Skipped++
			o.metrics.RecordPaperSkipped()
		}
	}

	report.Duration = time.Since(start)
	o.metrics.RecordPassCompleted(report.Duration.Seconds())

	logger.Info().
		Int("matched", report.Matched).
		Int("fetched", report.Fetched).
		Int("inserted", report.Inserted).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("ingestion pass complete")

	return report, nil
}
