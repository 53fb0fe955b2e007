package repository

import (
	"context"
	"time"

	"github.com/rebeccacombs/rnai-project/internal/domain"
)

// Sort orders accepted by PaperFilter.
const (
	SortPubDateDesc = "pub_date_desc"
	SortPubDateAsc  = "pub_date_asc"
	SortTitleAsc    = "title_asc"
	SortTitleDesc   = "title_desc"
)

// KeywordFrequency is one entry of the keyword frequency aggregation.
type KeywordFrequency struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// PaperRepository manages persistence of normalized papers.
type PaperRepository interface {
	// InsertIfAbsent inserts a paper unless one with the same PMID already
	// exists. The insert and the uniqueness check are a single atomic
	// statement. Returns true if the paper was inserted, false if a paper
	// with the same PMID was already present.
	// Returns domain.ErrAlreadyExists if the paper's slug collides with a
	// different PMID.
	InsertIfAbsent(ctx context.Context, paper *domain.Paper) (bool, error)

	// GetByPMID retrieves a paper by its PubMed identifier.
	// Returns domain.ErrNotFound if no matching paper exists.
	GetByPMID(ctx context.Context, pmid int64) (*domain.Paper, error)

	// GetBySlug retrieves a paper by its URL slug.
	// Returns domain.ErrNotFound if no matching paper exists.
	GetBySlug(ctx context.Context, slug string) (*domain.Paper, error)

	// List retrieves papers matching the filter criteria.
	// Returns the matching papers and total count for pagination.
	// The total count reflects all matching records regardless of limit/offset.
	List(ctx context.Context, filter PaperFilter) ([]*domain.Paper, int64, error)

	// Count returns the total number of stored papers.
	Count(ctx context.Context) (int64, error)

	// KeywordFrequencies returns the number of papers carrying each distinct
	// keyword, ordered by count descending then keyword ascending.
	KeywordFrequencies(ctx context.Context) ([]KeywordFrequency, error)
}

// PaperFilter specifies criteria for listing papers.
type PaperFilter struct {
	// Search is a free-text filter matched case-insensitively against
	// title, abstract, and author names (optional).
	Search string

	// Keyword filters to papers carrying this keyword, case-insensitively
	// (optional).
	Keyword string

	// Journal filters to papers from this journal, by exact match (optional).
	Journal string

	// DateFrom filters to papers published on or after this date (optional).
	DateFrom *time.Time

	// DateTo filters to papers published on or before this date (optional).
	DateTo *time.Time

	// Sort selects the result order. One of the Sort* constants;
	// empty defaults to SortPubDateDesc.
	Sort string

	// Limit specifies maximum number of results (default: 100, max: 1000).
	Limit int

	// Offset specifies the starting position for pagination.
	Offset int
}

// Validate checks if the filter has valid values and sets defaults.
func (f *PaperFilter) Validate() error {
	switch f.Sort {
	case "", SortPubDateDesc, SortPubDateAsc, SortTitleAsc, SortTitleDesc:
	default:
		return domain.NewValidationError("sort", "unknown sort order: "+f.Sort)
	}
	applyPaginationDefaults(&f.Limit, &f.Offset)
	return nil
}
