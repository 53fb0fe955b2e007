package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rebeccacombs/rnai-project/internal/domain"
)

// Compile-time interface verification.
var _ PaperRepository = (*PgPaperRepository)(nil)

// PgPaperRepository is a PostgreSQL implementation of PaperRepository.
type PgPaperRepository struct {
	db DBTX
}

// NewPgPaperRepository creates a new PostgreSQL paper repository.
func NewPgPaperRepository(db DBTX) *PgPaperRepository {
	return &PgPaperRepository{db: db}
}

const paperColumns = `id, pmid, title, slug, abstract, authors, journal, pub_date, keywords, url, affiliations, created_at`

// InsertIfAbsent inserts a paper unless one with the same PMID already exists.
// The uniqueness check and the insert are one atomic statement; concurrent
// passes racing on the same PMID cannot both insert.
func (r *PgPaperRepository) InsertIfAbsent(ctx context.Context, paper *domain.Paper) (bool, error) {
	if paper == nil {
		return false, domain.NewValidationError("paper", "paper cannot be nil")
	}
	if paper.PMID <= 0 {
		return false, domain.NewValidationError("pmid", "PMID is required")
	}
	if paper.Slug == "" {
		return false, domain.NewValidationError("slug", "slug is required")
	}

	if paper.ID == uuid.Nil {
		paper.ID = uuid.New()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO papers (
			id, pmid, title, slug, abstract, authors,
			journal, pub_date, keywords, url, affiliations, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (pmid) DO NOTHING`

	result, err := r.db.Exec(ctx, query,
		paper.ID,
		paper.PMID,
		paper.Title,
		paper.Slug,
		paper.Abstract,
		paper.Authors,
		paper.Journal,
		paper.PubDate,
		paper.Keywords,
		paper.URL,
		paper.Affiliations,
		now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The PMID conflict is absorbed by DO NOTHING, so a unique
			// violation here means the slug collided with a different PMID.
			return false, domain.NewAlreadyExistsError("paper", paper.Slug)
		}
		return false, fmt.Errorf("failed to insert paper: %w", err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	paper.CreatedAt = now
	return true, nil
}

// GetByPMID retrieves a paper by its PubMed identifier.
func (r *PgPaperRepository) GetByPMID(ctx context.Context, pmid int64) (*domain.Paper, error) {
	if pmid <= 0 {
		return nil, domain.NewValidationError("pmid", "PMID is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM papers WHERE pmid = $1`, paperColumns)

	row := r.db.QueryRow(ctx, query, pmid)
	paper, err := scanPaper(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("paper", fmt.Sprintf("pmid:%d", pmid))
		}
		return nil, fmt.Errorf("failed to get paper by PMID: %w", err)
	}

	return paper, nil
}

// GetBySlug retrieves a paper by its URL slug.
func (r *PgPaperRepository) GetBySlug(ctx context.Context, slug string) (*domain.Paper, error) {
	if slug == "" {
		return nil, domain.NewValidationError("slug", "slug is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM papers WHERE slug = $1`, paperColumns)

	row := r.db.QueryRow(ctx, query, slug)
	paper, err := scanPaper(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("paper", slug)
		}
		return nil, fmt.Errorf("failed to get paper by slug: %w", err)
	}

	return paper, nil
}

// List retrieves papers matching the filter criteria.
func (r *PgPaperRepository) List(ctx context.Context, filter PaperFilter) ([]*domain.Paper, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	// Build dynamic WHERE clause
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(p.title ILIKE $%d OR p.abstract ILIKE $%d OR EXISTS (
				SELECT 1 FROM unnest(p.authors) AS a WHERE a ILIKE $%d))`,
			argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(p.keywords) AS k WHERE LOWER(k) = LOWER($%d))", argIndex))
		args = append(args, filter.Keyword)
		argIndex++
	}

	if filter.Journal != "" {
		conditions = append(conditions, fmt.Sprintf("p.journal = $%d", argIndex))
		args = append(args, filter.Journal)
		argIndex++
	}

	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.pub_date >= $%d", argIndex))
		args = append(args, *filter.DateFrom)
		argIndex++
	}

	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.pub_date <= $%d", argIndex))
		args = append(args, *filter.DateTo)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total matching records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM papers p %s", whereClause)
	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count papers: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT p.id, p.pmid, p.title, p.slug, p.abstract, p.authors,
			p.journal, p.pub_date, p.keywords, p.url, p.affiliations, p.created_at
		FROM papers p
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		whereClause, orderClause(filter.Sort), argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list papers: %w", err)
	}
	defer rows.Close()

	papers := make([]*domain.Paper, 0, filter.Limit)
	for rows.Next() {
		paper, err := scanPaperFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan paper: %w", err)
		}
		papers = append(papers, paper)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating papers: %w", err)
	}

	return papers, totalCount, nil
}

// Count returns the total number of stored papers.
func (r *PgPaperRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM papers").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count papers: %w", err)
	}
	return count, nil
}

// KeywordFrequencies aggregates keyword usage across all stored papers.
func (r *PgPaperRepository) KeywordFrequencies(ctx context.Context) ([]KeywordFrequency, error) {
	query := `
		SELECT k.keyword, COUNT(*) AS paper_count
		FROM papers p, unnest(p.keywords) AS k(keyword)
		GROUP BY k.keyword
		ORDER BY paper_count DESC, k.keyword ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate keywords: %w", err)
	}
	defer rows.Close()

	frequencies := make([]KeywordFrequency, 0)
	for rows.Next() {
		var freq KeywordFrequency
		if err := rows.Scan(&freq.Keyword, &freq.Count); err != nil {
			return nil, fmt.Errorf("failed to scan keyword frequency: %w", err)
		}
		frequencies = append(frequencies, freq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword frequencies: %w", err)
	}

	return frequencies, nil
}

// orderClause maps a validated sort order to its SQL ORDER BY expression.
func orderClause(sort string) string {
	switch sort {
	case SortPubDateAsc:
		return "p.pub_date ASC, p.created_at ASC"
	case SortTitleAsc:
		return "p.title ASC"
	case SortTitleDesc:
		return "p.title DESC"
	default:
		return "p.pub_date DESC, p.created_at DESC"
	}
}

// scanPaper scans a single row into a Paper.
func scanPaper(row pgx.Row) (*domain.Paper, error) {
	var paper domain.Paper
	err := row.Scan(
		&paper.ID, &paper.PMID, &paper.Title, &paper.Slug, &paper.Abstract, &paper.Authors,
		&paper.Journal, &paper.PubDate, &paper.Keywords, &paper.URL, &paper.Affiliations, &paper.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// scanPaperFromRows scans the current row from pgx.Rows into a Paper.
func scanPaperFromRows(rows pgx.Rows) (*domain.Paper, error) {
	var paper domain.Paper
	err := rows.Scan(
		&paper.ID, &paper.PMID, &paper.Title, &paper.Slug, &paper.Abstract, &paper.Authors,
		&paper.Journal, &paper.PubDate, &paper.Keywords, &paper.URL, &paper.Affiliations, &paper.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &paper, nil
}
