package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeccacombs/rnai-project/internal/domain"
)

var paperColumnNames = []string{
	"id", "pmid", "title", "slug", "abstract", "authors",
	"journal", "pub_date", "keywords", "url", "affiliations", "created_at",
}

// Helper to create a valid paper for testing.
func newTestPaper() *domain.Paper {
	return &domain.Paper{
		ID:           uuid.New(),
		PMID:         39312809,
		Title:        "siRNA Delivery Beyond the Liver",
		Slug:         "sirna-delivery-beyond-the-liver",
		Abstract:     "Delivery remains the central obstacle.",
		Authors:      []string{"Smith Jane", "Lee"},
		Journal:      "Journal of RNA Therapeutics",
		PubDate:      time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC),
		Keywords:     []string{"siRNA", "drug delivery"},
		URL:          "https://pubmed.ncbi.nlm.nih.gov/39312809/",
		Affiliations: []string{"Department of Genetics, University of Research"},
		CreatedAt:    time.Now().UTC(),
	}
}

func paperRow(paper *domain.Paper) *pgxmock.Rows {
	return pgxmock.NewRows(paperColumnNames).AddRow(
		paper.ID, paper.PMID, paper.Title, paper.Slug, paper.Abstract, paper.Authors,
		paper.Journal, paper.PubDate, paper.Keywords, paper.URL, paper.Affiliations, paper.CreatedAt,
	)
}

func TestNewPgPaperRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgPaperRepository(mock)
	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

func TestPgPaperRepository_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts new paper", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()

		mock.ExpectExec("INSERT INTO papers").
			WithArgs(
				paper.ID, paper.PMID, paper.Title, paper.Slug, paper.Abstract, paper.Authors,
				paper.Journal, paper.PubDate, paper.Keywords, paper.URL, paper.Affiliations, pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		inserted, err := repo.InsertIfAbsent(ctx, paper)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports duplicate PMID as not inserted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()

		mock.ExpectExec("INSERT INTO papers").
			WithArgs(
				paper.ID, paper.PMID, paper.Title, paper.Slug, paper.Abstract, paper.Authors,
				paper.Journal, paper.PubDate, paper.Keywords, paper.URL, paper.Affiliations, pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		inserted, err := repo.InsertIfAbsent(ctx, paper)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps slug collision to already exists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()

		mock.ExpectExec("INSERT INTO papers").
			WithArgs(
				paper.ID, paper.PMID, paper.Title, paper.Slug, paper.Abstract, paper.Authors,
				paper.Journal, paper.PubDate, paper.Keywords, paper.URL, paper.Affiliations, pgxmock.AnyArg(),
			).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "papers_slug_key"})

		_, err = repo.InsertIfAbsent(ctx, paper)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
	})

	t.Run("rejects nil paper", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)

		_, err = repo.InsertIfAbsent(ctx, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("rejects missing PMID", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()
		paper.PMID = 0

		_, err = repo.InsertIfAbsent(ctx, paper)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestPgPaperRepository_GetByPMID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns paper", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()

		mock.ExpectQuery("SELECT (.+) FROM papers WHERE pmid").
			WithArgs(paper.PMID).
			WillReturnRows(paperRow(paper))

		result, err := repo.GetByPMID(ctx, paper.PMID)
		require.NoError(t, err)
		assert.Equal(t, paper.PMID, result.PMID)
		assert.Equal(t, paper.Authors, result.Authors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)

		mock.ExpectQuery("SELECT (.+) FROM papers WHERE pmid").
			WithArgs(int64(123)).
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.GetByPMID(ctx, 123)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestPgPaperRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("returns paper", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()

		mock.ExpectQuery("SELECT (.+) FROM papers WHERE slug").
			WithArgs(paper.Slug).
			WillReturnRows(paperRow(paper))

		result, err := repo.GetBySlug(ctx, paper.Slug)
		require.NoError(t, err)
		assert.Equal(t, paper.Slug, result.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)

		mock.ExpectQuery("SELECT (.+) FROM papers WHERE slug").
			WithArgs("missing-paper").
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.GetBySlug(ctx, "missing-paper")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("rejects empty slug", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)

		_, err = repo.GetBySlug(ctx, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestPgPaperRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("lists with defaults", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
		mock.ExpectQuery("SELECT (.+) FROM papers p").
			WithArgs(100, 0).
			WillReturnRows(paperRow(paper))

		papers, total, err := repo.List(ctx, PaperFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, papers, 1)
		assert.Equal(t, paper.PMID, papers[0].PMID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies search, journal, and date filters", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		from := time.Date(2024, time.September, 19, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT COUNT").
			WithArgs("%delivery%", "Journal of RNA Therapeutics", from, to).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
		mock.ExpectQuery("SELECT (.+) FROM papers p").
			WithArgs("%delivery%", "Journal of RNA Therapeutics", from, to, 25, 50).
			WillReturnRows(pgxmock.NewRows(paperColumnNames))

		papers, total, err := repo.List(ctx, PaperFilter{
			Search:   "delivery",
			Journal:  "Journal of RNA Therapeutics",
			DateFrom: &from,
			DateTo:   &to,
			Sort:     SortTitleAsc,
			Limit:    25,
			Offset:   50,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, papers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies keyword filter", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)
		paper := newTestPaper()

		mock.ExpectQuery("SELECT COUNT").
			WithArgs("siRNA").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
		mock.ExpectQuery("SELECT (.+) FROM papers p").
			WithArgs("siRNA", 100, 0).
			WillReturnRows(paperRow(paper))

		papers, total, err := repo.List(ctx, PaperFilter{Keyword: "siRNA"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, papers, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown sort order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)

		_, _, err = repo.List(ctx, PaperFilter{Sort: "citation_count"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestPgPaperRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgPaperRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestPgPaperRepository_KeywordFrequencies(t *testing.T) {
	t.Run("returns aggregated counts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)

		mock.ExpectQuery("SELECT (.+) FROM papers p, unnest").
			WillReturnRows(pgxmock.NewRows([]string{"keyword", "paper_count"}).
				AddRow("siRNA", int64(12)).
				AddRow("RNAi", int64(7)))

		frequencies, err := repo.KeywordFrequencies(context.Background())
		require.NoError(t, err)
		require.Len(t, frequencies, 2)
		assert.Equal(t, KeywordFrequency{Keyword: "siRNA", Count: 12}, frequencies[0])
		assert.Equal(t, KeywordFrequency{Keyword: "RNAi", Count: 7}, frequencies[1])
	})

	t.Run("returns empty slice for empty store", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPaperRepository(mock)

		mock.ExpectQuery("SELECT (.+) FROM papers p, unnest").
			WillReturnRows(pgxmock.NewRows([]string{"keyword", "paper_count"}))

		frequencies, err := repo.KeywordFrequencies(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, frequencies)
		assert.Empty(t, frequencies)
	})
}

func TestPaperFilter_Validate(t *testing.T) {
	t.Run("applies pagination defaults", func(t *testing.T) {
		f := PaperFilter{}
		require.NoError(t, f.Validate())
		assert.Equal(t, 100, f.Limit)
		assert.Equal(t, 0, f.Offset)
	})

	t.Run("clamps excessive limit", func(t *testing.T) {
		f := PaperFilter{Limit: 5000, Offset: -3}
		require.NoError(t, f.Validate())
		assert.Equal(t, 1000, f.Limit)
		assert.Equal(t, 0, f.Offset)
	})

	t.Run("accepts known sort orders", func(t *testing.T) {
		for _, sort := range []string{"", SortPubDateDesc, SortPubDateAsc, SortTitleAsc, SortTitleDesc} {
			f := PaperFilter{Sort: sort}
			assert.NoError(t, f.Validate())
		}
	})
}
