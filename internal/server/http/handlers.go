package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rebeccacombs/rnai-project/internal/domain"
	"github.com/rebeccacombs/rnai-project/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// dateParamLayout is the format accepted by start_date and end_date.
	dateParamLayout = "2006-01-02"
)

// listPapersParams holds the parsed and validated query parameters for the
// paper list endpoint.
type listPapersParams struct {
	Search   string `validate:"omitempty,max=500"`
	Keyword  string `validate:"omitempty,max=200"`
	Journal  string `validate:"omitempty,max=500"`
	Sort     string `validate:"omitempty,oneof=pub_date_desc pub_date_asc title_asc title_desc"`
	Page     int    `validate:"gte=1"`
	PageSize int    `validate:"gte=1,lte=100"`

	StartDate *time.Time
	EndDate   *time.Time
}

// parseListPapersParams extracts list parameters from the request query
// string, applying pagination defaults.
func (s *Server) parseListPapersParams(r *http.Request) (listPapersParams, error) {
	q := r.URL.Query()

	params := listPapersParams{
		Search:   q.Get("search"),
		Keyword:  q.Get("keyword"),
		Journal:  q.Get("journal"),
		Sort:     q.Get("sort"),
		Page:     1,
		PageSize: defaultPageSize,
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return params, domain.NewValidationError("page", "must be an integer")
		}
		params.Page = page
	}
	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return params, domain.NewValidationError("page_size", "must be an integer")
		}
		params.PageSize = size
	}
	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return params, domain.NewValidationError("start_date", "must be a date in YYYY-MM-DD format")
		}
		params.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return params, domain.NewValidationError("end_date", "must be a date in YYYY-MM-DD format")
		}
		params.EndDate = &t
	}

	if err := s.validate.Struct(params); err != nil {
		return params, domain.NewValidationError("query", err.Error())
	}
	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return params, domain.NewValidationError("end_date", "must not be before start_date")
	}

	return params, nil
}

// listPapers handles GET /api/v1/papers.
func (s *Server) listPapers(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseListPapersParams(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	filter := repository.PaperFilter{
		Search:   params.Search,
		Keyword:  params.Keyword,
		Journal:  params.Journal,
		DateFrom: params.StartDate,
		DateTo:   params.EndDate,
		Sort:     params.Sort,
		Limit:    params.PageSize,
		Offset:   (params.Page - 1) * params.PageSize,
	}

	papers, total, err := s.paperRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list papers")
		s.writeDomainError(w, err)
		return
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, listPapersResponse{
		Papers:     toPaperResponses(papers),
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

// getPaperBySlug handles GET /api/v1/papers/{slug}.
func (s *Server) getPaperBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		s.writeDomainError(w, domain.NewValidationError("slug", "is required"))
		return
	}

	paper, err := s.paperRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("slug", slug).Msg("Failed to get paper")
		}
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaperResponse(paper))
}

// getKeywordFrequencies handles GET /api/v1/keywords/frequency.
func (s *Server) getKeywordFrequencies(w http.ResponseWriter, r *http.Request) {
	freqs, err := s.paperRepo.KeywordFrequencies(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to compute keyword frequencies")
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, keywordFrequenciesResponse{Keywords: freqs})
}

// runIngestPass handles POST /api/v1/ingest/runs. The pass runs synchronously
// and the resulting report is returned to the caller.
func (s *Server) runIngestPass(w http.ResponseWriter, r *http.Request) {
	report, err := s.runner.Run(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Ingestion pass failed")
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// writeDomainError maps a domain error to the appropriate HTTP status code.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRemoteUnavailable), errors.Is(err, domain.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
