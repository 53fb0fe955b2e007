package httpserver

import (
	"time"

	"github.com/rebeccacombs/rnai-project/internal/domain"
	"github.com/rebeccacombs/rnai-project/internal/repository"
)

// paperResponse is the JSON representation of a paper.
type paperResponse struct {
	ID           string    `json:"id"`
	PMID         int64     `json:"pmid"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Abstract     string    `json:"abstract,omitempty"`
	Authors      []string  `json:"authors"`
	Journal      string    `json:"journal"`
	PubDate      string    `json:"pub_date"`
	Keywords     []string  `json:"keywords"`
	URL          string    `json:"url"`
	Affiliations []string  `json:"affiliations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// listPapersResponse is the paginated paper list payload.
type listPapersResponse struct {
	Papers     []paperResponse `json:"papers"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// keywordFrequenciesResponse lists keywords with the number of papers tagged
// with each, most frequent first.
type keywordFrequenciesResponse struct {
	Keywords []repository.KeywordFrequency `json:"keywords"`
}

func toPaperResponse(p *domain.Paper) paperResponse {
	authors := p.Authors
	if authors == nil {
		authors = []string{}
	}
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return paperResponse{
		ID:           p.ID.String(),
		PMID:         p.PMID,
		Title:        p.Title,
		Slug:         p.Slug,
		Abstract:     p.Abstract,
		Authors:      authors,
		Journal:      p.Journal,
		PubDate:      domain.FormatPubDate(p.PubDate),
		Keywords:     keywords,
		URL:          p.URL,
		Affiliations: p.Affiliations,
		CreatedAt:    p.CreatedAt,
	}
}

func toPaperResponses(papers []*domain.Paper) []paperResponse {
	out := make([]paperResponse, 0, len(papers))
	for _, p := range papers {
		out = append(out, toPaperResponse(p))
	}
	return out
}
