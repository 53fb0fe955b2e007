package entrez

import (
	"strconv"
	"strings"

	"github.com/rebeccacombs/rnai-project/internal/domain"
)

// Normalize maps one raw article record to the canonical paper shape.
// Each derivation has an explicit fallback policy; a record that cannot be
// mapped even via its fallbacks returns a domain.NormalizationError so the
// caller can skip it without aborting the batch. Normalize is deterministic:
// the same record always yields a byte-identical paper.
func Normalize(article PubmedArticle) (*domain.Paper, error) {
	citation := article.MedlineCitation

	pmidText := strings.TrimSpace(citation.PMID.Value)
	pmid, err := strconv.ParseInt(pmidText, 10, 64)
	if err != nil {
		return nil, domain.NewNormalizationError(pmidText, "pmid", "identifier is not numeric")
	}

	if citation.Article.AuthorList == nil {
		return nil, domain.NewNormalizationError(pmidText, "authors", "author list absent")
	}

	title := citation.Article.ArticleTitle
	pubDate := citation.Article.Journal.JournalIssue.PubDate

	return &domain.Paper{
		PMID:         pmid,
		Title:        title,
		Slug:         domain.Slugify(title),
		Abstract:     normalizeAbstract(citation.Article.Abstract),
		Authors:      normalizeAuthors(citation.Article.AuthorList),
		Journal:      citation.Article.Journal.Title,
		PubDate:      domain.ComposePubDate(pubDate.Year, pubDate.Month, pubDate.Day),
		Keywords:     normalizeKeywords(citation.KeywordList),
		URL:          domain.PaperURL(pmid),
		Affiliations: collectAffiliations(citation.Article.AuthorList),
	}, nil
}

// normalizeAbstract flattens the abstract variants: absent becomes "", a
// single segment is used verbatim, and a segment list is joined with single
// spaces in source order after trimming each segment.
func normalizeAbstract(abstract *Abstract) string {
	if abstract == nil || len(abstract.AbstractTexts) == 0 {
		return ""
	}

	if len(abstract.AbstractTexts) == 1 {
		return abstract.AbstractTexts[0].Value
	}

	parts := make([]string, 0, len(abstract.AbstractTexts))
	for _, segment := range abstract.AbstractTexts {
		parts = append(parts, strings.TrimSpace(segment.Value))
	}
	return strings.Join(parts, " ")
}

// normalizeAuthors renders each author as "LastName ForeName" with trimmed
// parts. A missing part leaves just the other; entries with neither part are
// dropped.
func normalizeAuthors(list *AuthorList) []string {
	authors := make([]string, 0, len(list.Authors))
	for _, a := range list.Authors {
		last := strings.TrimSpace(a.LastName)
		fore := strings.TrimSpace(a.ForeName)

		var name string
		switch {
		case last != "" && fore != "":
			name = last + " " + fore
		case last != "":
			name = last
		case fore != "":
			name = fore
		default:
			continue
		}
		authors = append(authors, name)
	}
	return authors
}

// normalizeKeywords returns the trimmed keyword texts in source order, or an
// empty slice when the source omits the keyword list.
func normalizeKeywords(list *KeywordList) []string {
	if list == nil {
		return []string{}
	}
	keywords := make([]string, 0, len(list.Keywords))
	for _, kw := range list.Keywords {
		keywords = append(keywords, strings.TrimSpace(kw.Value))
	}
	return keywords
}

// collectAffiliations gathers the trimmed affiliation of every author into an
// ordered set keyed by the trimmed value, preserving first-occurrence order.
// Authors without an affiliation are skipped.
func collectAffiliations(list *AuthorList) []string {
	affiliations := make([]string, 0)
	seen := make(map[string]bool)

	for _, a := range list.Authors {
		for _, info := range a.AffiliationInfo {
			aff := strings.TrimSpace(info.Affiliation)
			if aff == "" || seen[aff] {
				continue
			}
			seen[aff] = true
			affiliations = append(affiliations, aff)
		}
	}
	return affiliations
}
