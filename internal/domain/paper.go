// Package domain defines the canonical paper model and the derivation rules
// shared by the ingestion pipeline and the read API.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PubDateLayout is the canonical formatting layout for publication dates.
// The unknown-date sentinel renders as "0000-Jan-01" under this layout.
const PubDateLayout = "2006-Jan-02"

// paperURLTemplate is the deterministic article URL derived from the PMID.
const paperURLTemplate = "https://pubmed.ncbi.nlm.nih.gov/%d/"

// UnknownPubDate is the sentinel publication date used when the source record
// carries no publication year at all. It formats as exactly "0000-Jan-01" and
// signals "unknown publication date" to downstream consumers; it is not a
// parse failure.
var UnknownPubDate = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)

// Paper is the canonical, flat representation of one ingested article.
// Instances are constructed once per ingestion pass and never mutated by the
// pipeline after persistence.
type Paper struct {
	// ID is the internal primary key.
	ID uuid.UUID

	// PMID is the source service's unique numeric identifier and the
	// deduplication key for ingestion.
	PMID int64

	// Title is the article title, verbatim from the source.
	Title string

	// Slug is the URL-safe identifier derived from the title.
	Slug string

	// Abstract is the abstract text; structured abstracts are joined into a
	// single string.
	Abstract string

	// Authors holds "LastName ForeName" entries in source order.
	Authors []string

	// Journal is the journal title, verbatim from the source.
	Journal string

	// PubDate is the publication date, or UnknownPubDate when the source
	// omits the year.
	PubDate time.Time

	// Keywords holds author-supplied keywords in source order; empty when the
	// source has none.
	Keywords []string

	// URL is the deterministic article URL derived from the PMID.
	URL string

	// Affiliations holds the deduplicated author affiliations in
	// first-occurrence order.
	Affiliations []string

	// CreatedAt records when the row was inserted.
	CreatedAt time.Time
}

// HasKnownPubDate reports whether the paper carries a real publication date
// rather than the unknown-date sentinel.
func (p *Paper) HasKnownPubDate() bool {
	return !p.PubDate.Equal(UnknownPubDate)
}

// PaperURL derives the canonical article URL for a PMID.
func PaperURL(pmid int64) string {
	return fmt.Sprintf(paperURLTemplate, pmid)
}

// slugStripRegex matches every character a slug may not contain.
var slugStripRegex = regexp.MustCompile(`[^a-z0-9\s-]`)

// slugSpaceRegex matches runs of whitespace.
var slugSpaceRegex = regexp.MustCompile(`\s+`)

// slugHyphenRegex matches runs of hyphens.
var slugHyphenRegex = regexp.MustCompile(`-+`)

// Slugify derives the URL-safe slug for a title: lowercase, strip characters
// outside [a-z0-9\s-], collapse whitespace runs to a single hyphen, collapse
// hyphen runs to one. Slugify is idempotent: re-slugifying a slug returns the
// same slug.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStripRegex.ReplaceAllString(s, "")
	s = slugSpaceRegex.ReplaceAllString(s, "-")
	s = slugHyphenRegex.ReplaceAllString(s, "-")
	return s
}

// monthNames maps lowercase month strings (abbreviated and full) to
// time.Month. Package-level to avoid re-allocating per call.
var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// parseMonth parses a month string (numeric or name) into time.Month.
// Empty or unrecognized months fall back to January, matching the source's
// month default of "Jan".
func parseMonth(month string) time.Month {
	if month == "" {
		return time.January
	}
	if m, err := strconv.Atoi(month); err == nil && m >= 1 && m <= 12 {
		return time.Month(m)
	}
	if m, ok := monthNames[strings.ToLower(strings.TrimSpace(month))]; ok {
		return m
	}
	return time.January
}

// ComposePubDate derives the canonical publication date from the source's
// year, month, and day text fields. Missing month defaults to January and
// missing day to 1; an absent year yields UnknownPubDate. The defaults
// deliberately conflate unknown precision with January 1st because that is
// what stored records have always meant.
func ComposePubDate(year, month, day string) time.Time {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return UnknownPubDate
	}

	d := 1
	if parsed, err := strconv.Atoi(strings.TrimSpace(day)); err == nil && parsed >= 1 && parsed <= 31 {
		d = parsed
	}

	return time.Date(y, parseMonth(month), d, 0, 0, 0, 0, time.UTC)
}

// FormatPubDate renders a publication date in the canonical year-month-day
// form, "0000-Jan-01" for the unknown-date sentinel.
func FormatPubDate(t time.Time) string {
	return t.Format(PubDateLayout)
}
