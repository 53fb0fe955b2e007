package entrez

import "strings"

// BuildQuery constructs an E-utilities search expression from author filters,
// topic filters, and a literal date-range expression.
//
// Non-empty author and topic sets each contribute a parenthesized OR-group of
// field-tagged clauses; the groups are joined with AND and the date range is
// always appended as a final AND clause. Empty sets contribute nothing, so
// the result never contains an empty parenthesized group or a stray AND.
//
// BuildQuery is a pure function: deterministic for identical inputs, no side
// effects.
func BuildQuery(authors, topics []string, dateRange string) string {
	var groups []string

	if g := orGroup(authors, "[Author]"); g != "" {
		groups = append(groups, g)
	}
	if g := orGroup(topics, "[Title/Abstract]"); g != "" {
		groups = append(groups, g)
	}

	query := strings.Join(groups, " AND ")
	if query == "" {
		return "AND " + dateRange
	}
	return query + " AND " + dateRange
}

// orGroup builds a parenthesized OR-group of field-tagged terms, skipping
// blank entries. Returns "" when no term survives.
func orGroup(terms []string, fieldTag string) string {
	var clauses []string
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		clauses = append(clauses, term+fieldTag)
	}
	if len(clauses) == 0 {
		return ""
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}
