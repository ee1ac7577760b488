package app

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	valuesTupleRegex     = regexp.MustCompile(`\([^()]*\)`)
)

// formatDBQueryForTrace flattens whitespace and shortens batched team_records
// inserts to their first VALUES tuple plus a row count before truncating.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := collapseInsertValues(queryWhitespaceRegex.ReplaceAllString(query, " "))
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func collapseInsertValues(query string) string {
	if !strings.HasPrefix(strings.ToUpper(query), "INSERT ") {
		return query
	}
	idx := strings.Index(strings.ToUpper(query), " VALUES ")
	if idx < 0 {
		return query
	}

	head, values := query[:idx+len(" VALUES ")], query[idx+len(" VALUES "):]
	tuples := valuesTupleRegex.FindAllString(values, -1)
	if len(tuples) < 2 {
		return query
	}
	return head + tuples[0] + " /* " + strconv.Itoa(len(tuples)) + " rows */"
}
