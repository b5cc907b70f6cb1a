package search

import (
	"sort"
	"strings"
)

// MinSuggestionSimilarity is the floor applied in suggestion mode. Records
// scoring at or below this value are considered noise and dropped.
const MinSuggestionSimilarity = 0.1

// Fields holds the three searchable attributes of a record. The per-record
// relevance score is the best similarity across all three against the raw
// query.
type Fields struct {
	Name    string
	Company string
	Code    string
}

// Scored pairs a record index with its relevance score.
type Scored struct {
	Index int
	Score float64
}

// Score returns the relevance of a record for the given query: the maximum
// similarity of the query against name, company, and notification code.
// All comparisons are case-insensitive.
func Score(query string, f Fields) float64 {
	q := strings.ToLower(query)

	best := Similarity(q, strings.ToLower(f.Name))
	if s := Similarity(q, strings.ToLower(f.Company)); s > best {
		best = s
	}
	if s := Similarity(q, strings.ToLower(f.Code)); s > best {
		best = s
	}
	return best
}

// Rank scores every record and returns the indexes of those scoring above
// the floor, ordered by descending score. Records with equal scores keep
// their original retrieval order (the store returns newest-first, so ties
// favor recently registered products). Pass floor <= 0 to rank without
// filtering, as exact-search mode does.
func Rank(query string, records []Fields, floor float64) []Scored {
	scored := make([]Scored, 0, len(records))
	for i, f := range records {
		s := Score(query, f)
		if floor > 0 && s <= floor {
			continue
		}
		scored = append(scored, Scored{Index: i, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
