// Package search provides bilingual query expansion and fuzzy similarity
// ranking for product lookups.
package search

import (
	"sort"
	"strings"
)

// SynonymTable maps a canonical English keyword to its known variants,
// including Malay translations and common spelling variations.
type SynonymTable map[string][]string

// DefaultSynonymTable returns the built-in English/Malay cosmetic
// vocabulary. The table is intentionally small and curated; entries map
// a canonical keyword to every spelling a consumer is likely to type.
func DefaultSynonymTable() SynonymTable {
	return SynonymTable{
		"moisturizer": {"pelembap", "moisturizer", "moisturiser"},
		"cleanser":    {"pembersih", "cleanser"},
		"serum":       {"serum"},
		"cream":       {"krim", "cream"},
		"oil":         {"minyak", "oil"},
		"mask":        {"masker", "mask"},
		"toner":       {"toner"},
		"lotion":      {"losyen", "lotion"},
		"soap":        {"sabun", "soap"},
		"shampoo":     {"syampu", "shampoo"},
		"conditioner": {"pelembap rambut", "conditioner"},
		"lipstick":    {"gincu", "lipstick"},
		"foundation":  {"asas", "foundation"},
		"powder":      {"bedak", "powder"},
		"perfume":     {"minyak wangi", "perfume", "perfum"},
		"deodorant":   {"deodoran", "deodorant"},
		"skincare":    {"penjagaan kulit", "skincare", "skin care"},
		"makeup":      {"solekan", "makeup", "make-up", "kosmetik"},
		"haircare":    {"penjagaan rambut", "haircare", "hair care"},
		"bodycare":    {"penjagaan badan", "bodycare", "body care"},
		"fragrance":   {"minyak wangi", "fragrance", "perfume"},
		"beauty":      {"kecantikan", "beauty"},
		"natural":     {"semula jadi", "natural"},
		"organic":     {"organik", "organic"},
		"whitening":   {"pemutih", "whitening", "pencerah"},
		"anti-aging":  {"anti-penuaan", "anti-aging", "anti-ageing"},
	}
}

// Expand lower-cases the query and returns it together with every synonym
// group it overlaps. A group matches when the query contains one of its
// variants or a variant contains the query; the whole group plus the
// canonical keyword is then included. The result is de-duplicated and
// sorted so expansion is deterministic regardless of map iteration order.
func (t SynonymTable) Expand(query string) []string {
	q := strings.ToLower(query)
	terms := map[string]struct{}{q: {}}

	for canonical, variants := range t {
		matched := false
		for _, v := range variants {
			if strings.Contains(q, v) || strings.Contains(v, q) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, v := range variants {
			terms[v] = struct{}{}
		}
		terms[canonical] = struct{}{}
	}

	out := make([]string, 0, len(terms))
	for term := range terms {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}
