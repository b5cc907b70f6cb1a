package product

import (
	"sort"
	"strings"
)

// HarmfulIngredients filter modes.
const (
	HarmfulAll     = "all"
	HarmfulExclude = "exclude"
	HarmfulOnly    = "only"
)

// Filters narrows a result set after retrieval. Zero values and "all"
// leave the corresponding dimension untouched.
type Filters struct {
	Status             string
	RiskLevel          string
	Category           string
	HarmfulIngredients string
}

// IsZero reports whether no filter dimension is active.
func (f Filters) IsZero() bool {
	return (f.Status == "" || f.Status == "all") &&
		(f.RiskLevel == "" || f.RiskLevel == "all") &&
		(f.Category == "" || f.Category == "all") &&
		(f.HarmfulIngredients == "" || f.HarmfulIngredients == HarmfulAll)
}

// Apply returns the products passing every active dimension. The input
// slice is not modified.
func (f Filters) Apply(products []Product) []Product {
	if f.IsZero() {
		return products
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !f.matches(&p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f Filters) matches(p *Product) bool {
	if f.Status != "" && f.Status != "all" && p.Status != f.Status {
		return false
	}
	if f.RiskLevel != "" && f.RiskLevel != "all" && RiskLevel(riskScore(p)) != f.RiskLevel {
		return false
	}
	if f.Category != "" && f.Category != "all" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	switch f.HarmfulIngredients {
	case HarmfulExclude:
		if len(p.HarmfulIngredients) > 0 {
			return false
		}
	case HarmfulOnly:
		if len(p.HarmfulIngredients) == 0 {
			return false
		}
	}
	return true
}

// RiskLevel buckets a 0..100 risk score: at most 40 is high risk, at
// most 70 medium, above that low.
func RiskLevel(score float64) string {
	switch {
	case score <= 40:
		return "high"
	case score <= 70:
		return "medium"
	default:
		return "low"
	}
}

// riskScore is the effective score used for risk bucketing and sorting.
// Products without a stored score fall back to a status-based default.
func riskScore(p *Product) float64 {
	if p.ReliabilityScore > 0 {
		return p.ReliabilityScore
	}
	switch p.Status {
	case StatusApproved:
		return 80.0
	case StatusCancelled:
		return 30.0
	default:
		return 50.0
	}
}

// Sort keys accepted by Sort.
const (
	SortByScore  = "score"
	SortByName   = "name"
	SortByBrand  = "brand"
	SortByStatus = "status"
	SortByDate   = "date"
)

// Sort orders products in place by the given key and direction. Unknown
// keys leave the slice untouched; any direction other than "asc" sorts
// descending.
func Sort(products []Product, key, direction string) {
	var less func(a, b *Product) bool
	switch key {
	case SortByScore:
		less = func(a, b *Product) bool { return riskScore(a) < riskScore(b) }
	case SortByName:
		less = func(a, b *Product) bool {
			return strings.ToLower(a.Product) < strings.ToLower(b.Product)
		}
	case SortByBrand:
		less = func(a, b *Product) bool {
			return strings.ToLower(a.Company) < strings.ToLower(b.Company)
		}
	case SortByStatus:
		less = func(a, b *Product) bool { return a.Status < b.Status }
	case SortByDate:
		less = func(a, b *Product) bool { return a.DateNotif.Before(b.DateNotif) }
	default:
		return
	}

	ascending := direction == "asc"
	sort.SliceStable(products, func(i, j int) bool {
		if ascending {
			return less(&products[i], &products[j])
		}
		return less(&products[j], &products[i])
	})
}

// Search type values accepted by NarrowByField.
const (
	SearchTypeAll          = "all"
	SearchTypeProduct      = "product"
	SearchTypeCompany      = "company"
	SearchTypeNotification = "notification"
)

// NarrowByField keeps only products whose chosen field contains one of
// the terms, for searches scoped to a single field. SearchTypeAll and
// unknown types return the input unchanged.
func NarrowByField(products []Product, terms []string, searchType string) []Product {
	var field func(p *Product) string
	switch searchType {
	case SearchTypeProduct:
		field = func(p *Product) string { return p.Product }
	case SearchTypeCompany:
		field = func(p *Product) string { return p.Company }
	case SearchTypeNotification:
		field = func(p *Product) string { return p.NotifNo }
	default:
		return products
	}

	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		value := strings.ToLower(field(&p))
		for _, t := range lowered {
			if strings.Contains(value, t) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
