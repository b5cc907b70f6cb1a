package product

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// Sentinel errors returned by repositories.
var (
	// ErrNotFound indicates no product matched the notification code.
	ErrNotFound = errors.New("product not found")

	// ErrStoreUnavailable indicates a transient store failure. Callers may
	// retry; the wrapped cause carries the driver error.
	ErrStoreUnavailable = errors.New("product store unavailable")
)

// Repository defines read access to the product catalog. All result sets
// are ordered by registration date descending unless stated otherwise.
type Repository interface {
	// SearchPage runs an expanded-term search and returns one result page
	// with the total match count. Matching is a substring test of any term
	// against product name, company name, or notification code.
	SearchPage(ctx context.Context, terms []string, page, pageSize int) (*Page, error)

	// SearchFlat runs an expanded-term search and returns up to limit
	// matches without pagination metadata.
	SearchFlat(ctx context.Context, terms []string, limit int) ([]Product, error)

	// Recent returns the most recently registered approved products.
	Recent(ctx context.Context, limit int) ([]Product, error)

	// ByNotifNo returns the product with the given notification code, or
	// ErrNotFound.
	ByNotifNo(ctx context.Context, notifNo string) (*Product, error)

	// Alternatives returns approved products in the same category as the
	// given product, excluding it, ordered by company reliability score
	// descending. Returns ErrNotFound when the original product is
	// unknown.
	Alternatives(ctx context.Context, notifNo string, limit int) ([]Product, error)

	// Substances returns the full substance reference list ordered by
	// risk tier (HIGH, MEDIUM, LOW) then name.
	Substances(ctx context.Context) ([]Substance, error)

	// ProductSubstances returns the harmful substances attached to a
	// cancelled product, risk-tier ordered. Unknown or approved products
	// yield an empty list.
	ProductSubstances(ctx context.Context, notifNo string) ([]Substance, error)
}

// cancelledInfo carries the cancellation record for a product.
type cancelledInfo struct {
	manufacturer string
	substanceIDs []int
}

// InMemoryRepository is an in-memory Repository implementation for tests
// and local development. Thread-safe for concurrent access.
type InMemoryRepository struct {
	mu         sync.RWMutex
	products   []Product
	cancelled  map[string]cancelledInfo
	substances map[int]Substance
}

// NewInMemoryRepository creates an empty in-memory product repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		cancelled:  make(map[string]cancelledInfo),
		substances: make(map[int]Substance),
	}
}

// Add stores a copy of the product.
func (r *InMemoryRepository) Add(p Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, p)
}

// AddSubstance stores a substance reference record.
func (r *InMemoryRepository) AddSubstance(s Substance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.substances[s.SubstanceID] = s
}

// AddCancellation records the cancellation details for a product.
func (r *InMemoryRepository) AddCancellation(notifNo, manufacturer string, substanceIDs ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled[notifNo] = cancelledInfo{manufacturer: manufacturer, substanceIDs: substanceIDs}
}

func matchesAnyTerm(p *Product, terms []string) bool {
	name := strings.ToLower(p.Product)
	company := strings.ToLower(p.Company)
	code := strings.ToLower(p.NotifNo)

	for _, term := range terms {
		t := strings.ToLower(term)
		if t == "" {
			continue
		}
		if strings.Contains(name, t) || strings.Contains(company, t) || strings.Contains(code, t) {
			return true
		}
	}
	return false
}

// byDateDesc orders newest registration first, notification code as
// tie-breaker for stability.
func byDateDesc(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if !products[i].DateNotif.Equal(products[j].DateNotif) {
			return products[i].DateNotif.After(products[j].DateNotif)
		}
		return products[i].NotifNo > products[j].NotifNo
	})
}

// enrich fills harmful ingredients and manufacturer for cancelled
// products. Approved products always get an empty ingredient list.
// Substance names are de-duplicated preserving first occurrence.
func (r *InMemoryRepository) enrich(p *Product) {
	p.HarmfulIngredients = []string{}

	if p.Status != StatusCancelled {
		return
	}
	info, ok := r.cancelled[p.NotifNo]
	if !ok {
		return
	}

	p.Manufacturer = info.manufacturer
	seen := make(map[string]bool)
	for _, id := range info.substanceIDs {
		s, ok := r.substances[id]
		if !ok || seen[s.Substance] {
			continue
		}
		seen[s.Substance] = true
		p.HarmfulIngredients = append(p.HarmfulIngredients, s.Substance)
	}
}

func (r *InMemoryRepository) search(terms []string) []Product {
	var matched []Product
	for i := range r.products {
		if matchesAnyTerm(&r.products[i], terms) {
			matched = append(matched, r.products[i])
		}
	}
	byDateDesc(matched)
	return matched
}

// SearchPage implements the Repository interface.
func (r *InMemoryRepository) SearchPage(ctx context.Context, terms []string, page, pageSize int) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.search(terms)
	total := len(matched)

	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	items := make([]Product, end-offset)
	copy(items, matched[offset:end])
	for i := range items {
		r.enrich(&items[i])
	}

	return NewPage(items, total, page, pageSize), nil
}

// SearchFlat implements the Repository interface.
func (r *InMemoryRepository) SearchFlat(ctx context.Context, terms []string, limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.search(terms)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	items := make([]Product, len(matched))
	copy(items, matched)
	for i := range items {
		r.enrich(&items[i])
	}
	return items, nil
}

// Recent implements the Repository interface.
func (r *InMemoryRepository) Recent(ctx context.Context, limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var approved []Product
	for _, p := range r.products {
		if p.Status == StatusApproved {
			approved = append(approved, p)
		}
	}
	byDateDesc(approved)
	if limit > 0 && len(approved) > limit {
		approved = approved[:limit]
	}

	items := make([]Product, len(approved))
	copy(items, approved)
	for i := range items {
		r.enrich(&items[i])
	}
	return items, nil
}

// ByNotifNo implements the Repository interface.
func (r *InMemoryRepository) ByNotifNo(ctx context.Context, notifNo string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.NotifNo == notifNo {
			cp := p
			r.enrich(&cp)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Alternatives implements the Repository interface.
func (r *InMemoryRepository) Alternatives(ctx context.Context, notifNo string, limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var original *Product
	for i := range r.products {
		if r.products[i].NotifNo == notifNo {
			original = &r.products[i]
			break
		}
	}
	if original == nil {
		return nil, ErrNotFound
	}

	var alts []Product
	for _, p := range r.products {
		if p.Category == original.Category && p.Status == StatusApproved && p.NotifNo != notifNo {
			alts = append(alts, p)
		}
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].ReliabilityScore > alts[j].ReliabilityScore
	})
	if limit > 0 && len(alts) > limit {
		alts = alts[:limit]
	}

	items := make([]Product, len(alts))
	copy(items, alts)
	for i := range items {
		r.enrich(&items[i])
	}
	return items, nil
}

// Substances implements the Repository interface.
func (r *InMemoryRepository) Substances(ctx context.Context) ([]Substance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Substance, 0, len(r.substances))
	for _, s := range r.substances {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if riskRank(out[i].RiskLevel) != riskRank(out[j].RiskLevel) {
			return riskRank(out[i].RiskLevel) < riskRank(out[j].RiskLevel)
		}
		return out[i].Substance < out[j].Substance
	})
	return out, nil
}

// ProductSubstances implements the Repository interface.
func (r *InMemoryRepository) ProductSubstances(ctx context.Context, notifNo string) ([]Substance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.cancelled[notifNo]
	if !ok {
		return []Substance{}, nil
	}

	out := make([]Substance, 0, len(info.substanceIDs))
	for _, id := range info.substanceIDs {
		if s, ok := r.substances[id]; ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return riskRank(out[i].RiskLevel) < riskRank(out[j].RiskLevel)
	})
	return out, nil
}
