package company

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// Sentinel errors returned by repositories.
var (
	// ErrNotFound indicates no company matched any lookup strategy.
	ErrNotFound = errors.New("company not found")

	// ErrStoreUnavailable indicates a transient store failure. Callers may
	// retry; the wrapped cause carries the driver error.
	ErrStoreUnavailable = errors.New("company store unavailable")
)

// Repository defines read access to company records.
type Repository interface {
	// FindByName resolves a company using an ordered matcher chain:
	// exact name, then case-insensitive, then substring. The first
	// strategy producing a hit wins. Returns ErrNotFound when every
	// strategy misses.
	FindByName(ctx context.Context, name string) (*Company, error)

	// ListStats returns the statistics view of every company, ordered by
	// reliability score descending.
	ListStats(ctx context.Context) ([]BrandStats, error)
}

// InMemoryRepository is an in-memory Repository implementation for tests
// and local development. Thread-safe for concurrent access.
type InMemoryRepository struct {
	mu        sync.RWMutex
	companies []*Company
}

// NewInMemoryRepository creates an empty in-memory company repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Add stores a copy of the company.
func (r *InMemoryRepository) Add(c *Company) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	r.companies = append(r.companies, &cp)
}

// FindByName implements the Repository interface.
func (r *InMemoryRepository) FindByName(ctx context.Context, name string) (*Company, error) {
	if name == "" {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Strategy 1: exact match
	for _, c := range r.companies {
		if c.CompanyName == name {
			cp := *c
			return &cp, nil
		}
	}

	// Strategy 2: case-insensitive match
	lower := strings.ToLower(name)
	for _, c := range r.companies {
		if strings.ToLower(c.CompanyName) == lower {
			cp := *c
			return &cp, nil
		}
	}

	// Strategy 3: substring match
	for _, c := range r.companies {
		if strings.Contains(strings.ToLower(c.CompanyName), lower) {
			cp := *c
			return &cp, nil
		}
	}

	return nil, ErrNotFound
}

// ListStats implements the Repository interface.
func (r *InMemoryRepository) ListStats(ctx context.Context) ([]BrandStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make([]BrandStats, 0, len(r.companies))
	for _, c := range r.companies {
		stats = append(stats, c.Stats())
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ReliabilityScore > stats[j].ReliabilityScore
	})
	return stats, nil
}
