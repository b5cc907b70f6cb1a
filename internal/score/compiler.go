package score

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Edmund-Gan/mycosmetic2/internal/cache"
	"github.com/Edmund-Gan/mycosmetic2/internal/company"
)

// ErrCompanyNotFound indicates no company matched the lookup chain.
var ErrCompanyNotFound = errors.New("company not found for score breakdown")

// Compiler resolves companies and memoizes their compiled breakdowns.
// Repeat lookups for the same name return the identical cached value.
type Compiler struct {
	companies  company.Repository
	breakdowns *cache.FIFO[*Breakdown]
	caps       Caps
	metrics    *Metrics
}

// NewCompiler creates a Compiler over the given company repository.
// Pass nil metrics to disable instrumentation.
func NewCompiler(companies company.Repository, cacheCapacity int, caps Caps, metrics *Metrics) *Compiler {
	return &Compiler{
		companies:  companies,
		breakdowns: cache.NewFIFO[*Breakdown](cacheCapacity),
		caps:       caps,
		metrics:    metrics,
	}
}

// CompileByName resolves the company through the matcher chain and returns
// its compiled breakdown. Results are memoized in a bounded FIFO cache under
// the resolved company's lower-cased name, with the queried string aliased to
// the same entry, so every query that resolves to one company sees one
// breakdown for the cache's lifetime. Returns ErrCompanyNotFound when no
// strategy matches.
func (c *Compiler) CompileByName(ctx context.Context, name string) (*Breakdown, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, ErrCompanyNotFound
	}

	if b, ok := c.breakdowns.Get(key); ok {
		if c.metrics != nil {
			c.metrics.IncCacheHits()
		}
		return b, nil
	}

	comp, err := c.companies.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("resolve company %q: %w", name, err)
	}

	// A fuzzy query can reach a company that an earlier query already
	// compiled under its canonical name. Reuse that entry rather than
	// recompiling from a possibly newer store row.
	canonical := strings.ToLower(strings.TrimSpace(comp.CompanyName))
	if b, ok := c.breakdowns.Get(canonical); ok {
		if c.metrics != nil {
			c.metrics.IncCacheHits()
		}
		if key != canonical {
			c.breakdowns.Put(key, b)
		}
		return b, nil
	}
	if c.metrics != nil {
		c.metrics.IncCacheMisses()
	}

	b := Compile(comp, c.caps)
	if c.metrics != nil {
		c.metrics.IncCompiled()
	}

	if b.ReconciliationMismatch {
		if c.metrics != nil {
			c.metrics.IncReconcileMismatches()
		}
		slog.WarnContext(ctx, "score breakdown reconciliation mismatch",
			"company", comp.CompanyName,
			"stored_final", b.FinalScore,
			"base", b.BaseScore,
			"delta", b.BonusesAndPenalties,
		)
	}

	c.breakdowns.Put(canonical, b)
	if key != canonical {
		c.breakdowns.Put(key, b)
	}
	return b, nil
}
