package score

import (
	"context"
	"errors"
	"testing"

	"github.com/Edmund-Gan/mycosmetic2/internal/company"
)

func newTestCompiler(t *testing.T) (*Compiler, *company.InMemoryRepository) {
	t.Helper()
	repo := company.NewInMemoryRepository()
	repo.Add(testCompany())
	return NewCompiler(repo, 10, DefaultCaps(), nil), repo
}

func TestCompileByName(t *testing.T) {
	compiler, _ := newTestCompiler(t)

	b, err := compiler.CompileByName(context.Background(), "Glow Labs")
	if err != nil {
		t.Fatalf("CompileByName error: %v", err)
	}
	if b.FinalScore != 78.5 {
		t.Errorf("FinalScore = %v, want 78.5", b.FinalScore)
	}
}

func TestCompileByName_MemoizesIdenticalValue(t *testing.T) {
	compiler, _ := newTestCompiler(t)
	ctx := context.Background()

	first, err := compiler.CompileByName(ctx, "Glow Labs")
	if err != nil {
		t.Fatalf("first CompileByName error: %v", err)
	}
	second, err := compiler.CompileByName(ctx, "Glow Labs")
	if err != nil {
		t.Fatalf("second CompileByName error: %v", err)
	}
	if first != second {
		t.Error("expected repeat lookups to return the identical cached breakdown")
	}

	// Cache key is case-insensitive: a differently cased query for the
	// same company hits the same entry.
	third, err := compiler.CompileByName(ctx, "GLOW LABS")
	if err != nil {
		t.Fatalf("third CompileByName error: %v", err)
	}
	if third != first {
		t.Error("expected case-insensitive cache key to hit the same entry")
	}
}

func TestCompileByName_NotFound(t *testing.T) {
	compiler, _ := newTestCompiler(t)

	_, err := compiler.CompileByName(context.Background(), "No Such Brand Anywhere Ever")
	if !errors.Is(err, ErrCompanyNotFound) {
		t.Errorf("error = %v, want ErrCompanyNotFound", err)
	}

	_, err = compiler.CompileByName(context.Background(), "   ")
	if !errors.Is(err, ErrCompanyNotFound) {
		t.Errorf("blank name error = %v, want ErrCompanyNotFound", err)
	}
}

// driftingRepo hands out fresh copies of one company so the caller can
// mutate the backing row between lookups, the way a store refresh would.
type driftingRepo struct {
	comp company.Company
}

func (r *driftingRepo) FindByName(ctx context.Context, name string) (*company.Company, error) {
	c := r.comp
	return &c, nil
}

func (r *driftingRepo) ListStats(ctx context.Context) ([]company.BrandStats, error) {
	return nil, nil
}

func TestCompileByName_FuzzyLookupSharesOneEntry(t *testing.T) {
	repo := &driftingRepo{comp: *testCompany()}
	compiler := NewCompiler(repo, 10, DefaultCaps(), nil)
	ctx := context.Background()

	first, err := compiler.CompileByName(ctx, "Glow Labs")
	if err != nil {
		t.Fatalf("CompileByName error: %v", err)
	}

	// The store drifts mid-session. A shorter query resolving to the same
	// company must hit the entry keyed by its canonical name, not compile
	// a second breakdown from the newer row.
	repo.comp.ReliabilityScore = 90

	second, err := compiler.CompileByName(ctx, "glow")
	if err != nil {
		t.Fatalf("CompileByName via substring error: %v", err)
	}
	if second != first {
		t.Errorf("substring query compiled a new breakdown: %v vs %v", second.FinalScore, first.FinalScore)
	}

	// And the alias now resolves without another store round trip.
	third, err := compiler.CompileByName(ctx, "glow")
	if err != nil {
		t.Fatalf("repeat alias lookup error: %v", err)
	}
	if third != first {
		t.Error("expected alias key to share the canonical cache entry")
	}
}

func TestCompileByName_SubstringLookup(t *testing.T) {
	compiler, _ := newTestCompiler(t)

	b, err := compiler.CompileByName(context.Background(), "Glow")
	if err != nil {
		t.Fatalf("CompileByName error: %v", err)
	}
	if b.FinalScore != 78.5 {
		t.Errorf("FinalScore = %v, want 78.5 via substring match", b.FinalScore)
	}
}
