package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Edmund-Gan/mycosmetic2/internal/company"
	"github.com/Edmund-Gan/mycosmetic2/internal/product"
	"github.com/Edmund-Gan/mycosmetic2/internal/score"
	"github.com/Edmund-Gan/mycosmetic2/internal/search"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// seedProducts builds the in-memory catalog used across handler tests.
func seedProducts(t *testing.T) *product.InMemoryRepository {
	t.Helper()
	repo := product.NewInMemoryRepository()

	repo.Add(product.Product{
		NotifNo:          "NOT230001",
		Product:          "Hydra Glow Moisturizer",
		Category:         "skincare",
		Status:           product.StatusApproved,
		DateNotif:        day(t, "2023-04-10"),
		Company:          "Glow Labs",
		ReliabilityScore: 78.5,
	})
	repo.Add(product.Product{
		NotifNo:          "NOT230002",
		Product:          "Fair Beauty Whitening Cream",
		Category:         "skincare",
		Status:           product.StatusCancelled,
		DateNotif:        day(t, "2023-06-01"),
		Company:          "Fair Beauty Sdn Bhd",
		ReliabilityScore: 31.0,
	})
	repo.Add(product.Product{
		NotifNo:          "NOT230003",
		Product:          "Silky Syampu Herbal",
		Category:         "haircare",
		Status:           product.StatusApproved,
		DateNotif:        day(t, "2023-01-20"),
		Company:          "Herbal House",
		ReliabilityScore: 66.0,
	})
	repo.Add(product.Product{
		NotifNo:          "NOT230004",
		Product:          "Pure Pelembap Day Cream",
		Category:         "skincare",
		Status:           product.StatusApproved,
		DateNotif:        day(t, "2023-05-15"),
		Company:          "Glow Labs",
		ReliabilityScore: 78.5,
	})

	repo.AddSubstance(product.Substance{SubstanceID: 1, Substance: "Mercury", RiskLevel: "HIGH"})
	repo.AddSubstance(product.Substance{SubstanceID: 2, Substance: "Hydroquinone", RiskLevel: "MEDIUM"})
	repo.AddCancellation("NOT230002", "Fair Beauty Manufacturing", 1, 2)

	return repo
}

// seedCompanies builds the in-memory company repository. Glow Labs has a
// consistent stored score so no reconciliation mismatch is flagged.
func seedCompanies() *company.InMemoryRepository {
	repo := company.NewInMemoryRepository()
	repo.Add(&company.Company{
		CompanyName:      "Glow Labs",
		NumApproved:      8,
		NumCancelled:     2,
		ReliabilityScore: 76.5,
		CancelScore:      80.0,
		CategoryScore:    60.0,
		PortfolioScore:   90.0,
		MarketScore:      70.0,
		TimeBonus:        2.0,
		ExpPenalty:       -1.0,
		BrandAgeYears:    7.2,
		HasRecentProducts: true,
		HasOldProducts:    true,
	})
	repo.Add(&company.Company{
		CompanyName:      "Herbal House",
		NumApproved:      3,
		NumCancelled:     0,
		ReliabilityScore: 66.0,
		CancelScore:      70.0,
		CategoryScore:    50.0,
		PortfolioScore:   60.0,
		MarketScore:      75.0,
	})
	return repo
}

// newTestMux wires every handler group over in-memory repositories.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	products := seedProducts(t)
	companies := seedCompanies()
	formatter := product.NewFormatter(100)
	compiler := score.NewCompiler(companies, 100, score.DefaultCaps(), nil)

	return Routes(Handlers{
		Search:    NewSearchHandlers(products, search.DefaultSynonymTable(), formatter, nil, 3, 10),
		Product:   NewProductHandlers(products, formatter, 5),
		Substance: NewSubstanceHandlers(products),
		Brand:     NewBrandHandlers(companies, compiler),
		Health:    NewHealthHandlers(HealthHandlersConfig{}),
	})
}

func doGet(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}
