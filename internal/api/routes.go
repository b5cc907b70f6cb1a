package api

import (
	"net/http"
)

// Handlers aggregates every handler group the router mounts.
type Handlers struct {
	Search    *SearchHandlers
	Product   *ProductHandlers
	Substance *SubstanceHandlers
	Brand     *BrandHandlers
	Health    *HealthHandlers
}

// Routes builds the API route table. Method-qualified patterns make the
// mux reject non-GET requests with 405 without per-handler checks.
func Routes(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/suggestions", h.Search.Suggestions)
	mux.HandleFunc("GET /api/search", h.Search.Search)

	mux.HandleFunc("GET /api/products/recent", h.Product.Recent)
	mux.HandleFunc("GET /api/product/{notifNo}", h.Product.ByNotifNo)
	mux.HandleFunc("GET /api/product/{notifNo}/alternatives", h.Product.Alternatives)

	mux.HandleFunc("GET /api/substances", h.Substance.List)
	mux.HandleFunc("GET /api/substances/product/{notifNo}", h.Substance.ForProduct)

	mux.HandleFunc("GET /api/brands", h.Brand.Brands)
	mux.HandleFunc("GET /api/company/{name}", h.Brand.Company)
	mux.HandleFunc("GET /api/company/{name}/score-breakdown", h.Brand.ScoreBreakdown)

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /api/health", h.Health.Health)
	mux.HandleFunc("GET /ready", h.Health.Ready)

	return mux
}
