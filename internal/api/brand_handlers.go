package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Edmund-Gan/mycosmetic2/internal/company"
	"github.com/Edmund-Gan/mycosmetic2/internal/score"
)

// BrandHandlers holds dependencies for company statistics and score
// breakdown handlers.
type BrandHandlers struct {
	companies company.Repository
	compiler  *score.Compiler
}

// NewBrandHandlers creates a new BrandHandlers instance.
func NewBrandHandlers(companies company.Repository, compiler *score.Compiler) *BrandHandlers {
	return &BrandHandlers{
		companies: companies,
		compiler:  compiler,
	}
}

// BrandListResponse wraps the consumer-facing brand statistics list.
type BrandListResponse struct {
	Brands []company.BrandStats `json:"brands"`
	Count  int                  `json:"count"`
}

// Brands handles GET /api/brands.
// Returns per-company statistics with derived total product counts and
// cancellation rates.
func (h *BrandHandlers) Brands(w http.ResponseWriter, r *http.Request) {
	stats, err := h.companies.ListStats(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if stats == nil {
		stats = []company.BrandStats{}
	}

	writeJSON(w, r.Context(), http.StatusOK, BrandListResponse{
		Brands: stats,
		Count:  len(stats),
	})
}

// Company handles GET /api/company/{name}.
// Resolves the company through the ordered matcher chain and returns its
// statistics view.
func (h *BrandHandlers) Company(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Company name is required")
		return
	}

	c, err := h.companies.FindByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeCompanyNotFound, "Company not found")
			return
		}
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, c.Stats())
}

// ScoreBreakdown handles GET /api/company/{name}/score-breakdown.
// Returns the auditable reliability score decomposition for the company.
// When the company is unknown and a fallbackScore parameter is supplied,
// a degraded single-component breakdown built from that product-level
// score is returned instead of a 404.
func (h *BrandHandlers) ScoreBreakdown(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Company name is required")
		return
	}

	breakdown, err := h.compiler.CompileByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, score.ErrCompanyNotFound) {
			if raw := r.URL.Query().Get("fallbackScore"); raw != "" {
				productScore, parseErr := strconv.ParseFloat(raw, 64)
				if parseErr != nil {
					WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "fallbackScore must be numeric")
					return
				}
				writeJSON(w, r.Context(), http.StatusOK, score.Fallback(productScore))
				return
			}
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeCompanyNotFound, "Company not found")
			return
		}
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, breakdown)
}

func (h *BrandHandlers) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, company.ErrStoreUnavailable) {
		WriteError(w, r.Context(), http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "Company store is temporarily unavailable")
		return
	}
	WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Company lookup failed")
}
