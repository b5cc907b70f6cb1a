package api

import (
	"errors"
	"net/http"

	"github.com/Edmund-Gan/mycosmetic2/internal/product"
)

// SubstanceHandlers holds dependencies for substance reference handlers.
type SubstanceHandlers struct {
	products product.Repository
}

// NewSubstanceHandlers creates a new SubstanceHandlers instance.
func NewSubstanceHandlers(products product.Repository) *SubstanceHandlers {
	return &SubstanceHandlers{products: products}
}

// SubstanceListResponse wraps a list of substances.
type SubstanceListResponse struct {
	Substances []product.Substance `json:"substances"`
	Count      int                 `json:"count"`
}

// List handles GET /api/substances.
// Returns the full substance reference list ordered by risk tier
// (HIGH, MEDIUM, LOW) then name.
func (h *SubstanceHandlers) List(w http.ResponseWriter, r *http.Request) {
	substances, err := h.products.Substances(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if substances == nil {
		substances = []product.Substance{}
	}

	writeJSON(w, r.Context(), http.StatusOK, SubstanceListResponse{
		Substances: substances,
		Count:      len(substances),
	})
}

// ForProduct handles GET /api/substances/product/{notifNo}.
// Returns the harmful substances attached to a cancelled product. Unknown
// or approved products yield an empty list.
func (h *SubstanceHandlers) ForProduct(w http.ResponseWriter, r *http.Request) {
	notifNo := r.PathValue("notifNo")
	if notifNo == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Notification code is required")
		return
	}

	substances, err := h.products.ProductSubstances(r.Context(), notifNo)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if substances == nil {
		substances = []product.Substance{}
	}

	writeJSON(w, r.Context(), http.StatusOK, SubstanceListResponse{
		Substances: substances,
		Count:      len(substances),
	})
}

func (h *SubstanceHandlers) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, product.ErrStoreUnavailable) {
		WriteError(w, r.Context(), http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "Substance store is temporarily unavailable")
		return
	}
	WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Substance lookup failed")
}
