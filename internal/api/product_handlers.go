package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Edmund-Gan/mycosmetic2/internal/product"
)

// maxRecentLimit bounds the homepage feed size.
const maxRecentLimit = 50

// ProductHandlers holds dependencies for product HTTP handlers.
type ProductHandlers struct {
	products  product.Repository
	formatter *product.Formatter

	alternativesLimit int
}

// NewProductHandlers creates a new ProductHandlers instance.
func NewProductHandlers(products product.Repository, formatter *product.Formatter, alternativesLimit int) *ProductHandlers {
	return &ProductHandlers{
		products:          products,
		formatter:         formatter,
		alternativesLimit: alternativesLimit,
	}
}

// ProductListResponse wraps a list of formatted products.
type ProductListResponse struct {
	Products []*product.Formatted `json:"products"`
	Count    int                  `json:"count"`
}

// Recent handles GET /api/products/recent.
// Returns the most recently registered approved products.
func (h *ProductHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	products, err := h.products.Recent(r.Context(), limit)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, ProductListResponse{
		Products: h.formatter.FormatAll(products),
		Count:    len(products),
	})
}

// ByNotifNo handles GET /api/product/{notifNo}.
func (h *ProductHandlers) ByNotifNo(w http.ResponseWriter, r *http.Request) {
	notifNo := r.PathValue("notifNo")
	if notifNo == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Notification code is required")
		return
	}

	p, err := h.products.ByNotifNo(r.Context(), notifNo)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeProductNotFound, "Product not found")
			return
		}
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, h.formatter.Format(p))
}

// Alternatives handles GET /api/product/{notifNo}/alternatives.
// Returns approved products in the same category as the given product,
// ordered by company reliability score descending.
func (h *ProductHandlers) Alternatives(w http.ResponseWriter, r *http.Request) {
	notifNo := r.PathValue("notifNo")
	if notifNo == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "Notification code is required")
		return
	}

	limit := h.alternativesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	alternatives, err := h.products.Alternatives(r.Context(), notifNo, limit)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			WriteError(w, r.Context(), http.StatusNotFound, ErrCodeProductNotFound, "Product not found")
			return
		}
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r.Context(), http.StatusOK, ProductListResponse{
		Products: h.formatter.FormatAll(alternatives),
		Count:    len(alternatives),
	})
}

func (h *ProductHandlers) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, product.ErrStoreUnavailable) {
		WriteError(w, r.Context(), http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "Product store is temporarily unavailable")
		return
	}
	WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Product lookup failed")
}
