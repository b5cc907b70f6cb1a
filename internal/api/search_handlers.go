// Package api provides HTTP handlers for the MyCosmetic API.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Edmund-Gan/mycosmetic2/internal/product"
	"github.com/Edmund-Gan/mycosmetic2/internal/search"
)

// retrievalLimit bounds how many candidate rows a flat or suggestion
// search pulls from the store before ranking and filtering.
const retrievalLimit = 200

// maxSuggestionLimit caps the client-requested suggestion count.
const maxSuggestionLimit = 50

// SearchHandlers holds dependencies for search HTTP handlers.
type SearchHandlers struct {
	products  product.Repository
	synonyms  search.SynonymTable
	formatter *product.Formatter
	metrics   *search.Metrics

	minQueryLength  int
	suggestionLimit int
}

// NewSearchHandlers creates a new SearchHandlers instance.
// Pass nil metrics to disable instrumentation.
func NewSearchHandlers(products product.Repository, synonyms search.SynonymTable, formatter *product.Formatter, metrics *search.Metrics, minQueryLength, suggestionLimit int) *SearchHandlers {
	return &SearchHandlers{
		products:        products,
		synonyms:        synonyms,
		formatter:       formatter,
		metrics:         metrics,
		minQueryLength:  minQueryLength,
		suggestionLimit: suggestionLimit,
	}
}

// Suggestion is one fuzzy-ranked suggestion entry.
type Suggestion struct {
	*product.Formatted
	Similarity float64 `json:"similarity"`
}

// SuggestionsResponse is the envelope for GET /api/suggestions.
type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Count       int          `json:"count"`
}

// FlatSearchResponse is the envelope for legacy flat-mode search.
type FlatSearchResponse struct {
	Products []*product.Formatted `json:"products"`
	Count    int                  `json:"count"`
}

// PagedSearchResponse is the paginated search envelope.
type PagedSearchResponse struct {
	Products    []*product.Formatted `json:"products"`
	TotalCount  int                  `json:"totalCount"`
	CurrentPage int                  `json:"currentPage"`
	PageSize    int                  `json:"pageSize"`
	TotalPages  int                  `json:"totalPages"`
	HasNext     bool                 `json:"hasNext"`
	HasPrev     bool                 `json:"hasPrev"`
}

// Suggestions handles GET /api/suggestions.
// Queries shorter than the minimum length return an empty list without
// touching the store. Results are ranked by best fuzzy similarity across
// product name, company name, and notification code; scores at or below
// the noise floor are dropped. The limit parameter overrides the configured
// default in either direction, capped at maxSuggestionLimit.
func (h *SearchHandlers) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))

	limit := h.suggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxSuggestionLimit)
		}
	}

	if h.metrics != nil {
		h.metrics.IncQueries("suggest")
	}

	if len(query) < h.minQueryLength {
		writeJSON(w, r.Context(), http.StatusOK, SuggestionsResponse{Suggestions: []Suggestion{}})
		return
	}

	terms := h.synonyms.Expand(query)
	if h.metrics != nil {
		h.metrics.ObserveExpansionTerms(len(terms))
	}

	products, err := h.products.SearchFlat(r.Context(), terms, retrievalLimit)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	fields := make([]search.Fields, len(products))
	for i := range products {
		fields[i] = search.Fields{
			Name:    products[i].Product,
			Company: products[i].Company,
			Code:    products[i].NotifNo,
		}
	}

	ranked := search.Rank(query, fields, search.MinSuggestionSimilarity)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	suggestions := make([]Suggestion, 0, len(ranked))
	for _, s := range ranked {
		suggestions = append(suggestions, Suggestion{
			Formatted:  h.formatter.Format(&products[s.Index]),
			Similarity: s.Score,
		})
	}

	if h.metrics != nil {
		h.metrics.ObserveResults("suggest", len(suggestions))
	}

	writeJSON(w, r.Context(), http.StatusOK, SuggestionsResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
	})
}

// Search handles GET /api/search.
// When page or pageSize parameters are present the paginated envelope is
// returned; otherwise the legacy flat mode applies post-retrieval filters,
// search-type narrowing, and client-requested sort orders.
func (h *SearchHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))

	paged := q.Has("page") || q.Has("pageSize")

	if len(query) < h.minQueryLength {
		h.writeEmpty(w, r, paged, q)
		return
	}

	terms := h.synonyms.Expand(query)
	if h.metrics != nil {
		h.metrics.ObserveExpansionTerms(len(terms))
	}

	if paged {
		h.searchPaged(w, r, terms, q)
		return
	}
	h.searchFlat(w, r, query, terms, q)
}

func (h *SearchHandlers) searchPaged(w http.ResponseWriter, r *http.Request, terms []string, q map[string][]string) {
	if h.metrics != nil {
		h.metrics.IncQueries("paged")
	}

	page, _ := strconv.Atoi(first(q, "page"))
	pageSize, _ := strconv.Atoi(first(q, "pageSize"))
	page, pageSize = product.ClampPage(page, pageSize)

	result, err := h.products.SearchPage(r.Context(), terms, page, pageSize)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveResults("paged", len(result.Products))
	}

	writeJSON(w, r.Context(), http.StatusOK, PagedSearchResponse{
		Products:    h.formatter.FormatAll(result.Products),
		TotalCount:  result.TotalCount,
		CurrentPage: result.CurrentPage,
		PageSize:    result.PageSize,
		TotalPages:  result.TotalPages,
		HasNext:     result.HasNext,
		HasPrev:     result.HasPrev,
	})
}

func (h *SearchHandlers) searchFlat(w http.ResponseWriter, r *http.Request, query string, terms []string, q map[string][]string) {
	if h.metrics != nil {
		h.metrics.IncQueries("flat")
	}

	products, err := h.products.SearchFlat(r.Context(), terms, retrievalLimit)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	if searchType := first(q, "searchType"); searchType != "" {
		products = product.NarrowByField(products, terms, searchType)
	}

	filters := product.Filters{
		Status:             first(q, "status"),
		RiskLevel:          first(q, "riskLevel"),
		Category:           first(q, "category"),
		HarmfulIngredients: first(q, "harmfulIngredients"),
	}
	if !filters.IsZero() {
		products = filters.Apply(products)
	}

	if sortBy := first(q, "sortBy"); sortBy != "" {
		product.Sort(products, sortBy, first(q, "sortDir"))
	}

	if h.metrics != nil {
		h.metrics.ObserveResults("flat", len(products))
	}

	writeJSON(w, r.Context(), http.StatusOK, FlatSearchResponse{
		Products: h.formatter.FormatAll(products),
		Count:    len(products),
	})
}

// writeEmpty short-circuits a below-minimum query to a well-formed empty
// envelope without touching the store.
func (h *SearchHandlers) writeEmpty(w http.ResponseWriter, r *http.Request, paged bool, q map[string][]string) {
	if !paged {
		if h.metrics != nil {
			h.metrics.IncQueries("flat")
			h.metrics.ObserveResults("flat", 0)
		}
		writeJSON(w, r.Context(), http.StatusOK, FlatSearchResponse{Products: []*product.Formatted{}})
		return
	}

	if h.metrics != nil {
		h.metrics.IncQueries("paged")
		h.metrics.ObserveResults("paged", 0)
	}

	page, _ := strconv.Atoi(first(q, "page"))
	pageSize, _ := strconv.Atoi(first(q, "pageSize"))
	page, pageSize = product.ClampPage(page, pageSize)

	writeJSON(w, r.Context(), http.StatusOK, PagedSearchResponse{
		Products:    []*product.Formatted{},
		CurrentPage: page,
		PageSize:    pageSize,
	})
}

func (h *SearchHandlers) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, product.ErrStoreUnavailable) {
		WriteError(w, r.Context(), http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "Product store is temporarily unavailable")
		return
	}
	WriteError(w, r.Context(), http.StatusInternalServerError, ErrCodeInternal, "Search failed")
}

// first returns the first value for a query parameter, or "".
func first(q map[string][]string, key string) string {
	if vs := q[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}
