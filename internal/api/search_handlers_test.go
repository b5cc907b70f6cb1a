package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Edmund-Gan/mycosmetic2/internal/product"
	"github.com/Edmund-Gan/mycosmetic2/internal/search"
)

func decodeFlat(t *testing.T, body []byte) FlatSearchResponse {
	t.Helper()
	var resp FlatSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to parse flat search response: %v", err)
	}
	return resp
}

func flatNotifNos(resp FlatSearchResponse) []string {
	out := make([]string, 0, len(resp.Products))
	for _, p := range resp.Products {
		out = append(out, p.NotifNo)
	}
	return out
}

func TestSuggestions_ShortQueryReturnsEmpty(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/suggestions?query=ab")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp SuggestionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("expected no suggestions for short query, got %d", len(resp.Suggestions))
	}
	if resp.Suggestions == nil {
		t.Error("suggestions should be an empty list, not null")
	}
}

func TestSuggestions_RankedByFuzzySimilarity(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/suggestions?query=moisturizer")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp SuggestionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Suggestions) == 0 {
		t.Fatal("expected suggestions for moisturizer query")
	}

	// The direct name match ranks first
	if resp.Suggestions[0].NotifNo != "NOT230001" {
		t.Errorf("expected NOT230001 first, got %s", resp.Suggestions[0].NotifNo)
	}

	// Scores descend and never fall at or below the noise floor
	prev := 1.1
	for _, s := range resp.Suggestions {
		if s.Similarity <= 0.1 {
			t.Errorf("suggestion %s has similarity %v at or below floor", s.NotifNo, s.Similarity)
		}
		if s.Similarity > prev {
			t.Errorf("suggestions not in descending score order at %s", s.NotifNo)
		}
		prev = s.Similarity
	}

	if resp.Count != len(resp.Suggestions) {
		t.Errorf("count %d does not match list length %d", resp.Count, len(resp.Suggestions))
	}
}

func TestSuggestions_LimitParameter(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/suggestions?query=cream&limit=1")

	var resp SuggestionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Suggestions) > 1 {
		t.Errorf("expected at most 1 suggestion, got %d", len(resp.Suggestions))
	}
}

func TestSuggestions_LimitAboveDefaultIsHonored(t *testing.T) {
	products := seedProducts(t)
	h := NewSearchHandlers(products, search.DefaultSynonymTable(), product.NewFormatter(100), nil, 3, 1)

	// Two products match "cream"; a configured default of 1 must yield to
	// the larger client-requested limit.
	req := httptest.NewRequest(http.MethodGet, "/api/suggestions?query=cream&limit=3", nil)
	rr := httptest.NewRecorder()
	h.Suggestions(rr, req)

	var resp SuggestionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Suggestions) != 2 {
		t.Errorf("expected limit=3 to override the default of 1, got %d suggestions", len(resp.Suggestions))
	}

	// Absurd limits are capped, not rejected
	req = httptest.NewRequest(http.MethodGet, "/api/suggestions?query=cream&limit=5000", nil)
	rr = httptest.NewRecorder()
	h.Suggestions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for oversized limit, got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Suggestions) != 2 {
		t.Errorf("expected 2 suggestions with capped limit, got %d", len(resp.Suggestions))
	}
}

func TestSearch_FlatModeBilingualExpansion(t *testing.T) {
	mux := newTestMux(t)

	// "krim" is the Malay variant of cream; expansion matches both
	rr := doGet(t, mux, "/api/search?query=krim")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	resp := decodeFlat(t, rr.Body.Bytes())
	got := flatNotifNos(resp)
	want := []string{"NOT230002", "NOT230004"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if resp.Count != 2 {
		t.Errorf("expected count 2, got %d", resp.Count)
	}
}

func TestSearch_FlatModeEnrichment(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/search?query=whitening")

	resp := decodeFlat(t, rr.Body.Bytes())
	if len(resp.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(resp.Products))
	}

	p := resp.Products[0]
	if p.NotifNo != "NOT230002" {
		t.Fatalf("expected NOT230002, got %s", p.NotifNo)
	}
	if p.Manufacturer != "Fair Beauty Manufacturing" {
		t.Errorf("expected manufacturer, got %q", p.Manufacturer)
	}
	if len(p.HarmfulIngredients) != 2 {
		t.Errorf("expected 2 harmful ingredients, got %v", p.HarmfulIngredients)
	}
	if p.RiskLevel != "high" {
		t.Errorf("expected high risk level, got %q", p.RiskLevel)
	}
}

func TestSearch_FlatModeStatusFilter(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/search?query=cream&status=approved")

	resp := decodeFlat(t, rr.Body.Bytes())
	got := flatNotifNos(resp)
	if len(got) != 1 || got[0] != "NOT230004" {
		t.Errorf("expected [NOT230004], got %v", got)
	}
}

func TestSearch_FlatModeHarmfulExcludeFilter(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/search?query=cream&harmfulIngredients=exclude")

	resp := decodeFlat(t, rr.Body.Bytes())
	for _, p := range resp.Products {
		if len(p.HarmfulIngredients) > 0 {
			t.Errorf("product %s should have been excluded", p.NotifNo)
		}
	}
}

func TestSearch_FlatModeSortByScore(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/search?query=cream&sortBy=score&sortDir=desc")

	resp := decodeFlat(t, rr.Body.Bytes())
	got := flatNotifNos(resp)
	want := []string{"NOT230004", "NOT230002"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSearch_FlatModeSearchTypeNarrowing(t *testing.T) {
	mux := newTestMux(t)

	// "glow" hits NOT230001 by name and both Glow Labs products by
	// company; narrowing to product names keeps only the name match
	rr := doGet(t, mux, "/api/search?query=glow&searchType=product")

	resp := decodeFlat(t, rr.Body.Bytes())
	got := flatNotifNos(resp)
	if len(got) != 1 || got[0] != "NOT230001" {
		t.Errorf("expected [NOT230001], got %v", got)
	}
}

func TestSearch_ShortQueryEmptyEnvelope(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/search?query=ab")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	resp := decodeFlat(t, rr.Body.Bytes())
	if resp.Count != 0 || len(resp.Products) != 0 {
		t.Errorf("expected empty envelope, got count %d", resp.Count)
	}
}

func TestSearch_PagedMode(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/search?query=cream&page=1&pageSize=1")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp PagedSearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse paged response: %v", err)
	}

	if resp.TotalCount != 2 {
		t.Errorf("expected totalCount 2, got %d", resp.TotalCount)
	}
	if resp.TotalPages != 2 {
		t.Errorf("expected totalPages 2, got %d", resp.TotalPages)
	}
	if !resp.HasNext || resp.HasPrev {
		t.Errorf("expected hasNext=true hasPrev=false, got %v %v", resp.HasNext, resp.HasPrev)
	}
	if len(resp.Products) != 1 || resp.Products[0].NotifNo != "NOT230002" {
		t.Errorf("expected newest match NOT230002 on page 1, got %v", flatNotifNos(FlatSearchResponse{Products: resp.Products}))
	}
}

func TestSearch_PagedModeShortQuery(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/search?query=ab&page=3&pageSize=20")

	var resp PagedSearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse paged response: %v", err)
	}
	if resp.TotalCount != 0 || len(resp.Products) != 0 {
		t.Errorf("expected empty paged envelope, got %+v", resp)
	}
	if resp.CurrentPage != 3 || resp.PageSize != 20 {
		t.Errorf("expected requested page echoed back, got page %d size %d", resp.CurrentPage, resp.PageSize)
	}
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodPost, "/api/search?query=cream", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}
