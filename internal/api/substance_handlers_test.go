package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestSubstances_List(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/substances")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp SubstanceListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if len(resp.Substances) != 2 {
		t.Fatalf("expected 2 substances, got %d", len(resp.Substances))
	}

	// Risk tier ordering: HIGH before MEDIUM
	if resp.Substances[0].Substance != "Mercury" {
		t.Errorf("expected Mercury first, got %s", resp.Substances[0].Substance)
	}
	if resp.Substances[1].Substance != "Hydroquinone" {
		t.Errorf("expected Hydroquinone second, got %s", resp.Substances[1].Substance)
	}
}

func TestSubstances_ForCancelledProduct(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/substances/product/NOT230002")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp SubstanceListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("expected 2 substances, got %d", resp.Count)
	}
}

func TestSubstances_ForApprovedProductEmpty(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/api/substances/product/NOT230001")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp SubstanceListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Substances) != 0 {
		t.Errorf("expected empty list for approved product, got %d", len(resp.Substances))
	}
	if resp.Substances == nil {
		t.Error("substances should be an empty list, not null")
	}
}
