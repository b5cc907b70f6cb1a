package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

// stubChecker implements HealthChecker with a fixed result.
type stubChecker struct {
	err error
}

func (s *stubChecker) HealthCheck(ctx context.Context) error {
	return s.err
}

func TestHealth_Alive(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Status)
	}
	if resp.Checks["runtime"] != "ok" {
		t.Errorf("expected runtime ok, got %q", resp.Checks["runtime"])
	}
}

func TestReady_NoCheckers(t *testing.T) {
	mux := newTestMux(t)
	rr := doGet(t, mux, "/ready")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "ready" {
		t.Errorf("expected ready, got %q", resp.Status)
	}
}

func TestReady_DatabaseDown(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{
		DBChecker: &stubChecker{err: errors.New("connection refused")},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ready", h.Ready)

	rr := doGet(t, mux, "/ready")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "not_ready" {
		t.Errorf("expected not_ready, got %q", resp.Status)
	}
	if resp.Checks["database"] != "error" {
		t.Errorf("expected database error, got %q", resp.Checks["database"])
	}
}

func TestReady_RedisDownOnly(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{
		DBChecker:    &stubChecker{},
		RedisChecker: &stubChecker{err: errors.New("dial tcp: refused")},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ready", h.Ready)

	rr := doGet(t, mux, "/ready")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("expected database ok, got %q", resp.Checks["database"])
	}
	if resp.Checks["redis"] != "error" {
		t.Errorf("expected redis error, got %q", resp.Checks["redis"])
	}
}
