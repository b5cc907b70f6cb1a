package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// The server wires RequestID outside CORS, so every response carries a
// request ID whether the origin check passes or not.
func TestCORS_WithRequestIDStack(t *testing.T) {
	stack := RequestID(CORS(CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxAge:         300,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})))

	t.Run("preflight carries request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/suggestions", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rr := httptest.NewRecorder()
		stack.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Errorf("expected status 204, got %d", rr.Code)
		}
		if v := rr.Header().Get("Access-Control-Allow-Origin"); v != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q", v)
		}
		if rr.Header().Get(RequestIDHeader) == "" {
			t.Error("expected X-Request-ID on preflight response")
		}
	})

	t.Run("allowed cross-origin request reaches handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/suggestions?query=toner", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rr := httptest.NewRecorder()
		stack.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}
		if body := rr.Body.String(); body != "OK" {
			t.Errorf("expected body OK, got %q", body)
		}
		if rr.Header().Get(RequestIDHeader) == "" {
			t.Error("expected X-Request-ID header")
		}
	})

	t.Run("rejected origin still gets request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/suggestions?query=toner", nil)
		req.Header.Set("Origin", "http://malicious.example")
		rr := httptest.NewRecorder()
		stack.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", rr.Code)
		}
		if rr.Header().Get(RequestIDHeader) == "" {
			t.Error("expected X-Request-ID even on rejected requests")
		}
		if v := rr.Header().Get("Access-Control-Allow-Origin"); v != "" {
			t.Errorf("expected no CORS headers for rejected origin, got %s", v)
		}
	})
}
