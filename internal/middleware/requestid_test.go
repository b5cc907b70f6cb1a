package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func requestIDFor(t *testing.T, inbound string) (ctxID, headerID string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search?query=toner", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return ctxID, rr.Header().Get(RequestIDHeader)
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	ctxID, headerID := requestIDFor(t, "")
	if ctxID == "" {
		t.Error("expected a generated request ID in context")
	}
	if headerID != ctxID {
		t.Errorf("response header %q does not match context ID %q", headerID, ctxID)
	}
}

func TestRequestID_ReusesInboundID(t *testing.T) {
	ctxID, headerID := requestIDFor(t, "caller-supplied-id-123")
	if ctxID != "caller-supplied-id-123" {
		t.Errorf("context ID = %q, want the inbound value", ctxID)
	}
	if headerID != "caller-supplied-id-123" {
		t.Errorf("response header = %q, want the inbound value", headerID)
	}
}

func TestRequestID_ReplacesMalformedInboundID(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
	}{
		{"oversized", strings.Repeat("x", maxRequestIDLength+1)},
		{"control characters", "abc\ndef"},
		{"embedded space", "abc def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctxID, headerID := requestIDFor(t, tt.inbound)
			if ctxID == tt.inbound {
				t.Errorf("malformed inbound ID %q was reused", tt.inbound)
			}
			if ctxID == "" || headerID != ctxID {
				t.Errorf("expected a fresh ID in context and header, got %q / %q", ctxID, headerID)
			}
		})
	}
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("expected empty string, got %q", id)
	}
}
