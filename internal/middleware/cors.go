// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// The API is a read-only public lookup surface, so the default CORS
// policy admits only safe methods and the headers the client actually
// sends. There is no auth header to allow.
var (
	defaultCORSMethods = []string{http.MethodGet, http.MethodOptions}
	defaultCORSHeaders = []string{"Content-Type", RequestIDHeader}
)

// CORSConfig holds the configuration for the CORS middleware.
// Zero-value methods and headers fall back to the read-only defaults.
type CORSConfig struct {
	AllowedOrigins   []string // explicit origin allowlist, no wildcards
	AllowedMethods   []string // defaults to GET, OPTIONS
	AllowedHeaders   []string // defaults to Content-Type, X-Request-ID
	AllowCredentials bool
	MaxAge           int // preflight cache duration in seconds
}

// CORS returns a middleware enforcing strict origin validation. With no
// origins configured the middleware is a no-op, which is how development
// runs same-origin. Cross-origin requests from unlisted origins are
// rejected with 403; preflight OPTIONS requests are answered directly and
// never reach the handler.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = struct{}{}
		}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	methodList := strings.Join(methods, ", ")
	headerList := strings.Join(headers, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(origins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// No Origin header means same-origin; nothing to negotiate.
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := origins[origin]; !ok {
				http.Error(w, "Origin not allowed", http.StatusForbidden)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", methodList)
				h.Set("Access-Control-Allow-Headers", headerList)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
