// Package apicors provides CORS middleware for the public, read-only JSON
// endpoints (currently /api/search). These carry no cookies or credentials,
// so any origin may read them; the session-backed pages keep the stricter
// WAFFLE CORS settings.
package apicors

import (
	"net/http"
)

// Middleware returns CORS middleware that allows any origin to GET.
// Preflight OPTIONS requests are answered directly.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Accept, Content-Type")
			h.Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
