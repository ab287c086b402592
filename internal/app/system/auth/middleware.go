// internal/app/system/auth/middleware.go
package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
)

// RequireRole admits users holding one of allowed. Anonymous callers are
// sent to /login with a return path; signed-in callers without the role are
// sent to /forbidden. htmx requests get HX-Redirect so the whole page moves.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[normalize.Role(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				deny(w, r, "/login?return="+url.QueryEscape(r.URL.RequestURI()), http.StatusUnauthorized)
				return
			}
			if _, has := set[normalize.Role(u.Role)]; !has {
				deny(w, r, "/forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, target string, status int) {
	switch {
	case r.Header.Get("HX-Request") == "true":
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(status)
	case wantsHTML(r):
		http.Redirect(w, r, target, http.StatusSeeOther)
	default:
		http.Error(w, strings.ToLower(http.StatusText(status)), status)
	}
}

func wantsHTML(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" ||
		strings.Contains(r.Header.Get("Accept"), "text/html")
}
