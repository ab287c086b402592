package testutil

import (
	"context"
	"net/http"
)

// gorilla/csrf reads the request token from this context key.
const csrfContextKey = "gorilla.csrf.Token"

// TestCSRFToken is the token WithCSRFToken places in the request.
const TestCSRFToken = "handbook-test-token"

// WithCSRFToken lets handlers that call csrf.Token render forms without the
// csrf middleware in front of them.
func WithCSRFToken(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), csrfContextKey, TestCSRFToken))
}
