// internal/app/system/auth/session.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Cookie values. Role is stored for display only; LoadSessionUser re-derives
// it from the address on every request.
const (
	keySignedIn = "signed_in"
	keyEmail    = "email"
	keyName     = "name"
	keyRole     = "role"
)

const defaultSessionName = "stratahandbook-session"

// SessionConfigError is returned when the session key cannot be used.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string { return e.Message }

// SessionManager owns the signed cookie that carries the signed-in user.
type SessionManager struct {
	store  *sessions.CookieStore
	logger *zap.Logger
	name   string
	roles  RoleResolver
}

// NewSessionManager builds the cookie store. With secure set (production)
// a short or placeholder key is an error; in dev it is only a warning.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide ≥32 random chars"}
	}
	if weakKey(sessionKey) {
		if secure {
			return nil, &SessionConfigError{
				Message: "session key is too weak for production; provide ≥32 random chars (not the default dev key)",
			}
		}
		logger.Warn("session key is weak; 32+ random chars required in production",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = defaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode, // the OAuth callback is a top-level GET
	}

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name),
		zap.String("domain", domain))

	return &SessionManager{store: store, logger: logger, name: name}, nil
}

// SetRoleResolver installs the resolver LoadSessionUser applies per request,
// so edits to admin_emails take effect without a new sign-in.
func (sm *SessionManager) SetRoleResolver(rr RoleResolver) {
	sm.roles = rr
}

// CreateSession signs u in on the response cookie.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Values[keySignedIn] = true
	sess.Values[keyEmail] = normalize.Email(u.Email)
	sess.Values[keyName] = u.Name
	sess.Values[keyRole] = u.Role
	return sess.Save(r, w)
}

// DestroySession clears the user and expires the cookie.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}
	clearUser(sess)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// LoadSessionUser puts the cookie's user in the request context. A user the
// resolver no longer accepts is signed out and the request continues
// anonymously.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			sm.logSessionError(r, err)
		}

		if signedIn, _ := sess.Values[keySignedIn].(bool); signedIn {
			u := &SessionUser{
				Email: sessionString(sess, keyEmail),
				Name:  sessionString(sess, keyName),
				Role:  sessionString(sess, keyRole),
			}
			if sm.roles != nil && u.Email != "" {
				u.Role = sm.roles(u.Email)
			}
			if u.Email == "" || u.Role == "" {
				sm.logger.Info("session invalidated: user no longer allowed",
					zap.String("user", u.Email),
					zap.String("path", r.URL.Path))
				clearUser(sess)
				_ = sess.Save(r, w)
			} else {
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) logSessionError(r *http.Request, err error) {
	kind := classifySessionError(err)
	fields := []zap.Field{zap.String("category", kind), zap.String("path", r.URL.Path)}
	switch kind {
	case "expired":
		sm.logger.Debug("session expired, starting fresh session", fields...)
	case "mac_invalid":
		sm.logger.Warn("session MAC validation failed (possible tampering)",
			append(fields, zap.String("remote_addr", r.RemoteAddr))...)
	case "backend":
		sm.logger.Error("session store error, starting fresh session", append(fields, zap.Error(err))...)
	default:
		sm.logger.Info("session decode failed, starting fresh session", fields...)
	}
}

// classifySessionError names a cookie failure for the log: expired,
// mac_invalid, decrypt_failed, decode_failed or backend.
func classifySessionError(err error) string {
	var sc securecookie.Error
	if !errors.As(err, &sc) || !sc.IsDecode() {
		return "backend"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired timestamp"):
		return "expired"
	case strings.Contains(msg, "not valid"), strings.Contains(msg, "mac"):
		return "mac_invalid"
	case strings.Contains(msg, "decrypt"):
		return "decrypt_failed"
	default:
		return "decode_failed"
	}
}

// weakKey flags keys under 32 bytes or ones that look like a placeholder.
func weakKey(key string) bool {
	if len(key) < 32 {
		return true
	}
	lower := strings.ToLower(key)
	for _, p := range []string{"dev-only", "change-me", "placeholder", "default", "example", "insecure", "test-key", "password"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func clearUser(sess *sessions.Session) {
	sess.Values[keySignedIn] = false
	delete(sess.Values, keyEmail)
	delete(sess.Values, keyName)
	delete(sess.Values, keyRole)
}

func sessionString(s *sessions.Session, key string) string {
	v, _ := s.Values[key].(string)
	return v
}

type ctxKey struct{}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(ctxKey{}).(*SessionUser)
	return u, ok
}

// WithTestUser injects a SessionUser into the request context for testing.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}
