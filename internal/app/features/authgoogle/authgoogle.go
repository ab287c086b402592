// internal/app/features/authgoogle/authgoogle.go
package authgoogle

import (
	"context"
	"encoding/base64"
	"errors"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	errorsfeature "github.com/dalemusser/stratahandbook/internal/app/features/errors"
	"github.com/dalemusser/stratahandbook/internal/app/store/oauthstate"
	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/editlog"
	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
	"github.com/dalemusser/stratahandbook/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// profileURL is Google's OAuth2 userinfo endpoint.
const profileURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Config is the OAuth client registration.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // public origin; the callback is BaseURL + /auth/google/callback
	Domain       string // Workspace domain allowed to sign in; empty allows any
}

// Handler runs the Google sign-in round trip.
type Handler struct {
	sessionMgr *auth.SessionManager
	roles      auth.RoleResolver
	states     *oauthstate.Store
	recorder   *editlog.Recorder
	errLog     *errorsfeature.ErrorLogger
	oauth      *oauth2.Config
	domain     string
	profileURL string
	logger     *zap.Logger
}

func NewHandler(
	cfg Config,
	sessionMgr *auth.SessionManager,
	roles auth.RoleResolver,
	states *oauthstate.Store,
	recorder *editlog.Recorder,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sessionMgr: sessionMgr,
		roles:      roles,
		states:     states,
		recorder:   recorder,
		errLog:     errLog,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		domain:     cfg.Domain,
		profileURL: profileURL,
		logger:     logger,
	}
}

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.startAuth)
	r.Get("/callback", h.handleCallback)
	return r
}

// fail sends the browser back to the login page with an error code the
// login feature knows how to word.
func fail(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// startAuth stores a one-time state with the return path and sends the
// browser to Google. hd only narrows the account chooser; finishLogin checks
// the domain again.
func (h *Handler) startAuth(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err == nil {
		err = h.states.Create(r.Context(), state, urlutil.SafeReturn(query.Get(r, "return"), "", "/"))
	}
	if err != nil {
		h.errLog.Log(r, "could not start google sign-in", err)
		fail(w, r, "oauth_error")
		return
	}

	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "select_account")}
	if h.domain != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", h.domain))
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state, opts...), http.StatusTemporaryRedirect)
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	returnTo, ok := h.states.Consume(r.Context(), q.Get("state"))
	if !ok {
		h.logger.Warn("google callback with unknown or used state")
		fail(w, r, "invalid_state")
		return
	}

	if code := q.Get("error"); code != "" {
		h.recorder.LoginDenied(r, "", "google:"+code)
		fail(w, r, code)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		h.errLog.Log(r, "google code exchange failed", err)
		fail(w, r, "token_exchange_failed")
		return
	}

	p, err := h.fetchProfile(r.Context(), token)
	if err != nil {
		h.errLog.Log(r, "google profile fetch failed", err)
		fail(w, r, "userinfo_failed")
		return
	}

	h.finishLogin(w, r, p, returnTo)
}

// finishLogin turns a Google profile into a session. The address must be
// verified, inside the configured domain, and resolve to a role.
func (h *Handler) finishLogin(w http.ResponseWriter, r *http.Request, p *Profile, returnTo string) {
	email := normalize.Email(p.Email)

	reason := ""
	role := ""
	switch {
	case email == "" || !p.VerifiedEmail:
		reason = "unverified"
	case h.domain != "" && !auth.InDomain(email, h.domain):
		reason = "domain"
	default:
		if role = h.roles(email); role == "" {
			reason = "not_allowed"
		}
	}
	if reason != "" {
		h.recorder.LoginDenied(r, email, reason)
		fail(w, r, reason)
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, auth.SessionUser{Email: email, Name: p.Name, Role: role}); err != nil {
		h.errLog.Log(r, "session could not be saved", err)
		fail(w, r, "session_error")
		return
	}
	h.recorder.LoginSuccess(r, email)
	http.Redirect(w, r, urlutil.SafeReturn(returnTo, "", "/"), http.StatusSeeOther)
}

// Profile is the subset of the userinfo response the handbook reads.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	HostedDomain  string `json:"hd"`
}

func (h *Handler) fetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := h.oauth.Client(ctx, token)

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), h.logger, "google userinfo")
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.profileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	return &p, nil
}

// newState returns 32 random bytes, URL-safe encoded.
func newState() (string, error) {
	b := securecookie.GenerateRandomKey(32)
	if b == nil {
		return "", errors.New("oauth state: no randomness available")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
