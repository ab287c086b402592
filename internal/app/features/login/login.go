// internal/app/features/login/login.go
package login

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratahandbook/internal/app/features/errors"
	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/editlog"
	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
	"github.com/dalemusser/stratahandbook/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// errorMessages maps ?error= codes set by the Google callback to messages.
var errorMessages = map[string]string{
	"domain":        "회사 Google 계정으로만 로그인할 수 있습니다.",
	"not_allowed":   "이 계정은 핸드북에 로그인할 수 없습니다.",
	"unverified":    "이메일 인증이 완료된 Google 계정이 필요합니다.",
	"invalid_state": "로그인 요청이 만료되었습니다. 다시 시도해 주세요.",
	"access_denied": "Google 로그인이 취소되었습니다.",
	"oauth_error":   "로그인을 시작하지 못했습니다. 잠시 후 다시 시도해 주세요.",
}

const genericError = "로그인하지 못했습니다. 잠시 후 다시 시도해 주세요."

// Handler provides login handlers.
type Handler struct {
	sessionMgr        *auth.SessionManager
	roles             auth.RoleResolver
	recorder          *editlog.Recorder
	errLog            *errorsfeature.ErrorLogger
	domain            string
	googleEnabled     bool
	trustLoginEnabled bool // Only enable in dev mode for security
	logger            *zap.Logger
}

// Options configures the login page.
type Options struct {
	// Domain is the Google Workspace domain shown on the page.
	Domain string
	// GoogleEnabled shows the Google sign-in button.
	GoogleEnabled bool
	// TrustLoginEnabled mounts the password-less dev form. Never set it in production.
	TrustLoginEnabled bool
}

// NewHandler creates a new login Handler.
func NewHandler(
	sessionMgr *auth.SessionManager,
	roles auth.RoleResolver,
	recorder *editlog.Recorder,
	errLog *errorsfeature.ErrorLogger,
	opts Options,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		sessionMgr:        sessionMgr,
		roles:             roles,
		recorder:          recorder,
		errLog:            errLog,
		domain:            opts.Domain,
		googleEnabled:     opts.GoogleEnabled,
		trustLoginEnabled: opts.TrustLoginEnabled,
		logger:            logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	Domain        string
	GoogleEnabled bool
	TrustEnabled  bool
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.showLogin)

	// Trust auth - only enable in development mode for security
	if h.trustLoginEnabled {
		r.Post("/trust", h.handleTrustLogin)
	}

	return r
}

func (h *Handler) vm(r *http.Request, returnURL string) LoginVM {
	vm := LoginVM{
		BaseVM:        viewdata.New(r),
		ReturnURL:     urlutil.SafeReturn(returnURL, "", "/"),
		Domain:        h.domain,
		GoogleEnabled: h.googleEnabled,
		TrustEnabled:  h.trustLoginEnabled,
	}
	vm.Title = "관리자 로그인"
	return vm
}

// showLogin displays the sign-in choices. Signed-in users go straight back.
func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	returnURL := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
		return
	}

	vm := h.vm(r, returnURL)
	if code := query.Get(r, "error"); code != "" {
		vm.Error = errorMessages[code]
		if vm.Error == "" {
			vm.Error = genericError
		}
	}
	templates.Render(w, r, "login/login", vm)
}

// handleTrustLogin signs in by e-mail alone (development only). The address
// still goes through the role resolver, so the domain rule and admin list
// apply exactly as they do for Google sign-in.
func (h *Handler) handleTrustLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := normalize.Email(r.FormValue("email"))
	returnURL := r.FormValue("return")

	role := ""
	if email != "" {
		role = h.roles(email)
	}
	if role == "" {
		h.recorder.LoginDenied(r, email, "not_allowed")
		vm := h.vm(r, returnURL)
		vm.Email = email
		vm.Error = errorMessages["not_allowed"]
		w.WriteHeader(http.StatusForbidden)
		templates.Render(w, r, "login/login", vm)
		return
	}

	u := auth.SessionUser{Email: email, Name: email, Role: role}
	if err := h.sessionMgr.CreateSession(w, r, u); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.recorder.LoginSuccess(r, email)
	h.logger.Debug("trust login", zap.String("email", email), zap.String("role", role))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}
