// internal/app/features/logout/logout.go
package logout

import (
	"net/http"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/editlog"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler signs users out.
type Handler struct {
	sessions *auth.SessionManager
	recorder *editlog.Recorder
	logger   *zap.Logger
}

// NewHandler creates a logout Handler. A nil recorder skips the auth event.
func NewHandler(sessions *auth.SessionManager, recorder *editlog.Recorder, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, recorder: recorder, logger: logger}
}

// Routes mounts POST / only, so a cross-site link cannot sign an admin out.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.handleLogout)
	return r
}

// handleLogout clears the session and returns to the page the user was
// reading; the handbook itself needs no sign-in. Without a session it only
// redirects.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.recorder.Logout(r, u.Email)
	}
	h.sessions.DestroySession(w, r)

	target := urlutil.SafeReturn(r.PostFormValue("return"), "", "/")
	if strings.HasPrefix(target, "/edit") {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
