// internal/app/features/handbook/handler.go
package handbook

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/stratahandbook/internal/app/features/errors"
	"github.com/dalemusser/stratahandbook/internal/app/system/apicors"
	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Config holds handbook page and editor settings.
type Config struct {
	// SearchLimit caps scored search results.
	SearchLimit int
	// MaxContentLength caps the total characters of one subsection's blocks.
	// Zero disables the check.
	MaxContentLength int
	// Location is used for the archive calendar and edit times.
	Location *time.Location
}

// Handler serves the handbook page, search and the admin editor.
type Handler struct {
	svc    *Service
	cfg    Config
	errs   *errorsfeature.Handler
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new handbook Handler.
func NewHandler(
	svc *Service,
	cfg Config,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Handler{
		svc:    svc,
		cfg:    cfg,
		errs:   errorsfeature.NewHandler(),
		errLog: errLog,
		logger: logger,
		now:    time.Now,
	}
}

// Routes returns a chi.Router with the handbook mounted. The page and search
// are public; everything under /edit requires the admin role.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.page)
	r.Get("/search", h.searchSnippet)
	r.Route("/api", func(r chi.Router) {
		r.Use(apicors.Middleware())
		r.Get("/search", h.searchJSON)
	})

	r.Route("/edit", func(r chi.Router) {
		r.Use(sessionMgr.RequireRole(auth.RoleAdmin))

		r.Post("/preview", h.preview)
		r.Post("/block", h.newBlock)
		r.Post("/table", h.tableOp)
		r.Post("/keys", h.listKeys)

		r.Get("/{section}/new", h.showNew)
		r.Get("/{section}/{sub}", h.showEdit)
		r.Post("/{section}/{sub}", h.save)
		r.Post("/{section}/{sub}/delete", h.delete)
	})

	return r
}

// actor builds the editing identity from the request's viewer.
func actor(r *http.Request) Actor {
	v := authz.From(r)
	return Actor{Email: v.Email, Admin: v.CanEdit()}
}
