// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	sectionstore "github.com/dalemusser/stratahandbook/internal/app/store/sections"
	"github.com/dalemusser/stratahandbook/internal/app/system/jsonutil"
	"github.com/dalemusser/stratahandbook/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Content sources reported by Check.
const (
	contentStored      = "stored"  // sections come from Mongo
	contentCatalog     = "catalog" // built-in catalog fallback
	contentUnavailable = "unavailable"
)

// Handler answers health and probe requests.
type Handler struct {
	client   *mongo.Client
	sections *sectionstore.Store
	logger   *zap.Logger
}

// NewHandler creates a health Handler. With a nil sections store Check
// leaves out the content report.
func NewHandler(client *mongo.Client, sections *sectionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{client: client, sections: sections, logger: logger}
}

// Response is the body of GET /health.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
	// StoredSections is zero while the page is served from the catalog.
	StoredSections int64 `json:"stored_sections"`
}

// Routes mounts /, /ready and /live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the container probe paths to the root router.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

func (h *Handler) ping(ctx context.Context) error {
	return h.client.Ping(ctx, readpref.Primary())
}

// Check reports Mongo reachability and where page content comes from.
// Serving from the catalog alone is healthy; only a failed ping degrades.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.logger, "health ping")
	defer cancel()

	resp := Response{Status: "ok", Services: map[string]string{"mongodb": "ok"}}
	if err := h.ping(ctx); err != nil {
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Services["mongodb"] = "unavailable"
		resp.Services["content"] = contentCatalog
		jsonutil.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if h.sections != nil {
		n, err := h.sections.Count(ctx)
		resp.StoredSections = n
		switch {
		case err != nil:
			h.logger.Warn("health check: counting sections failed", zap.Error(err))
			resp.Services["content"] = contentUnavailable
		case n == 0:
			resp.Services["content"] = contentCatalog
		default:
			resp.Services["content"] = contentStored
		}
	}
	jsonutil.OK(w, resp)
}

// Ready fails while Mongo is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.logger, "readiness ping")
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live never touches the database.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
