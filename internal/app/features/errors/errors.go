// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs request-scoped failures with the path, method and, when
// someone is signed in, their address.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger. A nil logger discards.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.LogWithFields(r, msg, err)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	base := []zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}
	if u, ok := auth.CurrentUser(r); ok {
		base = append(base, zap.String("user", u.Email))
	}
	e.logger.Error(msg, append(base, fields...)...)
}

// Handler renders error pages. Full-page requests get the page inside the
// handbook layout; htmx requests get a notice fragment for the swap target.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

type errorVM struct {
	viewdata.BaseVM
	Status int
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title, page string) {
	vm := errorVM{BaseVM: viewdata.New(r), Status: status}
	vm.Title = title

	w.WriteHeader(status)
	if r.Header.Get("HX-Request") == "true" {
		templates.RenderSnippet(w, "errors/fragment", vm)
		return
	}
	templates.Render(w, r, page, vm)
}

// Forbidden renders the 403 forbidden page.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, "접근 권한 없음", "errors/forbidden")
}

// Unauthorized renders the 401 unauthorized page.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusUnauthorized, "로그인 필요", "errors/unauthorized")
}

// NotFound renders the 404 not found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "페이지를 찾을 수 없음", "errors/not_found")
}

// InternalError renders the 500 internal server error page.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusInternalServerError, "서버 오류", "errors/internal")
}
