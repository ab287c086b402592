// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	authgooglefeature "github.com/dalemusser/stratahandbook/internal/app/features/authgoogle"
	editlogfeature "github.com/dalemusser/stratahandbook/internal/app/features/editlog"
	errorsfeature "github.com/dalemusser/stratahandbook/internal/app/features/errors"
	"github.com/dalemusser/stratahandbook/internal/app/features/handbook"
	healthfeature "github.com/dalemusser/stratahandbook/internal/app/features/health"
	loginfeature "github.com/dalemusser/stratahandbook/internal/app/features/login"
	logoutfeature "github.com/dalemusser/stratahandbook/internal/app/features/logout"
	appresources "github.com/dalemusser/stratahandbook/internal/app/resources"
	"github.com/dalemusser/stratahandbook/internal/app/store/edits"
	"github.com/dalemusser/stratahandbook/internal/app/store/oauthstate"
	sectionstore "github.com/dalemusser/stratahandbook/internal/app/store/sections"
	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/editlog"
	"github.com/dalemusser/stratahandbook/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// devOrigins are trusted for CSRF checks when cookies are not secure.
var devOrigins = []string{"localhost:8080", "localhost:3000", "127.0.0.1:8080", "127.0.0.1:3000"}

// BuildHandler wires the router. Public: the handbook page, search, login and
// health. Admin: everything under /edit, including the edit log.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	loc, err := loadLocation(appCfg.Timezone)
	if err != nil {
		return nil, err
	}

	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		return nil, fmt.Errorf("sessions: %w", err)
	}
	roles := auth.AdminList(appCfg.AdminEmails, appCfg.AllowedDomain)
	sessionMgr.SetRoleResolver(roles)

	// Dev mode re-reads templates on every render.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	templates.UseEngine(eng, logger)
	viewdata.Init(appCfg.SiteName)

	errLog := errorsfeature.NewErrorLogger(logger)
	errPages := errorsfeature.NewHandler()
	sectionStore := sectionstore.New(deps.MongoDatabase)
	editStore := edits.New(deps.MongoDatabase)
	recorder := editlog.New(editStore, logger, editlog.Config{Edits: appCfg.EditLog, Auth: appCfg.AuthLog})

	r := chi.NewRouter()
	r.Use(
		chimw.Recoverer,
		chimw.Timeout(30*time.Second),
		middleware.CORSFromConfig(coreCfg),
		middleware.SecurityHeadersFromConfig(coreCfg),
		sessionMgr.LoadSessionUser,
		csrfProtect(appCfg, secure, logger),
	)

	health := healthfeature.NewHandler(deps.MongoClient, sectionStore, logger)
	r.Mount("/health", healthfeature.Routes(health))
	healthfeature.MountRootEndpoints(r, health)

	// /static holds hero images and videos on disk. code.css is generated
	// from the chroma style, so it is matched before the embedded tree.
	r.Handle("/static/*", fileserver.Handler("/static", "static"))
	r.Handle("/assets/css/code.css", appresources.CodeCSSHandler())
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	mountSignIn(r, coreCfg, appCfg, deps, sessionMgr, roles, recorder, errLog, logger)

	r.Get("/forbidden", errPages.Forbidden)
	r.Get("/unauthorized", errPages.Unauthorized)

	r.Mount("/edit/log", editlogfeature.Routes(editlogfeature.NewHandler(editStore, loc, errLog, logger), sessionMgr))

	svc := handbook.NewService(sectionStore, recorder, logger, appCfg.FAQSectionID)
	book := handbook.NewHandler(svc, handbook.Config{
		SearchLimit:      appCfg.SearchLimit,
		MaxContentLength: appCfg.MaxContentLength,
		Location:         loc,
	}, errLog, logger)
	r.Mount("/", handbook.Routes(book, sessionMgr))

	r.NotFound(errPages.NotFound)
	return r, nil
}

// csrfProtect guards every unsafe method. htmx sends the token in the
// X-CSRF-Token header set by the layout; a failed htmx request is told to
// refresh so the page picks up a new token.
func csrfProtect(appCfg AppConfig, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("stratahandbook_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()))
			if req.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Refresh", "true")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			http.Error(w, "요청이 만료되었습니다. 페이지를 새로 고친 뒤 다시 시도해 주세요.", http.StatusForbidden)
		})),
	}
	if !secure {
		opts = append(opts, csrf.TrustedOrigins(devOrigins))
	}
	if appCfg.SessionDomain != "" {
		opts = append(opts, csrf.Domain(appCfg.SessionDomain))
	}
	return csrf.Protect([]byte(appCfg.CSRFKey), opts...)
}

// mountSignIn adds /login, /logout and, when credentials are configured,
// /auth/google. The passwordless trust form exists only in dev.
func mountSignIn(r chi.Router, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps,
	sessionMgr *auth.SessionManager, roles auth.RoleResolver, recorder *editlog.Recorder,
	errLog *errorsfeature.ErrorLogger, logger *zap.Logger) {

	google := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	login := loginfeature.NewHandler(sessionMgr, roles, recorder, errLog, loginfeature.Options{
		Domain:            appCfg.AllowedDomain,
		GoogleEnabled:     google,
		TrustLoginEnabled: coreCfg.Env == "dev",
	}, logger)
	r.Mount("/login", loginfeature.Routes(login))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, recorder, logger)))

	if !google {
		logger.Warn("google sign-in is not configured; only the dev trust form can sign in")
		return
	}
	gh := authgooglefeature.NewHandler(
		authgooglefeature.Config{
			ClientID:     appCfg.GoogleClientID,
			ClientSecret: appCfg.GoogleClientSecret,
			BaseURL:      appCfg.BaseURL,
			Domain:       appCfg.AllowedDomain,
		},
		sessionMgr,
		roles,
		oauthstate.New(deps.MongoDatabase),
		recorder,
		errLog,
		logger,
	)
	r.Mount("/auth/google", authgooglefeature.Routes(gh))
	logger.Info("google sign-in enabled",
		zap.String("callback", appCfg.BaseURL+"/auth/google/callback"),
		zap.String("allowed_domain", appCfg.AllowedDomain))
}
