// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "HANDBOOK"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, admin_emails, etc.
//   - Environment variables: HANDBOOK_MONGO_URI, HANDBOOK_ADMIN_EMAILS, etc.
//   - Command-line flags: --mongo_uri, --admin_emails, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratahandbook", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "stratahandbook-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public origin used for the OAuth callback"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Access control
	{Name: "allowed_domain", Default: "", Desc: "Restrict sign-in to this e-mail domain (blank allows any)"},
	{Name: "admin_emails", Default: "", Desc: "Comma-separated addresses that may edit the handbook"},

	// Edit logging
	{Name: "edit_log", Default: "all", Desc: "Edit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "auth_log", Default: "all", Desc: "Sign-in logging: 'all' or 'log' (zap), or 'off'"},
	{Name: "edit_log_retention", Default: "0", Desc: "Prune edit log entries older than this (e.g., 8760h); 0 keeps everything"},

	// Deadlines for database and Google calls
	{Name: "timeout_ping", Default: "2s", Desc: "Health check ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for section and edit log reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for saves and Google calls"},

	// Handbook behavior
	{Name: "site_name", Default: "온보딩 핸드북", Desc: "Site name shown in the page header"},
	{Name: "faq_section_id", Default: "faq", Desc: "Section listed when the search box is empty"},
	{Name: "search_limit", Default: 20, Desc: "Maximum search results"},
	{Name: "max_content_length", Default: 20000, Desc: "Maximum characters per subsection (0 disables)"},
	{Name: "timezone", Default: "Asia/Seoul", Desc: "IANA time zone for the archive calendar and edit log"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HANDBOOK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),
		BaseURL: strings.TrimRight(appValues.String("base_url"), "/"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		// Access control
		AllowedDomain: normalize.Domain(appValues.String("allowed_domain")),
		AdminEmails:   parseEmailList(appValues.String("admin_emails")),

		// Edit logging
		EditLog:          appValues.String("edit_log"),
		AuthLog:          appValues.String("auth_log"),
		EditLogRetention: appValues.Duration("edit_log_retention", 0),

		TimeoutPing:   appValues.Duration("timeout_ping", 2*time.Second),
		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),

		// Handbook behavior
		SiteName:         appValues.String("site_name"),
		FAQSectionID:     appValues.String("faq_section_id"),
		SearchLimit:      appValues.Int("search_limit"),
		MaxContentLength: appValues.Int("max_content_length"),
		Timezone:         appValues.String("timezone"),
	}

	return coreCfg, appCfg, nil
}

// parseEmailList normalizes a comma- or newline-separated address list.
func parseEmailList(raw string) []string {
	return normalize.List(normalize.Email(raw))
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if err := validateDomain(appCfg.AllowedDomain); err != nil {
		logger.Error("invalid allowed_domain", zap.String("allowed_domain", appCfg.AllowedDomain), zap.Error(err))
		return err
	}

	if appCfg.AllowedDomain != "" {
		for _, e := range appCfg.AdminEmails {
			if !strings.HasSuffix(e, "@"+appCfg.AllowedDomain) {
				logger.Warn("admin address is outside allowed_domain and can never sign in",
					zap.String("email", e))
			}
		}
	}
	if len(appCfg.AdminEmails) == 0 {
		logger.Warn("admin_emails is empty; nobody can edit the handbook")
	}

	switch appCfg.EditLog {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("edit_log must be one of all, db, log, off (got %q)", appCfg.EditLog)
	}

	if _, err := loadLocation(appCfg.Timezone); err != nil {
		logger.Error("invalid timezone", zap.String("timezone", appCfg.Timezone), zap.Error(err))
		return err
	}

	if appCfg.SearchLimit < 0 || appCfg.MaxContentLength < 0 {
		return fmt.Errorf("search_limit and max_content_length must not be negative")
	}
	if appCfg.EditLogRetention < 0 {
		return fmt.Errorf("edit_log_retention must not be negative (got %s)", appCfg.EditLogRetention)
	}

	return nil
}

// validateDomain accepts an empty value or a bare domain such as
// "example.com". Addresses, schemes and paths are rejected.
func validateDomain(d string) error {
	if d == "" {
		return nil
	}
	if strings.ContainsAny(d, "@/: ") || !strings.Contains(d, ".") ||
		strings.HasPrefix(d, ".") || strings.HasSuffix(d, ".") {
		return fmt.Errorf("allowed_domain must be a bare domain like example.com (got %q)", d)
	}
	return nil
}

// loadLocation resolves an IANA zone name; blank means UTC.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
