// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, timeouts); AppConfig
// covers the handbook itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Public origin, used for the OAuth callback URL.
	BaseURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Access control
	AllowedDomain string   // Only addresses in this domain may sign in (blank allows any)
	AdminEmails   []string // Addresses that may edit the handbook

	// Edit logging
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	EditLog          string
	AuthLog          string        // Sign-in and sign-out events (zap only)
	EditLogRetention time.Duration // Prune entries older than this (0 keeps everything)

	// Request-scoped deadlines (see system/timeouts)
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// Handbook behavior
	SiteName         string
	FAQSectionID     string         // Section listed for an empty search
	SearchLimit      int            // Maximum scored search results
	MaxContentLength int            // Maximum characters per subsection (0 disables)
	Timezone         string         // IANA zone for the archive calendar and edit log times
}
