// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is where
// everything specific to this application lives: the upstream API
// endpoint, session cookie settings, and site branding.
type AppConfig struct {
	// Upstream congregation API
	APIBaseURL string        // Base URL of the REST API (e.g., http://127.0.0.1:5000)
	APITimeout time.Duration // Per-request timeout for upstream calls

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: chapelhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a signed-in session lasts

	// CSRF protection
	CSRFKey string // 32-byte key for form token signing

	// Site branding
	SiteName string // Display name shown in the sidebar and page titles
	Tagline  string // Short description under the site name
}
