// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ChapelHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: CHAPELHUB_API_BASE_URL, CHAPELHUB_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://127.0.0.1:5000", Desc: "Base URL of the congregation REST API"},
	{Name: "api_timeout", Default: "30s", Desc: "Per-request timeout for upstream API calls"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "chapelhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session lifetime (e.g., 24h, 8h)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789ABCD", Desc: "32-byte key for CSRF form tokens (must be strong in production)"},

	{Name: "site_name", Default: "ChapelHub", Desc: "Site display name"},
	{Name: "tagline", Default: "Congregation Management", Desc: "Site tagline shown under the name"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CHAPELHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CHAPELHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),
		APITimeout: appValues.Duration("api_timeout", 30*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		SiteName: appValues.String("site_name"),
		Tagline:  appValues.String("tagline"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// ChapelHub validates the API base URL format to catch configuration
// errors early, before the first upstream call.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		logger.Error("invalid api_base_url", zap.String("api_base_url", appCfg.APIBaseURL))
		return fmt.Errorf("api_base_url %q must be a URL with scheme and host", appCfg.APIBaseURL)
	}

	if appCfg.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive")
	}

	if coreCfg.Env == "prod" {
		if len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be at least 32 characters in production")
		}
		if len(appCfg.CSRFKey) < 32 {
			return fmt.Errorf("csrf_key must be at least 32 characters in production")
		}
	}

	return nil
}
