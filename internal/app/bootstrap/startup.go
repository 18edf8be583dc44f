// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/chapelstack/chapelhub/internal/app/resources"
	"github.com/chapelstack/chapelhub/internal/app/system/timeouts"
	"github.com/chapelstack/chapelhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after backends are
// connected but before the HTTP handler is built. It loads the shared
// templates and applies site branding.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.Init(appCfg.SiteName, appCfg.Tagline)

	// The configured upstream timeout bounds the slowest operations
	// (PDF export streaming); the shorter tiers keep their defaults.
	timeouts.Configure(timeouts.Config{Long: appCfg.APITimeout})
	return nil
}
