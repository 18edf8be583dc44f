// internal/app/bootstrap/api.go
package bootstrap

import (
	"context"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectAPI fills the app's ConnectDB lifecycle slot. Instead of a
// database connection it builds the upstream API client and the
// in-memory session state store.
func ConnectAPI(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	api, err := apiclient.New(appCfg.APIBaseURL, appCfg.APITimeout, logger)
	if err != nil {
		return Deps{}, err
	}

	logger.Info("upstream API configured",
		zap.String("base_url", api.BaseURL()),
		zap.Duration("timeout", appCfg.APITimeout))

	return Deps{
		API:   api,
		State: state.NewStore(),
	}, nil
}

// EnsureSchema is a no-op: there is no local schema to set up.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	return nil
}
