// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/chapelstack/chapelhub/internal/apiclient"
	"github.com/chapelstack/chapelhub/internal/app/state"
)

// Deps holds back-end dependencies for the app. There is no local
// database; all records live behind the congregation REST API. State is
// the per-session UI state store.
type Deps struct {
	API   *apiclient.Client
	State *state.Store
}
