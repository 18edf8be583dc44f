// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/chapelstack/chapelhub/internal/app/features/accounts"
	attendancefeature "github.com/chapelstack/chapelhub/internal/app/features/attendance"
	dashboardfeature "github.com/chapelstack/chapelhub/internal/app/features/dashboard"
	errorsfeature "github.com/chapelstack/chapelhub/internal/app/features/errors"
	healthfeature "github.com/chapelstack/chapelhub/internal/app/features/health"
	homefeature "github.com/chapelstack/chapelhub/internal/app/features/home"
	loginfeature "github.com/chapelstack/chapelhub/internal/app/features/login"
	logoutfeature "github.com/chapelstack/chapelhub/internal/app/features/logout"
	membersfeature "github.com/chapelstack/chapelhub/internal/app/features/members"
	paymentsfeature "github.com/chapelstack/chapelhub/internal/app/features/payments"
	projectsfeature "github.com/chapelstack/chapelhub/internal/app/features/projects"
	usersfeature "github.com/chapelstack/chapelhub/internal/app/features/users"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, backend connections, and any
// Startup hooks have completed. ChapelHub initializes the template
// engine, applies session and CSRF middleware, and mounts feature
// routers for every view: home, login, dashboard, attendance, payments,
// accounts, members, users, and projects.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Every form in the app posts a signed token.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.API, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.API, deps.State, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, deps.State, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-gated views
	dashboardHandler := dashboardfeature.NewHandler(deps.API, deps.State, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	attendanceHandler := attendancefeature.NewHandler(deps.API, deps.State, errLog, logger)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))

	paymentsHandler := paymentsfeature.NewHandler(deps.API, deps.State, errLog, logger)
	r.Mount("/payments", paymentsfeature.Routes(paymentsHandler, sessionMgr))

	accountsHandler := accountsfeature.NewHandler(deps.API, deps.State, logger)
	r.Mount("/accounts", accountsfeature.Routes(accountsHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(deps.API, deps.State, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(deps.API, deps.State, errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	projectsHandler := projectsfeature.NewHandler(deps.API, deps.State, errLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	return r, nil
}
