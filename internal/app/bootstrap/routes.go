// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	carsfeature "github.com/dalemusser/repairhub/internal/app/features/cars"
	dashboardfeature "github.com/dalemusser/repairhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/repairhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/repairhub/internal/app/features/health"
	homefeature "github.com/dalemusser/repairhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/repairhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/repairhub/internal/app/features/logout"
	repairsfeature "github.com/dalemusser/repairhub/internal/app/features/repairs"
	carstore "github.com/dalemusser/repairhub/internal/app/store/cars"
	repairstore "github.com/dalemusser/repairhub/internal/app/store/repairs"
	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/metrics"
	"github.com/dalemusser/repairhub/internal/app/system/ranges"
	"github.com/dalemusser/repairhub/internal/app/system/ratelimit"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// RepairHub initializes the template engine, applies session middleware,
// and mounts the feature routers: home, login, logout, the admin dashboard,
// and the user area (cars and their repairs). The user area is mounted twice:
// at "/cars" for the signed-in user and under "/admin/{userID}" for an
// administrator browsing as that user.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	maxAge := appCfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, maxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Refresh the session user from the database on every request so role
	// changes and deleted accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	users := userstore.New(deps.MongoDatabase)
	cars := carstore.New(deps.MongoDatabase)
	repairs := repairstore.New(deps.MongoDatabase)

	loc, err := loadLocation(appCfg.Timezone)
	if err != nil {
		return nil, err
	}
	catalog := ranges.NewCatalog(ranges.WithLocation(loc))

	r := chi.NewRouter()

	var m *metrics.Metrics
	if appCfg.MetricsEnabled {
		m = metrics.New(metrics.DefaultConfig())
		r.Use(m.Middleware)
	}

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.Get("/forbidden", errorsHandler.Forbidden)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, errLog, logger)
	loginHandler.Limiter = ratelimit.NewLoginLimiter()
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// User area: cars and their repairs.
	carsHandler := carsfeature.NewHandler(cars, users, errLog, logger)
	repairsHandler := repairsfeature.NewHandler(cars, repairs, users, repairsfeature.Options{
		PageSize:  appCfg.RepairsPageSize,
		PageLinks: appCfg.PageLinkWindow,
		Shop:      models.DefaultShopInfo,
	}, errLog, logger)
	userArea := func() chi.Router {
		ur := chi.NewRouter()
		ur.Mount("/cars", carsfeature.Routes(carsHandler, repairsfeature.Routes(repairsHandler)))
		return ur
	}

	r.Group(func(pr chi.Router) {
		pr.Use(sessionMgr.RequireSignedIn)
		pr.Mount("/cars", carsfeature.Routes(carsHandler, repairsfeature.Routes(repairsHandler)))
	})

	// Admin dashboard, plus browse-as-user under /admin/{userID}.
	dashboardHandler := dashboardfeature.NewHandler(users, repairs, catalog, dashboardfeature.Options{
		PageSize:  appCfg.DashboardPageSize,
		PageLinks: appCfg.PageLinkWindow,
		Metrics:   m,
	}, errLog, logger)
	r.Mount("/admin", dashboardfeature.Routes(dashboardHandler, sessionMgr, userArea()))

	return r, nil
}
