// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/inputval"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for RepairHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: REPAIRHUB_MONGO_URI, REPAIRHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "repairhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "repairhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session lifetime (e.g., 12h, 168h)"},

	// Paging
	{Name: "dashboard_page_size", Default: 5, Desc: "Users per dashboard page"},
	{Name: "repairs_page_size", Default: 10, Desc: "Repairs per catalog page"},
	{Name: "page_link_window", Default: 3, Desc: "Numbered pager links shown on each side of the current page"},

	// Presentation
	{Name: "locale", Default: "en", Desc: "Interface language: 'en' or 'bg'"},
	{Name: "timezone", Default: "", Desc: "IANA time zone for dates and ranges (blank means server local)"},

	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},

	// Bootstrap administrator
	{Name: "admin_username", Default: "", Desc: "Administrator ensured on startup (created or promoted)"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created startup administrator"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config.yaml/json/toml
// files, environment variables (WAFFLE_* for core, REPAIRHUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "REPAIRHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		DashboardPageSize: appValues.Int("dashboard_page_size"),
		RepairsPageSize:   appValues.Int("repairs_page_size"),
		PageLinkWindow:    appValues.Int("page_link_window"),

		Locale:   strings.ToLower(strings.TrimSpace(appValues.String("locale"))),
		Timezone: strings.TrimSpace(appValues.String("timezone")),

		MetricsEnabled: appValues.Bool("metrics_enabled"),

		AdminUsername: strings.TrimSpace(appValues.String("admin_username")),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Struct rules come from the validate tags on AppConfig; the MongoDB URI and
// the time zone are checked separately to catch configuration errors before
// anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if res := inputval.Validate(appCfg); res.HasErrors() {
		logger.Error("invalid app config", zap.String("errors", res.All()))
		return fmt.Errorf("invalid app config: %s", res.All())
	}

	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if _, err := loadLocation(appCfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", appCfg.Timezone, err)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be set in production")
	}

	return nil
}

// loadLocation resolves an IANA zone name. Blank means time.Local.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
