// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/repairhub/internal/app/resources"
	"github.com/dalemusser/repairhub/internal/app/system/locale"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: timeout
// overrides, the display locale and the shared templates.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Int("overrides", n),
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("export", cur.Export))
	}

	loc, err := loadLocation(appCfg.Timezone)
	if err != nil {
		return err
	}
	viewdata.Init(locale.New(appCfg.Locale, loc))
	logger.Info("locale configured",
		zap.String("lang", viewdata.Locale().Lang()),
		zap.String("timezone", loc.String()))

	resources.LoadSharedTemplates()
	return nil
}
