// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratahandbook/internal/app/resources"
	"github.com/dalemusser/stratahandbook/internal/app/store/edits"
	"github.com/dalemusser/stratahandbook/internal/app/store/oauthstate"
	"github.com/dalemusser/stratahandbook/internal/app/system/tasks"
	"github.com/dalemusser/stratahandbook/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup registers the shared layout, applies the configured request
// deadlines and starts the cleanup jobs. It runs after EnsureSchema and
// before BuildHandler.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	logger.Debug("request timeouts configured", zap.Any("timeouts", timeouts.Current()))

	startTaskRunner(deps, appCfg, logger)

	return nil
}

// taskRunner is stopped by Shutdown.
var taskRunner *tasks.Runner

// The OAuth state sweep always runs; edit log retention only when
// edit_log_retention is set.
func startTaskRunner(deps DBDeps, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	taskRunner.Register(tasks.OAuthStateCleanupJob(oauthstate.New(deps.MongoDatabase), logger))

	if appCfg.EditLogRetention > 0 {
		taskRunner.Register(tasks.EditLogRetentionJob(edits.New(deps.MongoDatabase), appCfg.EditLogRetention, logger))
		logger.Info("edit log retention enabled", zap.Duration("retention", appCfg.EditLogRetention))
	}

	taskRunner.Start()
}
