// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is invoked by WAFFLE after the HTTP server has drained.
//
// It stops the cleanup jobs first (a job may be mid-write) and then
// disconnects MongoDB. ctx carries WAFFLE's shutdown deadline. Every step is
// attempted; the returned error joins whatever failed.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var errs []error

	if taskRunner != nil {
		if err := taskRunner.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop jobs: %w", err))
		}
	}

	if deps.MongoClient != nil {
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	} else {
		logger.Info("jobs stopped and mongo disconnected")
	}
	return err
}
