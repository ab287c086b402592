// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratahandbook/internal/app/system/indexes"
	"github.com/dalemusser/stratahandbook/internal/app/system/seeding"
	"github.com/dalemusser/stratahandbook/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DBDeps is what ConnectDB hands to the later lifecycle hooks. The handbook
// keeps everything in one Mongo database; Shutdown disconnects the client.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}

// ConnectDB opens the Mongo pool. Zero pool sizes keep the WAFFLE defaults.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	pool := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		pool.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		pool.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, pool)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", pool.MaxPoolSize),
		zap.Uint64("min_pool_size", pool.MinPoolSize))

	return DBDeps{MongoClient: client, MongoDatabase: client.Database(appCfg.MongoDatabase)}, nil
}

// EnsureSchema runs before the handler is built, bounded by WAFFLE's
// index boot timeout. Collections and validators come first so the index
// step works on existing collections; the built-in catalog is seeded last,
// and only into an empty database.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	steps := []struct {
		name string
		run  func() error
	}{
		{"validators", func() error { return validators.EnsureAll(ctx, db) }},
		{"indexes", func() error { return indexes.EnsureAll(ctx, db) }},
		{"seed sections", func() error { return seeding.SeedAll(ctx, db, logger) }},
	}
	for _, s := range steps {
		logger.Info("schema step", zap.String("step", s.name))
		if err := s.run(); err != nil {
			logger.Error("schema step failed", zap.String("step", s.name), zap.Error(err))
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	logger.Info("database schema ready")
	return nil
}
