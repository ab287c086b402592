// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"

	sectionstore "github.com/dalemusser/stratahandbook/internal/app/store/sections"
	"github.com/dalemusser/stratahandbook/internal/app/system/catalog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return seedSections(ctx, db, logger)
}

// seedSections stores each catalog section that is not in the database yet.
// Existing sections are never touched.
func seedSections(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := sectionstore.New(db)

	for _, sec := range catalog.Default() {
		exists, err := store.Exists(ctx, sec.ID)
		if err != nil {
			logger.Error("failed to check if section exists",
				zap.String("section_id", sec.ID),
				zap.Error(err))
			return err
		}
		if exists {
			continue
		}
		if err := store.Save(ctx, sec); err != nil {
			logger.Error("failed to seed section",
				zap.String("section_id", sec.ID),
				zap.Error(err))
			return err
		}
		logger.Info("seeded default section", zap.String("section_id", sec.ID))
	}
	return nil
}
