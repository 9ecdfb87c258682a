package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/pricing-engine/pkg/config"
	"github.com/angelmondragon/pricing-engine/pkg/db"
	"github.com/angelmondragon/pricing-engine/pkg/db/models"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite databases are migrated from the gorm models since
// the SQL migrations target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if client.Driver() == config.DriverSQLite {
		ctx = logg.WithField(ctx, "env", cfg.App.Env)
		logg.Info(ctx, "auto-migrating sqlite schema from models")
		if err := AutoMigrateModels(ctx, client); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema ready")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up", logg); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateModels creates or updates the pricing tables from the gorm models.
func AutoMigrateModels(ctx context.Context, client *db.Client) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.PriceList{},
		&models.PriceListEntry{},
		&models.PriceListPartner{},
	); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}
	return nil
}
