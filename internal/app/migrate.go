package app

import (
	"context"
	"fmt"

	"acms/internal/config"
	"acms/internal/database"
	"acms/internal/database/migration"
	"acms/internal/database/seeder"
	"acms/migrations"

	"go.uber.org/zap"
)

// MigrationRunner prefers cfg.MigrationsDir and falls back to the embedded
// schema.
func MigrationRunner(cfg config.DatabaseConfig, log *zap.Logger) migration.Runner {
	return migration.Runner{Dir: cfg.MigrationsDir, FS: migrations.FS, Log: log}
}

func Migrate(ctx context.Context, db database.DB, cfg config.DatabaseConfig, log *zap.Logger) error {
	if err := MigrationRunner(cfg, log).Run(ctx, db.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func Seed(ctx context.Context, db database.DB, log *zap.Logger) error {
	r := seeder.Runner{Seeders: seeder.Defaults(), Log: log}
	return r.Run(ctx, db)
}
