package bundb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	matchmigrations "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories/migrations"
	standingsmigrations "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/repositories/migrations"
)

// ModuleOrder is the order migrations are applied in. Rollbacks run it backwards.
var ModuleOrder = []string{"match", "standings"}

// Migrators returns one migrator per module. Each module keeps its own
// bookkeeping tables so a rollback never crosses modules.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"match": migrate.NewMigrator(db, matchmigrations.Migrations,
			migrate.WithTableName("bun_migrations_match"),
			migrate.WithLocksTableName("bun_migration_locks_match"),
		),
		"standings": migrate.NewMigrator(db, standingsmigrations.Migrations,
			migrate.WithTableName("bun_migrations_standings"),
			migrate.WithLocksTableName("bun_migration_locks_standings"),
		),
	}
}

// MigrateUp initializes the bookkeeping tables and applies every pending
// module migration.
func MigrateUp(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrators := Migrators(db)
	for _, name := range ModuleOrder {
		m := migrators[name]
		if err := m.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", name, err)
		}
		group, err := m.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module", slog.String("module", name), slog.String("group", group.String()))
	}
	return nil
}
