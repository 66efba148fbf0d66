package standingsmigrations

import (
	"context"
	"fmt"

	standingsdb "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating standings tables...")

		if _, err := db.NewCreateTable().Model((*standingsdb.StandingRow)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create division_standings table: %w", err)
		}
		if _, err := db.NewCreateTable().Model((*standingsdb.StandingsSnapshot)(nil)).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create standings_snapshots table: %w", err)
		}
		if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_division_standings_position ON division_standings(division, position)").Exec(ctx); err != nil {
			return fmt.Errorf("failed to create standings index: %w", err)
		}

		fmt.Println("Standings tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping standings tables...")

		if _, err := db.NewDropTable().Model((*standingsdb.StandingsSnapshot)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*standingsdb.StandingRow)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Standings tables dropped successfully!")
		return nil
	})
}
