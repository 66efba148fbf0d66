package matchmigrations

import (
	"context"
	"fmt"

	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating match tables...")

		models := []interface{}{
			(*matchdb.Team)(nil),
			(*matchdb.TeamSession)(nil),
			(*matchdb.Match)(nil),
			(*matchdb.Hole)(nil),
			(*matchdb.HoleScore)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		fmt.Println("Match tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping match tables...")

		models := []interface{}{
			(*matchdb.HoleScore)(nil),
			(*matchdb.Hole)(nil),
			(*matchdb.Match)(nil),
			(*matchdb.TeamSession)(nil),
			(*matchdb.Team)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table for %T: %w", model, err)
			}
		}

		fmt.Println("Match tables dropped successfully!")
		return nil
	})
}
