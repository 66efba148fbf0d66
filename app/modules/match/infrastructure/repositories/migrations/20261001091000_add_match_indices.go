package matchmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding indices for match module...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_teams_division ON teams(division);
				CREATE INDEX IF NOT EXISTS idx_matches_division_session ON matches(division, session);
			`); err != nil {
				return fmt.Errorf("failed to add match indices: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back indices for match module...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP INDEX IF EXISTS idx_matches_division_session;
				DROP INDEX IF EXISTS idx_teams_division;
			`); err != nil {
				return fmt.Errorf("failed to drop match indices: %w", err)
			}
			return nil
		})
	})
}
