package snapshot

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
)

// Seed writes the snapshot into the match store. Existing rows with the same
// keys are overwritten.
func Seed(ctx context.Context, db bun.IDB, repo matchdb.Repository, snap *Snapshot) error {
	for _, t := range snap.Teams {
		row := matchdb.FromDomainTeam(t)
		if err := repo.UpsertTeam(ctx, db, &row); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, r := range snap.Matches {
		row, err := matchdb.FromDomainMatch(r.Match)
		if err != nil {
			return fmt.Errorf("seed match: %w", err)
		}
		if err := repo.UpsertMatch(ctx, db, &row); err != nil {
			return fmt.Errorf("seed match %s: %w", r.Match.ID, err)
		}
		for _, h := range r.Holes {
			hole, scores := matchdb.FromDomainHole(r.Match.ID, h)
			if err := repo.UpsertHole(ctx, db, &hole, scores); err != nil {
				return fmt.Errorf("seed match %s hole %d: %w", r.Match.ID, h.Number, err)
			}
		}
	}
	return nil
}
