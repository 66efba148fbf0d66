package matchdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository reads the tournament store. The scoring core never writes through
// it; the upserts exist for bulk loading.
//
// Every method accepts an optional bun.IDB so callers can run several reads
// inside one transaction. A nil db uses the repository's own handle.
type Repository interface {
	// ListTeams returns every team with its session configuration.
	ListTeams(ctx context.Context, db bun.IDB) ([]Team, error)

	// ListMatches returns the matches of a division ordered by id.
	ListMatches(ctx context.Context, db bun.IDB, division string) ([]Match, error)

	// GetMatch returns one match. Returns ErrNotFound if it does not exist.
	GetMatch(ctx context.Context, db bun.IDB, matchID string) (*Match, error)

	// ListHoles returns the holes of the given matches.
	ListHoles(ctx context.Context, db bun.IDB, matchIDs []string) ([]Hole, error)

	// ListHoleScores returns the side entries of the given matches.
	ListHoleScores(ctx context.Context, db bun.IDB, matchIDs []string) ([]HoleScore, error)

	UpsertTeam(ctx context.Context, db bun.IDB, team *Team) error
	UpsertMatch(ctx context.Context, db bun.IDB, match *Match) error
	UpsertHole(ctx context.Context, db bun.IDB, hole *Hole, scores []HoleScore) error
}
