package standingsdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository stores the standings projection, one table per division.
type Repository interface {
	// GetSnapshot returns the last recompute record. Returns ErrNotFound if none.
	GetSnapshot(ctx context.Context, db bun.IDB, division string) (*StandingsSnapshot, error)

	// GetStandings returns the stored rows ordered by position.
	GetStandings(ctx context.Context, db bun.IDB, division string) ([]StandingRow, error)

	// ReplaceStandings overwrites the division's rows and snapshot. Call it
	// inside a transaction.
	ReplaceStandings(ctx context.Context, db bun.IDB, snapshot *StandingsSnapshot, rows []StandingRow) error

	// LockDivision blocks until no other process holds the division, then
	// returns a handle pinned to the locking connection. Reads and writes
	// that must not interleave with another recompute go through that
	// handle. release unlocks and must be called exactly once.
	LockDivision(ctx context.Context, division string) (db bun.IDB, release func(), err error)
}
