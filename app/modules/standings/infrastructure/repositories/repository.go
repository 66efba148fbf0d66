package standingsdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements Repository on top of bun.
type Impl struct {
	db *bun.DB
}

// NewRepository returns a bun-backed Repository.
func NewRepository(db *bun.DB) Repository {
	return &Impl{db: db}
}

func (r *Impl) GetSnapshot(ctx context.Context, db bun.IDB, division string) (*StandingsSnapshot, error) {
	if db == nil {
		db = r.db
	}
	snap := new(StandingsSnapshot)
	err := db.NewSelect().
		Model(snap).
		Where("division = ?", division).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("standingsdb.GetSnapshot: %w", err)
	}
	return snap, nil
}

func (r *Impl) GetStandings(ctx context.Context, db bun.IDB, division string) ([]StandingRow, error) {
	if db == nil {
		db = r.db
	}
	var rows []StandingRow
	err := db.NewSelect().
		Model(&rows).
		Where("division = ?", division).
		Order("position ASC", "team_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("standingsdb.GetStandings: %w", err)
	}
	return rows, nil
}

func (r *Impl) ReplaceStandings(ctx context.Context, db bun.IDB, snapshot *StandingsSnapshot, rows []StandingRow) error {
	if db == nil {
		db = r.db
	}

	_, err := db.NewDelete().
		Model((*StandingRow)(nil)).
		Where("division = ?", snapshot.Division).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("standingsdb.ReplaceStandings delete: %w", err)
	}

	if len(rows) > 0 {
		if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("standingsdb.ReplaceStandings insert: %w", err)
		}
	}

	_, err = db.NewInsert().
		Model(snapshot).
		On("CONFLICT (division) DO UPDATE").
		Set("hash = EXCLUDED.hash").
		Set("latest_session = EXCLUDED.latest_session").
		Set("insufficient_data = EXCLUDED.insufficient_data").
		Set("findings = EXCLUDED.findings").
		Set("run_id = EXCLUDED.run_id").
		Set("computed_at = EXCLUDED.computed_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("standingsdb.ReplaceStandings snapshot: %w", err)
	}
	return nil
}

// divisionLockKey namespaces the advisory lock so other users of
// pg_advisory_lock on the same database cannot collide with it.
func divisionLockKey(division string) string {
	return "teamcup.standings:" + division
}

// LockDivision holds a session-level advisory lock on a dedicated
// connection. A transaction-level lock would be taken after a repeatable
// read snapshot could already exist, so the lock brackets both the read
// and the write transactions instead.
func (r *Impl) LockDivision(ctx context.Context, division string) (bun.IDB, func(), error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("standingsdb.LockDivision conn: %w", err)
	}

	key := divisionLockKey(division)
	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock(hashtext(?))", key); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("standingsdb.LockDivision: %w", err)
	}

	release := func() {
		// Unlock even when the caller's context is already done.
		ctx := context.WithoutCancel(ctx)
		if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock(hashtext(?))", key); err != nil {
			// Drop the session so the server frees the lock with it.
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		_ = conn.Close()
	}
	return &conn, release, nil
}

var _ Repository = (*Impl)(nil)
