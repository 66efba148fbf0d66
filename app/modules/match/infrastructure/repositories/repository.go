package matchdb

import (
	"context"
	"database/sql"
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

func (r *Impl) conn(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListTeams(ctx context.Context, db bun.IDB) ([]Team, error) {
	db = r.conn(db)

	var teams []Team
	if err := db.NewSelect().Model(&teams).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("matchdb.ListTeams: %w", err)
	}
	if len(teams) == 0 {
		return teams, nil
	}

	var sessions []TeamSession
	if err := db.NewSelect().Model(&sessions).Order("team_id ASC", "session ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("matchdb.ListTeams sessions: %w", err)
	}
	byTeam := make(map[string][]TeamSession, len(teams))
	for _, s := range sessions {
		byTeam[s.TeamID] = append(byTeam[s.TeamID], s)
	}
	for i := range teams {
		teams[i].Sessions = byTeam[teams[i].ID]
	}
	return teams, nil
}

func (r *Impl) ListMatches(ctx context.Context, db bun.IDB, division string) ([]Match, error) {
	var matches []Match
	err := r.conn(db).NewSelect().
		Model(&matches).
		Where("division = ?", division).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("matchdb.ListMatches: %w", err)
	}
	return matches, nil
}

func (r *Impl) GetMatch(ctx context.Context, db bun.IDB, matchID string) (*Match, error) {
	match := new(Match)
	err := r.conn(db).NewSelect().
		Model(match).
		Where("id = ?", matchID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("matchdb.GetMatch: %w", err)
	}
	return match, nil
}

func (r *Impl) ListHoles(ctx context.Context, db bun.IDB, matchIDs []string) ([]Hole, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	var holes []Hole
	err := r.conn(db).NewSelect().
		Model(&holes).
		Where("match_id IN (?)", bun.In(matchIDs)).
		Order("match_id ASC", "number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("matchdb.ListHoles: %w", err)
	}
	return holes, nil
}

func (r *Impl) ListHoleScores(ctx context.Context, db bun.IDB, matchIDs []string) ([]HoleScore, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	var scores []HoleScore
	err := r.conn(db).NewSelect().
		Model(&scores).
		Where("match_id IN (?)", bun.In(matchIDs)).
		Order("match_id ASC", "hole_number ASC", "side ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("matchdb.ListHoleScores: %w", err)
	}
	return scores, nil
}

func (r *Impl) UpsertTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.conn(db)
	_, err := db.NewInsert().
		Model(team).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("division = EXCLUDED.division").
		Set("seed = EXCLUDED.seed").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchdb.UpsertTeam: %w", err)
	}
	if len(team.Sessions) == 0 {
		return nil
	}
	for i := range team.Sessions {
		team.Sessions[i].TeamID = team.ID
	}
	_, err = db.NewInsert().
		Model(&team.Sessions).
		On("CONFLICT (team_id, session) DO UPDATE").
		Set("points_per_win = EXCLUDED.points_per_win").
		Set("players = EXCLUDED.players").
		Set("resting = EXCLUDED.resting").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchdb.UpsertTeam sessions: %w", err)
	}
	return nil
}

func (r *Impl) UpsertMatch(ctx context.Context, db bun.IDB, match *Match) error {
	_, err := r.conn(db).NewInsert().
		Model(match).
		On("CONFLICT (id) DO UPDATE").
		Set("division = EXCLUDED.division").
		Set("session = EXCLUDED.session").
		Set("match_type = EXCLUDED.match_type").
		Set("side_a = EXCLUDED.side_a").
		Set("side_b = EXCLUDED.side_b").
		Set("side_c = EXCLUDED.side_c").
		Set("is_bye = EXCLUDED.is_bye").
		Set("status = EXCLUDED.status").
		Set("holes = EXCLUDED.holes").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchdb.UpsertMatch: %w", err)
	}
	return nil
}

func (r *Impl) UpsertHole(ctx context.Context, db bun.IDB, hole *Hole, scores []HoleScore) error {
	db = r.conn(db)
	_, err := db.NewInsert().
		Model(hole).
		On("CONFLICT (match_id, number) DO UPDATE").
		Set("par = EXCLUDED.par").
		Set("status = EXCLUDED.status").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchdb.UpsertHole: %w", err)
	}
	if len(scores) == 0 {
		return nil
	}
	for i := range scores {
		scores[i].MatchID = hole.MatchID
		scores[i].HoleNumber = hole.Number
	}
	_, err = db.NewInsert().
		Model(&scores).
		On("CONFLICT (match_id, hole_number, side) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("strokes = EXCLUDED.strokes").
		Set("handicap = EXCLUDED.handicap").
		Set("player_scores = EXCLUDED.player_scores").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("matchdb.UpsertHole scores: %w", err)
	}
	return nil
}
