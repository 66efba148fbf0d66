package standingsdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StandingRow is one team's persisted row in a division table.
type StandingRow struct {
	bun.BaseModel `bun:"table:division_standings,alias:ds"`

	Division            string    `bun:"division,pk"`
	TeamID              string    `bun:"team_id,pk"`
	Name                string    `bun:"name,notnull"`
	Seed                int       `bun:"seed,notnull,default:0"`
	Points              float64   `bun:"points,notnull,default:0"`
	MatchesPlayed       int       `bun:"matches_played,notnull,default:0"`
	MatchesWon          int       `bun:"matches_won,notnull,default:0"`
	MatchesLost         int       `bun:"matches_lost,notnull,default:0"`
	MatchesHalved       int       `bun:"matches_halved,notnull,default:0"`
	HolesWon            int       `bun:"holes_won,notnull,default:0"`
	HolesLost           int       `bun:"holes_lost,notnull,default:0"`
	TotalStrokes        *int      `bun:"total_strokes"`
	StrokesDifferential int       `bun:"strokes_differential,notnull,default:0"`
	Position            int       `bun:"position,notnull"`
	PositionChange      int       `bun:"position_change,notnull,default:0"`
	UpdatedAt           time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// StandingsSnapshot records the input hash of the last recompute of a division.
type StandingsSnapshot struct {
	bun.BaseModel `bun:"table:standings_snapshots,alias:ss"`

	Division         string    `bun:"division,pk"`
	Hash             string    `bun:"hash,notnull"`
	LatestSession    string    `bun:"latest_session,notnull,default:''"`
	InsufficientData bool      `bun:"insufficient_data,notnull,default:false"`
	Findings         int       `bun:"findings,notnull,default:0"`
	RunID            uuid.UUID `bun:"run_id,type:uuid,notnull"`
	ComputedAt       time.Time `bun:"computed_at,nullzero,notnull,default:current_timestamp"`
}
