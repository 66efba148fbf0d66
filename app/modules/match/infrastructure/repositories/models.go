package matchdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Team is a competing team.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Division  string    `bun:"division,notnull"`
	Seed      int       `bun:"seed,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Sessions []TeamSession `bun:"-"`
}

// TeamSession is a team's configuration for one session slot.
type TeamSession struct {
	bun.BaseModel `bun:"table:team_sessions,alias:ts"`

	TeamID       string  `bun:"team_id,pk"`
	Session      string  `bun:"session,pk"`
	PointsPerWin float64 `bun:"points_per_win,notnull,default:0"`
	Players      int     `bun:"players,notnull,default:0"`
	Resting      int     `bun:"resting,notnull,default:0"`
}

// Match is a scheduled match. SideB and SideC are NULL when the side does not exist.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID        string    `bun:"id,pk"`
	Division  string    `bun:"division,notnull"`
	Session   string    `bun:"session,notnull"`
	MatchType string    `bun:"match_type,notnull"`
	SideA     string    `bun:"side_a,notnull"`
	SideB     *string   `bun:"side_b"`
	SideC     *string   `bun:"side_c"`
	IsBye     bool      `bun:"is_bye,notnull,default:false"`
	Status    string    `bun:"status,notnull,default:'scheduled'"`
	Holes     int       `bun:"holes,notnull,default:18"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Hole is one hole of a match as entered by the scoring app.
type Hole struct {
	bun.BaseModel `bun:"table:holes,alias:h"`

	MatchID string `bun:"match_id,pk"`
	Number  int    `bun:"number,pk"`
	Par     int    `bun:"par,notnull,default:0"`
	Status  string `bun:"status,notnull,default:'not-started'"`
}

// HoleScore is one side's entry on a hole. A missing row and a row with NULL
// scores both mean the side has not entered anything yet.
type HoleScore struct {
	bun.BaseModel `bun:"table:hole_scores,alias:hs"`

	MatchID      string    `bun:"match_id,pk"`
	HoleNumber   int       `bun:"hole_number,pk"`
	Side         string    `bun:"side,pk"`
	Score        *int      `bun:"score"`
	Strokes      *int      `bun:"strokes"`
	Handicap     int       `bun:"handicap,notnull,default:0"`
	PlayerScores []*int    `bun:"player_scores,type:jsonb"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
