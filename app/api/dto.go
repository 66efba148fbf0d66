package api

import (
	"time"

	matchservice "github.com/Black-And-White-Club/teamcup/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsservice "github.com/Black-And-White-Club/teamcup/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// StandingRow is one table row.
type StandingRow struct {
	Position            int     `json:"position"`
	PositionChange      int     `json:"position_change"`
	TeamID              string  `json:"team_id"`
	Name                string  `json:"name"`
	Seed                int     `json:"seed"`
	Points              float64 `json:"points"`
	MatchesPlayed       int     `json:"matches_played"`
	MatchesWon          int     `json:"matches_won"`
	MatchesLost         int     `json:"matches_lost"`
	MatchesHalved       int     `json:"matches_halved"`
	HolesWon            int     `json:"holes_won"`
	HolesLost           int     `json:"holes_lost"`
	HoleDifferential    int     `json:"hole_differential"`
	TotalStrokes        *int    `json:"total_strokes"`
	StrokesDifferential int     `json:"strokes_differential"`
}

// StandingsResponse is the body of GET /divisions/{division}/standings.
type StandingsResponse struct {
	Division         string        `json:"division"`
	LatestSession    string        `json:"latest_session,omitempty"`
	InsufficientData bool          `json:"insufficient_data"`
	Findings         int           `json:"findings"`
	RunID            string        `json:"run_id"`
	ComputedAt       time.Time     `json:"computed_at"`
	Standings        []StandingRow `json:"standings"`
}

func toStandingRow(s standingsdomain.Standing) StandingRow {
	return StandingRow{
		Position:            s.Position,
		PositionChange:      s.PositionChange,
		TeamID:              string(s.Team),
		Name:                s.Name,
		Seed:                s.Seed,
		Points:              float64(s.Points),
		MatchesPlayed:       s.MatchesPlayed,
		MatchesWon:          s.MatchesWon,
		MatchesLost:         s.MatchesLost,
		MatchesHalved:       s.MatchesHalved,
		HolesWon:            s.HolesWon,
		HolesLost:           s.HolesLost,
		HoleDifferential:    s.HoleDifferential(),
		TotalStrokes:        s.TotalStrokes,
		StrokesDifferential: s.StrokesDifferential,
	}
}

func toStandingsResponse(v standingsservice.StandingsView) StandingsResponse {
	out := StandingsResponse{
		Division:         string(v.Division),
		LatestSession:    string(v.LatestSession),
		InsufficientData: v.InsufficientData,
		Findings:         v.Findings,
		RunID:            v.RunID.String(),
		ComputedAt:       v.ComputedAt,
		Standings:        make([]StandingRow, 0, len(v.Standings)),
	}
	for _, s := range v.Standings {
		out.Standings = append(out.Standings, toStandingRow(s))
	}
	return out
}

// RecomputeResponse is the body of a synchronous recompute.
type RecomputeResponse struct {
	Division   string        `json:"division"`
	RunID      string        `json:"run_id,omitempty"`
	Hash       string        `json:"hash"`
	Skipped    bool          `json:"skipped"`
	Findings   []string      `json:"findings"`
	ComputedAt time.Time     `json:"computed_at"`
	Standings  []StandingRow `json:"standings,omitempty"`
}

func toRecomputeResponse(o standingsservice.RecomputeOutcome) RecomputeResponse {
	out := RecomputeResponse{
		Division:   string(o.Division),
		Hash:       o.Hash,
		Skipped:    o.Skipped,
		Findings:   findingStrings(o.Report.Findings),
		ComputedAt: o.ComputedAt,
	}
	if !o.Skipped {
		out.RunID = o.RunID.String()
	}
	for _, s := range o.Report.Standings {
		out.Standings = append(out.Standings, toStandingRow(s))
	}
	return out
}

// HoleResponse is one hole's normalized outcome.
type HoleResponse struct {
	Number int    `json:"number"`
	Kind   string `json:"kind"`
	Winner string `json:"winner,omitempty"`
	Tie    string `json:"tie,omitempty"`
}

// ResultResponse is a finished match result.
type ResultResponse struct {
	Kind      string   `json:"kind"`
	Winners   []string `json:"winners"`
	Losers    []string `json:"losers"`
	Margin    int      `json:"margin"`
	Remaining int      `json:"remaining"`
	Clinched  bool     `json:"clinched"`
	Label     string   `json:"label"`
}

// MatchResponse is the body of GET /matches/{matchID} and scorecard previews.
type MatchResponse struct {
	ID        string          `json:"id"`
	Division  string          `json:"division"`
	Session   string          `json:"session"`
	Type      string          `json:"type"`
	Teams     []string        `json:"teams"`
	Status    string          `json:"status"`
	Label     string          `json:"label"`
	Length    int             `json:"length"`
	Played    int             `json:"played"`
	Through   int             `json:"through"`
	Remaining int             `json:"remaining"`
	HolesWon  []int           `json:"holes_won"`
	Holes     []HoleResponse  `json:"holes"`
	Result    *ResultResponse `json:"result,omitempty"`
	Findings  []string        `json:"findings"`
}

func sideNames(sides []matchdomain.Side) []string {
	out := make([]string, 0, len(sides))
	for _, s := range sides {
		out = append(out, s.String())
	}
	return out
}

func findingStrings(findings []matchdomain.Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.String())
	}
	return out
}

func toMatchResponse(v matchservice.MatchView) MatchResponse {
	st := v.State
	out := MatchResponse{
		ID:        v.Match.ID,
		Division:  string(v.Match.Division),
		Session:   string(v.Match.Session),
		Type:      string(v.Match.Type),
		Status:    string(st.Status),
		Label:     st.Label,
		Length:    st.Length,
		Played:    st.Played,
		Through:   st.Through,
		Remaining: st.Remaining,
		HolesWon:  st.HolesWon,
		Holes:     make([]HoleResponse, 0, len(st.Outcomes)),
		Findings:  findingStrings(st.Findings),
	}
	if v.Match.Sides != nil {
		for _, t := range v.Match.Sides.Teams() {
			out.Teams = append(out.Teams, string(t))
		}
	}
	for _, o := range st.Outcomes {
		h := HoleResponse{Number: o.Number, Kind: string(o.Kind), Tie: string(o.Tie)}
		if o.Kind == matchdomain.OutcomeWon {
			h.Winner = o.Winner.String()
		}
		out.Holes = append(out.Holes, h)
	}
	if r := st.Result; r != nil {
		out.Result = &ResultResponse{
			Kind:      string(r.Kind),
			Winners:   sideNames(r.Winners),
			Losers:    sideNames(r.Losers),
			Margin:    r.Margin,
			Remaining: r.Remaining,
			Clinched:  r.Clinched,
			Label:     r.Label,
		}
	}
	return out
}
