package standingsdb

import (
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
)

// FromDomainStanding converts a computed standing into its stored row.
func FromDomainStanding(s standingsdomain.Standing) StandingRow {
	return StandingRow{
		Division:            string(s.Division),
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
		TotalStrokes:        s.TotalStrokes,
		StrokesDifferential: s.StrokesDifferential,
		Position:            s.Position,
		PositionChange:      s.PositionChange,
	}
}

// ToDomainStanding converts a stored row back into a standing.
func ToDomainStanding(r StandingRow) standingsdomain.Standing {
	return standingsdomain.Standing{
		Team:                matchdomain.TeamID(r.TeamID),
		Name:                r.Name,
		Division:            matchdomain.Division(r.Division),
		Seed:                r.Seed,
		Points:              standingsdomain.Points(r.Points),
		MatchesPlayed:       r.MatchesPlayed,
		MatchesWon:          r.MatchesWon,
		MatchesLost:         r.MatchesLost,
		MatchesHalved:       r.MatchesHalved,
		HolesWon:            r.HolesWon,
		HolesLost:           r.HolesLost,
		TotalStrokes:        r.TotalStrokes,
		StrokesDifferential: r.StrokesDifferential,
		Position:            r.Position,
		PositionChange:      r.PositionChange,
	}
}
