package standingsdomain

import (
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

func uniformTable(accrual Accrual, rule ThreeWayTieRule, row Row) DivisionTable {
	dt := DivisionTable{Accrual: accrual, ThreeWayTie: rule, Sessions: map[matchdomain.Session]Row{}}
	for _, s := range matchdomain.Sessions() {
		dt.Sessions[s] = row
	}
	return dt
}

func tableFor(d matchdomain.Division, dt DivisionTable) PointTable {
	return PointTable{Divisions: map[matchdomain.Division]DivisionTable{d: dt}}
}

func team(id string, d matchdomain.Division, seed int) matchdomain.Team {
	sessions := map[matchdomain.Session]matchdomain.SessionConfig{}
	for _, s := range matchdomain.Sessions() {
		sessions[s] = matchdomain.SessionConfig{PointsPerWin: 1, Players: 4}
	}
	return matchdomain.Team{ID: matchdomain.TeamID(id), Name: id, Division: d, Seed: seed, Sessions: sessions}
}

func holeOf(n int, scores ...int) matchdomain.Hole {
	entries := make([]*matchdomain.SideEntry, len(scores))
	for i, s := range scores {
		entries[i] = &matchdomain.SideEntry{Score: matchdomain.Int(s)}
	}
	return matchdomain.Hole{Number: n, Status: matchdomain.HoleCompleted, Entries: entries}
}

// winHoles returns holes 1..n won by the given side out of sides, followed by
// halved holes up to 18.
func winHoles(n int, winner matchdomain.Side, sides int) []matchdomain.Hole {
	var holes []matchdomain.Hole
	for i := 1; i <= matchdomain.HolesPerMatch; i++ {
		scores := make([]int, sides)
		for j := range scores {
			scores[j] = 4
		}
		if i <= n {
			scores[winner] = 3
		}
		holes = append(holes, holeOf(i, scores...))
	}
	return holes
}

func twoWayRecord(id string, d matchdomain.Division, s matchdomain.Session, a, b string, holes []matchdomain.Hole) MatchRecord {
	return MatchRecord{
		Match: matchdomain.Match{
			ID:       id,
			Division: d,
			Session:  s,
			Type:     s.MatchType(),
			Sides:    matchdomain.TwoWay{A: matchdomain.TeamID(a), B: matchdomain.TeamID(b)},
		},
		Holes: holes,
	}
}

func threeWayRecord(id string, d matchdomain.Division, s matchdomain.Session, a, b, c string, holes []matchdomain.Hole) MatchRecord {
	return MatchRecord{
		Match: matchdomain.Match{
			ID:       id,
			Division: d,
			Session:  s,
			Type:     s.MatchType(),
			Sides:    matchdomain.ThreeWay{A: matchdomain.TeamID(a), B: matchdomain.TeamID(b), C: matchdomain.TeamID(c)},
		},
		Holes: holes,
	}
}

func score(records ...MatchRecord) []ScoredMatch {
	out := make([]ScoredMatch, len(records))
	for i, r := range records {
		out[i] = ScoredMatch{Match: r.Match, State: matchdomain.ComputeMatch(r.Match, r.Holes)}
	}
	return out
}
