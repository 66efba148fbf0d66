package standingsdomain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

// Standing is one team's row in the division table.
type Standing struct {
	Team     matchdomain.TeamID
	Name     string
	Division matchdomain.Division
	Seed     int

	Points        Points
	MatchesPlayed int
	MatchesWon    int
	MatchesLost   int
	MatchesHalved int
	HolesWon      int
	HolesLost     int
	// TotalStrokes is nil when no gross strokes were recorded for the team.
	TotalStrokes        *int
	StrokesDifferential int

	Position       int
	PositionChange int
}

// HoleDifferential is holes won minus holes lost.
func (s Standing) HoleDifferential() int { return s.HolesWon - s.HolesLost }

// MatchRecord is a stored match with its raw holes.
type MatchRecord struct {
	Match matchdomain.Match
	Holes []matchdomain.Hole
}

// Report is the full output of a division recompute.
type Report struct {
	Division   matchdomain.Division
	Standings  []Standing
	Matches    []ScoredMatch
	Allocation Allocation
	Findings   []matchdomain.Finding
	// LatestSession is the most recent session with a finished match, empty when none.
	LatestSession matchdomain.Session
	// InsufficientData is set when no match in the division has finished yet.
	InsufficientData bool
}

// compareStandings orders rows best first: points, matches won, hole
// differential, fewest strokes, seed, then team id.
func compareStandings(a, b Standing) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(b.MatchesWon, a.MatchesWon); c != 0 {
		return c
	}
	if c := cmp.Compare(b.HoleDifferential(), a.HoleDifferential()); c != 0 {
		return c
	}
	switch {
	case a.TotalStrokes != nil && b.TotalStrokes != nil:
		if c := cmp.Compare(*a.TotalStrokes, *b.TotalStrokes); c != 0 {
			return c
		}
	case a.TotalStrokes != nil:
		return -1
	case b.TotalStrokes != nil:
		return 1
	}
	if c := cmp.Compare(seedKey(a.Seed), seedKey(b.Seed)); c != 0 {
		return c
	}
	return cmp.Compare(a.Team, b.Team)
}

// seedKey puts unseeded teams (seed <= 0) after every seeded team.
func seedKey(seed int) int {
	if seed <= 0 {
		return int(^uint(0) >> 1)
	}
	return seed
}

// Rank sorts rows and assigns positions 1..n.
func Rank(rows []Standing) {
	slices.SortFunc(rows, compareStandings)
	for i := range rows {
		rows[i].Position = i + 1
	}
}

// Aggregate builds ranked standings for every team in the division from finished matches.
// Matches must already have passed team reference checks.
func Aggregate(division matchdomain.Division, teams []matchdomain.Team, matches []ScoredMatch, alloc Allocation) []Standing {
	rows := make([]Standing, 0, len(teams))
	index := make(map[matchdomain.TeamID]int, len(teams))
	for _, t := range teams {
		if t.Division != division {
			continue
		}
		if _, dup := index[t.ID]; dup {
			continue
		}
		index[t.ID] = len(rows)
		rows = append(rows, Standing{Team: t.ID, Name: t.Name, Division: division, Seed: t.Seed})
	}

	for _, sm := range matches {
		if !sm.Finished() || sm.Match.Division != division {
			continue
		}
		types, err := ResultTypes(sm.State)
		if err != nil {
			continue
		}
		for i, team := range sm.Match.Sides.Teams() {
			idx, ok := index[team]
			if !ok {
				continue
			}
			row := &rows[idx]
			side := matchdomain.Side(i)

			row.MatchesPlayed++
			switch types[i] {
			case ResultTypeWin:
				row.MatchesWon++
			case ResultTypeTie:
				row.MatchesHalved++
			default:
				row.MatchesLost++
			}
			row.HolesWon += sm.State.HolesWon[side]
			row.HolesLost += sm.State.HolesLost(side)
			row.StrokesDifferential += sm.State.Differential[side]
			if sm.State.GrossHoles[side] > 0 {
				total := sm.State.GrossStrokes[side]
				if row.TotalStrokes != nil {
					total += *row.TotalStrokes
				}
				row.TotalStrokes = &total
			}
		}
	}

	for i := range rows {
		rows[i].Points = alloc.PointsFor(rows[i].Team)
	}
	Rank(rows)
	return rows
}

// CheckTeamReferences reports whether every side of m points at a distinct team of the division.
func CheckTeamReferences(m matchdomain.Match, teams map[matchdomain.TeamID]matchdomain.Team) error {
	seen := make(map[matchdomain.TeamID]bool, 3)
	for i, id := range m.Sides.Teams() {
		side := matchdomain.Side(i)
		if id == "" {
			return &matchdomain.TeamReferenceError{MatchID: m.ID, Side: side, Team: id, Reason: "empty team id"}
		}
		team, ok := teams[id]
		if !ok {
			return &matchdomain.TeamReferenceError{MatchID: m.ID, Side: side, Team: id, Reason: "team not found"}
		}
		if team.Division != m.Division {
			return &matchdomain.TeamReferenceError{
				MatchID: m.ID,
				Side:    side,
				Team:    id,
				Reason:  fmt.Sprintf("team plays in division %q", team.Division),
			}
		}
		if seen[id] {
			return &matchdomain.TeamReferenceError{MatchID: m.ID, Side: side, Team: id, Reason: "team appears on two sides"}
		}
		seen[id] = true
	}
	return nil
}

// ComputeStandings runs the whole pipeline for a division: match states,
// points and ranked standings. Bad matches and holes are isolated into
// Findings; only a missing points row fails the call.
func ComputeStandings(division matchdomain.Division, teams []matchdomain.Team, records []MatchRecord, table PointTable) (Report, error) {
	report := Report{Division: division}

	known := make(map[matchdomain.TeamID]matchdomain.Team, len(teams))
	var divisionTeams []matchdomain.Team
	for _, t := range teams {
		if _, dup := known[t.ID]; dup {
			continue
		}
		known[t.ID] = t
		if t.Division == division {
			divisionTeams = append(divisionTeams, t)
		}
	}
	slices.SortFunc(divisionTeams, func(a, b matchdomain.Team) int { return cmp.Compare(a.ID, b.ID) })

	ordered := make([]MatchRecord, 0, len(records))
	for _, r := range records {
		if r.Match.Division == division {
			ordered = append(ordered, r)
		}
	}
	slices.SortStableFunc(ordered, func(a, b MatchRecord) int {
		if c := cmp.Compare(a.Match.Session.Order(), b.Match.Session.Order()); c != 0 {
			return c
		}
		return cmp.Compare(a.Match.ID, b.Match.ID)
	})

	for _, r := range ordered {
		m := r.Match
		if !m.Session.Valid() {
			report.Findings = append(report.Findings, matchdomain.Finding{
				Kind:    matchdomain.FindingMalformedMatch,
				MatchID: m.ID,
				Err:     fmt.Errorf("unknown session %q", m.Session),
			})
			continue
		}
		if m.Sides == nil {
			report.Findings = append(report.Findings, matchdomain.Finding{
				Kind:    matchdomain.FindingMalformedMatch,
				MatchID: m.ID,
				Err:     errors.New("match has no sides"),
			})
			continue
		}
		if err := CheckTeamReferences(m, known); err != nil {
			report.Findings = append(report.Findings, matchdomain.Finding{
				Kind:    matchdomain.FindingInconsistentTeamRef,
				MatchID: m.ID,
				Err:     err,
			})
			continue
		}
		st := matchdomain.ComputeMatch(m, r.Holes)
		report.Findings = append(report.Findings, st.Findings...)
		report.Matches = append(report.Matches, ScoredMatch{Match: m, State: st})
	}

	alloc, err := Allocate(table, division, report.Matches)
	if err != nil {
		return Report{}, err
	}
	report.Allocation = alloc
	report.Standings = Aggregate(division, divisionTeams, report.Matches, alloc)

	latest := -1
	for _, sm := range report.Matches {
		if sm.Finished() && sm.Match.Session.Order() > latest {
			latest = sm.Match.Session.Order()
		}
	}
	if latest < 0 {
		report.InsufficientData = true
		return report, nil
	}
	report.LatestSession = matchdomain.Sessions()[latest]

	var earlier []ScoredMatch
	for _, sm := range report.Matches {
		if sm.Match.Session.Order() < latest {
			earlier = append(earlier, sm)
		}
	}
	prevAlloc, err := Allocate(table, division, earlier)
	if err != nil {
		return Report{}, err
	}
	previous := make(map[matchdomain.TeamID]int, len(report.Standings))
	for _, s := range Aggregate(division, divisionTeams, earlier, prevAlloc) {
		previous[s.Team] = s.Position
	}
	for i := range report.Standings {
		if pos, ok := previous[report.Standings[i].Team]; ok {
			report.Standings[i].PositionChange = pos - report.Standings[i].Position
		}
	}
	return report, nil
}
