package matchdb

import (
	"cmp"
	"fmt"
	"slices"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

// ToDomainTeam converts a stored team and its session rows.
func ToDomainTeam(t Team) matchdomain.Team {
	out := matchdomain.Team{
		ID:       matchdomain.TeamID(t.ID),
		Name:     t.Name,
		Division: matchdomain.Division(t.Division),
		Seed:     t.Seed,
		Sessions: make(map[matchdomain.Session]matchdomain.SessionConfig, len(t.Sessions)),
	}
	for _, s := range t.Sessions {
		out.Sessions[matchdomain.Session(s.Session)] = matchdomain.SessionConfig{
			PointsPerWin: s.PointsPerWin,
			Players:      s.Players,
			Resting:      s.Resting,
		}
	}
	return out
}

// FromDomainTeam converts a domain team into its stored form.
func FromDomainTeam(t matchdomain.Team) Team {
	out := Team{
		ID:       string(t.ID),
		Name:     t.Name,
		Division: string(t.Division),
		Seed:     t.Seed,
	}
	for _, s := range matchdomain.Sessions() {
		cfg, ok := t.Sessions[s]
		if !ok {
			continue
		}
		out.Sessions = append(out.Sessions, TeamSession{
			TeamID:       out.ID,
			Session:      string(s),
			PointsPerWin: cfg.PointsPerWin,
			Players:      cfg.Players,
			Resting:      cfg.Resting,
		})
	}
	return out
}

// ToDomainMatch converts a stored match. A row that names no usable side
// layout gets nil Sides, which the scoring core reports as a malformed match.
func ToDomainMatch(m Match) matchdomain.Match {
	out := matchdomain.Match{
		ID:       m.ID,
		Division: matchdomain.Division(m.Division),
		Session:  matchdomain.Session(m.Session),
		Type:     matchdomain.MatchType(m.MatchType),
		Status:   matchdomain.MatchStatus(m.Status),
		Holes:    m.Holes,
	}
	if out.Type == "" {
		out.Type = out.Session.MatchType()
	}

	a := matchdomain.TeamID(m.SideA)
	switch {
	case m.IsBye:
		if m.SideB == nil && m.SideC == nil {
			out.Sides = matchdomain.Bye{A: a}
		}
	case m.SideB != nil && m.SideC != nil:
		out.Sides = matchdomain.ThreeWay{A: a, B: matchdomain.TeamID(*m.SideB), C: matchdomain.TeamID(*m.SideC)}
	case m.SideB != nil:
		out.Sides = matchdomain.TwoWay{A: a, B: matchdomain.TeamID(*m.SideB)}
	}
	return out
}

// FromDomainMatch converts a domain match into its stored form.
func FromDomainMatch(m matchdomain.Match) (Match, error) {
	out := Match{
		ID:        m.ID,
		Division:  string(m.Division),
		Session:   string(m.Session),
		MatchType: string(m.Type),
		Status:    string(m.Status),
		Holes:     m.Length(),
	}
	if out.Status == "" {
		out.Status = string(matchdomain.StatusScheduled)
	}
	switch s := m.Sides.(type) {
	case matchdomain.Bye:
		out.SideA = string(s.A)
		out.IsBye = true
	case matchdomain.TwoWay:
		out.SideA = string(s.A)
		out.SideB = strPtr(string(s.B))
	case matchdomain.ThreeWay:
		out.SideA = string(s.A)
		out.SideB = strPtr(string(s.B))
		out.SideC = strPtr(string(s.C))
	default:
		return Match{}, fmt.Errorf("match %s has no sides", m.ID)
	}
	return out, nil
}

// FromDomainHole converts a domain hole into its stored rows.
func FromDomainHole(matchID string, h matchdomain.Hole) (Hole, []HoleScore) {
	hole := Hole{MatchID: matchID, Number: h.Number, Par: h.Par, Status: string(h.Status)}
	if hole.Status == "" {
		hole.Status = string(matchdomain.HoleNotStarted)
	}
	var scores []HoleScore
	for i, e := range h.Entries {
		if e == nil {
			continue
		}
		scores = append(scores, HoleScore{
			MatchID:      matchID,
			HoleNumber:   h.Number,
			Side:         matchdomain.Side(i).String(),
			Score:        e.Score,
			Strokes:      e.Strokes,
			Handicap:     e.Handicap,
			PlayerScores: e.Players,
		})
	}
	return hole, scores
}

// GroupHoles assembles domain holes per match id.
//
// Every hole gets one entry slot per side of its match; sides without a score
// row keep a nil slot and read as not yet entered. A score row for a side the
// match does not have widens the slot list so the hole reports as malformed.
// Score rows that have no matching hole row still produce a hole.
func GroupHoles(matches []matchdomain.Match, holes []Hole, scores []HoleScore) map[string][]matchdomain.Hole {
	sides := make(map[string]int, len(matches))
	for _, m := range matches {
		if m.Sides != nil {
			sides[m.ID] = m.Sides.Count()
		}
	}

	type key struct {
		match  string
		number int
	}
	built := make(map[key]*matchdomain.Hole, len(holes))
	var order []key

	ensure := func(matchID string, number int) *matchdomain.Hole {
		k := key{matchID, number}
		if h, ok := built[k]; ok {
			return h
		}
		h := &matchdomain.Hole{
			Number:  number,
			Status:  matchdomain.HoleInProgress,
			Entries: make([]*matchdomain.SideEntry, sides[matchID]),
		}
		built[k] = h
		order = append(order, k)
		return h
	}

	// Duplicate hole rows cannot come out of the table, so each hole row maps
	// to exactly one domain hole.
	for _, h := range holes {
		dh := ensure(h.MatchID, h.Number)
		dh.Par = h.Par
		dh.Status = matchdomain.HoleStatus(h.Status)
	}

	for _, s := range scores {
		side, err := matchdomain.ParseSide(s.Side)
		if err != nil {
			continue
		}
		dh := ensure(s.MatchID, s.HoleNumber)
		for int(side) >= len(dh.Entries) {
			dh.Entries = append(dh.Entries, nil)
		}
		dh.Entries[side] = &matchdomain.SideEntry{
			Score:    s.Score,
			Strokes:  s.Strokes,
			Handicap: s.Handicap,
			Players:  s.PlayerScores,
		}
	}

	slices.SortFunc(order, func(a, b key) int {
		if c := cmp.Compare(a.match, b.match); c != 0 {
			return c
		}
		return cmp.Compare(a.number, b.number)
	})

	out := make(map[string][]matchdomain.Hole, len(matches))
	for _, k := range order {
		out[k.match] = append(out[k.match], *built[k])
	}
	return out
}

func strPtr(s string) *string { return &s }
