package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	"github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/snapshot"
)

// TestDataGenerator builds random but reproducible tournaments.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	var s uint64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = uint64(time.Now().UnixNano())
	}
	return &TestDataGenerator{faker: gofakeit.New(s), seed: s}
}

// Seed returns the seed, for reproducing a failing run.
func (g *TestDataGenerator) Seed() uint64 { return g.seed }

// GenerateTeams creates count teams in a division, each configured for every session.
func (g *TestDataGenerator) GenerateTeams(d matchdomain.Division, count int) []matchdomain.Team {
	teams := make([]matchdomain.Team, count)
	for i := range teams {
		sessions := make(map[matchdomain.Session]matchdomain.SessionConfig, len(matchdomain.Sessions()))
		for _, s := range matchdomain.Sessions() {
			players := 4
			if s.MatchType() == matchdomain.MatchTypeSingles {
				players = 8
			}
			sessions[s] = matchdomain.SessionConfig{PointsPerWin: 1, Players: players}
		}
		name := g.faker.Company()
		teams[i] = matchdomain.Team{
			ID:       matchdomain.TeamID(fmt.Sprintf("%s-%02d-%s", d, i+1, slug(name))),
			Name:     name,
			Division: d,
			Seed:     i + 1,
			Sessions: sessions,
		}
	}
	return teams
}

// GenerateMatches pairs the teams once per session. With an odd team count the
// last team in each shuffled order gets a bye. Each match gets played holes
// numbered from 1.
func (g *TestDataGenerator) GenerateMatches(d matchdomain.Division, teams []matchdomain.Team, holesPlayed int) []standingsdomain.MatchRecord {
	var records []standingsdomain.MatchRecord
	for _, s := range matchdomain.Sessions() {
		order := make([]int, len(teams))
		for i := range order {
			order[i] = i
		}
		g.faker.ShuffleInts(order)

		for i := 0; i < len(order); i += 2 {
			m := matchdomain.Match{
				ID:       fmt.Sprintf("%s-%s-%d", d, s, i/2+1),
				Division: d,
				Session:  s,
				Type:     s.MatchType(),
			}
			if i+1 == len(order) {
				m.Sides = matchdomain.Bye{A: teams[order[i]].ID}
				m.Status = matchdomain.StatusBye
				records = append(records, standingsdomain.MatchRecord{Match: m})
				continue
			}
			m.Sides = matchdomain.TwoWay{A: teams[order[i]].ID, B: teams[order[i+1]].ID}
			records = append(records, standingsdomain.MatchRecord{Match: m, Holes: g.GenerateHoles(2, holesPlayed)})
		}
	}
	return records
}

// GenerateHoles creates completed holes with a net score for every side.
func (g *TestDataGenerator) GenerateHoles(sides, count int) []matchdomain.Hole {
	holes := make([]matchdomain.Hole, count)
	for i := range holes {
		par := g.faker.Number(3, 5)
		entries := make([]*matchdomain.SideEntry, sides)
		for s := range entries {
			entries[s] = &matchdomain.SideEntry{Score: matchdomain.Int(par + g.faker.Number(-1, 2))}
		}
		holes[i] = matchdomain.Hole{
			Number:  i + 1,
			Par:     par,
			Status:  matchdomain.HoleCompleted,
			Entries: entries,
		}
	}
	return holes
}

// GenerateDivision builds a whole division.
func (g *TestDataGenerator) GenerateDivision(d matchdomain.Division, teams, holesPlayed int) *snapshot.Snapshot {
	ts := g.GenerateTeams(d, teams)
	return &snapshot.Snapshot{Teams: ts, Matches: g.GenerateMatches(d, ts, holesPlayed)}
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
