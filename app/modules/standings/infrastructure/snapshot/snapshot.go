// Package snapshot reads a whole tournament from a YAML file so standings can
// be computed offline or seeded into the store.
//
//	teams:
//	  - id: north
//	    name: North
//	    division: premier
//	    seed: 1
//	    sessions:
//	      sun-singles: {points_per_win: 1, players: 8}
//	matches:
//	  - id: p-sun-1
//	    division: premier
//	    session: sun-singles
//	    sides: [north, south]
//	    holes:
//	      - number: 1
//	        par: 4
//	        status: completed
//	        entries: [{score: 4}, {strokes: 6, handicap: 1}]
//
// A match with one side is a bye. A null entry means the side has not
// entered a score on that hole.
package snapshot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
)

// ErrInvalidSnapshot is returned for files that decode but do not describe a tournament.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is an in-memory tournament.
type Snapshot struct {
	Teams   []matchdomain.Team
	Matches []standingsdomain.MatchRecord
}

// Records returns the matches of one division.
func (s *Snapshot) Records(d matchdomain.Division) []standingsdomain.MatchRecord {
	var out []standingsdomain.MatchRecord
	for _, r := range s.Matches {
		if r.Match.Division == d {
			out = append(out, r)
		}
	}
	return out
}

type fileSnapshot struct {
	Teams   []fileTeam  `yaml:"teams"`
	Matches []fileMatch `yaml:"matches"`
}

type fileTeam struct {
	ID       string                 `yaml:"id"`
	Name     string                 `yaml:"name"`
	Division string                 `yaml:"division"`
	Seed     int                    `yaml:"seed"`
	Sessions map[string]fileSession `yaml:"sessions"`
}

type fileSession struct {
	PointsPerWin float64 `yaml:"points_per_win"`
	Players      int     `yaml:"players"`
	Resting      int     `yaml:"resting"`
}

type fileMatch struct {
	ID       string     `yaml:"id"`
	Division string     `yaml:"division"`
	Session  string     `yaml:"session"`
	Type     string     `yaml:"type"`
	Sides    []string   `yaml:"sides"`
	Status   string     `yaml:"status"`
	Length   int        `yaml:"length"`
	Holes    []fileHole `yaml:"holes"`
}

type fileHole struct {
	Number  int          `yaml:"number"`
	Par     int          `yaml:"par"`
	Status  string       `yaml:"status"`
	Entries []*fileEntry `yaml:"entries"`
}

type fileEntry struct {
	Score    *int   `yaml:"score"`
	Strokes  *int   `yaml:"strokes"`
	Handicap int    `yaml:"handicap"`
	Players  []*int `yaml:"players"`
}

// Load reads a snapshot file.
func Load(filename string) (*Snapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes snapshot YAML. Team configuration is validated strictly;
// hole data is passed through untouched so the scoring core can report bad
// holes itself.
func Parse(data []byte) (*Snapshot, error) {
	var file fileSnapshot
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	out := &Snapshot{}
	for _, ft := range file.Teams {
		team, err := ft.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		out.Teams = append(out.Teams, team)
	}

	seen := make(map[string]bool, len(file.Matches))
	for _, fm := range file.Matches {
		if seen[fm.ID] {
			return nil, fmt.Errorf("%w: duplicate match id %q", ErrInvalidSnapshot, fm.ID)
		}
		seen[fm.ID] = true

		record, err := fm.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		out.Matches = append(out.Matches, record)
	}
	return out, nil
}

func (ft fileTeam) toDomain() (matchdomain.Team, error) {
	team := matchdomain.Team{
		ID:       matchdomain.TeamID(ft.ID),
		Name:     ft.Name,
		Division: matchdomain.Division(ft.Division),
		Seed:     ft.Seed,
		Sessions: make(map[matchdomain.Session]matchdomain.SessionConfig, len(ft.Sessions)),
	}
	for key, fs := range ft.Sessions {
		session, err := matchdomain.ParseSession(key)
		if err != nil {
			return matchdomain.Team{}, fmt.Errorf("team %s: %w", ft.ID, err)
		}
		team.Sessions[session] = matchdomain.SessionConfig{
			PointsPerWin: fs.PointsPerWin,
			Players:      fs.Players,
			Resting:      fs.Resting,
		}
	}
	if err := team.Validate(); err != nil {
		return matchdomain.Team{}, err
	}
	return team, nil
}

func (fm fileMatch) toDomain() (standingsdomain.MatchRecord, error) {
	if fm.ID == "" {
		return standingsdomain.MatchRecord{}, errors.New("match has no id")
	}
	division, err := matchdomain.ParseDivision(fm.Division)
	if err != nil {
		return standingsdomain.MatchRecord{}, fmt.Errorf("match %s: %w", fm.ID, err)
	}
	session, err := matchdomain.ParseSession(fm.Session)
	if err != nil {
		return standingsdomain.MatchRecord{}, fmt.Errorf("match %s: %w", fm.ID, err)
	}

	m := matchdomain.Match{
		ID:       fm.ID,
		Division: division,
		Session:  session,
		Type:     matchdomain.MatchType(fm.Type),
		Status:   matchdomain.MatchStatus(fm.Status),
		Holes:    fm.Length,
	}
	if m.Type == "" {
		m.Type = session.MatchType()
	}

	ids := make([]matchdomain.TeamID, len(fm.Sides))
	for i, s := range fm.Sides {
		ids[i] = matchdomain.TeamID(s)
	}
	switch len(ids) {
	case 1:
		m.Sides = matchdomain.Bye{A: ids[0]}
	case 2:
		m.Sides = matchdomain.TwoWay{A: ids[0], B: ids[1]}
	case 3:
		m.Sides = matchdomain.ThreeWay{A: ids[0], B: ids[1], C: ids[2]}
	default:
		return standingsdomain.MatchRecord{}, fmt.Errorf("match %s: expected 1 to 3 sides, got %d", fm.ID, len(ids))
	}

	holes := make([]matchdomain.Hole, 0, len(fm.Holes))
	for _, fh := range fm.Holes {
		h := matchdomain.Hole{
			Number:  fh.Number,
			Par:     fh.Par,
			Status:  matchdomain.HoleStatus(fh.Status),
			Entries: make([]*matchdomain.SideEntry, len(fh.Entries)),
		}
		if h.Status == "" {
			h.Status = matchdomain.HoleCompleted
		}
		for i, fe := range fh.Entries {
			if fe == nil {
				continue
			}
			h.Entries[i] = &matchdomain.SideEntry{
				Score:    fe.Score,
				Strokes:  fe.Strokes,
				Handicap: fe.Handicap,
				Players:  fe.Players,
			}
		}
		holes = append(holes, h)
	}
	return standingsdomain.MatchRecord{Match: m, Holes: holes}, nil
}
