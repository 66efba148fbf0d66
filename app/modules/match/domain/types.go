package matchdomain

import "fmt"

// Division is one of the fixed competition tiers.
type Division string

const (
	DivisionChampionship Division = "championship"
	DivisionPremier      Division = "premier"
	DivisionFirst        Division = "first"
	DivisionSecond       Division = "second"
	DivisionThird        Division = "third"
)

// Divisions returns every division in display order.
func Divisions() []Division {
	return []Division{DivisionChampionship, DivisionPremier, DivisionFirst, DivisionSecond, DivisionThird}
}

// Valid reports whether d is one of the known divisions.
func (d Division) Valid() bool {
	switch d {
	case DivisionChampionship, DivisionPremier, DivisionFirst, DivisionSecond, DivisionThird:
		return true
	}
	return false
}

// ParseDivision converts a raw string into a Division.
func ParseDivision(s string) (Division, error) {
	d := Division(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown division %q", s)
	}
	return d, nil
}

// MatchType is the playing format of a match.
type MatchType string

const (
	MatchTypeFourball  MatchType = "4BBB"
	MatchTypeFoursomes MatchType = "Foursomes"
	MatchTypeSingles   MatchType = "Singles"
)

// Session is one of the five tournament session slots.
type Session string

const (
	SessionFriAMFourball  Session = "fri-am-fourball"
	SessionFriPMFoursomes Session = "fri-pm-foursomes"
	SessionSatAMFourball  Session = "sat-am-fourball"
	SessionSatPMFoursomes Session = "sat-pm-foursomes"
	SessionSunSingles     Session = "sun-singles"
)

var sessionOrder = []Session{
	SessionFriAMFourball,
	SessionFriPMFoursomes,
	SessionSatAMFourball,
	SessionSatPMFoursomes,
	SessionSunSingles,
}

// Sessions returns the session slots in playing order.
func Sessions() []Session {
	out := make([]Session, len(sessionOrder))
	copy(out, sessionOrder)
	return out
}

// Order returns the zero-based playing order of the session, or -1 if unknown.
func (s Session) Order() int {
	for i, v := range sessionOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known session slots.
func (s Session) Valid() bool { return s.Order() >= 0 }

// MatchType returns the format played in the session.
func (s Session) MatchType() MatchType {
	switch s {
	case SessionFriAMFourball, SessionSatAMFourball:
		return MatchTypeFourball
	case SessionFriPMFoursomes, SessionSatPMFoursomes:
		return MatchTypeFoursomes
	default:
		return MatchTypeSingles
	}
}

// ParseSession converts a raw string into a Session.
func ParseSession(s string) (Session, error) {
	v := Session(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown session %q", s)
	}
	return v, nil
}

// TeamID identifies a team.
type TeamID string

// SessionConfig holds a team's per-session settings.
type SessionConfig struct {
	PointsPerWin float64
	Players      int
	Resting      int
}

// Team is a competing team within one division.
type Team struct {
	ID       TeamID
	Name     string
	Division Division
	Seed     int
	Sessions map[Session]SessionConfig
}

// Validate checks that the team is configured for exactly the five session slots.
func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team has no id")
	}
	if !t.Division.Valid() {
		return fmt.Errorf("team %s: unknown division %q", t.ID, t.Division)
	}
	if len(t.Sessions) != len(sessionOrder) {
		return fmt.Errorf("team %s: expected %d sessions, got %d", t.ID, len(sessionOrder), len(t.Sessions))
	}
	for _, s := range sessionOrder {
		if _, ok := t.Sessions[s]; !ok {
			return fmt.Errorf("team %s: missing session %s", t.ID, s)
		}
	}
	return nil
}

// Side indexes a side within a match. A is always present.
type Side int

const (
	SideA Side = iota
	SideB
	SideC
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	case SideC:
		return "C"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// ParseSide converts "A", "B" or "C" into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "A", "a":
		return SideA, nil
	case "B", "b":
		return SideB, nil
	case "C", "c":
		return SideC, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Sides is the set of teams contesting a match: TwoWay, ThreeWay or Bye.
type Sides interface {
	// Count is the number of competing sides.
	Count() int
	// Teams lists team ids in side order.
	Teams() []TeamID
	isSides()
}

// TwoWay is a standard head-to-head match.
type TwoWay struct {
	A, B TeamID
}

// ThreeWay is a match contested by three sides at once.
type ThreeWay struct {
	A, B, C TeamID
}

// Bye is a match with no opposing side.
type Bye struct {
	A TeamID
}

func (TwoWay) Count() int   { return 2 }
func (ThreeWay) Count() int { return 3 }
func (Bye) Count() int      { return 1 }

func (s TwoWay) Teams() []TeamID   { return []TeamID{s.A, s.B} }
func (s ThreeWay) Teams() []TeamID { return []TeamID{s.A, s.B, s.C} }
func (s Bye) Teams() []TeamID      { return []TeamID{s.A} }

func (TwoWay) isSides()   {}
func (ThreeWay) isSides() {}
func (Bye) isSides()      {}

// HoleStatus is the entry state of a hole as recorded by the scoring app.
type HoleStatus string

const (
	HoleNotStarted HoleStatus = "not-started"
	HoleInProgress HoleStatus = "in-progress"
	HoleCompleted  HoleStatus = "completed"
)

// SideEntry is one side's score record on a hole.
//
// Score is the net match-play score. When it is unset the net score falls back to
// Strokes minus Handicap, and then to the best of the per-player scores.
type SideEntry struct {
	Score    *int
	Strokes  *int
	Handicap int
	Players  []*int
}

// Net returns the side's net score on the hole, if one has been entered.
func (e *SideEntry) Net() (int, bool) {
	if e == nil {
		return 0, false
	}
	if e.Score != nil {
		return *e.Score, true
	}
	if e.Strokes != nil {
		return *e.Strokes - e.Handicap, true
	}
	best, found := 0, false
	for _, p := range e.Players {
		if p == nil {
			continue
		}
		if !found || *p < best {
			best, found = *p, true
		}
	}
	return best, found
}

// Gross returns the side's gross strokes on the hole, if recorded.
func (e *SideEntry) Gross() (int, bool) {
	if e == nil || e.Strokes == nil {
		return 0, false
	}
	return *e.Strokes, true
}

// Hole is one hole of a match. Entries is indexed by Side; a side that is
// absent from the hole has no slot, while a side that has not yet entered a
// score has a nil or empty entry.
type Hole struct {
	Number  int
	Par     int
	Status  HoleStatus
	Entries []*SideEntry
}

// MatchStatus is the derived lifecycle state of a match.
type MatchStatus string

const (
	StatusScheduled  MatchStatus = "scheduled"
	StatusInProgress MatchStatus = "in-progress"
	StatusCompleted  MatchStatus = "completed"
	StatusBye        MatchStatus = "bye"
)

// Terminal reports whether no further hole data can change the status.
func (s MatchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusBye
}

// HolesPerMatch is the default length of a match.
const HolesPerMatch = 18

// Match is a single match in one session.
type Match struct {
	ID       string
	Division Division
	Session  Session
	Type     MatchType
	Sides    Sides
	// Status is whatever the store last recorded. It is never used to derive state.
	Status MatchStatus
	// Holes is the scheduled match length; zero means HolesPerMatch.
	Holes int
}

// Length returns the scheduled number of holes.
func (m Match) Length() int {
	if m.Holes <= 0 || m.Holes > HolesPerMatch {
		return HolesPerMatch
	}
	return m.Holes
}

// Int returns a pointer to v. Handy for building score entries.
func Int(v int) *int { return &v }
