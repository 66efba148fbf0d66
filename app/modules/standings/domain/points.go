package standingsdomain

import (
	"errors"
	"fmt"
	"strconv"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

// Points is a team's standings score. Half points are common and three-way
// splits produce thirds, so it is fractional.
type Points float64

func (p Points) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

// ResultType is a team's result in one match or session.
type ResultType string

const (
	ResultTypeWin  ResultType = "win"
	ResultTypeTie  ResultType = "tie"
	ResultTypeLoss ResultType = "loss"
)

// Row holds the points for each result type in one (division, session) cell.
type Row struct {
	Win  Points
	Tie  Points
	Loss Points
}

// For returns the points awarded for the result type.
func (r Row) For(rt ResultType) Points {
	switch rt {
	case ResultTypeWin:
		return r.Win
	case ResultTypeTie:
		return r.Tie
	default:
		return r.Loss
	}
}

// Accrual selects how match results turn into standings points.
type Accrual string

const (
	// AccrualPerMatch awards points for every match.
	AccrualPerMatch Accrual = "per-match"
	// AccrualPerSession reduces a team's matches in a session to one session result first.
	AccrualPerSession Accrual = "per-session"
)

// ThreeWayTieRule decides how an all-square three-way match is paid out.
type ThreeWayTieRule string

const (
	// ThreeWayTieSplit shares the points of a two-way halve (twice the tie value) across all three sides.
	ThreeWayTieSplit ThreeWayTieRule = "split"
	// ThreeWayTieDuplicate gives every side the full tie value.
	ThreeWayTieDuplicate ThreeWayTieRule = "duplicate"
)

var (
	// ErrUnknownPointsRow is returned when the point table has no entry for a lookup.
	ErrUnknownPointsRow = errors.New("unknown points row")
	// ErrInvalidPointTable is returned when a configured table cannot be used.
	ErrInvalidPointTable = errors.New("invalid point table")
)

// UnknownPointsRowError names the missing cell.
type UnknownPointsRowError struct {
	Division matchdomain.Division
	Session  matchdomain.Session
}

func (e *UnknownPointsRowError) Error() string {
	if e.Session == "" {
		return fmt.Sprintf("no points configured for division %q", e.Division)
	}
	return fmt.Sprintf("no points configured for division %q session %q", e.Division, e.Session)
}

func (e *UnknownPointsRowError) Unwrap() error { return ErrUnknownPointsRow }

// DivisionTable is the points configuration for one division.
type DivisionTable struct {
	Accrual     Accrual
	ThreeWayTie ThreeWayTieRule
	Sessions    map[matchdomain.Session]Row
}

// Validate checks that every session slot has a row and the modes are known.
func (dt DivisionTable) Validate(d matchdomain.Division) error {
	switch dt.Accrual {
	case AccrualPerMatch, AccrualPerSession:
	default:
		return fmt.Errorf("%w: division %q has unknown accrual %q", ErrInvalidPointTable, d, dt.Accrual)
	}
	switch dt.ThreeWayTie {
	case ThreeWayTieSplit, ThreeWayTieDuplicate:
	default:
		return fmt.Errorf("%w: division %q has unknown three-way tie rule %q", ErrInvalidPointTable, d, dt.ThreeWayTie)
	}
	for _, s := range matchdomain.Sessions() {
		row, ok := dt.Sessions[s]
		if !ok {
			return &UnknownPointsRowError{Division: d, Session: s}
		}
		if row.Win < 0 || row.Tie < 0 || row.Loss < 0 {
			return fmt.Errorf("%w: division %q session %q has negative points", ErrInvalidPointTable, d, s)
		}
		if row.Win < row.Tie || row.Tie < row.Loss {
			return fmt.Errorf("%w: division %q session %q must satisfy win >= tie >= loss", ErrInvalidPointTable, d, s)
		}
	}
	for s := range dt.Sessions {
		if !s.Valid() {
			return fmt.Errorf("%w: division %q has unknown session %q", ErrInvalidPointTable, d, s)
		}
	}
	return nil
}

// Row looks up the points row for a session.
func (dt DivisionTable) Row(d matchdomain.Division, s matchdomain.Session) (Row, error) {
	row, ok := dt.Sessions[s]
	if !ok {
		return Row{}, &UnknownPointsRowError{Division: d, Session: s}
	}
	return row, nil
}

// PointTable maps divisions to their points configuration.
type PointTable struct {
	Divisions map[matchdomain.Division]DivisionTable
	// Defaults used when a division table is derived from team configuration.
	DefaultAccrual     Accrual
	DefaultThreeWayTie ThreeWayTieRule
}

// Validate checks every configured division. Divisions without a table are
// allowed here and fail with ErrUnknownPointsRow when looked up.
func (t PointTable) Validate() error {
	for _, d := range matchdomain.Divisions() {
		dt, ok := t.Divisions[d]
		if !ok {
			continue
		}
		if err := dt.Validate(d); err != nil {
			return err
		}
	}
	for d := range t.Divisions {
		if !d.Valid() {
			return fmt.Errorf("%w: unknown division %q", ErrInvalidPointTable, d)
		}
	}
	return nil
}

// Division returns the table for d.
func (t PointTable) Division(d matchdomain.Division) (DivisionTable, error) {
	dt, ok := t.Divisions[d]
	if !ok {
		return DivisionTable{}, &UnknownPointsRowError{Division: d}
	}
	return dt, nil
}

// Row returns the points row for (d, s).
func (t PointTable) Row(d matchdomain.Division, s matchdomain.Session) (Row, error) {
	dt, err := t.Division(d)
	if err != nil {
		return Row{}, err
	}
	return dt.Row(d, s)
}

// WithDivision returns a copy of the table with dt set for d.
func (t PointTable) WithDivision(d matchdomain.Division, dt DivisionTable) PointTable {
	out := t
	out.Divisions = make(map[matchdomain.Division]DivisionTable, len(t.Divisions)+1)
	for k, v := range t.Divisions {
		out.Divisions[k] = v
	}
	out.Divisions[d] = dt
	return out
}

// DivisionTableFromTeams builds a division table from the teams' own
// per-session win values: a tie is worth half a win and a loss nothing.
// Every team in the division must agree on the values.
func DivisionTableFromTeams(d matchdomain.Division, teams []matchdomain.Team, accrual Accrual, rule ThreeWayTieRule) (DivisionTable, error) {
	dt := DivisionTable{Accrual: accrual, ThreeWayTie: rule, Sessions: make(map[matchdomain.Session]Row)}

	found := false
	for _, team := range teams {
		if team.Division != d {
			continue
		}
		if err := team.Validate(); err != nil {
			return DivisionTable{}, fmt.Errorf("%w: %v", ErrInvalidPointTable, err)
		}
		for _, s := range matchdomain.Sessions() {
			win := Points(team.Sessions[s].PointsPerWin)
			row := Row{Win: win, Tie: win / 2}
			if prev, ok := dt.Sessions[s]; ok && prev != row {
				return DivisionTable{}, fmt.Errorf("%w: teams in %q disagree on points for %q", ErrInvalidPointTable, d, s)
			}
			dt.Sessions[s] = row
		}
		found = true
	}
	if !found {
		return DivisionTable{}, &UnknownPointsRowError{Division: d}
	}
	if err := dt.Validate(d); err != nil {
		return DivisionTable{}, err
	}
	return dt, nil
}
