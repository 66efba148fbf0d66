package standingsdomain

import (
	"cmp"
	"fmt"
	"slices"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

// ScoredMatch pairs a match with its derived state.
type ScoredMatch struct {
	Match matchdomain.Match
	State matchdomain.MatchState
}

// Finished reports whether the match carries a final result.
func (sm ScoredMatch) Finished() bool { return sm.State.Result != nil }

// Award is one team's result in one match. In per-session accrual the points
// are carried by the SessionAward instead and Points is zero here.
type Award struct {
	MatchID string
	Team    matchdomain.TeamID
	Side    matchdomain.Side
	Session matchdomain.Session
	Result  ResultType
	Points  Points
}

// SessionAward is one team's aggregated result in one session.
type SessionAward struct {
	Team    matchdomain.TeamID
	Session matchdomain.Session
	Wins    int
	Ties    int
	Losses  int
	Result  ResultType
	Points  Points
}

// Allocation is the points outcome for a division.
type Allocation struct {
	Division matchdomain.Division
	Accrual  Accrual
	Awards   []Award
	Sessions []SessionAward
}

// PointsFor sums the points credited to team.
func (a Allocation) PointsFor(team matchdomain.TeamID) Points {
	var total Points
	if a.Accrual == AccrualPerSession {
		for _, s := range a.Sessions {
			if s.Team == team {
				total += s.Points
			}
		}
		return total
	}
	for _, aw := range a.Awards {
		if aw.Team == team {
			total += aw.Points
		}
	}
	return total
}

// ResultTypes maps a finished match result onto a win, tie or loss for each side.
func ResultTypes(st matchdomain.MatchState) ([]ResultType, error) {
	res, err := st.RequireResult()
	if err != nil {
		return nil, err
	}
	out := make([]ResultType, st.Sides)
	for i := range out {
		side := matchdomain.Side(i)
		switch {
		case res.Kind == matchdomain.ResultWin || res.Kind == matchdomain.ResultBye:
			if res.Winner(side) {
				out[i] = ResultTypeWin
			} else {
				out[i] = ResultTypeLoss
			}
		case res.Winner(side):
			out[i] = ResultTypeTie
		default:
			out[i] = ResultTypeLoss
		}
	}
	return out, nil
}

// matchPoints applies a row to one side's result. Only an all-square
// three-way match is affected by the tie rule.
func matchPoints(row Row, rule ThreeWayTieRule, kind matchdomain.ResultKind, rt ResultType) Points {
	if kind == matchdomain.ResultThreeWayTie && rule == ThreeWayTieSplit {
		return row.Tie * 2 / 3
	}
	return row.For(rt)
}

// sessionResult reduces a session record to one result.
func sessionResult(wins, losses int) ResultType {
	switch {
	case wins > losses:
		return ResultTypeWin
	case wins < losses:
		return ResultTypeLoss
	default:
		return ResultTypeTie
	}
}

// sessionPoints maps a reduced session through the row. A session whose only
// results are three-way all-square matches is a three-way tie and follows the
// division's tie rule, as it would under per-match accrual.
func sessionPoints(row Row, rule ThreeWayTieRule, sa SessionAward, allSquare int) Points {
	if sa.Result == ResultTypeTie && sa.Wins == 0 && sa.Losses == 0 && allSquare == sa.Ties {
		return matchPoints(row, rule, matchdomain.ResultThreeWayTie, ResultTypeTie)
	}
	return row.For(sa.Result)
}

// Allocate converts finished matches into points for the division. Matches
// still in progress earn nothing. A missing table row fails the whole call.
func Allocate(table PointTable, division matchdomain.Division, matches []ScoredMatch) (Allocation, error) {
	dt, err := table.Division(division)
	if err != nil {
		return Allocation{}, err
	}
	alloc := Allocation{Division: division, Accrual: dt.Accrual}

	type key struct {
		team    matchdomain.TeamID
		session matchdomain.Session
	}
	sessions := make(map[key]*SessionAward)
	// allSquare counts the three-way all-square matches behind each session's ties.
	allSquare := make(map[key]int)

	for _, sm := range matches {
		if !sm.Finished() || sm.Match.Division != division {
			continue
		}
		row, err := dt.Row(division, sm.Match.Session)
		if err != nil {
			return Allocation{}, err
		}
		types, err := ResultTypes(sm.State)
		if err != nil {
			return Allocation{}, fmt.Errorf("match %s: %w", sm.Match.ID, err)
		}
		teams := sm.Match.Sides.Teams()

		for i, rt := range types {
			aw := Award{
				MatchID: sm.Match.ID,
				Team:    teams[i],
				Side:    matchdomain.Side(i),
				Session: sm.Match.Session,
				Result:  rt,
			}
			if dt.Accrual == AccrualPerMatch {
				aw.Points = matchPoints(row, dt.ThreeWayTie, sm.State.Result.Kind, rt)
			}
			alloc.Awards = append(alloc.Awards, aw)

			k := key{team: teams[i], session: sm.Match.Session}
			sa, ok := sessions[k]
			if !ok {
				sa = &SessionAward{Team: k.team, Session: k.session}
				sessions[k] = sa
			}
			switch rt {
			case ResultTypeWin:
				sa.Wins++
			case ResultTypeTie:
				sa.Ties++
				if sm.State.Result.Kind == matchdomain.ResultThreeWayTie {
					allSquare[k]++
				}
			default:
				sa.Losses++
			}
		}
	}

	slices.SortFunc(alloc.Awards, func(a, b Award) int {
		if c := cmp.Compare(a.Session.Order(), b.Session.Order()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.MatchID, b.MatchID); c != 0 {
			return c
		}
		return cmp.Compare(a.Side, b.Side)
	})

	for _, sa := range sessions {
		sa.Result = sessionResult(sa.Wins, sa.Losses)
		if dt.Accrual == AccrualPerSession {
			row, err := dt.Row(division, sa.Session)
			if err != nil {
				return Allocation{}, err
			}
			sa.Points = sessionPoints(row, dt.ThreeWayTie, *sa, allSquare[key{team: sa.Team, session: sa.Session}])
		} else {
			for _, aw := range alloc.Awards {
				if aw.Team == sa.Team && aw.Session == sa.Session {
					sa.Points += aw.Points
				}
			}
		}
		alloc.Sessions = append(alloc.Sessions, *sa)
	}

	slices.SortFunc(alloc.Sessions, func(a, b SessionAward) int {
		if c := cmp.Compare(a.Session.Order(), b.Session.Order()); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})
	return alloc, nil
}
