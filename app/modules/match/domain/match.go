package matchdomain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ResultKind is the shape of a finished match result.
type ResultKind string

const (
	ResultWin ResultKind = "win"
	// ResultHalved is a two-way match level after every hole.
	ResultHalved ResultKind = "halved"
	// ResultTwoWayTie is a three-way match where two sides share the lead.
	ResultTwoWayTie ResultKind = "two-way-tie"
	// ResultThreeWayTie is a three-way match with all sides level.
	ResultThreeWayTie ResultKind = "three-way-tie"
	ResultBye         ResultKind = "bye"
)

// Label constants used in result strings.
const (
	LabelAllSquare = "AS"
	LabelBye       = "BYE"
)

// Result is the final outcome of a completed match.
type Result struct {
	Kind ResultKind
	// Winners holds the sole winner, or every side sharing the top in a tie.
	Winners []Side
	Losers  []Side
	// Margin is the leader's holes up over the next side.
	Margin    int
	Remaining int
	Clinched  bool
	Label     string
}

// Winner reports whether s is among the result's winners.
func (r Result) Winner(s Side) bool { return slices.Contains(r.Winners, s) }

// MatchState is the derived view of a match. It is rebuilt from holes on every call.
type MatchState struct {
	MatchID   string
	Sides     int
	Status    MatchStatus
	Length    int
	Played    int
	Through   int
	Remaining int
	Halved    int
	// Per-side tallies indexed by Side.
	HolesWon     []int
	NetStrokes   []int
	GrossStrokes []int
	GrossHoles   []int
	// Differential is the sum over decided holes of each opponent's net score minus the side's own.
	Differential []int
	// Label is the running score, e.g. "A 2 UP thru 7", or the result label once completed.
	Label    string
	Outcomes []HoleOutcome
	Result   *Result
	Findings []Finding
}

// HolesLost returns how many holes another side won outright against s.
func (st MatchState) HolesLost(s Side) int {
	total := 0
	for i, w := range st.HolesWon {
		if Side(i) != s {
			total += w
		}
	}
	return total
}

// RequireResult returns the final result or ErrAmbiguousResult if the match is not finished.
func (st MatchState) RequireResult() (Result, error) {
	if st.Result == nil {
		return Result{}, fmt.Errorf("match %s is %s: %w", st.MatchID, st.Status, ErrAmbiguousResult)
	}
	return *st.Result, nil
}

// ComputeMatch derives status and result from the match definition and its holes.
// It never fails: bad holes are skipped and reported in Findings, and holes
// still missing scores are left out of the tally. Scoring stops once a side
// has clinched, so holes played after that point do not count.
func ComputeMatch(m Match, holes []Hole) MatchState {
	st := MatchState{MatchID: m.ID, Length: m.Length(), Status: StatusScheduled}

	switch sides := m.Sides.(type) {
	case nil:
		st.Findings = append(st.Findings, Finding{
			Kind:    FindingMalformedMatch,
			MatchID: m.ID,
			Err:     errors.New("match has no sides"),
		})
		st.Label = string(StatusScheduled)
		return st
	case Bye:
		st.Sides = 1
		st.Status = StatusBye
		st.Label = LabelBye
		st.HolesWon = []int{0}
		st.NetStrokes = []int{0}
		st.GrossStrokes = []int{0}
		st.GrossHoles = []int{0}
		st.Differential = []int{0}
		st.Result = &Result{Kind: ResultBye, Winners: []Side{SideA}, Label: LabelBye}
		st.Findings = appendStatusMismatch(st.Findings, m, st.Status)
		return st
	default:
		st.Sides = sides.Count()
	}

	n := st.Sides
	st.HolesWon = make([]int, n)
	st.NetStrokes = make([]int, n)
	st.GrossStrokes = make([]int, n)
	st.GrossHoles = make([]int, n)
	st.Differential = make([]int, n)

	ordered := make([]Hole, len(holes))
	copy(ordered, holes)
	slices.SortStableFunc(ordered, func(a, b Hole) int { return cmp.Compare(a.Number, b.Number) })

	seen := make(map[int]int, len(ordered))
	for _, h := range ordered {
		seen[h.Number]++
	}

	for _, h := range ordered {
		if seen[h.Number] > 1 {
			st.Findings = append(st.Findings, malformed(m.ID, h.Number, "duplicate hole number"))
			continue
		}
		if h.Number > st.Length {
			st.Findings = append(st.Findings, malformed(m.ID, h.Number, "hole beyond scheduled match length"))
			continue
		}
		out, err := NormalizeHole(h, n)
		if err != nil {
			st.Findings = append(st.Findings, Finding{Kind: FindingMalformedHole, MatchID: m.ID, Hole: h.Number, Err: err})
			continue
		}
		if !out.Decided() {
			continue
		}
		if st.clinched() {
			// The match ended at the clinch; a played-out card is ignored.
			continue
		}
		st.tally(h, out)
	}

	st.Remaining = st.Length - st.Played
	st.resolve()
	st.Findings = appendStatusMismatch(st.Findings, m, st.Status)
	return st
}

func (st *MatchState) tally(h Hole, out HoleOutcome) {
	st.Played++
	st.Through = h.Number
	st.Outcomes = append(st.Outcomes, out)
	if out.Kind == OutcomeWon {
		st.HolesWon[out.Winner]++
	} else {
		st.Halved++
	}

	total := 0
	for _, p := range out.Ranking {
		st.NetStrokes[p.Side] += p.Score
		total += p.Score
	}
	for _, p := range out.Ranking {
		// Sum of every opponent's score minus (sides-1) copies of our own.
		st.Differential[p.Side] += total - st.Sides*p.Score
	}
	for i, e := range h.Entries {
		if g, ok := e.Gross(); ok {
			st.GrossStrokes[i] += g
			st.GrossHoles[i]++
		}
	}
}

// clinched reports whether the leader is more holes up than remain.
func (st *MatchState) clinched() bool {
	remaining := st.Length - st.Played
	if st.Played == 0 || remaining <= 0 {
		return false
	}
	order := st.standing()
	return st.HolesWon[order[0]]-st.HolesWon[order[1]] > remaining
}

// standing orders sides by holes won, best first.
func (st *MatchState) standing() []Side {
	order := make([]Side, st.Sides)
	for i := range order {
		order[i] = Side(i)
	}
	slices.SortStableFunc(order, func(a, b Side) int {
		return cmp.Compare(st.HolesWon[b], st.HolesWon[a])
	})
	return order
}

func (st *MatchState) resolve() {
	if st.Played == 0 {
		st.Status = StatusScheduled
		st.Label = string(StatusScheduled)
		return
	}

	order := st.standing()
	leader, second := order[0], order[1]
	margin := st.HolesWon[leader] - st.HolesWon[second]
	clinched := margin > st.Remaining && st.Remaining > 0

	if !clinched && st.Remaining > 0 {
		st.Status = StatusInProgress
		if margin == 0 {
			st.Label = fmt.Sprintf("%s thru %d", LabelAllSquare, st.Through)
		} else {
			st.Label = fmt.Sprintf("%s %d UP thru %d", leader, margin, st.Through)
		}
		return
	}

	st.Status = StatusCompleted
	res := &Result{Margin: margin, Remaining: st.Remaining, Clinched: clinched}

	switch {
	case margin > 0:
		res.Kind = ResultWin
		res.Winners = []Side{leader}
		res.Losers = order[1:]
		if clinched {
			res.Label = fmt.Sprintf("%d&%d", margin, st.Remaining)
		} else {
			res.Label = fmt.Sprintf("%d UP", margin)
		}
	case st.Sides == 2:
		res.Kind = ResultHalved
		res.Winners = []Side{SideA, SideB}
		res.Label = LabelAllSquare
	case st.HolesWon[second] == st.HolesWon[order[2]]:
		res.Kind = ResultThreeWayTie
		res.Winners = []Side{SideA, SideB, SideC}
		res.Label = LabelAllSquare
	default:
		res.Kind = ResultTwoWayTie
		res.Winners = []Side{leader, second}
		slices.Sort(res.Winners)
		res.Losers = []Side{order[2]}
		res.Label = LabelAllSquare
	}
	if len(res.Losers) > 1 {
		res.Losers = slices.Clone(res.Losers)
		slices.Sort(res.Losers)
	}

	st.Result = res
	st.Label = res.Label
}

func malformed(matchID string, hole int, reason string) Finding {
	return Finding{
		Kind:    FindingMalformedHole,
		MatchID: matchID,
		Hole:    hole,
		Err:     &MalformedHoleError{Hole: hole, Reason: reason},
	}
}

func appendStatusMismatch(findings []Finding, m Match, derived MatchStatus) []Finding {
	if m.Status == "" || m.Status == derived {
		return findings
	}
	return append(findings, Finding{
		Kind:    FindingStoredStatusMismatch,
		MatchID: m.ID,
		Err:     fmt.Errorf("stored status %q, derived %q", m.Status, derived),
	})
}
