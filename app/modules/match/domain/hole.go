package matchdomain

import (
	"cmp"
	"fmt"
	"slices"
)

// OutcomeKind is the decided state of a single hole.
type OutcomeKind string

const (
	OutcomeUndecided OutcomeKind = "undecided"
	OutcomeWon       OutcomeKind = "won"
	OutcomeTied      OutcomeKind = "tied"
)

// TieKind records how sides tied on a hole.
type TieKind string

const (
	TieNone TieKind = ""
	// TieAll means every side had the same score.
	TieAll TieKind = "all-tied"
	// TieForLow means two of three sides shared the low score, so nobody won the hole.
	TieForLow TieKind = "tied-for-low"
	// TieForSecond means one side won outright and the other two tied behind it.
	TieForSecond TieKind = "tied-for-second"
)

// Placing is one side's position on a hole.
type Placing struct {
	Side  Side
	Score int
	// Place uses competition ranking: tied sides share a place and the next place is skipped.
	Place int
}

// HoleOutcome is the normalized result of a hole.
type HoleOutcome struct {
	Number int
	Kind   OutcomeKind
	// Winner is only meaningful when Kind is OutcomeWon.
	Winner  Side
	Tie     TieKind
	Ranking []Placing
}

// Decided reports whether every side has a score on the hole.
func (o HoleOutcome) Decided() bool { return o.Kind != OutcomeUndecided }

// Won reports whether side s won the hole outright.
func (o HoleOutcome) Won(s Side) bool { return o.Kind == OutcomeWon && o.Winner == s }

// NormalizeHole classifies a hole contested by the given number of sides.
// A hole with any side still missing its score is undecided, not an error.
func NormalizeHole(h Hole, sides int) (HoleOutcome, error) {
	out := HoleOutcome{Number: h.Number, Kind: OutcomeUndecided}

	if sides != 2 && sides != 3 {
		return out, &MalformedHoleError{Hole: h.Number, Reason: fmt.Sprintf("cannot score a hole between %d sides", sides)}
	}
	if h.Number < 1 || h.Number > HolesPerMatch {
		return out, &MalformedHoleError{Hole: h.Number, Reason: "hole number out of range"}
	}
	if len(h.Entries) != sides {
		return out, &MalformedHoleError{
			Hole:   h.Number,
			Reason: fmt.Sprintf("expected entries for %d sides, got %d", sides, len(h.Entries)),
		}
	}

	ranking := make([]Placing, 0, sides)
	for i, e := range h.Entries {
		net, ok := e.Net()
		if !ok {
			return out, nil
		}
		ranking = append(ranking, Placing{Side: Side(i), Score: net})
	}

	slices.SortFunc(ranking, func(a, b Placing) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Side, b.Side)
	})
	for i := range ranking {
		if i > 0 && ranking[i].Score == ranking[i-1].Score {
			ranking[i].Place = ranking[i-1].Place
		} else {
			ranking[i].Place = i + 1
		}
	}
	out.Ranking = ranking

	low, next := ranking[0], ranking[1]
	switch {
	case sides == 2 && low.Score == next.Score:
		out.Kind, out.Tie = OutcomeTied, TieAll
	case sides == 2:
		out.Kind, out.Winner = OutcomeWon, low.Side
	case low.Score == ranking[2].Score:
		out.Kind, out.Tie = OutcomeTied, TieAll
	case low.Score == next.Score:
		out.Kind, out.Tie = OutcomeTied, TieForLow
	case next.Score == ranking[2].Score:
		out.Kind, out.Winner, out.Tie = OutcomeWon, low.Side, TieForSecond
	default:
		out.Kind, out.Winner = OutcomeWon, low.Side
	}
	return out, nil
}

// DecideHole is NormalizeHole for callers that need a definitive result.
// It returns ErrIncompleteHole when any side is still missing a score.
func DecideHole(h Hole, sides int) (HoleOutcome, error) {
	out, err := NormalizeHole(h, sides)
	if err != nil {
		return out, err
	}
	if !out.Decided() {
		return out, fmt.Errorf("hole %d: %w", h.Number, ErrIncompleteHole)
	}
	return out, nil
}
