package matchdomain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHole marks a hole whose data cannot be interpreted.
	ErrMalformedHole = errors.New("malformed hole")
	// ErrIncompleteHole is returned when a definitive result is demanded from a hole still missing scores.
	ErrIncompleteHole = errors.New("incomplete hole")
	// ErrAmbiguousResult is returned when a final result is demanded from a match that is not finished.
	ErrAmbiguousResult = errors.New("ambiguous result")
	// ErrInconsistentTeamReference marks a match pointing at a team that is missing or in another division.
	ErrInconsistentTeamReference = errors.New("inconsistent team reference")
)

// MalformedHoleError describes why a hole was rejected.
type MalformedHoleError struct {
	Hole   int
	Reason string
}

func (e *MalformedHoleError) Error() string {
	return fmt.Sprintf("malformed hole %d: %s", e.Hole, e.Reason)
}

func (e *MalformedHoleError) Unwrap() error { return ErrMalformedHole }

// TeamReferenceError describes a match whose side points at an unusable team.
type TeamReferenceError struct {
	MatchID string
	Side    Side
	Team    TeamID
	Reason  string
}

func (e *TeamReferenceError) Error() string {
	return fmt.Sprintf("match %s side %s references team %q: %s", e.MatchID, e.Side, e.Team, e.Reason)
}

func (e *TeamReferenceError) Unwrap() error { return ErrInconsistentTeamReference }

// FindingKind classifies a non-fatal data problem.
type FindingKind string

const (
	FindingMalformedHole        FindingKind = "malformed-hole"
	FindingInconsistentTeamRef  FindingKind = "inconsistent-team-reference"
	FindingMalformedMatch       FindingKind = "malformed-match"
	FindingStoredStatusMismatch FindingKind = "stored-status-mismatch"
)

// FindingKinds lists every kind of finding.
func FindingKinds() []FindingKind {
	return []FindingKind{FindingMalformedHole, FindingInconsistentTeamRef, FindingMalformedMatch, FindingStoredStatusMismatch}
}

// Finding is a data problem that was isolated and skipped.
type Finding struct {
	Kind    FindingKind
	MatchID string
	Hole    int
	Err     error
}

func (f Finding) String() string {
	if f.Hole > 0 {
		return fmt.Sprintf("%s: match %s hole %d: %v", f.Kind, f.MatchID, f.Hole, f.Err)
	}
	return fmt.Sprintf("%s: match %s: %v", f.Kind, f.MatchID, f.Err)
}
