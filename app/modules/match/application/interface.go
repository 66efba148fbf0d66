package matchservice

import (
	"context"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
)

// MatchView is a match with its raw holes and derived state.
type MatchView struct {
	Match matchdomain.Match
	Holes []matchdomain.Hole
	State matchdomain.MatchState
}

// Service reads matches and evaluates scorecards. It never writes.
type Service interface {
	// GetMatch returns the stored match with its derived state.
	GetMatch(ctx context.Context, matchID string) (results.OperationResult[MatchView, error], error)

	// PreviewScorecard evaluates an uploaded scorecard against a stored match
	// without persisting anything.
	PreviewScorecard(ctx context.Context, matchID, fileName string, data []byte) (results.OperationResult[MatchView, error], error)
}
