package matchservice

import "errors"

// Business failures returned inside an OperationResult rather than as errors.
var (
	// ErrMatchNotFound indicates the requested match does not exist.
	ErrMatchNotFound = errors.New("match not found")

	// ErrInvalidScorecard indicates an uploaded scorecard could not be read.
	ErrInvalidScorecard = errors.New("invalid scorecard")
)
