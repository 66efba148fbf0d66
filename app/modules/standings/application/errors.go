package standingsservice

import "errors"

// Business failures returned inside an OperationResult rather than as errors.
var (
	// ErrUnknownDivision indicates the division name is not one of the fixed tiers.
	ErrUnknownDivision = errors.New("unknown division")

	// ErrStandingsNotFound indicates the division has never been recomputed.
	ErrStandingsNotFound = errors.New("standings not found")

	// ErrNoChartData indicates there are no rows to draw.
	ErrNoChartData = errors.New("no standings to chart")
)
