package standingsservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
)

// RecomputeOutcome describes one recompute run.
type RecomputeOutcome struct {
	Division matchdomain.Division
	RunID    uuid.UUID
	Hash     string
	// Skipped is set when the inputs were unchanged since the last run; Report is empty then.
	Skipped    bool
	Report     standingsdomain.Report
	ComputedAt time.Time
}

// StandingsView is the persisted table of a division.
type StandingsView struct {
	Division         matchdomain.Division
	Standings        []standingsdomain.Standing
	LatestSession    matchdomain.Session
	InsufficientData bool
	Findings         int
	RunID            uuid.UUID
	ComputedAt       time.Time
}

// Service recomputes and serves division standings.
type Service interface {
	// RecomputeDivision rebuilds the division table from stored match data.
	RecomputeDivision(ctx context.Context, division string) (results.OperationResult[RecomputeOutcome, error], error)

	// GetStandings returns the last computed table.
	GetStandings(ctx context.Context, division string) (results.OperationResult[StandingsView, error], error)

	// ExportStandingsXLSX renders the last computed table as a workbook.
	ExportStandingsXLSX(ctx context.Context, division string) (results.OperationResult[[]byte, error], error)

	// RenderStandingsChart renders the last computed table as a PNG bar chart.
	RenderStandingsChart(ctx context.Context, division string) (results.OperationResult[[]byte, error], error)
}
