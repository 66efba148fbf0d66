package standingsqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	standingsservice "github.com/Black-And-White-Club/teamcup/app/modules/standings/application"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
)

// Recomputer is the part of the standings service the worker drives.
type Recomputer interface {
	RecomputeDivision(ctx context.Context, division string) (results.OperationResult[standingsservice.RecomputeOutcome, error], error)
}

// RecomputeWorker runs standings_recompute jobs.
type RecomputeWorker struct {
	river.WorkerDefaults[RecomputeArgs]
	service Recomputer
	logger  *slog.Logger
}

// NewRecomputeWorker creates a RecomputeWorker.
func NewRecomputeWorker(service Recomputer, logger *slog.Logger) *RecomputeWorker {
	return &RecomputeWorker{service: service, logger: logger}
}

// Work recomputes the division named by the job. Infrastructure errors are
// returned so River retries the job; business failures cancel it since a retry
// would see the same input.
func (w *RecomputeWorker) Work(ctx context.Context, job *river.Job[RecomputeArgs]) error {
	logger := w.logger.With(
		attr.Division(job.Args.Division),
		attr.String("job_kind", job.Args.Kind()),
	)

	result, err := w.service.RecomputeDivision(ctx, job.Args.Division)
	if err != nil {
		logger.ErrorContext(ctx, "Standings recompute failed", attr.Error(err))
		return fmt.Errorf("recompute %s: %w", job.Args.Division, err)
	}

	if result.IsFailure() {
		failure := *result.Failure
		logger.WarnContext(ctx, "Standings recompute rejected", attr.Error(failure))
		return river.JobCancel(failure)
	}

	outcome := result.Success
	if outcome.Skipped {
		logger.DebugContext(ctx, "Standings unchanged, recompute skipped", attr.String("hash", outcome.Hash))
		return nil
	}

	logger.InfoContext(ctx, "Standings recomputed",
		attr.String("run_id", outcome.RunID.String()),
		attr.Int("findings", len(outcome.Report.Findings)),
	)
	return nil
}
