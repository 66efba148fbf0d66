package standingsservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsdb "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/repositories"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
)

// GetStandings returns the last computed table of a division.
func (s *StandingsService) GetStandings(ctx context.Context, division string) (results.OperationResult[StandingsView, error], error) {
	return withTelemetry(s, ctx, "GetStandings", division, func(ctx context.Context) (results.OperationResult[StandingsView, error], error) {
		return s.loadView(ctx, division)
	})
}

func (s *StandingsService) loadView(ctx context.Context, division string) (results.OperationResult[StandingsView, error], error) {
	d, err := matchdomain.ParseDivision(division)
	if err != nil {
		return results.FailureResult[StandingsView](fmt.Errorf("%w: %q", ErrUnknownDivision, division)), nil
	}

	return runInTx(s, ctx, readOnlyTx, func(ctx context.Context, db bun.IDB) (results.OperationResult[StandingsView, error], error) {
		snap, err := s.repo.GetSnapshot(ctx, db, string(d))
		if errors.Is(err, standingsdb.ErrNotFound) {
			return results.FailureResult[StandingsView](ErrStandingsNotFound), nil
		}
		if err != nil {
			return results.OperationResult[StandingsView, error]{}, err
		}
		rows, err := s.repo.GetStandings(ctx, db, string(d))
		if err != nil {
			return results.OperationResult[StandingsView, error]{}, err
		}

		view := StandingsView{
			Division:         d,
			LatestSession:    matchdomain.Session(snap.LatestSession),
			InsufficientData: snap.InsufficientData,
			Findings:         snap.Findings,
			RunID:            snap.RunID,
			ComputedAt:       snap.ComputedAt,
		}
		for _, r := range rows {
			view.Standings = append(view.Standings, standingsdb.ToDomainStanding(r))
		}
		return results.SuccessResult[StandingsView, error](view), nil
	})
}

// ExportStandingsXLSX renders the last computed table as a workbook.
func (s *StandingsService) ExportStandingsXLSX(ctx context.Context, division string) (results.OperationResult[[]byte, error], error) {
	return withTelemetry(s, ctx, "ExportStandingsXLSX", division, func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		view, err := s.loadView(ctx, division)
		if err != nil || view.IsFailure() {
			return failureOf[[]byte](view), err
		}
		data, err := BuildStandingsWorkbook(*view.Success)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
}

// RenderStandingsChart renders the last computed table as a PNG bar chart.
func (s *StandingsService) RenderStandingsChart(ctx context.Context, division string) (results.OperationResult[[]byte, error], error) {
	return withTelemetry(s, ctx, "RenderStandingsChart", division, func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		view, err := s.loadView(ctx, division)
		if err != nil || view.IsFailure() {
			return failureOf[[]byte](view), err
		}
		data, err := GenerateStandingsChart(*view.Success, DefaultPalette)
		if errors.Is(err, ErrNoChartData) {
			return results.FailureResult[[]byte](err), nil
		}
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
}

// failureOf carries a failure across result types.
func failureOf[T any](r results.OperationResult[StandingsView, error]) results.OperationResult[T, error] {
	if r.Failure == nil {
		return results.OperationResult[T, error]{}
	}
	return results.FailureResult[T](*r.Failure)
}
