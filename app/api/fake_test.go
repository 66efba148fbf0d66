package api

import (
	"context"

	matchservice "github.com/Black-And-White-Club/teamcup/app/modules/match/application"
	standingsservice "github.com/Black-And-White-Club/teamcup/app/modules/standings/application"
	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
)

type FakeMatchService struct {
	trace []string

	GetMatchFunc         func(ctx context.Context, matchID string) (results.OperationResult[matchservice.MatchView, error], error)
	PreviewScorecardFunc func(ctx context.Context, matchID, fileName string, data []byte) (results.OperationResult[matchservice.MatchView, error], error)
}

func (f *FakeMatchService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeMatchService) Trace() []string { return f.trace }

func (f *FakeMatchService) GetMatch(ctx context.Context, matchID string) (results.OperationResult[matchservice.MatchView, error], error) {
	f.record("GetMatch")
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, matchID)
	}
	return results.FailureResult[matchservice.MatchView](matchservice.ErrMatchNotFound), nil
}

func (f *FakeMatchService) PreviewScorecard(ctx context.Context, matchID, fileName string, data []byte) (results.OperationResult[matchservice.MatchView, error], error) {
	f.record("PreviewScorecard")
	if f.PreviewScorecardFunc != nil {
		return f.PreviewScorecardFunc(ctx, matchID, fileName, data)
	}
	return results.FailureResult[matchservice.MatchView](matchservice.ErrMatchNotFound), nil
}

type FakeStandingsService struct {
	trace []string

	RecomputeDivisionFunc    func(ctx context.Context, division string) (results.OperationResult[standingsservice.RecomputeOutcome, error], error)
	GetStandingsFunc         func(ctx context.Context, division string) (results.OperationResult[standingsservice.StandingsView, error], error)
	ExportStandingsXLSXFunc  func(ctx context.Context, division string) (results.OperationResult[[]byte, error], error)
	RenderStandingsChartFunc func(ctx context.Context, division string) (results.OperationResult[[]byte, error], error)
}

func (f *FakeStandingsService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeStandingsService) Trace() []string { return f.trace }

func (f *FakeStandingsService) RecomputeDivision(ctx context.Context, division string) (results.OperationResult[standingsservice.RecomputeOutcome, error], error) {
	f.record("RecomputeDivision")
	if f.RecomputeDivisionFunc != nil {
		return f.RecomputeDivisionFunc(ctx, division)
	}
	return results.OperationResult[standingsservice.RecomputeOutcome, error]{}, nil
}

func (f *FakeStandingsService) GetStandings(ctx context.Context, division string) (results.OperationResult[standingsservice.StandingsView, error], error) {
	f.record("GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx, division)
	}
	return results.FailureResult[standingsservice.StandingsView](standingsservice.ErrStandingsNotFound), nil
}

func (f *FakeStandingsService) ExportStandingsXLSX(ctx context.Context, division string) (results.OperationResult[[]byte, error], error) {
	f.record("ExportStandingsXLSX")
	if f.ExportStandingsXLSXFunc != nil {
		return f.ExportStandingsXLSXFunc(ctx, division)
	}
	return results.FailureResult[[]byte](standingsservice.ErrStandingsNotFound), nil
}

func (f *FakeStandingsService) RenderStandingsChart(ctx context.Context, division string) (results.OperationResult[[]byte, error], error) {
	f.record("RenderStandingsChart")
	if f.RenderStandingsChartFunc != nil {
		return f.RenderStandingsChartFunc(ctx, division)
	}
	return results.FailureResult[[]byte](standingsservice.ErrStandingsNotFound), nil
}

type FakeScheduler struct {
	Divisions []string
	Err       error
}

func (f *FakeScheduler) ScheduleRecompute(_ context.Context, division string) error {
	f.Divisions = append(f.Divisions, division)
	return f.Err
}

var (
	_ matchservice.Service     = (*FakeMatchService)(nil)
	_ standingsservice.Service = (*FakeStandingsService)(nil)
	_ standingsqueue.Scheduler = (*FakeScheduler)(nil)
)
