package matchservice

import (
	"context"

	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeMatchRepository provides a programmable stub for matchdb.Repository.
type FakeMatchRepository struct {
	trace []string

	ListTeamsFunc      func(ctx context.Context, db bun.IDB) ([]matchdb.Team, error)
	ListMatchesFunc    func(ctx context.Context, db bun.IDB, division string) ([]matchdb.Match, error)
	GetMatchFunc       func(ctx context.Context, db bun.IDB, matchID string) (*matchdb.Match, error)
	ListHolesFunc      func(ctx context.Context, db bun.IDB, matchIDs []string) ([]matchdb.Hole, error)
	ListHoleScoresFunc func(ctx context.Context, db bun.IDB, matchIDs []string) ([]matchdb.HoleScore, error)
}

func NewFakeMatchRepository() *FakeMatchRepository {
	return &FakeMatchRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeMatchRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeMatchRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMatchRepository) ListTeams(ctx context.Context, db bun.IDB) ([]matchdb.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeMatchRepository) ListMatches(ctx context.Context, db bun.IDB, division string) ([]matchdb.Match, error) {
	f.record("ListMatches")
	if f.ListMatchesFunc != nil {
		return f.ListMatchesFunc(ctx, db, division)
	}
	return nil, nil
}

func (f *FakeMatchRepository) GetMatch(ctx context.Context, db bun.IDB, matchID string) (*matchdb.Match, error) {
	f.record("GetMatch")
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, db, matchID)
	}
	return nil, matchdb.ErrNotFound
}

func (f *FakeMatchRepository) ListHoles(ctx context.Context, db bun.IDB, matchIDs []string) ([]matchdb.Hole, error) {
	f.record("ListHoles")
	if f.ListHolesFunc != nil {
		return f.ListHolesFunc(ctx, db, matchIDs)
	}
	return nil, nil
}

func (f *FakeMatchRepository) ListHoleScores(ctx context.Context, db bun.IDB, matchIDs []string) ([]matchdb.HoleScore, error) {
	f.record("ListHoleScores")
	if f.ListHoleScoresFunc != nil {
		return f.ListHoleScoresFunc(ctx, db, matchIDs)
	}
	return nil, nil
}

func (f *FakeMatchRepository) UpsertTeam(ctx context.Context, db bun.IDB, team *matchdb.Team) error {
	f.record("UpsertTeam")
	return nil
}

func (f *FakeMatchRepository) UpsertMatch(ctx context.Context, db bun.IDB, match *matchdb.Match) error {
	f.record("UpsertMatch")
	return nil
}

func (f *FakeMatchRepository) UpsertHole(ctx context.Context, db bun.IDB, hole *matchdb.Hole, scores []matchdb.HoleScore) error {
	f.record("UpsertHole")
	return nil
}

var _ matchdb.Repository = (*FakeMatchRepository)(nil)
