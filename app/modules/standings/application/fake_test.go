package standingsservice

import (
	"context"

	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
	standingsdb "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
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

// FakeStandingsRepository provides a programmable stub for standingsdb.Repository.
type FakeStandingsRepository struct {
	trace []string

	GetSnapshotFunc      func(ctx context.Context, db bun.IDB, division string) (*standingsdb.StandingsSnapshot, error)
	GetStandingsFunc     func(ctx context.Context, db bun.IDB, division string) ([]standingsdb.StandingRow, error)
	ReplaceStandingsFunc func(ctx context.Context, db bun.IDB, snapshot *standingsdb.StandingsSnapshot, rows []standingsdb.StandingRow) error
	LockDivisionFunc     func(ctx context.Context, division string) (bun.IDB, func(), error)

	LastSnapshot *standingsdb.StandingsSnapshot
	LastRows     []standingsdb.StandingRow
}

func NewFakeStandingsRepository() *FakeStandingsRepository {
	return &FakeStandingsRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeStandingsRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeStandingsRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStandingsRepository) GetSnapshot(ctx context.Context, db bun.IDB, division string) (*standingsdb.StandingsSnapshot, error) {
	f.record("GetSnapshot")
	if f.GetSnapshotFunc != nil {
		return f.GetSnapshotFunc(ctx, db, division)
	}
	return nil, standingsdb.ErrNotFound
}

func (f *FakeStandingsRepository) GetStandings(ctx context.Context, db bun.IDB, division string) ([]standingsdb.StandingRow, error) {
	f.record("GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx, db, division)
	}
	return nil, nil
}

func (f *FakeStandingsRepository) ReplaceStandings(ctx context.Context, db bun.IDB, snapshot *standingsdb.StandingsSnapshot, rows []standingsdb.StandingRow) error {
	f.record("ReplaceStandings")
	f.LastSnapshot = snapshot
	f.LastRows = rows
	if f.ReplaceStandingsFunc != nil {
		return f.ReplaceStandingsFunc(ctx, db, snapshot, rows)
	}
	return nil
}

// LockDivision records the lock and its release as "LockDivision" and
// "UnlockDivision".
func (f *FakeStandingsRepository) LockDivision(ctx context.Context, division string) (bun.IDB, func(), error) {
	f.record("LockDivision")
	if f.LockDivisionFunc != nil {
		db, release, err := f.LockDivisionFunc(ctx, division)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { release(); f.record("UnlockDivision") }, nil
	}
	return nil, func() { f.record("UnlockDivision") }, nil
}

var _ standingsdb.Repository = (*FakeStandingsRepository)(nil)

// FakePublisher records published messages.
type FakePublisher struct {
	PublishFunc func(topic string, messages ...*message.Message) error
	Published   map[string][]*message.Message
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if p.Published == nil {
		p.Published = make(map[string][]*message.Message)
	}
	p.Published[topic] = append(p.Published[topic], messages...)
	if p.PublishFunc != nil {
		return p.PublishFunc(topic, messages...)
	}
	return nil
}

func (p *FakePublisher) Close() error { return nil }

var _ message.Publisher = (*FakePublisher)(nil)
