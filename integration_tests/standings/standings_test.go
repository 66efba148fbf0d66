package standings_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/teamcup/app/eventbus"
	"github.com/Black-And-White-Club/teamcup/app/events"
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	"github.com/Black-And-White-Club/teamcup/app/modules/standings"
	standingsservice "github.com/Black-And-White-Club/teamcup/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	"github.com/Black-And-White-Club/teamcup/app/observability/metrics"
	"github.com/Black-And-White-Club/teamcup/config"
	"github.com/Black-And-White-Club/teamcup/integration_tests/testutils"
)

func newService(env *testutils.TestEnvironment, publisher message.Publisher) *standingsservice.StandingsService {
	return standingsservice.NewStandingsService(
		env.DB.Matches,
		env.DB.Standings,
		publisher,
		standingsdomain.PointTable{},
		env.Logger,
		metrics.NoopStandingsMetrics{},
		env.Tracer,
		env.DB.GetDB(),
	)
}

func TestRecomputeDivision_MatchesOfflineComputation(t *testing.T) {
	env := testutils.NewTestEnvironment(t, testutils.Options{})
	gen := testutils.NewTestDataGenerator(42)
	t.Logf("generator seed %d", gen.Seed())

	premier := gen.GenerateDivision(matchdomain.DivisionPremier, 5, matchdomain.HolesPerMatch)
	env.Seed(t, premier)

	svc := newService(env, nil)

	res, err := svc.RecomputeDivision(env.Ctx, string(matchdomain.DivisionPremier))
	require.NoError(t, err)
	require.Nil(t, res.Failure)
	require.NotNil(t, res.Success)
	outcome := *res.Success
	assert.False(t, outcome.Skipped)
	assert.NotEmpty(t, outcome.Hash)

	want, err := standingsservice.ComputeOffline(standingsdomain.PointTable{}, matchdomain.DivisionPremier, premier.Teams, premier.Records(matchdomain.DivisionPremier))
	require.NoError(t, err)

	require.Len(t, outcome.Report.Standings, len(want.Standings))
	for i, st := range want.Standings {
		got := outcome.Report.Standings[i]
		assert.Equal(t, st.Team, got.Team, "position %d", i+1)
		assert.Equal(t, st.Points, got.Points, "team %s", st.Team)
		assert.Equal(t, st.MatchesPlayed, got.MatchesPlayed, "team %s", st.Team)
		assert.Equal(t, st.HoleDifferential(), got.HoleDifferential(), "team %s", st.Team)
	}
	assert.Equal(t, want.LatestSession, outcome.Report.LatestSession)

	t.Run("unchanged inputs are skipped", func(t *testing.T) {
		again, err := svc.RecomputeDivision(env.Ctx, string(matchdomain.DivisionPremier))
		require.NoError(t, err)
		require.NotNil(t, again.Success)
		assert.True(t, again.Success.Skipped)
		assert.Equal(t, outcome.Hash, again.Success.Hash)
	})

	t.Run("persisted table is served", func(t *testing.T) {
		view, err := svc.GetStandings(env.Ctx, string(matchdomain.DivisionPremier))
		require.NoError(t, err)
		require.NotNil(t, view.Success)
		assert.Equal(t, outcome.RunID, view.Success.RunID)
		require.Len(t, view.Success.Standings, len(want.Standings))
		assert.Equal(t, want.Standings[0].Team, view.Success.Standings[0].Team)

		data, err := svc.ExportStandingsXLSX(env.Ctx, string(matchdomain.DivisionPremier))
		require.NoError(t, err)
		require.NotNil(t, data.Success)
		assert.NotEmpty(t, *data.Success)
	})

	t.Run("other divisions stay empty", func(t *testing.T) {
		view, err := svc.GetStandings(env.Ctx, string(matchdomain.DivisionChampionship))
		require.NoError(t, err)
		require.NotNil(t, view.Failure)
		assert.ErrorIs(t, *view.Failure, standingsservice.ErrStandingsNotFound)
	})
}

func TestLockDivision_SerializesHolders(t *testing.T) {
	env := testutils.NewTestEnvironment(t, testutils.Options{})
	premier := string(matchdomain.DivisionPremier)

	_, release, err := env.DB.Standings.LockDivision(env.Ctx, premier)
	require.NoError(t, err)

	// Another division is independent.
	_, releaseOther, err := env.DB.Standings.LockDivision(env.Ctx, string(matchdomain.DivisionFirst))
	require.NoError(t, err)
	releaseOther()

	acquired := make(chan func(), 1)
	go func() {
		_, second, err := env.DB.Standings.LockDivision(env.Ctx, premier)
		if err != nil {
			close(acquired)
			return
		}
		acquired <- second
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired the division while the first still held it")
	case <-time.After(300 * time.Millisecond):
	}

	release()
	select {
	case second, ok := <-acquired:
		require.True(t, ok, "second LockDivision failed")
		second()
	case <-time.After(5 * time.Second):
		t.Fatal("second holder never acquired the division")
	}
}

func TestRecomputeDivision_ConcurrentRunsKeepLatestTable(t *testing.T) {
	env := testutils.NewTestEnvironment(t, testutils.Options{})
	gen := testutils.NewTestDataGenerator(7)
	env.Seed(t, gen.GenerateDivision(matchdomain.DivisionPremier, 4, 9))
	svc := newService(env, nil)

	errs := make(chan error, 4)
	for range 4 {
		go func() {
			_, err := svc.RecomputeDivision(env.Ctx, string(matchdomain.DivisionPremier))
			errs <- err
		}()
	}
	for range 4 {
		require.NoError(t, <-errs)
	}

	view, err := svc.GetStandings(env.Ctx, string(matchdomain.DivisionPremier))
	require.NoError(t, err)
	require.NotNil(t, view.Success)
	assert.Len(t, view.Success.Standings, 4)
}

func TestQueue_RecomputesScheduledDivision(t *testing.T) {
	env := testutils.NewTestEnvironment(t, testutils.Options{})
	gen := testutils.NewTestDataGenerator(7)
	env.Seed(t, gen.GenerateDivision(matchdomain.DivisionFirst, 4, 9))

	svc := newService(env, nil)
	queue, err := standingsqueue.NewService(env.Ctx, env.DB.GetDB(), env.DSN, svc, env.Logger, metrics.NoopStandingsMetrics{}, standingsqueue.Options{Workers: 1})
	require.NoError(t, err)
	require.NoError(t, queue.Start(env.Ctx))
	t.Cleanup(func() { _ = queue.Stop(context.Background()) })

	require.NoError(t, queue.HealthCheck(env.Ctx))
	require.NoError(t, queue.ScheduleRecompute(env.Ctx, string(matchdomain.DivisionFirst)))

	require.Eventually(t, func() bool {
		view, err := svc.GetStandings(env.Ctx, string(matchdomain.DivisionFirst))
		return err == nil && view.Success != nil && len(view.Success.Standings) == 4
	}, 30*time.Second, 200*time.Millisecond)
}

func TestHoleUpdatedEvent_PublishesStandingsUpdated(t *testing.T) {
	env := testutils.NewTestEnvironment(t, testutils.Options{NATS: true})
	gen := testutils.NewTestDataGenerator(99)
	snap := gen.GenerateDivision(matchdomain.DivisionSecond, 4, matchdomain.HolesPerMatch)
	env.Seed(t, snap)

	ctx, cancel := context.WithCancel(env.Ctx)
	t.Cleanup(cancel)

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{URL: env.NATSURL, QueueGroup: "teamcup"}, env.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	observer, err := eventbus.NewEventBus(ctx, eventbus.Config{URL: env.NATSURL, QueueGroup: "observer"}, env.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = observer.Close() })
	updates, err := observer.Subscribe(ctx, events.TopicStandingsUpdated)
	require.NoError(t, err)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, watermill.NewSlogLogger(env.Logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = router.Close() })

	module, err := standings.NewStandingsModule(ctx, standings.Deps{
		Config: &config.Config{
			Postgres: config.PostgresConfig{DSN: env.DSN},
			Scoring:  config.ScoringConfig{RecomputeWorkers: 1},
		},
		DB:       env.DB,
		EventBus: bus,
		Router:   router,
		Logger:   env.Logger,
		Metrics:  metrics.NoopStandingsMetrics{},
		Tracer:   env.Tracer,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = module.Close() })

	go module.Run(ctx, nil)
	go func() { _ = router.Run(ctx) }()
	<-router.Running()

	msg, err := events.NewMessage(events.HoleUpdatedPayload{
		MatchID:    snap.Matches[0].Match.ID,
		Division:   string(matchdomain.DivisionSecond),
		HoleNumber: 18,
	}, "it-correlation")
	require.NoError(t, err)
	require.NoError(t, bus.Publish(events.TopicHoleUpdated, msg))

	select {
	case got := <-updates:
		got.Ack()
		payload, err := events.Decode[events.StandingsUpdatedPayload](got)
		require.NoError(t, err)
		assert.Equal(t, string(matchdomain.DivisionSecond), payload.Division)
		assert.Len(t, payload.Standings, 4)
		assert.NotEmpty(t, payload.RunID)
	case <-time.After(60 * time.Second):
		t.Fatal("timed out waiting for standings.updated")
	}
}
