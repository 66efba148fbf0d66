package testutils

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	"github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/snapshot"
	"github.com/Black-And-White-Club/teamcup/config"
	"github.com/Black-And-White-Club/teamcup/db/bundb"
	"github.com/Black-And-White-Club/teamcup/integration_tests/containers"
)

// TestEnvironment is a migrated Postgres, optionally with a NATS server next to it.
type TestEnvironment struct {
	Ctx     context.Context
	DB      *bundb.DBService
	DSN     string
	NATSURL string
	Logger  *slog.Logger
	Tracer  trace.Tracer
}

// Options selects the containers a test needs.
type Options struct {
	NATS bool
}

// NewTestEnvironment starts the containers and runs every migration. Containers
// are terminated through t.Cleanup. Skipped in -short mode.
func NewTestEnvironment(t *testing.T, opts Options) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pg, dsn, err := containers.SetupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dbService, err := bundb.NewBunDBService(ctx, config.PostgresConfig{DSN: dsn}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbService.Close() })

	require.NoError(t, bundb.MigrateUp(ctx, dbService.GetDB(), logger))
	require.NoError(t, standingsqueue.Migrate(ctx, dsn, logger))

	env := &TestEnvironment{
		Ctx:    ctx,
		DB:     dbService,
		DSN:    dsn,
		Logger: logger,
		Tracer: noop.NewTracerProvider().Tracer("integration"),
	}

	if opts.NATS {
		nc, natsURL, err := containers.SetupNatsContainer(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { _ = nc.Terminate(context.Background()) })
		env.NATSURL = natsURL
	}
	return env
}

// Seed writes a snapshot into the match store in one transaction.
func (env *TestEnvironment) Seed(t *testing.T, snap *snapshot.Snapshot) {
	t.Helper()
	err := env.DB.GetDB().RunInTx(env.Ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return snapshot.Seed(ctx, tx, env.DB.Matches, snap)
	})
	require.NoError(t, err)
}
