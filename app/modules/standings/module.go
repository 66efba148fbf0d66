package standings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/teamcup/app/eventbus"
	standingsservice "github.com/Black-And-White-Club/teamcup/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	standingshandlers "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/handlers"
	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	standingsrouter "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/router"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
	"github.com/Black-And-White-Club/teamcup/app/observability/metrics"
	"github.com/Black-And-White-Club/teamcup/config"
	"github.com/Black-And-White-Club/teamcup/db/bundb"
)

// Module represents the standings module.
type Module struct {
	StandingsService standingsservice.Service
	Queue            *standingsqueue.Service
	StandingsRouter  *standingsrouter.StandingsRouter
	logger           *slog.Logger
	cancelFunc       context.CancelFunc
}

// Deps are the shared components the module is built from.
type Deps struct {
	Config   *config.Config
	DB       *bundb.DBService
	EventBus eventbus.EventBus
	Router   *message.Router
	Table    standingsdomain.PointTable
	Logger   *slog.Logger
	Metrics  metrics.StandingsMetrics
	Tracer   trace.Tracer
	Registry *prometheus.Registry
}

// NewStandingsModule wires the service, the recompute queue and the event router.
func NewStandingsModule(ctx context.Context, deps Deps) (*Module, error) {
	logger := deps.Logger
	logger.InfoContext(ctx, "standings.NewStandingsModule called")

	service := standingsservice.NewStandingsService(
		deps.DB.Matches,
		deps.DB.Standings,
		deps.EventBus,
		deps.Table,
		logger,
		deps.Metrics,
		deps.Tracer,
		deps.DB.GetDB(),
	)

	queue, err := standingsqueue.NewService(ctx, deps.DB.GetDB(), deps.Config.Postgres.DSN, service, logger, deps.Metrics, standingsqueue.Options{
		Workers:  deps.Config.Scoring.RecomputeWorkers,
		Debounce: deps.Config.Scoring.RecomputeDebounce,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create standings queue: %w", err)
	}

	router := standingsrouter.NewStandingsRouter(logger, deps.Router, deps.EventBus, deps.Registry)
	handlers := standingshandlers.NewStandingsHandlers(queue, logger, deps.Tracer)
	if err := router.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure standings router: %w", err)
	}

	return &Module{
		StandingsService: service,
		Queue:            queue,
		StandingsRouter:  router,
		logger:           logger,
	}, nil
}

// Run starts the recompute workers and blocks until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting standings module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.Queue.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start standings queue", attr.Error(err))
		return
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Standings module goroutine stopped")
}

// Close stops the queue. The shared watermill router is closed by the app.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	if err := m.Queue.Stop(context.Background()); err != nil {
		return err
	}
	m.logger.Info("Standings module stopped")
	return nil
}
