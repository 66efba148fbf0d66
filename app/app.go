package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Black-And-White-Club/teamcup/app/api"
	"github.com/Black-And-White-Club/teamcup/app/eventbus"
	"github.com/Black-And-White-Club/teamcup/app/modules/match"
	"github.com/Black-And-White-Club/teamcup/app/modules/standings"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	"github.com/Black-And-White-Club/teamcup/app/observability"
	"github.com/Black-And-White-Club/teamcup/app/observability/metrics"
	"github.com/Black-And-White-Club/teamcup/config"
	"github.com/Black-And-White-Club/teamcup/db/bundb"
)

// App wires every module of the service.
type App struct {
	Config          *config.Config
	Observability   *observability.Observability
	DB              *bundb.DBService
	EventBus        eventbus.EventBus
	Router          *message.Router
	MatchModule     *match.Module
	StandingsModule *standings.Module
	HTTPServer      *http.Server
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	table := standingsdomain.PointTable{}
	if cfg.Scoring.PointTableFile != "" {
		loaded, err := config.LoadPointTable(cfg.Scoring.PointTableFile)
		if err != nil {
			return nil, err
		}
		table = loaded
		logger.InfoContext(ctx, "Loaded point table", slog.String("file", cfg.Scoring.PointTableFile))
	}

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	eventBus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:        cfg.NATS.URL,
		QueueGroup: cfg.Observability.ServiceName,
	}, logger)
	if err != nil {
		dbService.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		eventBus.Close()
		dbService.Close()
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	standingsMetrics := metrics.NewStandingsMetrics(obs.Registry, "teamcup")

	matchModule := match.NewMatchModule(ctx, dbService, logger.With(slog.String("module", "match")), standingsMetrics, obs.Tracer("match"))

	standingsModule, err := standings.NewStandingsModule(ctx, standings.Deps{
		Config:   cfg,
		DB:       dbService,
		EventBus: eventBus,
		Router:   router,
		Table:    table,
		Logger:   logger.With(slog.String("module", "standings")),
		Metrics:  standingsMetrics,
		Tracer:   obs.Tracer("standings"),
		Registry: obs.Registry,
	})
	if err != nil {
		eventBus.Close()
		dbService.Close()
		return nil, err
	}

	handlers := api.NewHandlers(matchModule.MatchService, standingsModule.StandingsService, standingsModule.Queue, logger.With(slog.String("module", "api")))
	httpServer := &http.Server{
		Addr: cfg.HTTP.Address,
		Handler: api.NewRouter(handlers, api.RouterConfig{
			RateLimit: cfg.HTTP.RateLimit,
			Burst:     cfg.HTTP.Burst,
			Registry:  obs.Registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		Config:          cfg,
		Observability:   obs,
		DB:              dbService,
		EventBus:        eventBus,
		Router:          router,
		MatchModule:     matchModule,
		StandingsModule: standingsModule,
		HTTPServer:      httpServer,
	}, nil
}
