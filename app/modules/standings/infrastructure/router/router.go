package standingsrouter

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Black-And-White-Club/teamcup/app/events"
	standingshandlers "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/handlers"
)

// StandingsRouter binds scoring topics to the standings handlers.
type StandingsRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewStandingsRouter creates a new instance of the router. A nil registry
// disables router metrics.
func NewStandingsRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	prometheusRegistry *prometheus.Registry,
) *StandingsRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &StandingsRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up the middlewares and registers the handlers.
func (r *StandingsRouter) Configure(ctx context.Context, handlers standingshandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Standings")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Multiplier:      2,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
		middleware.Recoverer,
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds specific event topics to their corresponding handler logic.
func (r *StandingsRouter) RegisterHandlers(ctx context.Context, handlers standingshandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Standings Event Handlers")

	r.Router.AddNoPublisherHandler("standings."+events.TopicHoleUpdated, events.TopicHoleUpdated, r.subscriber, handlers.HandleHoleUpdated)
	r.Router.AddNoPublisherHandler("standings."+events.TopicMatchUpdated, events.TopicMatchUpdated, r.subscriber, handlers.HandleMatchUpdated)

	return nil
}

// Close stops the router and cleans up resources.
func (r *StandingsRouter) Close() error {
	return r.Router.Close()
}
