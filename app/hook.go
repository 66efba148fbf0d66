package app

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
)

const shutdownTimeout = 15 * time.Second

// Shutdown stops the HTTP server, the router, the modules and the
// connections, in that order.
func (app *App) Shutdown() {
	logger := app.Observability.Logger
	logger.Info("Shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.HTTPServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to stop HTTP server", attr.Error(err))
	}
	if err := app.Router.Close(); err != nil {
		logger.Error("Failed to close message router", attr.Error(err))
	}
	if err := app.StandingsModule.Close(); err != nil {
		logger.Error("Failed to close standings module", attr.Error(err))
	}
	if err := app.MatchModule.Close(); err != nil {
		logger.Error("Failed to close match module", attr.Error(err))
	}
	if err := app.EventBus.Close(); err != nil {
		logger.Error("Failed to close event bus", attr.Error(err))
	}
	if err := app.DB.Close(); err != nil {
		logger.Error("Failed to close database", attr.Error(err))
	}

	logger.Info("Application shut down gracefully")
}
