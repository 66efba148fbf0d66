package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
)

// Run starts the modules, the message router and the HTTP server, and blocks
// until ctx is canceled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go app.MatchModule.Run(ctx, &wg)
	go app.StandingsModule.Run(ctx, &wg)

	errs := make(chan error, 2)
	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errs <- fmt.Errorf("message router: %w", err)
		}
	}()

	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", attr.String("address", app.HTTPServer.Addr))
		if err := app.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errs:
		logger.ErrorContext(ctx, "Component failed, shutting down", attr.Error(runErr))
	}

	cancel()
	app.Shutdown()
	wg.Wait()
	return runErr
}
