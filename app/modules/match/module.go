package match

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	matchservice "github.com/Black-And-White-Club/teamcup/app/modules/match/application"
	"github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/parsers"
	"github.com/Black-And-White-Club/teamcup/app/observability/metrics"
	"github.com/Black-And-White-Club/teamcup/db/bundb"
)

// Module represents the match module. It has no event handlers; the scoring
// app owns match writes.
type Module struct {
	MatchService matchservice.Service
	logger       *slog.Logger
	cancelFunc   context.CancelFunc
}

// NewMatchModule creates a new instance of the Match module.
func NewMatchModule(
	ctx context.Context,
	db *bundb.DBService,
	logger *slog.Logger,
	metrics metrics.StandingsMetrics,
	tracer trace.Tracer,
) *Module {
	logger.InfoContext(ctx, "match.NewMatchModule called")

	return &Module{
		MatchService: matchservice.NewMatchService(db.Matches, parsers.NewFactory(), logger, metrics, tracer, db.GetDB()),
		logger:       logger,
	}
}

// Run keeps the module alive until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting match module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Match module goroutine stopped")
}

// Close stops the match module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.logger.Info("Match module stopped")
	return nil
}
