package standingsservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
	standingsdb "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/repositories"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
	"github.com/Black-And-White-Club/teamcup/app/observability/metrics"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
)

// StandingsService implements the Service interface.
type StandingsService struct {
	matches   matchdb.Repository
	repo      standingsdb.Repository
	publisher message.Publisher
	table     standingsdomain.PointTable
	logger    *slog.Logger
	metrics   metrics.StandingsMetrics
	tracer    trace.Tracer
	db        *bun.DB
	now       func() time.Time
}

// NewStandingsService creates a new StandingsService. publisher may be nil,
// in which case no standings.updated events are sent.
func NewStandingsService(
	matches matchdb.Repository,
	repo standingsdb.Repository,
	publisher message.Publisher,
	table standingsdomain.PointTable,
	logger *slog.Logger,
	metrics metrics.StandingsMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *StandingsService {
	return &StandingsService{
		matches:   matches,
		repo:      repo,
		publisher: publisher,
		table:     table,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		now:       time.Now,
	}
}

var _ Service = (*StandingsService)(nil)

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *StandingsService,
	ctx context.Context,
	operationName string,
	division string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("division", division),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, division)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.Division(division),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.Division(division),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, division)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Division(division),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, division)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Division(division),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.Division(division),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, division)
	}

	return result, nil
}

var (
	readOnlyTx  = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}
	readWriteTx = &sql.TxOptions{}
)

// runInTx runs fn inside a transaction when the service has a database handle.
func runInTx[T any](
	s *StandingsService,
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return runInTxOn(ctx, s.db, opts, fn)
}

// runInTxOn is runInTx on an explicit handle, such as a pinned connection.
// A nil handle runs fn without a transaction.
func runInTxOn[T any](
	ctx context.Context,
	db bun.IDB,
	opts *sql.TxOptions,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
