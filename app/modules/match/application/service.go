package matchservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	"github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/parsers"
	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
	"github.com/Black-And-White-Club/teamcup/app/observability/metrics"
	"github.com/Black-And-White-Club/teamcup/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ParserFactory picks a scorecard parser by file name.
type ParserFactory interface {
	GetParser(fileName string) (parsers.Parser, error)
}

// MatchService implements the Service interface.
type MatchService struct {
	repo    matchdb.Repository
	parsers ParserFactory
	logger  *slog.Logger
	metrics metrics.StandingsMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	repo matchdb.Repository,
	parserFactory ParserFactory,
	logger *slog.Logger,
	metrics metrics.StandingsMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *MatchService {
	return &MatchService{
		repo:    repo,
		parsers: parserFactory,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

var _ Service = (*MatchService)(nil)

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *MatchService,
	ctx context.Context,
	operationName string,
	matchID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("match_id", matchID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.MatchID(matchID),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.MatchID(matchID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "")
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
			attr.MatchID(matchID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.MatchID(matchID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.MatchID(matchID),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, "")
	}

	return result, nil
}

// runInTx runs reads against one consistent snapshot.
func runInTx[S any, F any](
	s *MatchService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// GetMatch returns the stored match with its derived state.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (results.OperationResult[MatchView, error], error) {
	return withTelemetry(s, ctx, "GetMatch", matchID, func(ctx context.Context) (results.OperationResult[MatchView, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[MatchView, error], error) {
			m, holes, err := s.loadMatch(ctx, db, matchID)
			if errors.Is(err, matchdb.ErrNotFound) {
				return results.FailureResult[MatchView](ErrMatchNotFound), nil
			}
			if err != nil {
				return results.OperationResult[MatchView, error]{}, err
			}
			return results.SuccessResult[MatchView, error](Evaluate(m, holes)), nil
		})
	})
}

// PreviewScorecard evaluates an uploaded scorecard against a stored match.
func (s *MatchService) PreviewScorecard(ctx context.Context, matchID, fileName string, data []byte) (results.OperationResult[MatchView, error], error) {
	return withTelemetry(s, ctx, "PreviewScorecard", matchID, func(ctx context.Context) (results.OperationResult[MatchView, error], error) {
		parser, err := s.parsers.GetParser(fileName)
		if err != nil {
			return results.FailureResult[MatchView](fmt.Errorf("%w: %v", ErrInvalidScorecard, err)), nil
		}
		card, err := parser.Parse(data, fileName)
		if err != nil {
			return results.FailureResult[MatchView](fmt.Errorf("%w: %v", ErrInvalidScorecard, err)), nil
		}

		stored, err := s.repo.GetMatch(ctx, nil, matchID)
		if errors.Is(err, matchdb.ErrNotFound) {
			return results.FailureResult[MatchView](ErrMatchNotFound), nil
		}
		if err != nil {
			return results.OperationResult[MatchView, error]{}, err
		}

		m := matchdb.ToDomainMatch(*stored)
		return results.SuccessResult[MatchView, error](EvaluateScorecard(m, card)), nil
	})
}

func (s *MatchService) loadMatch(ctx context.Context, db bun.IDB, matchID string) (matchdomain.Match, []matchdomain.Hole, error) {
	stored, err := s.repo.GetMatch(ctx, db, matchID)
	if err != nil {
		return matchdomain.Match{}, nil, err
	}
	ids := []string{matchID}
	holes, err := s.repo.ListHoles(ctx, db, ids)
	if err != nil {
		return matchdomain.Match{}, nil, err
	}
	scores, err := s.repo.ListHoleScores(ctx, db, ids)
	if err != nil {
		return matchdomain.Match{}, nil, err
	}

	m := matchdb.ToDomainMatch(*stored)
	grouped := matchdb.GroupHoles([]matchdomain.Match{m}, holes, scores)
	return m, grouped[m.ID], nil
}

// Evaluate derives the state of a match from its holes.
func Evaluate(m matchdomain.Match, holes []matchdomain.Hole) MatchView {
	return MatchView{Match: m, Holes: holes, State: matchdomain.ComputeMatch(m, holes)}
}

// EvaluateScorecard derives the state a match would have if the card were its
// only hole data.
func EvaluateScorecard(m matchdomain.Match, card *parsers.Scorecard) MatchView {
	sides := 0
	if m.Sides != nil {
		sides = m.Sides.Count()
	}
	return Evaluate(m, card.ToHoles(sides))
}
