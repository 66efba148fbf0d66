package standingsqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
	"github.com/Black-And-White-Club/teamcup/app/observability/metrics"
)

// Scheduler queues standings recomputes.
type Scheduler interface {
	// ScheduleRecompute queues a debounced recompute of division. Triggers
	// that land in the same debounce window collapse into one job.
	ScheduleRecompute(ctx context.Context, division string) error
}

// QueueService is the full contract of the River-backed scheduler.
type QueueService interface {
	Scheduler
	// PendingJobs lists recompute jobs that have not run yet (for debugging)
	PendingJobs(ctx context.Context, division string) ([]JobInfo, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Options tunes the recompute queue.
type Options struct {
	Workers  int
	Debounce time.Duration
}

// Service schedules and runs standings recomputes using River
type Service struct {
	client   *river.Client[pgx.Tx]
	pool     *pgxpool.Pool
	db       *bun.DB
	logger   *slog.Logger
	metrics  metrics.StandingsMetrics
	debounce time.Duration
	now      func() time.Time
}

// NewService creates the River client and registers the recompute worker.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	dsn string,
	recomputer Recomputer,
	logger *slog.Logger,
	metrics metrics.StandingsMetrics,
	opts Options,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_standings_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_queue", "")

	pool, err := newPool(ctx, dsn)
	if err != nil {
		ctxLogger.Error("Failed to connect River pool", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue", "")
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRecomputeWorker(recomputer, logger))

	maxWorkers := opts.Workers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue", "")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_queue", "")
	metrics.RecordOperationDuration(ctx, "initialize_queue", time.Since(start))
	ctxLogger.Info("Standings queue service initialized", attr.Int("max_workers", maxWorkers))

	return &Service{
		client:   riverClient,
		pool:     pool,
		db:       bunDB,
		logger:   logger.With(attr.String("component", "river_queue")),
		metrics:  metrics,
		debounce: opts.Debounce,
		now:      time.Now,
	}, nil
}

// newPool opens the pgx pool River needs; River does not run on database/sql.
func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies River's own schema migrations.
func Migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	pool, err := newPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("failed to migrate River schema: %w", err)
	}
	for _, v := range res.Versions {
		logger.Info("Applied River migration", attr.Int("version", v.Version))
	}
	return nil
}

// Start starts the River client
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting standings queue service")
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop waits for running jobs and releases the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping standings queue service")
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

func (s *Service) ScheduleRecompute(ctx context.Context, division string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_recompute", division)

	ctxLogger := s.logger.With(
		attr.Division(division),
		attr.String("operation", "schedule_recompute"),
		attr.ExtractCorrelationID(ctx),
	)

	jobResult, err := s.client.Insert(ctx, RecomputeArgs{Division: division}, recomputeInsertOpts(s.now(), s.debounce))
	if err != nil {
		ctxLogger.Error("Failed to schedule standings recompute", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "schedule_recompute", division)
		return fmt.Errorf("failed to schedule standings recompute: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_recompute", division)
	s.metrics.RecordOperationDuration(ctx, "schedule_recompute", time.Since(start))

	if jobResult.UniqueSkippedAsDuplicate {
		ctxLogger.Debug("Recompute already pending", attr.Any("job_id", jobResult.Job.ID))
		return nil
	}
	ctxLogger.Info("Standings recompute scheduled",
		attr.Any("job_id", jobResult.Job.ID),
		attr.Duration("delay", s.debounce),
	)
	return nil
}

// recomputeInsertOpts delays the job by the debounce window and makes it
// unique per division within that window.
func recomputeInsertOpts(now time.Time, debounce time.Duration) *river.InsertOpts {
	opts := &river.InsertOpts{
		Queue:      QueueName,
		UniqueOpts: river.UniqueOpts{ByArgs: true},
	}
	if debounce > 0 {
		opts.ScheduledAt = now.Add(debounce)
		opts.UniqueOpts.ByPeriod = debounce
	}
	return opts
}

func (s *Service) PendingJobs(ctx context.Context, division string) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64          `bun:"id"`
		State       string         `bun:"state"`
		Args        map[string]any `bun:"args"`
		ScheduledAt *time.Time     `bun:"scheduled_at"`
		Attempt     int16          `bun:"attempt"`
		MaxAttempts int16          `bun:"max_attempts"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "state", "args", "scheduled_at", "attempt", "max_attempts").
		Where("kind = ?", RecomputeArgs{}.Kind()).
		Where("state IN (?, ?, ?)", "available", "scheduled", "retryable").
		Where("args->>'division' = ?", division).
		Order("scheduled_at ASC NULLS LAST").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending jobs: %w", err)
	}

	out := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		out[i] = JobInfo{
			ID:          job.ID,
			Division:    division,
			State:       job.State,
			ScheduledAt: scheduledAt,
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return out, nil
}

// HealthCheck verifies the River pool answers.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
