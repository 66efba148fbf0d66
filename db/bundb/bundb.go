package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	matchdb "github.com/Black-And-White-Club/teamcup/app/modules/match/infrastructure/repositories"
	standingsdb "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/repositories"
	"github.com/Black-And-White-Club/teamcup/config"
)

// DBService holds the bun handle and the per-module repositories on top of it.
type DBService struct {
	Matches   matchdb.Repository
	Standings standingsdb.Repository
	db        *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bunDB(sqldb)
	logger.InfoContext(ctx, "Connected to PostgreSQL")

	return &DBService{
		Matches:   matchdb.NewRepository(db),
		Standings: standingsdb.NewRepository(db),
		db:        db,
	}, nil
}

// bunDB returns a new bun.DB for given sql.DB connection pool.
func bunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
