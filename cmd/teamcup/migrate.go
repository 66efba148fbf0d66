package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	"github.com/Black-And-White-Club/teamcup/db/bundb"
)

func openDB(c *cli.Context) (*bun.DB, string, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, "", err
	}
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	return bun.NewDB(pgdb, pgdialect.New()), cfg.Postgres.DSN, nil
}

func withMigrators(fn func(c *cli.Context, dsn string, migrators map[string]*migrate.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, dsn, err := openDB(c)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(c, dsn, bundb.Migrators(db))
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, _ string, migrators map[string]*migrate.Migrator) error {
					for _, moduleName := range bundb.ModuleOrder {
						fmt.Printf("Initializing migrations for module: %s\n", moduleName)
						if err := migrators[moduleName].Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", moduleName, err)
						}
					}
					return nil
				}),
			},
			{
				Name:  "up",
				Usage: "apply module and River migrations",
				Action: withMigrators(func(c *cli.Context, dsn string, migrators map[string]*migrate.Migrator) error {
					for _, moduleName := range bundb.ModuleOrder {
						fmt.Printf("Running migrations for module: %s\n", moduleName)
						group, err := migrators[moduleName].Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("migrate %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", moduleName)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
						}
					}

					fmt.Println("Running River migrations")
					logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
					return standingsqueue.Migrate(c.Context, dsn, logger)
				}),
			},
			{
				Name:  "down",
				Usage: "rollback the last migration group of every module",
				Action: withMigrators(func(c *cli.Context, _ string, migrators map[string]*migrate.Migrator) error {
					for _, moduleName := range slices.Backward(bundb.ModuleOrder) {
						fmt.Printf("Rolling back migrations for module: %s\n", moduleName)
						group, err := migrators[moduleName].Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", moduleName)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, _ string, migrators map[string]*migrate.Migrator) error {
					for _, moduleName := range bundb.ModuleOrder {
						ms, err := migrators[moduleName].MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", moduleName)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, _ string, migrators map[string]*migrate.Migrator) error {
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				}),
			},
		},
	}
}
