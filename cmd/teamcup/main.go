package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/teamcup/app"
	"github.com/Black-And-White-Club/teamcup/app/observability"
	"github.com/Black-And-White-Club/teamcup/config"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "teamcup",
		Usage: "team match-play cup scoring",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"TEAMCUP_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newSeedCommand(),
			newStandingsCommand(),
			newMatchCommand(),
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newObservability(cfg *config.Config) *observability.Observability {
	return observability.New(observability.Config{
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
		LogFormat:   cfg.Observability.LogFormat,
	}, os.Stdout)
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "consume scoring events, run recomputes and serve the read API",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			obs := newObservability(cfg)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, cfg, obs)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			return application.Run(ctx)
		},
	}
}
