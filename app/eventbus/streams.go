package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
)

// Streams lists the JetStream streams the service relies on.
var Streams = []jetstream.StreamConfig{
	{Name: "scoring", Subjects: []string{"scoring.>"}},
	{Name: "standings", Subjects: []string{"standings.>"}},
}

// InitializeStreams creates missing streams and adds missing subjects to
// existing ones.
func InitializeStreams(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	for _, cfg := range Streams {
		stream, err := js.Stream(ctx, cfg.Name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.Info("Created JetStream stream", attr.String("stream", cfg.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		}

		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info for %s: %w", cfg.Name, err)
		}
		missing := false
		for _, subject := range cfg.Subjects {
			if !slices.Contains(info.Config.Subjects, subject) {
				info.Config.Subjects = append(info.Config.Subjects, subject)
				missing = true
			}
		}
		if missing {
			if _, err := js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", cfg.Name, err)
			}
			logger.Info("Updated JetStream stream subjects", attr.String("stream", cfg.Name))
		}
	}
	return nil
}
