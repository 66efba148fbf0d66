// Package attr holds slog attribute helpers shared across modules so log keys stay consistent.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type correlationKey struct{}

// WithCorrelationID stores a correlation id on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFrom returns the correlation id carried by ctx, if any.
func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// ExtractCorrelationID returns the correlation id of ctx as a log attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationIDFrom(ctx))
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

// Error logs err under the "error" key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Division logs a division name.
func Division[T ~string](d T) slog.Attr { return slog.String("division", string(d)) }

// MatchID logs a match id.
func MatchID(id string) slog.Attr { return slog.String("match_id", id) }
