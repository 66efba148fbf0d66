package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config selects logger output and service identity.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string
}

// Observability bundles the logger, tracer provider and metrics registry used by every module.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	tracers  trace.TracerProvider
}

// New builds the observability stack. Traces go to the global otel provider.
func New(cfg Config, out io.Writer) *Observability {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	logger := NewLogger(out, cfg.LogLevel, cfg.LogFormat).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	return &Observability{
		Logger:   logger,
		Registry: registry,
		tracers:  otel.GetTracerProvider(),
	}
}

// Tracer returns a named tracer.
func (o *Observability) Tracer(name string) trace.Tracer {
	return o.tracers.Tracer(name)
}

// NewLogger returns a slog logger writing JSON (default) or text.
func NewLogger(out io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
