package standingshandlers

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/teamcup/app/events"
	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsqueue "github.com/Black-And-White-Club/teamcup/app/modules/standings/infrastructure/queue"
	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
)

// StandingsHandlers handles scoring events.
type StandingsHandlers struct {
	scheduler standingsqueue.Scheduler
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewStandingsHandlers creates a new instance of StandingsHandlers.
func NewStandingsHandlers(scheduler standingsqueue.Scheduler, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &StandingsHandlers{
		scheduler: scheduler,
		logger:    logger,
		tracer:    tracer,
	}
}

func (h *StandingsHandlers) HandleHoleUpdated(msg *message.Message) error {
	payload, err := events.Decode[events.HoleUpdatedPayload](msg)
	if err != nil {
		// A payload that does not decode never will; ack it so it is not redelivered.
		h.logger.WarnContext(msg.Context(), "Dropping undecodable hole update",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}
	return h.schedule(msg, events.TopicHoleUpdated, payload.Division,
		attr.MatchID(payload.MatchID),
		attr.Int("hole_number", payload.HoleNumber),
	)
}

func (h *StandingsHandlers) HandleMatchUpdated(msg *message.Message) error {
	payload, err := events.Decode[events.MatchUpdatedPayload](msg)
	if err != nil {
		h.logger.WarnContext(msg.Context(), "Dropping undecodable match update",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}
	return h.schedule(msg, events.TopicMatchUpdated, payload.Division, attr.MatchID(payload.MatchID))
}

// schedule queues the recompute. A scheduling error is returned so the message
// is nacked and redelivered.
func (h *StandingsHandlers) schedule(msg *message.Message, topic, division string, extra ...slog.Attr) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))
	ctx, span := h.tracer.Start(ctx, "standings."+topic, trace.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("division", division),
	))
	defer span.End()

	args := []any{
		attr.String("topic", topic),
		attr.Division(division),
		attr.ExtractCorrelationID(ctx),
	}
	for _, a := range extra {
		args = append(args, a)
	}
	logger := h.logger.With(args...)

	if division == "" {
		logger.WarnContext(ctx, "Scoring event carries no division, ignoring")
		return nil
	}
	d, err := matchdomain.ParseDivision(division)
	if err != nil {
		// Redelivery cannot fix an unknown division.
		logger.WarnContext(ctx, "Scoring event names an unknown division, ignoring", attr.Error(err))
		return nil
	}

	if err := h.scheduler.ScheduleRecompute(ctx, string(d)); err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "Failed to schedule standings recompute", attr.Error(err))
		return err
	}
	logger.DebugContext(ctx, "Standings recompute requested")
	return nil
}

var _ Handlers = (*StandingsHandlers)(nil)
