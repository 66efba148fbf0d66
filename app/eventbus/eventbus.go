package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Black-And-White-Club/teamcup/app/observability/attr"
)

// EventBus publishes and consumes JetStream-backed watermill messages.
type EventBus interface {
	message.Publisher
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	natsConn   *nc.Conn
	logger     *slog.Logger
}

// Config holds connection settings for NewEventBus.
type Config struct {
	URL string
	// QueueGroup makes replicas of the service share a subscription.
	QueueGroup string
}

// NewEventBus connects to NATS, makes sure the streams exist and builds a
// watermill publisher and subscriber on top.
func NewEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (EventBus, error) {
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}

	natsConn, err := nc.Connect(cfg.URL, natsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}
	if err := InitializeStreams(ctx, js, logger); err != nil {
		natsConn.Close()
		return nil, err
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			Marshaler:   marshaler,
			NatsOptions: natsOptions,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              cfg.URL,
			QueueGroupPrefix: cfg.QueueGroup,
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     10 * time.Second,
			Unmarshaler:      marshaler,
			NatsOptions:      natsOptions,
			JetStream: nats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: false,
				SubscribeOptions: []nc.SubOpt{
					nc.DeliverNew(),
					nc.AckExplicit(),
				},
			},
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		watermillLogger,
	)
	if err != nil {
		publisher.Close()
		natsConn.Close()
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:  publisher,
		subscriber: subscriber,
		natsConn:   natsConn,
		logger:     logger,
	}, nil
}

func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	if err := eb.publisher.Publish(topic, messages...); err != nil {
		eb.logger.Error("Failed to publish message",
			attr.String("topic", topic),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	eb.logger.Debug("Published messages",
		attr.String("topic", topic),
		attr.Int("count", len(messages)),
	)
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	eb.logger.Info("Subscription started", attr.String("topic", topic))
	return messages, nil
}

// Close closes all NATS and Watermill resources.
func (eb *eventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		eb.logger.Error("Error closing NATS publisher", attr.Error(err))
	}
	if err := eb.subscriber.Close(); err != nil {
		eb.logger.Error("Error closing NATS subscriber", attr.Error(err))
	}
	eb.natsConn.Close()
	return nil
}
