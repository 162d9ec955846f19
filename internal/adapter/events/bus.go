package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	"github.com/lithammer/shortuuid/v3"

	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

const correlationIDKey = "correlation_id"

var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

func topicFor(eventName string) string {
	return "events." + eventName
}

// CorrelationPublisherDecorator copies the correlation id from the message
// context into its metadata, generating one for messages without a request.
type CorrelationPublisherDecorator struct {
	message.Publisher
}

func (c CorrelationPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for i := range messages {
		if messages[i].Metadata.Get(correlationIDKey) != "" {
			continue
		}
		id := logging.CorrelationIDFromContext(messages[i].Context())
		if id == "" {
			id = "gen_" + shortuuid.New()
		}
		messages[i].Metadata.Set(correlationIDKey, id)
	}
	return c.Publisher.Publish(topic, messages...)
}

func NewEventBus(pub message.Publisher, logger watermill.LoggerAdapter) (*cqrs.EventBus, error) {
	pub = CorrelationPublisherDecorator{Publisher: pub}
	return cqrs.NewEventBusWithConfig(pub, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return topicFor(params.EventName), nil
		},
		Marshaler: marshaler,
		Logger:    logger,
	})
}

// Publisher sends events to the stream directly, or through the outbox when
// the context carries a database transaction so the event commits with it.
type Publisher struct {
	bus    *cqrs.EventBus
	logger watermill.LoggerAdapter
	outbox func(tx *sqlx.Tx) (message.Publisher, error)
}

func NewPublisher(streamPub message.Publisher, logger watermill.LoggerAdapter) (*Publisher, error) {
	bus, err := NewEventBus(streamPub, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create event bus: %w", err)
	}

	return &Publisher{
		bus:    bus,
		logger: logger,
		outbox: func(tx *sqlx.Tx) (message.Publisher, error) {
			return NewOutboxPublisher(tx, logger)
		},
	}, nil
}

var _ ports.EventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event any) error {
	tx, ok := database.TxFromContext(ctx)
	if !ok {
		return p.bus.Publish(ctx, event)
	}

	pub, err := p.outbox(tx)
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}

	bus, err := NewEventBus(pub, p.logger)
	if err != nil {
		return fmt.Errorf("could not create outbox event bus: %w", err)
	}

	return bus.Publish(ctx, event)
}
