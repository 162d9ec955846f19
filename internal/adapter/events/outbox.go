package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"

	"github.com/srgjo27/transit_ticket/internal/platform/tracing"
)

const OutboxTopic = "events_to_forward"

// NewOutboxPublisher stores messages in the outbox table inside tx. The
// forwarder moves them to the stream after commit.
func NewOutboxPublisher(tx *sqlx.Tx, logger watermill.LoggerAdapter) (message.Publisher, error) {
	sqlPublisher, err := sql.NewPublisher(
		tx,
		sql.PublisherConfig{
			SchemaAdapter: sql.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	var pub message.Publisher = forwarder.NewPublisher(sqlPublisher, forwarder.PublisherConfig{
		ForwarderTopic: OutboxTopic,
	})
	pub = tracing.PublisherDecorator{Publisher: pub}

	return pub, nil
}

func NewOutboxSubscriber(db *sqlx.DB, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return sql.NewSubscriber(db.DB, sql.SubscriberConfig{
		SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
	}, logger)
}

func NewForwarder(db *sqlx.DB, streamPub message.Publisher, logger watermill.LoggerAdapter) (*forwarder.Forwarder, error) {
	sub, err := NewOutboxSubscriber(db, logger)
	if err != nil {
		return nil, err
	}

	return forwarder.NewForwarder(sub, streamPub, logger, forwarder.Config{
		ForwarderTopic: OutboxTopic,
	})
}
