package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

var logger = watermill.NopLogger{}

func refundEvent() domain.RefundRequested {
	return domain.RefundRequested{
		Header:         domain.NewEventHeaderWithIdempotencyKey("refund-1"),
		PaymentID:      uuid.New(),
		BookingID:      uuid.New(),
		PNR:            "AB12CD",
		TargetRefunded: 1_250_000,
		Currency:       "VND",
		Reason:         "booking cancelled",
	}
}

func receive(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-messages:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestPublisher_PublishesToStream(t *testing.T) {
	stream := gochannel.NewGoChannel(gochannel.Config{}, logger)
	defer stream.Close()

	messages, err := stream.Subscribe(context.Background(), "events.RefundRequested")
	require.NoError(t, err)

	pub, err := NewPublisher(stream, logger)
	require.NoError(t, err)

	event := refundEvent()
	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, pub.Publish(ctx, event))

	msg := receive(t, messages)
	assert.Equal(t, "corr-1", msg.Metadata.Get(correlationIDKey))
	assert.Equal(t, "RefundRequested", marshaler.NameFromMessage(msg))

	var got domain.RefundRequested
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	assert.Equal(t, event.PaymentID, got.PaymentID)
	assert.Equal(t, event.TargetRefunded, got.TargetRefunded)
}

func TestPublisher_GeneratesCorrelationID(t *testing.T) {
	stream := gochannel.NewGoChannel(gochannel.Config{}, logger)
	defer stream.Close()

	messages, err := stream.Subscribe(context.Background(), "events.RefundRequested")
	require.NoError(t, err)

	pub, err := NewPublisher(stream, logger)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), refundEvent()))

	msg := receive(t, messages)
	assert.Contains(t, msg.Metadata.Get(correlationIDKey), "gen_")
}

func TestPublisher_InsideTransactionUsesOutbox(t *testing.T) {
	stream := gochannel.NewGoChannel(gochannel.Config{}, logger)
	defer stream.Close()
	outbox := gochannel.NewGoChannel(gochannel.Config{}, logger)
	defer outbox.Close()

	streamMessages, err := stream.Subscribe(context.Background(), "events.RefundRequested")
	require.NoError(t, err)
	outboxMessages, err := outbox.Subscribe(context.Background(), "events.RefundRequested")
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	tx, err := sqlx.NewDb(db, "postgres").Beginx()
	require.NoError(t, err)

	pub, err := NewPublisher(stream, logger)
	require.NoError(t, err)

	var usedTx *sqlx.Tx
	pub.outbox = func(tx *sqlx.Tx) (message.Publisher, error) {
		usedTx = tx
		return outbox, nil
	}

	require.NoError(t, pub.Publish(database.WithTx(context.Background(), tx), refundEvent()))

	receive(t, outboxMessages)
	assert.Same(t, tx, usedTx)

	select {
	case <-streamMessages:
		t.Fatal("event bypassed the outbox")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOutboxPublisher_InsertsIntoForwarderTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "watermill_events_to_forward"`).WillReturnResult(sqlmock.NewResult(1, 1))

	tx, err := sqlx.NewDb(db, "postgres").Beginx()
	require.NoError(t, err)

	pub, err := NewOutboxPublisher(tx, logger)
	require.NoError(t, err)

	bus, err := NewEventBus(pub, logger)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), refundEvent()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingProcessor struct {
	events chan *domain.RefundRequested
}

func (r *recordingProcessor) ProcessRefund(_ context.Context, event *domain.RefundRequested) error {
	r.events <- event
	return nil
}

func TestRouter_DeliversRefundRequested(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
	defer pubSub.Close()

	router, err := NewRouter(pubSub, logger)
	require.NoError(t, err)

	processor, err := NewEventProcessor(router, func(cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
		return pubSub, nil
	}, logger)
	require.NoError(t, err)

	payments := &recordingProcessor{events: make(chan *domain.RefundRequested, 1)}
	require.NoError(t, processor.AddHandlers(RefundHandler(payments)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- router.Run(ctx) }()
	<-router.Running()

	pub, err := NewPublisher(pubSub, logger)
	require.NoError(t, err)

	event := refundEvent()
	require.NoError(t, pub.Publish(context.Background(), event))

	select {
	case got := <-payments.events:
		assert.Equal(t, event.PaymentID, got.PaymentID)
		assert.Equal(t, "refund-1", got.Header.IdempotencyKey)
	case <-time.After(2 * time.Second):
		t.Fatal("refund handler was not called")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestLoggingMiddleware_RestoresCorrelationID(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	msg.Metadata.Set(correlationIDKey, "corr-9")

	var seen string
	handler := loggingMiddleware(func(msg *message.Message) ([]*message.Message, error) {
		seen = logging.CorrelationIDFromContext(msg.Context())
		return nil, nil
	})

	_, err := handler(msg)

	require.NoError(t, err)
	assert.Equal(t, "corr-9", seen)
}
