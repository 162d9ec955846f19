package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return NewEventHeaderWithIdempotencyKey(uuid.NewString())
}

func NewEventHeaderWithIdempotencyKey(key string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: key,
	}
}

// RefundRequested asks for a payment to be refunded up to TargetRefunded.
// Handlers treat TargetRefunded as a cumulative amount so redelivery is a no-op.
type RefundRequested struct {
	Header         EventHeader `json:"header"`
	PaymentID      uuid.UUID   `json:"payment_id"`
	BookingID      uuid.UUID   `json:"booking_id"`
	PNR            string      `json:"pnr"`
	TargetRefunded int64       `json:"target_refunded"`
	Currency       string      `json:"currency"`
	Reason         string      `json:"reason"`
}
