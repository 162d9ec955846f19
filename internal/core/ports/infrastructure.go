package ports

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/transit_ticket/internal/core/domain"
)

// AvailabilityCache is a read-through cache of schedule availability.
// Get returns nil, nil on a miss.
type AvailabilityCache interface {
	Get(ctx context.Context, scheduleID uuid.UUID) (*domain.Availability, error)
	Set(ctx context.Context, a domain.Availability) error
	Invalidate(ctx context.Context, scheduleID uuid.UUID) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TokenStore remembers revoked refresh tokens until they would have expired.
// A user's refresh tokens carry the session generation they were issued in;
// bumping it revokes all of them at once.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Generation(ctx context.Context, userID uuid.UUID) (int64, error)
	BumpGeneration(ctx context.Context, userID uuid.UUID) error
	SaveResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// ConsumeResetToken returns uuid.Nil for an unknown or used token.
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

// EventPublisher publishes domain events. Inside a transaction the event is
// stored with it and forwarded after commit.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type PaymentURLRequest struct {
	TransactionID string
	Amount        int64
	Currency      string
	OrderInfo     string
	BankCode      string
	ClientIP      string
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

type PaymentGateway interface {
	Provider() string
	CreatePaymentURL(ctx context.Context, req PaymentURLRequest) (string, error)
	// VerifyCallback checks the signature of a return or IPN payload.
	VerifyCallback(params url.Values) (*domain.CallbackResult, error)
	Refund(ctx context.Context, req domain.RefundRequest) error
}

type QRSigner interface {
	Sign(claims domain.QRClaims) (string, error)
	Verify(payload string) (*domain.QRClaims, error)
}

type TicketRenderer interface {
	Render(t *domain.Ticket, s *domain.Schedule) ([]byte, error)
}

// TicketIssuer is the part of the ticket service the booking flow needs.
type TicketIssuer interface {
	Issue(ctx context.Context, booking *domain.Booking) ([]domain.Ticket, error)
	CancelForBooking(ctx context.Context, bookingID uuid.UUID) error
	ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error)
}
