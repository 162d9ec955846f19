package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/transit_ticket/internal/core/domain"
)

// Transactor runs fn in one database transaction. Repositories called with
// the ctx handed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// InventoryLedger owns the seat counters of every schedule fare class.
type InventoryLedger interface {
	// Reserve takes qty seats or fails with domain.ErrInsufficientInventory.
	// It returns the seats left in the fare class.
	Reserve(ctx context.Context, scheduleID uuid.UUID, fareClass string, qty int) (int, error)
	// Release gives qty seats back, never above the class total.
	Release(ctx context.Context, scheduleID uuid.UUID, fareClass string, qty int) (int, error)
}

type ScheduleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error)
	Search(ctx context.Context, q domain.ScheduleQuery) ([]domain.Schedule, error)
	List(ctx context.Context, f domain.ScheduleFilter) ([]domain.Schedule, error)
	Create(ctx context.Context, s *domain.Schedule) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ScheduleStatus, delayMinutes int) (bool, error)
}

type BookingRepository interface {
	// CreateBooking returns domain.ErrDuplicatePNR when the PNR is taken.
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// GetByIDForShare reads the booking and holds a share lock on it until
	// the surrounding transaction ends. It waits for an in-flight status
	// change to commit.
	GetByIDForShare(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
	// Transition moves the booking from -> to and reports false when the
	// booking was no longer in from.
	Transition(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, reason string, at time.Time) (bool, error)
	// Expire moves a pending booking whose hold lapsed before now to expired.
	Expire(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	ExtendExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time, maxExtensions int) (bool, error)
	GetExpiredBookings(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	UpdatePassenger(ctx context.Context, bookingID uuid.UUID, p domain.Passenger) (bool, error)
	// ScheduleOperator resolves the operator of the booking's schedule.
	ScheduleOperator(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error)
}

// PaymentUpdate carries gateway data recorded alongside a status change.
type PaymentUpdate struct {
	GatewayRef string
	BankCode   string
	ErrorCode  string
	At         time.Time
}

type PaymentRepository interface {
	// Create returns domain.ErrOpenPaymentExists if the booking already has
	// a pending or processing payment.
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetByTransactionID(ctx context.Context, txnID string) (*domain.Payment, error)
	// GetLatestByBooking returns nil, nil when the booking has no payment.
	GetLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	Transition(ctx context.Context, id uuid.UUID, from, to domain.PaymentStatus, upd PaymentUpdate) (bool, error)
	// ApplyRefund adds amount to the refunded total if it still equals
	// alreadyRefunded.
	ApplyRefund(ctx context.Context, id uuid.UUID, alreadyRefunded, amount int64, reason string, at time.Time) (bool, error)
}

type TicketRepository interface {
	CreateBatch(ctx context.Context, tickets []domain.Ticket) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	CancelByBooking(ctx context.Context, bookingID uuid.UUID, at time.Time) (int64, error)
	MarkUsed(ctx context.Context, number string, by uuid.UUID, at time.Time) (bool, error)
}

type UserRepository interface {
	// Create returns domain.ErrAlreadyExists on a duplicate email.
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile returns domain.ErrAlreadyExists when the phone number
	// belongs to another account.
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName, phone string, at time.Time) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
}

type CatalogRepository interface {
	ListDestinations(ctx context.Context, popularOnly bool, limit int) ([]domain.Destination, error)
	SearchDestinations(ctx context.Context, term string, limit int) ([]domain.Destination, error)
	GetRoute(ctx context.Context, id uuid.UUID) (*domain.Route, error)
	// PopularRoutes ranks routes by bookings on schedules departing at or
	// after since.
	PopularRoutes(ctx context.Context, since time.Time, limit int) ([]domain.RouteStats, error)
}
