package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
)

func sampleBooking() *domain.Booking {
	now := time.Now()
	expires := now.Add(30 * time.Minute)
	return &domain.Booking{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		ScheduleID: uuid.New(),
		PNR:        "AB12CD",
		Status:     domain.BookingPending,
		FareClass:  "economy",
		TotalPrice: 2_500_000,
		Currency:   "VND",
		Contact:    domain.ContactInfo{Email: "a@example.com", Phone: "0900000000"},
		Passengers: []domain.Passenger{
			{ID: uuid.New(), Type: domain.PassengerAdult, FirstName: "An", LastName: "Nguyen", DocumentType: domain.DocumentIDCard, DocumentNumber: "0123"},
			{ID: uuid.New(), Type: domain.PassengerChild, FirstName: "Binh", LastName: "Nguyen", DocumentType: domain.DocumentIDCard, DocumentNumber: "0456"},
		},
		PaymentMethod: domain.MethodVNPay,
		CreatedAt:     now,
		UpdatedAt:     now,
		ExpiresAt:     &expires,
	}
}

func TestBookingRepository_CreateBooking_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	b := sampleBooking()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(`INSERT INTO booking_passengers`)
	prep.ExpectExec().WithArgs(b.Passengers[0].ID, b.ID, 0, sqlmock.AnyArg(), "An", "Nguyen",
		sqlmock.AnyArg(), "", sqlmock.AnyArg(), "0123", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(b.Passengers[1].ID, b.ID, 1, sqlmock.AnyArg(), "Binh", "Nguyen",
		sqlmock.AnyArg(), "", sqlmock.AnyArg(), "0456", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateBooking(context.Background(), b))
}

func TestBookingRepository_CreateBooking_DuplicatePNR(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings .* ON CONFLICT \(pnr\) DO NOTHING`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateBooking(context.Background(), sampleBooking())

	assert.ErrorIs(t, err, domain.ErrDuplicatePNR)
}

func TestBookingRepository_Transition_Conditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	id := uuid.New()
	at := time.Now()

	mock.ExpectExec(`UPDATE bookings\s+SET status = \$1`).
		WithArgs(domain.BookingCancelled, at, "changed plans", id, domain.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings\s+SET status = \$1`).
		WithArgs(domain.BookingCancelled, at, "changed plans", id, domain.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Transition(context.Background(), id, domain.BookingPending, domain.BookingCancelled, "changed plans", at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(context.Background(), id, domain.BookingPending, domain.BookingCancelled, "changed plans", at)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingRepository_Expire_OnlyLapsedPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectExec(`WHERE id = \$2 AND status = 'pending' AND expires_at < \$1`).
		WithArgs(now, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Expire(context.Background(), id, now)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingRepository_GetExpiredBookings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	now := time.Now()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id FROM bookings\s+WHERE status = 'pending' AND expires_at < \$1`).
		WithArgs(now, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(first.String()).AddRow(second.String()))

	ids, err := repo.GetExpiredBookings(context.Background(), now, 100)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), id)

	assert.True(t, domain.IsNotFound(err))
}

func TestBookingRepository_GetByIDForShare_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`FROM bookings WHERE id = \$1 FOR SHARE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pnr", "status"}).AddRow(id.String(), "AB12CD", "cancelled"))
	mock.ExpectQuery(`FROM booking_passengers`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.GetByIDForShare(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	assert.Empty(t, got.Passengers)
}
