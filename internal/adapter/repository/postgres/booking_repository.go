package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
)

type bookingRow struct {
	ID               uuid.UUID  `db:"id"`
	UserID           uuid.UUID  `db:"user_id"`
	ScheduleID       uuid.UUID  `db:"schedule_id"`
	PNR              string     `db:"pnr"`
	Status           string     `db:"status"`
	FareClass        string     `db:"fare_class"`
	TotalPrice       int64      `db:"total_price"`
	Currency         string     `db:"currency"`
	ContactEmail     string     `db:"contact_email"`
	ContactPhone     string     `db:"contact_phone"`
	ContactFirstName string     `db:"contact_first_name"`
	ContactLastName  string     `db:"contact_last_name"`
	PaymentMethod    string     `db:"payment_method"`
	ExtensionCount   int        `db:"extension_count"`
	CancelReason     string     `db:"cancel_reason"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	ExpiresAt        *time.Time `db:"expires_at"`
	ConfirmedAt      *time.Time `db:"confirmed_at"`
	CancelledAt      *time.Time `db:"cancelled_at"`
	ExpiredAt        *time.Time `db:"expired_at"`
	CompletedAt      *time.Time `db:"completed_at"`
}

func (row bookingRow) toDomain(passengers []domain.Passenger) domain.Booking {
	if passengers == nil {
		passengers = []domain.Passenger{}
	}
	return domain.Booking{
		ID:         row.ID,
		UserID:     row.UserID,
		ScheduleID: row.ScheduleID,
		PNR:        row.PNR,
		Status:     domain.BookingStatus(row.Status),
		Passengers: passengers,
		FareClass:  row.FareClass,
		TotalPrice: row.TotalPrice,
		Currency:   row.Currency,
		Contact: domain.ContactInfo{
			Email:     row.ContactEmail,
			Phone:     row.ContactPhone,
			FirstName: row.ContactFirstName,
			LastName:  row.ContactLastName,
		},
		PaymentMethod:  domain.PaymentMethod(row.PaymentMethod),
		ExtensionCount: row.ExtensionCount,
		CancelReason:   row.CancelReason,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		ExpiresAt:      row.ExpiresAt,
		ConfirmedAt:    row.ConfirmedAt,
		CancelledAt:    row.CancelledAt,
		ExpiredAt:      row.ExpiredAt,
		CompletedAt:    row.CompletedAt,
	}
}

const bookingColumns = `
	id, user_id, schedule_id, pnr, status, fare_class, total_price, currency,
	contact_email, contact_phone, contact_first_name, contact_last_name, payment_method,
	extension_count, cancel_reason, created_at, updated_at, expires_at,
	confirmed_at, cancelled_at, expired_at, completed_at
`

const passengerColumns = `
	id, booking_id, position, type, first_name, last_name, date_of_birth, gender,
	document_type, document_number, nationality, seat_number
`

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	return database.NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context) error {
		conn := database.Conn(ctx, r.db)

		queryHeader := `
		INSERT INTO bookings (id, user_id, schedule_id, pnr, status, fare_class, total_price, currency,
			contact_email, contact_phone, contact_first_name, contact_last_name, payment_method,
			extension_count, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (pnr) DO NOTHING
		`

		result, err := conn.ExecContext(ctx, queryHeader,
			booking.ID, booking.UserID, booking.ScheduleID, booking.PNR, booking.Status, booking.FareClass,
			booking.TotalPrice, booking.Currency, booking.Contact.Email, booking.Contact.Phone,
			booking.Contact.FirstName, booking.Contact.LastName, booking.PaymentMethod,
			booking.ExtensionCount, booking.CreatedAt, booking.UpdatedAt, booking.ExpiresAt)
		if err != nil {
			return fmt.Errorf("failed to insert booking header: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rowsAffected == 0 {
			return domain.ErrDuplicatePNR
		}

		queryPassenger := `
		INSERT INTO booking_passengers (` + passengerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`

		stmt, err := conn.PreparexContext(ctx, queryPassenger)
		if err != nil {
			return fmt.Errorf("failed to prepare passenger statement: %w", err)
		}

		defer stmt.Close()

		for i, p := range booking.Passengers {
			_, err := stmt.ExecContext(ctx, p.ID, booking.ID, i, p.Type, p.FirstName, p.LastName,
				p.DateOfBirth, p.Gender, p.DocumentType, p.DocumentNumber, p.Nationality, p.SeatNumber)
			if err != nil {
				return fmt.Errorf("failed to insert passenger %s: %w", p.ID, err)
			}
		}

		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) GetByIDForShare(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR SHARE`, id)
}

func (r *BookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr = $1`, pnr)
}

func (r *BookingRepository) getOne(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	var row bookingRow
	err := database.Conn(ctx, r.db).GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("booking")
	}
	if err != nil {
		return nil, fmt.Errorf("could not get booking: %w", err)
	}

	passengers, err := r.passengers(ctx, []uuid.UUID{row.ID})
	if err != nil {
		return nil, err
	}

	b := row.toDomain(passengers[row.ID])
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	conn := database.Conn(ctx, r.db)
	where := `
	WHERE ($1::uuid IS NULL OR user_id = $1)
		AND ($2::uuid IS NULL OR schedule_id = $2)
		AND ($3 = '' OR status = $3)
	`

	var total int
	err := conn.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings`+where,
		filter.UserID, filter.ScheduleID, filter.Status)
	if err != nil {
		return nil, 0, fmt.Errorf("could not count bookings: %w", err)
	}

	var rows []bookingRow
	err = conn.SelectContext(ctx, &rows, `SELECT `+bookingColumns+` FROM bookings`+where+`
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`, filter.UserID, filter.ScheduleID, filter.Status, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("could not list bookings: %w", err)
	}

	passengers, err := r.passengers(ctx, lo.Map(rows, func(row bookingRow, _ int) uuid.UUID { return row.ID }))
	if err != nil {
		return nil, 0, err
	}

	return lo.Map(rows, func(row bookingRow, _ int) domain.Booking {
		return row.toDomain(passengers[row.ID])
	}), total, nil
}

func (r *BookingRepository) Transition(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus, reason string, at time.Time) (bool, error) {
	query := `
	UPDATE bookings
	SET status = $1,
		updated_at = $2,
		confirmed_at = CASE WHEN $1 = 'confirmed' THEN $2 ELSE confirmed_at END,
		cancelled_at = CASE WHEN $1 = 'cancelled' THEN $2 ELSE cancelled_at END,
		expired_at = CASE WHEN $1 = 'expired' THEN $2 ELSE expired_at END,
		completed_at = CASE WHEN $1 = 'completed' THEN $2 ELSE completed_at END,
		expires_at = CASE WHEN $1 = 'confirmed' THEN NULL ELSE expires_at END,
		cancel_reason = CASE WHEN $1 = 'cancelled' THEN $3 ELSE cancel_reason END
	WHERE id = $4 AND status = $5
	`

	return r.execOne(ctx, query, to, at, reason, id, from)
}

func (r *BookingRepository) Expire(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `
	UPDATE bookings
	SET status = 'expired', expired_at = $1, updated_at = $1
	WHERE id = $2 AND status = 'pending' AND expires_at < $1
	`

	return r.execOne(ctx, query, now, id)
}

func (r *BookingRepository) ExtendExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time, maxExtensions int) (bool, error) {
	query := `
	UPDATE bookings
	SET expires_at = $1, extension_count = extension_count + 1, updated_at = NOW()
	WHERE id = $2 AND status = 'pending' AND extension_count < $3
	`

	return r.execOne(ctx, query, expiresAt, id, maxExtensions)
}

func (r *BookingRepository) GetExpiredBookings(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT id FROM bookings
	WHERE status = 'pending' AND expires_at < $1
	ORDER BY expires_at
	LIMIT $2
	`

	var ids []uuid.UUID
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &ids, query, now, limit); err != nil {
		return nil, fmt.Errorf("could not list expired bookings: %w", err)
	}

	return ids, nil
}

func (r *BookingRepository) UpdatePassenger(ctx context.Context, bookingID uuid.UUID, p domain.Passenger) (bool, error) {
	query := `
	UPDATE booking_passengers bp
	SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
		document_type = $5, document_number = $6, nationality = $7, seat_number = $8
	FROM bookings b
	WHERE bp.id = $9 AND bp.booking_id = $10 AND b.id = bp.booking_id AND b.status = 'pending'
	`

	return r.execOne(ctx, query, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.DocumentType, p.DocumentNumber, p.Nationality, p.SeatNumber, p.ID, bookingID)
}

func (r *BookingRepository) ScheduleOperator(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	var operatorID uuid.UUID
	err := database.Conn(ctx, r.db).GetContext(ctx, &operatorID, `
	SELECT s.operator_id FROM bookings b
	JOIN schedules s ON s.id = b.schedule_id
	WHERE b.id = $1
	`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, domain.NewNotFoundError("booking")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not resolve schedule operator: %w", err)
	}
	return operatorID, nil
}

func (r *BookingRepository) execOne(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

func (r *BookingRepository) passengers(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]domain.Passenger, error) {
	if len(bookingIDs) == 0 {
		return map[uuid.UUID][]domain.Passenger{}, nil
	}

	ids := lo.Map(bookingIDs, func(id uuid.UUID, _ int) string { return id.String() })

	var rows []domain.Passenger
	err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, `
	SELECT `+passengerColumns+`
	FROM booking_passengers
	WHERE booking_id = ANY($1::uuid[])
	ORDER BY booking_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("could not load passengers: %w", err)
	}

	return lo.GroupBy(rows, func(p domain.Passenger) uuid.UUID { return p.BookingID }), nil
}
