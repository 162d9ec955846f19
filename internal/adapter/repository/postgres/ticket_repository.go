package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
)

const ticketColumns = `
	id, ticket_number, booking_id, passenger_id, schedule_id, pnr, passenger_name, seat_number,
	fare_class, qr_payload, status, issued_at, used_at, used_by, cancelled_at
`

type TicketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []domain.Ticket) error {
	return database.NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context) error {
		stmt, err := database.Conn(ctx, r.db).PreparexContext(ctx, `
		INSERT INTO tickets (id, ticket_number, booking_id, passenger_id, schedule_id, pnr,
			passenger_name, seat_number, fare_class, qr_payload, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare ticket statement: %w", err)
		}

		defer stmt.Close()

		for _, t := range tickets {
			_, err := stmt.ExecContext(ctx, t.ID, t.TicketNumber, t.BookingID, t.PassengerID, t.ScheduleID,
				t.PNR, t.PassengerName, t.SeatNumber, t.FareClass, t.QRPayload, t.Status, t.IssuedAt)
			if _, dup := uniqueConstraint(err); dup {
				return domain.ErrTicketGeneration.Wrap(err).WithMsg("ticket already issued for passenger %s", t.PassengerID)
			}
			if err != nil {
				return fmt.Errorf("failed to insert ticket %s: %w", t.TicketNumber, err)
			}
		}

		return nil
	})
}

func (r *TicketRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error) {
	tickets := []domain.Ticket{}
	err := database.Conn(ctx, r.db).SelectContext(ctx, &tickets, `
	SELECT `+ticketColumns+` FROM tickets
	WHERE booking_id = $1
	ORDER BY issued_at, ticket_number
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("could not list tickets: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := database.Conn(ctx, r.db).GetContext(ctx, &t, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = $1`, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("ticket")
	}
	if err != nil {
		return nil, fmt.Errorf("could not get ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) CancelByBooking(ctx context.Context, bookingID uuid.UUID, at time.Time) (int64, error) {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `
	UPDATE tickets SET status = 'cancelled', cancelled_at = $1
	WHERE booking_id = $2 AND status = 'issued'
	`, at, bookingID)
	if err != nil {
		return 0, fmt.Errorf("could not cancel tickets: %w", err)
	}
	return result.RowsAffected()
}

func (r *TicketRepository) MarkUsed(ctx context.Context, number string, by uuid.UUID, at time.Time) (bool, error) {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `
	UPDATE tickets SET status = 'used', used_at = $1, used_by = $2
	WHERE ticket_number = $3 AND status = 'issued'
	`, at, by, number)
	if err != nil {
		return false, fmt.Errorf("could not mark ticket used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}
