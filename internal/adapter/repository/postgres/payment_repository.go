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
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
)

const paymentColumns = `
	id, booking_id, user_id, amount, currency, method, transaction_id, gateway_ref, bank_code,
	status, error_code, refund_amount, refund_reason, created_at, updated_at,
	completed_at, failed_at, cancelled_at, refunded_at
`

const openPaymentIndex = "payments_one_open_per_booking_idx"

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	_, err := database.Conn(ctx, r.db).NamedExecContext(ctx, `
	INSERT INTO payments (id, booking_id, user_id, amount, currency, method, transaction_id,
		bank_code, status, created_at, updated_at)
	VALUES (:id, :booking_id, :user_id, :amount, :currency, :method, :transaction_id,
		:bank_code, :status, :created_at, :updated_at)
	`, p)
	if constraint, ok := uniqueConstraint(err); ok {
		if constraint == openPaymentIndex {
			return domain.ErrOpenPaymentExists
		}
		return domain.ErrAlreadyExists.WithMsg("payment %s already exists", p.TransactionID)
	}
	if err != nil {
		return fmt.Errorf("could not insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, txnID string) (*domain.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, txnID)
}

func (r *PaymentRepository) GetLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	p, err := r.getOne(ctx, `
	SELECT `+paymentColumns+` FROM payments
	WHERE booking_id = $1
	ORDER BY created_at DESC
	LIMIT 1
	`, bookingID)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	return p, err
}

func (r *PaymentRepository) getOne(ctx context.Context, query string, arg any) (*domain.Payment, error) {
	var p domain.Payment
	err := database.Conn(ctx, r.db).GetContext(ctx, &p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get payment: %w", err)
	}
	return &p, nil
}

func (r *PaymentRepository) Transition(ctx context.Context, id uuid.UUID, from, to domain.PaymentStatus, upd ports.PaymentUpdate) (bool, error) {
	query := `
	UPDATE payments
	SET status = $1,
		updated_at = $2,
		gateway_ref = COALESCE(NULLIF($3, ''), gateway_ref),
		bank_code = COALESCE(NULLIF($4, ''), bank_code),
		error_code = $5,
		completed_at = CASE WHEN $1 = 'completed' THEN $2 ELSE completed_at END,
		failed_at = CASE WHEN $1 = 'failed' THEN $2 ELSE failed_at END,
		cancelled_at = CASE WHEN $1 = 'cancelled' THEN $2 ELSE cancelled_at END
	WHERE id = $6 AND status = $7
	`

	return r.execOne(ctx, query, to, upd.At, upd.GatewayRef, upd.BankCode, upd.ErrorCode, id, from)
}

func (r *PaymentRepository) ApplyRefund(ctx context.Context, id uuid.UUID, alreadyRefunded, amount int64, reason string, at time.Time) (bool, error) {
	query := `
	UPDATE payments
	SET refund_amount = refund_amount + $1,
		refund_reason = $2,
		refunded_at = $3,
		updated_at = $3,
		status = CASE WHEN refund_amount + $1 = amount THEN 'refunded' ELSE 'partially_refunded' END
	WHERE id = $4
		AND refund_amount = $5
		AND refund_amount + $1 <= amount
		AND status IN ('completed', 'partially_refunded')
	`

	return r.execOne(ctx, query, amount, reason, at, id, alreadyRefunded)
}

func (r *PaymentRepository) execOne(ctx context.Context, query string, args ...any) (bool, error) {
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
