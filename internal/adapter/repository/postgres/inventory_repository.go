package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
)

// InventoryRepository is the inventory ledger. Every change is a single
// conditional UPDATE so concurrent reservations never oversell.
type InventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Reserve(ctx context.Context, scheduleID uuid.UUID, fareClass string, qty int) (int, error) {
	if qty <= 0 {
		return 0, domain.NewValidationError("quantity", "must be positive")
	}

	query := `
	UPDATE schedule_fare_classes
	SET available_seats = available_seats - $1
	WHERE schedule_id = $2 AND name = $3 AND available_seats >= $1
	RETURNING available_seats
	`

	var left int
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, query, qty, scheduleID, fareClass).Scan(&left)
	if err == nil {
		return left, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("could not reserve seats: %w", err)
	}

	available, err := r.available(ctx, scheduleID, fareClass)
	if err != nil {
		return 0, err
	}

	return 0, domain.ErrInsufficientInventory.WithMsg("only %d seats left in %s", available, fareClass)
}

func (r *InventoryRepository) Release(ctx context.Context, scheduleID uuid.UUID, fareClass string, qty int) (int, error) {
	if qty <= 0 {
		return 0, domain.NewValidationError("quantity", "must be positive")
	}

	query := `
	UPDATE schedule_fare_classes
	SET available_seats = LEAST(total_seats, available_seats + $1)
	WHERE schedule_id = $2 AND name = $3
	RETURNING available_seats
	`

	var left int
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, query, qty, scheduleID, fareClass).Scan(&left)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NewNotFoundError("fare_class")
	}
	if err != nil {
		return 0, fmt.Errorf("could not release seats: %w", err)
	}

	return left, nil
}

func (r *InventoryRepository) available(ctx context.Context, scheduleID uuid.UUID, fareClass string) (int, error) {
	var available int
	err := database.Conn(ctx, r.db).GetContext(ctx, &available, `
	SELECT available_seats FROM schedule_fare_classes
	WHERE schedule_id = $1 AND name = $2
	`, scheduleID, fareClass)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NewNotFoundError("fare_class")
	}
	if err != nil {
		return 0, fmt.Errorf("could not read availability: %w", err)
	}
	return available, nil
}
