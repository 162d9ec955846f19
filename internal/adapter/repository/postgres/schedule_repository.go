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

type scheduleRow struct {
	ID            uuid.UUID `db:"id"`
	RouteID       uuid.UUID `db:"route_id"`
	OperatorID    uuid.UUID `db:"operator_id"`
	VehicleNumber string    `db:"vehicle_number"`
	DepartureTime time.Time `db:"departure_time"`
	ArrivalTime   time.Time `db:"arrival_time"`
	Status        string    `db:"status"`
	DelayMinutes  int       `db:"delay_minutes"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	FromCode      string    `db:"from_code"`
	ToCode        string    `db:"to_code"`
	TransportType string    `db:"transport_type"`
}

type fareClassRow struct {
	ScheduleID     uuid.UUID      `db:"schedule_id"`
	Name           string         `db:"name"`
	TotalSeats     int            `db:"total_seats"`
	AvailableSeats int            `db:"available_seats"`
	Price          int64          `db:"price"`
	Currency       string         `db:"currency"`
	Amenities      pq.StringArray `db:"amenities"`
}

func (row scheduleRow) toDomain(classes []fareClassRow) domain.Schedule {
	s := domain.Schedule{
		ID:            row.ID,
		RouteID:       row.RouteID,
		OperatorID:    row.OperatorID,
		VehicleNumber: row.VehicleNumber,
		DepartureTime: row.DepartureTime,
		ArrivalTime:   row.ArrivalTime,
		Status:        domain.ScheduleStatus(row.Status),
		DelayMinutes:  row.DelayMinutes,
		IsActive:      row.IsActive,
		FromCode:      row.FromCode,
		ToCode:        row.ToCode,
		TransportType: domain.TransportType(row.TransportType),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		FareClasses:   make(map[string]domain.FareClass, len(classes)),
	}
	for _, c := range classes {
		s.FareClasses[c.Name] = domain.FareClass{
			Name:           c.Name,
			TotalSeats:     c.TotalSeats,
			AvailableSeats: c.AvailableSeats,
			Price:          c.Price,
			Currency:       c.Currency,
			Amenities:      []string(c.Amenities),
		}
	}
	return s
}

const scheduleSelect = `
	SELECT s.id, s.route_id, s.operator_id, s.vehicle_number, s.departure_time, s.arrival_time,
		s.status, s.delay_minutes, s.is_active, s.created_at, s.updated_at,
		fd.code AS from_code, td.code AS to_code, r.transport_type
	FROM schedules s
	JOIN routes r ON r.id = s.route_id
	JOIN destinations fd ON fd.id = r.from_destination_id
	JOIN destinations td ON td.id = r.to_destination_id
`

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	conn := database.Conn(ctx, r.db)

	var row scheduleRow
	err := conn.GetContext(ctx, &row, scheduleSelect+` WHERE s.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("schedule")
	}
	if err != nil {
		return nil, fmt.Errorf("could not get schedule: %w", err)
	}

	classes, err := r.fareClasses(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	s := row.toDomain(classes)
	return &s, nil
}

func (r *ScheduleRepository) Search(ctx context.Context, q domain.ScheduleQuery) ([]domain.Schedule, error) {
	dayStart := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	query := scheduleSelect + `
	WHERE fd.code = $1 AND td.code = $2
		AND s.departure_time >= $3 AND s.departure_time < $4
		AND s.departure_time > NOW()
		AND s.is_active AND s.status IN ('scheduled', 'delayed')
		AND EXISTS (
			SELECT 1 FROM schedule_fare_classes fc
			WHERE fc.schedule_id = s.id AND fc.available_seats >= $5 AND ($6 = '' OR fc.name = $6)
		)
	ORDER BY s.departure_time
	LIMIT $7
	`

	var rows []scheduleRow
	err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query,
		q.FromCode, q.ToCode, dayStart, dayStart.Add(24*time.Hour), q.Passengers, q.FareClass, limit)
	if err != nil {
		return nil, fmt.Errorf("could not search schedules: %w", err)
	}

	return r.withFareClasses(ctx, rows)
}

func (r *ScheduleRepository) withFareClasses(ctx context.Context, rows []scheduleRow) ([]domain.Schedule, error) {
	if len(rows) == 0 {
		return []domain.Schedule{}, nil
	}

	classes, err := r.fareClasses(ctx, lo.Map(rows, func(row scheduleRow, _ int) uuid.UUID { return row.ID }))
	if err != nil {
		return nil, err
	}
	bySchedule := lo.GroupBy(classes, func(c fareClassRow) uuid.UUID { return c.ScheduleID })

	return lo.Map(rows, func(row scheduleRow, _ int) domain.Schedule {
		return row.toDomain(bySchedule[row.ID])
	}), nil
}

func (r *ScheduleRepository) List(ctx context.Context, f domain.ScheduleFilter) ([]domain.Schedule, error) {
	statuses := lo.Map(f.Statuses, func(s domain.ScheduleStatus, _ int) string { return string(s) })

	query := scheduleSelect + `
	WHERE s.is_active AND s.departure_time >= $1
		AND ($2::timestamptz IS NULL OR s.departure_time <= $2)
		AND ($3::uuid IS NULL OR s.route_id = $3)
		AND ($4::uuid IS NULL OR s.operator_id = $4)
		AND (cardinality($5::text[]) = 0 OR s.status = ANY($5::text[]))
	ORDER BY s.departure_time
	LIMIT $6
	`

	var rows []scheduleRow
	err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query,
		f.From,
		sql.NullTime{Time: f.To, Valid: !f.To.IsZero()},
		uuid.NullUUID{UUID: f.RouteID, Valid: f.RouteID != uuid.Nil},
		uuid.NullUUID{UUID: f.OperatorID, Valid: f.OperatorID != uuid.Nil},
		pq.Array(statuses),
		f.Limit)
	if err != nil {
		return nil, fmt.Errorf("could not list schedules: %w", err)
	}

	return r.withFareClasses(ctx, rows)
}

func (r *ScheduleRepository) Create(ctx context.Context, s *domain.Schedule) error {
	return database.NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context) error {
		conn := database.Conn(ctx, r.db)

		_, err := conn.ExecContext(ctx, `
		INSERT INTO schedules (id, route_id, operator_id, vehicle_number, departure_time, arrival_time,
			status, delay_minutes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, s.ID, s.RouteID, s.OperatorID, s.VehicleNumber, s.DepartureTime, s.ArrivalTime,
			s.Status, s.DelayMinutes, s.IsActive, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}

		stmt, err := conn.PreparexContext(ctx, `
		INSERT INTO schedule_fare_classes (schedule_id, name, total_seats, available_seats, price, currency, amenities)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare fare class statement: %w", err)
		}

		defer stmt.Close()

		for _, name := range lo.Keys(s.FareClasses) {
			c := s.FareClasses[name]
			amenities := c.Amenities
			if amenities == nil {
				amenities = []string{}
			}
			_, err := stmt.ExecContext(ctx, s.ID, c.Name, c.TotalSeats, c.AvailableSeats, c.Price, c.Currency, pq.Array(amenities))
			if err != nil {
				return fmt.Errorf("failed to insert fare class %s: %w", c.Name, err)
			}
		}

		return nil
	})
}

func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ScheduleStatus, delayMinutes int) (bool, error) {
	query := `
	UPDATE schedules
	SET status = $1, delay_minutes = $2, updated_at = NOW()
	WHERE id = $3 AND status = $4
	`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, to, delayMinutes, id, from)
	if err != nil {
		return false, fmt.Errorf("could not update schedule status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

func (r *ScheduleRepository) fareClasses(ctx context.Context, scheduleIDs []uuid.UUID) ([]fareClassRow, error) {
	ids := lo.Map(scheduleIDs, func(id uuid.UUID, _ int) string { return id.String() })

	var classes []fareClassRow
	err := database.Conn(ctx, r.db).SelectContext(ctx, &classes, `
	SELECT schedule_id, name, total_seats, available_seats, price, currency, amenities
	FROM schedule_fare_classes
	WHERE schedule_id = ANY($1::uuid[])
	ORDER BY schedule_id, price
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("could not load fare classes: %w", err)
	}
	return classes, nil
}
