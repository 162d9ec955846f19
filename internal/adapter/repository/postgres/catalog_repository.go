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

const destinationColumns = `id, code, name, city, country, type, timezone, is_active, is_popular, created_at`

type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListDestinations(ctx context.Context, popularOnly bool, limit int) ([]domain.Destination, error) {
	destinations := []domain.Destination{}
	err := database.Conn(ctx, r.db).SelectContext(ctx, &destinations, `
	SELECT `+destinationColumns+` FROM destinations
	WHERE is_active AND (NOT $1 OR is_popular)
	ORDER BY is_popular DESC, name
	LIMIT $2
	`, popularOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list destinations: %w", err)
	}
	return destinations, nil
}

func (r *CatalogRepository) SearchDestinations(ctx context.Context, term string, limit int) ([]domain.Destination, error) {
	destinations := []domain.Destination{}
	err := database.Conn(ctx, r.db).SelectContext(ctx, &destinations, `
	SELECT `+destinationColumns+` FROM destinations
	WHERE is_active AND (code ILIKE $1 OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%')
	ORDER BY (code ILIKE $1) DESC, is_popular DESC, name
	LIMIT $2
	`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("could not search destinations: %w", err)
	}
	return destinations, nil
}

func (r *CatalogRepository) GetRoute(ctx context.Context, id uuid.UUID) (*domain.Route, error) {
	var route domain.Route
	err := database.Conn(ctx, r.db).GetContext(ctx, &route, `
	SELECT id, from_destination_id, to_destination_id, transport_type, distance_km,
		estimated_minutes, is_active, created_at
	FROM routes WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("route")
	}
	if err != nil {
		return nil, fmt.Errorf("could not get route: %w", err)
	}
	return &route, nil
}

func (r *CatalogRepository) PopularRoutes(ctx context.Context, since time.Time, limit int) ([]domain.RouteStats, error) {
	stats := []domain.RouteStats{}
	err := database.Conn(ctx, r.db).SelectContext(ctx, &stats, `
	WITH recent AS (
		SELECT s.id, s.route_id,
			(SELECT MIN(fc.price) FROM schedule_fare_classes fc WHERE fc.schedule_id = s.id) AS min_price,
			(SELECT COUNT(*) FROM bookings b WHERE b.schedule_id = s.id) AS bookings
		FROM schedules s
		WHERE s.is_active AND s.departure_time >= $1
	)
	SELECT r.id AS route_id, fd.code AS from_code, td.code AS to_code, r.transport_type,
		COUNT(*) AS schedule_count,
		COALESCE(SUM(recent.bookings), 0)::BIGINT AS booking_count,
		COALESCE(ROUND(AVG(recent.min_price)), 0)::BIGINT AS avg_min_price
	FROM recent
	JOIN routes r ON r.id = recent.route_id
	JOIN destinations fd ON fd.id = r.from_destination_id
	JOIN destinations td ON td.id = r.to_destination_id
	GROUP BY r.id, fd.code, td.code, r.transport_type
	ORDER BY booking_count DESC, schedule_count DESC
	LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("could not rank routes: %w", err)
	}
	return stats, nil
}
