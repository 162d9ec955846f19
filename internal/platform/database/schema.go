package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'operator', 'admin')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_phone_idx ON users (phone) WHERE phone <> ''`,
	`CREATE TABLE IF NOT EXISTS destinations (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		type TEXT NOT NULL,
		timezone TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_popular BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS routes (
		id UUID PRIMARY KEY,
		from_destination_id UUID NOT NULL REFERENCES destinations (id),
		to_destination_id UUID NOT NULL REFERENCES destinations (id),
		transport_type TEXT NOT NULL CHECK (transport_type IN ('flight', 'train', 'bus', 'ferry')),
		distance_km INT NOT NULL DEFAULT 0,
		estimated_minutes INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (from_destination_id <> to_destination_id)
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id UUID PRIMARY KEY,
		route_id UUID NOT NULL REFERENCES routes (id),
		operator_id UUID NOT NULL REFERENCES users (id),
		vehicle_number TEXT NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		delay_minutes INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (arrival_time > departure_time)
	)`,
	`CREATE INDEX IF NOT EXISTS schedules_route_departure_idx ON schedules (route_id, departure_time)`,
	`CREATE TABLE IF NOT EXISTS schedule_fare_classes (
		schedule_id UUID NOT NULL REFERENCES schedules (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		total_seats INT NOT NULL,
		available_seats INT NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		currency TEXT NOT NULL,
		amenities TEXT[] NOT NULL DEFAULT '{}',
		PRIMARY KEY (schedule_id, name),
		CHECK (available_seats >= 0 AND available_seats <= total_seats)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users (id),
		schedule_id UUID NOT NULL REFERENCES schedules (id),
		pnr CHAR(6) NOT NULL UNIQUE,
		status TEXT NOT NULL,
		fare_class TEXT NOT NULL,
		total_price BIGINT NOT NULL,
		currency TEXT NOT NULL,
		contact_email TEXT NOT NULL,
		contact_phone TEXT NOT NULL,
		contact_first_name TEXT NOT NULL DEFAULT '',
		contact_last_name TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL,
		extension_count INT NOT NULL DEFAULT 0,
		cancel_reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ,
		confirmed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		expired_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_pending_expiry_idx ON bookings (expires_at) WHERE status = 'pending'`,
	`CREATE INDEX IF NOT EXISTS bookings_user_created_idx ON bookings (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS booking_passengers (
		id UUID PRIMARY KEY,
		booking_id UUID NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
		position INT NOT NULL,
		type TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		date_of_birth DATE,
		gender TEXT NOT NULL DEFAULT '',
		document_type TEXT NOT NULL,
		document_number TEXT NOT NULL,
		nationality TEXT NOT NULL DEFAULT '',
		seat_number TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		booking_id UUID NOT NULL REFERENCES bookings (id),
		user_id UUID NOT NULL REFERENCES users (id),
		amount BIGINT NOT NULL CHECK (amount >= 0),
		currency TEXT NOT NULL,
		method TEXT NOT NULL,
		transaction_id TEXT NOT NULL UNIQUE,
		gateway_ref TEXT NOT NULL DEFAULT '',
		bank_code TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		error_code TEXT NOT NULL DEFAULT '',
		refund_amount BIGINT NOT NULL DEFAULT 0,
		refund_reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		failed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		refunded_at TIMESTAMPTZ,
		CHECK (refund_amount >= 0 AND refund_amount <= amount)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS payments_one_open_per_booking_idx ON payments (booking_id) WHERE status IN ('pending', 'processing')`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY,
		ticket_number TEXT NOT NULL UNIQUE,
		booking_id UUID NOT NULL REFERENCES bookings (id),
		passenger_id UUID NOT NULL REFERENCES booking_passengers (id),
		schedule_id UUID NOT NULL REFERENCES schedules (id),
		pnr CHAR(6) NOT NULL,
		passenger_name TEXT NOT NULL,
		seat_number TEXT NOT NULL DEFAULT '',
		fare_class TEXT NOT NULL,
		qr_payload TEXT NOT NULL,
		status TEXT NOT NULL,
		issued_at TIMESTAMPTZ NOT NULL,
		used_at TIMESTAMPTZ,
		used_by UUID,
		cancelled_at TIMESTAMPTZ,
		UNIQUE (booking_id, passenger_id)
	)`,
}

func InitializeDatabaseSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("could not initialize database schema: %w", err)
		}
	}
	return nil
}
