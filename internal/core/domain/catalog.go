package domain

import (
	"time"

	"github.com/google/uuid"
)

type DestinationType string

const (
	DestinationAirport     DestinationType = "airport"
	DestinationStation     DestinationType = "train_station"
	DestinationBusTerminal DestinationType = "bus_terminal"
	DestinationPort        DestinationType = "port"
)

type Destination struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Code      string          `json:"code" db:"code"`
	Name      string          `json:"name" db:"name"`
	City      string          `json:"city" db:"city"`
	Country   string          `json:"country" db:"country"`
	Type      DestinationType `json:"type" db:"type"`
	Timezone  string          `json:"timezone,omitempty" db:"timezone"`
	IsActive  bool            `json:"isActive" db:"is_active"`
	IsPopular bool            `json:"isPopular" db:"is_popular"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

type TransportType string

const (
	TransportFlight TransportType = "flight"
	TransportTrain  TransportType = "train"
	TransportBus    TransportType = "bus"
	TransportFerry  TransportType = "ferry"
)

func (t TransportType) Valid() bool {
	switch t {
	case TransportFlight, TransportTrain, TransportBus, TransportFerry:
		return true
	}
	return false
}

type Route struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	FromID           uuid.UUID     `json:"fromId" db:"from_destination_id"`
	ToID             uuid.UUID     `json:"toId" db:"to_destination_id"`
	TransportType    TransportType `json:"transportType" db:"transport_type"`
	DistanceKm       int           `json:"distanceKm" db:"distance_km"`
	EstimatedMinutes int           `json:"estimatedMinutes" db:"estimated_minutes"`
	IsActive         bool          `json:"isActive" db:"is_active"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
}

// ScheduleQuery is a customer search over departures.
type ScheduleQuery struct {
	FromCode   string
	ToCode     string
	Date       time.Time
	Passengers int
	FareClass  string
	Limit      int
}

func (q ScheduleQuery) Validate() error {
	if q.FromCode == "" || q.ToCode == "" {
		return NewValidationError("from/to", "required")
	}
	if q.FromCode == q.ToCode {
		return NewValidationError("to", "must differ from origin")
	}
	if q.Date.IsZero() {
		return NewValidationError("date", "required")
	}
	if q.Passengers < 1 || q.Passengers > 9 {
		return NewValidationError("passengers", "must be between 1 and 9")
	}
	return nil
}

// RouteStats ranks a route by the bookings made on its recent departures.
type RouteStats struct {
	RouteID       uuid.UUID     `json:"routeId" db:"route_id"`
	FromCode      string        `json:"from" db:"from_code"`
	ToCode        string        `json:"to" db:"to_code"`
	TransportType TransportType `json:"transportType" db:"transport_type"`
	ScheduleCount int           `json:"scheduleCount" db:"schedule_count"`
	BookingCount  int           `json:"bookingCount" db:"booking_count"`
	AvgMinPrice   int64         `json:"avgMinPrice" db:"avg_min_price"`
}

// ScheduleFilter lists active schedules departing from From onwards, in
// departure order. Zero fields do not filter.
type ScheduleFilter struct {
	RouteID    uuid.UUID
	OperatorID uuid.UUID
	Statuses   []ScheduleStatus
	From       time.Time
	To         time.Time
	Limit      int
}
