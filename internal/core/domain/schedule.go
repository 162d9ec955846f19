package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ScheduleStatus string

const (
	ScheduleScheduled   ScheduleStatus = "scheduled"
	ScheduleDelayed     ScheduleStatus = "delayed"
	ScheduleCancelled   ScheduleStatus = "cancelled"
	ScheduleDeparted    ScheduleStatus = "departed"
	ScheduleArrived     ScheduleStatus = "arrived"
	ScheduleMaintenance ScheduleStatus = "maintenance"
)

var scheduleTransitions = map[ScheduleStatus][]ScheduleStatus{
	ScheduleScheduled:   {ScheduleDelayed, ScheduleCancelled, ScheduleDeparted, ScheduleMaintenance},
	ScheduleDelayed:     {ScheduleScheduled, ScheduleCancelled, ScheduleDeparted, ScheduleMaintenance},
	ScheduleCancelled:   {ScheduleScheduled},
	ScheduleDeparted:    {ScheduleArrived, ScheduleCancelled},
	ScheduleArrived:     {},
	ScheduleMaintenance: {ScheduleScheduled, ScheduleCancelled},
}

func (s ScheduleStatus) Valid() bool {
	_, ok := scheduleTransitions[s]
	return ok
}

func (s ScheduleStatus) CanTransitionTo(next ScheduleStatus) bool {
	return lo.Contains(scheduleTransitions[s], next)
}

// FareClass is one seat tier of a schedule. AvailableSeats is only ever
// changed by the inventory ledger.
type FareClass struct {
	Name           string   `json:"name" db:"name"`
	TotalSeats     int      `json:"totalSeats" db:"total_seats"`
	AvailableSeats int      `json:"availableSeats" db:"available_seats"`
	Price          int64    `json:"price" db:"price"`
	Currency       string   `json:"currency" db:"currency"`
	Amenities      []string `json:"amenities,omitempty" db:"-"`
}

type Schedule struct {
	ID            uuid.UUID            `json:"id"`
	RouteID       uuid.UUID            `json:"routeId"`
	OperatorID    uuid.UUID            `json:"operatorId"`
	VehicleNumber string               `json:"vehicleNumber"`
	DepartureTime time.Time            `json:"departureTime"`
	ArrivalTime   time.Time            `json:"arrivalTime"`
	Status        ScheduleStatus       `json:"status"`
	DelayMinutes  int                  `json:"delayMinutes"`
	IsActive      bool                 `json:"isActive"`
	FareClasses   map[string]FareClass `json:"fareClasses"`
	FromCode      string               `json:"from,omitempty"`
	ToCode        string               `json:"to,omitempty"`
	TransportType TransportType        `json:"transportType,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// TotalSeats and AvailableSeats are always derived from the fare classes.
func (s *Schedule) TotalSeats() int {
	return lo.SumBy(lo.Values(s.FareClasses), func(c FareClass) int { return c.TotalSeats })
}

func (s *Schedule) AvailableSeats() int {
	return lo.SumBy(lo.Values(s.FareClasses), func(c FareClass) int { return c.AvailableSeats })
}

func (s *Schedule) FareClass(name string) (FareClass, bool) {
	c, ok := s.FareClasses[name]
	return c, ok
}

// Bookable reports whether new reservations may be taken at now.
func (s *Schedule) Bookable(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.Status != ScheduleScheduled && s.Status != ScheduleDelayed {
		return false
	}
	return s.DepartureTime.After(now)
}

func (s *Schedule) ActualDepartureTime() time.Time {
	return s.DepartureTime.Add(time.Duration(s.DelayMinutes) * time.Minute)
}

// ApplyDelay sets the delay and toggles between scheduled and delayed.
func (s *Schedule) ApplyDelay(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	s.DelayMinutes = minutes
	switch {
	case minutes > 0 && s.Status == ScheduleScheduled:
		s.Status = ScheduleDelayed
	case minutes == 0 && s.Status == ScheduleDelayed:
		s.Status = ScheduleScheduled
	}
}

// Validate checks a schedule before it is first stored.
func (s *Schedule) Validate() error {
	if s.VehicleNumber == "" {
		return NewValidationError("vehicleNumber", "required")
	}
	if !s.ArrivalTime.After(s.DepartureTime) {
		return NewValidationError("arrivalTime", "must be after departure")
	}
	if len(s.FareClasses) == 0 {
		return NewValidationError("fareClasses", "at least one fare class required")
	}
	for name, c := range s.FareClasses {
		if name == "" || c.Name != name {
			return NewValidationError("fareClasses", "class name mismatch")
		}
		if c.TotalSeats <= 0 {
			return NewValidationError("fareClasses."+name+".totalSeats", "must be positive")
		}
		if c.AvailableSeats < 0 || c.AvailableSeats > c.TotalSeats {
			return NewValidationError("fareClasses."+name+".availableSeats", "must be between 0 and totalSeats")
		}
		if c.Price < 0 {
			return NewValidationError("fareClasses."+name+".price", "must not be negative")
		}
		if !Currency(c.Currency).Valid() {
			return NewValidationError("fareClasses."+name+".currency", "must be VND or USD")
		}
	}
	return nil
}

// Availability is the public view of a schedule's seat inventory.
type Availability struct {
	ScheduleID     uuid.UUID            `json:"scheduleId"`
	TotalSeats     int                  `json:"totalSeats"`
	AvailableSeats int                  `json:"availableSeats"`
	Classes        map[string]FareClass `json:"classes"`
}

func (s *Schedule) Availability() Availability {
	return Availability{
		ScheduleID:     s.ID,
		TotalSeats:     s.TotalSeats(),
		AvailableSeats: s.AvailableSeats(),
		Classes:        s.FareClasses,
	}
}
