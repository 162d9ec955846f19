package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketIssued    TicketStatus = "issued"
	TicketUsed      TicketStatus = "used"
	TicketExpired   TicketStatus = "expired"
	TicketCancelled TicketStatus = "cancelled"
)

type Ticket struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	TicketNumber  string       `json:"ticketNumber" db:"ticket_number"`
	BookingID     uuid.UUID    `json:"bookingId" db:"booking_id"`
	PassengerID   uuid.UUID    `json:"passengerId" db:"passenger_id"`
	ScheduleID    uuid.UUID    `json:"scheduleId" db:"schedule_id"`
	PNR           string       `json:"pnr" db:"pnr"`
	PassengerName string       `json:"passengerName" db:"passenger_name"`
	SeatNumber    string       `json:"seatNumber,omitempty" db:"seat_number"`
	FareClass     string       `json:"fareClass" db:"fare_class"`
	QRPayload     string       `json:"qrPayload" db:"qr_payload"`
	Status        TicketStatus `json:"status" db:"status"`
	IssuedAt      time.Time    `json:"issuedAt" db:"issued_at"`
	UsedAt        *time.Time   `json:"usedAt,omitempty" db:"used_at"`
	UsedBy        *uuid.UUID   `json:"usedBy,omitempty" db:"used_by"`
	CancelledAt   *time.Time   `json:"cancelledAt,omitempty" db:"cancelled_at"`
}

// QRClaims is the data bound into a ticket's QR payload.
type QRClaims struct {
	BookingID    uuid.UUID `json:"bid"`
	PNR          string    `json:"pnr"`
	PassengerID  uuid.UUID `json:"pid"`
	SeatNumber   string    `json:"seat,omitempty"`
	TicketNumber string    `json:"tn"`
}
