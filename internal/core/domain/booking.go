package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingExpired},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingExpired, BookingCompleted:
		return true
	}
	return false
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return lo.Contains(bookingTransitions[s], next)
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// HoldsInventory reports whether a booking in this status keeps its seats.
func (s BookingStatus) HoldsInventory() bool {
	return s == BookingPending || s == BookingConfirmed
}

type PassengerType string

const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

type DocumentType string

const (
	DocumentPassport      DocumentType = "passport"
	DocumentIDCard        DocumentType = "id_card"
	DocumentDriverLicense DocumentType = "driver_license"
)

type PaymentMethod string

const (
	MethodVNPay        PaymentMethod = "vnpay"
	MethodMomo         PaymentMethod = "momo"
	MethodStripe       PaymentMethod = "stripe"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodVNPay, MethodMomo, MethodStripe, MethodBankTransfer:
		return true
	}
	return false
}

type Passenger struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	BookingID      uuid.UUID     `json:"-" db:"booking_id"`
	Type           PassengerType `json:"type" db:"type"`
	FirstName      string        `json:"firstName" db:"first_name"`
	LastName       string        `json:"lastName" db:"last_name"`
	DateOfBirth    *time.Time    `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender         string        `json:"gender,omitempty" db:"gender"`
	DocumentType   DocumentType  `json:"documentType" db:"document_type"`
	DocumentNumber string        `json:"documentNumber" db:"document_number"`
	Nationality    string        `json:"nationality,omitempty" db:"nationality"`
	SeatNumber     string        `json:"seatNumber,omitempty" db:"seat_number"`
	Position       int           `json:"-" db:"position"`
}

func (p Passenger) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Passenger) Validate() error {
	switch p.Type {
	case PassengerAdult, PassengerChild, PassengerInfant:
	default:
		return NewValidationError("passengers.type", "must be adult, child or infant")
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return NewValidationError("passengers.firstName", "required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return NewValidationError("passengers.lastName", "required")
	}
	switch p.DocumentType {
	case DocumentPassport, DocumentIDCard, DocumentDriverLicense:
	default:
		return NewValidationError("passengers.documentType", "must be passport, id_card or driver_license")
	}
	if strings.TrimSpace(p.DocumentNumber) == "" {
		return NewValidationError("passengers.documentNumber", "required")
	}
	return nil
}

type ContactInfo struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (c ContactInfo) Validate() error {
	if !strings.Contains(c.Email, "@") {
		return NewValidationError("contactInfo.email", "invalid email")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return NewValidationError("contactInfo.phone", "required")
	}
	return nil
}

type Booking struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"userId"`
	ScheduleID     uuid.UUID     `json:"scheduleId"`
	PNR            string        `json:"pnr"`
	Status         BookingStatus `json:"status"`
	Passengers     []Passenger   `json:"passengers"`
	FareClass      string        `json:"fareClass"`
	TotalPrice     int64         `json:"totalPrice"`
	Currency       string        `json:"currency"`
	Contact        ContactInfo   `json:"contactInfo"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	ExtensionCount int           `json:"extensionCount"`
	CancelReason   string        `json:"cancelReason,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	ExpiresAt      *time.Time    `json:"expiresAt,omitempty"`
	ConfirmedAt    *time.Time    `json:"confirmedAt,omitempty"`
	CancelledAt    *time.Time    `json:"cancelledAt,omitempty"`
	ExpiredAt      *time.Time    `json:"expiredAt,omitempty"`
	CompletedAt    *time.Time    `json:"completedAt,omitempty"`
}

func (b *Booking) PassengerCount() int {
	return len(b.Passengers)
}

// IsOverdue reports a pending booking whose hold has lapsed.
func (b *Booking) IsOverdue(now time.Time) bool {
	return b.Status == BookingPending && b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}

func (b *Booking) Passenger(id uuid.UUID) (*Passenger, bool) {
	for i := range b.Passengers {
		if b.Passengers[i].ID == id {
			return &b.Passengers[i], true
		}
	}
	return nil, false
}

// BookingFilter narrows listing queries.
type BookingFilter struct {
	UserID     *uuid.UUID
	ScheduleID *uuid.UUID
	Status     BookingStatus
	Page       int
	Limit      int
}

func (f BookingFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
