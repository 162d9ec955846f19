package handler

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/services"
)

type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, sub domain.Subject) error
	Authenticate(accessToken string) (domain.Subject, error)
	Me(ctx context.Context, sub domain.Subject) (*domain.User, error)
	UpdateProfile(ctx context.Context, sub domain.Subject, upd services.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, sub domain.Subject, current, next string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) error
}

type CatalogService interface {
	ListDestinations(ctx context.Context, limit int) ([]domain.Destination, error)
	PopularDestinations(ctx context.Context, limit int) ([]domain.Destination, error)
	SearchDestinations(ctx context.Context, term string, limit int) ([]domain.Destination, error)
	SearchSchedules(ctx context.Context, q domain.ScheduleQuery) ([]domain.Schedule, error)
	GetSchedule(ctx context.Context, id uuid.UUID) (*domain.Schedule, error)
	PopularRoutes(ctx context.Context, limit int) ([]domain.RouteStats, error)
	SchedulesByRoute(ctx context.Context, routeID uuid.UUID, from, to time.Time, limit int) ([]domain.Schedule, error)
	SchedulesByOperator(ctx context.Context, sub domain.Subject, operatorID uuid.UUID, status domain.ScheduleStatus, limit int) ([]domain.Schedule, error)
	DelayedSchedules(ctx context.Context, limit int) ([]domain.Schedule, error)
	Availability(ctx context.Context, id uuid.UUID) (*domain.Availability, error)
	CreateSchedule(ctx context.Context, sub domain.Subject, req services.CreateScheduleRequest) (*domain.Schedule, error)
	UpdateScheduleStatus(ctx context.Context, sub domain.Subject, id uuid.UUID, to domain.ScheduleStatus) (*domain.Schedule, error)
	SetDelay(ctx context.Context, sub domain.Subject, id uuid.UUID, minutes int) (*domain.Schedule, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, sub domain.Subject, req services.CreateBookingRequest) (*services.CreateBookingResponse, error)
	ConfirmBooking(ctx context.Context, sub domain.Subject, id uuid.UUID) (*services.ConfirmBookingResponse, error)
	CancelBooking(ctx context.Context, sub domain.Subject, id uuid.UUID, reason string) (*domain.Booking, error)
	ExtendBooking(ctx context.Context, sub domain.Subject, id uuid.UUID, minutes int) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, sub domain.Subject, id uuid.UUID) (*domain.Booking, error)
	GetBooking(ctx context.Context, sub domain.Subject, id uuid.UUID) (*domain.Booking, error)
	GetBookingByPNR(ctx context.Context, sub domain.Subject, pnr string) (*domain.Booking, error)
	ListBookings(ctx context.Context, sub domain.Subject, filter domain.BookingFilter) (*services.BookingPage, error)
	UpdatePassenger(ctx context.Context, sub domain.Subject, bookingID, passengerID uuid.UUID, upd services.PassengerUpdate) (*domain.Passenger, error)
	Tickets(ctx context.Context, sub domain.Subject, id uuid.UUID) ([]domain.Ticket, error)
}

type PaymentService interface {
	Initiate(ctx context.Context, sub domain.Subject, provider string, req services.InitiatePaymentRequest) (*services.InitiatePaymentResponse, error)
	HandleCallback(ctx context.Context, provider string, params url.Values) (*services.CallbackOutcome, error)
}

type TicketService interface {
	VerifyQR(ctx context.Context, payload string) (*services.TicketVerification, error)
	Use(ctx context.Context, sub domain.Subject, number string) (*domain.Ticket, error)
	RenderPDF(ctx context.Context, sub domain.Subject, number string) ([]byte, *domain.Ticket, error)
}

// Handlers holds the services behind the HTTP API.
type Handlers struct {
	auth     AuthService
	catalog  CatalogService
	bookings BookingService
	payments PaymentService
	tickets  TicketService
	dev      bool
}

func NewHandlers(
	auth AuthService,
	catalog CatalogService,
	bookings BookingService,
	payments PaymentService,
	tickets TicketService,
	dev bool,
) *Handlers {
	return &Handlers{
		auth:     auth,
		catalog:  catalog,
		bookings: bookings,
		payments: payments,
		tickets:  tickets,
		dev:      dev,
	}
}

var (
	_ AuthService    = (*services.AuthService)(nil)
	_ CatalogService = (*services.CatalogService)(nil)
	_ BookingService = (*services.BookingService)(nil)
	_ PaymentService = (*services.PaymentService)(nil)
	_ TicketService  = (*services.TicketService)(nil)
)
