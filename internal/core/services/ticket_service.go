package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

const ticketNumberPrefix = "TK"

type TicketVerification struct {
	Claims *domain.QRClaims `json:"claims"`
	Ticket *domain.Ticket   `json:"ticket"`
	Valid  bool             `json:"valid"`
}

type TicketService struct {
	tickets   ports.TicketRepository
	bookings  ports.BookingRepository
	schedules ports.ScheduleRepository
	signer    ports.QRSigner
	renderer  ports.TicketRenderer
	now       func() time.Time
}

func NewTicketService(
	tickets ports.TicketRepository,
	bookings ports.BookingRepository,
	schedules ports.ScheduleRepository,
	signer ports.QRSigner,
	renderer ports.TicketRenderer,
) *TicketService {
	return &TicketService{
		tickets:   tickets,
		bookings:  bookings,
		schedules: schedules,
		signer:    signer,
		renderer:  renderer,
		now:       time.Now,
	}
}

// Issue creates one ticket per passenger. All tickets are stored in one
// batch so a failure leaves none behind.
func (s *TicketService) Issue(ctx context.Context, booking *domain.Booking) ([]domain.Ticket, error) {
	if booking.ID == uuid.Nil || booking.PNR == "" || booking.ScheduleID == uuid.Nil || booking.FareClass == "" {
		return nil, domain.ErrTicketGeneration.WithMsg("booking %s is missing ticket fields", booking.ID)
	}
	if len(booking.Passengers) == 0 {
		return nil, domain.ErrTicketGeneration.WithMsg("booking %s has no passengers", booking.ID)
	}

	now := s.now()
	tickets := make([]domain.Ticket, 0, len(booking.Passengers))

	for _, p := range booking.Passengers {
		if p.ID == uuid.Nil || p.FullName() == "" {
			return nil, domain.ErrTicketGeneration.WithMsg("passenger %d of booking %s is incomplete", p.Position, booking.PNR)
		}

		number := ticketNumberPrefix + shortuuid.New()

		payload, err := s.signer.Sign(domain.QRClaims{
			BookingID:    booking.ID,
			PNR:          booking.PNR,
			PassengerID:  p.ID,
			SeatNumber:   p.SeatNumber,
			TicketNumber: number,
		})
		if err != nil {
			return nil, domain.ErrTicketGeneration.Wrap(err)
		}

		tickets = append(tickets, domain.Ticket{
			ID:            uuid.New(),
			TicketNumber:  number,
			BookingID:     booking.ID,
			PassengerID:   p.ID,
			ScheduleID:    booking.ScheduleID,
			PNR:           booking.PNR,
			PassengerName: p.FullName(),
			SeatNumber:    p.SeatNumber,
			FareClass:     booking.FareClass,
			QRPayload:     payload,
			Status:        domain.TicketIssued,
			IssuedAt:      now,
		})
	}

	if err := s.tickets.CreateBatch(ctx, tickets); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"pnr":        booking.PNR,
		"tickets":    len(tickets),
	}).Info("Tickets issued")

	return tickets, nil
}

func (s *TicketService) CancelForBooking(ctx context.Context, bookingID uuid.UUID) error {
	n, err := s.tickets.CancelByBooking(ctx, bookingID, s.now())
	if err != nil {
		return err
	}

	if n > 0 {
		logging.FromContext(ctx).WithFields(logrus.Fields{
			"booking_id": bookingID,
			"tickets":    n,
		}).Info("Tickets cancelled")
	}

	return nil
}

func (s *TicketService) ListForBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error) {
	return s.tickets.ListByBooking(ctx, bookingID)
}

// VerifyQR checks the payload signature offline, then reports the ticket's
// current status.
func (s *TicketService) VerifyQR(ctx context.Context, payload string) (*TicketVerification, error) {
	claims, err := s.signer.Verify(payload)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByNumber(ctx, claims.TicketNumber)
	if err != nil {
		return nil, err
	}

	if ticket.BookingID != claims.BookingID || ticket.PassengerID != claims.PassengerID {
		return nil, domain.ErrInvalidTicket.WithMsg("payload does not match ticket %s", ticket.TicketNumber)
	}

	return &TicketVerification{
		Claims: claims,
		Ticket: ticket,
		Valid:  ticket.Status == domain.TicketIssued,
	}, nil
}

// Use marks a ticket as used at the gate.
func (s *TicketService) Use(ctx context.Context, sub domain.Subject, number string) (*domain.Ticket, error) {
	if !sub.IsStaff() {
		return nil, domain.ErrForbidden
	}

	ticket, schedule, err := s.load(ctx, number)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{Kind: domain.ResourceTicket, OperatorID: schedule.OperatorID}
	if err := domain.Authorize(sub, res, domain.ActionComplete); err != nil {
		return nil, err
	}

	if ticket.Status != domain.TicketIssued {
		return nil, domain.ErrInvalidTransition.WithMsg("ticket is %s", ticket.Status)
	}

	now := s.now()
	ok, err := s.tickets.MarkUsed(ctx, ticket.TicketNumber, sub.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyProcessed.WithMsg("ticket was used concurrently")
	}

	ticket.Status = domain.TicketUsed
	ticket.UsedAt = &now
	ticket.UsedBy = &sub.ID

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"ticket": ticket.TicketNumber,
		"pnr":    ticket.PNR,
		"by":     sub.ID,
	}).Info("Ticket used")

	return ticket, nil
}

func (s *TicketService) RenderPDF(ctx context.Context, sub domain.Subject, number string) ([]byte, *domain.Ticket, error) {
	ticket, schedule, err := s.load(ctx, number)
	if err != nil {
		return nil, nil, err
	}

	booking, err := s.bookings.GetByID(ctx, ticket.BookingID)
	if err != nil {
		return nil, nil, err
	}

	res := domain.Resource{Kind: domain.ResourceTicket, OwnerID: booking.UserID, OperatorID: schedule.OperatorID}
	if err := domain.Authorize(sub, res, domain.ActionRead); err != nil {
		return nil, nil, err
	}

	pdf, err := s.renderer.Render(ticket, schedule)
	if err != nil {
		return nil, nil, domain.NewInternalError("could not render ticket", err)
	}

	return pdf, ticket, nil
}

func (s *TicketService) load(ctx context.Context, number string) (*domain.Ticket, *domain.Schedule, error) {
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}

	schedule, err := s.schedules.GetByID(ctx, ticket.ScheduleID)
	if err != nil {
		return nil, nil, err
	}

	return ticket, schedule, nil
}
