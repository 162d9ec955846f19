package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
	"github.com/srgjo27/transit_ticket/internal/platform/metrics"
)

const (
	maxPassengers = 9

	defaultExtendMinutes = 15
	minExtendMinutes     = 5
	maxExtendMinutes     = 60

	settleAttempts = 3
)

type BookingConfig struct {
	HoldDuration  time.Duration
	MaxExtensions int
	MaxHold       time.Duration
	PNRAttempts   int
	SweepInterval time.Duration
	SweepBatch    int
	Now           func() time.Time
}

func (c BookingConfig) withDefaults() BookingConfig {
	if c.HoldDuration <= 0 {
		c.HoldDuration = 30 * time.Minute
	}
	if c.MaxExtensions <= 0 {
		c.MaxExtensions = 3
	}
	if c.MaxHold <= 0 {
		c.MaxHold = 2 * time.Hour
	}
	if c.PNRAttempts <= 0 {
		c.PNRAttempts = 5
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.SweepBatch <= 0 {
		c.SweepBatch = 100
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type CreateBookingRequest struct {
	ScheduleID    uuid.UUID            `json:"scheduleId"`
	FareClass     string               `json:"fareClass"`
	Passengers    []domain.Passenger   `json:"passengers"`
	Contact       domain.ContactInfo   `json:"contactInfo"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

func (r CreateBookingRequest) validate() error {
	if r.ScheduleID == uuid.Nil {
		return domain.NewValidationError("scheduleId", "required")
	}
	if r.FareClass == "" {
		return domain.NewValidationError("fareClass", "required")
	}
	if len(r.Passengers) == 0 {
		return domain.NewValidationError("passengers", "at least one passenger required")
	}
	if len(r.Passengers) > maxPassengers {
		return domain.NewValidationError("passengers", fmt.Sprintf("at most %d passengers per booking", maxPassengers))
	}
	for _, p := range r.Passengers {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if err := r.Contact.Validate(); err != nil {
		return err
	}
	if !r.PaymentMethod.Valid() {
		return domain.NewValidationError("paymentMethod", "must be vnpay, momo, stripe or bank_transfer")
	}
	return nil
}

type CreateBookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	Payment *domain.Payment `json:"payment"`
}

type ConfirmBookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	Tickets []domain.Ticket `json:"tickets"`
}

// PassengerUpdate holds the passenger fields a customer may change while the
// booking is still pending. Empty fields are left as they are.
type PassengerUpdate struct {
	FirstName      string              `json:"firstName"`
	LastName       string              `json:"lastName"`
	DateOfBirth    *time.Time          `json:"dateOfBirth"`
	Gender         string              `json:"gender"`
	DocumentType   domain.DocumentType `json:"documentType"`
	DocumentNumber string              `json:"documentNumber"`
	Nationality    string              `json:"nationality"`
	SeatNumber     string              `json:"seatNumber"`
}

type BookingPage struct {
	Items []domain.Booking `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type BookingService struct {
	tx        ports.Transactor
	schedules ports.ScheduleRepository
	inventory ports.InventoryLedger
	bookings  ports.BookingRepository
	payments  ports.PaymentRepository
	tickets   ports.TicketIssuer
	cache     ports.AvailabilityCache
	events    ports.EventPublisher
	cfg       BookingConfig
}

func NewBookingService(
	tx ports.Transactor,
	schedules ports.ScheduleRepository,
	inventory ports.InventoryLedger,
	bookings ports.BookingRepository,
	payments ports.PaymentRepository,
	tickets ports.TicketIssuer,
	cache ports.AvailabilityCache,
	events ports.EventPublisher,
	cfg BookingConfig,
) *BookingService {
	return &BookingService{
		tx:        tx,
		schedules: schedules,
		inventory: inventory,
		bookings:  bookings,
		payments:  payments,
		tickets:   tickets,
		cache:     cache,
		events:    events,
		cfg:       cfg.withDefaults(),
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, sub domain.Subject, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if err := domain.Authorize(sub, domain.Resource{Kind: domain.ResourceBooking, OwnerID: sub.ID}, domain.ActionCreate); err != nil {
		return nil, err
	}

	schedule, err := s.schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now()
	if !schedule.Bookable(now) {
		return nil, domain.NewValidationError("scheduleId", "schedule is not open for booking")
	}

	fareClass, ok := schedule.FareClass(req.FareClass)
	if !ok {
		return nil, domain.NewValidationError("fareClass", fmt.Sprintf("unknown fare class %q", req.FareClass))
	}

	bookingID := uuid.New()
	expiresAt := now.Add(s.cfg.HoldDuration)

	passengers := lo.Map(req.Passengers, func(p domain.Passenger, i int) domain.Passenger {
		p.ID = uuid.New()
		p.BookingID = bookingID
		p.Position = i
		return p
	})

	booking := &domain.Booking{
		ID:            bookingID,
		UserID:        sub.ID,
		ScheduleID:    schedule.ID,
		Status:        domain.BookingPending,
		Passengers:    passengers,
		FareClass:     fareClass.Name,
		TotalPrice:    fareClass.Price * int64(len(passengers)),
		Currency:      fareClass.Currency,
		Contact:       req.Contact,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
		ExpiresAt:     &expiresAt,
	}

	payment := &domain.Payment{
		ID:            uuid.New(),
		BookingID:     bookingID,
		UserID:        sub.ID,
		Amount:        booking.TotalPrice,
		Currency:      booking.Currency,
		Method:        req.PaymentMethod,
		TransactionID: shortuuid.New(),
		Status:        domain.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.inventory.Reserve(ctx, schedule.ID, fareClass.Name, len(passengers)); err != nil {
			return err
		}

		if err := s.insertWithUniquePNR(ctx, booking); err != nil {
			return err
		}

		return s.payments.Create(ctx, payment)
	})
	if errors.Is(err, domain.ErrInsufficientInventory) {
		metrics.InventoryConflicts.Inc()
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, schedule.ID)
	metrics.BookingsCreated.Inc()

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"pnr":        booking.PNR,
		"schedule":   schedule.ID,
		"fare_class": fareClass.Name,
		"passengers": len(passengers),
	}).Info("Booking created")

	return &CreateBookingResponse{Booking: booking, Payment: payment}, nil
}

func (s *BookingService) insertWithUniquePNR(ctx context.Context, booking *domain.Booking) error {
	var lastErr error
	for attempt := 0; attempt < s.cfg.PNRAttempts; attempt++ {
		pnr, err := domain.NewPNR()
		if err != nil {
			return domain.NewInternalError("could not generate pnr", err)
		}
		booking.PNR = pnr

		lastErr = s.bookings.CreateBooking(ctx, booking)
		if !errors.Is(lastErr, domain.ErrDuplicatePNR) {
			return lastErr
		}

		logging.FromContext(ctx).WithField("pnr", pnr).Debug("PNR collision, retrying")
	}

	return domain.NewInternalError("could not allocate a unique pnr", lastErr)
}

func (s *BookingService) ConfirmBooking(ctx context.Context, sub domain.Subject, id uuid.UUID) (*ConfirmBookingResponse, error) {
	booking, err := s.load(ctx, sub, id, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingPending {
		return nil, domain.ErrAlreadyProcessed.WithMsg("booking is %s", booking.Status)
	}

	payment, err := s.payments.GetLatestByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.Status != domain.PaymentCompleted {
		return nil, domain.ErrPaymentNotCompleted
	}

	now := s.cfg.Now()
	var tickets []domain.Ticket

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.bookings.Transition(ctx, booking.ID, domain.BookingPending, domain.BookingConfirmed, "", now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}

		booking.Status = domain.BookingConfirmed
		booking.ConfirmedAt = &now
		booking.ExpiresAt = nil
		booking.UpdatedAt = now

		tickets, err = s.tickets.Issue(ctx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.transitioned(ctx, booking, domain.BookingConfirmed)

	return &ConfirmBookingResponse{Booking: booking, Tickets: tickets}, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, sub domain.Subject, id uuid.UUID, reason string) (*domain.Booking, error) {
	booking, err := s.load(ctx, sub, id, domain.ActionCancel)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case domain.BookingCancelled:
		return nil, domain.ErrAlreadyCancelled
	case domain.BookingCompleted:
		return nil, domain.ErrAlreadyCompleted
	case domain.BookingExpired:
		return nil, domain.ErrInvalidTransition.WithMsg("booking has expired")
	}

	if reason == "" {
		reason = "cancelled by customer"
	}

	now := s.cfg.Now()
	from := booking.Status

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.bookings.Transition(ctx, booking.ID, from, domain.BookingCancelled, reason, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyProcessed
		}

		if _, err := s.inventory.Release(ctx, booking.ScheduleID, booking.FareClass, booking.PassengerCount()); err != nil {
			return err
		}

		if from == domain.BookingConfirmed {
			if err := s.tickets.CancelForBooking(ctx, booking.ID); err != nil {
				return err
			}
		}

		return s.settlePayment(ctx, booking, reason)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingCancelled
	booking.CancelReason = reason
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	s.invalidateAvailability(ctx, booking.ScheduleID)
	s.transitioned(ctx, booking, domain.BookingCancelled)

	return booking, nil
}

// ExpireBooking is called by the sweeper only. It reports false when the
// booking no longer needs expiring, which is not an error.
func (s *BookingService) ExpireBooking(ctx context.Context, id uuid.UUID) (bool, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	now := s.cfg.Now()
	if !booking.IsOverdue(now) {
		return false, nil
	}

	expired := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.bookings.Expire(ctx, booking.ID, now)
		if err != nil || !ok {
			return err
		}
		expired = true

		if _, err := s.inventory.Release(ctx, booking.ScheduleID, booking.FareClass, booking.PassengerCount()); err != nil {
			return err
		}

		return s.settlePayment(ctx, booking, "booking expired")
	})
	if err != nil || !expired {
		return false, err
	}

	booking.Status = domain.BookingExpired
	booking.ExpiredAt = &now

	s.invalidateAvailability(ctx, booking.ScheduleID)
	s.transitioned(ctx, booking, domain.BookingExpired)

	return true, nil
}

func (s *BookingService) ExtendBooking(ctx context.Context, sub domain.Subject, id uuid.UUID, minutes int) (*domain.Booking, error) {
	if minutes == 0 {
		minutes = defaultExtendMinutes
	}
	if minutes < minExtendMinutes || minutes > maxExtendMinutes {
		return nil, domain.NewValidationError("minutes", fmt.Sprintf("must be between %d and %d", minExtendMinutes, maxExtendMinutes))
	}

	booking, err := s.load(ctx, sub, id, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingPending {
		return nil, domain.ErrInvalidTransition.WithMsg("only pending bookings can be extended")
	}

	if booking.ExtensionCount >= s.cfg.MaxExtensions {
		return nil, domain.ErrExtensionLimit.WithMsg("booking was already extended %d times", booking.ExtensionCount)
	}

	now := s.cfg.Now()
	base := now
	if booking.ExpiresAt != nil && booking.ExpiresAt.After(now) {
		base = *booking.ExpiresAt
	}

	expiresAt := base.Add(time.Duration(minutes) * time.Minute)
	if limit := booking.CreatedAt.Add(s.cfg.MaxHold); expiresAt.After(limit) {
		return nil, domain.ErrExtensionLimit.WithMsg("hold cannot go past %s", limit.Format(time.RFC3339))
	}

	ok, err := s.bookings.ExtendExpiry(ctx, booking.ID, expiresAt, s.cfg.MaxExtensions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyProcessed
	}

	booking.ExpiresAt = &expiresAt
	booking.ExtensionCount++
	booking.UpdatedAt = now

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"expires_at": expiresAt,
		"extensions": booking.ExtensionCount,
	}).Info("Booking hold extended")

	return booking, nil
}

func (s *BookingService) CompleteBooking(ctx context.Context, sub domain.Subject, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.load(ctx, sub, id, domain.ActionComplete)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(domain.BookingCompleted) {
		return nil, domain.ErrInvalidTransition.WithMsg("cannot complete a %s booking", booking.Status)
	}

	now := s.cfg.Now()
	ok, err := s.bookings.Transition(ctx, booking.ID, booking.Status, domain.BookingCompleted, "", now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyProcessed
	}

	booking.Status = domain.BookingCompleted
	booking.CompletedAt = &now
	booking.UpdatedAt = now

	s.transitioned(ctx, booking, domain.BookingCompleted)

	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, sub domain.Subject, id uuid.UUID) (*domain.Booking, error) {
	return s.load(ctx, sub, id, domain.ActionRead)
}

func (s *BookingService) GetBookingByPNR(ctx context.Context, sub domain.Subject, pnr string) (*domain.Booking, error) {
	normalized, err := domain.NormalizePNR(pnr)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByPNR(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, sub, booking, domain.ActionRead); err != nil {
		return nil, err
	}

	return booking, nil
}

// ListBookings lists the caller's own bookings. Admins may list anyone's.
func (s *BookingService) ListBookings(ctx context.Context, sub domain.Subject, filter domain.BookingFilter) (*BookingPage, error) {
	if sub.Role != domain.RoleAdmin || filter.UserID == nil {
		filter.UserID = &sub.ID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status", "unknown booking status")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	items, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &BookingPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *BookingService) UpdatePassenger(ctx context.Context, sub domain.Subject, bookingID, passengerID uuid.UUID, upd PassengerUpdate) (*domain.Passenger, error) {
	booking, err := s.load(ctx, sub, bookingID, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingPending {
		return nil, domain.ErrInvalidTransition.WithMsg("passengers can only be changed while the booking is pending")
	}

	p, ok := booking.Passenger(passengerID)
	if !ok {
		return nil, domain.NewNotFoundError("passenger")
	}

	updated := *p
	updated.FirstName = lo.Ternary(upd.FirstName != "", upd.FirstName, p.FirstName)
	updated.LastName = lo.Ternary(upd.LastName != "", upd.LastName, p.LastName)
	updated.Gender = lo.Ternary(upd.Gender != "", upd.Gender, p.Gender)
	updated.DocumentType = lo.Ternary(upd.DocumentType != "", upd.DocumentType, p.DocumentType)
	updated.DocumentNumber = lo.Ternary(upd.DocumentNumber != "", upd.DocumentNumber, p.DocumentNumber)
	updated.Nationality = lo.Ternary(upd.Nationality != "", upd.Nationality, p.Nationality)
	updated.SeatNumber = lo.Ternary(upd.SeatNumber != "", upd.SeatNumber, p.SeatNumber)
	if upd.DateOfBirth != nil {
		updated.DateOfBirth = upd.DateOfBirth
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	ok, err = s.bookings.UpdatePassenger(ctx, booking.ID, updated)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyProcessed
	}

	return &updated, nil
}

func (s *BookingService) Tickets(ctx context.Context, sub domain.Subject, id uuid.UUID) ([]domain.Ticket, error) {
	booking, err := s.load(ctx, sub, id, domain.ActionRead)
	if err != nil {
		return nil, err
	}

	return s.tickets.ListForBooking(ctx, booking.ID)
}

func (s *BookingService) load(ctx context.Context, sub domain.Subject, id uuid.UUID, act domain.Action) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, sub, booking, act); err != nil {
		return nil, err
	}

	return booking, nil
}

// authorize only resolves the schedule operator when it can change the answer.
func (s *BookingService) authorize(ctx context.Context, sub domain.Subject, booking *domain.Booking, act domain.Action) error {
	operatorID := uuid.Nil
	if sub.Role == domain.RoleOperator && booking.UserID != sub.ID {
		id, err := s.bookings.ScheduleOperator(ctx, booking.ID)
		if err != nil {
			return err
		}
		operatorID = id
	}

	return domain.Authorize(sub, domain.BookingResource(booking, operatorID), act)
}

// settlePayment runs in the transaction that released the booking's seats.
// Money already taken is refunded and an attempt still open is cancelled.
func (s *BookingService) settlePayment(ctx context.Context, booking *domain.Booking, reason string) error {
	for attempt := 0; attempt < settleAttempts; attempt++ {
		payment, err := s.payments.GetLatestByBooking(ctx, booking.ID)
		if err != nil {
			return err
		}

		switch {
		case payment == nil:
			return nil
		case payment.Status == domain.PaymentCompleted:
			return publishRefund(ctx, s.events, booking, payment, reason)
		case !payment.Status.IsOpen():
			return nil
		}

		ok, err := s.payments.Transition(ctx, payment.ID, payment.Status, domain.PaymentCancelled, ports.PaymentUpdate{At: s.cfg.Now()})
		if err != nil {
			return err
		}
		if ok {
			logging.FromContext(ctx).WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"payment_id": payment.ID,
			}).Info("Open payment cancelled with booking")
			return nil
		}
	}

	return domain.NewInternalError("payment kept changing while settling booking "+booking.PNR, nil)
}

func publishRefund(ctx context.Context, events ports.EventPublisher, booking *domain.Booking, payment *domain.Payment, reason string) error {
	event := &domain.RefundRequested{
		Header:         domain.NewEventHeaderWithIdempotencyKey(fmt.Sprintf("refund-%s-%d", payment.ID, payment.Amount)),
		PaymentID:      payment.ID,
		BookingID:      booking.ID,
		PNR:            booking.PNR,
		TargetRefunded: payment.Amount,
		Currency:       payment.Currency,
		Reason:         reason,
	}

	if err := events.Publish(ctx, event); err != nil {
		return fmt.Errorf("could not publish refund request: %w", err)
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"payment_id": payment.ID,
		"amount":     payment.Amount,
	}).Info("Refund requested")

	return nil
}

func (s *BookingService) invalidateAvailability(ctx context.Context, scheduleID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, scheduleID); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("schedule_id", scheduleID).Warn("Could not invalidate availability cache")
	}
}

func (s *BookingService) transitioned(ctx context.Context, booking *domain.Booking, to domain.BookingStatus) {
	metrics.BookingTransitions.WithLabelValues(string(to)).Inc()

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"pnr":        booking.PNR,
		"status":     to,
	}).Info("Booking status changed")
}
