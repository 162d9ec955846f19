package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
	"github.com/srgjo27/transit_ticket/internal/platform/metrics"
)

const paymentURLTTL = 15 * time.Minute

type InitiatePaymentRequest struct {
	BookingID uuid.UUID `json:"bookingId"`
	BankCode  string    `json:"bankCode"`
	ClientIP  string    `json:"-"`
}

type InitiatePaymentResponse struct {
	Payment    *domain.Payment `json:"payment"`
	PaymentURL string          `json:"paymentUrl"`
}

// CallbackOutcome tells the transport layer how a verified callback was
// applied so it can answer in the gateway's own envelope.
type CallbackOutcome struct {
	Payment          *domain.Payment `json:"payment"`
	AlreadyProcessed bool            `json:"alreadyProcessed"`
	RefundRequested  bool            `json:"refundRequested"`
}

type PaymentService struct {
	tx       ports.Transactor
	payments ports.PaymentRepository
	bookings ports.BookingRepository
	events   ports.EventPublisher
	gateways map[string]ports.PaymentGateway
	now      func() time.Time
}

func NewPaymentService(
	tx ports.Transactor,
	payments ports.PaymentRepository,
	bookings ports.BookingRepository,
	events ports.EventPublisher,
	gateways ...ports.PaymentGateway,
) *PaymentService {
	byProvider := make(map[string]ports.PaymentGateway, len(gateways))
	for _, gw := range gateways {
		byProvider[gw.Provider()] = gw
	}

	return &PaymentService{
		tx:       tx,
		payments: payments,
		bookings: bookings,
		events:   events,
		gateways: byProvider,
		now:      time.Now,
	}
}

// WithClock replaces the service clock, for tests.
func (s *PaymentService) WithClock(now func() time.Time) *PaymentService {
	s.now = now
	return s
}

func (s *PaymentService) gateway(provider string) (ports.PaymentGateway, error) {
	gw, ok := s.gateways[provider]
	if !ok {
		return nil, domain.NewNotFoundError("payment_provider").WithMsg("payment provider %q is not supported", provider)
	}
	return gw, nil
}

// Initiate returns a redirect URL for the booking's open payment, opening a
// new attempt when the previous one failed or was cancelled.
func (s *PaymentService) Initiate(ctx context.Context, sub domain.Subject, provider string, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	gw, err := s.gateway(provider)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(sub, domain.BookingResource(booking, uuid.Nil), domain.ActionUpdate); err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingPending {
		return nil, domain.ErrAlreadyProcessed.WithMsg("booking is %s", booking.Status)
	}

	if string(booking.PaymentMethod) != provider {
		return nil, domain.NewValidationError("provider", fmt.Sprintf("booking is paid with %s", booking.PaymentMethod))
	}

	now := s.now()

	payment, err := s.payments.GetLatestByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case payment == nil || payment.Status == domain.PaymentFailed || payment.Status == domain.PaymentCancelled:
		payment = &domain.Payment{
			ID:            uuid.New(),
			BookingID:     booking.ID,
			UserID:        booking.UserID,
			Amount:        booking.TotalPrice,
			Currency:      booking.Currency,
			Method:        booking.PaymentMethod,
			TransactionID: shortuuid.New(),
			BankCode:      req.BankCode,
			Status:        domain.PaymentPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return nil, err
		}
	case !payment.Status.IsOpen():
		return nil, domain.ErrAlreadyProcessed.WithMsg("booking is already paid")
	}

	expiresAt := now.Add(paymentURLTTL)
	if booking.ExpiresAt != nil && booking.ExpiresAt.Before(expiresAt) {
		expiresAt = *booking.ExpiresAt
	}

	paymentURL, err := gw.CreatePaymentURL(ctx, ports.PaymentURLRequest{
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		OrderInfo:     "Payment for booking " + booking.PNR,
		BankCode:      req.BankCode,
		ClientIP:      req.ClientIP,
		CreatedAt:     now,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("could not build payment url: %w", err)
	}

	if payment.Status == domain.PaymentPending {
		ok, err := s.payments.Transition(ctx, payment.ID, domain.PaymentPending, domain.PaymentProcessing,
			ports.PaymentUpdate{BankCode: req.BankCode, At: now})
		if err != nil {
			return nil, err
		}
		if ok {
			payment.Status = domain.PaymentProcessing
		}
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"transaction_id": payment.TransactionID,
		"provider":       provider,
	}).Info("Payment initiated")

	return &InitiatePaymentResponse{Payment: payment, PaymentURL: paymentURL}, nil
}

// HandleCallback applies a signed gateway callback. Both the browser return
// and the IPN land here. A callback for a settled payment is acknowledged
// without being applied again.
func (s *PaymentService) HandleCallback(ctx context.Context, provider string, params url.Values) (*CallbackOutcome, error) {
	gw, err := s.gateway(provider)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx).WithField("provider", provider)

	result, err := gw.VerifyCallback(params)
	if err != nil {
		metrics.PaymentCallbacks.WithLabelValues(provider, "invalid_signature").Inc()
		log.WithError(err).Warn("Rejected payment callback")
		return nil, err
	}

	log = log.WithField("transaction_id", result.TransactionID)

	payment, err := s.payments.GetByTransactionID(ctx, result.TransactionID)
	if err != nil {
		metrics.PaymentCallbacks.WithLabelValues(provider, "not_found").Inc()
		return nil, err
	}

	if result.Amount != payment.Amount {
		metrics.PaymentCallbacks.WithLabelValues(provider, "amount_mismatch").Inc()
		log.WithFields(logrus.Fields{
			"expected": payment.Amount,
			"received": result.Amount,
		}).Warn("Payment callback amount mismatch")
		return nil, domain.ErrAmountMismatch.WithMsg("expected %d, got %d", payment.Amount, result.Amount)
	}

	if !payment.Status.AcceptsCallback(result.Success) {
		metrics.PaymentCallbacks.WithLabelValues(provider, "duplicate").Inc()
		return &CallbackOutcome{Payment: payment, AlreadyProcessed: true}, nil
	}

	now := s.now()
	outcome := &CallbackOutcome{Payment: payment}

	target := domain.PaymentFailed
	if result.Success {
		target = domain.PaymentCompleted
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The booking is locked before the payment, the same order cancel
		// and expiry use, so one of the two always sees the other's write.
		booking, err := s.bookings.GetByIDForShare(ctx, payment.BookingID)
		if err != nil {
			return err
		}

		current, err := s.payments.GetByID(ctx, payment.ID)
		if err != nil {
			return err
		}
		*payment = *current

		if !current.Status.AcceptsCallback(result.Success) {
			outcome.AlreadyProcessed = true
			return nil
		}

		ok, err := s.payments.Transition(ctx, current.ID, current.Status, target, ports.PaymentUpdate{
			GatewayRef: result.GatewayRef,
			BankCode:   result.BankCode,
			ErrorCode:  result.ResponseCode,
			At:         now,
		})
		if err != nil {
			return err
		}
		if !ok {
			outcome.AlreadyProcessed = true
			return nil
		}

		payment.Status = target
		payment.GatewayRef = result.GatewayRef
		payment.ErrorCode = result.ResponseCode
		payment.UpdatedAt = now
		if target == domain.PaymentFailed {
			payment.FailedAt = &now
			return nil
		}
		payment.CompletedAt = &now

		if booking.Status.HoldsInventory() {
			return nil
		}

		// The hold lapsed or was cancelled before the money arrived.
		outcome.RefundRequested = true
		return publishRefund(ctx, s.events, booking, payment, "payment received for "+string(booking.Status)+" booking")
	})
	if err != nil {
		return nil, err
	}

	label := string(target)
	if outcome.AlreadyProcessed {
		label = "duplicate"
	}
	metrics.PaymentCallbacks.WithLabelValues(provider, label).Inc()

	log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"status":     payment.Status,
		"code":       result.ResponseCode,
	}).Info("Payment callback processed")

	return outcome, nil
}

// ProcessRefund handles a RefundRequested event. The event carries the total
// that should have been refunded, so a redelivered event is a no-op.
func (s *PaymentService) ProcessRefund(ctx context.Context, event *domain.RefundRequested) error {
	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"payment_id": event.PaymentID,
		"booking_id": event.BookingID,
	})

	payment, err := s.payments.GetByID(ctx, event.PaymentID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		log.Warn("Refund requested for unknown payment, dropping")
		return nil
	}
	if err != nil {
		return err
	}

	if payment.RefundAmount >= event.TargetRefunded {
		log.Debug("Refund already applied")
		return nil
	}

	amount := event.TargetRefunded - payment.RefundAmount
	if _, err := payment.RefundStatus(amount); err != nil {
		log.WithError(err).Error("Refund request exceeds paid amount, dropping")
		return nil
	}

	if payment.Status != domain.PaymentCompleted && payment.Status != domain.PaymentPartiallyRefunded {
		log.WithField("status", payment.Status).Warn("Payment is not refundable, dropping")
		return nil
	}

	gw, ok := s.gateways[string(payment.Method)]
	if !ok {
		log.WithField("method", payment.Method).Warn("No gateway for payment method, manual refund required")
		return nil
	}

	paidAt := payment.CreatedAt
	if payment.CompletedAt != nil {
		paidAt = *payment.CompletedAt
	}

	err = gw.Refund(ctx, domain.RefundRequest{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		GatewayRef:    payment.GatewayRef,
		Amount:        amount,
		Partial:       payment.RefundAmount+amount < payment.Amount,
		Reason:        event.Reason,
		PaidAt:        paidAt,
	})
	if err != nil {
		return fmt.Errorf("gateway refund failed: %w", err)
	}

	applied, err := s.payments.ApplyRefund(ctx, payment.ID, payment.RefundAmount, amount, event.Reason, s.now())
	if err != nil {
		return err
	}
	if !applied {
		log.Warn("Refund total changed concurrently, not recorded twice")
		return nil
	}

	log.WithField("amount", amount).Info("Payment refunded")

	return nil
}
