package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentProcessing        PaymentStatus = "processing"
	PaymentCompleted         PaymentStatus = "completed"
	PaymentFailed            PaymentStatus = "failed"
	PaymentCancelled         PaymentStatus = "cancelled"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:           {PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled},
	PaymentProcessing:        {PaymentCompleted, PaymentFailed, PaymentCancelled},
	PaymentCompleted:         {PaymentRefunded, PaymentPartiallyRefunded},
	PaymentPartiallyRefunded: {PaymentPartiallyRefunded, PaymentRefunded},
	PaymentCancelled:         {PaymentCompleted},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return lo.Contains(paymentTransitions[s], next)
}

// IsOpen reports whether the gateway may still settle the attempt.
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentPending || s == PaymentProcessing
}

// AcceptsCallback reports whether a gateway callback may still move the
// payment. An attempt cancelled together with its booking can still be paid
// late; that money is refunded.
func (s PaymentStatus) AcceptsCallback(success bool) bool {
	return s.IsOpen() || (success && s == PaymentCancelled)
}

type Currency string

const (
	CurrencyVND Currency = "VND"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	return c == CurrencyVND || c == CurrencyUSD
}

type Payment struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	BookingID     uuid.UUID     `json:"bookingId" db:"booking_id"`
	UserID        uuid.UUID     `json:"userId" db:"user_id"`
	Amount        int64         `json:"amount" db:"amount"`
	Currency      string        `json:"currency" db:"currency"`
	Method        PaymentMethod `json:"method" db:"method"`
	TransactionID string        `json:"transactionId" db:"transaction_id"`
	GatewayRef    string        `json:"gatewayRef,omitempty" db:"gateway_ref"`
	BankCode      string        `json:"bankCode,omitempty" db:"bank_code"`
	Status        PaymentStatus `json:"status" db:"status"`
	ErrorCode     string        `json:"errorCode,omitempty" db:"error_code"`
	RefundAmount  int64         `json:"refundAmount" db:"refund_amount"`
	RefundReason  string        `json:"refundReason,omitempty" db:"refund_reason"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty" db:"completed_at"`
	FailedAt      *time.Time    `json:"failedAt,omitempty" db:"failed_at"`
	CancelledAt   *time.Time    `json:"cancelledAt,omitempty" db:"cancelled_at"`
	RefundedAt    *time.Time    `json:"refundedAt,omitempty" db:"refunded_at"`
}

func (p *Payment) Refundable() int64 {
	return p.Amount - p.RefundAmount
}

// RefundStatus is the status a refund of amount would leave the payment in.
func (p *Payment) RefundStatus(amount int64) (PaymentStatus, error) {
	if amount <= 0 {
		return "", NewValidationError("refundAmount", "must be positive")
	}
	if p.RefundAmount+amount > p.Amount {
		return "", NewValidationError("refundAmount", "exceeds paid amount")
	}
	if p.RefundAmount+amount == p.Amount {
		return PaymentRefunded, nil
	}
	return PaymentPartiallyRefunded, nil
}

// CallbackResult is what a gateway tells us about one attempt, after its
// signature has been checked.
type CallbackResult struct {
	TransactionID string
	GatewayRef    string
	Amount        int64
	Success       bool
	ResponseCode  string
	BankCode      string
}

type RefundRequest struct {
	PaymentID     uuid.UUID
	TransactionID string
	GatewayRef    string
	Amount        int64
	Partial       bool
	Reason        string
	PaidAt        time.Time
}
