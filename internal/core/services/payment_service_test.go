package services_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/transit_ticket/internal/core/services"
)

type paymentFixture struct {
	tx       *mocks.Transactor
	payments *mocks.PaymentRepository
	bookings *mocks.BookingRepository
	events   *mocks.EventPublisher
	gateway  *mocks.PaymentGateway
	svc      *services.PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	f := &paymentFixture{
		tx:       mocks.NewTransactor(t),
		payments: mocks.NewPaymentRepository(t),
		bookings: mocks.NewBookingRepository(t),
		events:   mocks.NewEventPublisher(t),
		gateway:  mocks.NewPaymentGateway(t),
	}

	f.tx.On("WithinTx", mock.Anything, mock.Anything).Return(passthroughTx).Maybe()
	f.gateway.On("Provider").Return("vnpay")

	f.svc = services.NewPaymentService(f.tx, f.payments, f.bookings, f.events, f.gateway).
		WithClock(func() time.Time { return fixedNow })

	return f
}

func openPayment(bookingID uuid.UUID, amount int64) *domain.Payment {
	return &domain.Payment{
		ID:            uuid.New(),
		BookingID:     bookingID,
		Amount:        amount,
		Currency:      "VND",
		Method:        domain.MethodVNPay,
		TransactionID: "TXN-1",
		Status:        domain.PaymentPending,
		CreatedAt:     fixedNow,
	}
}

func TestHandleCallback_Success(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	b := pendingBooking(uuid.New(), fixedNow)
	p := openPayment(b.ID, 1_250_000)
	params := url.Values{"vnp_TxnRef": {"TXN-1"}}

	f.gateway.On("VerifyCallback", params).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", GatewayRef: "14000001", Amount: 1_250_000, Success: true, ResponseCode: "00",
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)
	f.bookings.On("GetByIDForShare", mock.Anything, b.ID).Return(b, nil)
	f.payments.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.payments.On("Transition", mock.Anything, p.ID, domain.PaymentPending, domain.PaymentCompleted,
		ports.PaymentUpdate{GatewayRef: "14000001", ErrorCode: "00", At: fixedNow}).Return(true, nil)

	outcome, err := f.svc.HandleCallback(ctx, "vnpay", params)

	require.NoError(t, err)
	assert.False(t, outcome.AlreadyProcessed)
	assert.False(t, outcome.RefundRequested)
	assert.Equal(t, domain.PaymentCompleted, outcome.Payment.Status)
}

func TestHandleCallback_FailureRecordsCode(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	p := openPayment(uuid.New(), 500_000)
	p.Status = domain.PaymentProcessing

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", Amount: 500_000, Success: false, ResponseCode: "24",
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)
	f.bookings.On("GetByIDForShare", mock.Anything, p.BookingID).Return(pendingBooking(uuid.New(), fixedNow), nil)
	f.payments.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.payments.On("Transition", mock.Anything, p.ID, domain.PaymentProcessing, domain.PaymentFailed,
		mock.MatchedBy(func(u ports.PaymentUpdate) bool { return u.ErrorCode == "24" })).Return(true, nil)

	outcome, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, outcome.Payment.Status)
	assert.Equal(t, "24", outcome.Payment.ErrorCode)
}

func TestHandleCallback_AmountMismatchLeavesPaymentPending(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	p := openPayment(uuid.New(), 1_250_000)

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", Amount: 1_430_000, Success: true,
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)

	_, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	assert.ErrorIs(t, err, domain.ErrAmountMismatch)
	assert.Equal(t, domain.PaymentPending, p.Status)
	f.payments.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCallback_InvalidSignature(t *testing.T) {
	f := newPaymentFixture(t)

	f.gateway.On("VerifyCallback", mock.Anything).Return(nil, domain.ErrInvalidSignature)

	_, err := f.svc.HandleCallback(context.Background(), "vnpay", url.Values{})

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	f.payments.AssertNotCalled(t, "GetByTransactionID", mock.Anything, mock.Anything)
}

func TestHandleCallback_UnknownPayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{TransactionID: "nope", Amount: 1}, nil)
	f.payments.On("GetByTransactionID", ctx, "nope").Return(nil, domain.ErrPaymentNotFound)

	_, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestHandleCallback_DuplicateIsNoOp(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	p := openPayment(uuid.New(), 1_250_000)
	p.Status = domain.PaymentCompleted

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", Amount: 1_250_000, Success: true,
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)

	outcome, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	require.NoError(t, err)
	assert.True(t, outcome.AlreadyProcessed)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
}

func TestHandleCallback_LateSuccessRequestsRefund(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	b := pendingBooking(uuid.New(), fixedNow)
	b.Status = domain.BookingExpired
	p := openPayment(b.ID, 1_250_000)

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", Amount: 1_250_000, Success: true, ResponseCode: "00",
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)
	f.bookings.On("GetByIDForShare", mock.Anything, b.ID).Return(b, nil)
	f.payments.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.payments.On("Transition", mock.Anything, p.ID, domain.PaymentPending, domain.PaymentCompleted, mock.Anything).Return(true, nil)
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(e *domain.RefundRequested) bool {
		return e.PaymentID == p.ID && e.TargetRefunded == 1_250_000
	})).Return(nil)

	outcome, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	require.NoError(t, err)
	assert.True(t, outcome.RefundRequested)
}

func TestHandleCallback_CancelledAttemptPaidLate(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	b := pendingBooking(uuid.New(), fixedNow)
	b.Status = domain.BookingCancelled
	p := openPayment(b.ID, 1_250_000)
	p.Status = domain.PaymentCancelled

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", Amount: 1_250_000, Success: true, ResponseCode: "00",
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)
	f.bookings.On("GetByIDForShare", mock.Anything, b.ID).Return(b, nil)
	f.payments.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	f.payments.On("Transition", mock.Anything, p.ID, domain.PaymentCancelled, domain.PaymentCompleted, mock.Anything).Return(true, nil)
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(e *domain.RefundRequested) bool {
		return e.PaymentID == p.ID && e.TargetRefunded == 1_250_000
	})).Return(nil)

	outcome, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	require.NoError(t, err)
	assert.True(t, outcome.RefundRequested)
	assert.Equal(t, domain.PaymentCompleted, outcome.Payment.Status)
}

func TestHandleCallback_FailureForCancelledAttemptIsNoOp(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	p := openPayment(uuid.New(), 1_250_000)
	p.Status = domain.PaymentCancelled

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", Amount: 1_250_000, Success: false, ResponseCode: "24",
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)

	outcome, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	require.NoError(t, err)
	assert.True(t, outcome.AlreadyProcessed)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
}

func TestHandleCallback_RereadsPaymentAfterLockingBooking(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	b := pendingBooking(uuid.New(), fixedNow)
	p := openPayment(b.ID, 1_250_000)
	p.Status = domain.PaymentProcessing

	cancelled := *b
	cancelled.Status = domain.BookingCancelled
	settled := *p
	settled.Status = domain.PaymentCancelled

	f.gateway.On("VerifyCallback", mock.Anything).Return(&domain.CallbackResult{
		TransactionID: "TXN-1", Amount: 1_250_000, Success: false, ResponseCode: "24",
	}, nil)
	f.payments.On("GetByTransactionID", ctx, "TXN-1").Return(p, nil)
	f.bookings.On("GetByIDForShare", mock.Anything, b.ID).Return(&cancelled, nil)
	f.payments.On("GetByID", mock.Anything, p.ID).Return(&settled, nil)

	outcome, err := f.svc.HandleCallback(ctx, "vnpay", url.Values{})

	require.NoError(t, err)
	assert.True(t, outcome.AlreadyProcessed)
	assert.Equal(t, domain.PaymentCancelled, outcome.Payment.Status)
	f.payments.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCallback_UnsupportedProvider(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.HandleCallback(context.Background(), "momo", url.Values{})

	assert.True(t, domain.IsNotFound(err))
}

func TestInitiate_ReusesOpenPayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	sub := customer()
	b := pendingBooking(sub.ID, fixedNow)
	p := openPayment(b.ID, b.TotalPrice)

	f.bookings.On("GetByID", ctx, b.ID).Return(b, nil)
	f.payments.On("GetLatestByBooking", ctx, b.ID).Return(p, nil)
	f.gateway.On("CreatePaymentURL", ctx, mock.MatchedBy(func(r ports.PaymentURLRequest) bool {
		return r.TransactionID == p.TransactionID && r.Amount == b.TotalPrice && r.ExpiresAt.Equal(fixedNow.Add(15*time.Minute))
	})).Return("https://pay.example/redirect", nil)
	f.payments.On("Transition", ctx, p.ID, domain.PaymentPending, domain.PaymentProcessing, mock.Anything).Return(true, nil)

	resp, err := f.svc.Initiate(ctx, sub, "vnpay", services.InitiatePaymentRequest{BookingID: b.ID, ClientIP: "10.0.0.1"})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect", resp.PaymentURL)
	assert.Equal(t, domain.PaymentProcessing, resp.Payment.Status)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInitiate_OpensNewAttemptAfterFailure(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	sub := customer()
	b := pendingBooking(sub.ID, fixedNow)
	failed := openPayment(b.ID, b.TotalPrice)
	failed.Status = domain.PaymentFailed

	f.bookings.On("GetByID", ctx, b.ID).Return(b, nil)
	f.payments.On("GetLatestByBooking", ctx, b.ID).Return(failed, nil)
	f.payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.TransactionID != failed.TransactionID && p.Amount == b.TotalPrice
	})).Return(nil)
	f.gateway.On("CreatePaymentURL", ctx, mock.Anything).Return("https://pay.example/redirect", nil)
	f.payments.On("Transition", ctx, mock.Anything, domain.PaymentPending, domain.PaymentProcessing, mock.Anything).Return(true, nil)

	_, err := f.svc.Initiate(ctx, sub, "vnpay", services.InitiatePaymentRequest{BookingID: b.ID})

	require.NoError(t, err)
}

func TestInitiate_AlreadyPaid(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	sub := customer()
	b := pendingBooking(sub.ID, fixedNow)
	paid := openPayment(b.ID, b.TotalPrice)
	paid.Status = domain.PaymentCompleted

	f.bookings.On("GetByID", ctx, b.ID).Return(b, nil)
	f.payments.On("GetLatestByBooking", ctx, b.ID).Return(paid, nil)

	_, err := f.svc.Initiate(ctx, sub, "vnpay", services.InitiatePaymentRequest{BookingID: b.ID})

	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestProcessRefund_AppliesOnce(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	p := openPayment(uuid.New(), 1_000_000)
	p.Status = domain.PaymentCompleted
	event := &domain.RefundRequested{PaymentID: p.ID, TargetRefunded: 1_000_000, Reason: "booking cancelled"}

	f.payments.On("GetByID", ctx, p.ID).Return(p, nil).Once()
	f.gateway.On("Refund", ctx, mock.MatchedBy(func(r domain.RefundRequest) bool {
		return r.Amount == 1_000_000 && r.TransactionID == p.TransactionID
	})).Return(nil).Once()
	f.payments.On("ApplyRefund", ctx, p.ID, int64(0), int64(1_000_000), "booking cancelled", fixedNow).Return(true, nil).Once()

	require.NoError(t, f.svc.ProcessRefund(ctx, event))

	refunded := *p
	refunded.RefundAmount = 1_000_000
	refunded.Status = domain.PaymentRefunded
	f.payments.On("GetByID", ctx, p.ID).Return(&refunded, nil).Once()

	require.NoError(t, f.svc.ProcessRefund(ctx, event))
}

func TestProcessRefund_GatewayErrorIsRetried(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	p := openPayment(uuid.New(), 1_000_000)
	p.Status = domain.PaymentCompleted

	f.payments.On("GetByID", ctx, p.ID).Return(p, nil)
	f.gateway.On("Refund", ctx, mock.Anything).Return(errors.New("gateway timeout"))

	err := f.svc.ProcessRefund(ctx, &domain.RefundRequested{PaymentID: p.ID, TargetRefunded: 1_000_000})

	assert.Error(t, err)
	f.payments.AssertNotCalled(t, "ApplyRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessRefund_NoGatewayForMethod(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	p := openPayment(uuid.New(), 1_000_000)
	p.Status = domain.PaymentCompleted
	p.Method = domain.MethodBankTransfer

	f.payments.On("GetByID", ctx, p.ID).Return(p, nil)

	err := f.svc.ProcessRefund(ctx, &domain.RefundRequested{PaymentID: p.ID, TargetRefunded: 1_000_000})

	assert.NoError(t, err)
}
