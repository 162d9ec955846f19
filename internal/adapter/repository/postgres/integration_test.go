//go:build integration

package postgres

import (
	"context"
	"errors"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/core/services"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
)

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		tcpostgres.WithDatabase("transit"),
		tcpostgres.WithUsername("transit"),
		tcpostgres.WithPassword("transit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		panic(err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	testDB, err = sqlx.Open("postgres", connStr)
	if err != nil {
		panic(err)
	}

	if err := database.InitializeDatabaseSchema(testDB); err != nil {
		panic(err)
	}

	code := m.Run()

	testDB.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

type fixture struct {
	operatorID uuid.UUID
	userID     uuid.UUID
	schedule   domain.Schedule
}

func seedSchedule(t *testing.T, seats int) fixture {
	t.Helper()
	ctx := context.Background()

	operatorID, userID := uuid.New(), uuid.New()
	for _, u := range []struct {
		id   uuid.UUID
		role domain.Role
	}{{operatorID, domain.RoleOperator}, {userID, domain.RoleUser}} {
		_, err := testDB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, role)
		VALUES ($1, $2, 'x', 'seed', $3)
		`, u.id, u.id.String()+"@example.com", u.role)
		require.NoError(t, err)
	}

	fromID, toID, routeID := uuid.New(), uuid.New(), uuid.New()
	fromCode := "F" + fromID.String()[:5]
	toCode := "T" + toID.String()[:5]
	for _, d := range []struct {
		id   uuid.UUID
		code string
	}{{fromID, fromCode}, {toID, toCode}} {
		_, err := testDB.ExecContext(ctx, `
		INSERT INTO destinations (id, code, name, city, country, type)
		VALUES ($1, $2, $2, 'City', 'VN', 'airport')
		`, d.id, d.code)
		require.NoError(t, err)
	}

	_, err := testDB.ExecContext(ctx, `
	INSERT INTO routes (id, from_destination_id, to_destination_id, transport_type)
	VALUES ($1, $2, $3, 'flight')
	`, routeID, fromID, toID)
	require.NoError(t, err)

	departure := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	s := domain.Schedule{
		ID:            uuid.New(),
		RouteID:       routeID,
		OperatorID:    operatorID,
		VehicleNumber: "VN123",
		DepartureTime: departure,
		ArrivalTime:   departure.Add(2 * time.Hour),
		Status:        domain.ScheduleScheduled,
		IsActive:      true,
		FareClasses: map[string]domain.FareClass{
			"economy": {Name: "economy", TotalSeats: seats, AvailableSeats: seats, Price: 1_000_000, Currency: "VND"},
		},
	}
	require.NoError(t, NewScheduleRepository(testDB).Create(ctx, &s))

	return fixture{operatorID: operatorID, userID: userID, schedule: s}
}

func TestInventory_ConcurrentReservationsNeverOversell(t *testing.T) {
	const seats, workers = 10, 40

	fx := seedSchedule(t, seats)
	repo := NewInventoryRepository(testDB)

	var wg sync.WaitGroup
	var succeeded, rejected atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Reserve(context.Background(), fx.schedule.ID, "economy", 1)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, domain.ErrInsufficientInventory):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, seats, succeeded.Load())
	assert.EqualValues(t, workers-seats, rejected.Load())

	s, err := NewScheduleRepository(testDB).GetByID(context.Background(), fx.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.FareClasses["economy"].AvailableSeats)
}

func TestInventory_CancelFreesSeatsForNextCustomer(t *testing.T) {
	ctx := context.Background()
	fx := seedSchedule(t, 2)
	repo := NewInventoryRepository(testDB)

	left, err := repo.Reserve(ctx, fx.schedule.ID, "economy", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	_, err = repo.Reserve(ctx, fx.schedule.ID, "economy", 1)
	require.ErrorIs(t, err, domain.ErrInsufficientInventory)

	left, err = repo.Release(ctx, fx.schedule.ID, "economy", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	left, err = repo.Reserve(ctx, fx.schedule.ID, "economy", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, left)
}

func TestInventory_ReleaseNeverExceedsTotal(t *testing.T) {
	ctx := context.Background()
	fx := seedSchedule(t, 3)

	left, err := NewInventoryRepository(testDB).Release(ctx, fx.schedule.ID, "economy", 5)

	require.NoError(t, err)
	assert.Equal(t, 3, left)
}

func TestBooking_RoundTripAndSingleWinnerTransition(t *testing.T) {
	ctx := context.Background()
	fx := seedSchedule(t, 5)
	repo := NewBookingRepository(testDB)

	b := sampleBooking()
	b.UserID = fx.userID
	b.ScheduleID = fx.schedule.ID
	b.PNR, _ = domain.NewPNR()
	require.NoError(t, repo.CreateBooking(ctx, b))

	got, err := repo.GetByPNR(ctx, b.PNR)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	require.Len(t, got.Passengers, 2)
	assert.Equal(t, "An", got.Passengers[0].FirstName)

	dup := sampleBooking()
	dup.UserID = fx.userID
	dup.ScheduleID = fx.schedule.ID
	dup.PNR = b.PNR
	require.ErrorIs(t, repo.CreateBooking(ctx, dup), domain.ErrDuplicatePNR)

	var wg sync.WaitGroup
	var winners atomic.Int32
	for _, to := range []domain.BookingStatus{domain.BookingConfirmed, domain.BookingCancelled, domain.BookingExpired} {
		wg.Add(1)
		go func(to domain.BookingStatus) {
			defer wg.Done()
			ok, err := repo.Transition(ctx, b.ID, domain.BookingPending, to, "", time.Now())
			assert.NoError(t, err)
			if ok {
				winners.Add(1)
			}
		}(to)
	}
	wg.Wait()

	assert.EqualValues(t, 1, winners.Load())
}

func TestPayment_OneOpenPaymentPerBooking(t *testing.T) {
	ctx := context.Background()
	fx := seedSchedule(t, 5)

	b := sampleBooking()
	b.UserID = fx.userID
	b.ScheduleID = fx.schedule.ID
	b.PNR, _ = domain.NewPNR()
	require.NoError(t, NewBookingRepository(testDB).CreateBooking(ctx, b))

	repo := NewPaymentRepository(testDB)

	first := samplePayment()
	first.BookingID, first.UserID, first.TransactionID = b.ID, fx.userID, uuid.NewString()
	require.NoError(t, repo.Create(ctx, first))

	second := samplePayment()
	second.BookingID, second.UserID, second.TransactionID = b.ID, fx.userID, uuid.NewString()
	require.ErrorIs(t, repo.Create(ctx, second), domain.ErrOpenPaymentExists)

	ok, err := repo.Transition(ctx, first.ID, domain.PaymentPending, domain.PaymentCompleted, ports.PaymentUpdate{GatewayRef: "14000001", At: time.Now()})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.ApplyRefund(ctx, first.ID, 0, first.Amount, "cancelled", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ApplyRefund(ctx, first.ID, 0, first.Amount, "cancelled", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, got.Status)
	assert.Equal(t, first.Amount, got.RefundAmount)
}

type recordingPublisher struct {
	mu      sync.Mutex
	refunds []*domain.RefundRequested
}

func (p *recordingPublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := event.(*domain.RefundRequested); ok {
		p.refunds = append(p.refunds, r)
	}
	return nil
}

func (p *recordingPublisher) refundsFor(paymentID uuid.UUID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, r := range p.refunds {
		if r.PaymentID == paymentID {
			n++
		}
	}
	return n
}

// approvingGateway accepts every callback as a successful payment of the
// amount it carries.
type approvingGateway struct{ amount int64 }

func (approvingGateway) Provider() string { return "vnpay" }

func (approvingGateway) CreatePaymentURL(context.Context, ports.PaymentURLRequest) (string, error) {
	return "", nil
}

func (g approvingGateway) VerifyCallback(params url.Values) (*domain.CallbackResult, error) {
	return &domain.CallbackResult{
		TransactionID: params.Get("txn"),
		GatewayRef:    "14000001",
		Amount:        g.amount,
		Success:       true,
		ResponseCode:  "00",
	}, nil
}

func (approvingGateway) Refund(context.Context, domain.RefundRequest) error { return nil }

type noopAvailabilityCache struct{}

func (noopAvailabilityCache) Get(context.Context, uuid.UUID) (*domain.Availability, error) {
	return nil, nil
}

func (noopAvailabilityCache) Set(context.Context, domain.Availability) error { return nil }

func (noopAvailabilityCache) Invalidate(context.Context, uuid.UUID) error { return nil }

func TestCancelAndSuccessCallback_ExactlyOneRefund(t *testing.T) {
	const rounds = 20

	ctx := context.Background()
	fx := seedSchedule(t, 100)

	tx := database.NewTransactor(testDB)
	bookings := NewBookingRepository(testDB)
	payments := NewPaymentRepository(testDB)
	events := &recordingPublisher{}
	amount := sampleBooking().TotalPrice

	bookingSvc := services.NewBookingService(tx, NewScheduleRepository(testDB), NewInventoryRepository(testDB),
		bookings, payments, nil, noopAvailabilityCache{}, events, services.BookingConfig{})
	paymentSvc := services.NewPaymentService(tx, payments, bookings, events, approvingGateway{amount: amount})

	customer := domain.Subject{ID: fx.userID, Role: domain.RoleUser}

	for i := 0; i < rounds; i++ {
		b := sampleBooking()
		b.UserID = fx.userID
		b.ScheduleID = fx.schedule.ID
		b.PNR, _ = domain.NewPNR()
		require.NoError(t, bookings.CreateBooking(ctx, b))

		p := samplePayment()
		p.BookingID, p.UserID, p.TransactionID, p.Amount = b.ID, fx.userID, uuid.NewString(), amount
		require.NoError(t, payments.Create(ctx, p))

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, err := bookingSvc.CancelBooking(ctx, customer, b.ID, "changed plans")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			<-start
			_, err := paymentSvc.HandleCallback(ctx, "vnpay", url.Values{"txn": {p.TransactionID}})
			assert.NoError(t, err)
		}()
		close(start)
		wg.Wait()

		assert.Equal(t, 1, events.refundsFor(p.ID), "round %d", i)

		got, err := payments.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentCompleted, got.Status)

		gotBooking, err := bookings.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCancelled, gotBooking.Status)
	}
}

func TestScheduleList_FiltersAndPopularRoutes(t *testing.T) {
	ctx := context.Background()
	fx := seedSchedule(t, 5)
	schedules := NewScheduleRepository(testDB)

	got, err := schedules.List(ctx, domain.ScheduleFilter{
		RouteID:  fx.schedule.RouteID,
		Statuses: []domain.ScheduleStatus{domain.ScheduleScheduled, domain.ScheduleDelayed},
		From:     time.Now(),
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fx.schedule.ID, got[0].ID)
	assert.Contains(t, got[0].FareClasses, "economy")

	got, err = schedules.List(ctx, domain.ScheduleFilter{
		OperatorID: fx.operatorID,
		From:       time.Now(),
		To:         time.Now().Add(time.Hour),
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = schedules.List(ctx, domain.ScheduleFilter{
		RouteID:  fx.schedule.RouteID,
		Statuses: []domain.ScheduleStatus{domain.ScheduleDelayed},
		From:     time.Now(),
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	b := sampleBooking()
	b.UserID = fx.userID
	b.ScheduleID = fx.schedule.ID
	b.PNR, _ = domain.NewPNR()
	require.NoError(t, NewBookingRepository(testDB).CreateBooking(ctx, b))

	stats, err := NewCatalogRepository(testDB).PopularRoutes(ctx, time.Now().Add(-30*24*time.Hour), 20)
	require.NoError(t, err)

	var found *domain.RouteStats
	for i := range stats {
		if stats[i].RouteID == fx.schedule.RouteID {
			found = &stats[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, 1, found.ScheduleCount)
	assert.Equal(t, 1, found.BookingCount)
	assert.EqualValues(t, 1_000_000, found.AvgMinPrice)
}
