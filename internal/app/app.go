package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/srgjo27/transit_ticket/internal/adapter/cache"
	"github.com/srgjo27/transit_ticket/internal/adapter/events"
	"github.com/srgjo27/transit_ticket/internal/adapter/gateway/vnpay"
	"github.com/srgjo27/transit_ticket/internal/adapter/handler"
	"github.com/srgjo27/transit_ticket/internal/adapter/pdf"
	"github.com/srgjo27/transit_ticket/internal/adapter/repository/postgres"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/core/services"
	"github.com/srgjo27/transit_ticket/internal/platform/config"
	"github.com/srgjo27/transit_ticket/internal/platform/database"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	forwarder       *forwarder.Forwarder
	bookings        *services.BookingService
	httpServer      *http.Server
	traceProvider   *tracesdk.TracerProvider
}

func New(cfg config.Config, db *sqlx.DB, rdb *redis.Client, traceProvider *tracesdk.TracerProvider) (*App, error) {
	watermillLogger := logging.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))

	redisPublisher, err := events.NewRedisPublisher(rdb, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis publisher: %w", err)
	}

	publisher, err := events.NewPublisher(redisPublisher, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}

	fwd, err := events.NewForwarder(db, redisPublisher, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox forwarder: %w", err)
	}

	tx := database.NewTransactor(db)
	userRepo := postgres.NewUserRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)

	availability := cache.NewAvailabilityCache(rdb)

	ticketService := services.NewTicketService(
		ticketRepo,
		bookingRepo,
		scheduleRepo,
		pdf.NewQRSigner(cfg.TicketQRSecret),
		pdf.NewTicketRenderer(cfg.Location()),
	)

	bookingService := services.NewBookingService(
		tx,
		scheduleRepo,
		inventoryRepo,
		bookingRepo,
		paymentRepo,
		ticketService,
		availability,
		publisher,
		services.BookingConfig{
			HoldDuration:  cfg.Booking.Hold,
			MaxExtensions: cfg.Booking.MaxExtensions,
			MaxHold:       cfg.Booking.MaxHold,
			SweepInterval: cfg.Sweep.Interval,
			SweepBatch:    cfg.Sweep.Batch,
		},
	)

	var gateways []ports.PaymentGateway
	if cfg.VNPayEnabled() {
		gateways = append(gateways, vnpay.New(vnpay.Config{
			TmnCode:    cfg.VNPay.TmnCode,
			HashSecret: cfg.VNPay.HashSecret,
			PayURL:     cfg.VNPay.URL,
			APIURL:     cfg.VNPay.APIURL,
			ReturnURL:  cfg.VNPay.ReturnURL,
		}))
	} else {
		logrus.Warn("VNPay credentials missing, online payments are disabled")
	}

	paymentService := services.NewPaymentService(tx, paymentRepo, bookingRepo, publisher, gateways...)

	authService := services.NewAuthService(userRepo, cache.NewTokenStore(rdb), services.AuthConfig{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.TTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		ResetTTL:      cfg.JWT.ResetTTL,
	})

	catalogService := services.NewCatalogService(catalogRepo, scheduleRepo, availability)

	watermillRouter, err := events.NewRouter(redisPublisher, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	processor, err := events.NewEventProcessor(watermillRouter, events.RedisSubscriberConstructor(rdb, watermillLogger), watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event processor: %w", err)
	}

	if err := processor.AddHandlers(events.RefundHandler(paymentService)); err != nil {
		return nil, fmt.Errorf("failed to add event handlers: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	engine := handler.NewRouter(
		handler.NewHandlers(authService, catalogService, bookingService, paymentService, ticketService, cfg.DevMode),
		handler.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins(),
			Limiter:        cache.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		},
	)

	return &App{
		db:              db,
		watermillRouter: watermillRouter,
		forwarder:       fwd,
		bookings:        bookingService,
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      otelhttp.NewHandler(engine, "http"),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		traceProvider: traceProvider,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := database.InitializeDatabaseSchema(a.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return a.traceProvider.Shutdown(context.Background())
	})

	g.Go(func() error {
		return a.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		return a.forwarder.Run(ctx)
	})

	g.Go(func() error {
		a.bookings.RunBackgroundCleanup(ctx)
		return nil
	})

	g.Go(func() error {
		// The API is not healthy until events can be handled and forwarded.
		for _, running := range []chan struct{}{a.watermillRouter.Running(), a.forwarder.Running()} {
			select {
			case <-running:
			case <-ctx.Done():
				return nil
			}
		}

		logrus.WithField("addr", a.httpServer.Addr).Info("Starting HTTP server")
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logrus.Info("Shutting down HTTP server")
		return a.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
