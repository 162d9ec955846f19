package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
)

type RouterConfig struct {
	AllowedOrigins []string
	Limiter        ports.RateLimiter
}

func NewRouter(h *Handlers, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(), gin.Recovery(), Metrics(), CORS(cfg.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logrus.WithError(err).Warn("Failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route_not_found", "route "+c.Request.Method+" "+c.Request.URL.Path+" not found", nil)
	})

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	// Gateway callbacks are signed and must not be throttled.
	callbacks := v1.Group("/payments/:provider")
	callbacks.GET("/return", h.PaymentReturn)
	callbacks.GET("/ipn", h.PaymentIPN)
	callbacks.POST("/ipn", h.PaymentIPN)

	api := v1.Group("", Identify(h.auth))
	if cfg.Limiter != nil {
		api.Use(RateLimit(cfg.Limiter))
	}

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)
	authGroup.POST("/logout-all", RequireAuth(), h.LogoutAll)
	authGroup.GET("/me", RequireAuth(), h.Me)
	authGroup.PUT("/profile", RequireAuth(), h.UpdateProfile)
	authGroup.POST("/change-password", RequireAuth(), h.ChangePassword)
	authGroup.POST("/forgot-password", h.ForgotPassword)
	authGroup.POST("/reset-password", h.ResetPassword)

	destinations := api.Group("/destinations")
	destinations.GET("", h.ListDestinations)
	destinations.GET("/search", h.SearchDestinations)
	destinations.GET("/popular", h.PopularDestinations)

	staff := []domain.Role{domain.RoleOperator, domain.RoleAdmin}

	schedules := api.Group("/schedules")
	schedules.GET("/search", h.SearchSchedules)
	schedules.GET("/popular-routes", h.PopularRoutes)
	schedules.GET("/delayed", h.DelayedSchedules)
	schedules.GET("/route/:routeId", h.SchedulesByRoute)
	schedules.GET("/operator/:operatorId", RequireAuth(), RequireRoles(staff...), h.SchedulesByOperator)
	schedules.GET("/:id", h.GetSchedule)
	schedules.GET("/:id/availability", h.Availability)
	schedules.POST("", RequireAuth(), RequireRoles(staff...), h.CreateSchedule)
	schedules.PATCH("/:id/status", RequireAuth(), RequireRoles(staff...), h.UpdateScheduleStatus)
	schedules.PATCH("/:id/delay", RequireAuth(), RequireRoles(staff...), h.SetDelay)

	bookings := api.Group("/bookings", RequireAuth())
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/pnr/:pnr", h.GetBookingByPNR)
	bookings.GET("/:id", h.GetBooking)
	bookings.POST("/:id/confirm", h.ConfirmBooking)
	bookings.POST("/:id/cancel", h.CancelBooking)
	bookings.POST("/:id/extend", h.ExtendBooking)
	bookings.POST("/:id/complete", RequireRoles(staff...), h.CompleteBooking)
	bookings.PUT("/:id/passengers/:passengerId", h.UpdatePassenger)
	bookings.GET("/:id/tickets", h.BookingTickets)

	payments := api.Group("/payments", RequireAuth())
	payments.POST("/:provider/create", h.CreatePayment)

	tickets := api.Group("/tickets", RequireAuth())
	tickets.POST("/verify", RequireRoles(staff...), h.VerifyTicket)
	tickets.POST("/:number/use", RequireRoles(staff...), h.UseTicket)
	tickets.GET("/:number/pdf", h.TicketPDF)

	return r
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
