package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/transit_ticket/internal/adapter/handler"
	"github.com/srgjo27/transit_ticket/internal/adapter/handler/mocks"
	"github.com/srgjo27/transit_ticket/internal/core/domain"
	portmocks "github.com/srgjo27/transit_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/transit_ticket/internal/core/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	auth     *mocks.AuthService
	catalog  *mocks.CatalogService
	bookings *mocks.BookingService
	payments *mocks.PaymentService
	tickets  *mocks.TicketService
	limiter  *portmocks.RateLimiter
	router   *gin.Engine
}

func newFixture(t *testing.T, withLimiter bool) *fixture {
	f := &fixture{
		auth:     mocks.NewAuthService(t),
		catalog:  mocks.NewCatalogService(t),
		bookings: mocks.NewBookingService(t),
		payments: mocks.NewPaymentService(t),
		tickets:  mocks.NewTicketService(t),
	}
	cfg := handler.RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	if withLimiter {
		f.limiter = portmocks.NewRateLimiter(t)
		cfg.Limiter = f.limiter
	}
	f.router = handler.NewRouter(handler.NewHandlers(f.auth, f.catalog, f.bookings, f.payments, f.tickets, false), cfg)
	return f
}

// login makes "token-<role>" authenticate as a fresh subject with that role.
func (f *fixture) login(role domain.Role) domain.Subject {
	sub := domain.Subject{ID: uuid.New(), Role: role}
	f.auth.On("Authenticate", "token-"+string(role)).Return(sub, nil)
	return sub
}

func (f *fixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNoRoute(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(http.MethodGet, "/api/v1/nope", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route_not_found", decode(t, w)["code"])
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t, false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode(t, w)
		assert.Equal(t, "unauthorized", body["code"])
		assert.Equal(t, "req-42", body["request_id"])
	})

	t.Run("expired token", func(t *testing.T) {
		f := newFixture(t, false)
		f.auth.On("Authenticate", "stale").Return(domain.Subject{}, domain.ErrUnauthorized.WithMsg("token expired"))

		w := f.do(http.MethodGet, "/api/v1/auth/me", "stale", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "token expired", decode(t, w)["message"])
	})

	t.Run("valid token", func(t *testing.T) {
		f := newFixture(t, false)
		sub := f.login(domain.RoleUser)
		f.auth.On("Me", mock.Anything, sub).Return(&domain.User{ID: sub.ID, Email: "an@example.com"}, nil)

		w := f.do(http.MethodGet, "/api/v1/auth/me", "token-user", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t, false)
	f.auth.On("Login", mock.Anything, "an@example.com", "s3cret-pass").
		Return(&services.LoginResponse{Tokens: &domain.TokenPair{AccessToken: "a", RefreshToken: "r"}}, nil)

	w := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"an@example.com","password":"s3cret-pass"}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "a", data["tokens"].(map[string]any)["accessToken"])
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"an@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["code"])
}

func TestCreateBooking(t *testing.T) {
	body := `{"scheduleId":"` + uuid.NewString() + `","fareClass":"economy","passengers":[{"type":"adult","firstName":"An","lastName":"Nguyen"}],"contactInfo":{"email":"an@example.com","phone":"0900"},"paymentMethod":"vnpay"}`

	t.Run("created", func(t *testing.T) {
		f := newFixture(t, false)
		sub := f.login(domain.RoleUser)
		f.bookings.On("CreateBooking", mock.Anything, sub, mock.MatchedBy(func(r services.CreateBookingRequest) bool {
			return r.FareClass == "economy" && len(r.Passengers) == 1 && r.PaymentMethod == domain.MethodVNPay
		})).Return(&services.CreateBookingResponse{Booking: &domain.Booking{PNR: "AB12CD"}}, nil)

		w := f.do(http.MethodPost, "/api/v1/bookings", "token-user", body)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode(t, w)
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "AB12CD", resp["data"].(map[string]any)["booking"].(map[string]any)["pnr"])
	})

	t.Run("sold out", func(t *testing.T) {
		f := newFixture(t, false)
		f.login(domain.RoleUser)
		f.bookings.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrInsufficientInventory)

		w := f.do(http.MethodPost, "/api/v1/bookings", "token-user", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "insufficient_inventory", decode(t, w)["code"])
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		f := newFixture(t, false)
		f.login(domain.RoleUser)
		f.bookings.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused"))

		w := f.do(http.MethodPost, "/api/v1/bookings", "token-user", body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "internal server error", resp["message"])
		assert.Nil(t, resp["details"])
	})
}

func TestGetBooking_MalformedID(t *testing.T) {
	f := newFixture(t, false)
	f.login(domain.RoleUser)

	w := f.do(http.MethodGet, "/api/v1/bookings/not-a-uuid", "token-user", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookingByPNR_NotFound(t *testing.T) {
	f := newFixture(t, false)
	sub := f.login(domain.RoleUser)
	f.bookings.On("GetBookingByPNR", mock.Anything, sub, "ab12cd").Return(nil, domain.NewNotFoundError("booking"))

	w := f.do(http.MethodGet, "/api/v1/bookings/pnr/ab12cd", "token-user", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "booking_not_found", decode(t, w)["code"])
}

func TestExtendBooking_EmptyBodyUsesDefault(t *testing.T) {
	f := newFixture(t, false)
	sub := f.login(domain.RoleUser)
	id := uuid.New()
	f.bookings.On("ExtendBooking", mock.Anything, sub, id, 0).Return(&domain.Booking{ID: id, ExtensionCount: 1}, nil)

	w := f.do(http.MethodPost, "/api/v1/bookings/"+id.String()+"/extend", "token-user", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCompleteBooking_CustomerForbidden(t *testing.T) {
	f := newFixture(t, false)
	f.login(domain.RoleUser)

	w := f.do(http.MethodPost, "/api/v1/bookings/"+uuid.NewString()+"/complete", "token-user", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.bookings.AssertNotCalled(t, "CompleteBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestListBookings_PassesFilter(t *testing.T) {
	f := newFixture(t, false)
	sub := f.login(domain.RoleAdmin)
	owner := uuid.New()
	f.bookings.On("ListBookings", mock.Anything, sub, mock.MatchedBy(func(filter domain.BookingFilter) bool {
		return filter.UserID != nil && *filter.UserID == owner &&
			filter.Status == domain.BookingConfirmed && filter.Page == 2 && filter.Limit == 20
	})).Return(&services.BookingPage{Page: 2, Limit: 20}, nil)

	w := f.do(http.MethodGet, "/api/v1/bookings?status=confirmed&page=2&userId="+owner.String(), "token-admin", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchSchedules(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t, false)

		w := f.do(http.MethodGet, "/api/v1/schedules/search?from=HAN&to=SGN&date=01-04-2026", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("anonymous search", func(t *testing.T) {
		f := newFixture(t, false)
		f.catalog.On("SearchSchedules", mock.Anything, mock.MatchedBy(func(q domain.ScheduleQuery) bool {
			return q.FromCode == "HAN" && q.ToCode == "SGN" && q.Passengers == 2 && q.Date.Day() == 1
		})).Return([]domain.Schedule{}, nil)

		w := f.do(http.MethodGet, "/api/v1/schedules/search?from=HAN&to=SGN&date=2026-04-01&passengers=2", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSetDelay_RequiresMinutes(t *testing.T) {
	f := newFixture(t, false)
	f.login(domain.RoleOperator)

	w := f.do(http.MethodPatch, "/api/v1/schedules/"+uuid.NewString()+"/delay", "token-operator", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	t.Run("over the limit", func(t *testing.T) {
		f := newFixture(t, true)
		f.limiter.On("Allow", mock.Anything, "ip:192.0.2.1").Return(false, nil)

		w := f.do(http.MethodGet, "/api/v1/destinations", "", "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("keyed by user when authenticated", func(t *testing.T) {
		f := newFixture(t, true)
		sub := f.login(domain.RoleUser)
		f.limiter.On("Allow", mock.Anything, "user:"+sub.ID.String()).Return(true, nil)
		f.auth.On("Me", mock.Anything, sub).Return(&domain.User{ID: sub.ID}, nil)

		w := f.do(http.MethodGet, "/api/v1/auth/me", "token-user", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("fails open", func(t *testing.T) {
		f := newFixture(t, true)
		f.limiter.On("Allow", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
		f.catalog.On("ListDestinations", mock.Anything, 0).Return([]domain.Destination{}, nil)

		w := f.do(http.MethodGet, "/api/v1/destinations", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("callbacks are not limited", func(t *testing.T) {
		f := newFixture(t, true)
		f.payments.On("HandleCallback", mock.Anything, "vnpay", mock.Anything).
			Return(&services.CallbackOutcome{Payment: &domain.Payment{Status: domain.PaymentCompleted}}, nil)

		w := f.do(http.MethodGet, "/api/v1/payments/vnpay/ipn?vnp_TxnRef=t", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPaymentIPN(t *testing.T) {
	completed := &services.CallbackOutcome{Payment: &domain.Payment{Status: domain.PaymentCompleted}}

	tests := []struct {
		name    string
		outcome *services.CallbackOutcome
		err     error
		code    string
	}{
		{name: "applied", outcome: completed, code: "00"},
		{name: "late payment refunded", outcome: &services.CallbackOutcome{Payment: completed.Payment, RefundRequested: true}, code: "00"},
		{name: "duplicate", outcome: &services.CallbackOutcome{Payment: completed.Payment, AlreadyProcessed: true}, code: "02"},
		{name: "unknown order", err: domain.ErrPaymentNotFound, code: "01"},
		{name: "wrong amount", err: domain.ErrAmountMismatch.WithMsg("expected 1, got 2"), code: "04"},
		{name: "bad signature", err: domain.ErrInvalidSignature, code: "97"},
		{name: "anything else", err: errors.New("boom"), code: "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			f.payments.On("HandleCallback", mock.Anything, "vnpay", mock.MatchedBy(func(v url.Values) bool {
				return v.Get("vnp_TxnRef") == "txn-1"
			})).Return(tt.outcome, tt.err)

			w := f.do(http.MethodGet, "/api/v1/payments/vnpay/ipn?vnp_TxnRef=txn-1&vnp_Amount=100", "", "")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["RspCode"])
		})
	}
}

func TestPaymentIPN_FormPost(t *testing.T) {
	f := newFixture(t, false)
	f.payments.On("HandleCallback", mock.Anything, "vnpay", mock.MatchedBy(func(v url.Values) bool {
		return v.Get("vnp_TxnRef") == "txn-9"
	})).Return(&services.CallbackOutcome{Payment: &domain.Payment{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/vnpay/ipn", strings.NewReader("vnp_TxnRef=txn-9"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "00", decode(t, w)["RspCode"])
}

func TestPaymentReturn_BadSignature(t *testing.T) {
	f := newFixture(t, false)
	f.payments.On("HandleCallback", mock.Anything, "vnpay", mock.Anything).Return(nil, domain.ErrInvalidSignature)

	w := f.do(http.MethodGet, "/api/v1/payments/vnpay/return?vnp_TxnRef=t", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_signature", decode(t, w)["code"])
}

func TestCreatePayment_PassesClientIP(t *testing.T) {
	f := newFixture(t, false)
	sub := f.login(domain.RoleUser)
	bookingID := uuid.New()
	f.payments.On("Initiate", mock.Anything, sub, "vnpay", services.InitiatePaymentRequest{
		BookingID: bookingID,
		BankCode:  "NCB",
		ClientIP:  "192.0.2.1",
	}).Return(&services.InitiatePaymentResponse{PaymentURL: "https://pay.example/x"}, nil)

	w := f.do(http.MethodPost, "/api/v1/payments/vnpay/create", "token-user", `{"bookingId":"`+bookingID.String()+`","bankCode":"NCB"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://pay.example/x", decode(t, w)["data"].(map[string]any)["paymentUrl"])
}

func TestTicketPDF(t *testing.T) {
	f := newFixture(t, false)
	sub := f.login(domain.RoleUser)
	f.tickets.On("RenderPDF", mock.Anything, sub, "TKabc").Return([]byte("%PDF-1.3"), &domain.Ticket{TicketNumber: "TKabc"}, nil)

	w := f.do(http.MethodGet, "/api/v1/tickets/TKabc/pdf", "token-user", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "TKabc.pdf")
}

func TestVerifyTicket_StaffOnly(t *testing.T) {
	f := newFixture(t, false)
	f.login(domain.RoleUser)

	w := f.do(http.MethodPost, "/api/v1/tickets/verify", "token-user", `{"payload":"x"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	f := newFixture(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogoutAll(t *testing.T) {
	f := newFixture(t, false)
	sub := f.login(domain.RoleUser)
	f.auth.On("LogoutAll", mock.Anything, sub).Return(nil)

	w := f.do(http.MethodPost, "/api/v1/auth/logout-all", "token-user", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateProfile_PhoneTaken(t *testing.T) {
	f := newFixture(t, false)
	sub := f.login(domain.RoleUser)
	f.auth.On("UpdateProfile", mock.Anything, sub, services.ProfileUpdate{Phone: "0911111111"}).
		Return(nil, domain.ErrAlreadyExists.WithMsg("phone number already in use"))

	w := f.do(http.MethodPut, "/api/v1/auth/profile", "token-user", `{"phone":"0911111111"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChangePassword_RequiresBothFields(t *testing.T) {
	f := newFixture(t, false)
	f.login(domain.RoleUser)

	w := f.do(http.MethodPost, "/api/v1/auth/change-password", "token-user", `{"newPassword":"n3w-s3cret-pass"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.auth.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestForgotPassword_TokenOnlyInDev(t *testing.T) {
	t.Run("production hides the token", func(t *testing.T) {
		f := newFixture(t, false)
		f.auth.On("ForgotPassword", mock.Anything, "an@example.com").Return("reset-token", nil)

		w := f.do(http.MethodPost, "/api/v1/auth/forgot-password", "", `{"email":"an@example.com"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "reset-token")
	})

	t.Run("development returns it", func(t *testing.T) {
		auth := mocks.NewAuthService(t)
		router := handler.NewRouter(handler.NewHandlers(auth, mocks.NewCatalogService(t), mocks.NewBookingService(t),
			mocks.NewPaymentService(t), mocks.NewTicketService(t), true), handler.RouterConfig{})
		auth.On("ForgotPassword", mock.Anything, "an@example.com").Return("reset-token", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", strings.NewReader(`{"email":"an@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "reset-token", decode(t, w)["data"].(map[string]any)["resetToken"])
	})
}

func TestResetPassword_InvalidToken(t *testing.T) {
	f := newFixture(t, false)
	f.auth.On("ResetPassword", mock.Anything, "stale", "n3w-s3cret-pass").
		Return(domain.NewValidationError("token", "invalid or expired reset token"))

	w := f.do(http.MethodPost, "/api/v1/auth/reset-password", "", `{"token":"stale","password":"n3w-s3cret-pass"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPopularRoutes(t *testing.T) {
	f := newFixture(t, false)
	f.catalog.On("PopularRoutes", mock.Anything, 5).
		Return([]domain.RouteStats{{FromCode: "HAN", ToCode: "SGN", BookingCount: 7}}, nil)

	w := f.do(http.MethodGet, "/api/v1/schedules/popular-routes?limit=5", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	routes := decode(t, w)["data"].(map[string]any)["routes"].([]any)
	assert.Equal(t, "HAN", routes[0].(map[string]any)["from"])
}

func TestSchedulesByRoute(t *testing.T) {
	t.Run("parses the window", func(t *testing.T) {
		f := newFixture(t, false)
		routeID := uuid.New()
		from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		f.catalog.On("SchedulesByRoute", mock.Anything, routeID, from, time.Time{}, 0).Return([]domain.Schedule{}, nil)

		w := f.do(http.MethodGet, "/api/v1/schedules/route/"+routeID.String()+"?fromDate=2026-04-01", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t, false)

		w := f.do(http.MethodGet, "/api/v1/schedules/route/"+uuid.NewString()+"?toDate=tomorrow", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSchedulesByOperator_StaffOnly(t *testing.T) {
	t.Run("customer forbidden", func(t *testing.T) {
		f := newFixture(t, false)
		f.login(domain.RoleUser)

		w := f.do(http.MethodGet, "/api/v1/schedules/operator/"+uuid.NewString(), "token-user", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("operator lists own", func(t *testing.T) {
		f := newFixture(t, false)
		sub := f.login(domain.RoleOperator)
		f.catalog.On("SchedulesByOperator", mock.Anything, sub, sub.ID, domain.ScheduleDelayed, 0).Return([]domain.Schedule{}, nil)

		w := f.do(http.MethodGet, "/api/v1/schedules/operator/"+sub.ID.String()+"?status=delayed", "token-operator", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDelayedSchedules(t *testing.T) {
	f := newFixture(t, false)
	f.catalog.On("DelayedSchedules", mock.Anything, 0).Return([]domain.Schedule{}, nil)

	w := f.do(http.MethodGet, "/api/v1/schedules/delayed", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
}
