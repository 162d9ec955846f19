package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/services"
)

type cancelRequest struct {
	Reason string `json:"reason"`
}

type extendRequest struct {
	Minutes int `json:"minutes"`
}

// bindOptionalJSON accepts an empty body and leaves dst untouched.
func bindOptionalJSON[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, dst)
}

func (h *Handlers) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.bookings.CreateBooking(c.Request.Context(), subject(c), req)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "booking created", resp)
}

// ListBookings takes ?status=&page=&limit=. Admins may add userId or scheduleId.
func (h *Handlers) ListBookings(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}

	filter := domain.BookingFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	}
	for name, dst := range map[string]**uuid.UUID{"userId": &filter.UserID, "scheduleId": &filter.ScheduleID} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", name+": must be a uuid", nil)
			return
		}
		*dst = &id
	}

	out, err := h.bookings.ListBookings(c.Request.Context(), subject(c), filter)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, out)
}

func (h *Handlers) GetBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), subject(c), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"booking": booking})
}

func (h *Handlers) GetBookingByPNR(c *gin.Context) {
	booking, err := h.bookings.GetBookingByPNR(c.Request.Context(), subject(c), c.Param("pnr"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"booking": booking})
}

func (h *Handlers) ConfirmBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.bookings.ConfirmBooking(c.Request.Context(), subject(c), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "booking confirmed", resp)
}

func (h *Handlers) CancelBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req cancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), subject(c), id, req.Reason)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "booking cancelled", gin.H{"booking": booking})
}

func (h *Handlers) ExtendBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req extendRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	booking, err := h.bookings.ExtendBooking(c.Request.Context(), subject(c), id, req.Minutes)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "booking extended", gin.H{"booking": booking})
}

func (h *Handlers) CompleteBooking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.CompleteBooking(c.Request.Context(), subject(c), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "booking completed", gin.H{"booking": booking})
}

func (h *Handlers) UpdatePassenger(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	passengerID, ok := pathUUID(c, "passengerId")
	if !ok {
		return
	}
	var req services.PassengerUpdate
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.bookings.UpdatePassenger(c.Request.Context(), subject(c), bookingID, passengerID, req)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"passenger": p})
}

func (h *Handlers) BookingTickets(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	tickets, err := h.bookings.Tickets(c.Request.Context(), subject(c), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"tickets": tickets})
}
