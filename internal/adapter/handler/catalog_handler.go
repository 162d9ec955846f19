package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/services"
)

const dateLayout = "2006-01-02"

type scheduleStatusRequest struct {
	Status domain.ScheduleStatus `json:"status" binding:"required"`
}

type delayRequest struct {
	Minutes *int `json:"minutes" binding:"required"`
}

func (h *Handlers) ListDestinations(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.ListDestinations(c.Request.Context(), limit)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"destinations": out})
}

func (h *Handlers) SearchDestinations(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.SearchDestinations(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"destinations": out})
}

func (h *Handlers) PopularDestinations(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.PopularDestinations(c.Request.Context(), limit)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"destinations": out})
}

// SearchSchedules takes ?from=HAN&to=SGN&date=2026-04-01&passengers=2&fareClass=economy.
func (h *Handlers) SearchSchedules(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "date: must be YYYY-MM-DD", nil)
		return
	}
	passengers, ok := queryInt(c, "passengers", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.SearchSchedules(c.Request.Context(), domain.ScheduleQuery{
		FromCode:   c.Query("from"),
		ToCode:     c.Query("to"),
		Date:       date,
		Passengers: passengers,
		FareClass:  strings.ToLower(c.Query("fareClass")),
		Limit:      limit,
	})
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedules": out})
}

func (h *Handlers) GetSchedule(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.catalog.GetSchedule(c.Request.Context(), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedule": s})
}

func (h *Handlers) Availability(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.catalog.Availability(c.Request.Context(), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"availability": a})
}

func (h *Handlers) CreateSchedule(c *gin.Context) {
	var req services.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.CreateSchedule(c.Request.Context(), subject(c), req)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"schedule": s})
}

func (h *Handlers) UpdateScheduleStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req scheduleStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.UpdateScheduleStatus(c.Request.Context(), subject(c), id, req.Status)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedule": s})
}

func (h *Handlers) SetDelay(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req delayRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.SetDelay(c.Request.Context(), subject(c), id, *req.Minutes)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedule": s})
}

func (h *Handlers) PopularRoutes(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.PopularRoutes(c.Request.Context(), limit)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"routes": out})
}

// SchedulesByRoute takes ?fromDate=2026-04-01&toDate=2026-04-07&limit=20.
func (h *Handlers) SchedulesByRoute(c *gin.Context) {
	routeID, ok := pathUUID(c, "routeId")
	if !ok {
		return
	}
	from, ok := queryTime(c, "fromDate")
	if !ok {
		return
	}
	to, ok := queryTime(c, "toDate")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.SchedulesByRoute(c.Request.Context(), routeID, from, to, limit)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedules": out})
}

func (h *Handlers) SchedulesByOperator(c *gin.Context) {
	operatorID, ok := pathUUID(c, "operatorId")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.SchedulesByOperator(c.Request.Context(), subject(c), operatorID,
		domain.ScheduleStatus(c.Query("status")), limit)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedules": out})
}

func (h *Handlers) DelayedSchedules(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	out, err := h.catalog.DelayedSchedules(c.Request.Context(), limit)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"schedules": out})
}
