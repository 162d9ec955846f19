package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type verifyTicketRequest struct {
	Payload string `json:"payload" binding:"required"`
}

func (h *Handlers) VerifyTicket(c *gin.Context) {
	var req verifyTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.tickets.VerifyQR(c.Request.Context(), req.Payload)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, out)
}

func (h *Handlers) UseTicket(c *gin.Context) {
	ticket, err := h.tickets.Use(c.Request.Context(), subject(c), c.Param("number"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "ticket used", gin.H{"ticket": ticket})
}

func (h *Handlers) TicketPDF(c *gin.Context) {
	pdf, ticket, err := h.tickets.RenderPDF(c.Request.Context(), subject(c), c.Param("number"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ticket.TicketNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
