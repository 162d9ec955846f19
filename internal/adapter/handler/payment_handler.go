package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/services"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

// IPNResponse is the acknowledgement body VNPay expects from the merchant.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

func (h *Handlers) CreatePayment(c *gin.Context) {
	var req services.InitiatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ClientIP = c.ClientIP()

	resp, err := h.payments.Initiate(c.Request.Context(), subject(c), c.Param("provider"), req)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, resp)
}

// PaymentReturn is where the gateway sends the customer's browser after
// checkout. The IPN may arrive before or after it.
func (h *Handlers) PaymentReturn(c *gin.Context) {
	outcome, err := h.payments.HandleCallback(c.Request.Context(), c.Param("provider"), c.Request.URL.Query())
	if err != nil {
		if domain.KindOf(err) == domain.KindGateway {
			respondError(c, http.StatusBadRequest, domain.CodeOf(err), err.Error(), nil)
			return
		}
		h.RespondDomainError(c, err)
		return
	}

	p := outcome.Payment
	respond(c, http.StatusOK, gin.H{
		"success":          p.Status == domain.PaymentCompleted,
		"paymentStatus":    p.Status,
		"bookingId":        p.BookingID,
		"transactionId":    p.TransactionID,
		"amount":           p.Amount,
		"responseCode":     p.ErrorCode,
		"refundRequested":  outcome.RefundRequested,
		"alreadyProcessed": outcome.AlreadyProcessed,
	})
}

// PaymentIPN answers the gateway's server to server notification. The
// gateway only reads RspCode, so every outcome is a 200.
func (h *Handlers) PaymentIPN(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusOK, IPNResponse{RspCode: "99", Message: "Invalid request"})
		return
	}

	outcome, err := h.payments.HandleCallback(c.Request.Context(), c.Param("provider"), c.Request.Form)
	c.JSON(http.StatusOK, ipnResponse(outcome, err))

	if err != nil {
		logging.FromContext(c.Request.Context()).WithError(err).Warn("Payment IPN rejected")
	}
}

func ipnResponse(outcome *services.CallbackOutcome, err error) IPNResponse {
	switch {
	case err == nil && outcome.AlreadyProcessed:
		return IPNResponse{RspCode: "02", Message: "Order already confirmed"}
	case err == nil:
		return IPNResponse{RspCode: "00", Message: "Confirm Success"}
	case errors.Is(err, domain.ErrInvalidSignature):
		return IPNResponse{RspCode: "97", Message: "Invalid signature"}
	case errors.Is(err, domain.ErrAmountMismatch):
		return IPNResponse{RspCode: "04", Message: "Invalid amount"}
	case domain.IsNotFound(err):
		return IPNResponse{RspCode: "01", Message: "Order not found"}
	default:
		return IPNResponse{RspCode: "99", Message: "Unknown error"}
	}
}
