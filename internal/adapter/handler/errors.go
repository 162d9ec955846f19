package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:      http.StatusBadRequest,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindConflict:        http.StatusConflict,
	domain.KindUnauthorized:    http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindGateway:         http.StatusBadGateway,
	domain.KindTooManyRequests: http.StatusTooManyRequests,
	domain.KindInternal:        http.StatusInternalServerError,
}

func statusFor(err error) int {
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     http.StatusText(status),
		Code:      code,
		Message:   message,
		RequestID: GetRequestID(c),
		Details:   details,
	})
}

// RespondDomainError maps err onto a status code. Internal errors are logged
// and their message is only exposed in dev mode.
func (h *Handlers) RespondDomainError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()

	var details any
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).WithError(err).Error("Request failed")
		if h.dev {
			details = err.Error()
		}
		message = "internal server error"
	}

	respondError(c, status, domain.CodeOf(err), message, details)
}

// bindJSON decodes the body into dst and answers 400 when it cannot.
func bindJSON[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return false
	}
	return true
}
