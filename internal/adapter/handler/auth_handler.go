package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/transit_ticket/internal/core/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "registered", gin.H{"user": user})
}

func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, resp)
}

func (h *Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"tokens": tokens})
}

func (h *Handlers) Logout(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "logged out", nil)
}

func (h *Handlers) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), subject(c))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handlers) LogoutAll(c *gin.Context) {
	if err := h.auth.LogoutAll(c.Request.Context(), subject(c)); err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "logged out from all devices", nil)
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), subject(c), req)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "profile updated", gin.H{"user": user})
}

func (h *Handlers) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), subject(c), req.CurrentPassword, req.NewPassword); err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "password changed, please log in again", nil)
}

// ForgotPassword answers the same way for every email. The reset token only
// appears in the response in development.
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	var data any
	if h.dev && token != "" {
		data = gin.H{"resetToken": token}
	}

	respondMessage(c, http.StatusOK, "if the email is registered, a reset link has been sent", data)
}

func (h *Handlers) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.RespondDomainError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "password reset, please log in", nil)
}
