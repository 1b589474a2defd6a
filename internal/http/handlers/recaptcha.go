package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/http/response"
	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type RecaptchaHandler struct {
	log      *logger.Logger
	verifier gcp.Recaptcha
}

// NewRecaptchaHandler accepts a nil verifier when reCAPTCHA is not configured;
// every token is then reported invalid.
func NewRecaptchaHandler(log *logger.Logger, verifier gcp.Recaptcha) *RecaptchaHandler {
	return &RecaptchaHandler{log: log.With("handler", "RecaptchaHandler"), verifier: verifier}
}

// POST /api/recaptcha/verify
// body: { "token": "...", "expectedAction": "LOGIN" }
func (h *RecaptchaHandler) Verify(c *gin.Context) {
	var req struct {
		Token          string `json:"token" binding:"required"`
		ExpectedAction string `json:"expectedAction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if h.verifier == nil {
		c.JSON(http.StatusOK, gcp.RecaptchaVerdict{IsValid: false, Score: 0, Reason: "recaptcha is not configured"})
		return
	}
	verdict, err := h.verifier.Verify(c.Request.Context(), req.Token, req.ExpectedAction)
	if err != nil {
		h.log.Warn("recaptcha verification failed", "action", req.ExpectedAction, "error", err)
		c.JSON(http.StatusOK, gcp.RecaptchaVerdict{IsValid: false, Score: 0, Reason: "verification failed"})
		return
	}
	c.JSON(http.StatusOK, verdict)
}
