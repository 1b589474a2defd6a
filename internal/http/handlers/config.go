package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/http/response"
)

// PublicConfig holds the NEXT_PUBLIC_* values the web client needs at runtime.
type PublicConfig struct {
	RecaptchaSiteKey     string `json:"recaptchaSiteKey"`
	StripePublishableKey string `json:"stripePublishableKey"`
	FreeTierEnabled      bool   `json:"freeTierEnabled"`
	FirebaseProjectID    string `json:"firebaseProjectId"`
}

type ConfigHandler struct {
	cfg PublicConfig
}

func NewConfigHandler(cfg PublicConfig) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// GET /api/config/public
func (h *ConfigHandler) Public(c *gin.Context) {
	response.RespondOK(c, h.cfg)
}
