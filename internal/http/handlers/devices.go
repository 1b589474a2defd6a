package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/data/repos"
	"github.com/justicebot/justicebot-backend/internal/http/response"
	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
)

type DeviceHandler struct {
	tokens repos.DeviceTokenRepo
}

func NewDeviceHandler(tokens repos.DeviceTokenRepo) *DeviceHandler {
	return &DeviceHandler{tokens: tokens}
}

// POST /api/devices
// body: { "token": "...", "platform": "web" | "ios" | "android" }
func (h *DeviceHandler) Register(c *gin.Context) {
	uid := ctxutil.UID(c.Request.Context())
	if !requireUID(c, uid) {
		return
	}
	var req struct {
		Token    string `json:"token" binding:"required"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("token is required"))
		return
	}
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if err := h.tokens.Register(dbctx.Of(c.Request.Context()), uid, token, platform); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "register_device_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /api/devices/:token
func (h *DeviceHandler) Delete(c *gin.Context) {
	uid := ctxutil.UID(c.Request.Context())
	if !requireUID(c, uid) {
		return
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("token is required"))
		return
	}
	n, err := h.tokens.DeleteTokens(dbctx.Of(c.Request.Context()), uid, []string{token})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "delete_device_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"removed": n})
}
