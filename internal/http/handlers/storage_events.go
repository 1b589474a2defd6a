package handlers

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/evidence"
	"github.com/justicebot/justicebot-backend/internal/http/response"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

const (
	HeaderWebhookToken = "X-Webhook-Token"

	pubsubFinalize     = "OBJECT_FINALIZE"
	cloudEventFinalize = "google.cloud.storage.object.v1.finalized"

	maxEventBodyBytes = 1 << 20
)

var errNoObject = errors.New("event carries no object name")

// StorageEventHandler receives object-finalize notifications, either pushed by a
// Pub/Sub subscription or delivered directly as an object resource.
type StorageEventHandler struct {
	log       *logger.Logger
	submitter evidence.Submitter
	token     string
}

func NewStorageEventHandler(log *logger.Logger, submitter evidence.Submitter, token string) *StorageEventHandler {
	return &StorageEventHandler{
		log:       log.With("handler", "StorageEventHandler"),
		submitter: submitter,
		token:     strings.TrimSpace(token),
	}
}

type objectResource struct {
	Name        string `json:"name"`
	Bucket      string `json:"bucket"`
	ContentType string `json:"contentType"`
}

type pushEnvelope struct {
	Message *struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// POST /api/events/storage
func (h *StorageEventHandler) Receive(c *gin.Context) {
	if !h.authorized(c) {
		response.RespondError(c, http.StatusUnauthorized, "invalid_webhook_token", errors.New("invalid webhook token"))
		return
	}
	if ce := strings.TrimSpace(c.GetHeader("Ce-Type")); ce != "" && ce != cloudEventFinalize {
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "eventType": ce})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBodyBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ev, eventType, err := decodeStorageEvent(body)
	if eventType != "" && eventType != pubsubFinalize {
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "eventType": eventType})
		return
	}
	if errors.Is(err, errNoObject) {
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": err.Error()})
		return
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_event", err)
		return
	}

	if err := h.submitter.Submit(c.Request.Context(), ev); err != nil {
		h.log.Error("submit storage event failed", "object", ev.Name, "error", err)
		response.RespondError(c, http.StatusServiceUnavailable, "submit_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted", "object": ev.Name})
}

func (h *StorageEventHandler) authorized(c *gin.Context) bool {
	if h.token == "" {
		return true
	}
	got := c.GetHeader(HeaderWebhookToken)
	if got == "" {
		got = c.Query("token")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

// decodeStorageEvent accepts a Pub/Sub push envelope or a bare object resource.
// eventType is the Pub/Sub eventType attribute when present. A well-formed event
// without an object name yields errNoObject.
func decodeStorageEvent(body []byte) (evidence.ObjectFinalized, string, error) {
	var env pushEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return evidence.ObjectFinalized{}, "", err
	}
	if env.Message != nil {
		attrs := env.Message.Attributes
		eventType := strings.TrimSpace(attrs["eventType"])
		var obj objectResource
		if env.Message.Data != "" {
			raw, err := base64.StdEncoding.DecodeString(env.Message.Data)
			if err != nil {
				return evidence.ObjectFinalized{}, eventType, err
			}
			if err := json.Unmarshal(raw, &obj); err != nil {
				return evidence.ObjectFinalized{}, eventType, err
			}
		}
		if obj.Name == "" {
			obj.Name = attrs["objectId"]
		}
		if obj.Bucket == "" {
			obj.Bucket = attrs["bucketId"]
		}
		if strings.TrimSpace(obj.Name) == "" {
			return evidence.ObjectFinalized{}, eventType, errNoObject
		}
		return evidence.ObjectFinalized{Name: obj.Name, ContentType: obj.ContentType, Bucket: obj.Bucket}, eventType, nil
	}

	var obj objectResource
	if err := json.Unmarshal(body, &obj); err != nil {
		return evidence.ObjectFinalized{}, "", err
	}
	if strings.TrimSpace(obj.Name) == "" {
		return evidence.ObjectFinalized{}, "", errNoObject
	}
	return evidence.ObjectFinalized{Name: obj.Name, ContentType: obj.ContentType, Bucket: obj.Bucket}, "", nil
}
