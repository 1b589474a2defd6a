package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/evidence"
	"github.com/justicebot/justicebot-backend/internal/http/response"
	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

const DefaultMaxUploadBytes int64 = 25 << 20

type UploadHandler struct {
	log      *logger.Logger
	bucket   gcp.BucketService
	maxBytes int64
}

func NewUploadHandler(log *logger.Logger, bucket gcp.BucketService, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadHandler{
		log:      log.With("handler", "UploadHandler"),
		bucket:   bucket,
		maxBytes: maxBytes,
	}
}

// POST /api/upload
// multipart form, field "file"
func (h *UploadHandler) Upload(c *gin.Context) {
	uid := ctxutil.UID(c.Request.Context())
	if !requireUID(c, uid) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", errors.New("no file uploaded"))
		return
	}
	key := evidence.ObjectKey(uid, fh.Filename)
	if key == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_file", errors.New("file name is empty"))
		return
	}
	if fh.Size > h.maxBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file is %d bytes; limit is %d", fh.Size, h.maxBytes))
		return
	}

	contentType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		if guessed := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); guessed != "" {
			contentType = guessed
		}
	}

	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
		return
	}
	defer f.Close()

	if err := h.bucket.UploadFile(dbctx.Of(c.Request.Context()), key, contentType, f); err != nil {
		h.log.Error("upload failed", "key", key, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", errors.New("failed to upload file"))
		return
	}
	h.log.Info("evidence uploaded", "key", key, "size", fh.Size, "content_type", contentType)
	c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully."})
}
