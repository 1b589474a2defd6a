package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/data/repos"
	"github.com/justicebot/justicebot-backend/internal/http/response"
	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
)

const (
	defaultEvidenceLimit = 50
	maxEvidenceLimit     = 200
)

type EvidenceHandler struct {
	analyses repos.EvidenceAnalysisRepo
}

func NewEvidenceHandler(analyses repos.EvidenceAnalysisRepo) *EvidenceHandler {
	return &EvidenceHandler{analyses: analyses}
}

// GET /api/evidence?limit=50
func (h *EvidenceHandler) List(c *gin.Context) {
	uid := ctxutil.UID(c.Request.Context())
	if !requireUID(c, uid) {
		return
	}
	limit := defaultEvidenceLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxEvidenceLimit)
	}
	rows, err := h.analyses.ListByOwner(dbctx.Of(c.Request.Context()), uid, limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_evidence_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"evidence": rows})
}

// GET /api/evidence/:documentId
func (h *EvidenceHandler) Get(c *gin.Context) {
	uid := ctxutil.UID(c.Request.Context())
	if !requireUID(c, uid) {
		return
	}
	row, err := h.analyses.GetByDocumentID(dbctx.Of(c.Request.Context()), c.Param("documentId"))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "load_evidence_failed", err)
		return
	}
	if row == nil || row.OwnerUserID != uid {
		response.RespondError(c, http.StatusNotFound, "evidence_not_found", errors.New("evidence not found"))
		return
	}
	response.RespondOK(c, gin.H{"evidence": row})
}
