package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/justicebot/justicebot-backend/internal/data/repos"
	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/flows"
	"github.com/justicebot/justicebot-backend/internal/http/response"
	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type MeritAssessor interface {
	AssessDisputeMerit(ctx context.Context, in flows.AssessDisputeMeritInput) (flows.AssessDisputeMeritOutput, error)
}

type CaseHandler struct {
	log      *logger.Logger
	assessor MeritAssessor
	cases    repos.CaseAssessmentRepo
	now      func() time.Time
}

func NewCaseHandler(log *logger.Logger, assessor MeritAssessor, cases repos.CaseAssessmentRepo) *CaseHandler {
	return &CaseHandler{
		log:      log.With("handler", "CaseHandler"),
		assessor: assessor,
		cases:    cases,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// POST /api/cases/assess
// body: { "caseName": "...", "disputeDetails": "...", "evidenceText": "..." }
func (h *CaseHandler) Assess(c *gin.Context) {
	uid := ctxutil.UID(c.Request.Context())
	if !requireUID(c, uid) {
		return
	}
	var in flows.AssessDisputeMeritInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.assessor.AssessDisputeMerit(c.Request.Context(), in)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	row, err := h.cases.Create(dbctx.Of(c.Request.Context()), &types.CaseAssessment{
		ID:                 uuid.New(),
		UserID:             uid,
		CaseName:           in.CaseName,
		MeritScore:         out.Score(),
		CaseClassification: out.CaseClassification,
		SuggestedAvenues:   out.SuggestedAvenues,
		Analysis:           out.Analysis,
		CreatedAt:          h.now(),
	})
	if err != nil {
		h.log.Error("save case assessment failed", "user_id", uid, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "save_case_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"case": row})
}

// GET /api/cases/latest
func (h *CaseHandler) Latest(c *gin.Context) {
	uid := ctxutil.UID(c.Request.Context())
	if !requireUID(c, uid) {
		return
	}
	row, err := h.cases.LatestByUser(dbctx.Of(c.Request.Context()), uid)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "load_case_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "case_not_found", errors.New("no case assessment yet"))
		return
	}
	response.RespondOK(c, gin.H{"case": row})
}
