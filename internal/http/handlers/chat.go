package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
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

const chatHistoryLimit = 20

type ChatResponder interface {
	ConversationalChat(ctx context.Context, in flows.ChatInput) (flows.ChatOutput, error)
}

type ChatHandler struct {
	log      *logger.Logger
	chat     ChatResponder
	messages repos.ChatMessageRepo
	cases    repos.CaseAssessmentRepo
	now      func() time.Time
}

func NewChatHandler(log *logger.Logger, chat ChatResponder, messages repos.ChatMessageRepo, cases repos.CaseAssessmentRepo) *ChatHandler {
	return &ChatHandler{
		log:      log.With("handler", "ChatHandler"),
		chat:     chat,
		messages: messages,
		cases:    cases,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// POST /api/chat
// body: { "message": "...", "session_id": "..." }
func (h *ChatHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()
	uid := ctxutil.UID(ctx)
	if !requireUID(c, uid) {
		return
	}
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	question := strings.TrimSpace(req.Message)
	if question == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("message is required"))
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := h.log.With("user_id", uid, "session_id", sessionID)

	dbc := dbctx.Of(ctx)
	prior, err := h.messages.ListRecent(dbc, uid, sessionID, chatHistoryLimit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "load_history_failed", err)
		return
	}
	history := make([]flows.ChatTurn, 0, len(prior))
	for _, m := range prior {
		history = append(history, flows.ChatTurn{Role: m.Role, Content: m.Content})
	}

	var caseCtx *flows.CaseContext
	latest, err := h.cases.LatestByUser(dbc, uid)
	if err != nil {
		// Chat still answers without case context.
		log.Warn("load latest case failed", "error", err)
	} else if latest != nil {
		caseCtx = &flows.CaseContext{
			CaseName:           latest.CaseName,
			CaseClassification: latest.CaseClassification,
			MeritScore:         latest.MeritScore,
			SuggestedAvenues:   latest.SuggestedAvenues,
			Analysis:           latest.Analysis,
		}
	}

	out, err := h.chat.ConversationalChat(ctx, flows.ChatInput{
		Question:    question,
		CaseContext: caseCtx,
		ChatHistory: history,
	})
	if err != nil {
		log.Warn("chat flow failed", "error", err)
		respondFlowError(c, err)
		return
	}

	now := h.now()
	if _, err := h.messages.Append(dbc, []*types.ChatMessage{
		{ID: uuid.New(), SessionID: sessionID, UserID: uid, Role: types.ChatRoleUser, Content: question, CreatedAt: now},
		{ID: uuid.New(), SessionID: sessionID, UserID: uid, Role: types.ChatRoleBot, Content: out.Answer, CreatedAt: now},
	}); err != nil {
		log.Error("persist chat messages failed", "error", err)
	}

	response.RespondOK(c, gin.H{"response": out.Answer, "session_id": sessionID})
}
