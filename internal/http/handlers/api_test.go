package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/justicebot/justicebot-backend/internal/data/repos"
	"github.com/justicebot/justicebot-backend/internal/data/repos/testutil"
	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/flows"
	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

const meritJSON = `{"meritScore":71,"caseClassification":"Landlord/Tenant","suggestedAvenues":"File a T2","analysis":"Strong paper trail."}`

func TestFlowEndpoints(t *testing.T) {
	fake := newFakeLLM(map[string]string{
		string(prompts.PromptClassifyDocument): `{"classification":"Lease Agreement"}`,
	})
	h := NewFlowHandler(flows.NewRunner(logger.Nop(), fake))
	r := newEngine("user123")
	r.POST("/classify", h.ClassifyDocument)
	r.POST("/summarize", h.SummarizeLaw)
	r.POST("/court", h.FindCourt)

	w := doJSON(t, r, http.MethodPost, "/classify", map[string]string{"text": "This lease is made between..."})
	if w.Code != http.StatusOK {
		t.Fatalf("classify status=%d body=%s", w.Code, w.Body.String())
	}
	var out flows.ClassifyDocumentOutput
	decode(t, w, &out)
	if out.Classification != "Lease Agreement" {
		t.Fatalf("classification=%q", out.Classification)
	}

	if w := doJSON(t, r, http.MethodPost, "/classify", map[string]string{"text": ""}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty text status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/summarize", map[string]string{"area": "tax", "provinceOrTerritory": "Ontario"}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown area status=%d", w.Code)
	}

	// No canned response for find_court_and_aid, so the model output is empty.
	w = doJSON(t, r, http.MethodPost, "/court", map[string]string{"postalCode": "M5V 2T6", "caseClassification": "Landlord/Tenant"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("malformed status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCaseAssessAndLatest(t *testing.T) {
	db := testutil.DB(t)
	cases := repos.NewCaseAssessmentRepo(db, logger.Nop())
	fake := newFakeLLM(map[string]string{string(prompts.PromptAssessDisputeMerit): meritJSON})
	h := NewCaseHandler(logger.Nop(), flows.NewRunner(logger.Nop(), fake), cases)

	r := newEngine("user123")
	r.POST("/assess", h.Assess)
	r.GET("/latest", h.Latest)

	if w := doJSON(t, r, http.MethodGet, "/latest", nil); w.Code != http.StatusNotFound {
		t.Fatalf("latest before assess status=%d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/assess", flows.AssessDisputeMeritInput{
		CaseName:       "Smith v. Jones",
		DisputeDetails: "Landlord kept my deposit.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("assess status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/latest", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("latest status=%d", w.Code)
	}
	var resp struct {
		Case types.CaseAssessment `json:"case"`
	}
	decode(t, w, &resp)
	if resp.Case.CaseName != "Smith v. Jones" || resp.Case.MeritScore != 71 || resp.Case.UserID != "user123" {
		t.Fatalf("unexpected case: %+v", resp.Case)
	}

	if w := doJSON(t, r, http.MethodPost, "/assess", map[string]string{"caseName": "x"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing details status=%d", w.Code)
	}
}

func TestChatPersistsSessionAndReplaysHistory(t *testing.T) {
	db := testutil.DB(t)
	messages := repos.NewChatMessageRepo(db, logger.Nop())
	cases := repos.NewCaseAssessmentRepo(db, logger.Nop())
	fake := newFakeLLM(map[string]string{string(prompts.PromptConversationalChat): `{"answer":"File a T2 within one year."}`})
	h := NewChatHandler(logger.Nop(), flows.NewRunner(logger.Nop(), fake), messages, cases)

	r := newEngine("user123")
	r.POST("/chat", h.Chat)

	if w := doJSON(t, r, http.MethodPost, "/chat", map[string]string{"message": "   "}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty message status=%d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/chat", map[string]string{"message": "Can my landlord keep my deposit?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var first struct {
		Response  string `json:"response"`
		SessionID string `json:"session_id"`
	}
	decode(t, w, &first)
	if first.Response != "File a T2 within one year." || first.SessionID == "" {
		t.Fatalf("unexpected response: %+v", first)
	}
	req, _ := fake.lastRequest(string(prompts.PromptConversationalChat))
	if !strings.Contains(req.System, "not a lawyer") {
		t.Fatalf("expected disclaimer without case context")
	}

	if _, err := cases.Create(dbctx.Of(t.Context()), &types.CaseAssessment{
		ID: uuid.New(), UserID: "user123", CaseName: "Deposit dispute", MeritScore: 64, CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed case: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/chat", map[string]string{"message": "What form do I use?", "session_id": first.SessionID})
	if w.Code != http.StatusOK {
		t.Fatalf("second status=%d", w.Code)
	}
	req, _ = fake.lastRequest(string(prompts.PromptConversationalChat))
	if !strings.Contains(req.User, "User: Can my landlord keep my deposit?") {
		t.Fatalf("history not replayed:\n%s", req.User)
	}
	if !strings.Contains(req.User, "JusticeBot: File a T2 within one year.") {
		t.Fatalf("bot turn not replayed:\n%s", req.User)
	}
	if !strings.Contains(req.User, "Case name: Deposit dispute") {
		t.Fatalf("case context missing:\n%s", req.User)
	}

	stored, err := messages.ListRecent(dbctx.Of(t.Context()), "user123", first.SessionID, 20)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(stored) != 4 {
		t.Fatalf("stored messages=%d, want 4", len(stored))
	}
	if stored[0].Role != types.ChatRoleUser || stored[1].Role != types.ChatRoleBot {
		t.Fatalf("unexpected roles: %s, %s", stored[0].Role, stored[1].Role)
	}
}

func TestEvidenceIsOwnerScoped(t *testing.T) {
	db := testutil.DB(t)
	analyses := repos.NewEvidenceAnalysisRepo(db, logger.Nop())
	if _, err := analyses.Upsert(dbctx.Of(t.Context()), &types.EvidenceAnalysis{
		DocumentID:     "notice",
		OwnerUserID:    "user123",
		ObjectName:     "evidence/user123/notice.pdf",
		ExtractedText:  "NOTICE TO END TENANCY",
		Classification: "Eviction Notice",
		MeritScore:     62,
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := NewEvidenceHandler(analyses)

	owner := newEngine("user123")
	owner.GET("/evidence", h.List)
	owner.GET("/evidence/:documentId", h.Get)
	other := newEngine("someone-else")
	other.GET("/evidence/:documentId", h.Get)

	w := doJSON(t, owner, http.MethodGet, "/evidence/notice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner get status=%d", w.Code)
	}
	if w := doJSON(t, other, http.MethodGet, "/evidence/notice", nil); w.Code != http.StatusNotFound {
		t.Fatalf("other user status=%d", w.Code)
	}
	if w := doJSON(t, owner, http.MethodGet, "/evidence/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing status=%d", w.Code)
	}

	w = doJSON(t, owner, http.MethodGet, "/evidence", nil)
	var list struct {
		Evidence []types.EvidenceAnalysis `json:"evidence"`
	}
	decode(t, w, &list)
	if len(list.Evidence) != 1 || list.Evidence[0].DocumentID != "notice" {
		t.Fatalf("unexpected list: %+v", list.Evidence)
	}
	if w := doJSON(t, owner, http.MethodGet, "/evidence?limit=zero", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status=%d", w.Code)
	}
}

func TestDeviceRegisterAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tokens := repos.NewDeviceTokenRepo(db, logger.Nop())
	h := NewDeviceHandler(tokens)
	r := newEngine("user123")
	r.POST("/devices", h.Register)
	r.DELETE("/devices/:token", h.Delete)

	for i := 0; i < 2; i++ {
		if w := doJSON(t, r, http.MethodPost, "/devices", map[string]string{"token": "tok-a", "platform": "Web"}); w.Code != http.StatusOK {
			t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
		}
	}
	got, err := tokens.ListTokens(dbctx.Of(t.Context()), "user123")
	if err != nil || len(got) != 1 {
		t.Fatalf("tokens=%v err=%v", got, err)
	}
	if w := doJSON(t, r, http.MethodPost, "/devices", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing token status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/devices/tok-a", nil); w.Code != http.StatusOK {
		t.Fatalf("delete status=%d", w.Code)
	}
	got, _ = tokens.ListTokens(dbctx.Of(t.Context()), "user123")
	if len(got) != 0 {
		t.Fatalf("tokens after delete=%v", got)
	}
}
