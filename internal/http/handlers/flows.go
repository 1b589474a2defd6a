package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/flows"
)

// CaseTools is the subset of *flows.Runner exposed as one-shot endpoints.
type CaseTools interface {
	ClassifyDocument(ctx context.Context, in flows.ClassifyDocumentInput) (flows.ClassifyDocumentOutput, error)
	SuggestLegalForms(ctx context.Context, in flows.SuggestLegalFormsInput) (flows.SuggestLegalFormsOutput, error)
	FindCourtAndAid(ctx context.Context, in flows.FindCourtAndAidInput) (flows.FindCourtAndAidOutput, error)
	GenerateLegalTimeline(ctx context.Context, in flows.CaseDetailsInput) (flows.LegalTimelineOutput, error)
	FindPrecedents(ctx context.Context, in flows.CaseDetailsInput) (flows.PrecedentsOutput, error)
	ExplainLegalDocument(ctx context.Context, in flows.DocumentInput) (flows.ExplainDocumentOutput, error)
	AnalyzeCharter(ctx context.Context, in flows.DocumentInput) (flows.CharterAnalysisOutput, error)
	SummarizeLaw(ctx context.Context, in flows.SummarizeLawInput) (flows.SummaryOutput, error)
}

type FlowHandler struct {
	tools CaseTools
}

func NewFlowHandler(tools CaseTools) *FlowHandler {
	return &FlowHandler{tools: tools}
}

// POST /api/flows/classify-document
func (h *FlowHandler) ClassifyDocument(c *gin.Context) { runFlow(c, h.tools.ClassifyDocument) }

// POST /api/flows/suggest-legal-forms
func (h *FlowHandler) SuggestLegalForms(c *gin.Context) { runFlow(c, h.tools.SuggestLegalForms) }

// POST /api/flows/find-court
func (h *FlowHandler) FindCourt(c *gin.Context) { runFlow(c, h.tools.FindCourtAndAid) }

// POST /api/flows/legal-timeline
func (h *FlowHandler) LegalTimeline(c *gin.Context) { runFlow(c, h.tools.GenerateLegalTimeline) }

// POST /api/flows/precedents
func (h *FlowHandler) Precedents(c *gin.Context) { runFlow(c, h.tools.FindPrecedents) }

// POST /api/flows/explain-document
func (h *FlowHandler) ExplainDocument(c *gin.Context) { runFlow(c, h.tools.ExplainLegalDocument) }

// POST /api/flows/charter-analysis
func (h *FlowHandler) CharterAnalysis(c *gin.Context) { runFlow(c, h.tools.AnalyzeCharter) }

// POST /api/flows/summarize-law
func (h *FlowHandler) SummarizeLaw(c *gin.Context) { runFlow(c, h.tools.SummarizeLaw) }
