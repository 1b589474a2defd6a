package prompts

import (
	"errors"
	"strings"
	"testing"
)

func TestAllFlowsRegistered(t *testing.T) {
	want := []PromptName{
		PromptClassifyDocument, PromptSuggestLegalForms, PromptAssessDisputeMerit,
		PromptFindCourtAndAid, PromptGenerateLegalTimeline, PromptFindPrecedents,
		PromptExplainLegalDocument, PromptAnalyzeCharter, PromptSummarizeLaw,
		PromptConversationalChat,
	}
	names := map[string]bool{}
	for _, n := range Names() {
		names[n] = true
	}
	for _, n := range want {
		if !names[string(n)] {
			t.Fatalf("prompt %s not registered", n)
		}
	}
}

func TestBuildClassify(t *testing.T) {
	p, err := Build(PromptClassifyDocument, Input{Text: "You must vacate by March 1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "You must vacate by March 1") {
		t.Fatalf("user prompt missing text: %q", p.User)
	}
	if !strings.Contains(p.System, "Eviction Notice") {
		t.Fatalf("system prompt missing categories: %q", p.System)
	}
	if p.Temperature == nil || *p.Temperature != 0.1 {
		t.Fatalf("expected temperature 0.1, got %v", p.Temperature)
	}
	if p.SchemaName != "document_classification" {
		t.Fatalf("schema name: %q", p.SchemaName)
	}
	if p.Fingerprint() == "" {
		t.Fatalf("empty fingerprint")
	}
}

func TestBuildRejectsMissingInput(t *testing.T) {
	cases := []struct {
		name PromptName
		in   Input
	}{
		{PromptClassifyDocument, Input{Text: "   "}},
		{PromptSuggestLegalForms, Input{Text: "x"}},
		{PromptAssessDisputeMerit, Input{CaseName: "c"}},
		{PromptFindCourtAndAid, Input{PostalCode: "M5V 2T6"}},
		{PromptSummarizeLaw, Input{ProvinceOrTerritory: "Ontario"}},
		{PromptConversationalChat, Input{}},
	}
	for _, tc := range cases {
		_, err := Build(tc.name, tc.in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestBuildUnknownPrompt(t *testing.T) {
	if _, err := Build("nope", Input{}); err == nil || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown prompt error, got %v", err)
	}
}

func TestAssessMeritEvidenceOptional(t *testing.T) {
	p, err := Build(PromptAssessDisputeMerit, Input{CaseName: "notice", DisputeDetails: "d"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(p.User, "EVIDENCE_TEXT") {
		t.Fatalf("evidence block rendered without evidence: %q", p.User)
	}
	p, err = Build(PromptAssessDisputeMerit, Input{CaseName: "notice", DisputeDetails: "d", EvidenceText: "vacate"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "EVIDENCE_TEXT:\nvacate") {
		t.Fatalf("evidence block missing: %q", p.User)
	}
}

func TestChatPromptRendersHistoryAndContext(t *testing.T) {
	p, err := Build(PromptConversationalChat, Input{
		Question: "What next?",
		ChatHistory: []ChatTurn{
			{Role: "user", Content: "My landlord gave me an N4"},
			{Role: "bot", Content: "That is a notice for non-payment."},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "User: My landlord gave me an N4\nJusticeBot: That is a notice for non-payment.") {
		t.Fatalf("history not rendered: %q", p.User)
	}
	if !strings.Contains(p.System, "not a lawyer") {
		t.Fatalf("expected disclaimer without case context: %q", p.System)
	}
	if !strings.HasSuffix(p.User, "QUESTION:\nWhat next?") {
		t.Fatalf("question not last: %q", p.User)
	}

	p, err = Build(PromptConversationalChat, Input{
		Question:    "Will I win?",
		CaseContext: &CaseContext{CaseName: "Rent dispute", CaseClassification: "Landlord/Tenant", MeritScore: 72},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "Merit score: 72") || !strings.Contains(p.User, "Case name: Rent dispute") {
		t.Fatalf("case context not rendered: %q", p.User)
	}
	if strings.Contains(p.System, "not a lawyer") {
		t.Fatalf("unexpected disclaimer with case context: %q", p.System)
	}
}

func TestCharterReference(t *testing.T) {
	p, err := Build(PromptAnalyzeCharter, Input{DocumentText: "The police searched my car.", CharterSections: CharterReference()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, n := range []string{"s. 2(b):", "s. 7:", "s. 8:", "s. 9:", "s. 10:", "s. 11:"} {
		if !strings.Contains(p.System, n) {
			t.Fatalf("charter reference missing %q", n)
		}
	}
}

func TestLookupLawArea(t *testing.T) {
	for _, k := range LawAreaKeys() {
		if _, ok := LookupLawArea(strings.ToUpper(k)); !ok {
			t.Fatalf("area %s not found", k)
		}
	}
	if _, ok := LookupLawArea("tax"); ok {
		t.Fatalf("unexpected area tax")
	}
}

func TestSchemasAreStrict(t *testing.T) {
	for _, s := range []map[string]any{
		ClassifyDocumentSchema(), SuggestLegalFormsSchema(), AssessDisputeMeritSchema(),
		FindCourtAndAidSchema(), LegalTimelineSchema(), PrecedentsSchema(),
		ExplainDocumentSchema(), CharterAnalysisSchema(), SummarySchema(), ChatAnswerSchema(),
	} {
		checkStrict(t, s)
	}
}

func checkStrict(t *testing.T, s map[string]any) {
	t.Helper()
	if items, ok := s["items"].(map[string]any); ok {
		checkStrict(t, items)
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		return
	}
	if s["additionalProperties"] != false {
		t.Fatalf("object schema not closed: %v", s)
	}
	req, _ := s["required"].([]any)
	if len(req) != len(props) {
		t.Fatalf("required=%v does not list all properties", req)
	}
	for _, p := range props {
		if m, ok := p.(map[string]any); ok {
			checkStrict(t, m)
		}
	}
}
