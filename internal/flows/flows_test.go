package flows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
	"github.com/justicebot/justicebot-backend/internal/platform/llm"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type fakeLLM struct {
	responses map[string]string
	errs      map[string]error
	calls     []llm.Request
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, req llm.Request) ([]byte, error) {
	f.calls = append(f.calls, req)
	if err := f.errs[req.Flow]; err != nil {
		return nil, err
	}
	return []byte(f.responses[req.Flow]), nil
}

func (f *fakeLLM) Provider() string { return "fake" }

func newRunner(f *fakeLLM) *Runner {
	return NewRunner(logger.Nop(), f)
}

func TestClassifyDocument(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		string(prompts.PromptClassifyDocument): "```json\n{\"classification\": \" Eviction Notice \"}\n```",
	}}
	out, err := newRunner(f).ClassifyDocument(context.Background(), ClassifyDocumentInput{Text: "You must vacate by March 1"})
	if err != nil {
		t.Fatalf("ClassifyDocument: %v", err)
	}
	if out.Classification != "Eviction Notice" {
		t.Fatalf("classification=%q", out.Classification)
	}
	if len(f.calls) != 1 {
		t.Fatalf("expected one call, got %d", len(f.calls))
	}
	req := f.calls[0]
	if req.Temperature == nil || *req.Temperature != 0.1 {
		t.Fatalf("temperature not forwarded: %v", req.Temperature)
	}
	if !strings.Contains(req.System, "JUSTICEBOT_PROMPT_STYLE_V1") {
		t.Fatalf("style block not applied")
	}
	if req.Schema == nil || req.SchemaName == "" {
		t.Fatalf("schema not forwarded")
	}
}

func TestInvalidInputSkipsModel(t *testing.T) {
	f := &fakeLLM{}
	_, err := newRunner(f).ClassifyDocument(context.Background(), ClassifyDocumentInput{Text: ""})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, err = newRunner(f).SummarizeLaw(context.Background(), SummarizeLawInput{Area: "tax", ProvinceOrTerritory: "Ontario"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown area, got %v", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("model called for invalid input")
	}
}

func TestMalformedResponses(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		reason string
	}{
		{name: "not json", body: "Eviction Notice", reason: "decode"},
		{name: "missing score", body: `{"caseClassification":"LTB","suggestedAvenues":"T2","analysis":"ok"}`, reason: "validation"},
		{name: "score out of range", body: `{"meritScore":140,"caseClassification":"LTB","suggestedAvenues":"T2","analysis":"ok"}`, reason: "validation"},
		{name: "refused", err: llm.ErrRefused, reason: "no usable output"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flow := string(prompts.PromptAssessDisputeMerit)
			f := &fakeLLM{responses: map[string]string{flow: tc.body}, errs: map[string]error{flow: tc.err}}
			_, err := newRunner(f).AssessDisputeMerit(context.Background(), AssessDisputeMeritInput{CaseName: "notice", DisputeDetails: "d"})
			var merr *MalformedResponseError
			if !errors.As(err, &merr) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
			if merr.Flow != flow || merr.Reason != tc.reason {
				t.Fatalf("got flow=%q reason=%q", merr.Flow, merr.Reason)
			}
		})
	}
}

func TestProviderErrorIsNotMalformed(t *testing.T) {
	boom := errors.New("connection reset")
	flow := string(prompts.PromptExplainLegalDocument)
	f := &fakeLLM{errs: map[string]error{flow: boom}}
	_, err := newRunner(f).ExplainLegalDocument(context.Background(), DocumentInput{DocumentText: "lease"})
	var merr *MalformedResponseError
	if errors.As(err, &merr) {
		t.Fatalf("provider error reported as malformed: %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestAssessDisputeMerit(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		string(prompts.PromptAssessDisputeMerit): `{"meritScore":65,"caseClassification":"Landlord/Tenant","suggestedAvenues":"File a T2 with the LTB","analysis":"Notice period looks short."}`,
	}}
	out, err := newRunner(f).AssessDisputeMerit(context.Background(), AssessDisputeMeritInput{
		CaseName: "notice", DisputeDetails: "Evidence classified as Eviction Notice", EvidenceText: "You must vacate by March 1",
	})
	if err != nil {
		t.Fatalf("AssessDisputeMerit: %v", err)
	}
	if out.Score() != 65 || out.CaseClassification != "Landlord/Tenant" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if !strings.Contains(f.calls[0].User, "You must vacate by March 1") {
		t.Fatalf("evidence text not in prompt")
	}
}

func TestSuggestLegalFormsDropsBlanks(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		string(prompts.PromptSuggestLegalForms): `{"suggestedForms":["T2 - Application about Tenant Rights"," ","T6"]}`,
	}}
	out, err := newRunner(f).SuggestLegalForms(context.Background(), SuggestLegalFormsInput{Classification: "Eviction Notice", Text: "vacate"})
	if err != nil {
		t.Fatalf("SuggestLegalForms: %v", err)
	}
	if diff := cmp.Diff([]string{"T2 - Application about Tenant Rights", "T6"}, out.SuggestedForms); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestLegalFormsEmptyListIsValid(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{string(prompts.PromptSuggestLegalForms): `{"suggestedForms":[]}`}}
	out, err := newRunner(f).SuggestLegalForms(context.Background(), SuggestLegalFormsInput{Classification: "Other", Text: "grocery list"})
	if err != nil {
		t.Fatalf("SuggestLegalForms: %v", err)
	}
	if out.SuggestedForms == nil || len(out.SuggestedForms) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", out.SuggestedForms)
	}
}

func TestFindCourtAndAidNormalizes(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		string(prompts.PromptFindCourtAndAid): `{
			"courthouse":{"name":"Landlord and Tenant Board","address":"15 Grosvenor St, Toronto","filingMethods":"Tribunals Ontario Portal","rulesLink":"not a link"},
			"legalAidClinics":[
				{"name":"A","address":"1 St","notes":null},
				{"name":"B","address":"2 St","notes":"tenant duty counsel"},
				{"name":"C","address":"3 St","notes":null},
				{"name":"D","address":"4 St","notes":null}
			]}`,
	}}
	out, err := newRunner(f).FindCourtAndAid(context.Background(), FindCourtAndAidInput{PostalCode: "m5v 2t6", CaseClassification: "Landlord/Tenant"})
	if err != nil {
		t.Fatalf("FindCourtAndAid: %v", err)
	}
	if len(out.LegalAidClinics) != 3 {
		t.Fatalf("expected 3 clinics, got %d", len(out.LegalAidClinics))
	}
	if out.Courthouse.RulesLink != "" {
		t.Fatalf("invalid rules link kept: %q", out.Courthouse.RulesLink)
	}
	if !strings.Contains(f.calls[0].User, "M5V 2T6") {
		t.Fatalf("postal code not normalized in prompt: %q", f.calls[0].User)
	}
}

func TestFindCourtMissingCourthouseIsMalformed(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		string(prompts.PromptFindCourtAndAid): `{"courthouse":{"name":"","address":"","filingMethods":"","rulesLink":null},"legalAidClinics":[]}`,
	}}
	_, err := newRunner(f).FindCourtAndAid(context.Background(), FindCourtAndAidInput{PostalCode: "K1A 0B1", CaseClassification: "Family"})
	var merr *MalformedResponseError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestAnalyzeCharterEmbedsReference(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		string(prompts.PromptAnalyzeCharter): `{"analysis":"Possible s. 8 issue.","relevantCharterSections":["8"]}`,
	}}
	out, err := newRunner(f).AnalyzeCharter(context.Background(), DocumentInput{DocumentText: "Officers searched the vehicle without a warrant."})
	if err != nil {
		t.Fatalf("AnalyzeCharter: %v", err)
	}
	if diff := cmp.Diff([]string{"8"}, out.RelevantCharterSections); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(f.calls[0].System, "unreasonable search or seizure") {
		t.Fatalf("charter text not embedded")
	}
}

func TestSummarizeLawUsesArea(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{string(prompts.PromptSummarizeLaw): `{"summary":"The RTA governs..."}`}}
	out, err := newRunner(f).SummarizeLaw(context.Background(), SummarizeLawInput{Area: "ltb", ProvinceOrTerritory: "Ontario"})
	if err != nil {
		t.Fatalf("SummarizeLaw: %v", err)
	}
	if out.Summary == "" {
		t.Fatalf("empty summary")
	}
	if !strings.Contains(f.calls[0].System, "Landlord and Tenant Board") {
		t.Fatalf("area title not in prompt: %q", f.calls[0].System)
	}
}

func TestTimelineAndPrecedents(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		string(prompts.PromptGenerateLegalTimeline): `{"timeline":[{"title":"File T2","description":"Submit online","expectedDuration":"1 day","forms":["T2"]},{"title":"Hearing","description":"Attend","expectedDuration":"2-3 months","forms":null}]}`,
		string(prompts.PromptFindPrecedents):        `{"precedentCases":[{"caseName":"A v B","citation":"2020 ONLTB 1","summary":"s","outcome":"o","legalTestApplied":"t"}],"outcomeAnalysis":"favourable"}`,
	}}
	r := newRunner(f)
	in := CaseDetailsInput{CaseClassification: "Landlord/Tenant", DisputeDetails: "No heat all winter"}
	tl, err := r.GenerateLegalTimeline(context.Background(), in)
	if err != nil {
		t.Fatalf("GenerateLegalTimeline: %v", err)
	}
	if len(tl.Timeline) != 2 || tl.Timeline[1].Forms != nil {
		t.Fatalf("unexpected timeline: %+v", tl)
	}
	pc, err := r.FindPrecedents(context.Background(), in)
	if err != nil {
		t.Fatalf("FindPrecedents: %v", err)
	}
	if len(pc.PrecedentCases) != 1 || pc.OutcomeAnalysis != "favourable" {
		t.Fatalf("unexpected precedents: %+v", pc)
	}
}

func TestConversationalChatTrimsHistory(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{string(prompts.PromptConversationalChat): `{"answer":" File a T2. "}`}}
	var history []ChatTurn
	for i := 0; i < 30; i++ {
		history = append(history, ChatTurn{Role: "user", Content: "turn"})
	}
	history[len(history)-1].Content = "latest turn"
	out, err := newRunner(f).ConversationalChat(context.Background(), ChatInput{
		Question:    "What should I do?",
		CaseContext: &CaseContext{CaseName: "Heat", MeritScore: 80},
		ChatHistory: history,
	})
	if err != nil {
		t.Fatalf("ConversationalChat: %v", err)
	}
	if out.Answer != "File a T2." {
		t.Fatalf("answer=%q", out.Answer)
	}
	user := f.calls[0].User
	if got := strings.Count(user, "User: "); got != maxChatHistory {
		t.Fatalf("expected %d history lines, got %d", maxChatHistory, got)
	}
	if !strings.Contains(user, "latest turn") || !strings.Contains(user, "Case name: Heat") {
		t.Fatalf("prompt missing latest turn or context: %q", user)
	}
}
