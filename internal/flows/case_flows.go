package flows

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
)

const maxLegalAidClinics = 3

func (r *Runner) FindCourtAndAid(ctx context.Context, in FindCourtAndAidInput) (FindCourtAndAidOutput, error) {
	return run(ctx, r, prompts.PromptFindCourtAndAid, prompts.Input{
		PostalCode:         strings.ToUpper(strings.TrimSpace(in.PostalCode)),
		CaseClassification: strings.TrimSpace(in.CaseClassification),
	}, func(o *FindCourtAndAidOutput) {
		if !isHTTPURL(o.Courthouse.RulesLink) {
			o.Courthouse.RulesLink = ""
		}
		if len(o.LegalAidClinics) > maxLegalAidClinics {
			o.LegalAidClinics = o.LegalAidClinics[:maxLegalAidClinics]
		}
	})
}

func (r *Runner) GenerateLegalTimeline(ctx context.Context, in CaseDetailsInput) (LegalTimelineOutput, error) {
	return run[LegalTimelineOutput](ctx, r, prompts.PromptGenerateLegalTimeline, caseDetails(in), nil)
}

func (r *Runner) FindPrecedents(ctx context.Context, in CaseDetailsInput) (PrecedentsOutput, error) {
	return run[PrecedentsOutput](ctx, r, prompts.PromptFindPrecedents, caseDetails(in), nil)
}

func (r *Runner) ExplainLegalDocument(ctx context.Context, in DocumentInput) (ExplainDocumentOutput, error) {
	return run[ExplainDocumentOutput](ctx, r, prompts.PromptExplainLegalDocument, prompts.Input{DocumentText: clip(in.DocumentText)}, nil)
}

func (r *Runner) AnalyzeCharter(ctx context.Context, in DocumentInput) (CharterAnalysisOutput, error) {
	return run[CharterAnalysisOutput](ctx, r, prompts.PromptAnalyzeCharter, prompts.Input{
		DocumentText:    clip(in.DocumentText),
		CharterSections: prompts.CharterReference(),
	}, nil)
}

func (r *Runner) SummarizeLaw(ctx context.Context, in SummarizeLawInput) (SummaryOutput, error) {
	area, ok := prompts.LookupLawArea(in.Area)
	if !ok {
		return SummaryOutput{}, fmt.Errorf("%w: unknown area %q", ErrInvalidInput, in.Area)
	}
	return run[SummaryOutput](ctx, r, prompts.PromptSummarizeLaw, prompts.Input{
		AreaTitle:           area.Title,
		AreaFocus:           area.Focus,
		ProvinceOrTerritory: strings.TrimSpace(in.ProvinceOrTerritory),
	}, nil)
}

func caseDetails(in CaseDetailsInput) prompts.Input {
	return prompts.Input{
		CaseClassification: strings.TrimSpace(in.CaseClassification),
		DisputeDetails:     clip(in.DisputeDetails),
	}
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
