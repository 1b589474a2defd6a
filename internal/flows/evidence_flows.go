package flows

import (
	"context"
	"strings"

	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
)

func (r *Runner) ClassifyDocument(ctx context.Context, in ClassifyDocumentInput) (ClassifyDocumentOutput, error) {
	return run(ctx, r, prompts.PromptClassifyDocument, prompts.Input{Text: clip(in.Text)},
		func(o *ClassifyDocumentOutput) { o.Classification = strings.TrimSpace(o.Classification) })
}

func (r *Runner) SuggestLegalForms(ctx context.Context, in SuggestLegalFormsInput) (SuggestLegalFormsOutput, error) {
	return run(ctx, r, prompts.PromptSuggestLegalForms, prompts.Input{
		Classification: strings.TrimSpace(in.Classification),
		Text:           clip(in.Text),
	}, func(o *SuggestLegalFormsOutput) {
		if o.SuggestedForms == nil {
			return
		}
		forms := o.SuggestedForms[:0]
		for _, f := range o.SuggestedForms {
			if f = strings.TrimSpace(f); f != "" {
				forms = append(forms, f)
			}
		}
		o.SuggestedForms = forms
	})
}

func (r *Runner) AssessDisputeMerit(ctx context.Context, in AssessDisputeMeritInput) (AssessDisputeMeritOutput, error) {
	return run[AssessDisputeMeritOutput](ctx, r, prompts.PromptAssessDisputeMerit, prompts.Input{
		CaseName:       strings.TrimSpace(in.CaseName),
		DisputeDetails: clip(in.DisputeDetails),
		EvidenceText:   clip(in.EvidenceText),
	}, nil)
}
