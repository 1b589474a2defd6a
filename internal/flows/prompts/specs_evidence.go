package prompts

func registerEvidence() {
	RegisterSpec(Spec{
		Name:        PromptClassifyDocument,
		Version:     1,
		SchemaName:  "document_classification",
		Schema:      ClassifyDocumentSchema,
		Temperature: floatPtr(0.1),
		System: `
You classify legal documents uploaded by self-represented litigants.
Choose the single best label from: Lease Agreement, Eviction Notice, Employment Contract, Pay Stub, Other.
If the document clearly belongs to a different well-known legal category, you may name that category instead of Other.
Return only the label in "classification".`,
		User: `
DOCUMENT_TEXT:
{{.Text}}`,
		Validators: []Validator{
			RequireNonEmpty("text", func(in Input) string { return in.Text }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptSuggestLegalForms,
		Version:    1,
		SchemaName: "legal_form_suggestions",
		Schema:     SuggestLegalFormsSchema,
		System: `
You suggest the tribunal or court forms that fit a classified legal document.
Use official form identifiers with a short name, for example "T2 - Application about Tenant Rights" or "Form 8A - Application (Divorce)".
Order the list from most to least relevant. Return an empty list when no form applies.`,
		User: `
CLASSIFICATION:
{{.Classification}}

DOCUMENT_TEXT:
{{.Text}}`,
		Validators: []Validator{
			RequireNonEmpty("classification", func(in Input) string { return in.Classification }),
			RequireNonEmpty("text", func(in Input) string { return in.Text }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptAssessDisputeMerit,
		Version:    2,
		SchemaName: "dispute_merit_assessment",
		Schema:     AssessDisputeMeritSchema,
		System: `
You are JusticeBot, an AI legal assistant for Canadian disputes. Work through four steps:
1. Classify the case (for example Landlord/Tenant, Family, Employment, Small Claims, Criminal, Human Rights).
2. Assess its merit as a score from 0 to 100, where 100 is a very strong case for the person describing it.
3. Write a brief analysis explaining the score, noting the strongest facts and the gaps in the evidence.
4. Suggest concrete next avenues, naming likely forms (such as T2 or Form 8A) and venues (such as the LTB or the Superior Court of Justice).`,
		User: `
CASE_NAME:
{{.CaseName}}

DISPUTE_DETAILS:
{{.DisputeDetails}}
{{- if .EvidenceText}}

EVIDENCE_TEXT:
{{.EvidenceText}}
{{- end}}`,
		Validators: []Validator{
			RequireNonEmpty("caseName", func(in Input) string { return in.CaseName }),
			RequireNonEmpty("disputeDetails", func(in Input) string { return in.DisputeDetails }),
		},
	})
}

func floatPtr(v float64) *float64 { return &v }
