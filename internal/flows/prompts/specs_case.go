package prompts

func registerCaseTools() {
	RegisterSpec(Spec{
		Name:       PromptFindCourtAndAid,
		Version:    1,
		SchemaName: "court_and_legal_aid",
		Schema:     FindCourtAndAidSchema,
		System: `
You help people in Canada find where to file their case.
Given a postal code and a case type:
- Identify the courthouse or tribunal that hears this type of case and the location nearest the postal code.
- Describe the filing methods it accepts (online portal, email, mail, in person).
- Give a link to the tribunal's rules or filing instructions when you know an official one; otherwise null.
- List up to 3 nearby legal aid clinics or community legal services that could help, with an optional note on what they offer.`,
		User: `
POSTAL_CODE:
{{.PostalCode}}

CASE_CLASSIFICATION:
{{.CaseClassification}}`,
		Validators: []Validator{
			RequireNonEmpty("postalCode", func(in Input) string { return in.PostalCode }),
			RequireNonEmpty("caseClassification", func(in Input) string { return in.CaseClassification }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptGenerateLegalTimeline,
		Version:    1,
		SchemaName: "legal_timeline",
		Schema:     LegalTimelineSchema,
		System: `
You lay out the procedural timeline of a Canadian legal case for a self-represented litigant.
Cover the path from filing through the hearing, and finish with the appeal or review window.
For each step give a short title, a plain-language description, the typical expected duration, and the forms involved (null when none).`,
		User: `
CASE_CLASSIFICATION:
{{.CaseClassification}}

DISPUTE_DETAILS:
{{.DisputeDetails}}`,
		Validators: []Validator{
			RequireNonEmpty("caseClassification", func(in Input) string { return in.CaseClassification }),
			RequireNonEmpty("disputeDetails", func(in Input) string { return in.DisputeDetails }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptFindPrecedents,
		Version:    1,
		SchemaName: "precedent_cases",
		Schema:     PrecedentsSchema,
		System: `
You research Canadian case law the way a CanLII search would.
Return 3 to 5 reported decisions that are relevant to the dispute. For each give the case name, the neutral citation,
a short summary of the facts, the outcome, and the legal test the decision-maker applied.
Then write an outcome analysis explaining what these precedents suggest for the dispute.
Only cite decisions you are confident exist.`,
		User: `
CASE_CLASSIFICATION:
{{.CaseClassification}}

DISPUTE_DETAILS:
{{.DisputeDetails}}`,
		Validators: []Validator{
			RequireNonEmpty("caseClassification", func(in Input) string { return in.CaseClassification }),
			RequireNonEmpty("disputeDetails", func(in Input) string { return in.DisputeDetails }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptExplainLegalDocument,
		Version:    1,
		SchemaName: "document_explanation",
		Schema:     ExplainDocumentSchema,
		System: `
You explain legal documents in plain language.
Split the document into its meaningful sections and, for each one, give the section title and an explanation
a person without legal training can follow. Point out deadlines, obligations and consequences.`,
		User: `
DOCUMENT_TEXT:
{{.DocumentText}}`,
		Validators: []Validator{
			RequireNonEmpty("documentText", func(in Input) string { return in.DocumentText }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptAnalyzeCharter,
		Version:    1,
		SchemaName: "charter_analysis",
		Schema:     CharterAnalysisSchema,
		System: `
You are an expert in the Canadian Charter of Rights and Freedoms.
Analyze the document for possible Charter issues. Use the reference text below when a section is engaged,
and list the section numbers you relied on (for example "7" or "2(b)") in relevantCharterSections.

CHARTER_REFERENCE:
{{.CharterSections}}`,
		User: `
DOCUMENT_TEXT:
{{.DocumentText}}`,
		Validators: []Validator{
			RequireNonEmpty("documentText", func(in Input) string { return in.DocumentText }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptSummarizeLaw,
		Version:    1,
		SchemaName: "law_summary",
		Schema:     SummarySchema,
		System: `
You are a legal expert in Canadian {{.AreaTitle}}.
{{.AreaFocus}}`,
		User: `
PROVINCE_OR_TERRITORY:
{{.ProvinceOrTerritory}}`,
		Validators: []Validator{
			RequireNonEmpty("area", func(in Input) string { return in.AreaTitle }),
			RequireNonEmpty("provinceOrTerritory", func(in Input) string { return in.ProvinceOrTerritory }),
		},
	})
}
