package flows

type ClassifyDocumentInput struct {
	Text string `json:"text" binding:"required"`
}

type ClassifyDocumentOutput struct {
	Classification string `json:"classification" validate:"required"`
}

type SuggestLegalFormsInput struct {
	Classification string `json:"classification" binding:"required"`
	Text           string `json:"text" binding:"required"`
}

type SuggestLegalFormsOutput struct {
	SuggestedForms []string `json:"suggestedForms" validate:"required,dive,required"`
}

type AssessDisputeMeritInput struct {
	CaseName       string `json:"caseName" binding:"required"`
	DisputeDetails string `json:"disputeDetails" binding:"required"`
	EvidenceText   string `json:"evidenceText,omitempty"`
}

type AssessDisputeMeritOutput struct {
	MeritScore         *float64 `json:"meritScore" validate:"required,gte=0,lte=100"`
	CaseClassification string   `json:"caseClassification" validate:"required"`
	SuggestedAvenues   string   `json:"suggestedAvenues" validate:"required"`
	Analysis           string   `json:"analysis" validate:"required"`
}

// Score returns the merit score; validated outputs always carry one.
func (o AssessDisputeMeritOutput) Score() float64 {
	if o.MeritScore == nil {
		return 0
	}
	return *o.MeritScore
}

type FindCourtAndAidInput struct {
	PostalCode         string `json:"postalCode" binding:"required"`
	CaseClassification string `json:"caseClassification" binding:"required"`
}

type Courthouse struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address" validate:"required"`
	FilingMethods string `json:"filingMethods" validate:"required"`
	RulesLink     string `json:"rulesLink,omitempty" validate:"omitempty,url"`
}

type LegalAidClinic struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Notes   string `json:"notes,omitempty"`
}

type FindCourtAndAidOutput struct {
	Courthouse      Courthouse       `json:"courthouse"`
	LegalAidClinics []LegalAidClinic `json:"legalAidClinics" validate:"max=3,dive"`
}

type CaseDetailsInput struct {
	CaseClassification string `json:"caseClassification" binding:"required"`
	DisputeDetails     string `json:"disputeDetails" binding:"required"`
}

type TimelineStep struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	ExpectedDuration string   `json:"expectedDuration" validate:"required"`
	Forms            []string `json:"forms,omitempty"`
}

type LegalTimelineOutput struct {
	Timeline []TimelineStep `json:"timeline" validate:"required,min=1,dive"`
}

type PrecedentCase struct {
	CaseName         string `json:"caseName" validate:"required"`
	Citation         string `json:"citation" validate:"required"`
	Summary          string `json:"summary" validate:"required"`
	Outcome          string `json:"outcome" validate:"required"`
	LegalTestApplied string `json:"legalTestApplied" validate:"required"`
}

type PrecedentsOutput struct {
	PrecedentCases  []PrecedentCase `json:"precedentCases" validate:"required,dive"`
	OutcomeAnalysis string          `json:"outcomeAnalysis" validate:"required"`
}

type DocumentInput struct {
	DocumentText string `json:"documentText" binding:"required"`
}

type SectionExplanation struct {
	SectionTitle string `json:"sectionTitle" validate:"required"`
	Explanation  string `json:"explanation" validate:"required"`
}

type ExplainDocumentOutput struct {
	Explanations []SectionExplanation `json:"explanations" validate:"required,min=1,dive"`
}

type CharterAnalysisOutput struct {
	Analysis                string   `json:"analysis" validate:"required"`
	RelevantCharterSections []string `json:"relevantCharterSections" validate:"required"`
}

type SummarizeLawInput struct {
	Area                string `json:"area" binding:"required,oneof=ltb family criminal litigation"`
	ProvinceOrTerritory string `json:"provinceOrTerritory" binding:"required"`
}

type SummaryOutput struct {
	Summary string `json:"summary" validate:"required"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CaseContext struct {
	CaseName           string  `json:"caseName"`
	CaseClassification string  `json:"caseClassification"`
	MeritScore         float64 `json:"meritScore"`
	SuggestedAvenues   string  `json:"suggestedAvenues"`
	Analysis           string  `json:"analysis"`
}

type ChatInput struct {
	Question    string       `json:"question"`
	CaseContext *CaseContext `json:"caseContext,omitempty"`
	ChatHistory []ChatTurn   `json:"chatHistory,omitempty"`
}

type ChatOutput struct {
	Answer string `json:"answer" validate:"required"`
}
