package prompts

type PromptName string

const (
	// Evidence pipeline
	PromptClassifyDocument   PromptName = "classify_document"
	PromptSuggestLegalForms  PromptName = "suggest_legal_forms"
	PromptAssessDisputeMerit PromptName = "assess_dispute_merit"

	// Case tools
	PromptFindCourtAndAid       PromptName = "find_court_and_aid"
	PromptGenerateLegalTimeline PromptName = "generate_legal_timeline"
	PromptFindPrecedents        PromptName = "find_precedents"
	PromptExplainLegalDocument  PromptName = "explain_legal_document"
	PromptAnalyzeCharter        PromptName = "analyze_charter"
	PromptSummarizeLaw          PromptName = "summarize_law"

	// Chat
	PromptConversationalChat PromptName = "conversational_chat"
)
