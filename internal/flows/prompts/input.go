package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Evidence
	Text           string
	Classification string

	// Dispute
	CaseName           string
	DisputeDetails     string
	EvidenceText       string
	CaseClassification string
	PostalCode         string

	// Documents
	DocumentText    string
	CharterSections string

	// Law summaries
	AreaTitle           string
	AreaFocus           string
	ProvinceOrTerritory string

	// Chat
	Question    string
	CaseContext *CaseContext
	ChatHistory []ChatTurn
}

type CaseContext struct {
	CaseName           string
	CaseClassification string
	MeritScore         float64
	SuggestedAvenues   string
	Analysis           string
}

type ChatTurn struct {
	Role    string
	Content string
}
