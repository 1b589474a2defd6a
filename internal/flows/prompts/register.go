package prompts

func init() {
	registerEvidence()
	registerCaseTools()
	registerChat()
}
