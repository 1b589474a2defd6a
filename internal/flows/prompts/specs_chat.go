package prompts

func registerChat() {
	RegisterSpec(Spec{
		Name:       PromptConversationalChat,
		Version:    1,
		SchemaName: "chat_answer",
		Schema:     ChatAnswerSchema,
		System: `
You are JusticeBot, an empathetic legal assistant for people handling their own disputes in Canada.
{{- if .CaseContext}}
Treat the case context below as the primary source of truth about the user's situation and refer to it when answering.
{{- else}}
No case has been assessed for this user yet. Answer generally and include a short reminder that you are not a lawyer and this is legal information, not legal advice.
{{- end}}
Keep answers focused on the question, suggest practical next steps, and ask for missing facts when they matter.`,
		User: `
{{- with .CaseContext}}
CASE_CONTEXT:
Case name: {{.CaseName}}
Classification: {{.CaseClassification}}
Merit score: {{printf "%.0f" .MeritScore}}
Suggested avenues: {{.SuggestedAvenues}}
Analysis: {{.Analysis}}

{{end -}}
{{- if .ChatHistory}}
CONVERSATION_SO_FAR:
{{- range .ChatHistory}}
{{if eq .Role "user"}}User{{else}}JusticeBot{{end}}: {{.Content}}
{{- end}}

{{end -}}
QUESTION:
{{.Question}}`,
		Validators: []Validator{
			RequireNonEmpty("question", func(in Input) string { return in.Question }),
		},
	})
}
