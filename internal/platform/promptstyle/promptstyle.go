package promptstyle

import "strings"

const marker = "JUSTICEBOT_PROMPT_STYLE_V1"

// ApplySystem prepends the shared guidance block to a system prompt. Applying it twice is a no-op.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou assist self-represented litigants in Canada with legal information.")
	b.WriteString("\nYou provide general legal information, not legal advice, and never claim to be a lawyer.")
	b.WriteString("\nUse the provided documents and facts as grounding; do not invent statutes, citations or case names.")
	b.WriteString("\nWhen jurisdiction matters and none is given, assume Ontario and say so.")
	if strings.EqualFold(strings.TrimSpace(mode), "json") {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nBe concise and plain-spoken.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
