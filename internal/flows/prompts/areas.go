package prompts

import "strings"

type LawArea struct {
	Key   string
	Title string
	Focus string
}

var lawAreas = map[string]LawArea{
	"ltb": {
		Key:   "ltb",
		Title: "Landlord and Tenant Board (LTB) law",
		Focus: "Write a concise summary a landlord or tenant can use to understand their rights and obligations.",
	},
	"family": {
		Key:   "family",
		Title: "family and child protection law",
		Focus: "Focus on what parents need to understand about their rights and obligations.",
	},
	"criminal": {
		Key:   "criminal",
		Title: "criminal law",
		Focus: "Write a concise and informative summary of the relevant criminal laws.",
	},
	"litigation": {
		Key:   "litigation",
		Title: "civil litigation and the Rules of Civil Procedure",
		Focus: "Cover starting a lawsuit, the discovery process, motions and trial preparation, for a self-represented litigant.",
	},
}

// LookupLawArea resolves a summary area key such as "ltb" or "family".
func LookupLawArea(key string) (LawArea, bool) {
	a, ok := lawAreas[strings.ToLower(strings.TrimSpace(key))]
	return a, ok
}

func LawAreaKeys() []string {
	return []string{"ltb", "family", "criminal", "litigation"}
}
