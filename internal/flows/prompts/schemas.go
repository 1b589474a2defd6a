package prompts

import "sort"

// Schemas follow the strict structured-output rules both providers accept:
// every object closes additionalProperties and lists all of its properties as required.
// Optional values are expressed as nullable types.

func StringSchema() map[string]any { return map[string]any{"type": "string"} }

func StringOrNullSchema() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func NumberSchema() map[string]any { return map[string]any{"type": "number"} }

func StringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": StringSchema()}
}

func StringArrayOrNullSchema() map[string]any {
	return map[string]any{"type": []any{"array", "null"}, "items": StringSchema()}
}

func ArraySchema(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

// ObjectSchema builds a closed object requiring every listed property.
func ObjectSchema(props map[string]any) map[string]any {
	required := make([]any, 0, len(props))
	for _, k := range sortedKeys(props) {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func ClassifyDocumentSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"classification": StringSchema(),
	})
}

func SuggestLegalFormsSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"suggestedForms": StringArraySchema(),
	})
}

func AssessDisputeMeritSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"meritScore":         map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		"caseClassification": StringSchema(),
		"suggestedAvenues":   StringSchema(),
		"analysis":           StringSchema(),
	})
}

func FindCourtAndAidSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"courthouse": ObjectSchema(map[string]any{
			"name":          StringSchema(),
			"address":       StringSchema(),
			"filingMethods": StringSchema(),
			"rulesLink":     StringOrNullSchema(),
		}),
		"legalAidClinics": map[string]any{
			"type":     "array",
			"maxItems": 3,
			"items": ObjectSchema(map[string]any{
				"name":    StringSchema(),
				"address": StringSchema(),
				"notes":   StringOrNullSchema(),
			}),
		},
	})
}

func LegalTimelineSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"timeline": ArraySchema(ObjectSchema(map[string]any{
			"title":            StringSchema(),
			"description":      StringSchema(),
			"expectedDuration": StringSchema(),
			"forms":            StringArrayOrNullSchema(),
		})),
	})
}

func PrecedentsSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"precedentCases": ArraySchema(ObjectSchema(map[string]any{
			"caseName":         StringSchema(),
			"citation":         StringSchema(),
			"summary":          StringSchema(),
			"outcome":          StringSchema(),
			"legalTestApplied": StringSchema(),
		})),
		"outcomeAnalysis": StringSchema(),
	})
}

func ExplainDocumentSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"explanations": ArraySchema(ObjectSchema(map[string]any{
			"sectionTitle": StringSchema(),
			"explanation":  StringSchema(),
		})),
	})
}

func CharterAnalysisSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"analysis":                StringSchema(),
		"relevantCharterSections": StringArraySchema(),
	})
}

func SummarySchema() map[string]any {
	return ObjectSchema(map[string]any{
		"summary": StringSchema(),
	})
}

func ChatAnswerSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"answer": StringSchema(),
	})
}
