package llm

// BuildPayloadJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// model response must match. It constrains shape, not content: tables must be
// arrays of objects and the header must be an object, but individual cell
// values stay free-form since the multiplexer coerces them per column.
func BuildPayloadJSONSchema() map[string]any {
	rowArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "object"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"doc_type": map[string]any{"type": "string"},
			"header": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"raison_sociale":   map[string]any{"type": "string"},
					"matricule_fiscal": map[string]any{"type": "string"},
				},
			},
			"actes_societes":    rowArray,
			"biens_immobiliers": rowArray,
		},
		"required": []string{"doc_type", "header"},
	}
}
