package generation

// Strict json_schema requires every property to be listed in required and
// additionalProperties=false, so unused per-type fields come back empty and
// the sanitizer drops what does not fit the declared type.

func feedbackSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct":   map[string]any{"type": "string"},
			"incorrect": map[string]any{"type": "string"},
		},
		"required":             []string{"correct", "incorrect"},
		"additionalProperties": false,
	}
}

func pairSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"left":  map[string]any{"type": "string"},
			"right": map[string]any{"type": "string"},
		},
		"required":             []string{"left", "right"},
		"additionalProperties": false,
	}
}

func questionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":            map[string]any{"type": "integer"},
			"type":          map[string]any{"type": "string", "enum": []any{"flashcard", "fillBlank", "matchingGame"}},
			"title":         map[string]any{"type": "string"},
			"instructions":  map[string]any{"type": "string"},
			"question":      map[string]any{"type": "string"},
			"sentence":      map[string]any{"type": "string"},
			"choices":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"correctAnswer": map[string]any{"type": "string"},
			"pairs":         map[string]any{"type": "array", "items": pairSchema()},
			"feedback":      feedbackSchema(),
		},
		"required": []string{
			"id", "type", "title", "instructions", "question", "sentence",
			"choices", "correctAnswer", "pairs", "feedback",
		},
		"additionalProperties": false,
	}
}

func schemaQuestionSetV1() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{"type": "array", "items": questionSchema()},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	}
}

func schemaChapterFlashcardV1() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcard": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question":      map[string]any{"type": "string"},
					"choices":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"correctAnswer": map[string]any{"type": "string"},
				},
				"required":             []string{"question", "choices", "correctAnswer"},
				"additionalProperties": false,
			},
		},
		"required":             []string{"flashcard"},
		"additionalProperties": false,
	}
}
