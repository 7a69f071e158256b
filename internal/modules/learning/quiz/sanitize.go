package quiz

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	minChoices = 3
	maxChoices = 6
	minPairs   = 3
	maxPairs   = 8
)

var typeAliases = map[string]Type{
	"flashcard":     TypeFlashcard,
	"fillblank":     TypeFillBlank,
	"fill_blank":    TypeFillBlank,
	"fill-blank":    TypeFillBlank,
	"matchinggame":  TypeMatchingGame,
	"matching_game": TypeMatchingGame,
	"matching-game": TypeMatchingGame,
	"matching":      TypeMatchingGame,
}

// SanitizeAll keeps the well-formed subset of raw, in order. Callers must
// treat an empty result as ErrNoValidQuestions.
func SanitizeAll(raw []any) []Question {
	out := make([]Question, 0, len(raw))
	for i, item := range raw {
		if q, ok := Sanitize(item, i); ok {
			out = append(out, q)
		}
	}
	return out
}

// SanitizeJSON accepts a JSON array of questions or {"questions": [...]}.
func SanitizeJSON(raw []byte) []Question {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return SanitizeAll(t)
	case map[string]any:
		if inner, ok := t["questions"].([]any); ok {
			return SanitizeAll(inner)
		}
	}
	return nil
}

// Sanitize validates one raw item. index is its position and supplies the id
// (index+1) when the item carries no numeric one.
func Sanitize(raw any, index int) (Question, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	id, ok := questionID(m["id"], index)
	if !ok {
		return nil, false
	}

	switch questionType(m) {
	case TypeFlashcard:
		question := str(m["question"])
		choices := cleanChoices(m["choices"])
		answer := str(m["correctAnswer"])
		if question == "" || len(choices) < minChoices || answer == "" || !contains(choices, answer) {
			return nil, false
		}
		return &Flashcard{ID: id, Question: question, Choices: choices, CorrectAnswer: answer}, true

	case TypeFillBlank:
		sentence := str(m["sentence"])
		choices := cleanChoices(m["choices"])
		answer := str(m["correctAnswer"])
		if strings.Count(sentence, BlankMarker) != 1 {
			return nil, false
		}
		if len(choices) < minChoices || answer == "" || !contains(choices, answer) {
			return nil, false
		}
		return &FillBlank{
			ID:            id,
			Title:         str(m["title"]),
			Instructions:  str(m["instructions"]),
			Sentence:      sentence,
			Choices:       choices,
			CorrectAnswer: answer,
			Feedback:      feedback(m["feedback"]),
		}, true

	case TypeMatchingGame:
		pairs := cleanPairs(m["pairs"])
		if len(pairs) < minPairs {
			return nil, false
		}
		return &MatchingGame{
			ID:           id,
			Title:        str(m["title"]),
			Instructions: str(m["instructions"]),
			Pairs:        pairs,
			Feedback:     feedback(m["feedback"]),
		}, true
	}
	return nil, false
}

func questionType(m map[string]any) Type {
	if s, ok := m["type"].(string); ok && strings.TrimSpace(s) != "" {
		return typeAliases[strings.ToLower(strings.TrimSpace(s))]
	}
	switch {
	case m["pairs"] != nil:
		return TypeMatchingGame
	case m["sentence"] != nil:
		return TypeFillBlank
	case m["question"] != nil:
		return TypeFlashcard
	}
	return ""
}

func questionID(v any, index int) (int, bool) {
	id := index + 1
	switch t := v.(type) {
	case float64:
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			id = int(t)
		}
	case int:
		id = t
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			id = int(n)
		}
	}
	return id, id > 0
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func cleanChoices(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s := str(item)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxChoices {
			break
		}
	}
	return out
}

func cleanPairs(v any) []Pair {
	arr, _ := v.([]any)
	out := make([]Pair, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		left, right := str(m["left"]), str(m["right"])
		if left == "" || right == "" {
			continue
		}
		out = append(out, Pair{Left: left, Right: right})
		if len(out) == maxPairs {
			break
		}
	}
	return out
}

func feedback(v any) *Feedback {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	fb := &Feedback{Correct: str(m["correct"]), Incorrect: str(m["incorrect"])}
	if fb.Correct == "" && fb.Incorrect == "" {
		return nil
	}
	return fb
}

// ToRaw converts typed questions back into the generic shape generation
// endpoints and stored section data use.
func ToRaw(qs []Question) []any {
	b, err := json.Marshal(qs)
	if err != nil {
		return nil
	}
	var out []any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
