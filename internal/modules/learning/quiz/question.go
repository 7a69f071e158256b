package quiz

import (
	"encoding/json"
	"errors"
	"sort"
)

type Type string

const (
	TypeFlashcard    Type = "flashcard"
	TypeFillBlank    Type = "fillBlank"
	TypeMatchingGame Type = "matchingGame"
)

// BlankMarker is the placeholder a fill-blank sentence must contain exactly once.
const BlankMarker = "____"

var (
	ErrNoValidQuestions   = errors.New("no valid questions")
	ErrIncompleteMatching = errors.New("every row must be matched before submitting")
	ErrInvalidTransition  = errors.New("invalid quiz transition")
	ErrUnknownChoice      = errors.New("choice is not one of the options")
	ErrWrongQuestionType  = errors.New("action does not apply to this question type")
)

// Question is one of *Flashcard, *FillBlank or *MatchingGame.
type Question interface {
	QuestionID() int
	Kind() Type
}

type Feedback struct {
	Correct   string `json:"correct,omitempty"`
	Incorrect string `json:"incorrect,omitempty"`
}

type Flashcard struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type FillBlank struct {
	ID            int       `json:"id"`
	Title         string    `json:"title,omitempty"`
	Instructions  string    `json:"instructions,omitempty"`
	Sentence      string    `json:"sentence"`
	Choices       []string  `json:"choices"`
	CorrectAnswer string    `json:"correctAnswer"`
	Feedback      *Feedback `json:"feedback,omitempty"`
}

type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type MatchingGame struct {
	ID           int       `json:"id"`
	Title        string    `json:"title,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	Pairs        []Pair    `json:"pairs"`
	Feedback     *Feedback `json:"feedback,omitempty"`
}

func (q *Flashcard) QuestionID() int    { return q.ID }
func (q *Flashcard) Kind() Type         { return TypeFlashcard }
func (q *FillBlank) QuestionID() int    { return q.ID }
func (q *FillBlank) Kind() Type         { return TypeFillBlank }
func (q *MatchingGame) QuestionID() int { return q.ID }
func (q *MatchingGame) Kind() Type      { return TypeMatchingGame }

func (q *Flashcard) MarshalJSON() ([]byte, error) {
	type alias Flashcard
	return json.Marshal(struct {
		Type Type `json:"type"`
		*alias
	}{TypeFlashcard, (*alias)(q)})
}

func (q *FillBlank) MarshalJSON() ([]byte, error) {
	type alias FillBlank
	return json.Marshal(struct {
		Type Type `json:"type"`
		*alias
	}{TypeFillBlank, (*alias)(q)})
}

func (q *MatchingGame) MarshalJSON() ([]byte, error) {
	type alias MatchingGame
	return json.Marshal(struct {
		Type Type `json:"type"`
		*alias
	}{TypeMatchingGame, (*alias)(q)})
}

// Grade checks a single-choice answer. Matching questions use Check.
func Grade(q Question, answer string) (bool, error) {
	switch v := q.(type) {
	case *Flashcard:
		if !contains(v.Choices, answer) {
			return false, ErrUnknownChoice
		}
		return answer == v.CorrectAnswer, nil
	case *FillBlank:
		if !contains(v.Choices, answer) {
			return false, ErrUnknownChoice
		}
		return answer == v.CorrectAnswer, nil
	default:
		return false, ErrWrongQuestionType
	}
}

// Choices returns the selectable options of a single-choice question.
func Choices(q Question) []string {
	switch v := q.(type) {
	case *Flashcard:
		return v.Choices
	case *FillBlank:
		return v.Choices
	}
	return nil
}

// Check returns the row indexes whose assigned right-hand value is wrong or missing.
func (q *MatchingGame) Check(assignments map[int]string) []int {
	var wrong []int
	for i, p := range q.Pairs {
		if got, ok := assignments[i]; !ok || got != p.Right {
			wrong = append(wrong, i)
		}
	}
	return wrong
}

// Rights lists the right-hand values in a stable order that does not reveal pairing.
func (q *MatchingGame) Rights() []string {
	out := make([]string, 0, len(q.Pairs))
	for _, p := range q.Pairs {
		out = append(out, p.Right)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
