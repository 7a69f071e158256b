package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type fakeAI struct {
	obj    map[string]any
	err    error
	system string
	user   string
	schema string
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.system, f.user, f.schema = system, user, schemaName
	return f.obj, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func section() SectionContext {
	return SectionContext{SectionID: uuid.New(), CourseTitle: "Go", Title: "Channels", Transcript: "Channels connect goroutines."}
}

func TestGenerateQuestionsReturnsRawItems(t *testing.T) {
	ai := &fakeAI{obj: map[string]any{"questions": []any{
		map[string]any{"id": 1.0, "type": "flashcard", "question": "What connects goroutines?",
			"choices": []any{"channels", "maps", "slices"}, "correctAnswer": "channels",
			"sentence": "", "pairs": []any{}, "title": "", "instructions": "",
			"feedback": map[string]any{"correct": "", "incorrect": ""}},
		map[string]any{"id": 2.0, "type": "fillBlank", "sentence": "no marker",
			"choices": []any{"a", "b", "c"}, "correctAnswer": "a"},
	}}}
	svc := NewService(testLogger(t), ai)
	items, err := svc.GenerateQuestions(context.Background(), section(), 0)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected raw items untouched, got %d", len(items))
	}
	if got := quiz.SanitizeAll(items); len(got) != 1 {
		t.Fatalf("expected sanitizer to keep 1, got %d", len(got))
	}
	if !strings.Contains(ai.user, "QUESTION_COUNT: 5") || !strings.Contains(ai.user, "Channels connect goroutines.") {
		t.Fatalf("prompt missing count or context: %s", ai.user)
	}
	if ai.schema != "section_questions_v1" {
		t.Fatalf("unexpected schema %s", ai.schema)
	}
}

func TestRegenerateSendsPreviousQuestions(t *testing.T) {
	ai := &fakeAI{obj: map[string]any{"questions": []any{}}}
	svc := NewService(testLogger(t), ai)
	prev := quiz.ToRaw([]quiz.Question{
		&quiz.Flashcard{ID: 1, Question: "What is a buffered channel?", Choices: []string{"a", "b", "c"}, CorrectAnswer: "a"},
	})
	items, err := svc.RegenerateQuestions(context.Background(), section(), prev, 0)
	if err != nil {
		t.Fatalf("RegenerateQuestions: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result passthrough")
	}
	if !strings.Contains(ai.user, "PREVIOUS_QUESTIONS") || !strings.Contains(ai.user, "What is a buffered channel?") {
		t.Fatalf("previous set not in prompt: %s", ai.user)
	}
	if !strings.Contains(ai.user, "QUESTION_COUNT: 1") {
		t.Fatalf("expected count to follow previous set size")
	}
}

func TestChapterFlashcard(t *testing.T) {
	ai := &fakeAI{obj: map[string]any{"flashcard": map[string]any{
		"question": "q", "choices": []any{"a", "b", "c"}, "correctAnswer": "b",
	}}}
	svc := NewService(testLogger(t), ai)
	d := 30.0
	fc, err := svc.GenerateChapterFlashcard(context.Background(), section(), ChapterSpan{Title: "Intro", StartTime: 60, Duration: &d})
	if err != nil {
		t.Fatalf("GenerateChapterFlashcard: %v", err)
	}
	if fc["type"] != "flashcard" {
		t.Fatalf("expected type to be filled in: %v", fc)
	}
	if _, ok := quiz.Sanitize(fc, 0); !ok {
		t.Fatalf("expected generated flashcard to sanitize")
	}
	if !strings.Contains(ai.user, "START_SECONDS: 60.0") || !strings.Contains(ai.user, "END_SECONDS: 90.0") {
		t.Fatalf("prompt missing span: %s", ai.user)
	}
}

func TestGenerationErrorsPropagate(t *testing.T) {
	boom := errors.New("upstream down")
	svc := NewService(testLogger(t), &fakeAI{err: boom})
	if _, err := svc.GenerateQuestions(context.Background(), section(), 3); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
	if _, err := NewService(testLogger(t), nil).GenerateQuestions(context.Background(), section(), 3); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSectionBlockTruncatesTranscriptOnRuneBoundary(t *testing.T) {
	sec := section()
	sec.Transcript = "a" + strings.Repeat("é", maxTranscriptChars)
	block := sectionBlock(sec)
	if !utf8.ValidString(block) {
		t.Fatalf("transcript cut split a character")
	}
	_, after, _ := strings.Cut(block, "Transcript:\n")
	body := strings.TrimSuffix(after, "\n")
	if len(body) > maxTranscriptChars || len(body) < maxTranscriptChars-1 {
		t.Fatalf("unexpected transcript length %d", len(body))
	}
	if got := truncateUTF8("héllo", 2); got != "h" {
		t.Fatalf("truncateUTF8 = %q", got)
	}
}
