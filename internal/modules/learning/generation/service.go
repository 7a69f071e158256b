// Package generation asks the LLM for quiz material. Everything it returns is
// raw and must go through quiz.Sanitize before it is shown.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/platform/openai"
)

const (
	DefaultQuestionCount = 5
	maxQuestionCount     = 10
)

var ErrNotConfigured = errors.New("question generation not configured")

// SectionContext is what the model is allowed to draw questions from.
type SectionContext struct {
	SectionID   uuid.UUID
	CourseTitle string
	Title       string
	Description string
	Transcript  string
}

// ChapterSpan identifies the stretch of video a chapter flashcard covers.
type ChapterSpan struct {
	Title     string
	StartTime float64
	Duration  *float64
}

type Service interface {
	GenerateQuestions(ctx context.Context, sec SectionContext, count int) ([]any, error)
	RegenerateQuestions(ctx context.Context, sec SectionContext, previous []any, count int) ([]any, error)
	GenerateChapterFlashcard(ctx context.Context, sec SectionContext, span ChapterSpan) (map[string]any, error)
}

type service struct {
	log *logger.Logger
	ai  openai.Client
}

func NewService(log *logger.Logger, ai openai.Client) Service {
	return &service{log: log.With("service", "QuestionGenerator"), ai: ai}
}

func clampCount(n int) int {
	if n <= 0 {
		return DefaultQuestionCount
	}
	if n > maxQuestionCount {
		return maxQuestionCount
	}
	return n
}

func (s *service) GenerateQuestions(ctx context.Context, sec SectionContext, count int) ([]any, error) {
	if s.ai == nil {
		return nil, ErrNotConfigured
	}
	sys, usr := promptQuestionSet(sec, clampCount(count))
	obj, err := s.ai.GenerateJSON(ctx, sys, usr, "section_questions_v1", schemaQuestionSetV1())
	if err != nil {
		s.log.Warn("question generation failed", "section_id", sec.SectionID.String(), "error", err)
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	items, _ := obj["questions"].([]any)
	s.log.Debug("questions generated", "section_id", sec.SectionID.String(), "count", len(items))
	return items, nil
}

func (s *service) RegenerateQuestions(ctx context.Context, sec SectionContext, previous []any, count int) ([]any, error) {
	if s.ai == nil {
		return nil, ErrNotConfigured
	}
	if count <= 0 && len(previous) > 0 {
		count = len(previous)
	}
	sys, usr := promptReplacementSet(sec, previous, clampCount(count))
	obj, err := s.ai.GenerateJSON(ctx, sys, usr, "section_questions_replacement_v1", schemaQuestionSetV1())
	if err != nil {
		s.log.Warn("replacement generation failed", "section_id", sec.SectionID.String(), "error", err)
		return nil, fmt.Errorf("regenerate questions: %w", err)
	}
	items, _ := obj["questions"].([]any)
	return items, nil
}

func (s *service) GenerateChapterFlashcard(ctx context.Context, sec SectionContext, span ChapterSpan) (map[string]any, error) {
	if s.ai == nil {
		return nil, ErrNotConfigured
	}
	sys, usr := promptChapterFlashcard(sec, span)
	obj, err := s.ai.GenerateJSON(ctx, sys, usr, "chapter_flashcard_v1", schemaChapterFlashcardV1())
	if err != nil {
		s.log.Warn("chapter flashcard generation failed",
			"section_id", sec.SectionID.String(), "start_time", span.StartTime, "error", err)
		return nil, fmt.Errorf("generate chapter flashcard: %w", err)
	}
	fc, ok := obj["flashcard"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("generate chapter flashcard: missing flashcard in response")
	}
	if _, has := fc["type"]; !has {
		fc["type"] = "flashcard"
	}
	return fc, nil
}
