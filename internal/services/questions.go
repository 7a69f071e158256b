package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/data/repos"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/generation"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/apierr"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

// QuestionService backs the generation endpoints. Raw model output is
// sanitized here; an empty valid set is returned as-is for the caller to
// surface as "no valid questions".
type QuestionService interface {
	Generate(ctx context.Context, sectionID uuid.UUID, count int) ([]quiz.Question, error)
	Regenerate(ctx context.Context, sectionID uuid.UUID, previous []any, count int) ([]quiz.Question, error)
	ChapterFlashcard(ctx context.Context, sectionID uuid.UUID, span generation.ChapterSpan) (*quiz.Flashcard, error)
}

type questionService struct {
	log      *logger.Logger
	gen      generation.Service
	courses  repos.CourseRepo
	sections repos.SectionRepo
}

func NewQuestionService(baseLog *logger.Logger, gen generation.Service, courses repos.CourseRepo, sections repos.SectionRepo) QuestionService {
	return &questionService{
		log:      baseLog.With("service", "QuestionService"),
		gen:      gen,
		courses:  courses,
		sections: sections,
	}
}

func (s *questionService) sectionContext(ctx context.Context, sectionID uuid.UUID) (generation.SectionContext, error) {
	if sectionID == uuid.Nil {
		return generation.SectionContext{}, apierr.New(http.StatusBadRequest, "invalid_section_id", nil)
	}
	sec, err := s.sections.GetByID(ctx, nil, sectionID)
	if err != nil {
		return generation.SectionContext{}, apierr.New(http.StatusInternalServerError, "section_load_failed", err)
	}
	if sec == nil {
		return generation.SectionContext{}, apierr.New(http.StatusNotFound, "section_not_found", nil)
	}
	out := generation.SectionContext{
		SectionID:   sec.ID,
		Title:       sec.Title,
		Description: sec.Description,
		Transcript:  sec.Transcript,
	}
	if course, err := s.courses.GetByID(ctx, nil, sec.CourseID); err == nil && course != nil {
		out.CourseTitle = course.Title
	}
	return out, nil
}

func (s *questionService) generationError(err error) error {
	if errors.Is(err, generation.ErrNotConfigured) {
		return apierr.New(http.StatusInternalServerError, "generation_not_configured", err)
	}
	return apierr.New(http.StatusBadGateway, "question_generation_failed", err)
}

func (s *questionService) Generate(ctx context.Context, sectionID uuid.UUID, count int) ([]quiz.Question, error) {
	sc, err := s.sectionContext(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateQuestions(ctx, sc, count)
	if err != nil {
		return nil, s.generationError(err)
	}
	qs := quiz.SanitizeAll(raw)
	if dropped := len(raw) - len(qs); dropped > 0 {
		s.log.Debug("dropped malformed generated questions", "section_id", sectionID.String(), "dropped", dropped)
	}
	return qs, nil
}

func (s *questionService) Regenerate(ctx context.Context, sectionID uuid.UUID, previous []any, count int) ([]quiz.Question, error) {
	sc, err := s.sectionContext(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.RegenerateQuestions(ctx, sc, previous, count)
	if err != nil {
		return nil, s.generationError(err)
	}
	return quiz.SanitizeAll(raw), nil
}

func (s *questionService) ChapterFlashcard(ctx context.Context, sectionID uuid.UUID, span generation.ChapterSpan) (*quiz.Flashcard, error) {
	sc, err := s.sectionContext(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateChapterFlashcard(ctx, sc, span)
	if err != nil {
		return nil, s.generationError(err)
	}
	q, ok := quiz.Sanitize(raw, 0)
	fc, isCard := q.(*quiz.Flashcard)
	if !ok || !isCard {
		return nil, apierr.New(http.StatusUnprocessableEntity, "no_valid_questions", quiz.ErrNoValidQuestions)
	}
	return fc, nil
}
