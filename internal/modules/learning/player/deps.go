package player

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/modules/learning/chapters"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/clock"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrUnknownChapter    = errors.New("unknown chapter")
	ErrSessionNotFound   = errors.New("playback session not found")
	ErrSessionExpired    = errors.New("playback session expired")
)

type TokenIssuer interface {
	IssueToken(ctx context.Context, videoID string) (drm.PlaybackToken, error)
}

type ProgressWrite struct {
	CourseID   uuid.UUID
	SectionID  uuid.UUID
	Percentage int
	QuizScore  *int
	QuizPassed *bool
}

type ProgressWriter interface {
	SaveProgress(ctx context.Context, w ProgressWrite) error
}

// QuestionSource returns raw generated items; the orchestrator sanitizes them.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, sectionID uuid.UUID) ([]any, error)
	RegenerateQuestions(ctx context.Context, sectionID uuid.UUID, previous []any) ([]any, error)
}

type FlashcardSource interface {
	ChapterFlashcard(ctx context.Context, sectionID uuid.UUID, ch chapters.Chapter) (map[string]any, error)
}

type SectionRef struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}

type SectionLister interface {
	ListSections(ctx context.Context, courseID uuid.UUID) ([]SectionRef, error)
}

// Refresher drops cached reads for a course/section so the next read is fresh.
type Refresher interface {
	Refresh(ctx context.Context, courseID, sectionID uuid.UUID)
}

type Deps struct {
	Log    *logger.Logger
	Clock  clock.Clock
	Policy quiz.Policy
	// Spawn runs collaborator calls; defaults to a new goroutine.
	Spawn func(func())

	Tokens     TokenIssuer
	Progress   ProgressWriter
	Questions  QuestionSource
	Flashcards FlashcardSource
	Sections   SectionLister
	Refresher  Refresher
}

type Config struct {
	CourseID        uuid.UUID
	SectionID       uuid.UUID
	VideoID         string
	Chapters        []chapters.Chapter
	StoredQuestions []any
}
