package learning

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/modules/learning/chapters"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/player"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/apierr"
	"github.com/yungbote/coursestream-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
	"github.com/yungbote/coursestream-backend/internal/services"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Catalog   services.CatalogService
	Progress  services.ProgressService
	Tokens    services.VideoTokenService
	Questions services.QuestionService

	Sessions *player.Sessions
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type StartPlaybackInput struct {
	SectionID uuid.UUID
}

type PlaybackOutput struct {
	SessionID uuid.UUID       `json:"sessionId"`
	Snapshot  player.Snapshot `json:"snapshot"`
}

// StartPlayback opens a playback session for the caller on one section.
// Stored questions are passed through sanitized; when none survive the
// session generates a fresh set once the video completes.
func (u Usecases) StartPlayback(ctx context.Context, in StartPlaybackInput) (PlaybackOutput, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return PlaybackOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if u.deps.Sessions == nil {
		return PlaybackOutput{}, apierr.New(http.StatusInternalServerError, "playback_not_configured", nil)
	}
	sec, err := u.deps.Catalog.GetSection(ctx, in.SectionID)
	if err != nil {
		return PlaybackOutput{}, err
	}
	if _, err := u.deps.Catalog.GetCourse(ctx, sec.CourseID); err != nil {
		return PlaybackOutput{}, err
	}
	cfg := player.Config{
		CourseID:        sec.CourseID,
		SectionID:       sec.ID,
		VideoID:         sec.VideoID,
		Chapters:        chapters.NormalizeJSON(sec.Chapters),
		StoredQuestions: quiz.ToRaw(quiz.SanitizeJSON(sec.Questions)),
	}
	s, err := u.deps.Sessions.Create(*rd, cfg)
	if err != nil {
		return PlaybackOutput{}, playbackError(err)
	}
	u.deps.Log.Debug("playback started",
		"session_id", s.ID.String(),
		"section_id", sec.ID.String(),
		"chapters", len(cfg.Chapters),
		"stored_questions", len(cfg.StoredQuestions),
	)
	return PlaybackOutput{SessionID: s.ID, Snapshot: s.Snapshot()}, nil
}

func (u Usecases) session(ctx context.Context, id uuid.UUID) (*player.Session, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if u.deps.Sessions == nil {
		return nil, playbackError(player.ErrSessionNotFound)
	}
	s, err := u.deps.Sessions.Get(rd.UserID, id)
	if err != nil {
		return nil, playbackError(err)
	}
	return s, nil
}

func (u Usecases) PlaybackSnapshot(ctx context.Context, id uuid.UUID) (PlaybackOutput, error) {
	s, err := u.session(ctx, id)
	if err != nil {
		return PlaybackOutput{}, err
	}
	return PlaybackOutput{SessionID: s.ID, Snapshot: s.Snapshot()}, nil
}

func (u Usecases) ClosePlayback(ctx context.Context, id uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if u.deps.Sessions == nil {
		return playbackError(player.ErrSessionNotFound)
	}
	if err := u.deps.Sessions.Close(rd.UserID, id); err != nil {
		return playbackError(err)
	}
	return nil
}

// PlaybackEvent applies one player event. A focus event re-validates the
// session against the caller's current token before refreshing reads.
func (u Usecases) PlaybackEvent(ctx context.Context, id uuid.UUID, ev player.Event) (PlaybackOutput, error) {
	if ev.Type == player.EventFocus {
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			return PlaybackOutput{}, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
		}
		if u.deps.Sessions == nil {
			return PlaybackOutput{}, playbackError(player.ErrSessionNotFound)
		}
		s, err := u.deps.Sessions.Focus(*rd, id)
		if err != nil {
			return PlaybackOutput{}, playbackError(err)
		}
		return PlaybackOutput{SessionID: s.ID, Snapshot: s.Snapshot()}, nil
	}
	s, err := u.session(ctx, id)
	if err != nil {
		return PlaybackOutput{}, err
	}
	if err := s.Handle(ev); err != nil {
		return PlaybackOutput{}, playbackError(err)
	}
	return PlaybackOutput{SessionID: s.ID, Snapshot: s.Snapshot()}, nil
}

type FlashcardActionInput struct {
	Skip   bool
	Choice string
}

type FlashcardActionOutput struct {
	PlaybackOutput
	Correct bool `json:"correct"`
}

func (u Usecases) PlaybackFlashcard(ctx context.Context, id uuid.UUID, in FlashcardActionInput) (FlashcardActionOutput, error) {
	s, err := u.session(ctx, id)
	if err != nil {
		return FlashcardActionOutput{}, err
	}
	var correct bool
	if in.Skip {
		err = s.SkipFlashcard()
	} else {
		correct, err = s.AnswerFlashcard(in.Choice)
	}
	if err != nil {
		return FlashcardActionOutput{}, playbackError(err)
	}
	return FlashcardActionOutput{
		PlaybackOutput: PlaybackOutput{SessionID: s.ID, Snapshot: s.Snapshot()},
		Correct:        correct,
	}, nil
}

// PlaybackQuiz routes one quiz action to the session.
func (u Usecases) PlaybackQuiz(ctx context.Context, id uuid.UUID, a player.QuizAction) (PlaybackOutput, error) {
	s, err := u.session(ctx, id)
	if err != nil {
		return PlaybackOutput{}, err
	}
	switch a.Kind {
	case player.QuizSelect, player.QuizAssign, player.QuizSubmit:
		err = s.Answer(a)
	case player.QuizRegenerate:
		err = s.Regenerate()
	case player.QuizContinue:
		err = s.Continue()
	case player.QuizClose:
		err = s.CloseQuiz()
	case player.QuizOpen:
		err = s.OpenQuiz()
	default:
		err = player.ErrInvalidTransition
	}
	if err != nil {
		return PlaybackOutput{}, playbackError(err)
	}
	return PlaybackOutput{SessionID: s.ID, Snapshot: s.Snapshot()}, nil
}

func playbackError(err error) error {
	if _, ok := apierr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, player.ErrSessionNotFound):
		return apierr.New(http.StatusNotFound, "playback_session_not_found", err)
	case errors.Is(err, player.ErrSessionExpired):
		return apierr.New(http.StatusUnauthorized, "playback_session_expired", err)
	case errors.Is(err, player.ErrUnknownChapter):
		return apierr.New(http.StatusBadRequest, "unknown_chapter", err)
	case errors.Is(err, quiz.ErrIncompleteMatching):
		return apierr.New(http.StatusBadRequest, "incomplete_matching", err)
	case errors.Is(err, quiz.ErrUnknownChoice):
		return apierr.New(http.StatusBadRequest, "unknown_choice", err)
	case errors.Is(err, quiz.ErrWrongQuestionType):
		return apierr.New(http.StatusConflict, "wrong_question_type", err)
	case errors.Is(err, player.ErrInvalidTransition), errors.Is(err, quiz.ErrInvalidTransition):
		return apierr.New(http.StatusConflict, "invalid_transition", err)
	}
	return apierr.New(http.StatusInternalServerError, "playback_failed", err)
}
