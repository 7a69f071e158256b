package learning

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/modules/learning/chapters"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/generation"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/player"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
	"github.com/yungbote/coursestream-backend/internal/services"
)

// PlayerDeps binds the services to the collaborator interfaces a playback
// session depends on. Log, Clock, Policy and Spawn are left to the caller.
func PlayerDeps(catalog services.CatalogService, progress services.ProgressService, tokens services.VideoTokenService, questions services.QuestionService) player.Deps {
	d := player.Deps{}
	if tokens != nil {
		d.Tokens = tokenIssuer{tokens}
	}
	if progress != nil {
		d.Progress = progressWriter{progress}
	}
	if questions != nil {
		d.Questions = questionSource{questions}
		d.Flashcards = flashcardSource{questions}
	}
	if catalog != nil {
		d.Sections = sectionLister{catalog}
		d.Refresher = refresher{catalog: catalog, progress: progress}
	}
	return d
}

type tokenIssuer struct{ svc services.VideoTokenService }

func (t tokenIssuer) IssueToken(ctx context.Context, videoID string) (drm.PlaybackToken, error) {
	return t.svc.IssueToken(ctx, videoID)
}

type progressWriter struct{ svc services.ProgressService }

func (p progressWriter) SaveProgress(ctx context.Context, w player.ProgressWrite) error {
	_, err := p.svc.Save(ctx, services.ProgressUpdate{
		CourseID:           w.CourseID,
		SectionID:          w.SectionID,
		ProgressPercentage: w.Percentage,
		QuizScore:          w.QuizScore,
		QuizPassed:         w.QuizPassed,
	})
	return err
}

type questionSource struct{ svc services.QuestionService }

func (q questionSource) GenerateQuestions(ctx context.Context, sectionID uuid.UUID) ([]any, error) {
	qs, err := q.svc.Generate(ctx, sectionID, generation.DefaultQuestionCount)
	if err != nil {
		return nil, err
	}
	return quiz.ToRaw(qs), nil
}

func (q questionSource) RegenerateQuestions(ctx context.Context, sectionID uuid.UUID, previous []any) ([]any, error) {
	qs, err := q.svc.Regenerate(ctx, sectionID, previous, generation.DefaultQuestionCount)
	if err != nil {
		return nil, err
	}
	return quiz.ToRaw(qs), nil
}

type flashcardSource struct{ svc services.QuestionService }

func (f flashcardSource) ChapterFlashcard(ctx context.Context, sectionID uuid.UUID, ch chapters.Chapter) (map[string]any, error) {
	fc, err := f.svc.ChapterFlashcard(ctx, sectionID, generation.ChapterSpan{
		Title:     ch.Title,
		StartTime: ch.StartTime,
		Duration:  ch.Duration,
	})
	if err != nil {
		return nil, err
	}
	raw := quiz.ToRaw([]quiz.Question{fc})
	if len(raw) == 0 {
		return nil, quiz.ErrNoValidQuestions
	}
	m, _ := raw[0].(map[string]any)
	return m, nil
}

type sectionLister struct{ svc services.CatalogService }

func (s sectionLister) ListSections(ctx context.Context, courseID uuid.UUID) ([]player.SectionRef, error) {
	rows, err := s.svc.ListSections(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]player.SectionRef, 0, len(rows))
	for _, r := range rows {
		out = append(out, player.SectionRef{ID: r.ID, Position: r.Position})
	}
	return out, nil
}

type refresher struct {
	catalog  services.CatalogService
	progress services.ProgressService
}

func (r refresher) Refresh(ctx context.Context, courseID, _ uuid.UUID) {
	r.catalog.Invalidate(ctx, courseID)
	if r.progress == nil {
		return
	}
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		r.progress.InvalidateUser(ctx, rd.UserID)
	}
}
