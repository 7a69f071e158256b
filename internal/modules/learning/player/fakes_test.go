package player

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/modules/learning/chapters"
	"github.com/yungbote/coursestream-backend/internal/platform/clock"
	"github.com/yungbote/coursestream-backend/internal/platform/drm"
)

type fakeTokens struct {
	calls int
	err   error
}

func (f *fakeTokens) IssueToken(ctx context.Context, videoID string) (drm.PlaybackToken, error) {
	f.calls++
	if f.err != nil {
		return drm.PlaybackToken{}, f.err
	}
	return drm.PlaybackToken{OTP: "otp-" + videoID, PlaybackInfo: "info"}, nil
}

type fakeProgress struct {
	trace  *[]string
	writes []ProgressWrite
	err    error
}

func (f *fakeProgress) SaveProgress(ctx context.Context, w ProgressWrite) error {
	f.writes = append(f.writes, w)
	*f.trace = append(*f.trace, fmt.Sprintf("progress:%d", w.Percentage))
	return f.err
}

func (f *fakeProgress) percentages() []int {
	out := make([]int, 0, len(f.writes))
	for _, w := range f.writes {
		out = append(out, w.Percentage)
	}
	return out
}

type fakeQuestions struct {
	trace    *[]string
	raw      []any
	err      error
	regenRaw []any
	regenErr error
	calls    int
	regens   int
	previous []any
}

func (f *fakeQuestions) GenerateQuestions(ctx context.Context, sectionID uuid.UUID) ([]any, error) {
	f.calls++
	*f.trace = append(*f.trace, "generate")
	return f.raw, f.err
}

func (f *fakeQuestions) RegenerateQuestions(ctx context.Context, sectionID uuid.UUID, previous []any) ([]any, error) {
	f.regens++
	f.previous = previous
	*f.trace = append(*f.trace, "regenerate")
	return f.regenRaw, f.regenErr
}

type fakeFlashcards struct {
	calls    []string
	err      error
	question string
}

func (f *fakeFlashcards) ChapterFlashcard(ctx context.Context, sectionID uuid.UUID, ch chapters.Chapter) (map[string]any, error) {
	f.calls = append(f.calls, ch.ID)
	if f.err != nil {
		return nil, f.err
	}
	q := f.question
	if q == "" {
		q = "What did " + ch.Title + " cover?"
	}
	return map[string]any{
		"type":          "flashcard",
		"question":      q,
		"choices":       []any{"right", "wrong", "other"},
		"correctAnswer": "right",
	}, nil
}

type fakeSections struct {
	list []SectionRef
	err  error
}

func (f *fakeSections) ListSections(ctx context.Context, courseID uuid.UUID) ([]SectionRef, error) {
	return f.list, f.err
}

type fakeRefresher struct{ calls int }

func (f *fakeRefresher) Refresh(ctx context.Context, courseID, sectionID uuid.UUID) { f.calls++ }

func rawFlashcards(n int, prefix string) []any {
	out := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, map[string]any{
			"type":          "flashcard",
			"question":      fmt.Sprintf("%s %d", prefix, i),
			"choices":       []any{"right", "wrong", "other"},
			"correctAnswer": "right",
		})
	}
	return out
}

func float(v float64) *float64 { return &v }

func testChapters() []chapters.Chapter {
	return []chapters.Chapter{
		{ID: "a", Title: "Intro", StartTime: 0, Flashcard: true},
		{ID: "b", Title: "Core", StartTime: 30, Flashcard: true},
		{ID: "c", Title: "Wrap up", StartTime: 90, Duration: float(20), Flashcard: true},
	}
}

// harness queues collaborator calls so tests decide when responses land.
type harness struct {
	t     *testing.T
	clk   *clock.Fake
	queue []func()
	trace []string

	tokens     *fakeTokens
	progress   *fakeProgress
	questions  *fakeQuestions
	flashcards *fakeFlashcards
	sections   *fakeSections
	refresher  *fakeRefresher

	cfg  Config
	deps Deps
	o    *Orchestrator
}

func newHarness(t *testing.T, mutate func(h *harness)) *harness {
	t.Helper()
	h := &harness{t: t, clk: clock.NewFake(time.Time{})}
	h.tokens = &fakeTokens{}
	h.progress = &fakeProgress{trace: &h.trace}
	h.questions = &fakeQuestions{trace: &h.trace, raw: rawFlashcards(5, "generated")}
	h.flashcards = &fakeFlashcards{}
	h.refresher = &fakeRefresher{}
	h.cfg = Config{
		CourseID:  uuid.New(),
		SectionID: uuid.New(),
		VideoID:   "vid-1",
		Chapters:  testChapters(),
	}
	next := uuid.New()
	h.sections = &fakeSections{list: []SectionRef{{ID: h.cfg.SectionID, Position: 1}, {ID: next, Position: 2}}}
	h.deps = Deps{
		Clock:      h.clk,
		Spawn:      func(f func()) { h.queue = append(h.queue, f) },
		Tokens:     h.tokens,
		Progress:   h.progress,
		Questions:  h.questions,
		Flashcards: h.flashcards,
		Sections:   h.sections,
		Refresher:  h.refresher,
	}
	if mutate != nil {
		mutate(h)
	}
	h.o = NewOrchestrator(context.Background(), h.cfg, h.deps)
	h.o.Mount()
	h.flush()
	return h
}

func (h *harness) flush() {
	for len(h.queue) > 0 {
		job := h.queue[0]
		h.queue = h.queue[1:]
		job()
	}
}

func (h *harness) event(ev Event) {
	h.t.Helper()
	if err := h.o.Handle(ev); err != nil {
		h.t.Fatalf("Handle(%+v): %v", ev, err)
	}
	h.flush()
}

func (h *harness) sample(at, duration float64) {
	h.t.Helper()
	h.event(Event{Type: EventSample, CurrentTime: at, Duration: duration})
}

func (h *harness) state() State { return h.o.Snapshot().State }

func (h *harness) answer(a QuizAction) {
	h.t.Helper()
	if err := h.o.Answer(a); err != nil {
		h.t.Fatalf("Answer(%+v): %v", a, err)
	}
}

var errBoom = errors.New("boom")
