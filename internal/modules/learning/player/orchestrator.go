package player

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/modules/learning/chapters"
	"github.com/yungbote/coursestream-backend/internal/modules/learning/quiz"
	"github.com/yungbote/coursestream-backend/internal/platform/clock"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type State string

const (
	StateLoading      State = "loading"
	StateReady        State = "ready"
	StatePlaying      State = "playing"
	StatePaused       State = "paused"
	StateQuizPending  State = "quiz-pending"
	StateQuizActive   State = "quiz-active"
	StateQuizEmpty    State = "quiz-empty"
	StateQuizFinished State = "quiz-finished"
	StateContinuing   State = "continuing"
	StateExiting      State = "exiting"
	StateError        State = "error"
)

const (
	errQuestionGeneration   = "question_generation_failed"
	errQuestionRegeneration = "question_regeneration_failed"
	errNoValidQuestions     = "no_valid_questions"
	errSectionLookup        = "section_lookup_failed"
	errQuestionsUnavailable = "questions_unavailable"
)

type NavigationKind string

const (
	NavigateSection NavigationKind = "section"
	NavigateCourse  NavigationKind = "course"
)

// Navigation is where "continue" sends the viewer.
type Navigation struct {
	Kind      NavigationKind `json:"kind"`
	CourseID  uuid.UUID      `json:"courseId"`
	SectionID *uuid.UUID     `json:"sectionId,omitempty"`
}

// Orchestrator is the section player: it turns playback callbacks into
// progress writes, chapter flashcards and the end-of-section quiz.
type Orchestrator struct {
	loop   *loop
	ctx    context.Context
	log    *logger.Logger
	clk    clock.Clock
	policy quiz.Policy
	deps   Deps
	cfg    Config

	coord *Coordinator
	state State

	progress      progressPolicy
	videoComplete bool
	// questionsRequested keeps repeated completion signals from starting
	// more than one question load per section view.
	questionsRequested bool

	quizEpoch    int
	questions    []quiz.Question
	runner       *quiz.Runner
	result       *quiz.Result
	regenerating bool
	nav          *Navigation
	lastError    string

	flash      *flashcardOverlay
	flashEpoch int
}

func NewOrchestrator(ctx context.Context, cfg Config, deps Deps) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Log == nil {
		deps.Log, _ = logger.New("nop")
	}
	policy := deps.Policy
	if policy.Tiers == nil {
		policy, _ = quiz.DefaultPolicy()
	}
	cfg.Chapters = append([]chapters.Chapter(nil), cfg.Chapters...)
	o := &Orchestrator{
		loop:     newLoop(deps.Spawn),
		ctx:      ctx,
		log:      deps.Log.With("component", "SectionPlayer", "section_id", cfg.SectionID.String()),
		clk:      deps.Clock,
		policy:   policy,
		deps:     deps,
		cfg:      cfg,
		state:    StateLoading,
		progress: newProgressPolicy(),
	}
	o.coord = newCoordinator(o.loop, ctx, o.log, deps.Tokens, cfg.VideoID, cfg.Chapters, o)
	return o
}

// Mount starts token issuance for the section's video.
func (o *Orchestrator) Mount() {
	o.loop.do(func() {
		o.state = StateLoading
		o.coord.mount()
	})
}

// Remount is the manual retry after a token failure.
func (o *Orchestrator) Remount() error {
	var err error
	o.loop.do(func() {
		switch o.state {
		case StateError, StateLoading, StateReady, StatePlaying, StatePaused:
		default:
			err = ErrInvalidTransition
			return
		}
		o.state = StateLoading
		o.coord.mount()
	})
	return err
}

func (o *Orchestrator) after(d time.Duration, fn func()) clock.Timer {
	return o.clk.AfterFunc(d, func() { o.loop.do(fn) })
}

// ---- playback callbacks (lock held) ----

func (o *Orchestrator) playerReady() {
	if o.state == StateLoading {
		o.state = StateReady
	}
}

func (o *Orchestrator) playerFailed(error) {
	if o.state == StateLoading {
		o.state = StateError
	}
}

func (o *Orchestrator) progressed(pct float64) {
	if o.state == StateQuizActive {
		return
	}
	if v, ok := o.progress.next(pct); ok {
		o.writeProgress(ProgressWrite{Percentage: v})
	}
}

func (o *Orchestrator) completed() {
	o.videoComplete = true
	if o.progress.complete() {
		o.writeProgress(ProgressWrite{Percentage: 100})
	}
	if o.questionsRequested {
		return
	}
	o.questionsRequested = true
	o.loadQuestions()
}

func (o *Orchestrator) chapterSeeked(ch chapters.Chapter, at float64) {
	o.log.Debug("chapter seek", "chapter_id", ch.ID, "time", at)
}

func (o *Orchestrator) writeProgress(w ProgressWrite) {
	if o.deps.Progress == nil {
		return
	}
	w.CourseID, w.SectionID = o.cfg.CourseID, o.cfg.SectionID
	o.loop.enqueue(func() {
		err := o.deps.Progress.SaveProgress(o.ctx, w)
		if err != nil {
			o.log.Warn("progress write failed", "percentage", w.Percentage, "error", err)
			o.loop.do(func() { o.progress.failed(w.Percentage) })
			return
		}
		o.loop.do(func() { o.progress.confirm(w.Percentage) })
	})
}

// ---- quiz ----

func (o *Orchestrator) loadQuestions() {
	if stored := quiz.SanitizeAll(o.cfg.StoredQuestions); len(stored) > 0 {
		o.startQuiz(stored)
		return
	}
	prev := o.state
	if o.deps.Questions == nil {
		o.lastError = errQuestionsUnavailable
		return
	}
	o.state = StateQuizPending
	o.quizEpoch++
	epoch := o.quizEpoch
	sectionID := o.cfg.SectionID
	o.loop.enqueue(func() {
		raw, err := o.deps.Questions.GenerateQuestions(o.ctx, sectionID)
		o.loop.do(func() {
			if epoch != o.quizEpoch || o.state != StateQuizPending {
				return
			}
			if err != nil {
				o.log.Warn("question load failed", "error", err)
				o.state = prev
				o.lastError = errQuestionGeneration
				return
			}
			qs := quiz.SanitizeAll(raw)
			if len(qs) == 0 {
				o.state = StateQuizEmpty
				o.lastError = errNoValidQuestions
				return
			}
			o.startQuiz(qs)
		})
	})
}

func (o *Orchestrator) startQuiz(qs []quiz.Question) {
	if o.runner != nil {
		o.runner.Close()
	}
	o.quizEpoch++
	epoch := o.quizEpoch
	runner, err := quiz.NewRunner(qs, quiz.Options{
		Clock:    o.clk,
		Policy:   o.policy,
		Dispatch: o.loop.do,
		OnFinished: func(res quiz.Result) {
			o.quizFinished(epoch, res)
		},
	})
	if err != nil {
		o.state = StateQuizEmpty
		o.lastError = errNoValidQuestions
		return
	}
	o.questions = qs
	o.runner = runner
	o.result = nil
	o.lastError = ""
	o.state = StateQuizActive
}

func (o *Orchestrator) quizFinished(epoch int, res quiz.Result) {
	if epoch != o.quizEpoch {
		return
	}
	o.result = &res
	o.state = StateQuizFinished
	score, passed := res.Score, res.Passed
	o.writeProgress(ProgressWrite{Percentage: 100, QuizScore: &score, QuizPassed: &passed})
}

// OpenQuiz opens (or reopens) the end-of-section quiz once the video has
// completed. It is also the retry path after a failed or empty load.
func (o *Orchestrator) OpenQuiz() error {
	var err error
	o.loop.do(func() {
		if !o.videoComplete {
			err = ErrInvalidTransition
			return
		}
		switch o.state {
		case StateReady, StatePlaying, StatePaused, StateQuizEmpty, StateQuizFinished:
		default:
			err = ErrInvalidTransition
			return
		}
		o.questionsRequested = true
		if len(o.questions) > 0 {
			o.startQuiz(o.questions)
			return
		}
		o.loadQuestions()
	})
	return err
}

type QuizAction struct {
	Kind   string `json:"action"`
	Choice string `json:"choice,omitempty"`
	Left   int    `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
}

const (
	QuizSelect     = "select"
	QuizAssign     = "assign"
	QuizSubmit     = "submit"
	QuizRegenerate = "regenerate"
	QuizContinue   = "continue"
	QuizClose      = "close"
	QuizOpen       = "open"
)

// Answer applies a select/assign/submit action to the running quiz.
func (o *Orchestrator) Answer(a QuizAction) error {
	var err error
	o.loop.do(func() {
		if o.state != StateQuizActive || o.runner == nil {
			err = ErrInvalidTransition
			return
		}
		switch a.Kind {
		case QuizSelect:
			_, err = o.runner.Select(a.Choice)
		case QuizAssign:
			err = o.runner.Assign(a.Left, a.Right)
		case QuizSubmit:
			_, err = o.runner.Submit()
		default:
			err = ErrInvalidTransition
		}
	})
	return err
}

// Regenerate asks for a replacement set that avoids the current questions
// and restarts the runner with it. Failures keep the current quiz.
func (o *Orchestrator) Regenerate() error {
	var err error
	o.loop.do(func() {
		if (o.state != StateQuizActive && o.state != StateQuizFinished) || o.regenerating {
			err = ErrInvalidTransition
			return
		}
		if o.deps.Questions == nil {
			o.lastError = errQuestionsUnavailable
			err = ErrInvalidTransition
			return
		}
		o.regenerating = true
		epoch := o.quizEpoch
		previous := quiz.ToRaw(o.questions)
		sectionID := o.cfg.SectionID
		o.loop.enqueue(func() {
			raw, genErr := o.deps.Questions.RegenerateQuestions(o.ctx, sectionID, previous)
			o.loop.do(func() {
				o.regenerating = false
				if epoch != o.quizEpoch || (o.state != StateQuizActive && o.state != StateQuizFinished) {
					return
				}
				if genErr != nil {
					o.log.Warn("question regeneration failed", "error", genErr)
					o.lastError = errQuestionRegeneration
					return
				}
				qs := quiz.SanitizeAll(raw)
				if len(qs) == 0 {
					o.lastError = errNoValidQuestions
					return
				}
				o.startQuiz(qs)
			})
		})
	})
	return err
}

// Continue looks up the next section of the course. The result shows up as
// Navigation in the snapshot; a failed lookup stays on the results screen.
func (o *Orchestrator) Continue() error {
	var err error
	o.loop.do(func() {
		if o.state != StateQuizFinished {
			err = ErrInvalidTransition
			return
		}
		if o.deps.Sections == nil {
			o.nav = &Navigation{Kind: NavigateCourse, CourseID: o.cfg.CourseID}
			o.state = StateContinuing
			return
		}
		o.state = StateContinuing
		courseID, sectionID := o.cfg.CourseID, o.cfg.SectionID
		o.loop.enqueue(func() {
			list, lookupErr := o.deps.Sections.ListSections(o.ctx, courseID)
			o.loop.do(func() {
				if o.state != StateContinuing {
					return
				}
				if lookupErr != nil {
					o.log.Warn("next section lookup failed", "error", lookupErr)
					o.state = StateQuizFinished
					o.lastError = errSectionLookup
					return
				}
				o.nav = nextNavigation(courseID, sectionID, list)
			})
		})
	})
	return err
}

func nextNavigation(courseID, current uuid.UUID, list []SectionRef) *Navigation {
	for i, s := range list {
		if s.ID == current && i+1 < len(list) {
			next := list[i+1].ID
			return &Navigation{Kind: NavigateSection, CourseID: courseID, SectionID: &next}
		}
	}
	return &Navigation{Kind: NavigateCourse, CourseID: courseID}
}

// CloseQuiz leaves the quiz without recording a result.
func (o *Orchestrator) CloseQuiz() error {
	var err error
	o.loop.do(func() {
		switch o.state {
		case StateQuizPending, StateQuizActive, StateQuizEmpty, StateQuizFinished:
		default:
			err = ErrInvalidTransition
			return
		}
		o.closeQuizLocked()
		o.state = StateReady
	})
	return err
}

func (o *Orchestrator) closeQuizLocked() {
	if o.runner != nil {
		o.runner.Close()
		o.runner = nil
	}
	o.quizEpoch++
	o.regenerating = false
}

// Exit tears the view down: pending timers are cancelled and late
// responses are ignored.
func (o *Orchestrator) Exit() {
	o.loop.do(func() {
		o.closeQuizLocked()
		o.dismissFlashcard()
		o.coord.mountEpoch++
		o.state = StateExiting
	})
}

// ---- playback events ----

type Event struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	ChapterID   string  `json:"chapterId,omitempty"`
}

const (
	EventSample      = "sample"
	EventPlay        = "play"
	EventPause       = "pause"
	EventSeek        = "seek"
	EventSeekChapter = "seek_chapter"
	EventEnded       = "ended"
	EventFocus       = "focus"
	EventRemount     = "remount"
)

// Handle applies one event reported by the client's player.
func (o *Orchestrator) Handle(ev Event) error {
	switch ev.Type {
	case EventRemount:
		return o.Remount()
	case EventFocus:
		o.Focus()
		return nil
	}
	var err error
	o.loop.do(func() {
		if o.state == StateExiting {
			err = ErrInvalidTransition
			return
		}
		switch ev.Type {
		case EventSample:
			o.coord.sample(ev.CurrentTime, ev.Duration)
		case EventPlay:
			if o.state != StateReady && o.state != StatePaused && o.state != StatePlaying {
				err = ErrInvalidTransition
				return
			}
			o.state = StatePlaying
		case EventPause:
			if o.state != StatePlaying {
				err = ErrInvalidTransition
				return
			}
			o.state = StatePaused
		case EventSeek:
			o.coord.seekTime(ev.CurrentTime)
		case EventSeekChapter:
			err = o.coord.seekChapter(ev.ChapterID)
		case EventEnded:
			o.coord.ended()
		default:
			err = ErrInvalidTransition
		}
	})
	return err
}

// Focus is the tab-refocus signal: cached course and progress reads are
// dropped so the next read is fresh.
func (o *Orchestrator) Focus() {
	if o.deps.Refresher == nil {
		return
	}
	o.loop.do(func() {
		courseID, sectionID := o.cfg.CourseID, o.cfg.SectionID
		o.loop.enqueue(func() { o.deps.Refresher.Refresh(o.ctx, courseID, sectionID) })
	})
}

// AnswerFlashcard answers the chapter flashcard overlay.
func (o *Orchestrator) AnswerFlashcard(choice string) (bool, error) {
	var (
		ok  bool
		err error
	)
	o.loop.do(func() { ok, err = o.answerFlashcard(choice) })
	return ok, err
}

func (o *Orchestrator) SkipFlashcard() error {
	var err error
	o.loop.do(func() {
		if o.flash == nil {
			err = ErrInvalidTransition
			return
		}
		o.dismissFlashcard()
	})
	return err
}

// ---- snapshot ----

type ProgressView struct {
	LastPosted    int  `json:"lastPosted"`
	Reached100    bool `json:"reached100"`
	VideoComplete bool `json:"videoComplete"`
}

type Snapshot struct {
	CourseID     uuid.UUID          `json:"courseId"`
	SectionID    uuid.UUID          `json:"sectionId"`
	VideoID      string             `json:"videoId"`
	State        State              `json:"state"`
	Player       PlayerView         `json:"player"`
	Chapters     []chapters.Chapter `json:"chapters"`
	Progress     ProgressView       `json:"progress"`
	Flashcard    *FlashcardView     `json:"flashcard,omitempty"`
	Quiz         *quiz.RunnerView   `json:"quiz,omitempty"`
	Result       *QuizResultView    `json:"result,omitempty"`
	Regenerating bool               `json:"regenerating"`
	Navigation   *Navigation        `json:"navigation,omitempty"`
	LastError    string             `json:"lastError,omitempty"`
}

type QuizResultView struct {
	quiz.Result
	Message string `json:"message"`
}

func (o *Orchestrator) Snapshot() Snapshot {
	var s Snapshot
	o.loop.do(func() { s = o.snapshotLocked() })
	return s
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	s := Snapshot{
		CourseID:     o.cfg.CourseID,
		SectionID:    o.cfg.SectionID,
		VideoID:      o.cfg.VideoID,
		State:        o.state,
		Player:       o.coord.view(),
		Chapters:     o.cfg.Chapters,
		Regenerating: o.regenerating,
		Navigation:   o.nav,
		LastError:    o.lastError,
		Progress: ProgressView{
			LastPosted:    o.progress.lastPosted,
			Reached100:    o.progress.reached100,
			VideoComplete: o.videoComplete,
		},
	}
	if o.flash != nil {
		s.Flashcard = o.flash.view()
	}
	if o.runner != nil && (o.state == StateQuizActive || o.state == StateQuizFinished) {
		v := o.runner.View()
		s.Quiz = &v
	}
	if o.result != nil {
		s.Result = &QuizResultView{Result: *o.result, Message: o.result.Tier.Message}
	}
	return s
}

func (s Snapshot) JSON() ([]byte, error) { return json.Marshal(s) }
