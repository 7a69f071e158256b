package quiz

import (
	"time"

	"github.com/yungbote/coursestream-backend/internal/platform/clock"
)

type AnswerState string

const (
	AnswerIdle      AnswerState = "idle"
	AnswerCorrect   AnswerState = "correct"
	AnswerIncorrect AnswerState = "incorrect"
)

type RunnerStatus string

const (
	RunnerActive   RunnerStatus = "active"
	RunnerFinished RunnerStatus = "finished"
	RunnerClosed   RunnerStatus = "closed"
)

type Options struct {
	Clock  clock.Clock
	Policy Policy
	// Dispatch runs timer callbacks. Owners that serialize access with a lock
	// pass a func that takes it; the default runs the callback directly.
	Dispatch   func(func())
	OnFinished func(Result)
}

type questionState struct {
	selected    string
	answer      AnswerState
	assignments map[int]string
	submitted   bool
	errorRows   map[int]bool
}

// Runner drives one quiz session over a fixed question set. It is not safe
// for concurrent use; callers serialize every method and timer callback.
type Runner struct {
	questions []Question
	opts      Options

	index   int
	correct int
	total   int
	states  []questionState

	status   RunnerStatus
	locked   bool
	epoch    int
	timer    clock.Timer
	result   *Result
	notified bool
}

func NewRunner(questions []Question, opts Options) (*Runner, error) {
	if len(questions) == 0 {
		return nil, ErrNoValidQuestions
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Policy.Tiers == nil {
		p, _ := DefaultPolicy()
		if opts.Policy.PassThreshold > 0 {
			p.PassThreshold = opts.Policy.PassThreshold
		}
		opts.Policy = p
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(f func()) { f() }
	}
	r := &Runner{
		questions: append([]Question(nil), questions...),
		opts:      opts,
		states:    make([]questionState, len(questions)),
		status:    RunnerActive,
	}
	for i := range r.states {
		r.states[i] = newQuestionState()
	}
	return r, nil
}

func newQuestionState() questionState {
	return questionState{
		answer:      AnswerIdle,
		assignments: map[int]string{},
		errorRows:   map[int]bool{},
	}
}

func (r *Runner) Questions() []Question { return r.questions }
func (r *Runner) Index() int            { return r.index }
func (r *Runner) Status() RunnerStatus  { return r.status }
func (r *Runner) Counts() (correct, total int) {
	return r.correct, r.total
}

func (r *Runner) Result() (Result, bool) {
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

func (r *Runner) current() (Question, *questionState, error) {
	if r.status != RunnerActive || r.index >= len(r.questions) {
		return nil, nil, ErrInvalidTransition
	}
	return r.questions[r.index], &r.states[r.index], nil
}

// Select answers the current flashcard or fill-blank question. The first
// selection locks the question until it auto-advances.
func (r *Runner) Select(choice string) (bool, error) {
	q, st, err := r.current()
	if err != nil {
		return false, err
	}
	if q.Kind() == TypeMatchingGame {
		return false, ErrWrongQuestionType
	}
	if r.locked {
		return false, ErrInvalidTransition
	}
	correct, err := Grade(q, choice)
	if err != nil {
		return false, err
	}
	r.locked = true
	st.selected = choice
	r.total++
	delay := r.opts.Policy.Delays.IncorrectAdvance
	if correct {
		r.correct++
		st.answer = AnswerCorrect
		delay = r.opts.Policy.Delays.CorrectAdvance
	} else {
		st.answer = AnswerIncorrect
	}
	r.scheduleAdvance(delay)
	return correct, nil
}

// Assign sets the right-hand value chosen for a matching row and clears that
// row's error flag.
func (r *Runner) Assign(left int, right string) error {
	q, st, err := r.current()
	if err != nil {
		return err
	}
	mg, ok := q.(*MatchingGame)
	if !ok {
		return ErrWrongQuestionType
	}
	if r.locked {
		return ErrInvalidTransition
	}
	if left < 0 || left >= len(mg.Pairs) {
		return ErrUnknownChoice
	}
	if !contains(mg.Rights(), right) {
		return ErrUnknownChoice
	}
	st.assignments[left] = right
	delete(st.errorRows, left)
	return nil
}

type MatchResult struct {
	Correct   bool  `json:"correct"`
	ErrorRows []int `json:"errorRows,omitempty"`
}

// Submit evaluates every row of the current matching question at once.
func (r *Runner) Submit() (MatchResult, error) {
	q, st, err := r.current()
	if err != nil {
		return MatchResult{}, err
	}
	mg, ok := q.(*MatchingGame)
	if !ok {
		return MatchResult{}, ErrWrongQuestionType
	}
	if r.locked {
		return MatchResult{}, ErrInvalidTransition
	}
	if len(st.assignments) < len(mg.Pairs) {
		return MatchResult{}, ErrIncompleteMatching
	}
	if !st.submitted {
		st.submitted = true
		r.total++
	}
	wrong := mg.Check(st.assignments)
	st.errorRows = map[int]bool{}
	if len(wrong) > 0 {
		for _, i := range wrong {
			st.errorRows[i] = true
		}
		st.answer = AnswerIncorrect
		return MatchResult{Correct: false, ErrorRows: wrong}, nil
	}
	r.correct++
	r.locked = true
	st.answer = AnswerCorrect
	r.scheduleAdvance(r.opts.Policy.Delays.MatchingAdvance)
	return MatchResult{Correct: true}, nil
}

func (r *Runner) scheduleAdvance(d time.Duration) {
	epoch, index := r.epoch, r.index
	r.timer = r.opts.Clock.AfterFunc(d, func() {
		r.opts.Dispatch(func() {
			if r.epoch != epoch || r.index != index || r.status != RunnerActive {
				return
			}
			r.advance()
		})
	})
}

func (r *Runner) advance() {
	r.timer = nil
	r.locked = false
	r.index++
	if r.index < len(r.questions) {
		return
	}
	score := Score(r.correct, r.total)
	res := Result{
		Score:   score,
		Passed:  r.opts.Policy.Passed(score),
		Correct: r.correct,
		Total:   r.total,
		Tier:    r.opts.Policy.TierFor(score),
	}
	r.result = &res
	r.status = RunnerFinished
	if !r.notified {
		r.notified = true
		if r.opts.OnFinished != nil {
			r.opts.OnFinished(res)
		}
	}
}

// Close cancels any pending advance. Timers that still fire are ignored.
func (r *Runner) Close() {
	r.epoch++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.status == RunnerActive {
		r.status = RunnerClosed
	}
}

type QuestionView struct {
	Question    Question       `json:"question"`
	Choices     []string       `json:"choices,omitempty"`
	Rights      []string       `json:"rights,omitempty"`
	Selected    string         `json:"selected,omitempty"`
	Answer      AnswerState    `json:"answer"`
	Assignments map[int]string `json:"assignments,omitempty"`
	Submitted   bool           `json:"submitted"`
	ErrorRows   []int          `json:"errorRows,omitempty"`
}

type RunnerView struct {
	Status         RunnerStatus  `json:"status"`
	Index          int           `json:"currentIndex"`
	Count          int           `json:"questionCount"`
	CorrectAnswers int           `json:"correctAnswers"`
	TotalAnswered  int           `json:"totalAnswered"`
	Current        *QuestionView `json:"current,omitempty"`
	Result         *Result       `json:"result,omitempty"`
}

func (r *Runner) View() RunnerView {
	v := RunnerView{
		Status:         r.status,
		Index:          r.index,
		Count:          len(r.questions),
		CorrectAnswers: r.correct,
		TotalAnswered:  r.total,
		Result:         r.result,
	}
	if r.status == RunnerActive && r.index < len(r.questions) {
		q, st := r.questions[r.index], r.states[r.index]
		qv := &QuestionView{
			Question:  q,
			Choices:   Choices(q),
			Selected:  st.selected,
			Answer:    st.answer,
			Submitted: st.submitted,
		}
		if mg, ok := q.(*MatchingGame); ok {
			qv.Rights = mg.Rights()
			qv.Assignments = make(map[int]string, len(st.assignments))
			for k, val := range st.assignments {
				qv.Assignments[k] = val
			}
			for i := range mg.Pairs {
				if st.errorRows[i] {
					qv.ErrorRows = append(qv.ErrorRows, i)
				}
			}
		}
		v.Current = qv
	}
	return v
}
