package quiz

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/coursestream-backend/internal/platform/clock"
)

func flashcards(n int) []Question {
	out := make([]Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &Flashcard{
			ID:            i,
			Question:      fmt.Sprintf("question %d", i),
			Choices:       []string{"right", "wrong", "other"},
			CorrectAnswer: "right",
		})
	}
	return out
}

func matching() *MatchingGame {
	return &MatchingGame{ID: 1, Pairs: []Pair{{"a", "1"}, {"b", "2"}, {"c", "3"}}}
}

func TestRunnerFiveFlashcardsFourCorrect(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	var results []Result
	r, err := NewRunner(flashcards(5), Options{Clock: clk, OnFinished: func(res Result) { results = append(results, res) }})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	answers := []string{"right", "right", "wrong", "right", "right"}
	for i, a := range answers {
		if r.Index() != i {
			t.Fatalf("expected index %d, got %d", i, r.Index())
		}
		if _, err := r.Select(a); err != nil {
			t.Fatalf("Select(%d): %v", i, err)
		}
		clk.Advance(1500 * time.Millisecond)
	}
	if len(results) != 1 {
		t.Fatalf("expected onFinished once, got %d", len(results))
	}
	res := results[0]
	if res.Score != 80 || !res.Passed || res.Tier.Name != "excellent" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if r.Status() != RunnerFinished {
		t.Fatalf("expected finished, got %s", r.Status())
	}

	// Anything arriving after the end must not re-fire the callback.
	if _, err := r.Select("right"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after finish, got %v", err)
	}
	clk.Advance(time.Minute)
	_ = r.View()
	if len(results) != 1 {
		t.Fatalf("onFinished fired again")
	}
}

func TestRunnerFirstSelectionLocks(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	r, _ := NewRunner(flashcards(2), Options{Clock: clk})
	if ok, err := r.Select("wrong"); err != nil || ok {
		t.Fatalf("expected incorrect answer, got ok=%v err=%v", ok, err)
	}
	if _, err := r.Select("right"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected locked question, got %v", err)
	}
	clk.Advance(1000 * time.Millisecond)
	if r.Index() != 0 {
		t.Fatalf("incorrect answer advanced before its delay")
	}
	clk.Advance(500 * time.Millisecond)
	if r.Index() != 1 {
		t.Fatalf("expected advance after 1500ms, index=%d", r.Index())
	}
	if c, total := r.Counts(); c != 0 || total != 1 {
		t.Fatalf("unexpected counts %d/%d", c, total)
	}
	if _, err := r.Select("missing"); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected ErrUnknownChoice, got %v", err)
	}
}

func TestRunnerMatchingFlow(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	var got *Result
	r, _ := NewRunner([]Question{matching()}, Options{Clock: clk, OnFinished: func(res Result) { got = &res }})

	if err := r.Assign(0, "1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := r.Submit(); !errors.Is(err, ErrIncompleteMatching) {
		t.Fatalf("expected ErrIncompleteMatching, got %v", err)
	}
	if _, total := r.Counts(); total != 0 {
		t.Fatalf("incomplete submit must not count")
	}

	_ = r.Assign(1, "3")
	_ = r.Assign(2, "2")
	res, err := r.Submit()
	if err != nil || res.Correct {
		t.Fatalf("expected mismatch, got %+v err=%v", res, err)
	}
	if len(res.ErrorRows) != 2 || res.ErrorRows[0] != 1 || res.ErrorRows[1] != 2 {
		t.Fatalf("expected rows 1 and 2 flagged, got %v", res.ErrorRows)
	}
	view := r.View()
	if view.Current == nil || view.Current.Assignments[0] != "1" {
		t.Fatalf("correct rows must keep their assignment: %+v", view.Current)
	}

	_ = r.Assign(1, "2")
	_ = r.Assign(2, "3")
	res, err = r.Submit()
	if err != nil || !res.Correct {
		t.Fatalf("expected correct submission, got %+v err=%v", res, err)
	}
	if c, total := r.Counts(); c != 1 || total != 1 {
		t.Fatalf("expected 1/1 after retry, got %d/%d", c, total)
	}
	clk.Advance(800 * time.Millisecond)
	if got == nil || got.Score != 100 || got.Tier.Name != "outstanding" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestRunnerCloseIgnoresPendingTimer(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	fired := 0
	r, _ := NewRunner(flashcards(1), Options{Clock: clk, OnFinished: func(Result) { fired++ }})
	_, _ = r.Select("right")
	r.Close()
	clk.Advance(time.Minute)
	if fired != 0 || r.Index() != 0 || r.Status() != RunnerClosed {
		t.Fatalf("closed runner advanced: fired=%d index=%d status=%s", fired, r.Index(), r.Status())
	}
}

func TestRunnerDispatchWrapsTimers(t *testing.T) {
	clk := clock.NewFake(time.Time{})
	wrapped := 0
	r, _ := NewRunner(flashcards(2), Options{Clock: clk, Dispatch: func(f func()) { wrapped++; f() }})
	_, _ = r.Select("right")
	clk.Advance(time.Second)
	if wrapped != 1 || r.Index() != 1 {
		t.Fatalf("expected dispatch to run the advance, wrapped=%d index=%d", wrapped, r.Index())
	}
}

func TestNewRunnerRequiresQuestions(t *testing.T) {
	if _, err := NewRunner(nil, Options{}); !errors.Is(err, ErrNoValidQuestions) {
		t.Fatalf("expected ErrNoValidQuestions, got %v", err)
	}
}
