package envutil

import (
	"testing"
	"time"
)

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("X_SWEEP", "45")
	if got := Duration("X_SWEEP", time.Second); got != 45*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("X_SWEEP", "2m")
	if got := Duration("X_SWEEP", time.Second); got != 2*time.Minute {
		t.Fatalf("got %v", got)
	}
	t.Setenv("X_SWEEP", "nonsense")
	if got := Duration("X_SWEEP", time.Second); got != time.Second {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("X_FLAG", "on")
	if !Bool("X_FLAG", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("X_FLAG", "maybe")
	if Bool("X_FLAG", false) {
		t.Fatalf("expected default false")
	}
	t.Setenv("X_LIST", " a, ,b ")
	got := List("X_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestPairs(t *testing.T) {
	t.Setenv("X_PAIRS", "good=Nice, keep going; =orphan;excellent = Great;junk")
	got := Pairs("X_PAIRS", ";")
	if len(got) != 2 || got["good"] != "Nice, keep going" || got["excellent"] != "Great" {
		t.Fatalf("unexpected pairs %v", got)
	}
	t.Setenv("X_PAIRS", "")
	if Pairs("X_PAIRS", ";") != nil {
		t.Fatalf("expected nil for empty value")
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("X_RATIO", "0.25")
	if got := Float("X_RATIO", 1); got != 0.25 {
		t.Fatalf("got %v", got)
	}
	t.Setenv("X_RATIO", "x")
	if got := Float("X_RATIO", 1); got != 1 {
		t.Fatalf("expected default, got %v", got)
	}
}
