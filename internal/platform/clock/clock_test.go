package clock

import (
	"testing"
	"time"
)

func TestFakeRunsDueCallbacksInOrder(t *testing.T) {
	f := NewFake(time.Time{})
	var got []string
	f.AfterFunc(800*time.Millisecond, func() { got = append(got, "b") })
	f.AfterFunc(700*time.Millisecond, func() { got = append(got, "a") })
	stopped := f.AfterFunc(100*time.Millisecond, func() { got = append(got, "x") })
	if !stopped.Stop() {
		t.Fatalf("expected Stop to report true")
	}

	f.Advance(750 * time.Millisecond)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected order after 750ms: %v", got)
	}
	f.Advance(100 * time.Millisecond)
	if len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected order after 850ms: %v", got)
	}
	if f.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", f.Pending())
	}
}

func TestFakeCallbackMayScheduleMore(t *testing.T) {
	f := NewFake(time.Time{})
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			f.AfterFunc(time.Second, tick)
		}
	}
	f.AfterFunc(time.Second, tick)
	f.Advance(10 * time.Second)
	if count != 3 {
		t.Fatalf("expected 3 ticks, got %d", count)
	}
}
