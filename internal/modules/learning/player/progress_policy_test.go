package player

import (
	"math"
	"testing"
)

func TestProgressPolicyPostsOnFivesAndNearEnd(t *testing.T) {
	pp := newProgressPolicy()
	inputs := []float64{0, 2, 4.6, 5.4, 7.5, 10, 9.6, 50, 97.4, 97.6, 98.9, 99.2}
	var got []int
	for _, p := range inputs {
		if v, ok := pp.next(p); ok {
			got = append(got, v)
		}
	}
	want := []int{0, 5, 10, 50, 100}
	if len(got) != len(want) {
		t.Fatalf("posted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("posted %v, want %v", got, want)
		}
	}
}

func TestProgressPolicyMatchesRule(t *testing.T) {
	pp := newProgressPolicy()
	last := -1
	// forward, then a backward seek, then forward again
	var inputs []float64
	for p := 0.0; p <= 60; p += 0.7 {
		inputs = append(inputs, p)
	}
	for p := 20.0; p <= 97; p += 1.3 {
		inputs = append(inputs, p)
	}
	for _, p := range inputs {
		r := int(math.Round(p))
		coerced := r
		if r >= 98 {
			coerced = 100
		}
		expect := (r%5 == 0 || r >= 98) && coerced != last
		v, ok := pp.next(p)
		if ok != expect {
			t.Fatalf("p=%v: posted=%v, want %v (last=%d)", p, ok, expect, last)
		}
		if ok {
			if v != coerced {
				t.Fatalf("p=%v: posted %d, want %d", p, v, coerced)
			}
			last = v
		}
	}
}

func TestProgressPolicyLatch(t *testing.T) {
	pp := newProgressPolicy()
	if v, ok := pp.next(99); !ok || v != 100 {
		t.Fatalf("expected 100, got %d %v", v, ok)
	}
	// Not confirmed yet: a backward seek still posts.
	if v, ok := pp.next(45); !ok || v != 45 {
		t.Fatalf("expected permissive post of 45, got %d %v", v, ok)
	}
	pp.confirm(100)
	for _, p := range []float64{5, 50, 100} {
		if _, ok := pp.next(p); ok {
			t.Fatalf("latched policy posted %v", p)
		}
	}
	if pp.complete() {
		t.Fatalf("complete after latch should not post")
	}
}

func TestProgressPolicyFailedRearms(t *testing.T) {
	pp := newProgressPolicy()
	if v, ok := pp.next(60); !ok || v != 60 {
		t.Fatalf("expected 60, got %d %v", v, ok)
	}
	pp.next(65)
	pp.failed(60)
	if _, ok := pp.next(65); ok {
		t.Fatalf("a stale failure must not re-arm a newer value")
	}
	pp.failed(65)
	if v, ok := pp.next(65); !ok || v != 65 {
		t.Fatalf("expected 65 to be resent, got %d %v", v, ok)
	}
	pp.failed(65)
	if !pp.complete() {
		t.Fatalf("complete should send 100 after a failed write")
	}
}
