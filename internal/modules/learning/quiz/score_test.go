package quiz

import "testing"

func TestScore(t *testing.T) {
	cases := []struct{ correct, total, want int }{
		{0, 0, 0},
		{4, 5, 80},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := Score(tc.correct, tc.total); got != tc.want {
			t.Fatalf("Score(%d,%d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	p, err := DefaultPolicy()
	if err != nil {
		t.Fatalf("DefaultPolicy: %v", err)
	}
	cases := []struct {
		score   int
		tier    string
		success bool
	}{
		{100, "outstanding", true},
		{90, "outstanding", true},
		{89, "excellent", true},
		{80, "excellent", true},
		{79, "good", true},
		{70, "good", true},
		{69, "needs_review", false},
		{0, "needs_review", false},
	}
	for _, tc := range cases {
		tier := p.TierFor(tc.score)
		if tier.Name != tc.tier || tier.Success != tc.success {
			t.Fatalf("TierFor(%d) = %+v, want %s", tc.score, tier, tc.tier)
		}
		if p.Passed(tc.score) != (tc.score >= 70) {
			t.Fatalf("Passed(%d) mismatch", tc.score)
		}
	}
}

func TestPolicyOverrides(t *testing.T) {
	p, err := ParsePolicy([]byte("pass_threshold: 85\ndelays_ms:\n  correct_advance: 10\n"))
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	if p.PassThreshold != 85 || p.Delays.CorrectAdvance.Milliseconds() != 10 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Delays.IncorrectAdvance.Milliseconds() != 1500 {
		t.Fatalf("unspecified delay should keep default")
	}
	custom := p.WithTierMessages(map[string]string{"good": "Nice."})
	if custom.TierFor(75).Message != "Nice." || p.TierFor(75).Message == "Nice." {
		t.Fatalf("tier copy override leaked or missing")
	}
	if _, err := ParsePolicy([]byte("delays_ms:\n  bogus: 1\n")); err == nil {
		t.Fatalf("expected unknown delay to fail")
	}
}
