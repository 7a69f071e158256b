package chapters

import "testing"

func sample() []Chapter {
	return Normalize([]any{
		map[string]any{"id": "c", "title": "Wrap up", "startTime": 90.0},
		map[string]any{"id": "a", "title": "Intro", "startTime": 0.0, "flashcard": true},
		map[string]any{"id": "b", "title": "Core", "startTime": 30.0, "duration": 60.0, "flashcard": "true"},
	})
}

func TestNormalizeSortsByStartTime(t *testing.T) {
	chs := sample()
	if len(chs) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chs))
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if chs[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, chs[i].ID, id)
		}
	}
	if !chs[0].Flashcard || !chs[1].Flashcard || chs[2].Flashcard {
		t.Fatalf("unexpected flashcard flags: %+v", chs)
	}
}

func TestNormalizeKeepsMissingDurationAbsent(t *testing.T) {
	chs := sample()
	if chs[0].Duration != nil {
		t.Fatalf("expected nil duration, got %v", *chs[0].Duration)
	}
	if chs[1].Duration == nil || *chs[1].Duration != 60 {
		t.Fatalf("expected duration 60, got %v", chs[1].Duration)
	}
}

func TestNormalizeHandlesProviderShapes(t *testing.T) {
	chs := NormalizeJSON([]byte(`{"chapters":[
		{"name":"Setup","start":"1:05","end":"2:00"},
		{"label":"Broken"},
		"not an object",
		{"chapter_id":7,"start_seconds":"-4","quiz":1}
	]}`))
	if len(chs) != 2 {
		t.Fatalf("expected 2 usable chapters, got %d: %+v", len(chs), chs)
	}
	if chs[0].ID != "7" || chs[0].StartTime != 0 || !chs[0].Flashcard || chs[0].Title != "Chapter 4" {
		t.Fatalf("unexpected coerced chapter: %+v", chs[0])
	}
	if chs[1].ID != "chapter-1" || chs[1].Title != "Setup" || chs[1].StartTime != 65 {
		t.Fatalf("unexpected first chapter: %+v", chs[1])
	}
	if chs[1].Duration == nil || *chs[1].Duration != 55 {
		t.Fatalf("expected duration from end time, got %v", chs[1].Duration)
	}
}

func TestNormalizeMakesIDsUnique(t *testing.T) {
	chs := Normalize([]any{
		map[string]any{"id": "intro", "startTime": 0.0},
		map[string]any{"id": "chapter-3", "startTime": 30.0},
		map[string]any{"id": "intro", "startTime": 60.0},
	})
	if len(chs) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chs))
	}
	if chs[0].ID != "intro" || chs[1].ID != "chapter-3" || chs[2].ID != "chapter-3-2" {
		t.Fatalf("unexpected ids: %s %s %s", chs[0].ID, chs[1].ID, chs[2].ID)
	}
	if IsLast(chs, chs[0]) || !IsLast(chs, chs[2]) {
		t.Fatalf("only the final chapter is last")
	}
}

func TestNormalizeJSONRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "null", "{", `{"x":1}`, `"str"`} {
		if got := NormalizeJSON([]byte(raw)); len(got) != 0 {
			t.Fatalf("%q: expected no chapters, got %v", raw, got)
		}
	}
}

func TestCurrentAt(t *testing.T) {
	chs := sample()
	cases := []struct {
		at   float64
		want string
	}{
		{45, "b"},
		{0, "a"},
		{-1, "a"},
		{30, "b"},
		{500, "c"},
	}
	for _, tc := range cases {
		got, _, ok := CurrentAt(chs, tc.at)
		if !ok || got.ID != tc.want {
			t.Fatalf("CurrentAt(%v) = %s, want %s", tc.at, got.ID, tc.want)
		}
	}
	if _, _, ok := CurrentAt(nil, 3); ok {
		t.Fatalf("expected no chapter for empty list")
	}
}

func TestEndAndIsLast(t *testing.T) {
	chs := sample()
	if got := End(chs, 0, 120); got != 30 {
		t.Fatalf("End(0) = %v, want next start 30", got)
	}
	if got := End(chs, 1, 120); got != 90 {
		t.Fatalf("End(1) = %v, want start+duration 90", got)
	}
	if got := End(chs, 2, 120); got != 120 {
		t.Fatalf("End(2) = %v, want video duration", got)
	}
	if !IsLast(chs, chs[2]) || IsLast(chs, chs[1]) {
		t.Fatalf("IsLast mismatch")
	}
}
