package logger

import "testing"

func TestSanitizeValueRedactsPlaybackSecrets(t *testing.T) {
	for _, key := range []string{"otp", "playback_info", "access_token", "drm_api_secret"} {
		if got := sanitizeValue(key, "value"); got != "[REDACTED]" {
			t.Fatalf("expected %s to be redacted, got %v", key, got)
		}
	}
}

func TestSanitizeValueHashesUserIDs(t *testing.T) {
	got, ok := sanitizeValue("user_id", "0b6b2a5e-8c1f-4c4a-9c1a-3d1f2d7a9b10").(string)
	if !ok || len(got) != len("hash:")+12 || got[:5] != "hash:" {
		t.Fatalf("unexpected hashed value: %v", got)
	}
}

func TestSanitizeValueLeavesPlainFields(t *testing.T) {
	if got := sanitizeValue("section_id", "abc"); got != "abc" {
		t.Fatalf("expected passthrough, got %v", got)
	}
	if got := sanitizeValue("note", "aaaaaaaaaaaa.bbbbbbbbbbbbb.cccc"); got != "[REDACTED]" {
		t.Fatalf("expected jwt-looking value to be redacted, got %v", got)
	}
}

func TestNewTestModeIsUsable(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.With("service", "x").Info("hello", "k", "v")
}
