package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PLAYBACK_SWEEP_INTERVAL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PLAYBACK_IDLE_TTL", "")
	t.Setenv("OTEL_SAMPLER_RATIO", "")
	cfg := LoadConfig(nil)
	if cfg.Port != "8080" || cfg.Redis.Addr != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Playback.SweepInterval != 30*time.Second || cfg.Playback.IdleTTL != 30*time.Minute {
		t.Fatalf("unexpected playback defaults: %+v", cfg.Playback)
	}
	if cfg.Otel.SampleRatio != 0.1 {
		t.Fatalf("unexpected sample ratio: %v", cfg.Otel.SampleRatio)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PLAYBACK_IDLE_TTL", "10m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "api-key=abc")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := LoadConfig(nil)
	if cfg.Playback.IdleTTL != 10*time.Minute {
		t.Fatalf("idle ttl: %v", cfg.Playback.IdleTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}
	if cfg.Otel.Headers["api-key"] != "abc" || !cfg.OpenAIKeySet {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestQuizPolicyTierMessages(t *testing.T) {
	t.Setenv("QUIZ_TIER_MESSAGES", "good=Solid work.;outstanding=Top marks!")
	policy, err := quizPolicy(LoadConfig(nil))
	if err != nil {
		t.Fatalf("quizPolicy: %v", err)
	}
	if got := policy.TierFor(75).Message; got != "Solid work." {
		t.Fatalf("good tier message: %q", got)
	}
	if got := policy.TierFor(95).Message; got != "Top marks!" {
		t.Fatalf("outstanding tier message: %q", got)
	}
	if got := policy.TierFor(85).Name; got != "excellent" {
		t.Fatalf("tiers changed: %q", got)
	}
}
