package player

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/platform/clock"
	"github.com/yungbote/coursestream-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

type sessionsHarness struct {
	clk      *clock.Fake
	queue    []func()
	tokens   *fakeTokens
	sessions *Sessions
}

func newSessionsHarness(t *testing.T) *sessionsHarness {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := &sessionsHarness{clk: clock.NewFake(time.Time{}), tokens: &fakeTokens{}}
	h.sessions = NewSessions(log, Deps{
		Clock:  h.clk,
		Spawn:  func(f func()) { h.queue = append(h.queue, f) },
		Tokens: h.tokens,
	}, SessionsConfig{IdleTTL: 10 * time.Minute})
	return h
}

func (h *sessionsHarness) flush() {
	for len(h.queue) > 0 {
		job := h.queue[0]
		h.queue = h.queue[1:]
		job()
	}
}

func (h *sessionsHarness) requestData(ttl time.Duration) ctxutil.RequestData {
	return ctxutil.RequestData{UserID: uuid.New(), ExpiresAt: h.clk.Now().Add(ttl)}
}

func cfgFor() Config {
	return Config{CourseID: uuid.New(), SectionID: uuid.New(), VideoID: "vid", Chapters: testChapters()}
}

func TestSessionsOwnership(t *testing.T) {
	h := newSessionsHarness(t)
	rd := h.requestData(time.Hour)
	s, err := h.sessions.Create(rd, cfgFor())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	h.flush()
	if s.Snapshot().State != StateReady {
		t.Fatalf("expected mounted session, got %s", s.Snapshot().State)
	}
	if _, err := h.sessions.Get(uuid.New(), s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("other users must not see the session, got %v", err)
	}
	got, err := h.sessions.Get(rd.UserID, s.ID)
	if err != nil || got != s {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if err := h.sessions.Close(uuid.New(), s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("other users must not close the session, got %v", err)
	}
	if err := h.sessions.Close(rd.UserID, s.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if h.sessions.Len() != 0 || s.Snapshot().State != StateExiting {
		t.Fatalf("expected closed session")
	}
}

func TestSessionsSweepIdleAndExpired(t *testing.T) {
	h := newSessionsHarness(t)
	idle, _ := h.sessions.Create(h.requestData(time.Hour), cfgFor())
	shortRD := h.requestData(2 * time.Minute)
	short, _ := h.sessions.Create(shortRD, cfgFor())
	activeRD := h.requestData(time.Hour)
	active, _ := h.sessions.Create(activeRD, cfgFor())
	h.flush()

	h.clk.Advance(3 * time.Minute)
	if n := h.sessions.Sweep(); n != 1 {
		t.Fatalf("expected the expired-token session to be swept, got %d", n)
	}
	if _, err := h.sessions.Get(shortRD.UserID, short.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected swept session gone, got %v", err)
	}

	h.clk.Advance(5 * time.Minute)
	if _, err := h.sessions.Get(activeRD.UserID, active.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	h.clk.Advance(6 * time.Minute)
	if n := h.sessions.Sweep(); n != 1 {
		t.Fatalf("expected the idle session to be swept, got %d", n)
	}
	if h.sessions.Len() != 1 || idle.Snapshot().State != StateExiting {
		t.Fatalf("unexpected registry after sweep: len=%d", h.sessions.Len())
	}
}

func TestSessionsFocusRevalidates(t *testing.T) {
	h := newSessionsHarness(t)
	rd := h.requestData(time.Hour)
	s, _ := h.sessions.Create(rd, cfgFor())
	h.flush()

	expired := rd
	expired.ExpiresAt = h.clk.Now().Add(-time.Second)
	if _, err := h.sessions.Focus(expired, s.ID); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected focus with stale auth to expire the session, got %v", err)
	}
	if h.sessions.Len() != 0 {
		t.Fatalf("expected session removed on failed focus")
	}
}

func TestSessionsRejectStaleAuthOnCreate(t *testing.T) {
	h := newSessionsHarness(t)
	rd := h.requestData(-time.Minute)
	if _, err := h.sessions.Create(rd, cfgFor()); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
