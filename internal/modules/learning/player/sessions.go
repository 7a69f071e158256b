package player

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursestream-backend/internal/platform/clock"
	"github.com/yungbote/coursestream-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursestream-backend/internal/platform/logger"
)

const (
	DefaultSweepInterval = 30 * time.Second
	DefaultIdleTTL       = 30 * time.Minute
)

// Session is one viewer's playback of one section.
type Session struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	CreatedAt time.Time

	*Orchestrator

	cancel   context.CancelFunc
	mu       sync.Mutex
	lastSeen time.Time
	auth     ctxutil.RequestData
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) stale(now time.Time, idle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idle > 0 && now.Sub(s.lastSeen) > idle {
		return true
	}
	return !s.auth.Fresh(now)
}

// Sessions is the in-memory registry of live playback sessions.
type Sessions struct {
	log      *logger.Logger
	clk      clock.Clock
	deps     Deps
	idleTTL  time.Duration
	interval time.Duration

	mu    sync.Mutex
	items map[uuid.UUID]*Session
}

type SessionsConfig struct {
	SweepInterval time.Duration
	IdleTTL       time.Duration
}

func NewSessions(baseLog *logger.Logger, deps Deps, cfg SessionsConfig) *Sessions {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	log := baseLog.With("component", "PlaybackSessions")
	deps.Log = log
	if deps.Spawn == nil {
		deps.Spawn = func(f func()) {
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error("playback job panic", "panic", r)
					}
				}()
				f()
			}()
		}
	}
	return &Sessions{
		log:      log,
		clk:      deps.Clock,
		deps:     deps,
		idleTTL:  cfg.IdleTTL,
		interval: cfg.SweepInterval,
		items:    map[uuid.UUID]*Session{},
	}
}

// Create opens a session for the authenticated viewer and mounts the player.
// Collaborator calls made on its behalf carry the viewer's request data.
func (r *Sessions) Create(rd ctxutil.RequestData, cfg Config) (*Session, error) {
	if rd.UserID == uuid.Nil {
		return nil, ErrSessionNotFound
	}
	now := r.clk.Now()
	if !rd.Fresh(now) {
		return nil, ErrSessionExpired
	}
	ctx, cancel := context.WithCancel(ctxutil.WithRequestData(context.Background(), &rd))
	s := &Session{
		ID:        uuid.New(),
		OwnerID:   rd.UserID,
		CreatedAt: now,
		cancel:    cancel,
		lastSeen:  now,
		auth:      rd,
	}
	deps := r.deps
	deps.Log = r.log.With("session_id", s.ID.String())
	s.Orchestrator = NewOrchestrator(ctx, cfg, deps)

	r.mu.Lock()
	r.items[s.ID] = s
	r.mu.Unlock()

	s.Mount()
	r.log.Debug("playback session opened", "session_id", s.ID.String(), "user_id", rd.UserID.String())
	return s, nil
}

// Get returns the session if it belongs to owner. Sessions of other users
// are reported as not found.
func (r *Sessions) Get(owner, id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	s, ok := r.items[id]
	r.mu.Unlock()
	if !ok || s.OwnerID != owner {
		return nil, ErrSessionNotFound
	}
	now := r.clk.Now()
	if s.stale(now, r.idleTTL) {
		r.remove(id)
		return nil, ErrSessionExpired
	}
	s.touch(now)
	return s, nil
}

// Focus re-validates the session against fresh request data right away
// instead of waiting for the next sweep, then refreshes cached reads.
func (r *Sessions) Focus(rd ctxutil.RequestData, id uuid.UUID) (*Session, error) {
	s, err := r.Get(rd.UserID, id)
	if err != nil {
		return nil, err
	}
	now := r.clk.Now()
	if !rd.Fresh(now) {
		r.remove(id)
		return nil, ErrSessionExpired
	}
	s.mu.Lock()
	s.auth = rd
	s.mu.Unlock()
	s.Focus()
	return s, nil
}

func (r *Sessions) Close(owner, id uuid.UUID) error {
	r.mu.Lock()
	s, ok := r.items[id]
	r.mu.Unlock()
	if !ok || s.OwnerID != owner {
		return ErrSessionNotFound
	}
	r.remove(id)
	return nil
}

func (r *Sessions) remove(id uuid.UUID) {
	r.mu.Lock()
	s, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	s.Exit()
	s.cancel()
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep closes idle sessions and sessions whose bearer token has expired.
func (r *Sessions) Sweep() int {
	now := r.clk.Now()
	r.mu.Lock()
	var expired []uuid.UUID
	for id, s := range r.items {
		if s.stale(now, r.idleTTL) {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()
	for _, id := range expired {
		r.remove(id)
	}
	if len(expired) > 0 {
		r.log.Debug("swept playback sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps on a fixed interval until ctx is done, then closes everything.
func (r *Sessions) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Sessions) closeAll() {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		r.remove(id)
	}
}
