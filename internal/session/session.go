// Package session keeps the desktops of connected visitors.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/internal/bus"
	"github.com/ItsNotGoodName/portfolio-os/internal/desktop"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// Session is one visitor's desktop.
type Session struct {
	ID      string
	desktop *desktop.Manager
	hub     *bus.Hub[desktop.Snapshot]

	// doMu orders commands with their broadcasts.
	doMu sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) Snapshot() desktop.Snapshot {
	return s.desktop.Snapshot()
}

// Subscribe returns a channel that receives the latest snapshot after every change.
func (s *Session) Subscribe() (<-chan desktop.Snapshot, func()) {
	return s.hub.Subscribe()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idle(now time.Time, timeout time.Duration) bool {
	if s.hub.Len() > 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > timeout
}

type Options struct {
	IdleTimeout time.Duration
	Max         int
	Now         func() time.Time
}

type Registry struct {
	cfg         desktop.Config
	idleTimeout time.Duration
	max         int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cfg desktop.Config, opts Options) *Registry {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		cfg:         cfg,
		idleTimeout: opts.IdleTimeout,
		max:         opts.Max,
		now:         opts.Now,
		sessions:    make(map[string]*Session),
	}
}

// Create starts a new desktop from the configured windows.
func (r *Registry) Create() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max > 0 && len(r.sessions) >= r.max {
		return nil, ErrTooManySessions
	}

	s := &Session{
		ID:       uuid.NewString(),
		desktop:  desktop.NewManager(r.cfg),
		hub:      bus.NewHub[desktop.Snapshot](),
		lastSeen: r.now(),
	}
	r.sessions[s.ID] = s

	slog.Debug("Created session", "package", "session", "id", s.ID)

	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.touch(r.now())
	return s, nil
}

// Do runs fn against the session's desktop and broadcasts the resulting snapshot to
// subscribers. Calls on one session are serialized so subscribers always end on the latest
// snapshot. Nothing is broadcast when fn fails.
func (r *Registry) Do(ctx context.Context, id string, fn func(m *desktop.Manager) error) (desktop.Snapshot, error) {
	s, err := r.Get(id)
	if err != nil {
		return desktop.Snapshot{}, err
	}

	s.doMu.Lock()
	defer s.doMu.Unlock()

	if err := fn(s.desktop); err != nil {
		return desktop.Snapshot{}, err
	}

	snapshot := s.desktop.Snapshot()
	if err := s.hub.Broadcast(ctx, snapshot); err != nil {
		return desktop.Snapshot{}, err
	}

	return snapshot, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Sweep removes sessions that have been idle for longer than the idle timeout and returns
// how many were removed. Sessions with subscribers are never idle.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, s := range r.sessions {
		if s.idle(now, r.idleTimeout) {
			delete(r.sessions, id)
			count++
		}
	}
	return count
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
