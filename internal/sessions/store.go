package sessions

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/rohads/pkg/lifecycle"
)

// System defines the public contract for session operations.
type System interface {
	Handler(maxUploadSize int64, status StatusFunc) *Handler

	Create() *Session
	Find(id string) (*Session, error)
	Delete(id string) error
	Len() int
	Sweep(now time.Time) int
	Start(lc *lifecycle.Coordinator, interval time.Duration)
}

type store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	idle     time.Duration
	logger   *slog.Logger
}

// New creates an in-memory session System. Sessions untouched for longer
// than idle are evicted by Sweep; a non-positive idle disables eviction.
func New(idle time.Duration, logger *slog.Logger) System {
	return &store{
		sessions: make(map[uuid.UUID]*Session),
		idle:     idle,
		logger:   logger.With("system", "sessions"),
	}
}

func (s *store) Handler(maxUploadSize int64, status StatusFunc) *Handler {
	return NewHandler(s, s.logger, maxUploadSize, status)
}

func (s *store) Create() *Session {
	sess := newSession(time.Now().UTC())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("session created", "id", sess.id)
	return sess
}

func (s *store) Find(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	sess.touch(time.Now().UTC())
	return sess, nil
}

func (s *store) Delete(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[key]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, key)

	s.logger.Info("session deleted", "id", key)
	return nil
}

func (s *store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle since before now minus the idle timeout.
// Sessions with a generation in flight are kept.
func (s *store) Sweep(now time.Time) int {
	if s.idle <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if !sess.idleSince().Before(cutoff) {
			continue
		}
		if sess.TryAcquire() != nil {
			continue
		}
		delete(s.sessions, id)
		sess.Release()
		evicted++
	}

	if evicted > 0 {
		s.logger.Info("idle sessions evicted", "count", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

// Start registers the idle sweep and a shutdown hook that drops every
// session on the coordinator.
func (s *store) Start(lc *lifecycle.Coordinator, interval time.Duration) {
	lc.OnShutdown(func() {
		<-lc.Context().Done()

		s.mu.Lock()
		count := len(s.sessions)
		clear(s.sessions)
		s.mu.Unlock()

		s.logger.Info("sessions released", "count", count)
	})

	if s.idle <= 0 {
		return
	}
	lc.Every(interval, func(now time.Time) {
		s.Sweep(now)
	})
	s.logger.Info("session sweep scheduled", "interval", interval, "idle_timeout", s.idle)
}
