package state

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store keeps one conversation per session id. The registry is safe for
// concurrent use; each session is single-writer while acquired.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Session is a locked handle on one conversation, returned by Acquire.
type Session struct {
	id       string
	mu       sync.Mutex
	conv     *Conversation
	lastSeen time.Time
	removed  bool
	store    *Store
}

// NewStore returns a store whose sessions expire after ttl of inactivity.
// A zero ttl disables expiry.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	return NewStoreWithClock(ttl, time.Now, logger)
}

// NewStoreWithClock is NewStore with an injected clock.
func NewStoreWithClock(ttl time.Duration, now func() time.Time, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      now,
		logger:   logger,
	}
}

// Acquire returns the session for id, creating it on first use, and holds
// its lock until Release.
func (s *Store) Acquire(id string) *Session {
	for {
		s.mu.Lock()
		sess, ok := s.sessions[id]
		if !ok {
			sess = &Session{id: id, conv: NewConversation(), lastSeen: s.now(), store: s}
			s.sessions[id] = sess
		}
		s.mu.Unlock()

		sess.mu.Lock()
		if sess.removed {
			// Swept or reset between lookup and lock; take a fresh one.
			sess.mu.Unlock()
			continue
		}
		sess.lastSeen = s.now()
		return sess
	}
}

// ID returns the session id.
func (sess *Session) ID() string {
	return sess.id
}

// Conversation returns a copy of the session's conversation for the caller
// to work on.
func (sess *Session) Conversation() *Conversation {
	return sess.conv.Clone()
}

// Commit replaces the session's conversation.
func (sess *Session) Commit(c *Conversation) {
	sess.conv = c
}

// Release records activity and unlocks the session.
func (sess *Session) Release() {
	sess.lastSeen = sess.store.now()
	sess.mu.Unlock()
}

// Reset discards the session for id. Unknown ids are a no-op; it reports
// whether a session existed.
func (s *Store) Reset(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return false
	}

	sess.mu.Lock()
	sess.removed = true
	sess.mu.Unlock()
	return true
}

// Snapshot returns a copy of the conversation for id without creating it.
func (s *Store) Snapshot(id string) (*Conversation, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.removed {
		return nil, false
	}
	return sess.conv.Clone(), true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// it removed. Sessions in the middle of a turn are left alone.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastSeen.Before(cutoff) {
			sess.removed = true
			delete(s.sessions, id)
			removed++
		}
		sess.mu.Unlock()
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("expired idle sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}
