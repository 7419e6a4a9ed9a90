package reflection

import (
	"sync"
	"time"

	"github.com/mendapp/mend/internal/domain"
)

// State is the lifecycle of reflection within one chat session.
type State string

const (
	StateIdle       State = "idle"
	StateFired      State = "fired"
	StateSuppressed State = "suppressed"
)

// Session is the per-session trigger state. The zero value is not usable;
// call NewSession.
type Session struct {
	mu               sync.Mutex
	state            State
	lastAttemptIndex int
	trigger          *domain.ReflectionTrigger
	touched          time.Time
}

// NewSession returns an Idle session.
func NewSession() *Session {
	return &Session{state: StateIdle, lastAttemptIndex: -1}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Trigger returns the trigger that fired in this session, if any.
func (s *Session) Trigger() *domain.ReflectionTrigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trigger
}

func (s *Session) reset() {
	s.state = StateIdle
	s.lastAttemptIndex = -1
	s.trigger = nil
}

// Sessions is a registry of sessions keyed by session id. Sessions idle for
// longer than the configured lifetime are dropped.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*Session
	idle  time.Duration
	now   func() time.Time
}

// DefaultSessionIdle is how long an untouched session is retained.
const DefaultSessionIdle = 6 * time.Hour

const pruneThreshold = 1024

// NewSessions creates a registry. idle <= 0 uses DefaultSessionIdle.
func NewSessions(idle time.Duration) *Sessions {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &Sessions{items: make(map[string]*Session), idle: idle, now: time.Now}
}

// Get returns the session for id, creating an Idle one if needed.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if len(r.items) >= pruneThreshold {
		r.prune(now)
	}
	sess, ok := r.items[id]
	if !ok || now.Sub(sess.touched) > r.idle {
		sess = NewSession()
		r.items[id] = sess
	}
	sess.touched = now
	return sess
}

// Drop forgets the session so the next Get starts fresh.
func (r *Sessions) Drop(id string) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}

// Len returns the number of retained sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Sessions) prune(now time.Time) {
	for id, sess := range r.items {
		if now.Sub(sess.touched) > r.idle {
			delete(r.items, id)
		}
	}
}
