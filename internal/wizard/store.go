package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps sessions in memory. A session idle for longer than the TTL is
// treated as abandoned and dropped. A TTL of zero keeps sessions forever.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration

	// OnExpire, if set, is called with the id of every dropped session.
	OnExpire func(id string)
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
	}
}

func (s *Store) Create(customerID string, now time.Time) *Session {
	sess := newSession(uuid.NewString(), customerID, now)
	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess, lastSeen: now}
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it as active.
func (s *Store) Get(id string, now time.Time) (*Session, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok && s.expired(e, now) {
		delete(s.sessions, id)
		s.mu.Unlock()
		s.expire(id)
		return nil, ErrSessionNotFound
	}
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	e.lastSeen = now
	s.mu.Unlock()
	return e.session, nil
}

// Sweep drops every expired session and reports how many went.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var gone []string
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			gone = append(gone, id)
		}
	}
	s.mu.Unlock()

	for _, id := range gone {
		s.expire(id)
	}
	return len(gone)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

func (s *Store) expire(id string) {
	if s.OnExpire != nil {
		s.OnExpire(id)
	}
}
