// Package session keeps the per-browser values that tag search carries between
// requests: the experimenter being browsed and the active group.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-uuid"
)

// CookieName is the cookie holding the session id.
const CookieName = "tagsearch_session"

var ErrNoSuchSession = errors.New("no such session")

// Values are the session values a request reads and writes. A nil field is
// unset.
type Values struct {
	UserID      *int64 `json:"user_id"`
	ActiveGroup *int64 `json:"active_group"`
}

type Session struct {
	ID       string
	Values   Values
	LastSeen time.Time
}

// Store is an in-memory session store. Sessions idle for longer than ttl are
// dropped by Sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts an empty session.
func (s *Store) Create() (*Session, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	sess := &Session{ID: id, LastSeen: s.now()}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return copySession(sess), nil
}

// Get returns a copy of the session and marks it as seen. Expired sessions
// are treated as missing.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNoSuchSession
	}

	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, ErrNoSuchSession
	}

	sess.LastSeen = now
	return copySession(sess), nil
}

// GetOrCreate returns the session for id, or a new one when id is empty,
// unknown or expired.
func (s *Store) GetOrCreate(id string) (*Session, error) {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return sess, nil
		}
	}

	return s.Create()
}

// Save replaces the stored values of the session.
func (s *Store) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[sess.ID]
	if !ok {
		return ErrNoSuchSession
	}

	stored.Values = copyValues(sess.Values)
	stored.LastSeen = s.now()
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// SweepEvery runs Sweep on interval until done is closed.
func (s *Store) SweepEvery(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Debugf("Swept %d expired sessions", n)
			}
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastSeen) > s.ttl
}

func copySession(sess *Session) *Session {
	return &Session{ID: sess.ID, Values: copyValues(sess.Values), LastSeen: sess.LastSeen}
}

func copyValues(v Values) Values {
	return Values{UserID: copyID(v.UserID), ActiveGroup: copyID(v.ActiveGroup)}
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}

	v := *id
	return &v
}

// ID returns a pointer to id for filling in Values.
func ID(id int64) *int64 {
	return &id
}
