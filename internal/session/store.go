// Package session holds the in-memory seat-map editing sessions.  Each
// session owns exactly one seat grid for exactly one operator and one hall;
// nothing here is persisted — the backend seat table is the durable state
// and a session is only the scratch space between "open editor" and
// "submit".  Sessions idle past their TTL are swept by a janitor goroutine,
// which doubles as the teardown path for abandoned editors: a swept session
// can no longer receive the result of any in-flight call.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/cineboard/backoffice/internal/seatgrid"
	"github.com/cineboard/backoffice/internal/utils"
)

// ErrSessionNotFound is returned when a session id is unknown, expired, or
// belongs to a different operator.  The three cases are deliberately not
// distinguished to callers.
var ErrSessionNotFound = errors.New("editor session not found")

// Session is one open seat-map editor.
type Session struct {
	ID         string
	OperatorID uint64
	HallID     uint64
	Grid       *seatgrid.Grid
	CreatedAt  time.Time
	lastTouch  time.Time
}

// Store keeps live sessions keyed by id.  All access goes through the
// store's mutex; grid mutations run inside the closure-based accessors so
// two requests against the same session can never interleave.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	closed   bool
}

// NewStore creates a store whose sessions expire after ttl of inactivity
// and starts the sweep goroutine.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Close stops the janitor and drops all sessions.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	s.sessions = make(map[string]*Session)
}

// Create opens a new session owning grid and returns it.
func (s *Store) Create(operatorID, hallID uint64, grid *seatgrid.Grid) (*Session, error) {
	id, err := utils.NewSessionID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sess := &Session{
		ID:         id,
		OperatorID: operatorID,
		HallID:     hallID,
		Grid:       grid,
		CreatedAt:  now,
		lastTouch:  now,
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess, nil
}

// Update runs fn against the session under the store lock and refreshes the
// idle timer.  The session must belong to operatorID.
func (s *Store) Update(id string, operatorID uint64, fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.OperatorID != operatorID {
		return ErrSessionNotFound
	}
	sess.lastTouch = time.Now()
	fn(sess)
	return nil
}

// View is Update for read-only access; it also counts as activity, since an
// operator staring at the grid has not abandoned it.
func (s *Store) View(id string, operatorID uint64, fn func(*Session)) error {
	return s.Update(id, operatorID, fn)
}

// Delete discards a session.  Used on submit and on explicit cancel.
func (s *Store) Delete(id string, operatorID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.OperatorID != operatorID {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-t.C:
			s.sweep(now)
		}
	}
}

// sweep drops every session idle longer than the TTL.
func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastTouch) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
