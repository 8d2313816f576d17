package session

import (
	"testing"
	"time"

	"github.com/cineboard/backoffice/internal/seatgrid"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(time.Minute)
	t.Cleanup(s.Close)
	return s
}

func TestCreateAndView(t *testing.T) {
	s := newStore(t)
	grid := seatgrid.New(3, 3, seatgrid.Standard, seatgrid.DefaultLimits())
	sess, err := s.Create(1, 7, grid)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected a session id")
	}

	var hallID uint64
	if err := s.View(sess.ID, 1, func(sess *Session) { hallID = sess.HallID }); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if hallID != 7 {
		t.Fatalf("expected hall 7, got %d", hallID)
	}
}

func TestForeignOperatorCannotTouchSession(t *testing.T) {
	s := newStore(t)
	grid := seatgrid.New(3, 3, seatgrid.Standard, seatgrid.DefaultLimits())
	sess, err := s.Create(1, 7, grid)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := s.View(sess.ID, 2, func(*Session) {}); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for foreign operator, got %v", err)
	}
	if err := s.Delete(sess.ID, 2); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound on foreign delete, got %v", err)
	}
	// the rightful owner still sees it
	if err := s.View(sess.ID, 1, func(*Session) {}); err != nil {
		t.Fatalf("expected owner access to succeed, got %v", err)
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	s := newStore(t)
	grid := seatgrid.New(2, 2, seatgrid.Standard, seatgrid.DefaultLimits())
	sess, err := s.Create(1, 3, grid)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.Delete(sess.ID, 1); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.View(sess.ID, 1, func(*Session) {}); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	s := newStore(t)
	grid := seatgrid.New(2, 2, seatgrid.Standard, seatgrid.DefaultLimits())
	sess, err := s.Create(1, 3, grid)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	s.sweep(time.Now()) // not idle yet
	if s.Len() != 1 {
		t.Fatalf("expected session to survive an early sweep, store has %d", s.Len())
	}

	s.sweep(time.Now().Add(2 * time.Minute))
	if s.Len() != 0 {
		t.Fatalf("expected idle session to be swept, store has %d", s.Len())
	}
	if err := s.View(sess.ID, 1, func(*Session) {}); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after sweep, got %v", err)
	}
}

func TestUpdateMutatesGrid(t *testing.T) {
	s := newStore(t)
	grid := seatgrid.New(3, 3, seatgrid.Standard, seatgrid.DefaultLimits())
	sess, err := s.Create(1, 3, grid)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.Update(sess.ID, 1, func(sess *Session) {
		sess.Grid.PaintCell(2, 2, seatgrid.VIP)
	}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	var got seatgrid.Category
	_ = s.View(sess.ID, 1, func(sess *Session) { got = sess.Grid.CategoryAt(2, 2) })
	if got != seatgrid.VIP {
		t.Fatalf("expected VIP at (2,2), got %v", got)
	}
}
