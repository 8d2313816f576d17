package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cineboard/backoffice/internal/backend"
)

type fakeShows struct {
	shows []backend.Show
	err   error
}

func (f *fakeShows) ListShowsByHall(ctx context.Context, hallID uint64) ([]backend.Show, error) {
	return f.shows, f.err
}

type fakeMovies struct {
	durations map[uint64]int
	err       error
	calls     int32
}

func (f *fakeMovies) GetMovie(ctx context.Context, movieID uint64) (*backend.Movie, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.durations[movieID]
	if !ok {
		return nil, errors.New("movie not found")
	}
	return &backend.Movie{ID: movieID, Duration: d}, nil
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

// Hall 1 has a show at 18:00 running 120 minutes; with the 60-minute buffer
// its occupied window is 18:00-21:00.
func existingShowFixture(t *testing.T) (*fakeShows, *fakeMovies) {
	t.Helper()
	shows := &fakeShows{shows: []backend.Show{
		{ID: 10, MovieID: 100, HallID: 1, StartTime: mustTime(t, "2024-01-01T18:00:00Z")},
	}}
	movies := &fakeMovies{durations: map[uint64]int{100: 120}}
	return shows, movies
}

func TestCheckAvailability_OverlapIsConflict(t *testing.T) {
	shows, movies := existingShowFixture(t)
	ch := NewChecker(shows, movies, 60)

	conflict, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-01T20:30:00Z"), 90, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conflict == nil {
		t.Fatal("expected a conflict for a candidate starting inside the occupied window")
	}
	if conflict.ShowID != 10 {
		t.Fatalf("expected conflicting show 10, got %d", conflict.ShowID)
	}
	if !conflict.Start.Equal(mustTime(t, "2024-01-01T18:00:00Z")) || !conflict.End.Equal(mustTime(t, "2024-01-01T21:00:00Z")) {
		t.Fatalf("unexpected occupied window: %s - %s", conflict.Start, conflict.End)
	}
}

func TestCheckAvailability_BackToBackIsFree(t *testing.T) {
	shows, movies := existingShowFixture(t)
	ch := NewChecker(shows, movies, 60)

	// 21:00 sharp: the existing window is half-open, so starting exactly at
	// its end must be allowed.
	conflict, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-01T21:00:00Z"), 90, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conflict != nil {
		t.Fatalf("expected back-to-back slot to be free, got conflict with show %d", conflict.ShowID)
	}
}

func TestCheckAvailability_ContainmentIsConflict(t *testing.T) {
	shows, movies := existingShowFixture(t)
	ch := NewChecker(shows, movies, 60)

	// Candidate 17:00 for 240 min (window 17:00-22:00) fully contains the
	// existing 18:00-21:00 window.
	conflict, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-01T17:00:00Z"), 240, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conflict == nil {
		t.Fatal("expected containment to be reported as a conflict")
	}
}

func TestCheckAvailability_SelfExclusion(t *testing.T) {
	shows, movies := existingShowFixture(t)
	ch := NewChecker(shows, movies, 60)

	// Editing show 10 into its own current slot must not conflict with
	// itself.
	conflict, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-01T18:00:00Z"), 120, 10)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conflict != nil {
		t.Fatalf("expected self-exclusion to allow the slot, got conflict with show %d", conflict.ShowID)
	}
}

func TestCheckAvailability_ShowFetchFailureIsNotOk(t *testing.T) {
	shows := &fakeShows{err: errors.New("backend down")}
	movies := &fakeMovies{}
	ch := NewChecker(shows, movies, 60)

	conflict, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-01T18:00:00Z"), 90, 0)
	if err == nil {
		t.Fatal("expected retrieval failure to surface as an error")
	}
	if conflict != nil {
		t.Fatalf("retrieval failure must not carry a conflict, got %+v", conflict)
	}
}

func TestCheckAvailability_MovieFetchFailureIsNotOk(t *testing.T) {
	shows, _ := existingShowFixture(t)
	movies := &fakeMovies{err: errors.New("movie service down")}
	ch := NewChecker(shows, movies, 60)

	// Candidate far from the existing show: without the duration the
	// checker cannot prove the slot free, so it must fail.
	_, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-02T10:00:00Z"), 90, 0)
	if err == nil {
		t.Fatal("expected movie retrieval failure to surface as an error")
	}
}

func TestCheckAvailability_FirstConflictInBackendOrder(t *testing.T) {
	shows := &fakeShows{shows: []backend.Show{
		{ID: 21, MovieID: 200, HallID: 1, StartTime: mustTime(t, "2024-01-01T10:00:00Z")},
		{ID: 22, MovieID: 200, HallID: 1, StartTime: mustTime(t, "2024-01-01T13:00:00Z")},
	}}
	movies := &fakeMovies{durations: map[uint64]int{200: 120}}
	ch := NewChecker(shows, movies, 60)

	// Candidate 09:00 for 600 min overlaps both; the first in backend order
	// must be the one reported.
	conflict, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-01T09:00:00Z"), 600, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conflict == nil || conflict.ShowID != 21 {
		t.Fatalf("expected first conflict to be show 21, got %+v", conflict)
	}
}

func TestCheckAvailability_DeduplicatesMovieLookups(t *testing.T) {
	shows := &fakeShows{shows: []backend.Show{
		{ID: 31, MovieID: 300, HallID: 1, StartTime: mustTime(t, "2024-01-01T08:00:00Z")},
		{ID: 32, MovieID: 300, HallID: 1, StartTime: mustTime(t, "2024-01-01T12:00:00Z")},
		{ID: 33, MovieID: 301, HallID: 1, StartTime: mustTime(t, "2024-01-01T16:00:00Z")},
	}}
	movies := &fakeMovies{durations: map[uint64]int{300: 90, 301: 90}}
	ch := NewChecker(shows, movies, 60)

	if _, err := ch.CheckAvailability(context.Background(), 1, mustTime(t, "2024-01-02T08:00:00Z"), 90, 0); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := atomic.LoadInt32(&movies.calls); got != 2 {
		t.Fatalf("expected 2 distinct movie lookups, got %d", got)
	}
}

func TestCheckAvailability_EmptyHallIsFree(t *testing.T) {
	ch := NewChecker(&fakeShows{}, &fakeMovies{}, 60)
	conflict, err := ch.CheckAvailability(context.Background(), 9, mustTime(t, "2024-01-01T18:00:00Z"), 90, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if conflict != nil {
		t.Fatalf("expected empty hall to be free, got %+v", conflict)
	}
}
