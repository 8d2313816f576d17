// Package schedule decides whether moving or creating a show in a hall
// would collide with another show already scheduled there.  A show occupies
// the half-open interval [start, start + movie duration + buffer); the
// buffer models cleaning/changeover time between screenings.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cineboard/backoffice/internal/backend"
)

// DefaultBufferMinutes is the stock post-show changeover window.
const DefaultBufferMinutes = 60

// ShowSource lists the shows scheduled in a hall.
type ShowSource interface {
	ListShowsByHall(ctx context.Context, hallID uint64) ([]backend.Show, error)
}

// MovieSource resolves a movie, in particular its duration in minutes.
type MovieSource interface {
	GetMovie(ctx context.Context, movieID uint64) (*backend.Movie, error)
}

// Conflict describes the first show found whose occupied window overlaps
// the candidate's.  Start/End are the conflicting show's occupied window
// including the buffer, for composing an operator-facing message.
type Conflict struct {
	ShowID  uint64
	MovieID uint64
	Start   time.Time
	End     time.Time
}

// Message renders a human-readable description of the blocked window.
func (c *Conflict) Message() string {
	return fmt.Sprintf("hall is occupied by show %d from %s to %s",
		c.ShowID, c.Start.UTC().Format(time.RFC3339), c.End.UTC().Format(time.RFC3339))
}

// Checker performs availability checks against the backend collaborators.
// It is a single-pass, side-effect-free query: no retries, no state.
type Checker struct {
	shows  ShowSource
	movies MovieSource
	buffer time.Duration
}

// NewChecker builds a Checker.  bufferMin <= 0 falls back to the default
// 60-minute changeover buffer.
func NewChecker(shows ShowSource, movies MovieSource, bufferMin int) *Checker {
	if bufferMin <= 0 {
		bufferMin = DefaultBufferMinutes
	}
	return &Checker{
		shows:  shows,
		movies: movies,
		buffer: time.Duration(bufferMin) * time.Minute,
	}
}

// CheckAvailability reports whether a candidate show (hall, start, movie
// duration) can be scheduled.  excludeShowID removes the show being edited
// from the comparison set so it never conflicts with its own prior slot;
// pass 0 when creating a new show.
//
// The returned *Conflict is nil when the slot is free.  A non-nil error
// means a collaborator retrieval failed and the answer is unknown — callers
// must not treat it as "no conflict".
func (ch *Checker) CheckAvailability(ctx context.Context, hallID uint64, start time.Time, durationMin int, excludeShowID uint64) (*Conflict, error) {
	shows, err := ch.shows.ListShowsByHall(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("list shows for hall %d: %w", hallID, err)
	}

	others := shows[:0:0]
	for _, s := range shows {
		if excludeShowID != 0 && s.ID == excludeShowID {
			continue
		}
		others = append(others, s)
	}
	if len(others) == 0 {
		return nil, nil
	}

	durations, err := ch.movieDurations(ctx, others)
	if err != nil {
		return nil, err
	}

	candidateStart := start.UTC()
	candidateEnd := candidateStart.Add(time.Duration(durationMin)*time.Minute + ch.buffer)

	// Scan in backend order and report the first overlap.  The verdict is
	// only reached after every duration lookup resolved, so a partial
	// result can never read as a false "free".
	for _, s := range others {
		otherStart := s.StartTime.UTC()
		otherEnd := otherStart.Add(time.Duration(durations[s.MovieID])*time.Minute + ch.buffer)
		if candidateStart.Before(otherEnd) && candidateEnd.After(otherStart) {
			return &Conflict{ShowID: s.ID, MovieID: s.MovieID, Start: otherStart, End: otherEnd}, nil
		}
	}
	return nil, nil
}

// movieDurations resolves the duration of every distinct movie referenced
// by shows.  The lookups are independent, so they run concurrently; the
// first failure wins and poisons the whole check.
func (ch *Checker) movieDurations(ctx context.Context, shows []backend.Show) (map[uint64]int, error) {
	ids := make([]uint64, 0, len(shows))
	seen := make(map[uint64]struct{}, len(shows))
	for _, s := range shows {
		if _, ok := seen[s.MovieID]; ok {
			continue
		}
		seen[s.MovieID] = struct{}{}
		ids = append(ids, s.MovieID)
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		firstErr  error
		durations = make(map[uint64]int, len(ids))
	)
	for _, id := range ids {
		wg.Add(1)
		go func(movieID uint64) {
			defer wg.Done()
			m, err := ch.movies.GetMovie(ctx, movieID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("fetch movie %d: %w", movieID, err)
				}
				return
			}
			durations[movieID] = m.Duration
		}(id)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return durations, nil
}
