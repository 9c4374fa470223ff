// Package poll runs fixed-interval refresh loops with last-started-wins
// snapshot semantics.
package poll

import (
	"context"
	"sync"
	"time"
)

// Stream repeatedly calls fetch on a fixed interval and keeps the latest
// snapshot. Each issued fetch carries a monotonically increasing
// generation token; a completed fetch is applied only if its token is
// still the latest issued, so a slow response can never overwrite the
// result of a fetch started after it. In-flight fetches are not aborted
// on Stop, their results are simply ignored.
//
// A failed cycle keeps the previous snapshot and records the error; the
// next successful cycle clears it. The timer never stops on failure.
type Stream[T any] struct {
	interval time.Duration
	fetch    func(context.Context) (T, error)

	mu       sync.Mutex
	latest   T
	hasValue bool
	lastErr  error
	issued   uint64

	cancel context.CancelFunc
	done   chan struct{}
}

func NewStream[T any](interval time.Duration, fetch func(context.Context) (T, error)) *Stream[T] {
	return &Stream[T]{interval: interval, fetch: fetch}
}

// Start begins polling: one fetch immediately, then one per interval.
// The stream stops when ctx is canceled or Stop is called.
func (s *Stream[T]) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.launch(ctx)
		for {
			select {
			case <-ticker.C:
				s.launch(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Stream[T]) launch(ctx context.Context) {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	go func() {
		value, err := s.fetch(ctx)
		s.apply(gen, value, err)
	}()
}

func (s *Stream[T]) apply(gen uint64, value T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued {
		// superseded by a later fetch
		return
	}
	if err != nil {
		s.lastErr = err
		return
	}
	s.latest = value
	s.hasValue = true
	s.lastErr = nil
}

// Latest returns the most recent successful snapshot, if any.
func (s *Stream[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasValue
}

// Err returns the error of the last completed cycle, nil after a
// successful one.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Stop halts the ticker. Safe to call more than once.
func (s *Stream[T]) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
