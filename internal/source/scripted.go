package source

import (
	"sync"
	"time"
)

// Scripted replays a fixed list of samples, then behaves like an idle
// device. It is used to drive the capture worker deterministically.
type Scripted struct {
	mu      sync.Mutex
	pending []Sample
	closed  bool
	drain   bool
	notify  chan struct{}
}

// NewScripted returns a source that yields samples in order.
func NewScripted(samples ...Sample) *Scripted {
	return &Scripted{
		pending: append([]Sample(nil), samples...),
		notify:  make(chan struct{}, 1),
	}
}

// Push appends samples to the script.
func (s *Scripted) Push(samples ...Sample) {
	s.mu.Lock()
	s.pending = append(s.pending, samples...)
	s.mu.Unlock()
	s.wake()
}

// CloseWhenDrained makes Next report ErrSourceClosed once every pending
// sample has been consumed.
func (s *Scripted) CloseWhenDrained() {
	s.mu.Lock()
	s.drain = true
	s.mu.Unlock()
	s.wake()
}

// Remaining returns the number of samples not yet consumed.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Scripted) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Scripted) Next(timeout time.Duration) (Sample, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		s.mu.Lock()
		switch {
		case s.closed:
			s.mu.Unlock()
			return Sample{}, false, ErrSourceClosed
		case len(s.pending) > 0:
			next := s.pending[0]
			s.pending = s.pending[1:]
			s.mu.Unlock()
			if next.At.IsZero() {
				next.At = time.Now()
			}
			return next, true, nil
		case s.drain:
			s.mu.Unlock()
			return Sample{}, false, ErrSourceClosed
		}
		s.mu.Unlock()

		select {
		case <-s.notify:
		case <-timer.C:
			return Sample{}, false, nil
		}
	}
}

func (s *Scripted) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
	return nil
}
