// Package readiness provides a one-shot signal used to hold back polling until the
// delivery transport is usable.
package readiness

import (
	"context"
	"sync"
)

// Signal transitions from not-ready to ready exactly once. The zero value is not usable;
// create one with New.
type Signal struct {
	once sync.Once
	done chan struct{}
}

func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire marks the signal ready. Calls after the first are no-ops.
func (s *Signal) Fire() {
	s.once.Do(func() { close(s.done) })
}

// Wait blocks until the signal fires or ctx is done.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fired reports whether Fire has been called.
func (s *Signal) Fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done exposes the underlying channel for select statements.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
