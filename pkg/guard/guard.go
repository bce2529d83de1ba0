// Package guard provides a supervisory wrapper that captures failures of a
// computation — returned errors and panics alike — into a tagged result,
// with explicit retry instead of crashing the hosting surface.
package guard

import (
	"fmt"
	"sync"
)

// State tags the outcome of the wrapped computation.
type State int

const (
	// StateOK means the last run completed.
	StateOK State = iota
	// StateFailed means the last run returned an error or panicked.
	StateFailed
)

// Boundary supervises one computation. Safe for concurrent use.
type Boundary[T any] struct {
	mu    sync.Mutex
	fn    func() (T, error)
	state State
	value T
	err   error
	ran   bool
}

// New wraps fn without running it.
func New[T any](fn func() (T, error)) *Boundary[T] {
	return &Boundary[T]{fn: fn}
}

// Run invokes the computation, converting a panic into a Failed state.
// It returns the captured value and error.
func (b *Boundary[T]) Run() (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runLocked()
}

func (b *Boundary[T]) runLocked() (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = fmt.Errorf("panic: %v", r)
			b.state, b.value, b.err = StateFailed, zero, err
		}
		b.ran = true
	}()

	value, err = b.fn()
	if err != nil {
		var zero T
		b.state, b.value, b.err = StateFailed, zero, err
		return value, err
	}
	b.state, b.value, b.err = StateOK, value, nil
	return value, nil
}

// Retry resets the boundary to OK and re-invokes the computation.
func (b *Boundary[T]) Retry() (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state, b.err = StateOK, nil
	return b.runLocked()
}

// State reports the outcome of the last run. A boundary that never ran
// reports StateOK.
func (b *Boundary[T]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err returns the captured error from the last run, or nil.
func (b *Boundary[T]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Value returns the captured value from the last successful run.
func (b *Boundary[T]) Value() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ran || b.state != StateOK {
		var zero T
		return zero, false
	}
	return b.value, true
}
