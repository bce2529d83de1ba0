// Package notify implements the process-wide notification channel: a
// time-boxed, capacity-bounded queue of user-visible messages ("toasts").
// A Notifier is constructed once and injected; it is never a package-level
// singleton.
package notify

import (
	"sync"
	"time"
)

// Variant is a toast severity.
type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

// Infinite disables auto-dismiss for a toast.
const Infinite time.Duration = -1

const (
	// DefaultLimit bounds the visible queue depth.
	DefaultLimit = 5
	// DefaultDuration is applied when a toast does not specify one.
	DefaultDuration = 5 * time.Second
)

// Toast is one transient notification.
type Toast struct {
	ID          int64
	Title       string
	Description string
	Variant     Variant
	// Duration zero means DefaultDuration; Infinite means no auto-dismiss.
	Duration time.Duration
}

// Notifier owns the toast queue. All methods are safe for concurrent use;
// queue truncation is applied after each insertion, never mid-insertion.
type Notifier struct {
	mu       sync.Mutex
	nextID   int64
	limit    int
	duration time.Duration
	queue    []Toast
	timers   map[int64]*time.Timer
	closed   bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLimit overrides the maximum queue depth.
func WithLimit(n int) Option {
	return func(nf *Notifier) {
		if n > 0 {
			nf.limit = n
		}
	}
}

// WithDefaultDuration overrides the default auto-dismiss duration.
func WithDefaultDuration(d time.Duration) Option {
	return func(nf *Notifier) {
		if d > 0 {
			nf.duration = d
		}
	}
}

// New creates a Notifier with an empty queue.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		limit:    DefaultLimit,
		duration: DefaultDuration,
		timers:   make(map[int64]*time.Timer),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify enqueues a toast at the front of the queue, assigns it a fresh ID,
// and schedules its auto-dismiss timer unless the duration is Infinite.
// When the queue exceeds its limit the oldest toasts are dropped and their
// timers stopped. Returns the assigned toast ID.
func (n *Notifier) Notify(t Toast) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return 0
	}

	n.nextID++
	t.ID = n.nextID
	if t.Duration == 0 {
		t.Duration = n.duration
	}
	if t.Variant == "" {
		t.Variant = VariantInfo
	}

	n.queue = append([]Toast{t}, n.queue...)
	for len(n.queue) > n.limit {
		dropped := n.queue[len(n.queue)-1]
		n.queue = n.queue[:len(n.queue)-1]
		n.stopTimerLocked(dropped.ID)
	}

	if t.Duration != Infinite {
		id := t.ID
		n.timers[id] = time.AfterFunc(t.Duration, func() { n.Dismiss(id) })
	}

	return t.ID
}

// Dismiss removes a toast immediately, regardless of timer state, and
// cancels any pending timer for it. Dismissing an unknown ID is a no-op.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopTimerLocked(id)
	for i, t := range n.queue {
		if t.ID == id {
			n.queue = append(n.queue[:i], n.queue[i+1:]...)
			return
		}
	}
}

// Active returns a snapshot of the visible queue, newest first.
func (n *Notifier) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Toast, len(n.queue))
	copy(out, n.queue)
	return out
}

// Close empties the queue and cancels every pending timer. Further Notify
// calls are ignored. Close is idempotent.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for id := range n.timers {
		n.stopTimerLocked(id)
	}
	n.queue = nil
}

func (n *Notifier) stopTimerLocked(id int64) {
	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
}
