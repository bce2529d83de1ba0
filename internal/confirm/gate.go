// Package confirm implements the confirmation gate: a one-shot yes/no
// question that suspends the caller until the user (or the hosting surface)
// resolves it. Requests queue FIFO: a second Confirm while one is pending
// waits its turn and never drops the earlier caller.
package confirm

import (
	"context"
	"sync"
)

// Options describes one confirmation request.
type Options struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
}

type request struct {
	opts Options
	done chan bool
}

// Gate coordinates confirmation requests. The zero value is not usable;
// construct with New. Safe for concurrent use.
type Gate struct {
	mu      sync.Mutex
	pending []*request
	closed  bool
}

// New creates a Gate with no pending requests.
func New() *Gate {
	return &Gate{}
}

// Confirm enqueues a request and blocks until it is resolved.
// Resolution paths: Resolve(true) → true; Resolve(false) → false;
// gate Close or context cancellation → false (treated as cancel).
func (g *Gate) Confirm(ctx context.Context, opts Options) bool {
	if opts.ConfirmLabel == "" {
		opts.ConfirmLabel = "Aceptar"
	}
	if opts.CancelLabel == "" {
		opts.CancelLabel = "Cancelar"
	}

	req := &request{opts: opts, done: make(chan bool, 1)}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return false
	}
	g.pending = append(g.pending, req)
	g.mu.Unlock()

	select {
	case answer := <-req.done:
		return answer
	case <-ctx.Done():
		g.drop(req)
		return false
	}
}

// Pending returns the options of the request at the head of the queue,
// the one the hosting surface should render, and false when none is pending.
func (g *Gate) Pending() (Options, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.pending) == 0 {
		return Options{}, false
	}
	return g.pending[0].opts, true
}

// Resolve answers the head request and promotes the next one. Resolving
// with nothing pending is a no-op and returns false.
func (g *Gate) Resolve(answer bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.pending) == 0 {
		return false
	}
	head := g.pending[0]
	g.pending = g.pending[1:]
	head.done <- answer
	return true
}

// Close force-resolves every pending request to false. Confirm calls after
// Close return false immediately. Close is idempotent.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	for _, req := range g.pending {
		req.done <- false
	}
	g.pending = nil
}

// drop removes a request whose caller gave up (context cancelled) so the
// surface does not render a question nobody is waiting on.
func (g *Gate) drop(req *request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, p := range g.pending {
		if p == req {
			g.pending = append(g.pending[:i], g.pending[i+1:]...)
			return
		}
	}
}
