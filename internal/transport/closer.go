package transport

import "sync"

// CloseGuard coordinates Close with the single in-flight blocking
// operation of a resource owned by one goroutine. Closing an idle
// resource releases it immediately; closing while an operation runs
// defers the release until that operation returns, so the underlying
// handle is never destroyed out from under it. Operations carry their
// own timeouts, so a deferred release is bounded by the longest one.
type CloseGuard struct {
	mu      sync.Mutex
	busy    bool
	closed  bool
	release func() error
}

// NewCloseGuard wraps release, the function that frees the resource.
func NewCloseGuard(release func() error) *CloseGuard {
	return &CloseGuard{release: release}
}

// Acquire marks an operation in flight. It returns ErrClosed once Close
// has been called.
func (g *CloseGuard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	g.busy = true
	return nil
}

// Release marks the operation finished and performs a Close that
// arrived while it ran.
func (g *CloseGuard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
	if g.closed && g.release != nil {
		release := g.release
		g.release = nil
		return release()
	}
	return nil
}

// Close is idempotent. When an operation is in flight the release is
// handed off to its Release call and Close returns nil immediately.
func (g *CloseGuard) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	if !g.busy && g.release != nil {
		release := g.release
		g.release = nil
		return release()
	}
	return nil
}
