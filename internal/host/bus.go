package host

import "sync"

// Bus is an in-process EventBus implementation. Hosts that do not already
// have an event mechanism can emit through this one; the bridge only sees
// the EventBus interface.
type Bus struct {
	mu   sync.Mutex
	next Subscription
	subs map[Subscription]busEntry
}

type busEntry struct {
	kind EventKind
	fn   func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Subscription]busEntry)}
}

func (b *Bus) Subscribe(kind EventKind, fn func()) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs[b.next] = busEntry{kind: kind, fn: fn}
	return b.next
}

func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
}

// Emit invokes every handler subscribed to kind. Handlers run on the
// caller's goroutine, outside the bus lock, so a handler may subscribe or
// unsubscribe without deadlocking.
func (b *Bus) Emit(kind EventKind) {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, e := range b.subs {
		if e.kind == kind {
			fns = append(fns, e.fn)
		}
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
