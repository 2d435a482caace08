package gateway

import (
	"sync"
	"time"
)

// StateChange is delivered to subscribers on every session transition.
type StateChange struct {
	From   State
	To     State
	Reason string
	At     time.Time
}

// Listener receives state changes. Listeners are invoked synchronously on
// the transitioning goroutine, in subscription order relative to a single
// transition, and must not call back into the session.
type Listener func(StateChange)

// Notifier fans state changes out to the presentation layer.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
	order     []int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (n *Notifier) Subscribe(fn Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.order = append(n.order, id)

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// emit delivers one change to every live listener.
func (n *Notifier) emit(change StateChange) {
	n.mu.Lock()
	fns := make([]Listener, 0, len(n.listeners))
	for _, id := range n.order {
		if fn, ok := n.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}
