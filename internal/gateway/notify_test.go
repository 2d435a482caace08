package gateway

import (
	"testing"
	"time"
)

func TestNotifierFanOut(t *testing.T) {
	n := NewNotifier()

	var first, second []State
	unsubFirst := n.Subscribe(func(c StateChange) { first = append(first, c.To) })
	n.Subscribe(func(c StateChange) { second = append(second, c.To) })

	n.emit(StateChange{From: StateDisconnected, To: StateConnecting, At: time.Now()})
	n.emit(StateChange{From: StateConnecting, To: StateReady, At: time.Now()})

	for name, got := range map[string][]State{"first": first, "second": second} {
		if len(got) != 2 || got[0] != StateConnecting || got[1] != StateReady {
			t.Errorf("%s listener saw %v", name, got)
		}
	}

	unsubFirst()
	unsubFirst() // double unsubscribe is harmless
	n.emit(StateChange{From: StateReady, To: StateDisconnected, At: time.Now()})

	if len(first) != 2 {
		t.Errorf("Unsubscribed listener still received events: %v", first)
	}
	if len(second) != 3 {
		t.Errorf("Live listener missed an event: %v", second)
	}
}

func TestNotifierNoListeners(t *testing.T) {
	n := NewNotifier()
	// Must not panic with nobody subscribed
	n.emit(StateChange{From: StateDisconnected, To: StateConnecting, At: time.Now()})
}
