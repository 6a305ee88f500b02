// Package connectivity exposes a single "is the network reachable" signal.
//
// Observer holds the last known state and pushes transitions to subscribers.
// Prober is the event source: it periodically checks a URL and feeds the
// result into the Observer.
package connectivity

import (
	"sync"

	"hensgen-helper/internal/metrics"
)

type Observer struct {
	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	nextID int
}

// NewObserver also seeds the connectivity_online gauge with initial.
func NewObserver(initial bool) *Observer {
	metrics.SetOnline(initial)
	return &Observer{online: initial, subs: make(map[int]chan bool)}
}

func (o *Observer) Online() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// Set records a connectivity event. Subscribers are notified only when the
// state actually changes. Reports whether it did.
func (o *Observer) Set(online bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	metrics.SetOnline(online)
	if o.online == online {
		return false
	}
	o.online = online
	for _, ch := range o.subs {
		// latest state wins for slow subscribers
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
	return true
}

// Subscribe returns a channel receiving every transition and a cancel func
// that unregisters it. The channel is closed on cancel.
func (o *Observer) Subscribe() (<-chan bool, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	ch := make(chan bool, 1)
	o.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
}
