// Package eventbus provides in-process pub/sub for run events, fanning
// engine progress out to SSE subscribers.
package eventbus

import (
	"sync"

	"github.com/civigen/billforge/model"
)

// Bus delivers run events to subscribers keyed by run ID.
type Bus interface {
	Publish(runID string, event *model.Event)
	Subscribe(runID string) chan *model.Event
	Unsubscribe(runID string, ch chan *model.Event)
}

// InMemoryBus is the default Bus implementation. Slow subscribers drop
// events rather than blocking the publisher; the store keeps the full event
// history for replay.
type InMemoryBus struct {
	mu   sync.RWMutex
	subs map[string][]chan *model.Event
}

// NewInMemoryBus creates an empty in-memory bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{subs: make(map[string][]chan *model.Event)}
}

// Publish sends an event to all subscribers of a run.
func (b *InMemoryBus) Publish(runID string, event *model.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[runID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel for a run.
func (b *InMemoryBus) Subscribe(runID string) chan *model.Event {
	ch := make(chan *model.Event, 64)
	b.mu.Lock()
	b.subs[runID] = append(b.subs[runID], ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (b *InMemoryBus) Unsubscribe(runID string, ch chan *model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[runID]
	for i, c := range subs {
		if c == ch {
			b.subs[runID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(b.subs[runID]) == 0 {
		delete(b.subs, runID)
	}
}
