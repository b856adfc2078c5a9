// Package notify provides the dashboard notification store: an explicit
// observable object replacing the storefront's module-level toast queue.
// Subscribers get immutable snapshots; the store is injected, never a
// package singleton.
package notify

import (
	"sync"
	"time"
)

// EventType classifies a notification.
type EventType string

const (
	EventOrderCreated  EventType = "order_created"
	EventStatusChanged EventType = "status_changed"
	EventOrderArchived EventType = "order_archived"
	EventOrderRated    EventType = "order_rated"
)

// Event is one dashboard notification. Origin identifies the replica that
// produced the event; the redis bridge uses it to drop its own echoes.
type Event struct {
	Type        EventType `json:"type"`
	OrderID     int64     `json:"orderId,omitempty"`
	OrderNumber string    `json:"orderNumber,omitempty"`
	Status      string    `json:"status,omitempty"`
	Message     string    `json:"message"`
	At          time.Time `json:"at"`
	Origin      string    `json:"origin,omitempty"`
}

// Subscriber receives published events. Callbacks run on the publisher's
// goroutine and must not block.
type Subscriber func(Event)

const defaultHistorySize = 50

// Store is the observable notification store.
type Store struct {
	mu          sync.RWMutex
	subscribers map[int64]Subscriber
	nextID      int64
	history     []Event
	historySize int
}

// NewStore creates an empty store keeping the last 50 events.
func NewStore() *Store {
	return &Store{
		subscribers: make(map[int64]Subscriber),
		historySize: defaultHistorySize,
	}
}

// Publish records the event and fans it out to every subscriber.
func (s *Store) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	s.mu.Lock()
	s.history = append(s.history, event)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
}

// Subscribe registers a subscriber and returns its unsubscribe function.
func (s *Store) Subscribe(sub Subscriber) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = sub
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the retained event history, newest last.
// Mutating the returned slice does not affect the store.
func (s *Store) Snapshot() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.history))
	copy(out, s.history)
	return out
}
