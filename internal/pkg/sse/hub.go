package sse

import (
	"sync"
)

const subscriberBuffer = 16

// Event is pushed to every dashboard connected for an organization.
type Event struct {
	OrganizationID string `json:"-"`
	Name           string `json:"event"`
	Data           any    `json:"data"`
}

// Hub fans events out to per-organization subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for orgID. The returned cleanup is safe to call more than once.
func (h *Hub) Subscribe(orgID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.subscribers[orgID] == nil {
		h.subscribers[orgID] = make(map[chan Event]struct{})
	}
	h.subscribers[orgID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[orgID], ch)
			close(ch)
			if len(h.subscribers[orgID]) == 0 {
				delete(h.subscribers, orgID)
			}
		})
	}
	return ch, cleanup
}

// Publish delivers event to the subscribers of its organization. Slow
// subscribers with a full buffer miss the event.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.OrganizationID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for orgID.
func (h *Hub) SubscriberCount(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[orgID])
}
