// Package progress broadcasts download-job state changes to admin API
// subscribers.
package progress

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

type Client struct {
	ID   string
	Send chan Event
}

// Hub fans job events out to subscribed clients. Slow subscribers drop
// events rather than blocking the publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Subscribe registers a new client with a buffered event channel.
func (h *Hub) Subscribe() *Client {
	c := &Client{
		ID:   ulid.Make().String(),
		Send: make(chan Event, 64),
	}
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	return c
}

// Unsubscribe removes the client and closes its channel.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.Send)
}

// Publish sends ev to every subscriber. Events get a fresh ID if unset.
func (h *Hub) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = ulid.Make().String()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.Send <- ev:
		default:
			// Subscriber is not keeping up; drop rather than block.
		}
	}
}

// SubscriberCount returns the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
