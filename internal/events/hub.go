package events

import "sync"

const defaultBuffer = 10

// Hub fans messages out to SSE subscribers. Slow subscribers miss messages
// instead of blocking publishers.
type Hub struct {
	mu      sync.Mutex
	buffer  int
	clients map[chan string]struct{}
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{buffer: defaultBuffer, clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, h.buffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			h.dropped++
		}
	}
}

// Stats reports current subscribers and messages dropped so far.
func (h *Hub) Stats() (subscribers int, dropped uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients), h.dropped
}
